package globaladdr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())

	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"连接超时为零", func(c *Config) { c.ConnectTimeout = 0 }},
		{"读取超时为负", func(c *Config) { c.ReadTimeout = -1 }},
		{"接收超时为零", func(c *Config) { c.ReceiveTimeout = 0 }},
		{"NAT-PMP 超时为零", func(c *Config) { c.EnableNATPMP = true; c.NATPMPTimeout = 0 }},
		{"UPnP 超时为零", func(c *Config) { c.EnableUPnP = true; c.UPnPTimeout = 0 }},
		{"非 HTTP 协议", func(c *Config) { c.Endpoints = []string{"ftp://example.com"} }},
		{"缺少主机", func(c *Config) { c.Endpoints = []string{"https://"} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestConfig_EmptyEndpointsValid(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Endpoints = nil
	assert.NoError(t, cfg.Validate(), "没有回显服务时发现结果为空，但配置合法")
}

func TestDefaultConfig_CopiesEndpoints(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Endpoints[0] = "https://changed.example"
	assert.NotEqual(t, "https://changed.example", DefaultEndpoints[0])
}

func TestValidateEndpoint(t *testing.T) {
	assert.NoError(t, ValidateEndpoint("https://api.ipify.org"))
	assert.NoError(t, ValidateEndpoint("http://127.0.0.1:8080/ip"))
	assert.Error(t, ValidateEndpoint("ftp://example.com"))
	assert.Error(t, ValidateEndpoint("https://"))
	assert.Error(t, ValidateEndpoint("://bad"))
}
