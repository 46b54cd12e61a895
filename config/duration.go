package config

import (
	"encoding/json"
	"fmt"
	"time"
)

// Duration 可以用 "20s" 这类字符串写在 JSON 里的 time.Duration
//
// 同时实现 flag.Value，命令行参数可以直接绑定到配置字段：
//
//	flag.Var(&cfg.Discovery.ConnectTimeout, "connect-timeout", "echo connect timeout")
//
// JSON 中也接受纳秒整数。
type Duration time.Duration

// UnmarshalJSON 实现 json.Unmarshaler
func (d *Duration) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		return d.Set(s)
	}

	var n int64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("duration must be a string (e.g. \"20s\") or nanoseconds: %w", err)
	}
	*d = Duration(n)
	return nil
}

// MarshalJSON 实现 json.Marshaler，输出 "20s" 形式
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// Set 实现 flag.Value
func (d *Duration) Set(s string) error {
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(v)
	return nil
}

// Duration 返回 time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// String 实现 flag.Value
func (d Duration) String() string {
	return time.Duration(d).String()
}
