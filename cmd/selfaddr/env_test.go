package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseBool(t *testing.T) {
	for _, s := range []string{"true", "1", "YES", " on "} {
		assert.True(t, parseBool(s), s)
	}
	for _, s := range []string{"", "0", "off", "nope"} {
		assert.False(t, parseBool(s), s)
	}
}

func TestSplitAndTrim(t *testing.T) {
	assert.Equal(t, []string{"https://a.test", "https://b.test"}, splitAndTrim(" https://a.test, ,https://b.test ", ","))
	assert.Empty(t, splitAndTrim("", ","))
}

func TestEnvOptions(t *testing.T) {
	t.Setenv(envEchoEndpoints, "https://a.test")
	t.Setenv(envNATPMP, "true")
	assert.Len(t, envOptions(), 2)
}
