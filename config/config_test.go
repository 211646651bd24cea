package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const defaultConfig = `
debug:			false
origin_branch:	origin
line_max_bytes:	256
`

func checkValue(t *testing.T, fieldname string, val string, expected string) {
	if val != expected {
		t.Fatalf("Error parsing %s, expected '%v' got '%v'", fieldname, expected, val)
	}
}

func TestValidConfig(t *testing.T) {
	cfg := loadOrFail(t, defaultConfig)
	checkValue(t, "OriginBranch", cfg.OriginBranch, "origin")
	assert.Equal(t, 256, cfg.LineMaxBytes)
	assert.False(t, cfg.Debug)
}

func TestEmptyConfigUsesDefaults(t *testing.T) {
	cfg := loadOrFail(t, "")
	checkValue(t, "OriginBranch", cfg.OriginBranch, DefaultOriginBranch)
	assert.Equal(t, DefaultLineMaxBytes, cfg.LineMaxBytes)
}

func TestDebugFlag(t *testing.T) {
	cfg := loadOrFail(t, "debug: true\n")
	assert.True(t, cfg.Debug)
}

func TestCustomOriginBranch(t *testing.T) {
	cfg := loadOrFail(t, "origin_branch: trunk\n")
	checkValue(t, "OriginBranch", cfg.OriginBranch, "trunk")
}

func TestRejectsEmptyOriginBranch(t *testing.T) {
	ensureFail(t, "origin_branch: \"\"\n", "empty origin_branch")
}

func TestRejectsNonPositiveLineMaxBytes(t *testing.T) {
	ensureFail(t, "line_max_bytes: 0\n", "non-positive line_max_bytes")
}

func TestMarshalUnmarshalRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Debug = true
	cfg.OriginBranch = "trunk"
	cfg.LineMaxBytes = 512

	data, err := Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	got := loadOrFail(t, string(data))
	assert.Equal(t, cfg, got)
}

func ensureFail(t *testing.T, cfgString string, desc string) {
	_, err := Unmarshal([]byte(cfgString))
	if err == nil {
		t.Fatalf("Expected config err not found: %s", desc)
	}
	t.Logf("Config err: %v", err.Error())
}

func loadOrFail(t *testing.T, cfgString string) *Config {
	cfg, err := Unmarshal([]byte(cfgString))
	if err != nil {
		t.Fatalf("Failed to read config: %v", err.Error())
	}
	return cfg
}
