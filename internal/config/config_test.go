package config

import (
	"testing"
)

func TestDefault_Values(t *testing.T) {
	c := Default()
	if c == nil {
		t.Fatal("Default() returned nil")
	}
	if c.Host != "127.0.0.1" {
		t.Errorf("Host = %v, want 127.0.0.1", c.Host)
	}
	if c.Port != 13380 {
		t.Errorf("Port = %v, want 13380", c.Port)
	}
	if c.MaxIterations != 50 {
		t.Errorf("MaxIterations = %v, want 50", c.MaxIterations)
	}
	if c.NodeLimit != 20000 {
		t.Errorf("NodeLimit = %v, want 20000", c.NodeLimit)
	}
	if c.HistoryLimit != 500 {
		t.Errorf("HistoryLimit = %v, want 500", c.HistoryLimit)
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("BEAMCUT_HOST", "0.0.0.0")
	t.Setenv("BEAMCUT_PORT", "9090")
	t.Setenv("BEAMCUT_MAX_ITERATIONS", "120")

	c := FromEnv()
	if c.Host != "0.0.0.0" {
		t.Errorf("Host = %v, want 0.0.0.0", c.Host)
	}
	if c.Port != 9090 {
		t.Errorf("Port = %v, want 9090", c.Port)
	}
	if c.MaxIterations != 120 {
		t.Errorf("MaxIterations = %v, want 120", c.MaxIterations)
	}
	// Untouched keys keep defaults.
	if c.NodeLimit != 20000 {
		t.Errorf("NodeLimit = %v, want default 20000", c.NodeLimit)
	}
}

func TestFromEnv_IgnoresMalformed(t *testing.T) {
	t.Setenv("BEAMCUT_PORT", "not-a-number")
	t.Setenv("BEAMCUT_NODE_LIMIT", "-3")

	c := FromEnv()
	if c.Port != 13380 {
		t.Errorf("Port = %v, want default 13380", c.Port)
	}
	if c.NodeLimit != 20000 {
		t.Errorf("NodeLimit = %v, want default 20000", c.NodeLimit)
	}
}
