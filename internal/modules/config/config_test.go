package config

import (
	"testing"
	"time"
)

func TestBoolFromEnv(t *testing.T) {
	tests := []struct {
		name string
		val  string
		def  bool
		want bool
	}{
		{"unset keeps default", "", true, true},
		{"true", "true", false, true},
		{"one", "1", false, true},
		{"false overrides default", "false", true, false},
		{"zero overrides default", "0", true, false},
		{"garbage keeps default", "yes", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.val != "" {
				t.Setenv("TEST_BOOL", tt.val)
			}
			if got := boolFromEnv("TEST_BOOL", tt.def); got != tt.want {
				t.Errorf("boolFromEnv(%q, %v) = %v, want %v", tt.val, tt.def, got, tt.want)
			}
		})
	}
}

func TestNumericEnvHelpers(t *testing.T) {
	t.Setenv("TEST_INT", "7")
	if got := intFromEnv("TEST_INT", 1); got != 7 {
		t.Errorf("intFromEnv = %d, want 7", got)
	}
	if got := intFromEnv("TEST_INT_MISSING", 3); got != 3 {
		t.Errorf("intFromEnv default = %d, want 3", got)
	}

	t.Setenv("TEST_FLOAT", "0.25")
	if got := floatFromEnv("TEST_FLOAT", 1.0); got != 0.25 {
		t.Errorf("floatFromEnv = %v, want 0.25", got)
	}

	t.Setenv("TEST_DUR", "45s")
	if got := durationFromEnv("TEST_DUR", "1s"); got != 45*time.Second {
		t.Errorf("durationFromEnv = %v, want 45s", got)
	}
}
