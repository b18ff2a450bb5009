// ABOUTME: Tests for configuration defaults
// ABOUTME: Verifies constants are properly defined

package config

import (
	"testing"
	"time"
)

func TestDefaultHTTPTimeout(t *testing.T) {
	if DefaultHTTPTimeout != 15*time.Second {
		t.Errorf("expected 15s, got %v", DefaultHTTPTimeout)
	}
}

func TestDisplayConstants(t *testing.T) {
	if DisplayIDLength <= 0 {
		t.Error("DisplayIDLength should be positive")
	}
	if SnippetLength <= 0 {
		t.Error("SnippetLength should be positive")
	}
}

func TestDefaultThresholdInRange(t *testing.T) {
	if DefaultFilterPredictionThreshold < -1 || DefaultFilterPredictionThreshold > 1 {
		t.Errorf("default threshold %v outside [-1, 1]", DefaultFilterPredictionThreshold)
	}
}
