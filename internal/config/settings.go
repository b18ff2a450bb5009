// ABOUTME: Reader settings consumed read-only by the feed view engine
// ABOUTME: Prediction filter toggle and threshold, clustering mode

package config

import "math"

// Settings are the user-facing reader preferences. The engine receives them
// as a value and never mutates them.
type Settings struct {
	FilterPrediction          bool    `json:"filter_prediction"`
	FilterPredictionThreshold float64 `json:"filter_prediction_threshold"`
	UseClusters               bool    `json:"use_clusters"`
}

// DefaultSettings returns the settings used on first run.
func DefaultSettings() Settings {
	return Settings{
		FilterPrediction:          DefaultFilterPrediction,
		FilterPredictionThreshold: DefaultFilterPredictionThreshold,
		UseClusters:               DefaultUseClusters,
	}
}

// Normalized returns a copy with the threshold clamped to [-1, 1].
func (s Settings) Normalized() Settings {
	s.FilterPredictionThreshold = ClampThreshold(s.FilterPredictionThreshold)
	return s
}

// ClampThreshold clamps a prediction threshold to [-1, 1].
func ClampThreshold(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return 0
	case v < -1:
		return -1
	case v > 1:
		return 1
	default:
		return v
	}
}
