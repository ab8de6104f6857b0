// Package config holds the tunable weights and thresholds of the risk heuristic.
package config

import (
	"fmt"
	"strings"
)

// Output formats.
const (
	TextOutput  = "text"
	JSONOutput  = "json"
	TableOutput = "table"
)

// Default values for configuration.
const (
	DefaultLargePullRequestLines   = 500
	DefaultClosedPullRequestWindow = 50
	DefaultMediumThreshold         = 25.0
	DefaultHighThreshold           = 50.0
	DefaultHotspotPercentile       = 90.0
)

// Weights are the coefficients of the linear risk score.
// ModifiedFiles and ModifiedFilesCount both apply to the number of distinct modified
// files; they are kept apart so the score stays comparable with earlier reports.
type Weights struct {
	Contributors       float64 `mapstructure:"contributors"`
	OpenPulls          float64 `mapstructure:"open-pulls"`
	ModifiedFiles      float64 `mapstructure:"modified-files"`
	MergeConflicts     float64 `mapstructure:"merge-conflicts"`
	LargePulls         float64 `mapstructure:"large-pulls"`
	ModifiedFilesCount float64 `mapstructure:"modified-files-count"`
	CommitHistory      float64 `mapstructure:"commit-history"`
}

// Config holds the runtime configuration for the analysis.
type Config struct {
	Weights                 Weights `mapstructure:"weights"`
	LargePullRequestLines   int     `mapstructure:"large-pull-request-lines"`
	ClosedPullRequestWindow int     `mapstructure:"closed-pull-request-window"`
	MediumThreshold         float64 `mapstructure:"medium-threshold"`
	HighThreshold           float64 `mapstructure:"high-threshold"`
	// LegacyHistoryOrdering scores the report before the commit history size is
	// known, so the history term always contributes zero.
	LegacyHistoryOrdering bool    `mapstructure:"legacy-history-ordering"`
	Output                string  `mapstructure:"output"`
	HotspotPercentile     float64 `mapstructure:"hotspot-percentile"`
}

// DefaultWeights returns the stock score coefficients.
func DefaultWeights() Weights {
	return Weights{
		Contributors:       0.5,
		OpenPulls:          1.0,
		ModifiedFiles:      0.2,
		MergeConflicts:     3.0,
		LargePulls:         2.0,
		ModifiedFilesCount: 0.1,
		CommitHistory:      0.01,
	}
}

// Default returns a Config populated with the stock heuristic parameters.
func Default() *Config {
	return &Config{
		Weights:                 DefaultWeights(),
		LargePullRequestLines:   DefaultLargePullRequestLines,
		ClosedPullRequestWindow: DefaultClosedPullRequestWindow,
		MediumThreshold:         DefaultMediumThreshold,
		HighThreshold:           DefaultHighThreshold,
		Output:                  TextOutput,
		HotspotPercentile:       DefaultHotspotPercentile,
	}
}

// Validate checks the configuration and normalizes the output format.
func (c *Config) Validate() error {
	w := c.Weights
	weights := map[string]float64{
		"contributors":         w.Contributors,
		"open-pulls":           w.OpenPulls,
		"modified-files":       w.ModifiedFiles,
		"merge-conflicts":      w.MergeConflicts,
		"large-pulls":          w.LargePulls,
		"modified-files-count": w.ModifiedFilesCount,
		"commit-history":       w.CommitHistory,
	}
	for name, v := range weights {
		if v < 0 {
			return fmt.Errorf("weight %s must not be negative (received %g)", name, v)
		}
	}

	if c.LargePullRequestLines <= 0 {
		return fmt.Errorf("large-pull-request-lines must be greater than 0 (received %d)", c.LargePullRequestLines)
	}
	if c.ClosedPullRequestWindow <= 0 {
		return fmt.Errorf("closed-pull-request-window must be greater than 0 (received %d)", c.ClosedPullRequestWindow)
	}
	if c.MediumThreshold <= 0 {
		return fmt.Errorf("medium-threshold must be greater than 0 (received %g)", c.MediumThreshold)
	}
	if c.HighThreshold <= c.MediumThreshold {
		return fmt.Errorf("high-threshold (%g) must be greater than medium-threshold (%g)", c.HighThreshold, c.MediumThreshold)
	}

	c.Output = strings.ToLower(c.Output)
	switch c.Output {
	case TextOutput, JSONOutput, TableOutput:
	default:
		return fmt.Errorf("invalid output format '%s'. must be text, json, table", c.Output)
	}

	if c.HotspotPercentile <= 0 || c.HotspotPercentile > 100 {
		return fmt.Errorf("hotspot-percentile must be in (0, 100] (received %g)", c.HotspotPercentile)
	}
	return nil
}
