package types

import "time"

// Delta is the wire shape of a telemetry update: one or more update blocks,
// each carrying path/value pairs observed at the same instant.
type Delta struct {
	Context string        `json:"context,omitempty"`
	Updates []DeltaUpdate `json:"updates"`
}

// DeltaUpdate is one timestamped batch of path values within a Delta.
type DeltaUpdate struct {
	Timestamp time.Time        `json:"timestamp,omitempty"`
	Source    string           `json:"$source,omitempty"`
	Values    []DeltaPathValue `json:"values"`
}

// DeltaPathValue is a single path/value observation.
type DeltaPathValue struct {
	Path  string `json:"path"`
	Value any    `json:"value"`
}

// ConvertedDelta mirrors Delta but carries converted values with their
// formatting metadata in place of the raw canonical values.
type ConvertedDelta struct {
	Context string                 `json:"context,omitempty"`
	Updates []ConvertedDeltaUpdate `json:"updates"`
}

// ConvertedDeltaUpdate is one batch of converted path values.
type ConvertedDeltaUpdate struct {
	Timestamp time.Time             `json:"timestamp,omitempty"`
	Source    string                `json:"$source,omitempty"`
	Values    []ConvertedPathValue  `json:"values"`
}

// ConvertedPathValue pairs a path with its conversion result.
type ConvertedPathValue struct {
	Path   string           `json:"path"`
	Result ConversionResult `json:"result"`
}
