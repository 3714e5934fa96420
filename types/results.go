package types

// ResultMetadata accompanies every converted value so consumers can label it
// without a second lookup.
type ResultMetadata struct {
	Units         string `json:"units"`
	DisplayFormat string `json:"displayFormat"`
	Description   string `json:"description,omitempty"`
	OriginalUnits string `json:"originalUnits,omitempty"`
	DisplayName   string `json:"displayName,omitempty"`
}

// ConversionResult is the outcome of converting one path value: the converted
// value in the target unit, its formatted human-readable form, the untouched
// original, and labeling metadata. Ephemeral, recomputed per call.
type ConversionResult struct {
	Converted any            `json:"converted"`
	Formatted string         `json:"formatted"`
	Original  any            `json:"original"`
	Metadata  ResultMetadata `json:"metadata"`

	// PassThrough marks a result whose value was not converted, whether or
	// not a literal unit string could be reported for it. Not part of the
	// wire format.
	PassThrough bool `json:"-"`
}

// ConversionResponse describes the conversion that would be applied to a path
// without converting any value (the metadata-only request surface).
type ConversionResponse struct {
	Path          string `json:"path"`
	BaseUnit      string `json:"baseUnit"`
	TargetUnit    string `json:"targetUnit"`
	Category      string `json:"category"`
	Formula       string `json:"formula,omitempty"`
	InverseFormula string `json:"inverseFormula,omitempty"`
	Symbol        string `json:"symbol"`
	DisplayFormat string `json:"displayFormat"`
	ValueType     string `json:"valueType"`
	DateFormat    string `json:"dateFormat,omitempty"`
	UseLocalTime  bool   `json:"useLocalTime,omitempty"`
}

// UnitValueResult is the outcome of an ad-hoc base-unit to target-unit
// conversion independent of any path.
type UnitValueResult struct {
	ConvertedValue any    `json:"convertedValue"`
	Formatted      string `json:"formatted"`
	Symbol         string `json:"symbol"`
	DisplayFormat  string `json:"displayFormat"`
	ValueType      string `json:"valueType"`
	DateFormat     string `json:"dateFormat,omitempty"`
	UseLocalTime   bool   `json:"useLocalTime,omitempty"`
}
