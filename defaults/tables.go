package defaults

import "github.com/motamman/signalk-units-preference-sub000/types"

// Canonical base unit names. Raw telemetry is always expressed in these.
const (
	BaseSpeed       = "m/s"
	BaseTemperature = "K"
	BasePressure    = "Pa"
	BaseAngle       = "rad"
	BaseAngularVel  = "rad/s"
	BaseMeters      = "m"
	BaseCubicMeters = "m3"
	BaseVolumeRate  = "m3/s"
	BaseRatio       = "ratio"
	BaseVolts       = "V"
	BaseAmps        = "A"
	BaseHertz       = "Hz"
	BaseJoules      = "J"
	BaseWatts       = "W"
	BaseSeconds     = "s"
	BaseRFC3339     = "RFC 3339 (UTC)"
	BaseEpochSec    = "Epoch Seconds"
	BaseEpochMillis = "Epoch Milliseconds"
)

// categoryDef ties a category name to its canonical base unit.
type categoryDef struct {
	baseUnit    string
	description string
}

// builtinCategories is the physical-quantity taxonomy. Several categories
// deliberately share a base unit (speed/windSpeed, depth/distance); the
// resolver disambiguates per path.
var builtinCategories = map[string]categoryDef{
	"speed":           {BaseSpeed, "vessel speed"},
	"windSpeed":       {BaseSpeed, "wind speed"},
	"temperature":     {BaseTemperature, "temperature"},
	"pressure":        {BasePressure, "atmospheric and fluid pressure"},
	"angle":           {BaseAngle, "heading, bearing, attitude"},
	"angularVelocity": {BaseAngularVel, "rate of turn"},
	"distance":        {BaseMeters, "horizontal distance"},
	"depth":           {BaseMeters, "water depth"},
	"volume":          {BaseCubicMeters, "tank volume"},
	"volumeRate":      {BaseVolumeRate, "flow rate"},
	"ratio":           {BaseRatio, "dimensionless ratio"},
	"voltage":         {BaseVolts, "electrical potential"},
	"current":         {BaseAmps, "electrical current"},
	"frequency":       {BaseHertz, "rotational frequency"},
	"energy":          {BaseJoules, "energy"},
	"power":           {BaseWatts, "power"},
	"duration":        {BaseSeconds, "elapsed time"},
	"dateTime":        {BaseRFC3339, "instant in time"},
	"timestamp":       {BaseEpochSec, "epoch timestamp"},
}

// builtinConversions are the built-in conversion tables keyed by base unit.
// These are data, not code: the store may overlay custom definitions at
// runtime and custom wins on key collision.
var builtinConversions = map[string]map[string]types.ConversionDefinition{
	BaseSpeed: {
		"knots": {Formula: "value * 1.94384", InverseFormula: "value / 1.94384", Symbol: "kn", LongName: "Knots"},
		"km/h":  {Formula: "value * 3.6", InverseFormula: "value / 3.6", Symbol: "km/h", LongName: "Kilometers per hour"},
		"mph":   {Formula: "value * 2.23694", InverseFormula: "value / 2.23694", Symbol: "mph", LongName: "Miles per hour"},
	},
	BaseTemperature: {
		"celsius":    {Formula: "value - 273.15", InverseFormula: "value + 273.15", Symbol: "°C", LongName: "Celsius"},
		"fahrenheit": {Formula: "(value - 273.15) * 9 / 5 + 32", InverseFormula: "(value - 32) * 5 / 9 + 273.15", Symbol: "°F", LongName: "Fahrenheit"},
	},
	BasePressure: {
		"hPa":  {Formula: "value / 100", InverseFormula: "value * 100", Symbol: "hPa", LongName: "Hectopascals"},
		"mbar": {Formula: "value / 100", InverseFormula: "value * 100", Symbol: "mbar", LongName: "Millibars"},
		"inHg": {Formula: "value / 3386.389", InverseFormula: "value * 3386.389", Symbol: "inHg", LongName: "Inches of mercury"},
		"mmHg": {Formula: "value / 133.322", InverseFormula: "value * 133.322", Symbol: "mmHg", LongName: "Millimeters of mercury"},
		"psi":  {Formula: "value / 6894.757", InverseFormula: "value * 6894.757", Symbol: "psi", LongName: "Pounds per square inch"},
	},
	BaseAngle: {
		"deg": {Formula: "value * 57.29577951308232", InverseFormula: "value / 57.29577951308232", Symbol: "°", LongName: "Degrees"},
	},
	BaseAngularVel: {
		"deg/s":   {Formula: "value * 57.29577951308232", InverseFormula: "value / 57.29577951308232", Symbol: "°/s", LongName: "Degrees per second"},
		"deg/min": {Formula: "value * 3437.746770784939", InverseFormula: "value / 3437.746770784939", Symbol: "°/min", LongName: "Degrees per minute"},
	},
	BaseMeters: {
		"km":     {Formula: "value / 1000", InverseFormula: "value * 1000", Symbol: "km", LongName: "Kilometers"},
		"nm":     {Formula: "value / 1852", InverseFormula: "value * 1852", Symbol: "nm", LongName: "Nautical miles"},
		"mi":     {Formula: "value / 1609.344", InverseFormula: "value * 1609.344", Symbol: "mi", LongName: "Statute miles"},
		"ft":     {Formula: "value * 3.28084", InverseFormula: "value / 3.28084", Symbol: "ft", LongName: "Feet"},
		"fathom": {Formula: "value / 1.8288", InverseFormula: "value * 1.8288", Symbol: "fm", LongName: "Fathoms"},
	},
	BaseCubicMeters: {
		"liter":  {Formula: "value * 1000", InverseFormula: "value / 1000", Symbol: "L", LongName: "Liters"},
		"gallon": {Formula: "value * 264.172052", InverseFormula: "value / 264.172052", Symbol: "gal", LongName: "US gallons"},
	},
	BaseVolumeRate: {
		"L/min": {Formula: "value * 60000", InverseFormula: "value / 60000", Symbol: "L/min", LongName: "Liters per minute"},
		"L/h":   {Formula: "value * 3600000", InverseFormula: "value / 3600000", Symbol: "L/h", LongName: "Liters per hour"},
		"gal/h": {Formula: "value * 951019.38848933", InverseFormula: "value / 951019.38848933", Symbol: "gal/h", LongName: "US gallons per hour"},
	},
	BaseRatio: {
		"percent": {Formula: "value * 100", InverseFormula: "value / 100", Symbol: "%", LongName: "Percent"},
	},
	BaseVolts: {
		"mV": {Formula: "value * 1000", InverseFormula: "value / 1000", Symbol: "mV", LongName: "Millivolts"},
	},
	BaseAmps: {
		"mA": {Formula: "value * 1000", InverseFormula: "value / 1000", Symbol: "mA", LongName: "Milliamps"},
	},
	BaseHertz: {
		"rpm": {Formula: "value * 60", InverseFormula: "value / 60", Symbol: "rpm", LongName: "Revolutions per minute"},
	},
	BaseJoules: {
		"kWh": {Formula: "value / 3600000", InverseFormula: "value * 3600000", Symbol: "kWh", LongName: "Kilowatt hours"},
	},
	BaseWatts: {
		"kW": {Formula: "value / 1000", InverseFormula: "value * 1000", Symbol: "kW", LongName: "Kilowatts"},
		"hp": {Formula: "value / 745.699872", InverseFormula: "value * 745.699872", Symbol: "hp", LongName: "Horsepower"},
	},
	BaseSeconds: {
		"minutes":          {Formula: "value / 60", InverseFormula: "value * 60", Symbol: "min", LongName: "Minutes"},
		"hours":            {Formula: "value / 3600", InverseFormula: "value * 3600", Symbol: "h", LongName: "Hours"},
		"duration-compact": {Formula: "formatDurationCompact(value)", Symbol: "", LongName: "Compact duration"},
		"duration-verbose": {Formula: "formatDurationVerbose(value)", Symbol: "", LongName: "Verbose duration"},
		"duration-hms":     {Formula: "formatDurationHMS(value)", Symbol: "", LongName: "Hours minutes seconds"},
		"duration-dhms":    {Formula: "formatDurationDHMS(value)", Symbol: "", LongName: "Days hours minutes seconds"},
	},
}

// dateFormatConversions are appended dynamically for timestamp and RFC 3339
// base units. Keys double as target-unit identifiers; a "-local" suffix on a
// requested target forces local rendering and is stripped before lookup.
var dateFormatConversions = map[string]types.ConversionDefinition{
	"dd/MM/yyyy":          {DateFormat: "DD/MM/YYYY", Symbol: "", LongName: "Day month year"},
	"MM/dd/yyyy":          {DateFormat: "MM/DD/YYYY", Symbol: "", LongName: "Month day year"},
	"yyyy-MM-dd":          {DateFormat: "YYYY-MM-DD", Symbol: "", LongName: "ISO date"},
	"dd/MM/yyyy HH:mm:ss": {DateFormat: "DD/MM/YYYY HH:mm:ss", Symbol: "", LongName: "Day month year with time"},
	"time-24h":            {DateFormat: "HH:mm:ss", Symbol: "", LongName: "24 hour time"},
	"time-12h":            {DateFormat: "hh:mm:ss a", Symbol: "", LongName: "12 hour time"},
	"rfc3339":             {DateFormat: "YYYY-MM-DDTHH:mm:ssZ", Symbol: "", LongName: "RFC 3339"},
	"epoch-seconds":       {DateFormat: "epoch-seconds", Symbol: "", LongName: "Epoch seconds"},
}
