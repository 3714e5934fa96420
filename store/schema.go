package store

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"

	"github.com/motamman/signalk-units-preference-sub000/errors"
)

// conversionDefSchema is shared by both documents: one target conversion.
const conversionDefSchema = `{
	"type": "object",
	"properties": {
		"formula": {"type": "string"},
		"inverseFormula": {"type": "string"},
		"symbol": {"type": "string"},
		"longName": {"type": "string"},
		"dateFormat": {"type": "string"},
		"useLocalTime": {"type": "boolean"}
	},
	"additionalProperties": false
}`

// preferencesSchema validates preferences.json.
const preferencesSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"definitions": {
		"categoryPreference": {
			"type": "object",
			"properties": {
				"targetUnit": {"type": "string"},
				"displayFormat": {"type": "string"},
				"baseUnit": {"type": "string"},
				"category": {"type": "string"}
			},
			"additionalProperties": false
		},
		"conversionDefinition": ` + conversionDefSchema + `,
		"unitMetadata": {
			"type": "object",
			"properties": {
				"baseUnit": {"type": "string"},
				"category": {"type": "string"},
				"conversions": {
					"type": "object",
					"additionalProperties": {"$ref": "#/definitions/conversionDefinition"}
				}
			},
			"required": ["category"],
			"additionalProperties": false
		},
		"patternRule": {
			"type": "object",
			"properties": {
				"pattern": {"type": "string", "minLength": 1},
				"category": {"type": "string"},
				"baseUnit": {"type": "string"},
				"targetUnit": {"type": "string"},
				"displayFormat": {"type": "string"},
				"priority": {"type": "integer"}
			},
			"required": ["pattern"],
			"additionalProperties": false
		}
	},
	"properties": {
		"categories": {
			"type": "object",
			"additionalProperties": {"$ref": "#/definitions/categoryPreference"}
		},
		"pathOverrides": {
			"type": "object",
			"additionalProperties": {"$ref": "#/definitions/categoryPreference"}
		},
		"pathPatterns": {
			"type": "array",
			"items": {"$ref": "#/definitions/patternRule"}
		},
		"pathMetadata": {
			"type": "object",
			"additionalProperties": {"$ref": "#/definitions/unitMetadata"}
		}
	},
	"additionalProperties": false
}`

// customUnitsSchema validates custom-units.json: base unit -> target -> def.
const customUnitsSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"additionalProperties": {
		"type": "object",
		"additionalProperties": ` + conversionDefSchema + `
	}
}`

var (
	preferencesValidator = gojsonschema.NewStringLoader(preferencesSchema)
	customUnitsValidator = gojsonschema.NewStringLoader(customUnitsSchema)
)

// validateDocument runs one raw JSON document against a schema loader.
func validateDocument(schema gojsonschema.JSONLoader, data []byte, name string) error {
	result, err := gojsonschema.Validate(schema, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return errors.Wrap(err, "store", "validateDocument", "validate "+name)
	}
	if !result.Valid() {
		first := result.Errors()[0]
		return errors.Wrap(
			fmt.Errorf("%s: %s", first.Field(), first.Description()),
			"store", "validateDocument", "schema check "+name)
	}
	return nil
}
