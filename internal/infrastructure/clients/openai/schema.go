package openai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var schemaPrinter = message.NewPrinter(language.English)

const symptomAnalysisSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["analysis", "urgency"],
  "properties": {
    "analysis": {"type": "string", "minLength": 1},
    "urgency": {"enum": ["low", "medium", "high", "critical", "clarification-needed"]},
    "suggestedSteps": {"type": "array", "items": {"type": "string"}},
    "recommendedHospitals": {
      "type": "array",
      "maxItems": 3,
      "items": {
        "type": "object",
        "required": ["hospitalId", "reason"],
        "properties": {
          "hospitalId": {"type": "string", "minLength": 1},
          "reason": {"type": "string"}
        }
      }
    },
    "recommendedDoctors": {
      "type": "array",
      "maxItems": 2,
      "items": {
        "type": "object",
        "required": ["name", "specialty", "hospitalName", "reason"],
        "properties": {
          "name": {"type": "string"},
          "specialty": {"type": "string"},
          "hospitalName": {"type": "string"},
          "reason": {"type": "string"}
        }
      }
    },
    "clarifyingQuestions": {"type": "array", "items": {"type": "string"}}
  }
}`

const voiceResultSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["hospitalRecommendations"],
  "properties": {
    "hospitalRecommendations": {"type": "string", "minLength": 1}
  }
}`

const summarySchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["summary"],
  "properties": {
    "summary": {"type": "string", "minLength": 1}
  }
}`

var (
	symptomAnalysisSchema = mustCompileSchema(symptomAnalysisSchemaJSON, "symptom-analysis.schema.json")
	voiceResultSchema     = mustCompileSchema(voiceResultSchemaJSON, "voice-result.schema.json")
	summarySchema         = mustCompileSchema(summarySchemaJSON, "capability-summary.schema.json")
)

func mustCompileSchema(raw, name string) *jsonschema.Schema {
	var doc any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		panic(fmt.Sprintf("failed to parse %s: %v", name, err))
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, doc); err != nil {
		panic(fmt.Sprintf("failed to add %s resource: %v", name, err))
	}

	sch, err := compiler.Compile(name)
	if err != nil {
		panic(fmt.Sprintf("failed to compile %s: %v", name, err))
	}
	return sch
}

// SchemaError lists every violation found in a model response.
type SchemaError struct {
	Violations []string
}

func (e *SchemaError) Error() string {
	return "response does not match schema: " + strings.Join(e.Violations, "; ")
}

// decodeValidated checks raw against schema and then unmarshals it into out.
func decodeValidated(schema *jsonschema.Schema, raw string, out any) error {
	instance, err := jsonschema.UnmarshalJSON(strings.NewReader(raw))
	if err != nil {
		return fmt.Errorf("response is not valid JSON: %w", err)
	}

	if err := schema.Validate(instance); err != nil {
		ve, ok := err.(*jsonschema.ValidationError)
		if !ok {
			return &SchemaError{Violations: []string{err.Error()}}
		}
		var violations []string
		collectViolations(ve, &violations)
		return &SchemaError{Violations: violations}
	}

	return json.Unmarshal([]byte(raw), out)
}

func collectViolations(ve *jsonschema.ValidationError, out *[]string) {
	if len(ve.Causes) == 0 {
		loc := "/" + strings.Join(ve.InstanceLocation, "/")
		*out = append(*out, fmt.Sprintf("%s: %s", loc, ve.ErrorKind.LocalizedString(schemaPrinter)))
		return
	}
	for _, c := range ve.Causes {
		collectViolations(c, out)
	}
}
