// Package golden loads the fixture question set the evaluator replays.
package golden

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// schemaPrinter formats schema validation error messages.
var schemaPrinter = message.NewPrinter(language.English)

// Strictness controls how the limit argument is matched for a question.
type Strictness string

const (
	// StrictnessFlexible accepts any limit inside the catalog's tolerance band.
	StrictnessFlexible Strictness = "flexible"
	// StrictnessStrict accepts only the exact expected limit.
	StrictnessStrict Strictness = "strict"
)

// Question is one golden fixture: a question with its known-correct routing.
type Question struct {
	ID           string         `json:"id" validate:"required"`
	Text         string         `json:"question" validate:"required"`
	Category     string         `json:"category"`
	Difficulty   string         `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	ExpectedTool string         `json:"expected_tool" validate:"required"`
	ExpectedArgs map[string]any `json:"expected_arguments"`
	Tags         []string       `json:"tags"`
	Strictness   Strictness     `json:"strictness" validate:"omitempty,oneof=flexible strict"`
}

//go:embed schema.json
var schemaJSON []byte

var validate = validator.New()

// LoadFile reads and validates a golden question file.
func LoadFile(path string) ([]Question, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading golden file: %w", err)
	}
	return Parse(data)
}

// Parse validates the raw JSON against the embedded schema, then decodes it.
func Parse(data []byte) ([]Question, error) {
	if err := validateSchema(data); err != nil {
		return nil, fmt.Errorf("golden file does not match schema: %w", err)
	}

	var questions []Question
	if err := json.Unmarshal(data, &questions); err != nil {
		return nil, fmt.Errorf("decoding golden file: %w", err)
	}

	seen := make(map[string]bool, len(questions))
	for i := range questions {
		q := &questions[i]
		if q.Strictness == "" {
			q.Strictness = StrictnessFlexible
		}
		if err := validate.Struct(q); err != nil {
			return nil, fmt.Errorf("golden question %d (%s): %w", i, q.ID, err)
		}
		if seen[q.ID] {
			return nil, fmt.Errorf("duplicate golden question id %q", q.ID)
		}
		seen[q.ID] = true
	}

	return questions, nil
}

// Slice applies --start/--limit style windowing. start is a zero-based index;
// limit <= 0 means no cap.
func Slice(questions []Question, start, limit int) []Question {
	if start < 0 {
		start = 0
	}
	if start >= len(questions) {
		return nil
	}
	out := questions[start:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out
}

func validateSchema(data []byte) error {
	var schemaValue any
	if err := json.Unmarshal(schemaJSON, &schemaValue); err != nil {
		return fmt.Errorf("parsing embedded schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("golden.schema.json", schemaValue); err != nil {
		return fmt.Errorf("adding schema resource: %w", err)
	}
	schema, err := compiler.Compile("golden.schema.json")
	if err != nil {
		return fmt.Errorf("compiling schema: %w", err)
	}

	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return fmt.Errorf("golden file is not valid JSON: %w", err)
	}

	if err := schema.Validate(value); err != nil {
		var ve *jsonschema.ValidationError
		if errors.As(err, &ve) {
			var msgs []string
			collectSchemaErrors(ve, &msgs)
			return fmt.Errorf("%s", strings.Join(msgs, "; "))
		}
		return err
	}
	return nil
}

// collectSchemaErrors flattens nested validation errors into one readable
// message per failing leaf, with its JSON location.
func collectSchemaErrors(ve *jsonschema.ValidationError, errs *[]string) {
	if len(ve.Causes) == 0 {
		loc := "(root)"
		if len(ve.InstanceLocation) > 0 {
			loc = "/" + strings.Join(ve.InstanceLocation, "/")
		}
		*errs = append(*errs, fmt.Sprintf("%s: %s", loc, ve.ErrorKind.LocalizedString(schemaPrinter)))
		return
	}
	for _, c := range ve.Causes {
		collectSchemaErrors(c, errs)
	}
}
