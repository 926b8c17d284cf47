package quizgen

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/abhisek/notequiz/internal/quiz"
)

// Validate parses normalized provider text into questions. It fails with an
// error matching ErrMalformedResponse when the text is not a non-empty JSON
// array, and with *InvalidQuestionError for the first element that breaks
// the question contract. No partial list is ever returned.
func Validate(text string) ([]quiz.Question, error) {
	parsed, err := jsonschema.UnmarshalJSON(strings.NewReader(text))
	if err != nil {
		return nil, &MalformedError{Detail: "not valid JSON", Err: err}
	}

	items, ok := parsed.([]any)
	if !ok {
		return nil, &MalformedError{Detail: fmt.Sprintf("expected a JSON array, got %s", jsonKind(parsed))}
	}
	if len(items) == 0 {
		return nil, &MalformedError{Detail: "empty question list"}
	}

	schema, err := compiledQuestionSchema()
	if err != nil {
		return nil, fmt.Errorf("question schema: %w", err)
	}

	questions := make([]quiz.Question, 0, len(items))
	for i, item := range items {
		q, err := checkQuestion(schema, item)
		if err != nil {
			err.Index = i
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, nil
}

// checkQuestion applies the schema and the semantic rules to one element.
func checkQuestion(schema *jsonschema.Schema, item any) (quiz.Question, *InvalidQuestionError) {
	schemaErr := schema.Validate(item)

	obj, ok := item.(map[string]any)
	if !ok {
		return quiz.Question{}, &InvalidQuestionError{Reason: "not an object, got " + jsonKind(item), Err: schemaErr}
	}

	text, ok := obj["question"].(string)
	if !ok || strings.TrimSpace(text) == "" {
		return quiz.Question{}, &InvalidQuestionError{Reason: "question text is missing or blank", Err: schemaErr}
	}

	rawOptions, ok := obj["options"].([]any)
	if !ok || len(rawOptions) != quiz.OptionCount {
		return quiz.Question{}, &InvalidQuestionError{
			Reason: fmt.Sprintf("options must be a list of exactly %d entries", quiz.OptionCount),
			Err:    schemaErr,
		}
	}
	options := make([]string, len(rawOptions))
	for j, o := range rawOptions {
		s, ok := o.(string)
		if !ok {
			return quiz.Question{}, &InvalidQuestionError{
				Reason: fmt.Sprintf("option %d is %s, want string", j, jsonKind(o)),
				Err:    schemaErr,
			}
		}
		options[j] = s
	}

	correct, ok := integerValue(obj["correctAnswer"])
	if !ok || correct < 0 || correct >= quiz.OptionCount {
		return quiz.Question{}, &InvalidQuestionError{
			Reason: fmt.Sprintf("correctAnswer must be an integer between 0 and %d", quiz.OptionCount-1),
			Err:    schemaErr,
		}
	}

	if schemaErr != nil {
		return quiz.Question{}, &InvalidQuestionError{Reason: "does not match the question schema", Err: schemaErr}
	}

	return quiz.Question{Text: text, Options: options, CorrectIndex: correct}, nil
}

// integerValue accepts JSON numbers with no fractional part.
func integerValue(v any) (int, bool) {
	var f float64
	switch n := v.(type) {
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case float64:
		f = n
	default:
		return 0, false
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int(f), true
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case json.Number, float64:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
