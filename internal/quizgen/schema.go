package quizgen

import (
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const questionSchemaURL = "schema://quiz-question.json"

// questionSchema is the structural contract for one generated question.
const questionSchema = `{
	"type": "object",
	"properties": {
		"question": {"type": "string", "minLength": 1},
		"options": {
			"type": "array",
			"items": {"type": "string"},
			"minItems": 4,
			"maxItems": 4
		},
		"correctAnswer": {"type": "integer", "minimum": 0, "maximum": 3}
	},
	"required": ["question", "options", "correctAnswer"]
}`

var compiledQuestionSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	// The compiler expects a parsed JSON value, not raw bytes.
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(questionSchema))
	if err != nil {
		return nil, fmt.Errorf("parse question schema: %w", err)
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource(questionSchemaURL, doc); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	compiled, err := c.Compile(questionSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile question schema: %w", err)
	}
	return compiled, nil
})
