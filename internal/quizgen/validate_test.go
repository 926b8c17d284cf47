package quizgen

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func questionJSON(i int) string {
	return fmt.Sprintf(`{"question":"Question %d?","options":["A%d","B%d","C%d","D%d"],"correctAnswer":%d}`,
		i, i, i, i, i, i%4)
}

func questionList(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = questionJSON(i)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

func TestValidate_FiveValidQuestions(t *testing.T) {
	qs, err := Validate(questionList(5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(qs) != 5 {
		t.Fatalf("len = %d, want 5", len(qs))
	}
	for i, q := range qs {
		if q.Text != fmt.Sprintf("Question %d?", i) {
			t.Errorf("order not preserved at %d: %q", i, q.Text)
		}
		if len(q.Options) != 4 {
			t.Errorf("question %d has %d options", i, len(q.Options))
		}
		if q.CorrectIndex < 0 || q.CorrectIndex > 3 || q.CorrectIndex != i%4 {
			t.Errorf("question %d correct = %d", i, q.CorrectIndex)
		}
	}
}

func TestValidate_Malformed(t *testing.T) {
	inputs := []string{
		"",
		"not json",
		`{"question":"q"}`,
		`"a string"`,
		`42`,
		`null`,
		`[`,
		`[]`,
		"```json\n[]\n```",
	}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			qs, err := Validate(in)
			if !errors.Is(err, ErrMalformedResponse) {
				t.Fatalf("expected ErrMalformedResponse, got %v", err)
			}
			if qs != nil {
				t.Fatalf("expected no questions, got %v", qs)
			}
			var iq *InvalidQuestionError
			if errors.As(err, &iq) {
				t.Fatal("malformed input must not report an invalid question")
			}
		})
	}
}

func TestValidate_FirstInvalidIndex(t *testing.T) {
	bad := map[string]string{
		"missing question":      `{"options":["a","b","c","d"],"correctAnswer":0}`,
		"blank question":        `{"question":"   ","options":["a","b","c","d"],"correctAnswer":0}`,
		"three options":         `{"question":"q","options":["a","b","c"],"correctAnswer":0}`,
		"five options":          `{"question":"q","options":["a","b","c","d","e"],"correctAnswer":0}`,
		"non-string option":     `{"question":"q","options":["a",2,"c","d"],"correctAnswer":0}`,
		"options not a list":    `{"question":"q","options":"abcd","correctAnswer":0}`,
		"index too high":        `{"question":"q","options":["a","b","c","d"],"correctAnswer":4}`,
		"negative index":        `{"question":"q","options":["a","b","c","d"],"correctAnswer":-1}`,
		"fractional index":      `{"question":"q","options":["a","b","c","d"],"correctAnswer":1.5}`,
		"string index":          `{"question":"q","options":["a","b","c","d"],"correctAnswer":"2"}`,
		"missing index":         `{"question":"q","options":["a","b","c","d"]}`,
		"element not object":    `"just text"`,
		"null element":          `null`,
		"question not a string": `{"question":7,"options":["a","b","c","d"],"correctAnswer":0}`,
	}

	for name, elem := range bad {
		for k := 0; k < 5; k++ {
			t.Run(fmt.Sprintf("%s at %d", name, k), func(t *testing.T) {
				parts := make([]string, 5)
				for i := range parts {
					parts[i] = questionJSON(i)
				}
				parts[k] = elem
				// A later element is also broken; only the first is reported.
				if k < 4 {
					parts[4] = `{"question":""}`
				}

				qs, err := Validate("[" + strings.Join(parts, ",") + "]")
				var iq *InvalidQuestionError
				if !errors.As(err, &iq) {
					t.Fatalf("expected *InvalidQuestionError, got %v", err)
				}
				if iq.Index != k {
					t.Fatalf("index = %d, want %d (%s)", iq.Index, k, iq.Reason)
				}
				if qs != nil {
					t.Fatalf("expected no partial list, got %d questions", len(qs))
				}
				if errors.Is(err, ErrMalformedResponse) {
					t.Fatal("invalid question must not match ErrMalformedResponse")
				}
			})
		}
	}
}

func TestValidate_IntegralFloatIndex(t *testing.T) {
	qs, err := Validate(`[{"question":"q","options":["a","b","c","d"],"correctAnswer":2.0}]`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if qs[0].CorrectIndex != 2 {
		t.Fatalf("correct = %d, want 2", qs[0].CorrectIndex)
	}
}

func TestValidate_IgnoresExtraFields(t *testing.T) {
	qs, err := Validate(`[{"question":"q","options":["a","b","c","d"],"correctAnswer":3,"explanation":"x"}]`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(qs) != 1 || qs[0].CorrectIndex != 3 {
		t.Fatalf("unexpected result %+v", qs)
	}
}

func TestValidate_AcceptsAnyLength(t *testing.T) {
	// The exact-count rule belongs to the generator, not the validator.
	qs, err := Validate(questionList(3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(qs) != 3 {
		t.Fatalf("len = %d, want 3", len(qs))
	}
}
