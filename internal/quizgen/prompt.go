package quizgen

import (
	"fmt"
	"strings"

	"github.com/abhisek/notequiz/internal/quiz"
)

// QuestionCount is the number of questions every generated quiz carries.
const QuestionCount = 5

const promptExample = `[
  {
    "question": "What is the capital of France?",
    "options": ["Berlin", "Madrid", "Paris", "Rome"],
    "correctAnswer": 2
  }
]`

// BuildPrompt renders the generation instruction for note. Title and content
// are embedded verbatim.
func BuildPrompt(note quiz.Note) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Given the following note titled %q, generate %d multiple choice questions "+
		"to test understanding of the content. Each question should have %d options, "+
		"with exactly one correct answer. The questions should be challenging but fair.\n\n",
		note.Title, QuestionCount, quiz.OptionCount)

	b.WriteString("Note Content:\n```\n")
	b.WriteString(note.Content)
	b.WriteString("\n```\n\n")

	fmt.Fprintf(&b, "Format the response as a valid JSON array where each object has:\n"+
		"- question: the question text\n"+
		"- options: array of %d possible answers\n"+
		"- correctAnswer: index (0-%d) of the correct answer\n\n",
		quiz.OptionCount, quiz.OptionCount-1)

	b.WriteString("Example:\n")
	b.WriteString(promptExample)
	b.WriteString("\n\n")

	b.WriteString("Make sure the questions really test understanding of the note content, " +
		"and are written in the same language as the note. Your response must contain " +
		"the plain JSON array only: no commentary and no Markdown code fences.")

	return b.String()
}
