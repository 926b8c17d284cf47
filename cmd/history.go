package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/abhisek/notequiz/internal/history"
	"github.com/abhisek/notequiz/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the quizzes generated from a note and their latest scores",
	RunE: func(cmd *cobra.Command, args []string) error {
		noteID, _ := cmd.Flags().GetString("note")
		userID, _ := cmd.Flags().GetString("user")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		st, err := openStore(cmd, cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := context.Background()
		note, err := st.NoteRepo().Get(ctx, noteID, userID)
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("note %s not found for user %s", noteID, userID)
		}
		if err != nil {
			return fmt.Errorf("get note: %w", err)
		}

		records, err := st.QuizRepo().FindByNoteAndUser(ctx, noteID, userID)
		if err != nil {
			return fmt.Errorf("query quizzes: %w", err)
		}
		attempts, err := st.AttemptRepo().ListByNote(ctx, noteID, userID)
		if err != nil {
			return fmt.Errorf("query attempts: %w", err)
		}

		entries := history.Entries(records, attempts)

		fmt.Printf("History for %q\n\n", note.Title)
		if len(entries) == 0 {
			fmt.Println("No quizzes yet.")
			return nil
		}

		fmt.Printf("%-36s  %-19s  %5s  %6s  %s\n", "Quiz", "Created", "Score", "%", "Last attempt")
		fmt.Println(strings.Repeat("─", 90))
		for _, e := range entries {
			last := "never"
			if e.LatestAttempt != nil {
				last = humanize.Time(e.LatestAttempt.CreatedAt)
			}
			fmt.Printf("%-36s  %-19s  %5s  %6s  %s\n",
				e.Quiz.ID,
				e.Quiz.CreatedAt.Local().Format("2006-01-02 15:04:05"),
				fmt.Sprintf("%d/%d", e.Summary.CorrectCount, e.Summary.Total),
				e.Percent,
				last,
			)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().String("note", "", "Note ID")
	historyCmd.Flags().String("user", "", "Owner user ID")
	historyCmd.MarkFlagRequired("note")
	historyCmd.MarkFlagRequired("user")
}
