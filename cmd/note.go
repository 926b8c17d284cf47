package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/abhisek/notequiz/internal/quiz"
)

var noteCmd = &cobra.Command{
	Use:   "note",
	Short: "Manage notes in the local database",
}

var noteAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a note",
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, _ := cmd.Flags().GetString("user")
		title, _ := cmd.Flags().GetString("title")
		content, _ := cmd.Flags().GetString("content")
		file, _ := cmd.Flags().GetString("file")

		if file != "" {
			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("read note file: %w", err)
			}
			content = string(data)
		}

		title, content = strings.TrimSpace(title), strings.TrimSpace(content)
		if title == "" || content == "" {
			return errors.New("a note needs --title and --content (or --file)")
		}

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		st, err := openStore(cmd, cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		note, err := st.NoteRepo().Create(context.Background(), quiz.Note{
			UserID:  userID,
			Title:   title,
			Content: content,
		})
		if err != nil {
			return fmt.Errorf("create note: %w", err)
		}

		fmt.Printf("Created note %s (%q)\n", note.ID, note.Title)
		return nil
	},
}

var noteListCmd = &cobra.Command{
	Use:   "list",
	Short: "List a user's notes, most recently updated first",
	RunE: func(cmd *cobra.Command, args []string) error {
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

		notes, err := st.NoteRepo().List(context.Background(), userID)
		if err != nil {
			return fmt.Errorf("list notes: %w", err)
		}
		if len(notes) == 0 {
			fmt.Println("No notes found.")
			return nil
		}

		fmt.Printf("%-36s  %-32s  %8s  %s\n", "ID", "Title", "Chars", "Updated")
		fmt.Println(strings.Repeat("─", 96))
		for _, n := range notes {
			fmt.Printf("%-36s  %-32s  %8s  %s\n",
				n.ID,
				truncate(n.Title, 32),
				humanize.Comma(int64(len(n.Content))),
				humanize.Time(n.UpdatedAt),
			)
		}
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{noteAddCmd, noteListCmd} {
		c.Flags().String("user", "", "Owner user ID")
		c.MarkFlagRequired("user")
	}
	noteAddCmd.Flags().String("title", "", "Note title")
	noteAddCmd.Flags().String("content", "", "Note content")
	noteAddCmd.Flags().String("file", "", "Read note content from a file")

	noteCmd.AddCommand(noteAddCmd)
	noteCmd.AddCommand(noteListCmd)
}
