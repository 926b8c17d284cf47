package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/abhisek/notequiz/internal/llm"
	"github.com/abhisek/notequiz/internal/store"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect logged LLM requests and responses",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent LLM calls, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")
		since, _ := cmd.Flags().GetDuration("since")
		failedOnly, _ := cmd.Flags().GetBool("failed")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		st, err := openStore(cmd, cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		opts := store.QueryOpts{Limit: limit, Purpose: purpose}
		if since > 0 {
			opts.From = time.Now().Add(-since)
		}
		events, err := st.EventRepo().QueryLLMEvents(context.Background(), opts)
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}

		var rows int
		for _, e := range events {
			if failedOnly && e.Success {
				continue
			}
			if rows == 0 {
				fmt.Printf("%-5s  %-14s  %-10s  %-28s  %6s  %6s  %7s  %s\n",
					"ID", "When", "Purpose", "Model", "In", "Out", "Ms", "Result")
				fmt.Println(strings.Repeat("─", 100))
			}
			rows++

			result := "ok"
			if !e.Success {
				result = "error: " + truncate(e.ErrorMessage, 40)
			}
			fmt.Printf("%-5d  %-14s  %-10s  %-28s  %6d  %6d  %7d  %s\n",
				e.ID,
				humanize.Time(e.Timestamp),
				e.Purpose,
				truncate(e.Model, 28),
				e.InputTokens,
				e.OutputTokens,
				e.LatencyMs,
				result,
			)
		}
		if rows == 0 {
			fmt.Println("No LLM events found.")
		}
		return nil
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show the prompt and raw response of one LLM call",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid event ID %q", args[0])
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

		e, err := st.EventRepo().GetLLMEvent(context.Background(), id)
		if err != nil {
			return fmt.Errorf("get event: %w", err)
		}
		if e == nil {
			return fmt.Errorf("event %d not found", id)
		}

		fmt.Printf("Event %d  (%s, %s)\n", e.ID,
			e.Timestamp.Local().Format("2006-01-02 15:04:05"), humanize.Time(e.Timestamp))
		fmt.Printf("  provider  %s / %s\n", e.Provider, e.Model)
		fmt.Printf("  purpose   %s\n", e.Purpose)
		fmt.Printf("  tokens    %s in, %s out\n", humanize.Comma(int64(e.InputTokens)), humanize.Comma(int64(e.OutputTokens)))
		fmt.Printf("  latency   %s\n", time.Duration(e.LatencyMs)*time.Millisecond)
		if e.Success {
			fmt.Println("  result    ok")
		} else {
			fmt.Printf("  result    error: %s\n", e.ErrorMessage)
		}

		printSection("PROMPT", e.RequestBody)
		printSection("RESPONSE", e.ResponseBody)
		return nil
	},
}

func printSection(name, body string) {
	fmt.Printf("\n── %s %s\n", name, strings.Repeat("─", max(56-len(name), 0)))
	if body == "" {
		fmt.Println("(not captured)")
		return
	}
	fmt.Println(body)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of events to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Only show calls with this purpose (e.g. "+llm.PurposeQuizGen+")")
	llmListCmd.Flags().Duration("since", 0, "Only show calls newer than this, e.g. 24h")
	llmListCmd.Flags().Bool("failed", false, "Only show failed calls")

	llmCmd.AddCommand(llmListCmd)
	llmCmd.AddCommand(llmViewCmd)
}
