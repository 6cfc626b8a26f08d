package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/workspace-agent/internal/core/domain"
)

var (
	historyLimit int
	historyClear bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recently handled requests",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of entries")
	historyCmd.Flags().BoolVar(&historyClear, "clear", false, "delete all entries")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	if historyService == nil {
		return errors.New("history service not configured")
	}
	ctx := commandContext(cmd)

	if historyClear {
		if err := historyService.Clear(ctx); err != nil {
			return fmt.Errorf("failed to clear history: %w", err)
		}
		cmd.Println("History cleared.")
		return nil
	}

	activities, err := historyService.Recent(ctx, historyLimit)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}

	if len(activities) == 0 {
		cmd.Println("No requests yet.")
		return nil
	}

	for i := range activities {
		a := activities[i]
		mark := "ok"
		if a.Status != domain.StatusSuccess {
			mark = "error"
		}
		target := a.Service.String()
		if a.Action != "" {
			target += "." + a.Action
		}
		cmd.Printf("%s  %-5s  %-22s %6s  %s\n",
			a.CreatedAt.Local().Format("2006-01-02 15:04"),
			mark,
			target,
			a.Duration.Round(time.Millisecond),
			truncate(a.Request, 60),
		)
		if a.Status != domain.StatusSuccess && a.Message != "" {
			cmd.Printf("%18s%s\n", "", truncate(a.Message, 80))
		}
	}
	return nil
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
