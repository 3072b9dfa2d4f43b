package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"healthdigest/internal/format"
	"healthdigest/internal/habits"
	"healthdigest/internal/snapshot"
)

func newHabitsCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "habits FILE",
		Short: "Resolve a habit journal to done / not done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			payload, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read journal: %w", err)
			}
			if date == "" {
				date = now().AddDate(0, 0, -1).Format("2006-01-02")
			}

			report, err := habits.ParseJournal(payload, date)
			if err != nil {
				return err
			}
			a.save(commandContext(cmd), snapshot.KindHabits, "journal", report)
			return format.WriteHabits(a.out, report, a.render)
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "journal date in YYYY-MM-DD (default: yesterday)")
	return cmd
}
