package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/revpane/internal/review"
)

var summaryBase string

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print the per-file change summary against a base reference",
	RunE: func(cmd *cobra.Command, args []string) error {
		workDir, err := os.Getwd()
		if err != nil {
			return err
		}

		base := summaryBase
		if base == "" {
			base = GetConfig().DefaultBase
		}

		s := review.NewSession(workDir, base, GetConfig())
		records := s.Collector.Collect(context.Background(), base)
		if len(records) == 0 {
			cmd.Printf("no changes against %s\n", base)
			return nil
		}

		for _, r := range records {
			cmd.Printf("%-10s +%-5d -%-5d %s\n", r.Status, r.Additions, r.Deletions, r.Path)
		}
		return nil
	},
}

func init() {
	summaryCmd.Flags().StringVarP(&summaryBase, "base", "b", "", "base reference to diff against (default from config)")
	rootCmd.AddCommand(summaryCmd)
}
