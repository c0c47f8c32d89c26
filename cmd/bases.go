package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/revpane/internal/gitx"
)

var basesCmd = &cobra.Command{
	Use:   "bases",
	Short: "List branch references usable as a review base",
	RunE: func(cmd *cobra.Command, args []string) error {
		workDir, err := os.Getwd()
		if err != nil {
			return err
		}

		p := &gitx.Provider{WorkDir: workDir}
		branches, err := p.Branches(context.Background())
		if err != nil {
			return err
		}

		current, _ := p.CurrentBranch(context.Background())
		for _, b := range branches {
			marker := "  "
			if b == current {
				marker = "* "
			}
			cmd.Printf("%s%s\n", marker, b)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(basesCmd)
}
