package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/revpane/internal/review"
	"github.com/fakeyudi/revpane/internal/tui"
	"github.com/fakeyudi/revpane/internal/watcher"
)

var viewBase string

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Open the interactive review panel",
	RunE: func(cmd *cobra.Command, args []string) error {
		workDir, err := os.Getwd()
		if err != nil {
			return err
		}

		base := viewBase
		if base == "" {
			base = GetConfig().DefaultBase
		}

		s := review.NewSession(workDir, base, GetConfig())
		if !s.Provider.IsRepo(context.Background()) {
			return fmt.Errorf("not a git repository: %s", workDir)
		}

		var w *watcher.Watcher
		if GetConfig().Watch {
			w, err = watcher.New(workDir)
			if err != nil {
				// Auto-refresh is a convenience; the panel still works
				// with manual refresh.
				fmt.Fprintf(os.Stderr, "warning: file watching unavailable: %v\n", err)
			} else {
				w.Start()
			}
		}

		split := false
		if activeProfile != nil {
			split = activeProfile.SplitView
		}
		return tui.Run(s, w, split)
	},
}

func init() {
	viewCmd.Flags().StringVarP(&viewBase, "base", "b", "", "base reference to diff against (default from config)")
	rootCmd.AddCommand(viewCmd)
}
