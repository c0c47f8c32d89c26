package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/revpane/internal/htmlview"
	"github.com/fakeyudi/revpane/internal/review"
)

var (
	exportBase   string
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the full review as a standalone report",
	RunE: func(cmd *cobra.Command, args []string) error {
		workDir, err := os.Getwd()
		if err != nil {
			return err
		}

		base := exportBase
		if base == "" {
			base = GetConfig().DefaultBase
		}

		s := review.NewSession(workDir, base, GetConfig())
		files := s.Refresh(context.Background())

		// Renderer follows the output extension; anything that is not
		// .html gets the plain-text layout.
		author := ""
		if activeProfile != nil {
			author = activeProfile.Name
		}
		var renderer htmlview.Renderer
		switch strings.ToLower(filepath.Ext(exportOutput)) {
		case ".html", ".htm":
			renderer = htmlview.HTMLRenderer{Author: author}
		default:
			renderer = htmlview.TextRenderer{}
		}

		data, err := renderer.Render(base, files)
		if err != nil {
			return fmt.Errorf("render report: %w", err)
		}

		if exportOutput == "" || exportOutput == "-" {
			cmd.Print(string(data))
			return nil
		}
		if err := os.WriteFile(exportOutput, data, 0o644); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		cmd.Printf("Report written to %s\n", exportOutput)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportBase, "base", "b", "", "base reference to diff against (default from config)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output path (.html for an HTML report; default stdout)")
	rootCmd.AddCommand(exportCmd)
}
