package main

import (
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/people-analytics/mailing-cli/internal/export"
)

var compileOut string

var compileCmd = &cobra.Command{
	Use:   "compile [dir]",
	Short: "Merge a day's partition files into one workbook",
	Long:  "Reads every partition CSV or workbook in the directory (default paths.output) and merges them, single header, into one compiled workbook for the coordinators.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := cfg.Paths.Output
		if len(args) == 1 {
			dir = args[0]
		}

		out := compileOut
		if out == "" {
			out = filepath.Join(dir, export.CompiledName(time.Now()))
		}

		rows, err := export.CompileDir(dir, out)
		if err != nil {
			return err
		}

		zap.L().Info("compile: done",
			zap.String("dir", dir),
			zap.String("out", out),
			zap.Int("rows", rows),
		)
		return nil
	},
}

func init() {
	compileCmd.Flags().StringVar(&compileOut, "out", "", "compiled workbook path (default {dir}/{date}_compilado.xlsx)")
	rootCmd.AddCommand(compileCmd)
}
