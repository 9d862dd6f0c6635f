package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/gtr-comics/comic-grader/internal/export"
)

var (
	exportFormat string
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export <report-id>",
	Short: "Export a stored report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		format, err := export.ParseFormat(exportFormat)
		if err != nil {
			return err
		}

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		stored, err := st.GetReport(ctx, args[0])
		if err != nil {
			return err
		}

		out, err := export.Render(format, *stored)
		if err != nil {
			return err
		}

		if exportOut == "" {
			fmt.Print(string(out))
			return nil
		}
		if err := os.WriteFile(exportOut, out, 0o644); err != nil {
			return eris.Wrapf(err, "write %s", exportOut)
		}
		fmt.Printf("Wrote %s\n", exportOut)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "json", "output format: json, yaml, markdown, text, html")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output file (default stdout)")
	rootCmd.AddCommand(exportCmd)
}
