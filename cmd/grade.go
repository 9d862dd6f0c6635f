package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/gtr-comics/comic-grader/internal/export"
	"github.com/gtr-comics/comic-grader/internal/model"
	"github.com/gtr-comics/comic-grader/internal/upload"
)

var (
	gradeComicName   string
	gradeIssueNumber string
	gradeProviders   string
	gradeFormat      string
)

var gradeCmd = &cobra.Command{
	Use:   "grade <image files...>",
	Short: "Grade a comic from photo files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if gradeComicName == "" || gradeIssueNumber == "" {
			return eris.New("both --comic and --issue are required")
		}

		format, err := export.ParseFormat(gradeFormat)
		if err != nil {
			return err
		}

		req := model.GradeRequest{
			ComicName:   gradeComicName,
			IssueNumber: gradeIssueNumber,
		}
		for _, path := range args {
			data, err := os.ReadFile(path)
			if err != nil {
				return eris.Wrapf(err, "read image %s", path)
			}
			req.Images = append(req.Images, model.Image{
				Data:      data,
				MediaType: upload.DetectMediaType(data),
			})
		}

		limits := upload.Limits{MaxFiles: cfg.Upload.MaxFiles, MaxFileSize: cfg.Upload.MaxFileSize}
		if validation := upload.ValidateFiles(req.Images, limits); !validation.IsValid {
			return eris.Errorf("file validation failed: %s", strings.Join(validation.Errors, "; "))
		}

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		dispatcher, err := buildDispatcher()
		if err != nil {
			return err
		}

		var providers []string
		for _, name := range strings.Split(gradeProviders, ",") {
			if name = strings.TrimSpace(strings.ToLower(name)); name != "" {
				providers = append(providers, name)
			}
		}

		results := dispatcher.GradeAll(ctx, providers, req)

		var failed int
		for _, result := range results {
			if !result.Success {
				failed++
				fmt.Fprintf(os.Stderr, "%s: %s\n", result.Provider, result.Error)
				continue
			}

			stored, err := st.SaveReport(ctx, req.ComicName, req.IssueNumber, *result.Report)
			if err != nil {
				return err
			}

			out, err := export.Render(format, *stored)
			if err != nil {
				return err
			}
			fmt.Printf("Report %s\n%s\n", stored.ID, out)
		}

		if failed == len(results) {
			return eris.New("all providers failed")
		}
		return nil
	},
}

func init() {
	gradeCmd.Flags().StringVar(&gradeComicName, "comic", "", "comic title (required)")
	gradeCmd.Flags().StringVar(&gradeIssueNumber, "issue", "", "issue number (required)")
	gradeCmd.Flags().StringVar(&gradeProviders, "providers", "anthropic", "comma-separated provider list")
	gradeCmd.Flags().StringVar(&gradeFormat, "format", "text", "output format: json, yaml, markdown, text, html")
	rootCmd.AddCommand(gradeCmd)
}
