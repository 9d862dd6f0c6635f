package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gtr-comics/comic-grader/internal/store"
)

var (
	reportsProvider string
	reportsComic    string
	reportsLimit    int
)

var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "List stored grading reports",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		reports, err := st.ListReports(ctx, store.ReportFilter{
			Provider:  reportsProvider,
			ComicName: reportsComic,
			Limit:     reportsLimit,
		})
		if err != nil {
			return err
		}

		if len(reports) == 0 {
			fmt.Println("No reports found.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tCOMIC\tISSUE\tGRADE\tPROVIDER\tGRADED")
		for _, r := range reports {
			grade := "-"
			if r.Grade != nil {
				grade = fmt.Sprintf("%.1f", *r.Grade)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				r.ID, r.ComicName, r.IssueNumber, grade, r.Provider,
				r.CreatedAt.Format("2006-01-02 15:04"))
		}
		return w.Flush()
	},
}

func init() {
	reportsCmd.Flags().StringVar(&reportsProvider, "provider", "", "filter by provider display name")
	reportsCmd.Flags().StringVar(&reportsComic, "comic", "", "filter by comic title")
	reportsCmd.Flags().IntVar(&reportsLimit, "limit", 0, "maximum reports to list")
	rootCmd.AddCommand(reportsCmd)
}
