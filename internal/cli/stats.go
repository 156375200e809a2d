package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/example/meetbot/internal/application"
)

const dateLayout = "2006-01-02"

func NewStatsCmd(deps *Dependencies) *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print meeting statistics per complex",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			period, err := parseDateRange(from, to)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			store, err := openStorage(ctx, deps)
			if err != nil {
				return err
			}
			defer store.Close()

			rows, err := store.facade.Statistics(ctx, period)
			if err != nil {
				return err
			}
			printReport(cmd, application.BuildReport(rows))
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "first meeting date to count (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "last meeting date to count (YYYY-MM-DD)")
	return cmd
}

func parseDateRange(from, to string) (application.DateRange, error) {
	var period application.DateRange
	if from != "" {
		t, err := time.Parse(dateLayout, from)
		if err != nil {
			return application.DateRange{}, fmt.Errorf("invalid --from date %q, expected YYYY-MM-DD", from)
		}
		period.From = t
	}
	if to != "" {
		t, err := time.Parse(dateLayout, to)
		if err != nil {
			return application.DateRange{}, fmt.Errorf("invalid --to date %q, expected YYYY-MM-DD", to)
		}
		period.To = t
	}
	if !period.From.IsZero() && !period.To.IsZero() && period.To.Before(period.From) {
		return application.DateRange{}, fmt.Errorf("--to %s is before --from %s", to, from)
	}
	return period, nil
}

func printReport(cmd *cobra.Command, report application.Report) {
	out := cmd.OutOrStdout()
	if report.Total == 0 {
		fmt.Fprintln(out, "No meetings recorded")
		return
	}

	bold := color.New(color.Bold)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 60
	tbl.Wrap = true

	header := []interface{}{bold.Sprint("COMPLEX"), bold.Sprint("TOTAL")}
	for _, s := range application.Statuses {
		header = append(header, bold.Sprint(strings.ToUpper(s.Label())))
	}
	header = append(header, bold.Sprint("TOP ORGANIZATIONS"))
	tbl.AddRow(header...)

	for _, c := range report.Complexes {
		row := []interface{}{c.Name, c.Total}
		for _, s := range application.Statuses {
			row = append(row, c.ByStatus[s])
		}
		top := make([]string, 0, len(c.Top))
		for _, org := range c.Top {
			top = append(top, fmt.Sprintf("%s (%d)", org.Name, org.Count))
		}
		row = append(row, strings.Join(top, ", "))
		tbl.AddRow(row...)
	}

	fmt.Fprintln(out, tbl)
	fmt.Fprintf(out, "%s %d\n", bold.Sprint("Total meetings:"), report.Total)
}
