package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"gopnad/app"
	"gopnad/internal/profiling"

	"github.com/spf13/cobra"
)

func (c *cli) newSummaryCmd() *cobra.Command {
	var weight string
	var asJSON bool
	cmd := &cobra.Command{
		Use:     "summary KIND YEAR COLUMNS...",
		Short:   "Summarise columns of one edition",
		Example: "  pnad summary person 2001 age income_work --weight weight",
		Args:    cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, year, err := parseEdition(args)
			if err != nil {
				return err
			}
			summaries, err := c.container.Summary.Summarize(cmd.Context(), kind, year, app.ParseList(args[2:]...), weight)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(c.stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(summaries)
			}
			return c.printSummaries(summaries)
		},
	}
	cmd.Flags().StringVarP(&weight, "weight", "w", "", "Column used to weight the statistics")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	return cmd
}

func (c *cli) printSummaries(summaries []profiling.ColumnSummary) error {
	tw := tabwriter.NewWriter(c.stdout, 0, 0, 2, ' ', 0)
	for _, s := range summaries {
		fmt.Fprintf(tw, "%s\t%s\trows=%d\tmissing=%d\n", s.Name, s.Type, s.Rows, s.Missing)
		if n := s.Numeric; n != nil {
			fmt.Fprintf(tw, "\tmean=%.4g\tstd=%.4g\tmin=%.4g\tmedian=%.4g\tmax=%.4g\n", n.Mean, n.StdDev, n.Min, n.Median, n.Max)
			if n.WeightedMean != nil {
				fmt.Fprintf(tw, "\tweighted mean=%.4g\tweighted median=%.4g\ttotal weight=%.4g\n", *n.WeightedMean, *n.WeightedMedian, *n.TotalWeight)
			}
		}
		for _, cat := range s.Categories {
			fmt.Fprintf(tw, "\t%s\t%d\t%.1f%%\n", cat.Label, cat.Count, 100*cat.Share)
		}
	}
	return tw.Flush()
}
