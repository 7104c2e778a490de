package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"gopnad/app"

	"github.com/spf13/cobra"
)

type cacheFlags struct {
	kind   string
	years  []string
	fields []string
}

func (f *cacheFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.kind, "kind", "all", "person, household or all")
	cmd.Flags().StringSliceVar(&f.years, "years", nil, "Editions to select")
	cmd.Flags().StringSliceVar(&f.fields, "fields", nil, "Fields to select")
}

func (f *cacheFlags) filter() (app.CacheFilter, error) {
	kinds, err := app.ParseKinds(f.kind)
	if err != nil {
		return app.CacheFilter{}, err
	}
	filter := app.CacheFilter{Kinds: kinds, Fields: app.ParseList(f.fields...)}
	for _, y := range app.ParseList(f.years...) {
		year, err := strconv.Atoi(y)
		if err != nil {
			return app.CacheFilter{}, fmt.Errorf("invalid year %q", y)
		}
		filter.Years = append(filter.Years, year)
	}
	return filter, nil
}

func (c *cli) newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the derived column cache",
	}

	var describe cacheFlags
	describeCmd := &cobra.Command{
		Use:   "describe",
		Short: "List cached columns",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := describe.filter()
			if err != nil {
				return err
			}
			entries, err := c.container.CacheAdmin.Describe(cmd.Context(), filter)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(c.stdout, "**empty**")
				return nil
			}
			tw := tabwriter.NewWriter(c.stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "KEY\tTYPE\tROWS\tBYTES")
			for _, e := range entries {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%d\n", e.ColumnKey, e.Type, e.Rows, e.SizeBytes)
			}
			return tw.Flush()
		},
	}
	describe.register(describeCmd)

	var clearFlags cacheFlags
	var all bool
	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove cached columns by kind, year or field",
		Example: `  pnad cache clear --years 2001,2002
  pnad cache clear --kind person --fields income_work
  pnad cache clear --all`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !all && len(clearFlags.years) == 0 && len(clearFlags.fields) == 0 {
				return fmt.Errorf("select --years, --fields or --all")
			}
			filter, err := clearFlags.filter()
			if err != nil {
				return err
			}
			removed, err := c.container.CacheAdmin.Remove(cmd.Context(), filter)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.stdout, "removed %d cached columns\n", removed)
			return nil
		},
	}
	clearFlags.register(clearCmd)
	clearCmd.Flags().BoolVar(&all, "all", false, "Remove every cached column of the selected kinds")

	cmd.AddCommand(describeCmd, clearCmd)
	return cmd
}
