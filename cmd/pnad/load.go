package main

import (
	"fmt"

	"gopnad/app"
	"gopnad/domain/core"
	"gopnad/domain/survey"
	"gopnad/domain/table"
	"gopnad/internal/export"

	"github.com/spf13/cobra"
)

type outputFlags struct {
	format string
	limit  int
	out    string
}

func (o *outputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.format, "format", "f", "", "Output format: table, csv, json or xlsx")
	cmd.Flags().IntVarP(&o.limit, "limit", "n", -1, "Print at most N rows")
	cmd.Flags().StringVarP(&o.out, "out", "o", "", "Write to a file; the format follows its extension")
}

func (c *cli) write(o *outputFlags, tbl *table.Table) error {
	tbl = tbl.Head(o.limit)
	if o.out != "" {
		if err := export.WriteFile(o.out, tbl); err != nil {
			return err
		}
		fmt.Fprintf(c.stdout, "wrote %d rows x %d columns to %s\n", tbl.NumRows(), tbl.NumColumns(), o.out)
		return nil
	}
	format, err := c.outputFormat(o.format)
	if err != nil {
		return err
	}
	return export.Write(c.stdout, tbl, format)
}

func (c *cli) newLoadCmd() *cobra.Command {
	var o outputFlags
	cmd := &cobra.Command{
		Use:   "load KIND YEAR [COLUMNS...]",
		Short: "Load one survey edition with exactly the given columns",
		Long: `Load one PNAD edition. KIND is person or household. Without columns
every catalogued field is loaded. Names outside the catalogue are read as raw
variables of the edition.

Example: pnad load person 2001 age gender income_work --limit 10`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, year, err := parseEdition(args)
			if err != nil {
				return err
			}
			tbl, err := c.container.Loader.Load(cmd.Context(), kind, year, app.ParseList(args[2:]...))
			if err != nil {
				return err
			}
			return c.write(&o, tbl)
		},
	}
	o.register(cmd)
	return cmd
}

func (c *cli) newPanelCmd() *cobra.Command {
	var o outputFlags
	var years string
	var from, to int
	cmd := &cobra.Command{
		Use:   "panel KIND COLUMNS...",
		Short: "Stack several editions with a year column",
		Example: `  pnad panel person age income_work --years 1992-1999,2001
  pnad panel household residents --from 2001 --out households.xlsx`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := survey.ParseKind(args[0])
			if err != nil {
				return err
			}
			loader := c.container.Loader
			var selected []int
			if years == "" && (from != survey.Open || to != survey.Open) {
				selected, err = loader.Years(cmd.Context(), kind, survey.Between(from, to))
				if err == nil && len(selected) == 0 {
					err = fmt.Errorf("%w: no %s edition between %d and %d", core.ErrYearUnavailable, kind, from, to)
				}
			} else {
				selected, err = loader.ResolveYears(cmd.Context(), kind, years)
			}
			if err != nil {
				return err
			}
			tbl, err := loader.LoadPanel(cmd.Context(), kind, selected, app.ParseList(args[1:]...))
			if err != nil {
				return err
			}
			return c.write(&o, tbl)
		},
	}
	cmd.Flags().StringVar(&years, "years", "", "Years and ranges, e.g. 1992-1995,2001 (default all)")
	cmd.Flags().IntVar(&from, "from", survey.Open, "First edition when --years is not given")
	cmd.Flags().IntVar(&to, "to", survey.Open, "Last edition when --years is not given")
	o.register(cmd)
	return cmd
}

func (c *cli) newExportCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export KIND YEAR [COLUMNS...] --out FILE",
		Short: "Write one edition to a csv, json or xlsx file",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, year, err := parseEdition(args)
			if err != nil {
				return err
			}
			tbl, err := c.container.Loader.Load(cmd.Context(), kind, year, app.ParseList(args[2:]...))
			if err != nil {
				return err
			}
			return c.write(&outputFlags{limit: -1, out: out}, tbl)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Destination file (.csv, .json or .xlsx)")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}
