package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"gopnad/app"
	"gopnad/domain/survey"

	"github.com/spf13/cobra"
)

func (c *cli) newYearsCmd() *cobra.Command {
	var kind, within string
	var fullRace bool
	cmd := &cobra.Command{
		Use:   "years",
		Short: "List the available survey editions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			kinds, err := app.ParseKinds(kind)
			if err != nil {
				return err
			}
			r, err := survey.ParseRange(within)
			if err != nil {
				return err
			}
			for _, k := range kinds {
				years, err := c.container.Loader.Years(cmd.Context(), k, r)
				if err != nil {
					return err
				}
				if fullRace && k == survey.Person {
					years = survey.FullRaceInfoYears(years)
				}
				list := make([]string, len(years))
				for i, y := range years {
					list[i] = fmt.Sprint(y)
				}
				fmt.Fprintf(c.stdout, "%-10s %s\n", k, strings.Join(list, " "))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "all", "person, household or all")
	cmd.Flags().StringVar(&within, "range", "", "Restrict to a range such as 1992-")
	cmd.Flags().BoolVar(&fullRace, "full-race", false, "Only person editions that asked every respondent about race")
	return cmd
}

func (c *cli) newStatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "states [IBGE_CODE...]",
		Short: "List the federative units with their IBGE codes and regions",
		RunE: func(cmd *cobra.Command, args []string) error {
			states := survey.States()
			if len(args) > 0 {
				states = states[:0:0]
				for _, arg := range app.ParseList(args...) {
					code, err := strconv.Atoi(arg)
					if err != nil {
						return fmt.Errorf("invalid IBGE code %q", arg)
					}
					s, ok := survey.StateFromIBGE(code)
					if !ok {
						return fmt.Errorf("unknown IBGE code %d", code)
					}
					states = append(states, s)
				}
			}
			tw := tabwriter.NewWriter(c.stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "IBGE\tUF\tNAME\tREGION")
			for _, s := range states {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", s.IBGE(), s, s.VerboseName(), s.Region())
			}
			return tw.Flush()
		},
	}
}

func (c *cli) newFieldsCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "fields KIND",
		Short: "Describe the harmonised fields of a record kind",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := survey.ParseKind(args[0])
			if err != nil {
				return err
			}
			if asJSON {
				infos, err := c.container.Loader.Fields(kind)
				if err != nil {
					return err
				}
				enc := json.NewEncoder(c.stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(infos)
			}
			doc, err := c.container.Loader.FieldsMarkdown(kind)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(c.stdout, doc)
			return err
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of markdown")
	return cmd
}

func (c *cli) newVariablesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "variables KIND YEAR",
		Short: "List the raw variables of one edition",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, year, err := parseEdition(args)
			if err != nil {
				return err
			}
			vars, err := c.container.Loader.Variables(cmd.Context(), kind, year)
			if err != nil {
				return err
			}
			fmt.Fprintln(c.stdout, strings.Join(vars, "\n"))
			return nil
		},
	}
}
