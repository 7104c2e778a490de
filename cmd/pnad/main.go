package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"gopnad/domain/survey"
	"gopnad/internal/config"
	"gopnad/internal/container"
	"gopnad/internal/export"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// cli carries the wired application across subcommands.
type cli struct {
	container *container.Container
	verbose   bool
	stdout    io.Writer
}

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(stdout io.Writer) *cobra.Command {
	c := &cli{stdout: stdout}

	rootCmd := &cobra.Command{
		Use:           "pnad",
		Short:         "Load harmonised PNAD microdata",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !c.verbose {
				log.SetOutput(io.Discard)
			}
			_ = godotenv.Load()
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			c.container, err = container.New(cmd.Context(), cfg)
			return err
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if c.container != nil {
				return c.container.Shutdown()
			}
			return nil
		},
	}
	rootCmd.SetOut(stdout)
	rootCmd.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Log loader activity to stderr")

	rootCmd.AddCommand(
		c.newYearsCmd(),
		c.newFieldsCmd(),
		c.newVariablesCmd(),
		c.newStatesCmd(),
		c.newLoadCmd(),
		c.newPanelCmd(),
		c.newExportCmd(),
		c.newSummaryCmd(),
		c.newCacheCmd(),
	)
	return rootCmd
}

// outputFormat picks the requested format, or a terminal table when stdout
// is interactive and CSV otherwise.
func (c *cli) outputFormat(requested string) (export.Format, error) {
	if requested != "" {
		return export.ParseFormat(requested)
	}
	if f, ok := c.stdout.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return export.FormatTable, nil
	}
	return export.FormatCSV, nil
}

func parseEdition(args []string) (survey.Kind, int, error) {
	kind, err := survey.ParseKind(args[0])
	if err != nil {
		return "", 0, err
	}
	year, err := strconv.Atoi(args[1])
	if err != nil {
		return "", 0, fmt.Errorf("invalid year %q", args[1])
	}
	return kind, year, nil
}
