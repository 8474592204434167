// Package ctl implements gagyebuctl, a read-only command line view of a
// ledger export.
package ctl

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"gagyebu/internal/services"
	"gagyebu/internal/store/memory"
)

// app holds the flags and the lazily loaded ledger shared by every command.
type app struct {
	file    string
	year    int
	noColor bool
	now     func() time.Time

	summary *services.SummaryService
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := NewRootCmd(time.Now).Execute(); err != nil {
		os.Exit(1)
	}
}

// NewRootCmd builds the command tree. now picks the current year.
func NewRootCmd(now func() time.Time) *cobra.Command {
	a := &app{now: now}

	root := &cobra.Command{
		Use:           "gagyebuctl",
		Short:         "Inspect a household ledger export",
		Long:          "Summaries, budget burn, search and tabs over a JSON or YAML ledger export.",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if a.noColor {
				color.NoColor = true
				pterm.DisableColor()
			}
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&a.file, "file", "f", os.Getenv("GAGYEBU_FILE"), "ledger export (.json, .yaml or .yml)")
	root.PersistentFlags().IntVarP(&a.year, "year", "y", 0, "year to report (default: current year)")
	root.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "disable colored output")

	root.AddCommand(
		a.summaryCmd(),
		a.budgetCmd(),
		a.searchCmd(),
		a.tabsCmd(),
		a.yearsCmd(),
		a.projectsCmd(),
		a.categoriesCmd(),
	)
	return root
}

// load reads the export once per process.
func (a *app) load() (*services.SummaryService, error) {
	if a.summary != nil {
		return a.summary, nil
	}
	if a.file == "" {
		return nil, errors.New("no ledger file: pass --file or set GAGYEBU_FILE")
	}
	s, err := memory.NewFromFile(a.file)
	if err != nil {
		return nil, err
	}
	cfg := services.DefaultSummaryConfig()
	cfg.Now = a.now
	a.summary = services.NewSummaryService(s, cfg, nil, nil)
	return a.summary, nil
}

func (a *app) reportYear() int {
	if a.year != 0 {
		return a.year
	}
	return a.now().Year()
}

func out(cmd *cobra.Command) io.Writer {
	return cmd.OutOrStdout()
}

func printTitle(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, color.New(color.Bold).Sprintf(format, args...))
}
