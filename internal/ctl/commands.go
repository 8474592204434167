package ctl

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"gagyebu/internal/budget"
	"gagyebu/internal/core"
	"gagyebu/internal/grouping"
	"gagyebu/internal/store"
)

func (a *app) summaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Balances, net assets and the current year's discrepancy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.load()
			if err != nil {
				return err
			}
			s, err := svc.Summary(cmd.Context(), a.reportYear())
			if err != nil {
				return err
			}
			w := out(cmd)
			printTitle(w, "%d SUMMARY", s.Year)
			rows := [][]string{
				{"Personal balance", signed(s.PersonalBalance)},
				{"Family balance", signed(s.FamilyBalance)},
				{"Net assets", formatAmount(s.NetAssets)},
			}
			if s.IsCurrentYear {
				rows = append(rows, []string{"Discrepancy", discrepancy(s.Discrepancy)})
			}
			return renderTable(w, nil, rows)
		},
	}
}

func (a *app) budgetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "budget",
		Short: "Budget burn against family spending",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.load()
			if err != nil {
				return err
			}
			year := a.reportYear()
			r, err := svc.Budget(cmd.Context(), year)
			if err != nil {
				return err
			}
			w := out(cmd)
			printTitle(w, "%d BUDGET", year)
			var rows [][]string
			for _, section := range []struct {
				name string
				s    budget.Section
			}{{"Monthly", r.Monthly}, {"Annual", r.Annual}} {
				if len(section.s.Groups) == 0 {
					continue
				}
				rows = append(rows, []string{color.New(color.Underline).Sprint(section.name), "", "", "", ""})
				for _, g := range section.s.Groups {
					for _, l := range g.Lines {
						rows = append(rows, figureRow("  "+g.Category+" / "+l.Name, l.Figures))
					}
				}
			}
			rows = append(rows, figureRow("Total", r.Total))
			return renderTable(w, []string{"Line", "Annualized", "Spent", "Remaining", "Burn"}, rows)
		},
	}
}

func (a *app) searchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Find ledger lines by name, memo or project",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.load()
			if err != nil {
				return err
			}
			results, err := svc.Search(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			w := out(cmd)
			if len(results) == 0 {
				fmt.Fprintln(w, "No matches.")
				return nil
			}
			rows := make([][]string, 0, len(results))
			for _, r := range results {
				name := r.Name
				if r.ProjectName != "" {
					name = r.ProjectName + " > " + r.Name
				}
				rows = append(rows, []string{
					r.Source.String(), strconv.Itoa(r.Year), monthLabel(r.Month), r.Category, name, formatAmount(r.Amount),
				})
			}
			return renderTable(w, []string{"Source", "Year", "Month", "Category", "Name", "Amount"}, rows)
		},
	}
}

func (a *app) tabsCmd() *cobra.Command {
	var view string
	cmd := &cobra.Command{
		Use:   "tabs <source> <section>",
		Short: "Month or category tabs of a section's items",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := core.ParseSource(args[0])
			if err != nil {
				return fmt.Errorf("source %q: %w", args[0], err)
			}
			section, err := store.ParseSection(args[1])
			if err != nil {
				return err
			}
			v, err := grouping.ParseView(view)
			if err != nil {
				return err
			}
			svc, err := a.load()
			if err != nil {
				return err
			}
			year := a.reportYear()
			tabs, err := svc.Tabs(cmd.Context(), source, year, section, v)
			if err != nil {
				return err
			}
			w := out(cmd)
			printTitle(w, "%s %d %s", source, year, section)
			rows := make([][]string, 0, len(tabs))
			for _, t := range tabs {
				label := t.Category
				if v == grouping.ViewMonthly {
					label = monthLabel(t.Month)
				}
				rows = append(rows, []string{label, fmt.Sprintf("%d items", t.Count), formatAmount(t.Total)})
			}
			return renderTable(w, nil, rows)
		},
	}
	cmd.Flags().StringVar(&view, "view", string(grouping.ViewMonthly), "monthly or category")
	return cmd
}

func (a *app) yearsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "years <source>",
		Short: "Years recorded for personal or family",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := core.ParseSource(args[0])
			if err != nil {
				return fmt.Errorf("source %q: %w", args[0], err)
			}
			svc, err := a.load()
			if err != nil {
				return err
			}
			years, err := svc.Years(cmd.Context(), source)
			if err != nil {
				return err
			}
			for _, y := range years {
				fmt.Fprintln(out(cmd), y)
			}
			return nil
		},
	}
}

func (a *app) projectsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "projects <source>",
		Short: "Project expenses of every year, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := core.ParseSource(args[0])
			if err != nil {
				return fmt.Errorf("source %q: %w", args[0], err)
			}
			svc, err := a.load()
			if err != nil {
				return err
			}
			projects, err := svc.Projects(cmd.Context(), source)
			if err != nil {
				return err
			}
			w := out(cmd)
			printTitle(w, "%s projects", source)
			if len(projects.Years) == 0 {
				fmt.Fprintln(w, "No projects.")
				return nil
			}
			var rows [][]string
			for _, y := range projects.Years {
				for _, p := range y.Projects {
					rows = append(rows, []string{strconv.Itoa(y.Year), p.Category, p.Name, p.Memo, formatAmount(p.Total)})
				}
			}
			rows = append(rows, []string{"Total", "", "", "", formatAmount(projects.Total)})
			return renderTable(w, []string{"Year", "Category", "Name", "Memo", "Amount"}, rows)
		},
	}
}

func (a *app) categoriesCmd() *cobra.Command {
	var (
		month int
		sub   string
	)
	cmd := &cobra.Command{
		Use:   "categories <source> <section>",
		Short: "Category suggestions for a new entry",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := core.ParseSource(args[0])
			if err != nil {
				return fmt.Errorf("source %q: %w", args[0], err)
			}
			section, err := store.ParseSection(args[1])
			if err != nil {
				return err
			}
			s, err := store.ParseSub(sub)
			if err != nil {
				return err
			}
			svc, err := a.load()
			if err != nil {
				return err
			}
			categories, err := svc.Categories(cmd.Context(), source, a.reportYear(), section, s, month)
			if err != nil {
				return err
			}
			for _, c := range categories {
				fmt.Fprintln(out(cmd), c)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&month, "month", 0, "month of the new entry (1-12)")
	cmd.Flags().StringVar(&sub, "sub", string(store.SubItems), "items or recurring")
	return cmd
}
