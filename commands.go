package main

import (
	"fmt"
	"strings"
	"time"

	"tracker_tui/internal/aggregate"
	"tracker_tui/internal/project"
	"tracker_tui/internal/report"
	"tracker_tui/internal/tracker"

	"github.com/spf13/cobra"
)

func projectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage projects",
	}
	cmd.AddCommand(projectAddCmd())
	cmd.AddCommand(projectListCmd())
	cmd.AddCommand(projectStatusCmd())
	return cmd
}

func projectAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add [name]",
		Short: "Add a new active project",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tr, closeFn, err := openTracker()
			if err != nil {
				return err
			}
			defer closeFn()

			p, err := tr.AddProject(strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Printf("Added project: %s (%s)\n", p.Name, p.ID[:8])
			return nil
		},
	}
}

func projectListCmd() *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := project.FilterAll
			if status != "" && status != string(project.FilterAll) {
				s, err := project.ParseStatus(status)
				if err != nil {
					return err
				}
				filter = project.StatusFilter(s)
			}

			tr, closeFn, err := openTracker()
			if err != nil {
				return err
			}
			defer closeFn()

			projects := project.FilterByStatus(tr.Projects.All(), filter)
			if len(projects) == 0 {
				fmt.Println("No projects found")
				return nil
			}
			for _, p := range projects {
				fmt.Printf("%s  %-24s %-10s %8.2fh\n", p.ID[:8], p.Name, p.Status, p.TotalHours)
			}
			fmt.Printf("\nTotal: %.1f hours\n", project.TotalHours(projects))
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "all", "filter by status (all, active, complete, on-hold, cancelled)")
	return cmd
}

func projectStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status [project] [status]",
		Short: "Change a project's status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tr, closeFn, err := openTracker()
			if err != nil {
				return err
			}
			defer closeFn()

			p, err := tr.Projects.Resolve(args[0])
			if err != nil {
				return err
			}
			s, err := project.ParseStatus(args[1])
			if err != nil {
				return err
			}
			if err := tr.SetProjectStatus(p.ID, s); err != nil {
				return err
			}
			fmt.Printf("%s is now %s\n", p.Name, s.Label())
			return nil
		},
	}
}

func logCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "log [project] [hours]",
		Short: "Record hours against a project",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tr, closeFn, err := openTracker()
			if err != nil {
				return err
			}
			defer closeFn()

			p, err := tr.Projects.Resolve(args[0])
			if err != nil {
				return err
			}
			e, err := tr.RecordManualTime(p.ID, args[1], date)
			if err != nil {
				return err
			}
			fmt.Println(tr.Describe(e))
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "entry date as YYYY-MM-DD (default today)")
	return cmd
}

// viewFlags are the aggregation options shared by report, calendar and export.
type viewFlags struct {
	view    string
	project string
	date    string
}

func (f *viewFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.view, "view", "", "month or week (default from config)")
	cmd.Flags().StringVar(&f.project, "project", "", "restrict to one project")
	cmd.Flags().StringVar(&f.date, "date", "", "reference date as YYYY-MM-DD (default today)")
}

func (f *viewFlags) apply(tr *tracker.Tracker) error {
	g := tr.View.Granularity
	if f.view != "" {
		var err error
		if g, err = aggregate.ParseGranularity(f.view); err != nil {
			return err
		}
	}
	filter := aggregate.All
	if f.project != "" {
		p, err := tr.Projects.Resolve(f.project)
		if err != nil {
			return err
		}
		filter = aggregate.Filter(p.ID)
	}
	if f.date != "" {
		d, err := aggregate.ParseDate(f.date)
		if err != nil {
			return fmt.Errorf("invalid date %q: %w", f.date, err)
		}
		tr.View.Reference = d
	}
	return tr.SetAggregationView(g, filter)
}

func reportCmd() *cobra.Command {
	var flags viewFlags

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print hour totals per month or week",
		RunE: func(cmd *cobra.Command, args []string) error {
			tr, closeFn, err := openTracker()
			if err != nil {
				return err
			}
			defer closeFn()

			if err := flags.apply(tr); err != nil {
				return err
			}
			series := tr.Series()
			if len(series) == 0 {
				fmt.Println("No time recorded yet")
				return nil
			}
			for _, row := range report.Rows(series, tr.Projects.All()) {
				fmt.Printf("%-10s %8s  %s\n", row[0], row[1], row[2])
			}
			fmt.Printf("\nTotal: %.1f hours\n", aggregate.SeriesTotal(series))
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

func calendarCmd() *cobra.Command {
	var flags viewFlags

	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Print the calendar for a month",
		RunE: func(cmd *cobra.Command, args []string) error {
			tr, closeFn, err := openTracker()
			if err != nil {
				return err
			}
			defer closeFn()

			if err := flags.apply(tr); err != nil {
				return err
			}
			view := tr.View
			cal := tr.Calendar()
			fmt.Println(view.Title())

			if view.Granularity == aggregate.Week {
				for _, ws := range aggregate.WeeksOfMonth(view.Reference) {
					b, ok := cal[aggregate.FormatDate(ws)]
					if !ok {
						fmt.Printf("Week of %s: -\n", ws.Format("1/2/2006"))
						continue
					}
					fmt.Printf("Week of %s: %.1f hours\n", ws.Format("1/2/2006"), b.Total)
					for _, ph := range b.Projects() {
						fmt.Printf("  %s: %.1fh\n", ph.Name, ph.Hours)
					}
				}
				return nil
			}

			for _, c := range aggregate.MonthGrid(view.Reference) {
				if !c.InMonth {
					continue
				}
				b, ok := cal[aggregate.FormatDate(c.Date)]
				if !ok {
					continue
				}
				fmt.Printf("%s %s: %.1f hours\n", c.Date.Format("Mon"), aggregate.FormatDate(c.Date), b.Total)
				for _, e := range b.Entries {
					fmt.Printf("  %s: %.2fh\n", e.ProjectName, e.Hours)
				}
			}
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

func exportCmd() *cobra.Command {
	var flags viewFlags

	cmd := &cobra.Command{
		Use:   "export [file.pdf]",
		Short: "Export the period totals as a PDF report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tr, closeFn, err := openTracker()
			if err != nil {
				return err
			}
			defer closeFn()

			if err := flags.apply(tr); err != nil {
				return err
			}
			if err := report.GeneratePDF(args[0], tr.View, tr.Series(), tr.Projects.All(), time.Now()); err != nil {
				return fmt.Errorf("error generating PDF: %w", err)
			}
			fmt.Printf("Report written to %s\n", args[0])
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}
