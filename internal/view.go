package internal

import (
	"fmt"
	"strings"
	"time"

	"tracker_tui/internal/aggregate"
	"tracker_tui/internal/project"
	"tracker_tui/internal/timer"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")).
			Bold(true).
			Align(lipgloss.Center)

	projectItemStyle = lipgloss.NewStyle().
				Padding(0, 1)

	projectItemSelectedStyle = lipgloss.NewStyle().
					Foreground(lipgloss.Color("170")).
					Background(lipgloss.Color("235")).
					Padding(0, 1)

	timerDisplayStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("69")).
				Bold(true)

	timerRunningStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("82")).
				Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	inputStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("170"))

	inputInactiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240"))

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	inactiveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	todayStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("69")).
			Bold(true)

	statusStyles = map[project.Status]lipgloss.Style{
		project.StatusActive:    lipgloss.NewStyle().Foreground(lipgloss.Color("69")),
		project.StatusComplete:  lipgloss.NewStyle().Foreground(lipgloss.Color("82")),
		project.StatusOnHold:    lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		project.StatusCancelled: lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
	}

	// projectColors mirrors the calendar legend palette, assigned by
	// project position.
	projectColors = []lipgloss.Color{"33", "35", "220", "135", "205", "63"}
)

// formatClock renders a timer value as HH:MM:SS.
func formatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Second)
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}

func (m *Model) projectColor(id string) lipgloss.Style {
	for i, p := range m.tracker.Projects.All() {
		if p.ID == id {
			return lipgloss.NewStyle().Foreground(projectColors[i%len(projectColors)])
		}
	}
	return mutedStyle
}

func (m *Model) emptyStateView() string {
	return lipgloss.Place(
		80, 24,
		lipgloss.Center, lipgloss.Center,
		titleStyle.Render("Project Time Tracker")+"\n\n"+
			inactiveStyle.Render("No projects yet. Press 'n' to add one."),
	)
}

func (m *Model) headerView() string {
	all := m.tracker.Projects.All()
	counts := project.CountByStatus(all)
	stats := fmt.Sprintf("Projects: %d   Active: %d   Hours Tracked: %.1fh",
		len(all), counts[project.StatusActive], project.TotalHours(all))
	return titleStyle.Width(80).Render("Project Time Tracker") + "\n" +
		mutedStyle.Width(80).Align(lipgloss.Center).Render(stats)
}

func (m *Model) mainView() string {
	var sb strings.Builder

	sb.WriteString(m.headerView())
	sb.WriteString("\n\n")

	boxes := lipgloss.JoinHorizontal(lipgloss.Top,
		m.projectListView(),
		"  ",
		m.projectDetailView(),
	)
	sb.WriteString(boxes)
	sb.WriteString("\n")
	sb.WriteString(m.recentEntriesView())
	sb.WriteString("\n")
	if bar := m.activeTimerView(); bar != "" {
		sb.WriteString(bar)
		sb.WriteString("\n")
	}
	sb.WriteString(helpStyle.Render("Up/Down: Select | n: New | s: Status | f: Filter | m: Manual | u: Count Up | d: Count Down | p: Pause | x: Stop | c: Calendar | g: Chart | q: Quit"))

	return sb.String()
}

func (m *Model) projectListView() string {
	var sb strings.Builder

	all := m.tracker.Projects.All()
	label := "All Projects"
	count := len(all)
	if m.StatusFilter != project.FilterAll {
		st := project.Status(m.StatusFilter)
		label = st.Label()
		count = project.CountByStatus(all)[st]
	}
	sb.WriteString(headerStyle.Render("Projects"))
	sb.WriteString(mutedStyle.Render(fmt.Sprintf("  %s (%d)", label, count)))
	sb.WriteString("\n\n")

	active := m.tracker.Timer.Active()
	for i, p := range m.VisibleProjects() {
		running := ""
		if active && m.tracker.Timer.ProjectID() == p.ID {
			running = " ●"
		}
		line := fmt.Sprintf("%s %.2fh%s", p.Name, p.TotalHours, running)

		if i == m.SelectedIndex {
			sb.WriteString(projectItemSelectedStyle.Render(line))
		} else {
			sb.WriteString(projectItemStyle.Render(line))
		}
		sb.WriteString(" ")
		sb.WriteString(statusStyles[p.Status].Render(string(p.Status)))
		sb.WriteString("\n")
	}

	return boxStyle.Width(36).Height(14).Render(sb.String())
}

func (m *Model) projectDetailView() string {
	p, ok := m.SelectedProject()
	if !ok {
		return boxStyle.Width(40).Height(14).Render("Select a project to add time")
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Adding time to: %s\n", p.Name))
	sb.WriteString(fmt.Sprintf("Status: %s\n", statusStyles[p.Status].Render(p.Status.Label())))
	sb.WriteString(fmt.Sprintf("Total: %.2fh\n\n", p.TotalHours))

	sb.WriteString(headerStyle.Render("Timer"))
	sb.WriteString("\n")
	t := m.tracker.Timer
	switch {
	case !p.IsActive():
		sb.WriteString(inactiveStyle.Render("Timer is only available for active projects"))
	case t.Active() && t.ProjectID() == p.ID:
		clock := formatClock(m.tracker.TimerDisplay())
		if t.Running() {
			sb.WriteString(timerRunningStyle.Render(clock))
			sb.WriteString(mutedStyle.Render("  running"))
		} else {
			sb.WriteString(timerDisplayStyle.Render(clock))
			sb.WriteString(mutedStyle.Render("  paused"))
		}
	case t.Active():
		sb.WriteString(inactiveStyle.Render("Another project's timer is running"))
	default:
		sb.WriteString(timerDisplayStyle.Render(formatClock(0)))
		sb.WriteString("\n")
		sb.WriteString(mutedStyle.Render("u: count up | d: count down"))
	}
	sb.WriteString("\n\n")
	sb.WriteString(mutedStyle.Render("m: record time manually"))

	return boxStyle.Width(40).Height(14).Render(sb.String())
}

func (m *Model) recentEntriesView() string {
	var sb strings.Builder
	sb.WriteString(headerStyle.Render("Recent Time Entries"))
	sb.WriteString("\n")

	recent := m.tracker.Entries.Recent(m.RecentCount)
	if len(recent) == 0 {
		sb.WriteString(inactiveStyle.Render("No time recorded yet"))
	}
	projects := m.tracker.Projects.All()
	for i, e := range recent {
		if i > 0 {
			sb.WriteString("\n")
		}
		name := aggregate.ProjectName(projects, e.ProjectID)
		sb.WriteString(fmt.Sprintf("%s - %.2f hours on %s ", name, e.Hours, e.Date))
		sb.WriteString(mutedStyle.Render(humanize.Time(e.Timestamp)))
	}
	return boxStyle.Width(80).Render(sb.String())
}

func (m *Model) activeTimerView() string {
	t := m.tracker.Timer
	if !t.Active() {
		return ""
	}
	name := aggregate.ProjectName(m.tracker.Projects.All(), t.ProjectID())
	clock := formatClock(m.tracker.TimerDisplay())
	state := "▶"
	style := timerRunningStyle
	if t.Paused() {
		state = "⏸"
		style = timerDisplayStyle
	}
	mode := "count up"
	if t.Mode() == timer.CountDown {
		mode = "count down"
	}
	return fmt.Sprintf("%s %s %s %s", state, name, style.Render(clock), mutedStyle.Render("("+mode+")"))
}

func (m *Model) renderField(label, value string, focused bool) string {
	marker := "  "
	if focused {
		marker = "→ "
	}
	l := marker + label
	if focused {
		return inputStyle.Render(l) + inputStyle.Render(value+"█")
	}
	return inputInactiveStyle.Render(l) + value
}

func (m *Model) formView(title string, fields []string, help string) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Width(80).Render(title))
	sb.WriteString("\n\n")

	form := strings.Join(fields, "\n\n") + "\n\n" + helpStyle.Render(help)
	return lipgloss.Place(
		80, 24,
		lipgloss.Center, lipgloss.Center,
		sb.String()+boxStyle.Width(50).Render(form),
	)
}

func (m *Model) addFormView() string {
	return m.formView("Add New Project",
		[]string{m.renderField("Project Name: ", m.NewProjectName, true)},
		"Enter: Save | Esc: Cancel")
}

func (m *Model) manualFormView() string {
	p, _ := m.SelectedProject()
	focusName := "Hours"
	if m.InputFocus == 1 {
		focusName = "Date"
	}
	return m.formView("Manual Entry: "+p.Name,
		[]string{
			m.renderField("Hours: ", m.HoursInput, m.InputFocus == 0),
			m.renderField("Date (YYYY-MM-DD): ", m.DateInput, m.InputFocus == 1),
		},
		fmt.Sprintf("Tab: Switch (Focused: %s) | Enter: Record Time | Esc: Cancel", focusName))
}

func (m *Model) countdownFormView() string {
	p, _ := m.SelectedProject()
	return m.formView("Count Down: "+p.Name,
		[]string{m.renderField("Minutes: ", m.CountdownInput, true)},
		"Enter: Start | Esc: Cancel")
}

func (m *Model) noticeView() string {
	body := headerStyle.Render("Notice") + "\n\n" + m.Notice + "\n\n" + helpStyle.Render("Press any key to continue")
	return lipgloss.Place(
		80, 24,
		lipgloss.Center, lipgloss.Center,
		boxStyle.Width(50).Render(body),
	)
}

func (m *Model) periodHeader() string {
	view := m.tracker.View
	scope := "All Projects"
	if !view.Filter.IsAll() {
		scope = aggregate.ProjectName(m.tracker.Projects.All(), string(view.Filter))
	}
	g := "Month"
	if view.Granularity == aggregate.Week {
		g = "Week"
	}
	return titleStyle.Width(80).Render("◀ "+view.Title()+" ▶") + "\n" +
		mutedStyle.Width(80).Align(lipgloss.Center).Render(fmt.Sprintf("View: %s | Project: %s", g, scope))
}

func (m *Model) periodHelp() string {
	return helpStyle.Render("Left/Right: Navigate | v: Month/Week | Tab: Project | c: Calendar | g: Chart | Esc: Back")
}

func (m *Model) calendarView() string {
	var sb strings.Builder
	sb.WriteString(m.periodHeader())
	sb.WriteString("\n\n")
	if m.tracker.View.Granularity == aggregate.Week {
		sb.WriteString(m.weekListView())
	} else {
		sb.WriteString(m.monthGridView())
	}
	sb.WriteString("\n")
	sb.WriteString(m.legendView())
	sb.WriteString("\n")
	sb.WriteString(m.periodHelp())
	return sb.String()
}

func (m *Model) monthGridView() string {
	view := m.tracker.View
	cal := m.tracker.Calendar()
	today := aggregate.Today(m.tracker.Now())
	cellStyle := lipgloss.NewStyle().Width(11).Height(3)

	var rows []string
	var header []string
	for _, d := range []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"} {
		header = append(header, cellStyle.Height(1).Render(headerStyle.Render(d)))
	}
	rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, header...))

	cells := aggregate.MonthGrid(view.Reference)
	for w := 0; w < len(cells)/7; w++ {
		var row []string
		for _, c := range cells[w*7 : w*7+7] {
			key := aggregate.FormatDate(c.Date)
			day := fmt.Sprintf("%d", c.Date.Day())
			switch {
			case key == today:
				day = todayStyle.Render(day)
			case !c.InMonth:
				day = inactiveStyle.Render(day)
			}
			var lines []string
			if b, ok := cal[key]; ok {
				lines = append(lines, day+mutedStyle.Render(fmt.Sprintf(" (%.1fh)", b.Total)))
				for _, ph := range b.Projects() {
					lines = append(lines, m.projectColor(ph.ProjectID).Render(fmt.Sprintf("%.1fh", ph.Hours)))
				}
			} else {
				lines = append(lines, day)
			}
			row = append(row, cellStyle.Render(strings.Join(lines, "\n")))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m *Model) weekListView() string {
	cal := m.tracker.Calendar()
	var sb strings.Builder
	for _, ws := range aggregate.WeeksOfMonth(m.tracker.View.Reference) {
		sb.WriteString(headerStyle.Render("Week of " + ws.Format("1/2/2006")))
		if b, ok := cal[aggregate.FormatDate(ws)]; ok {
			sb.WriteString(mutedStyle.Render(fmt.Sprintf("  Total: %.1f hours", b.Total)))
			for _, ph := range b.Projects() {
				sb.WriteString("\n  ")
				sb.WriteString(m.projectColor(ph.ProjectID).Render(fmt.Sprintf("%s: %.1fh", ph.Name, ph.Hours)))
			}
		}
		sb.WriteString("\n")
	}
	return boxStyle.Width(80).Render(strings.TrimRight(sb.String(), "\n"))
}

func (m *Model) legendView() string {
	var parts []string
	for _, p := range m.tracker.Projects.All() {
		parts = append(parts, m.projectColor(p.ID).Render("■ "+p.Name))
	}
	return strings.Join(parts, "  ")
}

// barLen scales v against peak to a bar of at most width cells.
func barLen(v, peak float64, width int) int {
	if peak <= 0 || v <= 0 {
		return 0
	}
	return int(v / peak * float64(width))
}

func (m *Model) chartView() string {
	var sb strings.Builder
	sb.WriteString(m.periodHeader())
	sb.WriteString("\n\n")

	series := m.tracker.Series()
	if len(series) == 0 {
		sb.WriteString(inactiveStyle.Render("No time recorded yet"))
		sb.WriteString("\n\n")
		sb.WriteString(m.periodHelp())
		return sb.String()
	}

	peak := 0.0
	for _, p := range series {
		peak = max(peak, p.Total)
	}
	const barWidth = 50
	projects := m.tracker.Projects.All()

	var chart strings.Builder
	for _, p := range series {
		chart.WriteString(fmt.Sprintf("%-10s ", p.Label))
		if p.ByProject == nil {
			n := barLen(p.Total, peak, barWidth)
			chart.WriteString(timerRunningStyle.Render(strings.Repeat("█", n)))
		} else {
			for _, pr := range projects {
				n := barLen(p.ByProject[pr.ID], peak, barWidth)
				chart.WriteString(m.projectColor(pr.ID).Render(strings.Repeat("█", n)))
			}
		}
		chart.WriteString(mutedStyle.Render(fmt.Sprintf(" %.1fh", p.Total)))
		chart.WriteString("\n")
	}
	sb.WriteString(boxStyle.Width(80).Render(strings.TrimRight(chart.String(), "\n")))
	sb.WriteString("\n")
	sb.WriteString(m.legendView())
	sb.WriteString("\n")
	sb.WriteString(m.periodHelp())
	return sb.String()
}
