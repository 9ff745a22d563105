package internal

import (
	"strconv"
	"strings"

	"tracker_tui/internal/aggregate"
	"tracker_tui/internal/project"
	"tracker_tui/internal/timer"
	"tracker_tui/internal/tracker"

	tea "github.com/charmbracelet/bubbletea"
)

type MsgTick struct{}

type screen int

const (
	mainScreen screen = iota
	addScreen
	manualScreen
	countdownScreen
	calendarScreen
	chartScreen
)

type Model struct {
	tracker *tracker.Tracker

	Screen        screen
	SelectedIndex int
	StatusFilter  project.StatusFilter
	RecentCount   int

	// Form state
	NewProjectName string
	HoursInput     string
	DateInput      string
	CountdownInput string
	InputFocus     int

	// Alert dialog
	Notice string

	Width  int
	Height int
}

func NewModel(tr *tracker.Tracker, recent int) *Model {
	if recent <= 0 {
		recent = 5
	}
	return &Model{
		tracker:      tr,
		Screen:       mainScreen,
		StatusFilter: project.FilterAll,
		RecentCount:  recent,
	}
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case MsgTick:
		n, err := m.tracker.Tick()
		if err != nil {
			m.notify(err)
		} else if n != nil {
			m.Notice = n.Message
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		return m, nil
	}
	return m, nil
}

func (m *Model) View() string {
	if m.Notice != "" {
		return m.noticeView()
	}

	switch m.Screen {
	case addScreen:
		return m.addFormView()
	case manualScreen:
		return m.manualFormView()
	case countdownScreen:
		return m.countdownFormView()
	case calendarScreen:
		return m.calendarView()
	case chartScreen:
		return m.chartView()
	}

	if m.tracker.Projects.Len() == 0 {
		return m.emptyStateView()
	}
	return m.mainView()
}

// notify shows err in the alert dialog.
func (m *Model) notify(err error) {
	if err == nil {
		return
	}
	if n, ok := tracker.AsNotice(err); ok {
		m.Notice = n.Message
		return
	}
	m.Notice = "Error: " + err.Error()
}

// VisibleProjects is the project list after the status filter.
func (m *Model) VisibleProjects() []project.Project {
	return project.FilterByStatus(m.tracker.Projects.All(), m.StatusFilter)
}

func (m *Model) SelectedProject() (project.Project, bool) {
	projects := m.VisibleProjects()
	if m.SelectedIndex >= 0 && m.SelectedIndex < len(projects) {
		return projects[m.SelectedIndex], true
	}
	return project.Project{}, false
}

func (m *Model) clampSelection() {
	n := len(m.VisibleProjects())
	if m.SelectedIndex >= n {
		m.SelectedIndex = n - 1
	}
	if m.SelectedIndex < 0 {
		m.SelectedIndex = 0
	}
}

func (m *Model) nextStatusFilter() {
	filters := []project.StatusFilter{project.FilterAll}
	for _, s := range project.Statuses {
		filters = append(filters, project.StatusFilter(s))
	}
	for i, f := range filters {
		if f == m.StatusFilter {
			m.StatusFilter = filters[(i+1)%len(filters)]
			m.clampSelection()
			return
		}
	}
	m.StatusFilter = project.FilterAll
}

// nextProjectFilter cycles the calendar filter through all and each project.
func (m *Model) nextProjectFilter() {
	view := m.tracker.View
	options := []aggregate.Filter{aggregate.All}
	for _, p := range m.tracker.Projects.All() {
		options = append(options, aggregate.Filter(p.ID))
	}
	next := aggregate.All
	for i, f := range options {
		if f == view.Filter || (f.IsAll() && view.Filter.IsAll()) {
			next = options[(i+1)%len(options)]
			break
		}
	}
	m.notify(m.tracker.SetAggregationView(view.Granularity, next))
}

func (m *Model) toggleGranularity() {
	view := m.tracker.View
	g := aggregate.Week
	if view.Granularity == aggregate.Week {
		g = aggregate.Month
	}
	m.notify(m.tracker.SetAggregationView(g, view.Filter))
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.Notice != "" {
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		m.Notice = ""
		return m, nil
	}

	switch m.Screen {
	case addScreen, manualScreen, countdownScreen:
		return m.handleFormInput(msg)
	case calendarScreen, chartScreen:
		return m.handlePeriodInput(msg)
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "up", "k":
		if m.SelectedIndex > 0 {
			m.SelectedIndex--
		}
	case "down", "j":
		if m.SelectedIndex < len(m.VisibleProjects())-1 {
			m.SelectedIndex++
		}
	case "n":
		m.Screen = addScreen
		m.NewProjectName = ""
		m.InputFocus = 0
	case "s":
		if p, ok := m.SelectedProject(); ok {
			m.notify(m.tracker.SetProjectStatus(p.ID, p.Status.Next()))
			m.clampSelection()
		}
	case "f":
		m.nextStatusFilter()
	case "m":
		if _, ok := m.SelectedProject(); ok {
			m.Screen = manualScreen
			m.HoursInput = ""
			m.DateInput = aggregate.Today(m.tracker.Now())
			m.InputFocus = 0
		} else {
			m.Notice = "Select a project to add time"
		}
	case "u":
		if p, ok := m.SelectedProject(); ok {
			m.notify(m.tracker.StartTimer(p.ID, timer.CountUp, 0))
		}
	case "d":
		if p, ok := m.SelectedProject(); ok {
			if !p.IsActive() {
				m.notify(m.tracker.StartTimer(p.ID, timer.CountDown, 0))
				break
			}
			m.Screen = countdownScreen
			m.CountdownInput = ""
			m.InputFocus = 0
		}
	case "p", " ":
		if m.tracker.Timer.Paused() {
			m.notify(m.tracker.ResumeTimer())
		} else {
			m.notify(m.tracker.PauseTimer())
		}
	case "x", "enter":
		if m.tracker.Timer.Active() {
			_, err := m.tracker.StopTimer()
			m.notify(err)
		}
	case "c":
		m.Screen = calendarScreen
	case "g":
		m.Screen = chartScreen
	}
	return m, nil
}

func (m *Model) handlePeriodInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "esc", "backspace":
		m.Screen = mainScreen
	case "c":
		m.Screen = calendarScreen
	case "g":
		m.Screen = chartScreen
	case "left", "h":
		m.tracker.NavigatePeriod(-1)
	case "right", "l":
		m.tracker.NavigatePeriod(1)
	case "v":
		m.toggleGranularity()
	case "tab":
		m.nextProjectFilter()
	case "p", " ":
		if m.tracker.Timer.Paused() {
			m.notify(m.tracker.ResumeTimer())
		} else if m.tracker.Timer.Running() {
			m.notify(m.tracker.PauseTimer())
		}
	case "x":
		if m.tracker.Timer.Active() {
			_, err := m.tracker.StopTimer()
			m.notify(err)
		}
	}
	return m, nil
}

func (m *Model) fieldCount() int {
	if m.Screen == manualScreen {
		return 2
	}
	return 1
}

// field returns the input currently focused.
func (m *Model) field() *string {
	switch m.Screen {
	case addScreen:
		return &m.NewProjectName
	case countdownScreen:
		return &m.CountdownInput
	case manualScreen:
		if m.InputFocus == 1 {
			return &m.DateInput
		}
		return &m.HoursInput
	}
	return nil
}

func (m *Model) submitForm() {
	switch m.Screen {
	case addScreen:
		if _, err := m.tracker.AddProject(m.NewProjectName); err != nil {
			m.notify(err)
			return
		}
		m.StatusFilter = project.FilterAll
		m.SelectedIndex = m.tracker.Projects.Len() - 1
	case manualScreen:
		p, ok := m.SelectedProject()
		if !ok {
			m.Notice = "Select a project to add time"
			break
		}
		e, err := m.tracker.RecordManualTime(p.ID, m.HoursInput, m.DateInput)
		if err != nil {
			m.notify(err)
			return
		}
		m.Notice = m.tracker.Describe(e)
	case countdownScreen:
		p, ok := m.SelectedProject()
		if !ok {
			break
		}
		minutes := 0.0
		if v, err := strconv.ParseFloat(strings.TrimSpace(m.CountdownInput), 64); err == nil {
			minutes = v
		}
		if err := m.tracker.StartTimer(p.ID, timer.CountDown, minutes); err != nil {
			m.notify(err)
			return
		}
	}
	m.Screen = mainScreen
}

func (m *Model) handleFormInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		m.Screen = mainScreen
	case "enter":
		if m.InputFocus < m.fieldCount()-1 {
			m.InputFocus++
		} else {
			m.submitForm()
		}
	case "tab", "shift+tab":
		m.InputFocus = (m.InputFocus + 1) % m.fieldCount()
	case "backspace":
		if f := m.field(); f != nil && len(*f) > 0 {
			r := []rune(*f)
			*f = string(r[:len(r)-1])
		}
	default:
		runes := []rune(msg.String())
		if len(runes) != 1 {
			break
		}
		f := m.field()
		if f == nil {
			break
		}
		switch m.Screen {
		case addScreen:
			*f += string(runes[0])
		case manualScreen:
			if m.InputFocus == 1 {
				if (runes[0] >= '0' && runes[0] <= '9') || runes[0] == '-' {
					*f += string(runes[0])
				}
			} else if (runes[0] >= '0' && runes[0] <= '9') || runes[0] == '.' {
				*f += string(runes[0])
			}
		case countdownScreen:
			if (runes[0] >= '0' && runes[0] <= '9') || runes[0] == '.' {
				*f += string(runes[0])
			}
		}
	}
	return m, nil
}
