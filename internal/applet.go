package sysglance

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// AppletOptions configures the host shell around the monitor.
type AppletOptions struct {
	// Accent is the theme color for borders, titles and charts.
	Accent lipgloss.Color
	// SourceName is shown in the status bar.
	SourceName string
	// SnapshotDir receives SVG frame exports.
	SnapshotDir string
	// TickInterval is the timer cadence driving both the sampling
	// gate and redraws. Defaults to the sampling interval.
	TickInterval time.Duration
}

// appletModel is the Bubble Tea shell: it delivers timer ticks to the
// monitor and pulls chart frames on redraw. The collapsed view is the
// one-line panel; enter expands it into the chart popup.
type appletModel struct {
	monitor *Monitor
	opts    AppletOptions

	width    int
	height   int
	ready    bool
	expanded bool
	status   string
}

type tickMsg time.Time

func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func newApplet(monitor *Monitor, opts AppletOptions) appletModel {
	if opts.TickInterval <= 0 {
		opts.TickInterval = SampleInterval()
	}
	return appletModel{
		monitor: monitor,
		opts:    opts,
	}
}

func (m appletModel) Init() tea.Cmd {
	return tickCmd(m.opts.TickInterval)
}

func (m appletModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "enter", " ":
			m.expanded = !m.expanded
			m.status = ""
		case "s":
			m.status = m.snapshot()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case tickMsg:
		if err := m.monitor.Update(); err != nil {
			log.Printf("sample tick failed: %v", err)
			m.status = err.Error()
		}
		return m, tickCmd(m.opts.TickInterval)
	}

	return m, nil
}

func (m appletModel) View() string {
	if !m.ready {
		return "Initializing..."
	}
	if m.expanded {
		return m.popupView()
	}
	return m.panelView()
}

// panelView is the collapsed one-line panel readout.
func (m appletModel) panelView() string {
	style := lipgloss.NewStyle().Foreground(m.opts.Accent).Bold(true)
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	if !m.monitor.Initialized() {
		return dim.Render("Loading...")
	}

	cpu, _ := m.monitor.CPU().Latest()
	mem, _ := m.monitor.Memory().Latest()
	line := style.Render(fmt.Sprintf("CPU %s  MEM %s", PercentLabel(cpu.Value), PercentLabel(mem.Value)))
	hint := dim.Render("  enter=Charts  q=Quit")
	return line + hint
}

// popupView is the expanded two-chart popup.
func (m appletModel) popupView() string {
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	if !m.monitor.Initialized() {
		pane := NewPane("", m.paneWidth(), 3, m.opts.Accent).
			SetContent(dim.Render("Loading..."))
		return pane.Render()
	}

	cols, rows := m.chartCells()
	cpuPane := m.chartPane("CPU", m.monitor.CPU(), cols, rows)
	memPane := m.chartPane("Memory", m.monitor.Memory(), cols, rows)

	help := "enter=Panel  s=Snapshot  q=Quit"
	if m.opts.SourceName != "" {
		help = m.opts.SourceName + "  " + help
	}
	if m.status != "" {
		help = m.status
	}
	return Vertical(cpuPane, memPane) + "\n" + dim.Render(help)
}

func (m appletModel) chartPane(title string, c *Chart, cols, rows int) Pane {
	if latest, ok := c.Latest(); ok {
		title = fmt.Sprintf("%s %s", title, PercentLabel(latest.Value))
	}

	var content string
	frame, err := c.Draw(m.chartBounds(cols, rows))
	if err != nil {
		// A failed frame indicates a broken invariant; report it
		// loudly and keep the sampler running.
		log.Printf("render %s chart: %v", title, err)
		content = "chart render failed: " + err.Error()
	} else {
		style := lipgloss.NewStyle().Foreground(m.opts.Accent)
		content = style.Render(JoinCells(RenderCells(frame, cols, rows)))
	}

	return NewPane(title, m.paneWidth(), rows+1, m.opts.Accent).SetContent(content)
}

// chartCells sizes one chart in terminal cells from the window size.
func (m appletModel) chartCells() (cols, rows int) {
	cols = m.paneWidth() - 2
	if cols < 20 {
		cols = 20
	}
	rows = (m.height-8)/2 - 2
	if rows < 4 {
		rows = 4
	}
	if rows > 12 {
		rows = 12
	}
	return cols, rows
}

// chartBounds maps cell dimensions to frame pixel bounds. Terminal
// cells are roughly twice as tall as wide, so the vector frame keeps
// the on-screen aspect ratio.
func (m appletModel) chartBounds(cols, rows int) Bounds {
	return Bounds{Width: cols * 8, Height: rows * 16}
}

func (m appletModel) paneWidth() int {
	w := m.width - 4
	if w < 24 {
		w = 24
	}
	return w
}

// snapshot writes the current charts as SVG files at their configured
// frame size and returns a status line.
func (m appletModel) snapshot() string {
	if !m.monitor.Initialized() {
		return "no data to snapshot yet"
	}

	charts := map[string]*Chart{
		"cpu.svg":    m.monitor.CPU(),
		"memory.svg": m.monitor.Memory(),
	}
	for name, c := range charts {
		frame, err := c.Draw(c.PreferredBounds())
		if err != nil {
			log.Printf("snapshot %s: %v", name, err)
			return "snapshot failed: " + err.Error()
		}
		path := filepath.Join(m.opts.SnapshotDir, name)
		if err := os.WriteFile(path, frame.SVG, 0644); err != nil {
			log.Printf("snapshot %s: %v", name, err)
			return "snapshot failed: " + err.Error()
		}
	}
	return "snapshot written to " + m.opts.SnapshotDir
}

// RunApplet runs the applet until the user quits.
func RunApplet(monitor *Monitor, opts AppletOptions) {
	p := tea.NewProgram(newApplet(monitor, opts), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatalf("Error running bubbletea program: %v", err)
	}
}
