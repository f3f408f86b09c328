// Package ui provides the terminal user interface using Bubble Tea.
package ui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/soniakeys/meeus/v3/julian"

	"github.com/litescript/antikythera/internal/astro"
	"github.com/litescript/antikythera/internal/config"
	"github.com/litescript/antikythera/internal/logging"
	"github.com/litescript/antikythera/internal/observer"
	"github.com/litescript/antikythera/internal/sky"
	"github.com/litescript/antikythera/internal/state"
	"github.com/litescript/antikythera/internal/version"
)

// frameInterval is the wall time between frames.
const frameInterval = 100 * time.Millisecond

// recentEventLines is how many session events the info panel lists.
const recentEventLines = 4

// TickMsg triggers a frame: the clock advances and positions are recomputed.
type TickMsg time.Time

// Model is the root Bubble Tea model.
type Model struct {
	// Dependencies
	session *state.Session
	engine  *sky.Engine
	keys    KeyMap
	theme   config.Theme
	log     *logging.Logger

	// UI state
	width     int
	height    int
	ready     bool
	statusMsg string
	statusErr bool
	lastTick  time.Time

	skyView    SkyViewModel
	orrery     OrreryModel
	showOrrery bool

	// Per-frame data, read once per tick
	snapshot state.Snapshot
	frame    sky.Frame

	// Rise and set times, replanned once the clock leaves the sample step
	passes *sky.PassPlan
}

// Options configures the root model.
type Options struct {
	Theme      config.Theme
	Projection astro.Projection
	Logger     *logging.Logger
}

// New creates a new root UI model.
func New(session *state.Session, engine *sky.Engine, opts Options) Model {
	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}
	theme := opts.Theme
	if theme.Bodies == nil {
		theme = config.DefaultTheme()
	}

	m := Model{
		session: session,
		engine:  engine,
		keys:    KeyMap{Year: engine.Table().Earth().Period},
		theme:   theme,
		log:     log.Component("ui"),
		skyView: NewSkyViewModel(theme, opts.Projection),
		orrery:  NewOrreryModel(engine.Table(), theme),
	}
	m.refresh()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg.String())

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.skyView = m.skyView.SetSize(m.canvasSize())
		m.orrery = m.orrery.SetSize(m.canvasSize())

	case TickMsg:
		now := time.Time(msg)
		if !m.lastTick.IsZero() {
			m.session.Tick(now.Sub(m.lastTick))
		}
		m.lastTick = now
		m.refresh()
		return m, tickCmd()
	}

	return m, nil
}

func (m Model) handleKey(key string) (tea.Model, tea.Cmd) {
	entryActive := m.snapshot.Entry.Active()

	if key == "ctrl+c" || (!entryActive && (key == "q" || key == "esc")) {
		return m, tea.Quit
	}

	if !entryActive {
		switch key {
		case "tab", "j", "down":
			m.skyView = m.skyView.focusNext()
			return m, nil
		case "shift+tab", "k", "up":
			m.skyView = m.skyView.focusPrev()
			return m, nil
		case "l":
			m.skyView = m.skyView.cycleLabelMode()
			return m, nil
		case "p":
			m.skyView = m.skyView.toggleProjection()
			return m, nil
		case "g":
			m.skyView = m.skyView.toggleGrid()
			return m, nil
		case "v":
			m.showOrrery = !m.showOrrery
			return m, nil
		case "z":
			if m.showOrrery {
				m.orrery = m.orrery.zoomIn()
				return m, nil
			}
		case "x":
			if m.showOrrery {
				m.orrery = m.orrery.zoomOut()
				return m, nil
			}
		}
	}

	cmd, ok := m.keys.Decode(key, entryActive, m.snapshot.Rate)
	if !ok {
		return m, nil
	}

	if err := m.session.Apply(cmd); err != nil {
		m.statusMsg = err.Error()
		m.statusErr = true
		m.log.Debug("%s rejected: %v", cmd.Kind, err)
	} else if cmd.Kind == state.CmdCommitEntry || cmd.Kind == state.CmdCancelEntry {
		m.statusMsg = ""
		m.statusErr = false
	}
	m.refresh()
	return m, nil
}

// refresh reads one snapshot and computes the frame from it.
func (m *Model) refresh() {
	m.snapshot = m.session.Snapshot()
	m.frame = m.engine.Compute(m.snapshot.Epoch, m.snapshot.Observer)
	m.skyView = m.skyView.UpdateFrame(m.frame)

	if m.passesStale() {
		m.passes = m.engine.PassPlan(m.snapshot.Epoch, m.snapshot.Observer, sky.PassWindowDuration, sky.PassSampleInterval)
	}
}

func (m Model) passesStale() bool {
	if m.passes == nil || m.passes.Observer != m.snapshot.Observer {
		return true
	}
	drift := m.frame.Time().Sub(m.passes.Now)
	return drift < 0 || drift > sky.PassSampleInterval
}

// canvasSize is the space left for the dome beside the info panel.
func (m Model) canvasSize() (int, int) {
	const chrome = 6 // header, entry prompt, footer
	const panel = 64
	w := m.width - panel - 2
	if w < 15 {
		w = m.width
	}
	return w, m.height - chrome
}

// Frame returns the last computed frame.
func (m Model) Frame() sky.Frame {
	return m.frame
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	dome := m.skyView.View()
	if m.showOrrery {
		var focus string
		if b, ok := m.skyView.Focused(); ok {
			focus = b.Name
		}
		dome = m.orrery.Update(m.frame.Epoch, focus, m.skyView.labelMode).View()
	}
	panel := m.renderInfo()

	var body string
	if w, _ := m.canvasSize(); w == m.width {
		body = lipgloss.JoinVertical(lipgloss.Left, dome, panel)
	} else {
		body = lipgloss.JoinHorizontal(lipgloss.Top, dome, "  ", panel)
	}

	return m.renderHeader() + "\n" + body + "\n" + m.renderPrompt() + "\n" + m.renderFooter()
}

func (m Model) renderHeader() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.Title))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))

	title := titleStyle.Render("ANTIKYTHERA")
	ver := dimStyle.Render("v" + version.Version)

	t := m.frame.Time()
	when := t.Format("2006-01-02 15:04:05 UTC")
	jd := fmt.Sprintf("JD %.5f", julian.TimeToJD(t))

	rate := fmt.Sprintf("x%g", m.snapshot.Rate)
	if m.snapshot.Paused {
		rate = "paused"
	}

	view := fmt.Sprintf("%s · labels %s", m.skyView.projection, m.skyView.labelMode)

	return fmt.Sprintf("%s %s | %s | %s | %s | %s", title, ver, when, dimStyle.Render(jd), rate, dimStyle.Render(view))
}

func (m Model) renderInfo() string {
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("135")).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))

	obs := m.frame.Observer
	var b strings.Builder
	b.WriteString(labelStyle.Render("Observer"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  lat %s  lon %s  LST %s\n",
		sky.FormatDegrees(obs.Lat), sky.FormatDegrees(obs.Lon), sky.FormatHours(m.frame.LST)))
	b.WriteString(dimStyle.Render(fmt.Sprintf("  %d of %d bodies above the horizon", m.frame.VisibleCount(), len(m.frame.Bodies))))
	b.WriteString("\n\n")

	b.WriteString(labelStyle.Render("Bodies"))
	b.WriteString("\n")
	b.WriteString(RenderBodyPanel(m.frame, m.skyView.focusIdx))
	b.WriteString("\n")

	if focus, ok := m.skyView.Focused(); ok {
		b.WriteString("\n")
		b.WriteString(labelStyle.Render(focus.Name))
		b.WriteString("\n")
		b.WriteString(renderFocusDetail(focus, m.passes))
	}

	if events := m.session.RecentEvents(recentEventLines); len(events) > 0 {
		b.WriteString("\n\n")
		b.WriteString(labelStyle.Render("Events"))
		for _, e := range events {
			b.WriteString("\n")
			b.WriteString(dimStyle.Render(fmt.Sprintf("  %s %-15s %s",
				e.Timestamp.Format("15:04:05"), e.Type, e.Detail)))
		}
	}

	return b.String()
}

// renderFocusDetail shows distance, elongation from the Sun and the next
// horizon crossings.
func renderFocusDetail(b sky.BodyPosition, plan *sky.PassPlan) string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))

	lines := []string{
		fmt.Sprintf("  distance %.4f AU (%s km)", b.Distance, formatKm(astro.AUToKm(b.Distance))),
		fmt.Sprintf("  light time %s", formatLightTime(astro.LightTimeFromAU(b.Distance))),
	}
	if !math.IsNaN(b.Elongation) {
		lines = append(lines, fmt.Sprintf("  %.1f° from the Sun", astro.RadToDeg(b.Elongation)))
	}
	if plan != nil {
		lines = append(lines, passLine(plan, b.Name))
	}
	return dimStyle.Render(strings.Join(lines, "\n"))
}

func formatKm(km float64) string {
	if km >= 1e6 {
		return fmt.Sprintf("%.1fM", km/1e6)
	}
	return fmt.Sprintf("%.0f", km)
}

func formatLightTime(sec float64) string {
	if sec < 60 {
		return fmt.Sprintf("%.2fs", sec)
	}
	return fmt.Sprintf("%dm%02ds", int(sec)/60, int(sec)%60)
}

// passLine summarizes the body's current or next pass.
func passLine(plan *sky.PassPlan, name string) string {
	const hhmm = "15:04"
	if p := plan.Current(name); p != nil {
		if p.SetClipped {
			return "  up all day"
		}
		return fmt.Sprintf("  up, sets %s UTC (max %.0f°)", p.Set.Format(hhmm), astro.RadToDeg(p.MaxAlt))
	}
	if p := plan.Next(name); p != nil {
		return fmt.Sprintf("  rises %s, transits %s, sets %s UTC",
			p.Rise.Format(hhmm), p.Culmination.Format(hhmm), setTime(p))
	}
	return "  does not rise within 24h"
}

func setTime(p *sky.Pass) string {
	if p.SetClipped {
		return "after 24h"
	}
	return p.Set.Format("15:04")
}

func (m Model) renderPrompt() string {
	entry := m.snapshot.Entry
	if !entry.Active() {
		return ""
	}
	promptStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Bold(true)

	label := "Latitude"
	if entry.Mode() == observer.EnteringLongitude {
		label = "Longitude"
	}
	return promptStyle.Render(fmt.Sprintf("%s (degrees): %s█", label, entry.Buffer())) +
		lipgloss.NewStyle().Foreground(lipgloss.Color("60")).Render("  enter: set | esc: cancel")
}

func (m Model) renderFooter() string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#E84A27"))

	help := dimStyle.Render("a/o: lat/lon | ←/→ hour | [/] day | {/} year | +/- rate | r: reverse | space: pause | n: now | j/k: focus | l: labels | p: projection | g: grid | v: orrery | z/x: zoom | q: quit")
	if m.statusMsg == "" {
		return help
	}
	status := m.statusMsg
	if m.statusErr {
		status = errorStyle.Render(status)
	}
	return status + "\n" + help
}

func tickCmd() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
