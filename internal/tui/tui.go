// Package tui provides a Bubble Tea terminal user interface for suno-exporter.
package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/handiism/suno-exporter/internal/config"
	"github.com/handiism/suno-exporter/internal/download"
	"github.com/handiism/suno-exporter/internal/model"
	"github.com/handiism/suno-exporter/internal/pipeline"
	events "github.com/handiism/suno-exporter/internal/progress"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FD429C")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(1, 2)

	fileStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8B500"))
)

// maxLogs is the number of log lines kept on screen.
const maxLogs = 10

// State represents the current UI state.
type State int

const (
	StateInput State = iota
	StateRunning
	StateComplete
	StateError
)

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state     State
	textInput textinput.Model
	spinner   spinner.Model
	progress  progress.Model
	settings  *config.Settings
	logs      []events.Event
	result    *pipeline.Result
	err       error

	// lastExport holds the songs of the most recent successful export and
	// survives resets.
	lastExport []model.Song

	// Run context
	ctx    context.Context
	cancel context.CancelFunc

	// msgs carries progress events and the final result of a run.
	msgs chan tea.Msg

	// manager is set while audio is downloaded.
	manager *download.Manager

	// Download progress
	downloadedFiles int32
	totalFiles      int32
	receivedBytes   int64

	// Options
	headless      bool
	downloadAudio bool
	keepUntitled  bool
	verbose       bool

	width  int
	height int
}

// NewModel creates a new TUI model using settings as the base
// configuration. A nil settings uses the defaults.
func NewModel(settings *config.Settings) Model {
	if settings == nil {
		settings = config.DefaultSettings()
	}

	ti := textinput.New()
	ti.Placeholder = "https://suno.com/@handle or saved-page.html"
	ti.SetValue(settings.PageURL)
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FD429C"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		state:         StateInput,
		textInput:     ti,
		spinner:       sp,
		progress:      prog,
		settings:      settings,
		ctx:           ctx,
		cancel:        cancel,
		headless:      settings.Headless,
		downloadAudio: settings.DownloadAudio,
		keepUntitled:  !settings.RequireTitle,
		verbose:       settings.Verbose,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Message types
type (
	// ProgressMsg carries a pipeline progress event.
	ProgressMsg struct {
		Event events.Event
	}

	// StartedMsg is sent once the pipeline has been set up.
	StartedMsg struct {
		Manager *download.Manager
	}

	// DoneMsg is sent when the pipeline finishes.
	DoneMsg struct {
		Result *pipeline.Result
		Err    error
	}

	// ExportedMsg carries the songs written by a finished export.
	ExportedMsg struct {
		Songs []model.Song
	}

	// TickMsg is for periodic progress updates.
	TickMsg struct{}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = min(max(msg.Width-20, 20), 80)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancel()
			return m, tea.Quit

		case "esc":
			if m.state == StateInput {
				return m, tea.Quit
			}
			if m.state == StateRunning {
				m.cancel()
			}

		case "enter":
			if m.state == StateInput && strings.TrimSpace(m.textInput.Value()) != "" {
				m.state = StateRunning
				m.msgs = make(chan tea.Msg, 64)
				return m, tea.Batch(m.startRun(), m.waitForMsg(), m.spinner.Tick)
			}

		case "alt+h":
			if m.state == StateInput {
				m.headless = !m.headless
				return m, nil
			}

		case "alt+a":
			if m.state == StateInput {
				m.downloadAudio = !m.downloadAudio
				return m, nil
			}

		case "alt+u":
			if m.state == StateInput {
				m.keepUntitled = !m.keepUntitled
				return m, nil
			}

		case "alt+v":
			if m.state == StateInput {
				m.verbose = !m.verbose
				return m, nil
			}

		case "q":
			if m.state == StateComplete || m.state == StateError {
				return m, tea.Quit
			}

		case "r":
			if m.state == StateComplete || m.state == StateError {
				// Reset for a new export
				m.state = StateInput
				m.logs = nil
				m.result = nil
				m.err = nil
				m.manager = nil
				m.downloadedFiles = 0
				m.totalFiles = 0
				m.receivedBytes = 0
				m.ctx, m.cancel = context.WithCancel(context.Background())
				m.textInput.Focus()
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case ProgressMsg:
		if msg.Event.Level != events.LevelVerbose || m.verbose {
			m.logs = append(m.logs, msg.Event)
			if len(m.logs) > maxLogs {
				m.logs = m.logs[len(m.logs)-maxLogs:]
			}
		}
		cmds = append(cmds, m.waitForMsg())

	case ExportedMsg:
		m.lastExport = msg.Songs
		cmds = append(cmds, m.waitForMsg())

	case StartedMsg:
		m.manager = msg.Manager
		if m.manager != nil {
			cmds = append(cmds, m.tickProgress())
		}

	case DoneMsg:
		m.result = msg.Result
		m.err = msg.Err
		switch {
		case m.ctx.Err() != nil:
			m.state = StateError
			m.err = errors.New("cancelled by user")
		case msg.Err != nil:
			m.state = StateError
		default:
			m.state = StateComplete
		}

	case TickMsg:
		if m.manager != nil && m.state == StateRunning {
			received, files, total := m.manager.GetProgress()
			m.receivedBytes = received
			m.downloadedFiles = files
			m.totalFiles = total

			var percent float64
			if total > 0 {
				percent = float64(files) / float64(total)
			}
			cmds = append(cmds, m.progress.SetPercent(percent), m.tickProgress())
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	if m.state == StateInput {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// tickProgress returns a command to tick progress updates.
func (m Model) tickProgress() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// waitForMsg delivers the next message of the running pipeline. It returns
// nil once the channel is closed.
func (m Model) waitForMsg() tea.Cmd {
	ch := m.msgs
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return nil
		}
		return msg
	}
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("🎵 Suno Exporter"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Export every song of a Suno page"))
	b.WriteString("\n\n")

	switch m.state {
	case StateInput:
		b.WriteString(m.viewInput())
	case StateRunning:
		b.WriteString(m.viewRunning())
	case StateComplete:
		b.WriteString(m.viewComplete())
	case StateError:
		b.WriteString(m.viewError())
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.helpText()))

	return b.String()
}

func check(on bool) string {
	if on {
		return "[×]"
	}
	return "[ ]"
}

func (m Model) viewInput() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("Enter a Suno page URL or a saved HTML file:"))
	b.WriteString("\n\n")
	b.WriteString(m.textInput.View())
	b.WriteString("\n\n")

	b.WriteString(infoStyle.Render("Options:"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "  %s Headless browser (alt+h)\n", check(m.headless))
	fmt.Fprintf(&b, "  %s Download audio (alt+a)\n", check(m.downloadAudio))
	fmt.Fprintf(&b, "  %s Keep untitled songs (alt+u)\n", check(m.keepUntitled))
	fmt.Fprintf(&b, "  %s Verbose/debug output (alt+v)\n", check(m.verbose))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Output directory: %s", m.settings.OutputDir)))
	b.WriteString("\n")
	if m.downloadAudio {
		b.WriteString(dimStyle.Render(fmt.Sprintf("Audio directory: %s", m.settings.AudioDir)))
		b.WriteString("\n")
	}
	if m.lastExport != nil {
		b.WriteString(dimStyle.Render(lastExportSummary(m.lastExport)))
		b.WriteString("\n")
	}

	return b.String()
}

func lastExportSummary(songs []model.Song) string {
	summary := fmt.Sprintf("Last export: %d songs", len(songs))
	if len(songs) > 0 {
		summary += fmt.Sprintf(", first %q", songs[0].Title)
	}
	return summary
}

func (m Model) viewRunning() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	if m.manager != nil && m.totalFiles > 0 {
		b.WriteString(subtitleStyle.Render("Downloading audio..."))
		b.WriteString("\n\n")

		var percent float64
		if m.totalFiles > 0 {
			percent = float64(m.downloadedFiles) / float64(m.totalFiles)
		}
		b.WriteString(m.progress.ViewAs(percent))
		b.WriteString("\n")
		b.WriteString(infoStyle.Render(fmt.Sprintf(
			"Files: %d/%d | Downloaded: %.2f MB",
			m.downloadedFiles,
			m.totalFiles,
			float64(m.receivedBytes)/1024/1024,
		)))
	} else {
		b.WriteString(subtitleStyle.Render("Collecting songs..."))
	}
	b.WriteString("\n\n")

	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewComplete() string {
	var b strings.Builder

	summary := fmt.Sprintf("✨ Export Complete!\n\nSongs: %d", len(m.result.Songs))
	if m.result.Scroll != nil {
		summary += fmt.Sprintf("\nScrolls: %d (%s)", m.result.Scroll.Polls, m.result.Scroll.Outcome)
	}
	if d := m.result.Downloads; d != nil {
		summary += fmt.Sprintf("\nAudio: %d downloaded, %d present, %d failed", d.Downloaded, d.Skipped, d.Failed)
	}
	b.WriteString(boxStyle.Render(summary))
	b.WriteString("\n\n")

	for _, a := range m.result.Artifacts {
		b.WriteString(fileStyle.Render(fmt.Sprintf("  ♪ %s", a.Path)))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("❌ Error occurred:"))
	b.WriteString("\n\n")
	if m.err != nil {
		fmt.Fprintf(&b, "  %s\n\n", m.err.Error())
	}
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		prefix := "•"
		switch log.Level {
		case events.LevelError:
			style = errorStyle
			prefix = "✗"
		case events.LevelWarning:
			style = warningStyle
			prefix = "!"
		case events.LevelSuccess:
			style = successStyle
			prefix = "✓"
		case events.LevelInfo:
			style = infoStyle
			prefix = "›"
		default:
			style = dimStyle
		}
		b.WriteString(style.Render(prefix + " " + log.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) helpText() string {
	switch m.state {
	case StateInput:
		return "enter: start • alt+h: headless • alt+a: audio • alt+u: untitled • alt+v: verbose • esc: quit"
	case StateRunning:
		return "esc: cancel"
	case StateComplete, StateError:
		return "r: new export • q: quit"
	}
	return ""
}

// runSettings applies the toggles and input to a copy of the base settings.
func (m Model) runSettings() *config.Settings {
	settings := *m.settings
	settings.Headless = m.headless
	settings.DownloadAudio = m.downloadAudio
	settings.RequireTitle = !m.keepUntitled
	settings.Verbose = m.verbose
	settings.PageURL = strings.TrimSpace(m.textInput.Value())
	return &settings
}

// sourceFor reads an existing file as saved HTML and opens anything else as
// a live page.
func sourceFor(settings *config.Settings) pipeline.Source {
	if info, err := os.Stat(settings.PageURL); err == nil && !info.IsDir() {
		return &pipeline.FileSource{Paths: []string{settings.PageURL}}
	}
	return &pipeline.LiveSource{
		Browser: settings.ToBrowserOptions(),
		Scroll:  settings.ToScrollConfig(),
	}
}

// startRun runs the pipeline in the background. Progress events and the
// final DoneMsg are delivered through m.msgs, which is closed afterwards.
func (m Model) startRun() tea.Cmd {
	settings := m.runSettings()
	ctx, ch := m.ctx, m.msgs

	return func() tea.Msg {
		runner := pipeline.NewRunner(settings, func(e events.Event) {
			select {
			case ch <- ProgressMsg{Event: e}:
			case <-ctx.Done():
			}
		})
		runner.Sink = func(songs []model.Song) {
			select {
			case ch <- ExportedMsg{Songs: songs}:
			case <-ctx.Done():
			}
		}
		manager, _ := runner.Downloader.(*download.Manager)

		go func() {
			defer close(ch)
			res, err := runner.Run(ctx, sourceFor(settings))
			ch <- DoneMsg{Result: res, Err: err}
		}()
		return StartedMsg{Manager: manager}
	}
}

// Run starts the TUI application.
func Run(settings *config.Settings) error {
	p := tea.NewProgram(NewModel(settings), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
