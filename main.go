package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	cfg := loadConfig()
	args := os.Args[1:]

	if len(args) > 0 {
		switch args[0] {
		case "convert":
			os.Exit(runHeadless(cfg, func() error { return runConvert(args[1:], cfg, os.Stdout) }))
		case "render":
			os.Exit(runHeadless(cfg, func() error { return runRender(args[1:], cfg, os.Stdout) }))
		case "-h", "--help", "help":
			fmt.Print(usage)
			return
		}
	}

	cleanup, err := initLogger(cfg.LogDirectory, false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dropmap: %v\n", err)
		os.Exit(1)
	}
	defer cleanup()

	p := tea.NewProgram(
		initialModel(cfg, strings.Join(args, " ")),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := p.Run(); err != nil {
		slog.Error("Program exited", "error", err)
		fmt.Fprintf(os.Stderr, "dropmap: %v\n", err)
		cleanup()
		os.Exit(1)
	}
}

func initialModel(cfg *Config, query string) model {
	search := textinput.New()
	search.Prompt = "Item: "
	search.Placeholder = "item name, Enter to search"
	search.SetValue(query)
	search.Focus()

	editor := textarea.New()
	editor.Placeholder = "Paste item JSON here"
	editor.CharLimit = 0
	editor.MaxHeight = 0
	editor.ShowLineNumbers = false

	colorInput := textinput.New()
	colorInput.Prompt = "Colour: "
	colorInput.Placeholder = "#RRGGBB or #RRGGBBAA"
	colorInput.CharLimit = 9

	fileInput := textinput.New()
	fileInput.Prompt = "Filename: "

	m := model{
		mode:          ModeSearch,
		config:        cfg,
		client:        newLookupClient(cfg),
		search:        search,
		editor:        editor,
		colorInput:    colorInput,
		fileInput:     fileInput,
		results:       newPicker("Search results"),
		gotoList:      newPicker("Go to waypoint"),
		icon:          cfg.Icon,
		color:         normalizeColor(cfg.Color),
		showRadius:    cfg.ShowRadius,
		showLabels:    cfg.ShowLabels,
		mapLoading:    true,
		colorDebounce: newDebouncer(colorUpdateDelay),
		searching:     strings.TrimSpace(query) != "",
	}
	m.viewport = NewViewport(80*cfg.CellWidth, 22*cfg.CellHeight)
	m.viewport.Reset()
	return m
}

func newPicker(title string) list.Model {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	l.SetShowHelp(false)
	l.SetFilteringEnabled(true)
	return l
}

func (m model) Init() tea.Cmd {
	cmds := []tea.Cmd{loadMapCmd(m.config.MapPath), textinput.Blink}
	if m.searching {
		cmds = append(cmds, fetchCmd(m.client, m.search.Value()))
	}
	return tea.Batch(cmds...)
}

// mapArea is the number of terminal cells the map preview occupies.
func (m *model) mapArea() (int, int) {
	cols := m.width
	rows := m.height - 2 // header and status line
	if cols < 1 {
		cols = 80
	}
	if rows < 1 {
		rows = 1
	}
	return cols, rows
}

func (m *model) resize(width, height int) {
	m.width, m.height = width, height

	bodyHeight := height - 2
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	m.search.Width = width - len(m.search.Prompt) - 1
	m.colorInput.Width = 12
	m.fileInput.Width = width - len(m.fileInput.Prompt) - 1
	m.editor.SetWidth(width)
	m.editor.SetHeight(bodyHeight)
	m.results.SetSize(width, bodyHeight)
	m.gotoList.SetSize(width, bodyHeight)

	cols, rows := m.mapArea()
	m.viewport.Resize(float64(cols)*m.config.CellWidth, float64(rows)*m.config.CellHeight)
}

func (m *model) renderFrame() (Frame, error) {
	return Render(m.mapImage, m.viewport.View(), m.mapWaypoints, RenderOptions{
		ShowRadius: m.showRadius,
		ShowLabels: m.showLabels,
	})
}

// moveView applies a navigation change and records it for undo when the
// view actually moved.
func (m *model) moveView(change func(*Viewport)) {
	before := m.viewport.View()
	change(m.viewport)
	if m.viewport.View() != before {
		m.history.record(before)
	}
}

func (m *model) setError(err error) {
	m.successMessage = ""
	m.errorMessage = statusError(err)
	slog.Warn("Operation failed", "error", err)
}

func (m *model) setSuccess(format string, args ...any) {
	m.errorMessage = ""
	m.successMessage = fmt.Sprintf(format, args...)
}

// statusError maps an error onto the sentence shown on the status line.
func statusError(err error) string {
	msg := err.Error()
	for _, sentinel := range []error{ErrMalformedInput, ErrEmptyResult, ErrViewportPrecondition, ErrAssetLoad} {
		if errors.Is(err, sentinel) {
			msg = strings.TrimPrefix(msg, sentinel.Error()+": ")
			break
		}
	}
	if errors.Is(err, ErrMalformedInput) {
		return "Invalid JSON: " + msg
	}
	return sentence(msg)
}

func sentence(s string) string {
	if s == "" {
		return s
	}
	s = strings.ToUpper(s[:1]) + s[1:]
	if !strings.HasSuffix(s, ".") {
		s += "."
	}
	return s
}

// convertItem regenerates the export list from raw item JSON.
func (m *model) convertItem(raw any) int {
	m.exportWaypoints = toExportWaypoints(extractItemRecord(raw), m.icon, m.color)
	out, err := marshalWaypoints(m.exportWaypoints)
	if err != nil {
		m.setError(err)
		return 0
	}
	m.output = string(out)
	return len(m.exportWaypoints)
}

// loadResult puts a search candidate into the editor, converts it and
// previews it when the map is available.
func (m *model) loadResult(r searchResult, status string) tea.Cmd {
	text, err := indentJSON(r.Item)
	if err != nil {
		m.setError(err)
		return nil
	}
	m.editor.SetValue(text)
	n := m.convertItem(r.Item)
	slog.Info("Item loaded", "name", r.Name, "waypoints", n)

	if m.mapImage == nil {
		m.setSuccess("%s Converted %d waypoint(s).", status, n)
		return m.switchMode(ModeEditor)
	}
	m.showOnMap(toVisualizationWaypoints(extractItemRecord(r.Item), m.color))
	if m.errorMessage == "" {
		m.setSuccess("%s Converted %d waypoint(s).", status, n)
	}
	return m.switchMode(ModeMap)
}

// showOnMap replaces the preview list and frames it.
func (m *model) showOnMap(wps []Waypoint) {
	m.mapWaypoints = wps
	m.waypointIndex = -1
	items := make([]list.Item, len(wps))
	for i, w := range wps {
		name := w.Name
		if name == "" {
			name = fmt.Sprintf("Waypoint %d", i+1)
		}
		items[i] = gotoItem{index: i, name: name}
	}
	m.gotoList.SetItems(items)
	m.gotoList.ResetFilter()

	// Views of the previous list mean nothing for this one.
	m.history.clear()
	if fitErr := m.viewport.FitToWaypoints(wps); fitErr != nil {
		m.setError(fitErr)
		return
	}
	m.setSuccess("Map rendered.")
}

func (m *model) requireMap() bool {
	if m.mapImage != nil {
		return true
	}
	if m.mapErr != nil {
		m.setError(m.mapErr)
	} else {
		m.setError(fmt.Errorf("%w: load the map first", ErrViewportPrecondition))
	}
	return false
}
