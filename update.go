package main

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

// Panes reachable with tab, in order.
var paneOrder = []Mode{ModeSearch, ModeResults, ModeEditor, ModeMap}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case mapLoadedMsg:
		m.mapLoading = false
		if msg.err != nil {
			m.mapErr = msg.err
			m.setError(msg.err)
			return m, nil
		}
		m.mapImage = msg.img
		if len(m.mapWaypoints) == 0 && m.errorMessage == "" && m.successMessage == "" {
			m.setSuccess("Map loaded.")
		}
		return m, nil

	case lookupMsg:
		return m, m.handleLookup(msg)

	case clipboardMsg:
		if msg.err != nil {
			m.setError(msg.err)
		} else {
			m.setSuccess("Copied %d bytes to clipboard.", msg.copied)
		}
		return m, nil

	case pasteMsg:
		if msg.err != nil {
			m.setError(fmt.Errorf("paste failed: %w", msg.err))
			return m, nil
		}
		m.editor.InsertString(msg.text)
		m.setSuccess("Pasted %d bytes.", len(msg.text))
		return m, nil

	case debounceMsg:
		if m.colorDebounce.Settled(msg) {
			if c, ok := msg.payload.(string); ok {
				m.applyColor(c)
			}
		}
		return m, nil

	case tea.MouseMsg:
		if m.mode == ModeMap && !m.help {
			m.handleMouse(msg)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateFocused(msg)
}

// updateFocused forwards a message to the widget of the current mode.
func (m model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.mode {
	case ModeSearch:
		m.search, cmd = m.search.Update(msg)
	case ModeEditor:
		m.editor, cmd = m.editor.Update(msg)
	case ModeResults:
		m.results, cmd = m.results.Update(msg)
	case ModeGoto:
		m.gotoList, cmd = m.gotoList.Update(msg)
	case ModeColor:
		m.colorInput, cmd = m.colorInput.Update(msg)
	case ModeFileInput:
		m.fileInput, cmd = m.fileInput.Update(msg)
	}
	return m, cmd
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return m, tea.Quit
	}

	if m.help {
		switch key {
		case "esc", "q", "?":
			m.help = false
			m.helpScroll = 0
		case "j", "down":
			if m.helpScroll < m.maxHelpScroll() {
				m.helpScroll++
			}
		case "k", "up":
			if m.helpScroll > 0 {
				m.helpScroll--
			}
		default:
			m.help = false
			m.helpScroll = 0
		}
		return m, nil
	}

	switch m.mode {
	case ModeSearch:
		return m.handleSearchKey(msg)
	case ModeResults:
		return m.handleResultsKey(msg)
	case ModeEditor:
		return m.handleEditorKey(msg)
	case ModeMap:
		return m.handleMapKey(msg)
	case ModeGoto:
		return m.handleGotoKey(msg)
	case ModeColor:
		return m.handleColorKey(msg)
	case ModeFileInput:
		return m.handleFileInputKey(msg)
	case ModeConfirm:
		return m.handleConfirmKey(msg)
	}
	return m, nil
}

func (m *model) switchMode(mode Mode) tea.Cmd {
	m.search.Blur()
	m.editor.Blur()
	m.colorInput.Blur()
	m.fileInput.Blur()
	m.mode = mode
	switch mode {
	case ModeSearch:
		return m.search.Focus()
	case ModeEditor:
		return m.editor.Focus()
	case ModeColor:
		return m.colorInput.Focus()
	case ModeFileInput:
		return m.fileInput.Focus()
	}
	return nil
}

// cyclePane moves to the next (dir > 0) or previous pane.
func (m *model) cyclePane(dir int) tea.Cmd {
	idx := 0
	for i, p := range paneOrder {
		if p == m.mode {
			idx = i
			break
		}
	}
	n := len(paneOrder)
	return m.switchMode(paneOrder[((idx+dir)%n+n)%n])
}

func (m *model) requestQuit() tea.Cmd {
	if !m.config.Confirmations {
		return tea.Quit
	}
	m.prevMode = m.mode
	m.confirmAction = ConfirmQuit
	m.switchMode(ModeConfirm)
	return nil
}

func (m model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		q := strings.TrimSpace(m.search.Value())
		if q == "" {
			m.setError(fmt.Errorf("%w: please enter an item name", ErrEmptyResult))
			return m, nil
		}
		m.searching = true
		m.setSuccess("Searching…")
		return m, fetchCmd(m.client, q)
	case "ctrl+p":
		m.client.useProxy = !m.client.useProxy
		if m.client.useProxy {
			m.setSuccess("CORS proxy on.")
		} else {
			m.setSuccess("CORS proxy off.")
		}
		return m, nil
	case "tab":
		return m, m.cyclePane(1)
	case "shift+tab":
		return m, m.cyclePane(-1)
	case "esc":
		return m, m.switchMode(ModeMap)
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m *model) handleLookup(msg lookupMsg) tea.Cmd {
	m.searching = false
	if msg.err != nil {
		m.setError(msg.err)
		return nil
	}

	results := enumerateSearchResults(msg.data)
	m.searchResults = results
	items := make([]list.Item, len(results))
	for i, r := range results {
		items[i] = r
	}
	m.results.ResetFilter()
	m.results.SetItems(items)
	m.results.Select(0)
	slog.Info("Lookup finished", "query", msg.query, "results", len(results))

	switch len(results) {
	case 0:
		m.setError(fmt.Errorf("%w: no items found", ErrEmptyResult))
		return nil
	case 1:
		return m.loadResult(results[0], fmt.Sprintf("1 item found: %s.", results[0].Name))
	}
	m.setSuccess("Found %d items. Select one and press Enter to load it.", len(results))
	return m.switchMode(ModeResults)
}

func (m model) handleResultsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.results.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.results, cmd = m.results.Update(msg)
		return m, cmd
	}
	switch msg.String() {
	case "enter":
		sel, ok := m.results.SelectedItem().(searchResult)
		if !ok {
			m.setError(fmt.Errorf("%w: select an item from results first", ErrEmptyResult))
			return m, nil
		}
		return m, m.loadResult(sel, fmt.Sprintf("Loaded: %s.", sel.Name))
	case "tab":
		return m, m.cyclePane(1)
	case "shift+tab":
		return m, m.cyclePane(-1)
	case "esc":
		return m, m.switchMode(ModeSearch)
	case "?":
		m.help = true
		return m, nil
	case "q":
		return m, m.requestQuit()
	}
	var cmd tea.Cmd
	m.results, cmd = m.results.Update(msg)
	return m, cmd
}

func (m model) handleEditorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+f":
		text, err := formatJSON(m.editor.Value())
		if err != nil {
			m.setError(errors.New("invalid JSON, cannot format"))
			return m, nil
		}
		m.editor.SetValue(text)
		m.setSuccess("JSON formatted.")
		return m, nil
	case "ctrl+l":
		m.editor.Reset()
		m.setSuccess("Editor cleared.")
		return m, nil
	case "ctrl+s":
		parsed, err := parseItemJSON(m.editor.Value())
		if err != nil {
			m.setError(err)
			return m, nil
		}
		n := m.convertItem(parsed)
		m.setSuccess("Converted %d waypoint(s).", n)
		return m, nil
	case "ctrl+r":
		parsed, err := parseItemJSON(m.editor.Value())
		if err != nil {
			m.setError(fmt.Errorf("%w: no item JSON to visualize", ErrEmptyResult))
			return m, nil
		}
		if !m.requireMap() {
			return m, nil
		}
		m.showOnMap(toVisualizationWaypoints(extractItemRecord(parsed), m.color))
		return m, m.switchMode(ModeMap)
	case "ctrl+v":
		return m, pasteCmd()
	case "tab":
		return m, m.cyclePane(1)
	case "shift+tab":
		return m, m.cyclePane(-1)
	case "esc":
		return m, m.switchMode(ModeMap)
	}
	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

func (m model) handleMapKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "h", "j", "k", "l", "left", "right", "up", "down",
		"H", "J", "K", "shift+left", "shift+right", "shift+up", "shift+down":
		m.handlePan(key, m.getMoveSpeed(key))
	case "+", "=":
		m.moveView((*Viewport).ZoomIn)
	case "-", "_":
		m.moveView((*Viewport).ZoomOut)
	case "0":
		m.moveView((*Viewport).Reset)
	case "f":
		if !m.requireMap() {
			break
		}
		var err error
		m.moveView(func(v *Viewport) { err = v.FitToWaypoints(m.mapWaypoints) })
		if err != nil {
			m.setError(err)
		} else {
			m.setSuccess("Fitted to waypoints.")
		}
	case "g":
		if !m.requireMap() {
			break
		}
		if len(m.mapWaypoints) == 0 {
			m.setError(fmt.Errorf("%w: no waypoints to go to", ErrViewportPrecondition))
			break
		}
		m.prevMode = ModeMap
		m.switchMode(ModeGoto)
	case "[", "]":
		if !m.requireMap() {
			break
		}
		dir := 1
		if key == "[" {
			dir = -1
		}
		m.stepWaypoint(dir)
	case "R":
		m.showRadius = !m.showRadius
		m.setSuccess("Radius %s.", onOff(m.showRadius))
	case "L":
		m.showLabels = !m.showLabels
		m.setSuccess("Labels %s.", onOff(m.showLabels))
	case "u":
		if prev, ok := m.history.undo(m.viewport.View()); ok {
			m.viewport.SetView(prev)
			m.setSuccess("View restored.")
		} else {
			m.setSuccess("Nothing to undo.")
		}
	case "U":
		if next, ok := m.history.redo(m.viewport.View()); ok {
			m.viewport.SetView(next)
			m.setSuccess("View redone.")
		} else {
			m.setSuccess("Nothing to redo.")
		}
	case "i":
		m.cycleIcon()
	case "c":
		m.prevMode = ModeMap
		m.colorInput.SetValue(m.color)
		m.colorInput.CursorEnd()
		return m, m.switchMode(ModeColor)
	case "y":
		return m, copyCmd(m.output)
	case "s":
		if m.output == "" {
			m.setError(fmt.Errorf("%w: nothing to export, convert an item first", ErrEmptyResult))
			break
		}
		return m, m.startFileInput(FileOpSaveJSON, "waypoints.json")
	case "S":
		if !m.requireMap() {
			break
		}
		return m, m.startFileInput(FileOpSaveImage, "map.png")
	case "T":
		if !m.requireMap() {
			break
		}
		return m, m.startFileInput(FileOpSaveVisualTXT, "map.txt")
	case "tab":
		return m, m.cyclePane(1)
	case "shift+tab":
		return m, m.cyclePane(-1)
	case "/":
		return m, m.switchMode(ModeSearch)
	case "?":
		m.help = true
	case "q":
		return m, m.requestQuit()
	}
	return m, nil
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// cycleIcon advances to the next overlay icon and applies it to the
// current export list.
func (m *model) cycleIcon() {
	next := 0
	for i, icon := range waypointIcons {
		if icon == m.icon {
			next = (i + 1) % len(waypointIcons)
			break
		}
	}
	m.icon = waypointIcons[next]
	for i := range m.exportWaypoints {
		m.exportWaypoints[i].Icon = m.icon
	}
	if len(m.exportWaypoints) > 0 {
		if out, err := marshalWaypoints(m.exportWaypoints); err == nil {
			m.output = string(out)
		}
	}
	m.setSuccess("Icon: %s.", m.icon)
}

func (m *model) handleMouse(msg tea.MouseMsg) {
	if m.mapImage == nil {
		return
	}
	_, rows := m.mapArea()
	inMap := msg.Y >= 1 && msg.Y <= rows

	switch {
	case msg.Action == tea.MouseActionPress && (msg.Button == tea.MouseButtonWheelUp || msg.Button == tea.MouseButtonWheelDown):
		if !inMap {
			return
		}
		factor := zoomStep
		if msg.Button == tea.MouseButtonWheelDown {
			factor = 1 / zoomStep
		}
		sx, sy := m.cellCenter(msg.X, msg.Y)
		m.moveView(func(v *Viewport) { v.ZoomAtPoint(factor, sx, sy) })
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		if !inMap {
			return
		}
		m.dragging = true
		m.dragX, m.dragY = msg.X, msg.Y
		m.dragStart = m.viewport.View()
	case msg.Action == tea.MouseActionMotion:
		// Terminals report held-button motion with the button still set.
		if m.dragging {
			m.dragTo(msg.X, msg.Y)
		}
	case msg.Action == tea.MouseActionRelease:
		if !m.dragging {
			return
		}
		m.dragging = false
		if m.viewport.View() != m.dragStart {
			m.history.record(m.dragStart)
		}
	}
}

func (m model) handleGotoKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.gotoList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.gotoList, cmd = m.gotoList.Update(msg)
		return m, cmd
	}
	switch msg.String() {
	case "enter":
		if it, ok := m.gotoList.SelectedItem().(gotoItem); ok {
			m.gotoWaypoint(it.index)
		}
		return m, m.switchMode(ModeMap)
	case "esc", "q":
		return m, m.switchMode(ModeMap)
	}
	var cmd tea.Cmd
	m.gotoList, cmd = m.gotoList.Update(msg)
	return m, cmd
}

func (m model) handleColorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.colorDebounce.Cancel()
		m.applyColor(m.colorInput.Value())
		m.setSuccess("Colour %s.", m.color)
		return m, m.switchMode(m.prevMode)
	case "esc":
		m.colorDebounce.Cancel()
		return m, m.switchMode(m.prevMode)
	}
	var cmd tea.Cmd
	before := m.colorInput.Value()
	m.colorInput, cmd = m.colorInput.Update(msg)
	if v := m.colorInput.Value(); v != before {
		return m, tea.Batch(cmd, m.colorDebounce.Trigger(v))
	}
	return m, cmd
}

// applyColor makes c the colour for new conversions and repaints the
// waypoints already on the map.
func (m *model) applyColor(c string) {
	m.color = normalizeColor(c)
	if len(m.mapWaypoints) > 0 {
		m.mapWaypoints = recolorWaypoints(m.mapWaypoints, m.color)
	}
}

func (m *model) startFileInput(op FileOperation, suggestion string) tea.Cmd {
	m.prevMode = m.mode
	m.fileOp = op
	m.fileInput.SetValue(suggestion)
	m.fileInput.CursorEnd()
	m.errorMessage = ""
	return m.switchMode(ModeFileInput)
}

func (m model) handleFileInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.errorMessage = ""
		return m, m.switchMode(m.prevMode)
	case tea.KeyEnter:
		name := strings.TrimSpace(m.fileInput.Value())
		if name == "" {
			m.errorMessage = "Please enter a filename"
			return m, nil
		}
		path := m.config.GetSavePath(withExtension(name, m.fileOp))
		if fileExists(path) && m.config.Confirmations {
			m.pendingPath = path
			m.confirmAction = ConfirmOverwriteFile
			m.switchMode(ModeConfirm)
			return m, nil
		}
		return m, m.performFileOp(path)
	}
	var cmd tea.Cmd
	m.fileInput, cmd = m.fileInput.Update(msg)
	return m, cmd
}

func withExtension(name string, op FileOperation) string {
	ext := strings.ToLower(filepath.Ext(name))
	switch op {
	case FileOpSaveJSON:
		if ext != ".json" {
			name += ".json"
		}
	case FileOpSaveImage:
		if ext != ".png" && ext != ".webp" {
			name += ".png"
		}
	case FileOpSaveVisualTXT:
		if ext != ".txt" {
			name += ".txt"
		}
	}
	return name
}

func (m *model) performFileOp(path string) tea.Cmd {
	var err error
	switch m.fileOp {
	case FileOpSaveJSON:
		err = m.exportJSON(path)
	case FileOpSaveImage:
		err = m.exportImage(path)
	case FileOpSaveVisualTXT:
		err = m.exportVisualTXT(path)
	}
	if err != nil {
		slog.Error("Export failed", "path", path, "error", err)
		m.errorMessage = fmt.Sprintf("Error saving file: %s", err.Error())
		m.switchMode(ModeFileInput)
		return nil
	}
	absPath, _ := filepath.Abs(path)
	slog.Info("Exported", "path", absPath)
	m.setSuccess("Saved to %s", absPath)
	m.pendingPath = ""
	return m.switchMode(m.prevMode)
}

func (m model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		switch m.confirmAction {
		case ConfirmQuit:
			return m, tea.Quit
		case ConfirmOverwriteFile:
			return m, m.performFileOp(m.pendingPath)
		}
	case "n", "N", "esc":
		if m.confirmAction == ConfirmOverwriteFile {
			return m, m.switchMode(ModeFileInput)
		}
		return m, m.switchMode(m.prevMode)
	}
	return m, nil
}
