package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	baseDimFg = lipgloss.Color("#6B7280")
	accentFg  = lipgloss.Color("#7C3AED")
	errorFg   = lipgloss.Color("#EF4444")

	tabStyle       = lipgloss.NewStyle().Foreground(baseDimFg).Padding(0, 1)
	activeTabStyle = lipgloss.NewStyle().Foreground(accentFg).Bold(true).Padding(0, 1)
	dimStyle       = lipgloss.NewStyle().Foreground(baseDimFg)
	errorStyle     = lipgloss.NewStyle().Foreground(errorFg)
)

func (m model) View() string {
	if m.help {
		return m.helpView()
	}

	var result strings.Builder
	result.WriteString(m.headerView())
	result.WriteString("\n")
	result.WriteString(m.bodyView())
	result.WriteString("\n")
	result.WriteString(m.statusView())
	return result.String()
}

func (m model) headerView() string {
	names := map[Mode]string{
		ModeSearch:  "Search",
		ModeResults: "Results",
		ModeEditor:  "Editor",
		ModeMap:     "Map",
	}
	active := m.mode
	if active == ModeGoto || active == ModeColor || active == ModeFileInput || active == ModeConfirm {
		active = m.prevMode
	}

	var tabs []string
	for _, p := range paneOrder {
		if p == active {
			tabs = append(tabs, activeTabStyle.Render(names[p]))
		} else {
			tabs = append(tabs, tabStyle.Render(names[p]))
		}
	}
	swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(m.color[:7])).Render("●")
	info := dimStyle.Render(fmt.Sprintf("icon %s  colour ", m.icon)) + swatch + dimStyle.Render(" "+m.color)
	return lipgloss.JoinHorizontal(lipgloss.Top, strings.Join(tabs, ""), "  ", info)
}

func (m model) bodyView() string {
	mode := m.mode
	if mode == ModeFileInput || mode == ModeConfirm {
		mode = m.prevMode
	}
	switch mode {
	case ModeResults:
		if len(m.searchResults) == 0 {
			return m.fill("No results yet. Search for an item first.")
		}
		return m.results.View()
	case ModeEditor:
		return m.editor.View()
	case ModeColor:
		if m.mapImage == nil {
			return m.fill(m.colorPreview())
		}
		return m.mapView()
	case ModeMap:
		return m.mapView()
	case ModeGoto:
		return m.gotoList.View()
	}
	return m.searchView()
}

// fill pads s with blank lines to the body height so the status line
// stays at the bottom.
func (m model) fill(s string) string {
	_, rows := m.mapArea()
	lines := strings.Split(s, "\n")
	if len(lines) > rows {
		lines = lines[:rows]
	}
	for len(lines) < rows {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func (m model) searchView() string {
	var b strings.Builder
	b.WriteString(m.search.View())
	b.WriteString("\n")
	proxy := "off"
	if m.client.useProxy {
		proxy = "on"
	}
	b.WriteString(dimStyle.Render(fmt.Sprintf("CORS proxy %s (ctrl+p)", proxy)))
	b.WriteString("\n\n")
	if m.output != "" {
		b.WriteString(fmt.Sprintf("Export JSON, %d waypoint(s):\n", len(m.exportWaypoints)))
		b.WriteString(m.output)
	} else {
		b.WriteString(dimStyle.Render("Nothing converted yet."))
	}
	return m.fill(b.String())
}

func (m model) mapView() string {
	if m.mapImage == nil {
		switch {
		case m.mapErr != nil:
			return m.fill(errorStyle.Render(statusError(m.mapErr)))
		case m.mapLoading:
			return m.fill("Loading map…")
		}
		return m.fill("Load the map first.")
	}
	frame, err := m.renderFrame()
	if err != nil {
		return m.fill(errorStyle.Render(statusError(err)))
	}
	cols, rows := m.mapArea()
	body := rasterizeTerminal(frame, cols, rows, m.config.CellWidth, m.config.CellHeight).String(false)
	if m.mode == ModeColor {
		lines := strings.Split(body, "\n")
		lines[len(lines)-1] = m.colorPreview()
		body = strings.Join(lines, "\n")
	}
	return body
}

func (m model) colorPreview() string {
	c := normalizeColor(m.colorInput.Value())
	swatch := lipgloss.NewStyle().Background(lipgloss.Color(c[:7])).Render("    ")
	return m.colorInput.View() + " " + swatch + " " + c
}

func (m model) statusView() string {
	var statusLine string
	switch m.mode {
	case ModeSearch:
		statusLine = "Mode: SEARCH | Enter=search, Tab=next pane, Esc=map"
	case ModeResults:
		statusLine = fmt.Sprintf("Mode: RESULTS | %d item(s) | Enter=load, /=filter, Tab=next pane", len(m.searchResults))
	case ModeEditor:
		statusLine = fmt.Sprintf("Mode: EDIT | %s | ^S=convert, ^R=render, ^F=format, ^L=clear, ^V=paste", byteStats(m.editor.Value()))
	case ModeMap:
		statusLine = "Mode: MAP"
		if m.mapImage != nil {
			statusLine += " | " + statusSummary(len(m.mapWaypoints), m.viewport.View().Scale)
		}
	case ModeGoto:
		statusLine = "Mode: GOTO | Enter=centre, Esc=cancel"
	case ModeColor:
		statusLine = "Mode: COLOUR | Enter=apply, Esc=close"
	case ModeFileInput:
		var opStr string
		switch m.fileOp {
		case FileOpSaveJSON:
			opStr = "Save waypoints"
		case FileOpSaveImage:
			opStr = "Export image"
		case FileOpSaveVisualTXT:
			opStr = "Export text"
		}
		if m.errorMessage != "" {
			return fmt.Sprintf("Mode: FILE | ERROR: %s | %s %s | Enter=retry, Esc=cancel", m.errorMessage, opStr, m.fileInput.View())
		}
		return fmt.Sprintf("Mode: FILE | %s %s | Enter=confirm, Esc=cancel", opStr, m.fileInput.View())
	case ModeConfirm:
		var message string
		switch m.confirmAction {
		case ConfirmQuit:
			message = "Quit dropmap? (y/n)"
		case ConfirmOverwriteFile:
			message = fmt.Sprintf("File %s already exists. Overwrite? (y/n)", m.pendingPath)
		}
		return fmt.Sprintf("Mode: CONFIRM | %s", message)
	}

	if m.searching {
		statusLine += " | Searching…"
	}
	switch {
	case m.errorMessage != "":
		statusLine += " | " + errorStyle.Render("ERROR: "+m.errorMessage)
	case m.successMessage != "":
		statusLine += " | " + m.successMessage
	default:
		statusLine += " | ? for help"
	}
	return statusLine
}

// byteStats reports the size of the trimmed editor text.
func byteStats(text string) string {
	t := strings.TrimSpace(text)
	if t == "" {
		return "empty"
	}
	return fmt.Sprintf("%d bytes", len(t))
}

func helpLines() []string {
	return []string{
		"dropmap Help",
		"============",
		"",
		"Panes (Tab / Shift+Tab to cycle):",
		"---------------------------------",
		"  Search           Type an item name, Enter to look it up",
		"                   Ctrl+P toggles the CORS proxy",
		"  Results          Pick one candidate when a lookup returns several",
		"  Editor           Item JSON; Ctrl+S convert, Ctrl+R render on map,",
		"                   Ctrl+F format, Ctrl+L clear, Ctrl+V paste",
		"  Map              Preview of the waypoints over the world map",
		"",
		"Map Navigation:",
		"---------------",
		"  h/←/j/↓/k/↑/l/→  Pan the map",
		"  Shift+arrows     Pan 2x faster",
		"  +/-              Zoom in/out around the centre",
		"  Mouse wheel      Zoom around the pointer",
		"  Mouse drag       Pan",
		"  0                Reset view",
		"  f                Fit all waypoints",
		"  g                Go to a waypoint",
		"  [ / ]            Centre previous/next waypoint",
		"  u / U            Undo/redo view change",
		"",
		"Waypoints:",
		"----------",
		"  R                Toggle radius rings",
		"  L                Toggle labels",
		"  i                Cycle export icon",
		"  c                Change colour",
		"  y                Copy export JSON to clipboard",
		"",
		"File Operations:",
		"----------------",
		"  s                Save export JSON",
		"  S                Export viewport image (.png or .webp)",
		"  T                Export terminal preview as text",
		"",
		"General:",
		"  /                Jump to search",
		"  ?                Toggle this help screen",
		"  q/Ctrl+C         Quit",
	}
}

func (m model) maxHelpScroll() int {
	visibleHeight := m.height - 1
	if visibleHeight < 1 {
		visibleHeight = 1
	}
	maxScroll := len(helpLines()) - visibleHeight
	if maxScroll < 0 {
		maxScroll = 0
	}
	return maxScroll
}

func (m model) helpView() string {
	lines := helpLines()

	visibleHeight := m.height - 1 // Leave room for status line
	if visibleHeight < 1 {
		visibleHeight = 1
	}
	startLine := m.helpScroll
	if startLine > m.maxHelpScroll() {
		startLine = m.maxHelpScroll()
	}
	endLine := startLine + visibleHeight
	if endLine > len(lines) {
		endLine = len(lines)
	}

	result := strings.Join(lines[startLine:endLine], "\n")
	statusLine := fmt.Sprintf("Help (%d-%d of %d lines) | j/k to scroll, Esc to close",
		startLine+1, endLine, len(lines))
	return result + "\n" + statusLine
}
