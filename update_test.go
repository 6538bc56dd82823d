package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func newTestModel(t *testing.T) model {
	t.Helper()
	cfg := defaultConfig("")
	cfg.Confirmations = false
	m := initialModel(cfg, "")
	m.resize(40, 12)
	return m
}

func withMap(m model) model {
	next, _ := m.Update(mapLoadedMsg{img: testMap()})
	return next.(model)
}

func update(t *testing.T, m model, msg tea.Msg) model {
	t.Helper()
	next, _ := m.Update(msg)
	mm, ok := next.(model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return mm
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestLookupSingleResultRendersOnMap(t *testing.T) {
	m := withMap(newTestModel(t))
	m = update(t, m, lookupMsg{query: "Harvester", data: mustParse(t, `{"Harvester": {"internalName": "Harvester", "droppedBy": [{"name": "Bob", "coords": [[1, 2, 3, 10], [4, 5, 6]]}]}}`)})

	if m.mode != ModeMap {
		t.Errorf("mode = %v, want map", m.mode)
	}
	if len(m.exportWaypoints) != 2 || len(m.mapWaypoints) != 2 {
		t.Fatalf("export %d map %d, want 2 each", len(m.exportWaypoints), len(m.mapWaypoints))
	}
	if !strings.Contains(m.output, `"Bob - 10m - Harvester - 1"`) {
		t.Errorf("output = %s", m.output)
	}
	if !strings.Contains(m.editor.Value(), `"droppedBy"`) {
		t.Error("editor not filled with the item JSON")
	}
	if m.successMessage != "1 item found: Harvester. Converted 2 waypoint(s)." {
		t.Errorf("status = %q (error %q)", m.successMessage, m.errorMessage)
	}
	if len(m.gotoList.Items()) != 2 {
		t.Errorf("goto list has %d entries", len(m.gotoList.Items()))
	}
}

func TestLookupWithoutMapOpensEditor(t *testing.T) {
	m := newTestModel(t)
	m = update(t, m, lookupMsg{data: mustParse(t, `{"dropMeta": {"name": "Cave", "coordinates": [1, 2, 3]}}`)})
	if m.mode != ModeEditor {
		t.Errorf("mode = %v, want editor", m.mode)
	}
	if len(m.mapWaypoints) != 0 {
		t.Error("waypoints rendered without a map")
	}
	if len(m.exportWaypoints) != 1 {
		t.Errorf("export waypoints = %d", len(m.exportWaypoints))
	}
}

func TestLookupMultipleResults(t *testing.T) {
	m := withMap(newTestModel(t))
	m = update(t, m, lookupMsg{data: mustParse(t, `{"A": {"internalName": "A", "dropMeta": {"coordinates": [1, 2, 3]}}, "B": {"internalName": "B"}}`)})
	if m.mode != ModeResults {
		t.Fatalf("mode = %v, want results", m.mode)
	}
	if len(m.results.Items()) != 2 {
		t.Fatalf("results list has %d entries", len(m.results.Items()))
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.mode != ModeMap {
		t.Errorf("mode after load = %v, want map", m.mode)
	}
	if !strings.HasPrefix(m.successMessage, "Loaded: A.") {
		t.Errorf("status = %q", m.successMessage)
	}
}

func TestLookupFailures(t *testing.T) {
	m := newTestModel(t)
	m = update(t, m, lookupMsg{data: mustParse(t, `[]`)})
	if m.errorMessage != "No items found." {
		t.Errorf("empty lookup status = %q", m.errorMessage)
	}
	m = update(t, m, lookupMsg{err: errors.New("API error: 404 Not Found")})
	if m.errorMessage != "API error: 404 Not Found." {
		t.Errorf("failed lookup status = %q", m.errorMessage)
	}
}

func TestSearchRequiresName(t *testing.T) {
	m := newTestModel(t)
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.errorMessage != "Please enter an item name." || m.searching {
		t.Errorf("status = %q searching = %v", m.errorMessage, m.searching)
	}
}

func TestEditorConvertAndRender(t *testing.T) {
	m := newTestModel(t)
	m.switchMode(ModeEditor)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if m.errorMessage != "No JSON to convert." {
		t.Errorf("empty editor status = %q", m.errorMessage)
	}

	m.editor.SetValue("{broken")
	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if !strings.HasPrefix(m.errorMessage, "Invalid JSON: ") {
		t.Errorf("broken editor status = %q", m.errorMessage)
	}

	m.editor.SetValue(`{"dropMeta": {"name": "Cave", "coordinates": [1, 2, 3]}}`)
	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if m.successMessage != "Converted 1 waypoint(s)." {
		t.Errorf("convert status = %q", m.successMessage)
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})
	if m.errorMessage != "Load the map first." {
		t.Errorf("render before map status = %q", m.errorMessage)
	}

	m = withMap(m)
	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})
	if m.mode != ModeMap || len(m.mapWaypoints) != 1 {
		t.Errorf("mode %v waypoints %d", m.mode, len(m.mapWaypoints))
	}
}

func TestEditorFormatAndClear(t *testing.T) {
	m := newTestModel(t)
	m.switchMode(ModeEditor)
	m.editor.SetValue(`{"a":[1]}`)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlF})
	if m.editor.Value() != "{\n  \"a\": [\n    1\n  ]\n}" {
		t.Errorf("formatted = %q", m.editor.Value())
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlL})
	if m.editor.Value() != "" || m.successMessage != "Editor cleared." {
		t.Errorf("after clear value %q status %q", m.editor.Value(), m.successMessage)
	}
}

func TestMapKeysZoomAndUndo(t *testing.T) {
	m := withMap(newTestModel(t))
	m.switchMode(ModeMap)
	start := m.viewport.View()

	m = update(t, m, keyRunes("+"))
	if !approx(m.viewport.View().Scale, start.Scale*zoomStep) {
		t.Fatalf("scale = %v", m.viewport.View().Scale)
	}
	m = update(t, m, keyRunes("u"))
	if m.viewport.View() != start {
		t.Errorf("undo restored %+v, want %+v", m.viewport.View(), start)
	}
	m = update(t, m, keyRunes("U"))
	if !approx(m.viewport.View().Scale, start.Scale*zoomStep) {
		t.Errorf("redo scale = %v", m.viewport.View().Scale)
	}
}

func TestMapKeysPanAndToggles(t *testing.T) {
	m := withMap(newTestModel(t))
	m.switchMode(ModeMap)
	start := m.viewport.View()

	m = update(t, m, keyRunes("h"))
	if m.viewport.View().PanX != start.PanX+panStep {
		t.Errorf("pan left moved to %v", m.viewport.View().PanX)
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyShiftDown})
	if m.viewport.View().PanY != start.PanY-2*panStep {
		t.Errorf("fast pan down moved to %v", m.viewport.View().PanY)
	}

	radius, labels := m.showRadius, m.showLabels
	m = update(t, m, keyRunes("R"))
	m = update(t, m, keyRunes("L"))
	if m.showRadius == radius || m.showLabels == labels {
		t.Error("toggles did not flip")
	}
}

func TestFitWithoutWaypoints(t *testing.T) {
	m := withMap(newTestModel(t))
	m.switchMode(ModeMap)
	before := m.viewport.View()
	m = update(t, m, keyRunes("f"))
	if m.errorMessage != "No waypoints to fit." {
		t.Errorf("status = %q", m.errorMessage)
	}
	if m.viewport.View() != before {
		t.Error("failed fit moved the view")
	}
}

func TestMapLoadFailure(t *testing.T) {
	m := newTestModel(t)
	m = update(t, m, mapLoadedMsg{err: errors.New("asset load failure: open map x: missing")})
	if m.mapErr == nil || m.mapLoading {
		t.Fatalf("mapErr %v loading %v", m.mapErr, m.mapLoading)
	}
	m.switchMode(ModeMap)
	m = update(t, m, keyRunes("f"))
	if m.errorMessage == "" {
		t.Error("fit without a map reported nothing")
	}
}

func TestWaypointStepping(t *testing.T) {
	m := withMap(newTestModel(t))
	m.showOnMap([]Waypoint{at(100, 100), at(200, 200), at(300, 300)})
	m.switchMode(ModeMap)

	m = update(t, m, keyRunes("]"))
	if m.waypointIndex != 0 || m.viewport.View().Scale != gotoScale {
		t.Errorf("index %d scale %v", m.waypointIndex, m.viewport.View().Scale)
	}
	m = update(t, m, keyRunes("["))
	if m.waypointIndex != 2 {
		t.Errorf("wrap back index = %d, want 2", m.waypointIndex)
	}
}

func TestGotoPicker(t *testing.T) {
	m := withMap(newTestModel(t))
	m.showOnMap([]Waypoint{at(100, 100), at(200, 200)})
	m.switchMode(ModeMap)

	m = update(t, m, keyRunes("g"))
	if m.mode != ModeGoto {
		t.Fatalf("mode = %v, want goto", m.mode)
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.mode != ModeMap || m.waypointIndex != 1 {
		t.Errorf("mode %v index %d", m.mode, m.waypointIndex)
	}
	cx, cy := screenToWorld(m.viewport.width/2, m.viewport.height/2, m.viewport.View())
	if !approx(cx, 200) || !approx(cy, 200) {
		t.Errorf("centre = (%v, %v), want (200, 200)", cx, cy)
	}
}

func TestColorDebounce(t *testing.T) {
	m := withMap(newTestModel(t))
	m.showOnMap([]Waypoint{{Name: "a", Color: "#ffffffff", Location: &Point3{}}})
	m.switchMode(ModeMap)

	m = update(t, m, keyRunes("c"))
	if m.mode != ModeColor {
		t.Fatalf("mode = %v, want colour", m.mode)
	}
	m.colorDebounce.Trigger("#ff0000")
	stale := debounceMsg{id: m.colorDebounce.id, seq: m.colorDebounce.seq - 1, payload: "#0000ff"}
	m = update(t, m, stale)
	if m.mapWaypoints[0].Color != "#ffffffff" {
		t.Errorf("stale event applied %q", m.mapWaypoints[0].Color)
	}

	latest := debounceMsg{id: m.colorDebounce.id, seq: m.colorDebounce.seq, payload: "#ff0000"}
	m = update(t, m, latest)
	if m.mapWaypoints[0].Color != "#ff0000ff" || m.color != "#ff0000ff" {
		t.Errorf("colour = %q / %q", m.mapWaypoints[0].Color, m.color)
	}
}

func TestColorInputSchedulesRecolour(t *testing.T) {
	m := withMap(newTestModel(t))
	m.switchMode(ModeMap)
	m = update(t, m, keyRunes("c"))
	seq := m.colorDebounce.seq

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	m = next.(model)
	if cmd == nil || m.colorDebounce.seq != seq+1 {
		t.Errorf("edit did not trigger the debouncer (seq %d -> %d)", seq, m.colorDebounce.seq)
	}
}

func TestCycleIcon(t *testing.T) {
	m := newTestModel(t)
	m.convertItem(mustParse(t, `{"dropMeta": {"coordinates": [1, 2, 3]}}`))
	m.switchMode(ModeMap)

	m = update(t, m, keyRunes("i"))
	if m.icon != waypointIcons[1] {
		t.Errorf("icon = %q", m.icon)
	}
	if m.exportWaypoints[0].Icon != waypointIcons[1] || !strings.Contains(m.output, waypointIcons[1]) {
		t.Error("export list not updated with the new icon")
	}
}

func TestMouseWheelZoomsAtPointer(t *testing.T) {
	m := withMap(newTestModel(t))
	m.switchMode(ModeMap)
	sx, sy := m.cellCenter(10, 5)
	wx, wy := screenToWorld(sx, sy, m.viewport.View())

	m = update(t, m, tea.MouseMsg{X: 10, Y: 5, Type: tea.MouseWheelUp, Button: tea.MouseButtonWheelUp, Action: tea.MouseActionPress})
	if !approx(m.viewport.View().Scale, zoomStep) {
		t.Fatalf("scale = %v", m.viewport.View().Scale)
	}
	ax, ay := screenToWorld(sx, sy, m.viewport.View())
	if !approx(ax, wx) || !approx(ay, wy) {
		t.Errorf("point under pointer moved from (%v, %v) to (%v, %v)", wx, wy, ax, ay)
	}
}

func TestMouseDragPans(t *testing.T) {
	m := withMap(newTestModel(t))
	m.switchMode(ModeMap)
	start := m.viewport.View()

	// Event shapes as bubbletea decodes a held left-button drag.
	m = update(t, m, tea.MouseMsg{X: 10, Y: 5, Type: tea.MouseLeft, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	m = update(t, m, tea.MouseMsg{X: 11, Y: 5, Type: tea.MouseLeft, Button: tea.MouseButtonLeft, Action: tea.MouseActionMotion})
	m = update(t, m, tea.MouseMsg{X: 12, Y: 6, Type: tea.MouseLeft, Button: tea.MouseButtonLeft, Action: tea.MouseActionMotion})
	m = update(t, m, tea.MouseMsg{X: 12, Y: 6, Type: tea.MouseRelease, Button: tea.MouseButtonNone, Action: tea.MouseActionRelease})

	v := m.viewport.View()
	if v.PanX != start.PanX+2*m.config.CellWidth || v.PanY != start.PanY+m.config.CellHeight {
		t.Errorf("pan = (%v, %v), start (%v, %v)", v.PanX, v.PanY, start.PanX, start.PanY)
	}
	if m.dragging {
		t.Error("drag still active after release")
	}
	m = update(t, m, keyRunes("u"))
	if m.viewport.View() != start {
		t.Error("drag was not undoable")
	}
}

func TestSaveExportJSONFlow(t *testing.T) {
	m := newTestModel(t)
	m.config.SaveDirectory = t.TempDir()
	m.convertItem(mustParse(t, `{"dropMeta": {"coordinates": [1, 2, 3]}}`))
	m.switchMode(ModeMap)

	m = update(t, m, keyRunes("s"))
	if m.mode != ModeFileInput || m.fileOp != FileOpSaveJSON {
		t.Fatalf("mode %v op %v", m.mode, m.fileOp)
	}
	m.fileInput.SetValue("drops")
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	path := filepath.Join(m.config.SaveDirectory, "drops.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("export not written: %v", err)
	}
	if string(data) != m.output+"\n" {
		t.Errorf("file content = %q", data)
	}
	if m.mode != ModeMap || !strings.HasPrefix(m.successMessage, "Saved to ") {
		t.Errorf("mode %v status %q", m.mode, m.successMessage)
	}
}

func TestSaveOverwriteConfirmation(t *testing.T) {
	m := newTestModel(t)
	m.config.Confirmations = true
	m.config.SaveDirectory = t.TempDir()
	m.convertItem(mustParse(t, `{"dropMeta": {"coordinates": [1, 2, 3]}}`))
	path := filepath.Join(m.config.SaveDirectory, "waypoints.json")
	if err := os.WriteFile(path, []byte("old"), 0644); err != nil {
		t.Fatal(err)
	}
	m.switchMode(ModeMap)

	m = update(t, m, keyRunes("s"))
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.mode != ModeConfirm || m.confirmAction != ConfirmOverwriteFile {
		t.Fatalf("mode %v action %v", m.mode, m.confirmAction)
	}
	m = update(t, m, keyRunes("n"))
	if m.mode != ModeFileInput {
		t.Errorf("declining returned to %v", m.mode)
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = update(t, m, keyRunes("y"))
	data, _ := os.ReadFile(path)
	if string(data) == "old" {
		t.Error("file not overwritten after confirmation")
	}
}

func TestSaveWithoutOutput(t *testing.T) {
	m := newTestModel(t)
	m.switchMode(ModeMap)
	m = update(t, m, keyRunes("s"))
	if m.mode != ModeMap || m.errorMessage == "" {
		t.Errorf("mode %v status %q", m.mode, m.errorMessage)
	}
}

func TestTabCyclesPanes(t *testing.T) {
	m := newTestModel(t)
	want := []Mode{ModeResults, ModeEditor, ModeMap, ModeSearch}
	for _, w := range want {
		m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
		if m.mode != w {
			t.Fatalf("mode = %v, want %v", m.mode, w)
		}
	}
}

func TestQuitWithConfirmation(t *testing.T) {
	m := newTestModel(t)
	m.config.Confirmations = true
	m.switchMode(ModeMap)
	m = update(t, m, keyRunes("q"))
	if m.mode != ModeConfirm || m.confirmAction != ConfirmQuit {
		t.Fatalf("mode %v action %v", m.mode, m.confirmAction)
	}
	m = update(t, m, keyRunes("n"))
	if m.mode != ModeMap {
		t.Errorf("declining quit returned to %v", m.mode)
	}
}

func TestWithExtension(t *testing.T) {
	tests := []struct {
		name string
		op   FileOperation
		want string
	}{
		{"drops", FileOpSaveJSON, "drops.json"},
		{"drops.JSON", FileOpSaveJSON, "drops.JSON"},
		{"view", FileOpSaveImage, "view.png"},
		{"view.webp", FileOpSaveImage, "view.webp"},
		{"view.jpg", FileOpSaveImage, "view.jpg.png"},
		{"preview", FileOpSaveVisualTXT, "preview.txt"},
	}
	for _, tt := range tests {
		if got := withExtension(tt.name, tt.op); got != tt.want {
			t.Errorf("withExtension(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestStatusError(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{errors.Join(ErrEmptyResult), "Empty result."},
		{wrap(ErrEmptyResult, "no items found"), "No items found."},
		{wrap(ErrViewportPrecondition, "load the map first"), "Load the map first."},
		{wrap(ErrMalformedInput, "unexpected EOF"), "Invalid JSON: unexpected EOF"},
		{errors.New("request failed."), "Request failed."},
	}
	for _, tt := range tests {
		if got := statusError(tt.err); got != tt.want {
			t.Errorf("statusError(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func wrap(sentinel error, msg string) error {
	return fmt.Errorf("%w: %s", sentinel, msg)
}

func TestViewRendersEveryMode(t *testing.T) {
	m := withMap(newTestModel(t))
	m.showOnMap([]Waypoint{at(100, 100)})
	for _, mode := range []Mode{ModeSearch, ModeResults, ModeEditor, ModeMap, ModeGoto, ModeColor} {
		m.switchMode(mode)
		out := m.View()
		if out == "" {
			t.Errorf("mode %v rendered nothing", mode)
		}
		if got := strings.Count(out, "\n"); got < 2 {
			t.Errorf("mode %v rendered %d lines", mode, got+1)
		}
	}
	m.help = true
	if !strings.Contains(m.View(), "dropmap Help") {
		t.Error("help view missing title")
	}
}

func TestMouseMotionWithoutPressDoesNotPan(t *testing.T) {
	m := withMap(newTestModel(t))
	m.switchMode(ModeMap)
	start := m.viewport.View()

	m = update(t, m, tea.MouseMsg{X: 12, Y: 6, Type: tea.MouseMotion, Button: tea.MouseButtonNone, Action: tea.MouseActionMotion})
	if m.viewport.View() != start || m.dragging {
		t.Errorf("hover moved the view to %+v", m.viewport.View())
	}
}

func TestColorEscCancelsPendingRecolour(t *testing.T) {
	m := withMap(newTestModel(t))
	m.showOnMap([]Waypoint{{Name: "a", Color: "#ffffffff", Location: &Point3{}}})
	m.switchMode(ModeMap)
	m = update(t, m, keyRunes("c"))

	m.colorDebounce.Trigger("#ff0")
	pending := debounceMsg{id: m.colorDebounce.id, seq: m.colorDebounce.seq, payload: "#ff0"}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	m = update(t, m, pending)

	if m.color != "#ffffffff" || m.mapWaypoints[0].Color != "#ffffffff" {
		t.Errorf("cancelled edit applied: colour %q waypoint %q", m.color, m.mapWaypoints[0].Color)
	}
}

func TestNewWaypointListClearsViewHistory(t *testing.T) {
	m := withMap(newTestModel(t))
	m.switchMode(ModeMap)
	m = update(t, m, keyRunes("+"))

	m.showOnMap([]Waypoint{at(100, 100)})
	fitted := m.viewport.View()
	m = update(t, m, keyRunes("u"))
	if m.viewport.View() != fitted || m.successMessage != "Nothing to undo." {
		t.Errorf("undo crossed into the previous list: %+v, %q", m.viewport.View(), m.successMessage)
	}
}

func TestCopyStatusReportsSize(t *testing.T) {
	m := newTestModel(t)
	m = update(t, m, clipboardMsg{copied: 42})
	if m.successMessage != "Copied 42 bytes to clipboard." {
		t.Errorf("status = %q", m.successMessage)
	}
	m = update(t, m, clipboardMsg{err: errors.New("no clipboard utility")})
	if m.errorMessage != "No clipboard utility." {
		t.Errorf("error status = %q", m.errorMessage)
	}
}
