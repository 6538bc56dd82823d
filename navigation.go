package main

// panStep is how far one key press moves the map, in screen pixels.
const panStep = 48.0

// handlePan moves the map opposite to the key so the view travels in the
// key's direction.
func (m *model) handlePan(key string, speed int) {
	d := panStep * float64(speed)
	var dx, dy float64
	switch key {
	case "h", "left", "H", "shift+left":
		dx = d
	case "l", "right", "L", "shift+right":
		dx = -d
	case "k", "up", "K", "shift+up":
		dy = d
	case "j", "down", "J", "shift+down":
		dy = -d
	default:
		return
	}
	m.moveView(func(v *Viewport) { v.Pan(dx, dy) })
}

func (m *model) getMoveSpeed(key string) int {
	switch key {
	case "H", "K", "J", "shift+left", "shift+right", "shift+up", "shift+down":
		return 2
	default:
		return 1
	}
}

// cellCenter converts a terminal cell inside the map area to virtual
// screen pixels.
func (m *model) cellCenter(col, row int) (float64, float64) {
	return (float64(col) + 0.5) * m.config.CellWidth, (float64(row-1) + 0.5) * m.config.CellHeight
}

// dragTo pans by the cell delta since the last drag position.
func (m *model) dragTo(col, row int) {
	dx := float64(col-m.dragX) * m.config.CellWidth
	dy := float64(row-m.dragY) * m.config.CellHeight
	m.dragX, m.dragY = col, row
	if dx == 0 && dy == 0 {
		return
	}
	m.viewport.Pan(dx, dy)
}

// stepWaypoint centres the previous (dir < 0) or next waypoint, wrapping
// around the list.
func (m *model) stepWaypoint(dir int) bool {
	n := len(m.mapWaypoints)
	if n == 0 {
		return false
	}
	idx := m.waypointIndex + dir
	if m.waypointIndex < 0 && dir < 0 {
		idx = n - 1
	}
	idx = (idx%n + n) % n
	return m.gotoWaypoint(idx)
}

func (m *model) gotoWaypoint(idx int) bool {
	var moved bool
	m.moveView(func(v *Viewport) { moved = v.CenterOnWaypoint(m.mapWaypoints, idx, gotoScale) })
	if moved {
		m.waypointIndex = idx
		m.setSuccess("Centred on %s.", m.mapWaypoints[idx].Name)
	}
	return moved
}
