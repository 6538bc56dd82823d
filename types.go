package main

import (
	"fmt"
	"image"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
)

type SourceOrigin int

const (
	OriginDroppedBy SourceOrigin = iota
	OriginDropMeta
)

// ItemRecord is what conversion keeps of an item: its name and every
// place it drops.
type ItemRecord struct {
	Name  string
	Drops []DropSource
}

type DropSource struct {
	Name      string
	Origin    SourceOrigin
	Locations []Location
}

// Location is a game position. Radius is nil when the source gave none.
type Location struct {
	X, Y, Z float64
	Radius  *float64
}

type Point3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Waypoint serves both the overlay import format (Icon set, Radius nil)
// and the map preview (Icon empty, Radius kept).
type Waypoint struct {
	Name       string   `json:"name"`
	Color      string   `json:"color"`
	Icon       string   `json:"icon,omitempty"`
	Visibility string   `json:"visibility"`
	Location   *Point3  `json:"location,omitempty"`
	Radius     *float64 `json:"radius,omitempty"`
}

// searchResult is one candidate of a lookup response.
type searchResult struct {
	Name string
	Item *jsonObject
}

func (r searchResult) Title() string       { return r.Name }
func (r searchResult) FilterValue() string { return r.Name }
func (r searchResult) Description() string {
	record := extractItemRecord(r.Item)
	n := 0
	for _, d := range record.Drops {
		n += len(d.Locations)
	}
	return fmt.Sprintf("%d drop location(s)", n)
}

type gotoItem struct {
	index int
	name  string
}

func (g gotoItem) Title() string       { return g.name }
func (g gotoItem) FilterValue() string { return g.name }
func (g gotoItem) Description() string { return fmt.Sprintf("waypoint %d", g.index+1) }

type model struct {
	width      int
	height     int
	mode       Mode
	prevMode   Mode
	help       bool
	helpScroll int
	config     *Config
	client     *lookupClient

	search     textinput.Model
	editor     textarea.Model
	colorInput textinput.Model
	fileInput  textinput.Model
	results    list.Model
	gotoList   list.Model

	searchResults   []searchResult
	searching       bool
	exportWaypoints []Waypoint
	output          string // export JSON as shown and copied
	mapWaypoints    []Waypoint
	waypointIndex   int

	icon       string
	color      string
	showRadius bool
	showLabels bool

	viewport   *Viewport
	history    viewHistory
	mapImage   image.Image
	mapErr     error
	mapLoading bool

	dragging  bool
	dragX     int
	dragY     int
	dragStart ViewState

	colorDebounce debouncer

	fileOp         FileOperation
	confirmAction  ConfirmAction
	pendingPath    string
	errorMessage   string
	successMessage string
}
