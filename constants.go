package main

import "time"

type Mode int

const (
	ModeSearch Mode = iota
	ModeResults
	ModeEditor
	ModeMap
	ModeGoto
	ModeColor
	ModeFileInput
	ModeConfirm
)

type FileOperation int

const (
	FileOpSaveJSON FileOperation = iota
	FileOpSaveImage
	FileOpSaveVisualTXT
)

type ConfirmAction int

const (
	ConfirmQuit ConfirmAction = iota
	ConfirmOverwriteFile
)

// Map asset calibration. 2865px corresponds to x=482 and 4926px to
// z=-1646, which gives the two offsets below.
const (
	mapWidth  = 4034
	mapHeight = 6414
	offsetX   = 2383
	offsetY   = 6572
)

const (
	minScale         = 0.2
	maxScale         = 10.0
	zoomStep         = 1.2
	fitPadding       = 40.0
	gotoScale        = 6.0
	colorUpdateDelay = 200 * time.Millisecond
)

const (
	markerRadius    = 4.0
	radiusLineWidth = 2.0
	labelOffset     = 8.0
	labelFontSize   = 12.0
	labelOutline    = 3.0
)

const (
	defaultAPIBase   = "https://api.wynncraft.com/v3/item/search/"
	defaultProxyBase = "https://cors.io/?u="
	defaultIcon      = "flag"
	defaultColor     = "#ffffffff"
	unknownItem      = "Unknown Item"
	unknownSource    = "Unknown Source"
	unknownName      = "Unknown"
	guildDropType    = "guild"
	visibilityAll    = "default"
)

// Icons understood by the overlay tool, in the order 'i' cycles them.
var waypointIcons = []string{
	"flag", "diamond", "fireball", "sign", "star", "wall",
	"chestT1", "chestT2", "chestT3", "chestT4",
	"farming", "fishing", "mining", "woodcutting", "pointer",
}
