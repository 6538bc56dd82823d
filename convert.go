package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"
)

type payloadShape int

const (
	shapeUnknown payloadShape = iota
	shapeItemArray
	shapeSingleItem
	shapeKeyedMap
)

// payload is a lookup response resolved to one of the accepted shapes.
type payload struct {
	shape payloadShape
	items []any       // shapeItemArray
	obj   *jsonObject // shapeSingleItem, shapeKeyedMap
}

func isItemObject(o *jsonObject) bool {
	return o.has("droppedBy") || o.has("dropMeta")
}

func classifyPayload(raw any) payload {
	switch v := raw.(type) {
	case []any:
		return payload{shape: shapeItemArray, items: v}
	case *jsonObject:
		if isItemObject(v) {
			return payload{shape: shapeSingleItem, obj: v}
		}
		return payload{shape: shapeKeyedMap, obj: v}
	}
	return payload{shape: shapeUnknown}
}

// parseItemJSON decodes editor or file text.
func parseItemJSON(text string) (any, error) {
	raw := strings.TrimSpace(text)
	if raw == "" {
		return nil, fmt.Errorf("%w: no JSON to convert", ErrEmptyResult)
	}
	return decodeJSON([]byte(raw))
}

// formatJSON re-indents text with two spaces.
func formatJSON(text string) (string, error) {
	v, err := parseItemJSON(text)
	if err != nil {
		return "", err
	}
	return indentJSON(v)
}

func indentJSON(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

func marshalWaypoints(wps []Waypoint) ([]byte, error) {
	if wps == nil {
		wps = []Waypoint{}
	}
	s, err := indentJSON(wps)
	if err != nil {
		return nil, err
	}
	return []byte(s), nil
}

// extractItemRecord normalises any accepted payload into an ItemRecord.
// Unrecognised input yields "Unknown Item" with no drops.
func extractItemRecord(raw any) ItemRecord {
	p := classifyPayload(raw)
	name := unknownItem

	var item *jsonObject
	switch p.shape {
	case shapeSingleItem:
		item = p.obj
	case shapeKeyedMap:
		if key, v, ok := p.obj.first(); ok {
			if o, ok := v.(*jsonObject); ok {
				item = o
				if key != "" {
					name = key
				}
			}
		}
	}
	if item == nil {
		return ItemRecord{Name: name}
	}

	if v, ok := item.get("internalName"); ok {
		if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
			name = strings.TrimSpace(s)
		}
	}

	record := ItemRecord{Name: name}
	record.Drops = append(record.Drops, droppedBySources(item)...)
	if src, ok := dropMetaSource(item); ok {
		record.Drops = append(record.Drops, src)
	}
	return record
}

func droppedBySources(item *jsonObject) []DropSource {
	v, _ := item.get("droppedBy")
	entries, _ := v.([]any)

	var sources []DropSource
	for _, e := range entries {
		entry, ok := e.(*jsonObject)
		if !ok {
			continue
		}
		name := unknownName
		if n, ok := entry.get("name"); ok {
			if s, ok := truthyString(n); ok {
				name = s
			}
		}
		cv, _ := entry.get("coords")
		coords, _ := cv.([]any)

		src := DropSource{Name: name, Origin: OriginDroppedBy}
		for _, c := range coords {
			loc, ok := parseLocation(c, true)
			if !ok {
				continue
			}
			src.Locations = append(src.Locations, loc)
		}
		if len(src.Locations) > 0 {
			sources = append(sources, src)
		}
	}
	return sources
}

func dropMetaSource(item *jsonObject) (DropSource, bool) {
	v, _ := item.get("dropMeta")
	meta, ok := v.(*jsonObject)
	if !ok {
		return DropSource{}, false
	}
	if t, _ := meta.get("type"); t == guildDropType {
		return DropSource{}, false
	}

	name := unknownSource
	if n, ok := meta.get("name"); ok {
		if s, ok := n.(string); ok && strings.TrimSpace(s) != "" {
			name = strings.TrimSpace(s)
		}
	}
	c, _ := meta.get("coordinates")
	loc, ok := parseLocation(c, false)
	if !ok {
		return DropSource{}, false
	}
	return DropSource{Name: name, Origin: OriginDropMeta, Locations: []Location{loc}}, true
}

// parseLocation reads [x, y, z] or [x, y, z, radius].
func parseLocation(v any, withRadius bool) (Location, bool) {
	arr, ok := v.([]any)
	if !ok || len(arr) < 3 {
		return Location{}, false
	}
	var xyz [3]float64
	for i := range xyz {
		f, ok := arr[i].(float64)
		if !ok {
			return Location{}, false
		}
		xyz[i] = f
	}
	loc := Location{X: xyz[0], Y: xyz[1], Z: xyz[2]}
	if withRadius && len(arr) >= 4 {
		if r, ok := arr[3].(float64); ok && !math.IsInf(r, 0) && !math.IsNaN(r) {
			loc.Radius = &r
		}
	}
	return loc, true
}

// enumerateSearchResults flattens every accepted shape into an ordered
// list so a caller can pick one candidate before converting it.
func enumerateSearchResults(raw any) []searchResult {
	p := classifyPayload(raw)
	var results []searchResult

	switch p.shape {
	case shapeItemArray:
		for _, v := range p.items {
			if o, ok := v.(*jsonObject); ok {
				results = append(results, searchResult{Name: resultName(o, "name"), Item: o})
			}
		}
	case shapeSingleItem:
		results = append(results, searchResult{Name: resultName(p.obj, "name"), Item: p.obj})
	case shapeKeyedMap:
		for _, k := range p.obj.keys {
			o, ok := p.obj.fields[k].(*jsonObject)
			if !ok {
				continue
			}
			name := unknownName
			if s, ok := fieldString(o, "internalName"); ok {
				name = s
			} else if k != "" {
				name = k
			}
			results = append(results, searchResult{Name: name, Item: o})
		}
	}
	return results
}

func resultName(o *jsonObject, fallbackField string) string {
	if s, ok := fieldString(o, "internalName"); ok {
		return s
	}
	if s, ok := fieldString(o, fallbackField); ok {
		return s
	}
	return unknownName
}

func fieldString(o *jsonObject, key string) (string, bool) {
	v, ok := o.get(key)
	if !ok {
		return "", false
	}
	return truthyString(v)
}

// truthyString renders non-empty strings and non-zero numbers; everything
// else counts as missing.
func truthyString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, t != ""
	case float64:
		if t == 0 || math.IsNaN(t) {
			return "", false
		}
		return formatNumber(t), true
	case bool:
		return "true", t
	}
	return "", false
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func (l Location) point() *Point3 {
	return &Point3{X: l.X, Y: l.Y, Z: l.Z}
}

// toExportWaypoints produces the overlay tool's import format. Radius is
// folded into the name and never emitted as a field.
func toExportWaypoints(record ItemRecord, icon, color string) []Waypoint {
	if icon == "" {
		icon = defaultIcon
	}
	color = normalizeColor(color)

	var wps []Waypoint
	for _, src := range record.Drops {
		for i, loc := range src.Locations {
			wps = append(wps, Waypoint{
				Name:       exportName(src, loc, record.Name, i+1),
				Color:      color,
				Icon:       icon,
				Visibility: visibilityAll,
				Location:   loc.point(),
			})
		}
	}
	return wps
}

// toVisualizationWaypoints is the map preview form: no icon, radius kept.
func toVisualizationWaypoints(record ItemRecord, color string) []Waypoint {
	color = normalizeColor(color)

	var wps []Waypoint
	for _, src := range record.Drops {
		for i, loc := range src.Locations {
			name := fmt.Sprintf("%s - %s", src.Name, record.Name)
			if src.Origin == OriginDroppedBy {
				name = fmt.Sprintf("%s - %s - %d", src.Name, record.Name, i+1)
			}
			wp := Waypoint{
				Name:       name,
				Color:      color,
				Visibility: visibilityAll,
				Location:   loc.point(),
			}
			if loc.Radius != nil {
				r := *loc.Radius
				wp.Radius = &r
			}
			wps = append(wps, wp)
		}
	}
	return wps
}

func exportName(src DropSource, loc Location, itemName string, ordinal int) string {
	if src.Origin == OriginDropMeta {
		return fmt.Sprintf("%s - %s", src.Name, itemName)
	}
	if loc.Radius == nil {
		return fmt.Sprintf("%s - %s - %d", src.Name, itemName, ordinal)
	}
	return fmt.Sprintf("%s - %sm - %s - %d", src.Name, formatNumber(*loc.Radius), itemName, ordinal)
}

// recolorWaypoints returns a copy of wps with every colour replaced.
func recolorWaypoints(wps []Waypoint, color string) []Waypoint {
	color = normalizeColor(color)
	out := make([]Waypoint, len(wps))
	for i, w := range wps {
		w.Color = color
		out[i] = w
	}
	return out
}

// normalizeColor turns user input into the 8-digit lowercase form with a
// trailing alpha channel.
func normalizeColor(s string) string {
	h := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "#")
	switch {
	case len(h) == 6 && isHex(h):
		return "#" + h + "ff"
	case len(h) == 8 && isHex(h):
		return "#" + h
	}
	return defaultColor
}

// parseColor decodes #RRGGBBAA. Anything else is opaque white.
func parseColor(hex8 string) color.NRGBA {
	h := strings.ToLower(strings.TrimPrefix(hex8, "#"))
	if len(h) != 8 || !isHex(h) {
		return color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	}
	v, _ := strconv.ParseUint(h, 16, 32)
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}
}

func isHex(s string) bool {
	for _, r := range s {
		if !(r >= '0' && r <= '9' || r >= 'a' && r <= 'f' || r >= 'A' && r <= 'F') {
			return false
		}
	}
	return s != ""
}
