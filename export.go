package main

import (
	"fmt"
	"os"
)

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (m *model) exportJSON(filename string) error {
	if m.output == "" {
		return fmt.Errorf("%w: nothing to export, convert an item first", ErrEmptyResult)
	}
	return os.WriteFile(filename, []byte(m.output+"\n"), 0644)
}

// exportImage writes the current viewport, exactly as framed on screen,
// as PNG or WebP depending on the extension.
func (m *model) exportImage(filename string) error {
	frame, err := m.renderFrame()
	if err != nil {
		return err
	}
	w, h := m.viewport.Size()
	return writeViewportImage(filename, frame, int(w), int(h))
}

func writeViewportImage(filename string, frame Frame, width, height int) error {
	img, err := rasterize(frame, width, height)
	if err != nil {
		return err
	}
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := encodeImage(file, img, imageFormat(filename)); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// exportVisualTXT writes the terminal preview without colour codes.
func (m *model) exportVisualTXT(filename string) error {
	frame, err := m.renderFrame()
	if err != nil {
		return err
	}
	cols, rows := m.mapArea()
	grid := rasterizeTerminal(frame, cols, rows, m.config.CellWidth, m.config.CellHeight)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	if _, err := fmt.Fprintln(file, grid.String(true)); err != nil {
		return err
	}
	_, err = fmt.Fprintln(file, frame.Status)
	return err
}
