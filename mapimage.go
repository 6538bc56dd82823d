package main

import (
	"bufio"
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/webp"
)

type mapLoadedMsg struct {
	img image.Image
	err error
}

// The tga package registers an empty magic string with the image package,
// so image.Decode would hand every file to it. Decoders are picked here
// instead, from the file header or, for headerless TGA, the extension.
var mapDecoders = map[string]func(io.Reader) (image.Image, error){
	"png":  png.Decode,
	"jpeg": jpeg.Decode,
	"webp": webp.Decode,
	"tga":  tga.Decode,
}

// sniffMapFormat names the decoder for a raster.
func sniffMapFormat(path string, header []byte) string {
	switch {
	case bytes.HasPrefix(header, []byte("\x89PNG\r\n\x1a\n")):
		return "png"
	case bytes.HasPrefix(header, []byte("\xff\xd8")):
		return "jpeg"
	case len(header) >= 12 && string(header[:4]) == "RIFF" && string(header[8:12]) == "WEBP":
		return "webp"
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tga":
		return "tga"
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".webp":
		return "webp"
	}
	return "png"
}

// loadMapImage decodes the world map raster. A raster whose size differs
// from the calibrated one is still used, stretched to the calibrated size.
func loadMapImage(path string) (image.Image, error) {
	slog.Info("Loading map image", "path", path)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open map %s: %v", ErrAssetLoad, path, err)
	}
	defer f.Close()

	r := bufio.NewReader(f)
	header, _ := r.Peek(12)
	format := sniffMapFormat(path, header)

	img, err := mapDecoders[format](r)
	if err != nil {
		return nil, fmt.Errorf("%w: decode map %s: %v", ErrAssetLoad, path, err)
	}
	b := img.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("%w: map %s has no pixels", ErrAssetLoad, path)
	}
	if b.Dx() != mapWidth || b.Dy() != mapHeight {
		slog.Warn("Map size differs from calibration", "path", path,
			"w", b.Dx(), "h", b.Dy(), "expectedW", mapWidth, "expectedH", mapHeight)
	}
	slog.Info("Map image loaded", "format", format, "w", b.Dx(), "h", b.Dy())
	return img, nil
}

func loadMapCmd(path string) tea.Cmd {
	return func() tea.Msg {
		img, err := loadMapImage(path)
		return mapLoadedMsg{img: img, err: err}
	}
}
