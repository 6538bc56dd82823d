package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestParseConfigDefaults(t *testing.T) {
	cfg := parseConfig(strings.NewReader(""), "/home/u")
	if cfg.APIBase != defaultAPIBase || cfg.ProxyBase != defaultProxyBase {
		t.Errorf("endpoints = %q, %q", cfg.APIBase, cfg.ProxyBase)
	}
	if cfg.UseProxy {
		t.Error("proxy enabled by default")
	}
	if !cfg.ShowRadius || cfg.ShowLabels {
		t.Errorf("toggles = radius %v labels %v", cfg.ShowRadius, cfg.ShowLabels)
	}
	if cfg.CellWidth != 8 || cfg.CellHeight != 16 {
		t.Errorf("cell = %v x %v", cfg.CellWidth, cfg.CellHeight)
	}
	if cfg.LogDirectory != filepath.Join("/home/u", ".dropmap") {
		t.Errorf("log directory = %q", cfg.LogDirectory)
	}
	if cfg.Timeout != 15*time.Second || !cfg.Confirmations {
		t.Errorf("timeout %v confirmations %v", cfg.Timeout, cfg.Confirmations)
	}
}

func TestParseConfigValues(t *testing.T) {
	input := `
# exports
save_directory = ~/exports
MapPath = /srv/maps/main.png
use_proxy = TRUE
icon = star
colour = #00FF00
show_radius = false
show_labels = true
cell_width = abc
cell_height = 20
timeout = 5s
confirm = false
bogus line
unknown = 1
`
	cfg := parseConfig(strings.NewReader(input), "/home/u")

	if cfg.SaveDirectory != filepath.Join("/home/u", "exports") {
		t.Errorf("save directory = %q", cfg.SaveDirectory)
	}
	if cfg.MapPath != "/srv/maps/main.png" {
		t.Errorf("map path = %q", cfg.MapPath)
	}
	if !cfg.UseProxy || cfg.Icon != "star" || cfg.Color != "#00ff00ff" {
		t.Errorf("proxy %v icon %q color %q", cfg.UseProxy, cfg.Icon, cfg.Color)
	}
	if cfg.ShowRadius || !cfg.ShowLabels {
		t.Errorf("toggles = radius %v labels %v", cfg.ShowRadius, cfg.ShowLabels)
	}
	if cfg.CellWidth != 8 || cfg.CellHeight != 20 {
		t.Errorf("cell = %v x %v", cfg.CellWidth, cfg.CellHeight)
	}
	if cfg.Timeout != 5*time.Second || cfg.Confirmations {
		t.Errorf("timeout %v confirmations %v", cfg.Timeout, cfg.Confirmations)
	}
}

func TestGetSavePath(t *testing.T) {
	cfg := defaultConfig("")
	if got := cfg.GetSavePath("a.json"); got != "a.json" {
		t.Errorf("without directory = %q", got)
	}

	dir := filepath.Join(t.TempDir(), "exports")
	cfg.SaveDirectory = dir
	if got := cfg.GetSavePath("a.json"); got != filepath.Join(dir, "a.json") {
		t.Errorf("with directory = %q", got)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("save directory not created: %v", err)
	}

	abs := filepath.Join(t.TempDir(), "b.json")
	if got := cfg.GetSavePath(abs); got != abs {
		t.Errorf("absolute path rewritten to %q", got)
	}
}
