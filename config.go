package main

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	SaveDirectory string
	MapPath       string
	APIBase       string
	ProxyBase     string
	UseProxy      bool
	Icon          string
	Color         string
	ShowRadius    bool
	ShowLabels    bool
	CellWidth     float64
	CellHeight    float64
	LogDirectory  string
	Confirmations bool
	Timeout       time.Duration
}

func defaultConfig(homeDir string) *Config {
	logDir := ""
	if homeDir != "" {
		logDir = filepath.Join(homeDir, ".dropmap")
	}
	return &Config{
		MapPath:       filepath.Join("map", "main-map.png"),
		APIBase:       defaultAPIBase,
		ProxyBase:     defaultProxyBase,
		Icon:          defaultIcon,
		Color:         defaultColor,
		ShowRadius:    true,
		CellWidth:     8,
		CellHeight:    16,
		LogDirectory:  logDir,
		Confirmations: true,
		Timeout:       15 * time.Second,
	}
}

func loadConfig() *Config {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return defaultConfig("")
	}

	configPath := filepath.Join(homeDir, ".dropmaprc")
	file, err := os.Open(configPath)
	if err != nil {
		return defaultConfig(homeDir)
	}
	defer file.Close()

	return parseConfig(file, homeDir)
}

// parseConfig reads key = value lines. Unknown keys and values that do not
// parse leave the default in place.
func parseConfig(r io.Reader, homeDir string) *Config {
	config := defaultConfig(homeDir)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		switch strings.ToLower(key) {
		case "savedirectory", "save_directory", "savedir":
			config.SaveDirectory = expandPath(value, homeDir)
		case "logdirectory", "log_directory", "logdir":
			config.LogDirectory = expandPath(value, homeDir)
		case "mappath", "map_path", "map":
			config.MapPath = expandPath(value, homeDir)
		case "apibase", "api_base", "api":
			if value != "" {
				config.APIBase = value
			}
		case "proxybase", "proxy_base":
			if value != "" {
				config.ProxyBase = value
			}
		case "useproxy", "use_proxy", "proxy":
			config.UseProxy = strings.ToLower(value) == "true"
		case "icon":
			if value != "" {
				config.Icon = value
			}
		case "color", "colour":
			config.Color = normalizeColor(value)
		case "showradius", "show_radius":
			config.ShowRadius = strings.ToLower(value) == "true"
		case "showlabels", "show_labels":
			config.ShowLabels = strings.ToLower(value) == "true"
		case "cellwidth", "cell_width":
			if f, err := strconv.ParseFloat(value, 64); err == nil && f > 0 {
				config.CellWidth = f
			}
		case "cellheight", "cell_height":
			if f, err := strconv.ParseFloat(value, 64); err == nil && f > 0 {
				config.CellHeight = f
			}
		case "confirmations", "confirm":
			config.Confirmations = strings.ToLower(value) == "true"
		case "timeout":
			if d, err := time.ParseDuration(value); err == nil && d > 0 {
				config.Timeout = d
			}
		}
	}

	return config
}

func expandPath(value, homeDir string) string {
	if value == "" {
		return value
	}
	if strings.HasPrefix(value, "~") && homeDir != "" {
		value = filepath.Join(homeDir, strings.TrimPrefix(value, "~"))
	}
	if !filepath.IsAbs(value) {
		if absPath, err := filepath.Abs(value); err == nil {
			value = absPath
		}
	}
	return value
}

func (c *Config) GetSavePath(filename string) string {
	if c.SaveDirectory == "" || filepath.IsAbs(filename) {
		return filename
	}
	os.MkdirAll(c.SaveDirectory, 0755)
	return filepath.Join(c.SaveDirectory, filename)
}
