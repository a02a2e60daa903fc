package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/mod/modfile"
	"golang.org/x/mod/module"
	"gopkg.in/yaml.v3"
)

// FileName is the optional configuration file looked up in the project root.
const FileName = "calbridge.yaml"

// Defaults used when neither the config file nor flags set a value.
const (
	DefaultChannel  = "CalendarEvents"
	DefaultFixtures = "calendar.fixtures.yaml"
	DefaultProdID   = "-//calbridge//EN"
)

// Config represents the optional calbridge.yaml configuration.
type Config struct {
	Bridge BridgeConfig `yaml:"bridge"`
	Export ExportConfig `yaml:"export"`
}

// BridgeConfig selects the native channel and the fixture host.
type BridgeConfig struct {
	Channel  string `yaml:"channel,omitempty"`
	Fixtures string `yaml:"fixtures,omitempty"`
}

// ExportConfig controls iCalendar export.
type ExportConfig struct {
	ProdID string `yaml:"prodid,omitempty"`
	Name   string `yaml:"name,omitempty"`
}

// Resolved contains resolved configuration values.
type Resolved struct {
	Root         string
	ModulePath   string
	Channel      string
	Fixtures     string
	ProdID       string
	CalendarName string
}

// LoadOptional reads calbridge.yaml if present.
func LoadOptional(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", FileName, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", FileName, err)
	}

	return &cfg, nil
}

// Resolve loads calbridge.yaml (if present) and fills in defaults.
// A go.mod in dir, when present, names the default export PRODID.
func Resolve(dir string) (*Resolved, error) {
	cfg, err := LoadOptional(dir)
	if err != nil {
		return nil, err
	}

	modulePath, err := modulePath(dir)
	if err != nil {
		return nil, err
	}

	channel := strings.TrimSpace(cfg.Bridge.Channel)
	if channel == "" {
		channel = DefaultChannel
	}

	fixtures := strings.TrimSpace(cfg.Bridge.Fixtures)
	if fixtures == "" {
		fixtures = DefaultFixtures
	}
	if !filepath.IsAbs(fixtures) {
		fixtures = filepath.Join(dir, fixtures)
	}

	prodID := strings.TrimSpace(cfg.Export.ProdID)
	if prodID == "" {
		prodID = defaultProdID(modulePath)
	}

	return &Resolved{
		Root:         dir,
		ModulePath:   modulePath,
		Channel:      channel,
		Fixtures:     fixtures,
		ProdID:       prodID,
		CalendarName: strings.TrimSpace(cfg.Export.Name),
	}, nil
}

// FindProjectRoot walks up from the current directory to the first directory
// holding calbridge.yaml or go.mod. It returns the current directory when
// neither is found.
func FindProjectRoot() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}

	dir := cwd
	for {
		for _, name := range []string{FileName, "go.mod"} {
			if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
				return dir, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return cwd, nil
		}
		dir = parent
	}
}

// modulePath returns the module path declared in dir/go.mod, or "" if there
// is no go.mod.
func modulePath(dir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, "go.mod"))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read go.mod: %w", err)
	}
	path := modfile.ModulePath(data)
	if path == "" {
		return "", fmt.Errorf("could not determine module path from go.mod")
	}
	return path, nil
}

func defaultProdID(modulePath string) string {
	if modulePath == "" {
		return DefaultProdID
	}
	if prefix, _, ok := module.SplitPathVersion(modulePath); ok {
		modulePath = prefix
	}
	return "-//" + modulePath + "//calbridge//EN"
}
