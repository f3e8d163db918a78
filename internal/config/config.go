// Package config holds the treels configuration: one immutable value
// object consumed by the tree core, plus an optional yaml defaults file
// for display preferences.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"treels/internal/errors"
	"treels/pkg/types"
)

// Config carries every recognized option. It is produced by the command
// layer (flags merged over file defaults) and is read-only to the core.
type Config struct {
	// Traversal
	MaxDepth       int  // 0 = unlimited; root children are depth 1
	FollowLinks    bool // descend symlinks to directories, cycle-guarded
	DirsOnly       bool
	ShowHidden     bool
	EntryLimit     int // 0 = unlimited; dirs with more filtered children print none
	IncludePattern string
	ExcludePattern string

	// Ordering
	SortKey   types.SortKey
	Reverse   bool
	DirsFirst bool

	// Rendering
	FullPath    bool
	NoIndent    bool
	ASCII       bool
	ColorMode   types.ColorMode
	SizeMode    types.SizeMode
	Permissions bool
	Owner       bool
	Group       bool
	ModDate     bool
	Classify    bool
	NoSummary   bool

	// IO
	OutputPath  string // "" = stdout
	ListingPath string // "" = real filesystem, "-" = stdin listing
}

// Defaults are the display preferences a user may preset in
// ~/.config/treels/config.yaml. Flags given explicitly win over them.
type Defaults struct {
	Color      string `yaml:"color"`       // auto, always, never
	ASCII      bool   `yaml:"ascii"`       // plain ASCII glyphs
	DirsFirst  bool   `yaml:"dirs_first"`  // directories before files
	ShowHidden bool   `yaml:"show_hidden"` // include dotfiles
	HumanSize  bool   `yaml:"human_size"`  // scale sizes when -s is given
}

// DefaultsPath returns the default location of the defaults file.
func DefaultsPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "treels", "config.yaml")
}

// LoadDefaults reads display defaults from path. A missing file is not
// an error; it yields the zero defaults.
func LoadDefaults(path string) (Defaults, error) {
	d := Defaults{Color: "auto"}
	if path == "" {
		return d, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return d, nil
		}
		return d, errors.ConfigError("reading defaults file", err)
	}
	if err := yaml.Unmarshal(data, &d); err != nil {
		return d, errors.ConfigError("parsing defaults file", err)
	}
	if d.Color == "" {
		d.Color = "auto"
	}
	return d, nil
}

// New returns a Config with safe defaults.
func New() *Config {
	return &Config{
		ColorMode: types.ColorAuto,
		SortKey:   types.SortName,
	}
}

// Validate rejects option values the traversal cannot honor.
func (c *Config) Validate() error {
	if c.MaxDepth < 0 {
		return errors.ConfigErrorf("level must be greater than 0")
	}
	if c.EntryLimit < 0 {
		return errors.ConfigErrorf("filelimit must not be negative")
	}
	if c.SortKey < types.SortName || c.SortKey > types.SortVersion {
		return errors.ConfigErrorf("unknown sort key %d", c.SortKey)
	}
	return nil
}
