// Package config loads, persists and watches the pad mapping file, the
// on-disk description of what every grid pad does.
package config

import (
	"github.com/lumipad/lumipad/internal/pkg/logger"
	"github.com/lumipad/lumipad/internal/pkg/pad"
)

var log = logger.GetLogger()

// Mapping is the parsed pad configuration.
type Mapping struct {
	Pads   map[pad.ButtonID]pad.Behavior
	Groups pad.Groups
}

// mappingFile is the wire form shared by the TOML and YAML flavors of the
// mapping file. Pads are keyed by their "x,y" coordinate.
type mappingFile struct {
	Groups map[string]string   `toml:"groups" yaml:"groups"`
	Pads   map[string]padEntry `toml:"pads" yaml:"pads"`
}

type padEntry struct {
	Mode        string      `toml:"mode" yaml:"mode"`
	Group       string      `toml:"group,omitempty" yaml:"group,omitempty"`
	IdleColor   interface{} `toml:"idle_color" yaml:"idle_color"`
	ActiveColor interface{} `toml:"active_color" yaml:"active_color"`
	Label       string      `toml:"label,omitempty" yaml:"label,omitempty"`

	Action *commandEntry `toml:"action,omitempty" yaml:"action,omitempty"`
	On     *commandEntry `toml:"on,omitempty" yaml:"on,omitempty"`
	Off    *commandEntry `toml:"off,omitempty" yaml:"off,omitempty"`
}

type commandEntry struct {
	Address string        `toml:"address" yaml:"address"`
	Args    []interface{} `toml:"args,omitempty" yaml:"args,omitempty"`
}
