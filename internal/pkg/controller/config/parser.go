package config

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/lumipad/lumipad/internal/pkg/launchpad"
	"github.com/lumipad/lumipad/internal/pkg/pad"
)

// Parse parses mapping file content. Format is "toml" or "yaml".
func Parse(data []byte, format string) (Mapping, error) {
	var file mappingFile
	var err error

	switch format {
	case "toml":
		file, err = parseTOML(data)
	case "yaml":
		file, err = parseYAML(data)
	default:
		return Mapping{}, fmt.Errorf("unsupported mapping format: %s", format)
	}
	if err != nil {
		return Mapping{}, err
	}

	return build(file)
}

func parseTOML(data []byte) (mappingFile, error) {
	var file mappingFile

	d := toml.NewDecoder(bytes.NewReader(data))
	d.DisallowUnknownFields()

	if err := d.Decode(&file); err != nil {
		return mappingFile{}, fmt.Errorf("parsing toml failed: %w", err)
	}
	return file, nil
}

func parseYAML(data []byte) (mappingFile, error) {
	var file mappingFile

	d := yaml.NewDecoder(bytes.NewReader(data))
	d.KnownFields(true)

	if err := d.Decode(&file); err != nil {
		return mappingFile{}, fmt.Errorf("parsing yaml failed: %w", err)
	}
	return file, nil
}

func build(file mappingFile) (Mapping, error) {
	groups := make(pad.Groups, len(file.Groups))
	for name, parent := range file.Groups {
		if name == "" {
			return Mapping{}, fmt.Errorf("empty group name")
		}
		if parent != "" {
			if _, ok := file.Groups[parent]; !ok {
				return Mapping{}, fmt.Errorf("group %s: unknown parent group %s", name, parent)
			}
		}
		groups[pad.GroupID(name)] = pad.GroupID(parent)
	}

	pads := make(map[pad.ButtonID]pad.Behavior, len(file.Pads))
	for key, entry := range file.Pads {
		button, err := pad.ParseButtonID(key)
		if err != nil {
			return Mapping{}, err
		}

		behavior, err := buildBehavior(entry, groups)
		if err != nil {
			return Mapping{}, fmt.Errorf("pad %s: %w", key, err)
		}
		pads[button] = behavior
	}

	return Mapping{Pads: pads, Groups: groups}, nil
}

func buildBehavior(entry padEntry, groups pad.Groups) (pad.Behavior, error) {
	idle, err := parseColor(entry.IdleColor)
	if err != nil {
		return pad.Behavior{}, fmt.Errorf("idle_color: %w", err)
	}
	active, err := parseColor(entry.ActiveColor)
	if err != nil {
		return pad.Behavior{}, fmt.Errorf("active_color: %w", err)
	}

	if entry.Group != "" {
		if _, ok := groups[pad.GroupID(entry.Group)]; !ok {
			return pad.Behavior{}, fmt.Errorf("unknown group: %s", entry.Group)
		}
	}

	action, err := buildCommand(entry.Action)
	if err != nil {
		return pad.Behavior{}, fmt.Errorf("action: %w", err)
	}
	on, err := buildCommand(entry.On)
	if err != nil {
		return pad.Behavior{}, fmt.Errorf("on: %w", err)
	}
	off, err := buildCommand(entry.Off)
	if err != nil {
		return pad.Behavior{}, fmt.Errorf("off: %w", err)
	}

	return pad.NewBehavior(pad.Behavior{
		Mode:        pad.Mode(entry.Mode),
		Group:       pad.GroupID(entry.Group),
		IdleColor:   idle,
		ActiveColor: active,
		Label:       entry.Label,
		Action:      action,
		On:          on,
		Off:         off,
	})
}

// parseColor accepts a palette index (0-127) or a "#rrggbb" string, which is
// matched to the nearest palette entry.
func parseColor(v interface{}) (pad.Color, error) {
	switch c := v.(type) {
	case nil:
		return pad.ColorOff, nil
	case int:
		return paletteIndex(int64(c))
	case int64:
		return paletteIndex(c)
	case uint64:
		return paletteIndex(int64(c))
	case string:
		if strings.HasPrefix(c, "#") {
			rgb, err := colorful.Hex(c)
			if err != nil {
				return 0, fmt.Errorf("failed to parse color \"%s\": %w", c, err)
			}
			return launchpad.NearestColor(rgb), nil
		}
		i, err := strconv.ParseInt(c, 10, 32)
		if err != nil {
			return 0, fmt.Errorf("failed to parse color \"%s\": %w", c, err)
		}
		return paletteIndex(i)
	default:
		return 0, fmt.Errorf("unsupported color value: %v (%T)", v, v)
	}
}

func paletteIndex(i int64) (pad.Color, error) {
	if i < 0 || i > 127 {
		return 0, fmt.Errorf("palette index outside of 0-127 range: %d", i)
	}
	return pad.Color(i), nil
}

func buildCommand(e *commandEntry) (*pad.Command, error) {
	if e == nil {
		return nil, nil
	}
	if !strings.HasPrefix(e.Address, "/") {
		return nil, fmt.Errorf("address must start with \"/\": \"%s\"", e.Address)
	}

	for i, a := range e.Args {
		switch a.(type) {
		case int, int64, uint64, float64, string, bool:
		default:
			return nil, fmt.Errorf("argument %d: unsupported type %T", i, a)
		}
	}

	c := pad.NewCommand(e.Address, e.Args...)
	return &c, nil
}
