package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/lumipad/lumipad/internal/pkg/pad"
)

// formatFor maps a mapping file path to its parse format.
func formatFor(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return "toml", nil
	case ".yml", ".yaml":
		return "yaml", nil
	default:
		return "", fmt.Errorf("unsupported mapping file extension: %s", path)
	}
}

// Load reads and parses the mapping file at path.
func Load(path string) (Mapping, error) {
	format, err := formatFor(path)
	if err != nil {
		return Mapping{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Mapping{}, fmt.Errorf("reading mapping file failed: %w", err)
	}

	m, err := Parse(data, format)
	if err != nil {
		return Mapping{}, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Save writes the mapping to path in the format its extension names. The
// write goes through a temporary file in the same directory followed by a
// rename, so a crash never leaves a half-written mapping behind.
func Save(path string, m Mapping) error {
	format, err := formatFor(path)
	if err != nil {
		return err
	}

	file := toFile(m)

	var data []byte
	switch format {
	case "toml":
		data, err = toml.Marshal(file)
	case "yaml":
		data, err = yaml.Marshal(file)
	}
	if err != nil {
		return fmt.Errorf("encoding mapping failed: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temporary mapping file failed: %w", err)
	}

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing mapping file failed: %w", err)
	}
	if err = tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("closing mapping file failed: %w", err)
	}

	if err = os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replacing mapping file failed: %w", err)
	}
	return nil
}

func toFile(m Mapping) mappingFile {
	file := mappingFile{
		Groups: make(map[string]string, len(m.Groups)),
		Pads:   make(map[string]padEntry, len(m.Pads)),
	}

	for group, parent := range m.Groups {
		file.Groups[string(group)] = string(parent)
	}

	for button, b := range m.Pads {
		file.Pads[button.String()] = padEntry{
			Mode:        string(b.Mode),
			Group:       string(b.Group),
			IdleColor:   int(b.IdleColor),
			ActiveColor: int(b.ActiveColor),
			Label:       b.Label,
			Action:      toCommandEntry(b.Action),
			On:          toCommandEntry(b.On),
			Off:         toCommandEntry(b.Off),
		}
	}

	return file
}

func toCommandEntry(c *pad.Command) *commandEntry {
	if c == nil {
		return nil
	}
	return &commandEntry{Address: c.Address, Args: c.Args}
}
