package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumipad/lumipad/internal/pkg/pad"
)

func testMapping() Mapping {
	action := pad.NewCommand("/scenes/intro")
	on := pad.NewCommand("/controls/blur", int32(1))
	off := pad.NewCommand("/controls/blur", int32(0))
	hold := pad.NewCommand("/controls/hold", float32(0.25), "soft")

	return Mapping{
		Groups: pad.Groups{"scenes": "", "presets": "scenes"},
		Pads: map[pad.ButtonID]pad.Behavior{
			{X: 0, Y: 0}: {
				Mode:        pad.ModeSelector,
				Group:       "scenes",
				IdleColor:   5,
				ActiveColor: 21,
				Label:       "intro",
				Action:      &action,
			},
			{X: 2, Y: 1}: {
				Mode:        pad.ModeToggle,
				IdleColor:   7,
				ActiveColor: 17,
				On:          &on,
				Off:         &off,
			},
			{X: 8, Y: 7}: {
				Mode:        pad.ModePush,
				IdleColor:   43,
				ActiveColor: 47,
				Action:      &hold,
			},
		},
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	for _, ext := range []string{".toml", ".yaml"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "mapping"+ext)
			original := testMapping()

			require.NoError(t, Save(path, original))

			loaded, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, original, loaded)
		})
	}
}

func TestSaveReplacesAtomically(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mapping.toml")

	require.NoError(t, Save(path, testMapping()))
	require.NoError(t, Save(path, testMapping()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "mapping.toml", entries[0].Name())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestLoadUnsupportedExtension(t *testing.T) {
	_, err := Load("mapping.json")
	assert.Error(t, err)
}
