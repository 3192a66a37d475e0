package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumipad/lumipad/internal/pkg/pad"
)

const tomlMapping = `
[groups]
scenes = ""
presets = "scenes"

[pads."0,0"]
mode = "selector"
group = "scenes"
idle_color = 5
active_color = 21
label = "intro"
action = { address = "/scenes/intro" }

[pads."2,0"]
mode = "toggle"
idle_color = "#ff0000"
active_color = "#00ff00"
on = { address = "/controls/blur", args = [1] }
off = { address = "/controls/blur", args = [0] }

[pads."4,0"]
mode = "one_shot"
idle_color = 5
active_color = 21
action = { address = "/controls/flash", args = [0.5, "hard"] }
`

func TestParseTOML(t *testing.T) {
	m, err := Parse([]byte(tomlMapping), "toml")
	require.NoError(t, err)

	assert.Equal(t, pad.Groups{"scenes": "", "presets": "scenes"}, m.Groups)
	require.Len(t, m.Pads, 3)

	selector := m.Pads[pad.ButtonID{X: 0, Y: 0}]
	assert.Equal(t, pad.ModeSelector, selector.Mode)
	assert.Equal(t, pad.GroupID("scenes"), selector.Group)
	assert.Equal(t, pad.Color(5), selector.IdleColor)
	assert.Equal(t, pad.Color(21), selector.ActiveColor)
	assert.Equal(t, "intro", selector.Label)
	require.NotNil(t, selector.Action)
	assert.Equal(t, pad.NewCommand("/scenes/intro"), *selector.Action)

	toggle := m.Pads[pad.ButtonID{X: 2, Y: 0}]
	assert.Equal(t, pad.ModeToggle, toggle.Mode)
	assert.Equal(t, pad.Color(5), toggle.IdleColor)   // #ff0000 -> red
	assert.Equal(t, pad.Color(21), toggle.ActiveColor) // #00ff00 -> green
	require.NotNil(t, toggle.On)
	require.NotNil(t, toggle.Off)
	assert.Equal(t, pad.NewCommand("/controls/blur", int32(1)), *toggle.On)
	assert.Equal(t, pad.NewCommand("/controls/blur", int32(0)), *toggle.Off)

	oneShot := m.Pads[pad.ButtonID{X: 4, Y: 0}]
	require.NotNil(t, oneShot.Action)
	assert.Equal(t, pad.NewCommand("/controls/flash", float32(0.5), "hard"), *oneShot.Action)
}

const yamlMapping = `
groups:
  scenes: ""
pads:
  "1,3":
    mode: push
    idle_color: 5
    active_color: 21
    action:
      address: /controls/hold
`

func TestParseYAML(t *testing.T) {
	m, err := Parse([]byte(yamlMapping), "yaml")
	require.NoError(t, err)

	require.Len(t, m.Pads, 1)
	push := m.Pads[pad.ButtonID{X: 1, Y: 3}]
	assert.Equal(t, pad.ModePush, push.Mode)
	require.NotNil(t, push.Action)
	assert.Equal(t, pad.NewCommand("/controls/hold"), *push.Action)
}

func TestParseFailures(t *testing.T) {
	for name, content := range map[string]string{
		"unknown field": `
[pads."0,0"]
mode = "one_shot"
idle_color = 5
active_color = 21
bogus = true
action = { address = "/a" }
`,
		"bad button key": `
[pads."9,0"]
mode = "one_shot"
idle_color = 5
active_color = 21
action = { address = "/a" }
`,
		"selector without group": `
[pads."0,0"]
mode = "selector"
idle_color = 5
active_color = 21
action = { address = "/a" }
`,
		"toggle without on": `
[pads."0,0"]
mode = "toggle"
idle_color = 5
active_color = 21
`,
		"unknown mode": `
[pads."0,0"]
mode = "latch"
idle_color = 5
active_color = 21
action = { address = "/a" }
`,
		"unknown group": `
[pads."0,0"]
mode = "selector"
group = "scenes"
idle_color = 5
active_color = 21
action = { address = "/scenes/intro" }
`,
		"unknown parent group": `
[groups]
presets = "scenes"
`,
		"color out of range": `
[pads."0,0"]
mode = "one_shot"
idle_color = 200
active_color = 21
action = { address = "/a" }
`,
		"address without slash": `
[pads."0,0"]
mode = "one_shot"
idle_color = 5
active_color = 21
action = { address = "scenes/intro" }
`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(content), "toml")
			assert.Error(t, err)
		})
	}
}

func TestParseUnsupportedFormat(t *testing.T) {
	_, err := Parse([]byte(""), "json")
	assert.Error(t, err)
}
