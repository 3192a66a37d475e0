// Package lumipad holds the application-level configuration.
package lumipad

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-ini/ini"

	"github.com/lumipad/lumipad/internal/pkg/pad"
)

type Config struct {
	Lumipad struct {
		TickRate     time.Duration
		RecordWindow time.Duration
		LearnButton  pad.ButtonID
	}

	OSC struct {
		SendHost    string
		SendPort    int
		ListenPort  int
		BeatAddress string
		BPMAddress  string
		Prefixes    []string
	}

	MIDI struct {
		Device string
	}
}

func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config failed: %w", err)
	}

	cfg, err := ini.Load(data)
	if err != nil {
		return Config{}, fmt.Errorf("parsing config failed: %w", err)
	}

	var c Config

	// [lumipad]
	app, err := cfg.GetSection("lumipad")
	if err != nil {
		return Config{}, err
	}
	tickRate, err := sectionInt(app, "tick_rate")
	if err != nil {
		return Config{}, err
	}
	if tickRate <= 0 {
		return Config{}, fmt.Errorf("tick_rate must be positive: %d", tickRate)
	}
	c.Lumipad.TickRate = time.Second / time.Duration(tickRate)

	window, err := sectionInt(app, "record_window")
	if err != nil {
		return Config{}, err
	}
	if window <= 0 {
		return Config{}, fmt.Errorf("record_window must be positive: %d", window)
	}
	c.Lumipad.RecordWindow = time.Duration(window) * time.Second

	learnButton, err := app.GetKey("learn_button")
	if err != nil {
		return Config{}, err
	}
	c.Lumipad.LearnButton, err = pad.ParseButtonID(learnButton.Value())
	if err != nil {
		return Config{}, fmt.Errorf("learn_button: %w", err)
	}

	// [osc]
	osc, err := cfg.GetSection("osc")
	if err != nil {
		return Config{}, err
	}
	sendHost, err := osc.GetKey("send_host")
	if err != nil {
		return Config{}, err
	}
	c.OSC.SendHost = sendHost.Value()

	c.OSC.SendPort, err = sectionInt(osc, "send_port")
	if err != nil {
		return Config{}, err
	}
	c.OSC.ListenPort, err = sectionInt(osc, "listen_port")
	if err != nil {
		return Config{}, err
	}

	beat, err := osc.GetKey("beat_address")
	if err != nil {
		return Config{}, err
	}
	c.OSC.BeatAddress = beat.Value()

	bpm, err := osc.GetKey("bpm_address")
	if err != nil {
		return Config{}, err
	}
	c.OSC.BPMAddress = bpm.Value()

	prefixes, err := osc.GetKey("controllable_prefixes")
	if err != nil {
		return Config{}, err
	}
	for _, p := range strings.Split(prefixes.Value(), ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if !strings.HasPrefix(p, "/") {
			return Config{}, fmt.Errorf("controllable prefix must start with \"/\": \"%s\"", p)
		}
		c.OSC.Prefixes = append(c.OSC.Prefixes, p)
	}
	if len(c.OSC.Prefixes) == 0 {
		return Config{}, fmt.Errorf("controllable_prefixes must name at least one prefix")
	}

	// [midi]
	midi, err := cfg.GetSection("midi")
	if err != nil {
		return Config{}, err
	}
	device, err := midi.GetKey("device")
	if err != nil {
		return Config{}, err
	}
	c.MIDI.Device = device.Value()

	return c, nil
}

func sectionInt(section *ini.Section, name string) (int, error) {
	key, err := section.GetKey(name)
	if err != nil {
		return 0, err
	}
	i, err := key.Int()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	return i, nil
}
