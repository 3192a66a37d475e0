package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/logrusorgru/aurora"
	gomidi "gitlab.com/gomidi/midi/v2"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // register MIDI driver

	"github.com/lumipad/lumipad/internal/pkg/bridge"
	"github.com/lumipad/lumipad/internal/pkg/controller"
	"github.com/lumipad/lumipad/internal/pkg/controller/config"
	"github.com/lumipad/lumipad/internal/pkg/launchpad"
	"github.com/lumipad/lumipad/internal/pkg/logger"
	"github.com/lumipad/lumipad/internal/pkg/lumipad"
	"github.com/lumipad/lumipad/internal/pkg/osc"
)

var log = logger.GetLogger()

var (
	force256 = flag.Bool("256", false, "force 256 color mode")
	nocolor  = flag.Bool("nocolor", false, "disable color")
	silent   = flag.Bool("silent", false, "no output logging, best performance")
	logLevel = flag.Int("loglevel", 2,
		"logging level, each level enables additional information class (0-2, default: 2)\n"+
			"\navailable options:\n"+
			"0: general info (device and connection status)\n"+
			"1: action events (pad presses, commands sent)\n"+
			"2: learn mode events",
	)
	midiDevice = flag.String("mididevice", "", "MIDI port name override, substring match")
)

func init() {
	flag.Parse()
	*logLevel += 2
}

func handleSigs(wg *sync.WaitGroup, sigs <-chan os.Signal, cancel func()) {
	defer wg.Done()
	var counter int
	for sig := range sigs {
		if counter > 0 {
			fmt.Println("Dirty exit")
			os.Exit(1)
		}
		log.Info(fmt.Sprintf("signal received: %v", sig), logger.Debug)
		cancel()
		counter++
	}
}

// mappingStore persists learn results into the mapping file.
type mappingStore struct {
	path string
}

func (s mappingStore) Save(m config.Mapping) error {
	return config.Save(s.path, m)
}

func watchMapping(ctx context.Context, wg *sync.WaitGroup, b *bridge.Bridge) {
	defer wg.Done()
	for range config.DetectMappingChanges(ctx, mappingPath) {
		mapping, err := config.Load(mappingPath)
		if err != nil {
			log.Info(fmt.Sprintf("mapping reload failed: %v", err), logger.Warning)
			continue
		}
		b.Submit(controller.ConfigReloaded{Pads: mapping.Pads, Groups: mapping.Groups})
	}
}

func renderLogs() {
	if *silent {
		for range logger.Messages {
		}
		return
	}

	au := aurora.NewAurora(!*nocolor)
	for data := range logger.Messages {
		msg, err := unpack(data)
		if err != nil {
			fmt.Printf("%s\n", string(data))
			continue
		}
		m := prepareString(msg, au, *logLevel)
		if m != "" {
			fmt.Printf("%s\n", m)
		}
	}
}

func main() {
	if *force256 {
		os.Setenv("TERM", "xterm-256color")
	}

	go renderLogs()

	if err := createConfigDirectoryIfNeeded(); err != nil {
		log.Info(fmt.Sprintf("config directory preparation failed: %v", err), logger.Error)
		os.Exit(1)
	}

	cfg, err := lumipad.LoadConfig(configPath)
	if err != nil {
		log.Info(fmt.Sprintf("loading %s failed: %v", configPath, err), logger.Error)
		os.Exit(1)
	}
	log.Info(fmt.Sprintf("lumipad config: %+v", cfg), logger.Debug)

	mapping, err := config.Load(mappingPath)
	if err != nil {
		log.Info(fmt.Sprintf("loading pad mapping failed: %v", err), logger.Error)
		os.Exit(1)
	}
	log.Info(fmt.Sprintf("pad mapping loaded: %d pads", len(mapping.Pads)), logger.Info)

	device := cfg.MIDI.Device
	if *midiDevice != "" {
		device = *midiDevice
	}
	defer gomidi.CloseDriver()

	in, out, err := launchpad.FindPorts(device)
	if err != nil {
		log.Info(err.Error(), logger.Error)
		os.Exit(1)
	}

	lp, err := launchpad.New(in, out)
	if err != nil {
		log.Info(fmt.Sprintf("opening MIDI device failed: %v", err), logger.Error)
		os.Exit(1)
	}
	log.Info(fmt.Sprintf("MIDI device attached: %s", out), logger.Info)

	var sigs = make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	ctx, cancel := context.WithCancel(context.Background())

	wg := sync.WaitGroup{}
	wg.Add(1)
	go handleSigs(&wg, sigs, cancel)

	gateway := osc.New(osc.Config{
		SendHost:    cfg.OSC.SendHost,
		SendPort:    cfg.OSC.SendPort,
		ListenPort:  cfg.OSC.ListenPort,
		BeatAddress: cfg.OSC.BeatAddress,
		BPMAddress:  cfg.OSC.BPMAddress,
	})
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := gateway.Run(ctx); err != nil {
			log.Info(fmt.Sprintf("OSC server failed: %v", err), logger.Error)
			cancel()
		}
	}()

	params := controller.DefaultParams()
	params.RecordWindow = cfg.Lumipad.RecordWindow
	params.ControllablePrefixes = cfg.OSC.Prefixes

	state := controller.NewState(mapping.Pads, mapping.Groups, params)
	executor := bridge.NewExecutor(gateway, lp, mappingStore{path: mappingPath})
	b := bridge.New(state, executor, cfg.Lumipad.LearnButton, cfg.Lumipad.TickRate)

	wg.Add(1)
	go watchMapping(ctx, &wg, b)
	go runLearnWizard(b)

	b.Run(ctx, gateway.Events(), lp.Events())

	if err := lp.Close(); err != nil {
		log.Info(fmt.Sprintf("closing MIDI device failed: %v", err), logger.Warning)
	}

	close(sigs)
	wg.Wait()
	// closing logger can be safely invoked only when all goroutines that may
	// emit logs are done
	close(logger.Messages)
}
