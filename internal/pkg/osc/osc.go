// Package osc connects the controller to the visual application: commands go
// out as OSC messages, inbound messages come back as controller events.
package osc

import (
	"context"
	"fmt"
	"net"
	"time"

	goosc "github.com/hypebeast/go-osc/osc"

	"github.com/lumipad/lumipad/internal/pkg/controller"
	"github.com/lumipad/lumipad/internal/pkg/logger"
	"github.com/lumipad/lumipad/internal/pkg/pad"
)

var log = logger.GetLogger()

type Config struct {
	SendHost   string
	SendPort   int
	ListenPort int

	// BeatAddress and BPMAddress carry the beat telemetry of the remote
	// application and never reach the controller as plain messages.
	BeatAddress string
	BPMAddress  string
}

// Gateway owns one send client and one listen server.
type Gateway struct {
	config Config
	client *goosc.Client
	events chan controller.Event
}

func New(config Config) *Gateway {
	return &Gateway{
		config: config,
		client: goosc.NewClient(config.SendHost, config.SendPort),
		events: make(chan controller.Event, 32),
	}
}

// Send transmits one command, mapping the normalized argument types onto the
// OSC type tags.
func (g *Gateway) Send(command pad.Command) error {
	msg := goosc.NewMessage(command.Address)
	for _, a := range command.Args {
		msg.Append(a)
	}
	return g.client.Send(msg)
}

// Events returns the inbound event stream.
func (g *Gateway) Events() <-chan controller.Event {
	return g.events
}

// Run serves the listen port until the context is cancelled.
func (g *Gateway) Run(ctx context.Context) error {
	conn, err := net.ListenPacket("udp", fmt.Sprintf(":%d", g.config.ListenPort))
	if err != nil {
		return fmt.Errorf("opening listen port failed: %w", err)
	}

	go func() {
		<-ctx.Done()
		if err := conn.Close(); err != nil {
			log.Info(fmt.Sprintf("closing listen port failed: %v", err), logger.Warning)
		}
	}()

	server := &goosc.Server{Addr: conn.LocalAddr().String(), Dispatcher: g}
	err = server.Serve(conn)
	if ctx.Err() != nil {
		return nil
	}
	return err
}

// Dispatch implements the go-osc dispatcher as a catch-all: every message is
// forwarded, bundles are unpacked recursively.
func (g *Gateway) Dispatch(packet goosc.Packet) {
	g.dispatch(packet, time.Now())
}

func (g *Gateway) dispatch(packet goosc.Packet, now time.Time) {
	switch p := packet.(type) {
	case *goosc.Message:
		if ev := g.decode(p, now); ev != nil {
			g.emit(ev)
		}
	case *goosc.Bundle:
		for _, msg := range p.Messages {
			g.dispatch(msg, now)
		}
		for _, bundle := range p.Bundles {
			g.dispatch(bundle, now)
		}
	}
}

func (g *Gateway) emit(ev controller.Event) {
	select {
	case g.events <- ev:
	default:
		log.Info("inbound event dropped, queue full", logger.Warning)
	}
}

// decode turns one OSC message into a controller event. Beat telemetry maps
// to the dedicated events, everything else passes through as a message.
func (g *Gateway) decode(msg *goosc.Message, now time.Time) controller.Event {
	switch msg.Address {
	case g.config.BeatAddress:
		return controller.BeatPulse{At: now}
	case g.config.BPMAddress:
		bpm, ok := numericArg(msg.Arguments)
		if !ok {
			log.Info(fmt.Sprintf("tempo message without numeric argument: %v", msg), logger.Warning)
			return nil
		}
		return controller.TempoChanged{BPM: bpm}
	}
	return controller.MessageReceived{
		Message: pad.NewCommand(msg.Address, msg.Arguments...),
		At:      now,
	}
}

func numericArg(args []interface{}) (float64, bool) {
	if len(args) == 0 {
		return 0, false
	}
	switch v := args[0].(type) {
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	default:
		return 0, false
	}
}
