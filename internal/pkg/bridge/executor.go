package bridge

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/lumipad/lumipad/internal/pkg/controller"
	"github.com/lumipad/lumipad/internal/pkg/controller/config"
	"github.com/lumipad/lumipad/internal/pkg/logg"
	"github.com/lumipad/lumipad/internal/pkg/logger"
	"github.com/lumipad/lumipad/internal/pkg/pad"
)

var log = logger.GetLogger()

// Sender transmits one outbound command.
type Sender interface {
	Send(command pad.Command) error
}

// Leds sets one pad LED.
type Leds interface {
	SetLed(button pad.ButtonID, color pad.Color, blink bool) error
}

// Store persists the complete pad mapping.
type Store interface {
	Save(mapping config.Mapping) error
}

// Executor performs the effects decided by the state machine, in order. A
// failing effect is logged and skipped, it never stops the ones after it.
type Executor struct {
	sender Sender
	leds   Leds
	store  Store
}

func NewExecutor(sender Sender, leds Leds, store Store) *Executor {
	return &Executor{sender: sender, leds: leds, store: store}
}

func (e *Executor) Execute(state controller.State, effects []controller.Effect) {
	for _, effect := range effects {
		switch ef := effect.(type) {
		case controller.SendCommand:
			if err := e.sender.Send(ef.Command); err != nil {
				log.Info(fmt.Sprintf("sending %s failed: %v", ef.Command, err), logger.Warning)
			}
		case controller.SetLed:
			if err := e.leds.SetLed(ef.Button, ef.Color, ef.Blink); err != nil {
				log.Info(fmt.Sprintf("setting led %s failed: %v", ef.Button, err), logger.Warning)
			}
		case controller.PersistConfig:
			mapping := config.Mapping{Pads: state.Pads, Groups: state.Groups}
			if err := e.store.Save(mapping); err != nil {
				// losing a just-learned mapping on restart is the worst
				// silent failure this tool can have
				log.Info(fmt.Sprintf("saving pad mapping failed: %v", err), logger.Error)
			}
		case controller.Log:
			log.Info(ef.Entry.Message, levelField(ef.Entry.Level))
		}
	}
}

func levelField(level logg.Level) zap.Field {
	switch level {
	case logg.LevelError:
		return logger.Error
	case logg.LevelWarning:
		return logger.Warning
	case logg.LevelDebug:
		return logger.Debug
	default:
		return logger.Info
	}
}
