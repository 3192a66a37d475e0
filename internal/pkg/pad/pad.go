// Package pad holds the value types describing a grid pad: its coordinate,
// its configured behavior and the command it fires. Everything here is plain
// data with construction-time validation, no I/O.
package pad

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// Grid spans columns 0-7 plus the side "scene" column at x=8.
	MaxX = 8
	MaxY = 7
)

const (
	ModeSelector Mode = "selector"
	ModeToggle   Mode = "toggle"
	ModeOneShot  Mode = "one_shot"
	ModePush     Mode = "push"
)

var SupportedModes = map[Mode]bool{
	ModeSelector: true,
	ModeToggle:   true,
	ModeOneShot:  true,
	ModePush:     true,
}

type Mode string

// GroupID names a radio-button group ("scenes", "presets", ...).
type GroupID string

// Groups maps a group to its parent group, "" meaning top-level.
// When the active pad of a parent group changes, every (transitive) child
// group loses its active selection.
type Groups map[GroupID]GroupID

// Children returns the groups whose parent is g.
func (gs Groups) Children(g GroupID) []GroupID {
	var children []GroupID
	for child, parent := range gs {
		if parent == g && parent != "" {
			children = append(children, child)
		}
	}
	return children
}

// Color is a palette index of the controller's LED palette (0 = off).
type Color uint8

const ColorOff Color = 0

// ButtonID is a grid coordinate, x in 0-8 (8 is the side column), y in 0-7.
type ButtonID struct {
	X, Y int
}

func NewButtonID(x, y int) (ButtonID, error) {
	if x < 0 || x > MaxX {
		return ButtonID{}, fmt.Errorf("button x outside of 0-%d range: %d", MaxX, x)
	}
	if y < 0 || y > MaxY {
		return ButtonID{}, fmt.Errorf("button y outside of 0-%d range: %d", MaxY, y)
	}
	return ButtonID{X: x, Y: y}, nil
}

func (b ButtonID) String() string {
	return fmt.Sprintf("%d,%d", b.X, b.Y)
}

// ParseButtonID parses the "x,y" form used as a map key in the persisted
// configuration.
func ParseButtonID(s string) (ButtonID, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return ButtonID{}, fmt.Errorf("button key \"%s\": expected \"x,y\"", s)
	}
	x, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return ButtonID{}, fmt.Errorf("button key \"%s\": failed to parse x: %w", s, err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return ButtonID{}, fmt.Errorf("button key \"%s\": failed to parse y: %w", s, err)
	}
	return NewButtonID(x, y)
}

// Command is an outbound protocol message: a hierarchical address plus
// positional arguments (int32, float32 or string after normalization).
type Command struct {
	Address string
	Args    []interface{}
}

func NewCommand(address string, args ...interface{}) Command {
	normalized := make([]interface{}, len(args))
	for i, a := range args {
		normalized[i] = NormalizeArg(a)
	}
	return Command{Address: address, Args: normalized}
}

// NormalizeArg collapses the integer and float widths produced by the various
// decoders (TOML int64, YAML int, OSC int32...) into the wire types, so that
// equality and deduplication behave the same no matter where a command came
// from.
func NormalizeArg(a interface{}) interface{} {
	switch v := a.(type) {
	case int:
		return int32(v)
	case int8:
		return int32(v)
	case int16:
		return int32(v)
	case int64:
		return int32(v)
	case uint8:
		return int32(v)
	case uint16:
		return int32(v)
	case uint32:
		return int32(v)
	case uint64:
		return int32(v)
	case float64:
		return float32(v)
	default:
		return v
	}
}

// Key returns a string identity used for candidate deduplication: two
// commands with the same address and the same argument values collapse.
func (c Command) Key() string {
	var sb strings.Builder
	sb.WriteString(c.Address)
	for _, a := range c.Args {
		fmt.Fprintf(&sb, "|%T:%v", a, a)
	}
	return sb.String()
}

func (c Command) Equal(other Command) bool {
	return c.Key() == other.Key()
}

func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Address
	}
	var parts = make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = fmt.Sprintf("%v", a)
	}
	return fmt.Sprintf("%s %s", c.Address, strings.Join(parts, " "))
}

// WithArg returns a copy of the command with one extra trailing argument,
// used by push pads to append the pressed/released value.
func (c Command) WithArg(a interface{}) Command {
	args := make([]interface{}, 0, len(c.Args)+1)
	args = append(args, c.Args...)
	args = append(args, NormalizeArg(a))
	return Command{Address: c.Address, Args: args}
}

// ValidationError reports a mode-specific requirement violated by an
// attempted Behavior, naming the missing field.
type ValidationError struct {
	Mode  Mode
	Field string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s pad requires %s", e.Mode, e.Field)
}

// Behavior is the configured behavior of one pad. Construct through
// NewBehavior, which enforces the mode-specific requirements; a Behavior that
// violates them never enters the controller state.
type Behavior struct {
	Mode        Mode
	Group       GroupID // required for selector, optional otherwise
	IdleColor   Color
	ActiveColor Color
	Label       string

	// selector, one_shot and push fire Action; toggle alternates On/Off.
	Action *Command
	On     *Command
	Off    *Command
}

func NewBehavior(b Behavior) (Behavior, error) {
	if !SupportedModes[b.Mode] {
		return Behavior{}, fmt.Errorf("unsupported pad mode: %s", b.Mode)
	}

	switch b.Mode {
	case ModeSelector:
		if b.Group == "" {
			return Behavior{}, ValidationError{Mode: b.Mode, Field: "group"}
		}
		if b.Action == nil {
			return Behavior{}, ValidationError{Mode: b.Mode, Field: "action command"}
		}
	case ModeToggle:
		if b.On == nil {
			return Behavior{}, ValidationError{Mode: b.Mode, Field: "on command"}
		}
	case ModeOneShot, ModePush:
		if b.Action == nil {
			return Behavior{}, ValidationError{Mode: b.Mode, Field: "action command"}
		}
	}

	return b, nil
}
