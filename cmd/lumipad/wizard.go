package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/lumipad/lumipad/internal/pkg/bridge"
	"github.com/lumipad/lumipad/internal/pkg/controller"
	"github.com/lumipad/lumipad/internal/pkg/pad"
)

// runLearnWizard asks the operator to turn recorded candidates into a pad
// behavior. An empty or invalid answer at any step aborts the learn cycle.
func runLearnWizard(b *bridge.Bridge) {
	scanner := bufio.NewScanner(os.Stdin)

	for candidates := range b.LearnRequests() {
		fmt.Println("\ncaptured messages:")
		for i, c := range candidates {
			fmt.Printf("  %d: %s\n", i, c)
		}

		index, ok := promptInt(scanner, fmt.Sprintf("message [0-%d]", len(candidates)-1))
		if !ok || index < 0 || index >= len(candidates) {
			b.Submit(controller.LearnCancelled{})
			continue
		}

		choice, ok := promptChoice(scanner)
		if !ok {
			b.Submit(controller.LearnCancelled{})
			continue
		}

		b.Submit(controller.LearnCandidateChosen{Index: index, Choice: choice})
	}
}

func promptChoice(scanner *bufio.Scanner) (controller.LearnChoice, bool) {
	var choice controller.LearnChoice

	mode, ok := prompt(scanner, "mode [selector/toggle/one_shot/push]")
	if !ok {
		return choice, false
	}
	choice.Mode = pad.Mode(mode)
	if !pad.SupportedModes[choice.Mode] {
		fmt.Printf("unsupported mode: %s\n", mode)
		return choice, false
	}

	if choice.Mode == pad.ModeSelector {
		group, ok := prompt(scanner, "group")
		if !ok || group == "" {
			return choice, false
		}
		choice.Group = pad.GroupID(group)
	}

	idle, ok := promptInt(scanner, "idle color [0-127]")
	if !ok || idle < 0 || idle > 127 {
		return choice, false
	}
	choice.IdleColor = pad.Color(idle)

	active, ok := promptInt(scanner, "active color [0-127]")
	if !ok || active < 0 || active > 127 {
		return choice, false
	}
	choice.ActiveColor = pad.Color(active)

	label, _ := prompt(scanner, "label (optional)")
	choice.Label = label

	if choice.Mode == pad.ModeToggle {
		off, ok := prompt(scanner, "off command (optional, \"/address arg...\")")
		if !ok {
			return choice, false
		}
		if off != "" {
			command, err := parseCommandLine(off)
			if err != nil {
				fmt.Printf("invalid off command: %v\n", err)
				return choice, false
			}
			choice.Off = &command
		}
	}

	return choice, true
}

func prompt(scanner *bufio.Scanner, label string) (string, bool) {
	fmt.Printf("%s: ", label)
	if !scanner.Scan() {
		return "", false
	}
	return strings.TrimSpace(scanner.Text()), true
}

func promptInt(scanner *bufio.Scanner, label string) (int, bool) {
	answer, ok := prompt(scanner, label)
	if !ok {
		return 0, false
	}
	i, err := strconv.Atoi(answer)
	if err != nil {
		fmt.Printf("not a number: %s\n", answer)
		return 0, false
	}
	return i, true
}

// parseCommandLine parses "/address arg..." with the usual argument guesses:
// int, then float, then plain string.
func parseCommandLine(s string) (pad.Command, error) {
	parts := strings.Fields(s)
	if len(parts) == 0 || !strings.HasPrefix(parts[0], "/") {
		return pad.Command{}, fmt.Errorf("address must start with \"/\"")
	}

	args := make([]interface{}, 0, len(parts)-1)
	for _, p := range parts[1:] {
		if i, err := strconv.ParseInt(p, 10, 32); err == nil {
			args = append(args, int32(i))
			continue
		}
		if f, err := strconv.ParseFloat(p, 32); err == nil {
			args = append(args, float32(f))
			continue
		}
		args = append(args, p)
	}

	return pad.NewCommand(parts[0], args...), nil
}
