package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/KirkDiggler/rpg-dialogue/internal/actions"
	"github.com/KirkDiggler/rpg-dialogue/internal/engine/d20"
	"github.com/KirkDiggler/rpg-dialogue/internal/parser"
)

// Styles used by the chat display
var (
	styleSpeaker = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214"))

	styleSpeech = lipgloss.NewStyle().
			Foreground(lipgloss.Color("228"))

	styleSuccess = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("34"))

	styleFailure = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))

	styleDice = lipgloss.NewStyle().
			Foreground(lipgloss.Color("117"))

	styleSystem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	stylePrompt = lipgloss.NewStyle().
			Foreground(lipgloss.Color("34"))
)

// display renders dialogue output for a terminal
type display struct {
	out io.Writer
}

func newDisplay(out io.Writer) *display {
	return &display{out: out}
}

func (d *display) prompt() {
	fmt.Fprint(d.out, stylePrompt.Render("> "))
}

func (d *display) system(format string, args ...any) {
	fmt.Fprintln(d.out, styleSystem.Render("["+fmt.Sprintf(format, args...)+"]"))
}

func (d *display) speech(speaker, text string, fallback bool) {
	if text == "" {
		return
	}
	fmt.Fprintf(d.out, "%s %s\n", styleSpeaker.Render(speaker+":"), styleSpeech.Render(text))
	if fallback {
		d.system("no backend answered")
	}
}

func (d *display) outcome(o *actions.Outcome) {
	if o == nil {
		return
	}
	if o.Success {
		fmt.Fprintln(d.out, styleSuccess.Render("SUCCESS: "+o.Text()))
		return
	}
	fmt.Fprintln(d.out, styleFailure.Render("FAILED: "+o.Text()))
}

func (d *display) diceRequest(req *parser.DiceRequest) {
	if req == nil {
		return
	}
	line := fmt.Sprintf("Roll %s against DC %d", req.Skill, req.DC)
	if req.Reason != "" {
		line += " (" + req.Reason + ")"
	}
	fmt.Fprintln(d.out, styleDice.Render(line+". Press enter to roll."))
}

func (d *display) roll(o *d20.Outcome) {
	if o == nil {
		return
	}
	line := fmt.Sprintf("%s: %s - %s", o.Skill, o.Summary(), o.Label())
	if o.Success {
		fmt.Fprintln(d.out, styleSuccess.Render(line))
		return
	}
	fmt.Fprintln(d.out, styleFailure.Render(line))
}
