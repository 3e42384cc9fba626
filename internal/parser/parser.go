// Package parser extracts structured requests from free-form model replies.
//
// A reply may carry one JSON fragment, either in a ```json fenced block or
// inline in the prose. The first fragment found is the only one considered.
// Nothing here returns an error: a reply that cannot be understood simply has
// no request in it.
package parser

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

const (
	// DefaultSkill is used when a dice request names no skill
	DefaultSkill = "charm"
	// DefaultDC is used when a dice request has no usable difficulty
	DefaultDC = 15
)

// Marker keys that make an inline object a structured fragment
const (
	keyCommand     = "command"
	keyDiceRequest = "dice_request"
)

var (
	fencedBlockRegex = regexp.MustCompile("(?i)```json\\s*\\n?([\\s\\S]*?)\\n?```")
	blankLinesRegex  = regexp.MustCompile(`\n\s*\n\s*\n`)
	markerRegex      = regexp.MustCompile(`(?i)"(?:command|dice_request)"`)
)

// ActionRequest is a game action asked for by the model
type ActionRequest struct {
	Command string `json:"command"`
	Target  string `json:"target,omitempty"`
	Amount  *int   `json:"amount,omitempty"`
	Raw     string `json:"raw"`
}

// HasTarget reports whether a target was supplied
func (a *ActionRequest) HasTarget() bool {
	return a != nil && a.Target != ""
}

// AmountOr returns the amount or fallback when absent
func (a *ActionRequest) AmountOr(fallback int) int {
	if a == nil || a.Amount == nil {
		return fallback
	}
	return *a.Amount
}

// DiceRequest asks the caller to resolve a skill check
type DiceRequest struct {
	Skill  string `json:"skill"`
	DC     int    `json:"dc"`
	Reason string `json:"reason,omitempty"`
}

// Result is everything extracted from one reply
type Result struct {
	Action  *ActionRequest
	Dice    *DiceRequest
	Display string
}

// Parse extracts the action, dice request and display text in one pass
func Parse(text string) *Result {
	frag, ok := firstFragment(text)

	res := &Result{Display: StripStructuredContent(text)}
	if ok {
		res.Action = actionFrom(frag)
		res.Dice = diceFrom(frag)
	}
	return res
}

// ExtractAction returns the action request in text, or nil
func ExtractAction(text string) *ActionRequest {
	frag, ok := firstFragment(text)
	if !ok {
		return nil
	}
	return actionFrom(frag)
}

// ExtractDice returns the dice request in text, or nil
func ExtractDice(text string) *DiceRequest {
	frag, ok := firstFragment(text)
	if !ok {
		return nil
	}
	return diceFrom(frag)
}

// StripStructuredContent removes every fenced block and inline fragment and
// collapses the blank lines left behind
func StripStructuredContent(text string) string {
	if text == "" {
		return ""
	}

	cleaned := fencedBlockRegex.ReplaceAllString(text, "")

	spans := inlineSpans(cleaned)
	if len(spans) > 0 {
		var b strings.Builder
		prev := 0
		for _, sp := range spans {
			b.WriteString(cleaned[prev:sp.start])
			prev = sp.end
		}
		b.WriteString(cleaned[prev:])
		cleaned = b.String()
	}

	cleaned = blankLinesRegex.ReplaceAllString(cleaned, "\n\n")
	return strings.TrimSpace(cleaned)
}

// ExtractAll returns every fragment in text, fenced blocks first
func ExtractAll(text string) []string {
	var out []string
	for _, m := range fencedBlockRegex.FindAllStringSubmatch(text, -1) {
		if body := strings.TrimSpace(m[1]); body != "" {
			out = append(out, body)
		}
	}

	remaining := fencedBlockRegex.ReplaceAllString(text, "")
	for _, sp := range inlineSpans(remaining) {
		out = append(out, remaining[sp.start:sp.end])
	}
	return out
}

// firstFragment prefers a fenced block and only then looks inline
func firstFragment(text string) (string, bool) {
	if text == "" {
		return "", false
	}

	if m := fencedBlockRegex.FindStringSubmatch(text); m != nil {
		if body := strings.TrimSpace(m[1]); body != "" {
			return body, true
		}
	}

	if spans := inlineSpans(text); len(spans) > 0 {
		return text[spans[0].start:spans[0].end], true
	}
	return "", false
}

func actionFrom(frag string) *ActionRequest {
	if !gjson.Valid(frag) {
		slog.Debug("Discarding malformed fragment", "fragment", frag)
		return nil
	}

	cmd := gjson.Get(frag, keyCommand)
	if !cmd.Exists() || cmd.Type == gjson.Null {
		return nil
	}

	req := &ActionRequest{
		Command: strings.ToLower(strings.TrimSpace(cmd.String())),
		Raw:     frag,
	}

	params := gjson.Get(frag, "params")
	if params.IsObject() {
		if target := params.Get("target"); target.Exists() && target.Type != gjson.Null {
			req.Target = strings.TrimSpace(target.String())
		}
		if amount, ok := intValue(params.Get("amount")); ok {
			req.Amount = &amount
		}
	}

	slog.Debug("Parsed action request",
		"command", req.Command,
		"target", req.Target,
		"has_amount", req.Amount != nil)
	return req
}

func diceFrom(frag string) *DiceRequest {
	if !gjson.Valid(frag) {
		return nil
	}
	if !gjson.Get(frag, keyDiceRequest).Bool() {
		return nil
	}

	req := &DiceRequest{
		Skill:  DefaultSkill,
		DC:     DefaultDC,
		Reason: gjson.Get(frag, "reason").String(),
	}
	if skill := strings.ToLower(strings.TrimSpace(gjson.Get(frag, "skill").String())); skill != "" {
		req.Skill = skill
	}
	if dc, ok := intValue(gjson.Get(frag, "dc")); ok && dc > 0 {
		req.DC = dc
	}

	slog.Debug("Parsed dice request", "skill", req.Skill, "dc", req.DC)
	return req
}

// intValue accepts JSON numbers and numeric strings
func intValue(r gjson.Result) (int, bool) {
	switch r.Type {
	case gjson.Number:
		return int(r.Int()), true
	case gjson.String:
		n, err := strconv.Atoi(strings.TrimSpace(r.Str))
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}
