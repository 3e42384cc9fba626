// Package prompt assembles the generation request for one dialogue turn
package prompt

import (
	"fmt"
	"strings"

	"github.com/KirkDiggler/rpg-dialogue/internal/engine/d20"
	"github.com/KirkDiggler/rpg-dialogue/internal/entities"
	"github.com/KirkDiggler/rpg-dialogue/internal/llm"
	"github.com/KirkDiggler/rpg-dialogue/internal/services/charactersheet"
)

// Command is an action the NPC may request
type Command struct {
	Name        string
	Description string
}

// paramHints are the params each command expects in its JSON block
var paramHints = map[string]string{
	"patrol":          `"params": {"target": "settlement_name"}`,
	"attack":          `"params": {"target": "enemy_name"}`,
	"siege":           `"params": {"target": "settlement_name"}`,
	"change_relation": `"params": {"amount": N}`,
}

// Input is everything known about the turn being built
type Input struct {
	Sheet        *charactersheet.Sheet
	WorldContext []string
	Commands     []Command
	Memories     []*entities.Memory
	History      []llm.Message
	Utterance    string

	// Dice is set when the turn follows a resolved skill check
	Dice *d20.Outcome

	// MaxHistory and MaxMemories cap what is carried; zero carries none
	MaxHistory  int
	MaxMemories int
}

// Build returns a request with default sampling parameters. History is
// trimmed to the newest MaxHistory turns and the utterance is appended last.
func Build(in *Input) *llm.Request {
	history := in.History
	if len(history) > in.MaxHistory {
		history = history[len(history)-max(in.MaxHistory, 0):]
	}

	messages := make([]llm.Message, 0, len(history)+1)
	messages = append(messages, history...)
	if u := strings.TrimSpace(in.Utterance); u != "" {
		messages = append(messages, llm.Message{Role: llm.RoleUser, Content: u})
	}

	req := llm.NewRequest(System(in), messages...)
	if in.Sheet != nil {
		req.NPCID = in.Sheet.NPCID
	}
	if in.Dice != nil {
		req.Kind = "dice_followup"
	}
	return req
}

// System renders the system prompt
func System(in *Input) string {
	var b strings.Builder

	writeIdentity(&b, in.Sheet)
	writeDiplomacy(&b, in.Sheet)
	writeStyle(&b)

	if len(in.WorldContext) > 0 {
		section(&b, "WORLD CONTEXT")
		for _, line := range in.WorldContext {
			fmt.Fprintf(&b, "- %s\n", line)
		}
	}

	if len(in.Commands) > 0 {
		writeCommands(&b, in.Commands)
		writeDiceInstructions(&b)
	}

	writeMemories(&b, in.Memories, in.MaxMemories)

	if in.Dice != nil {
		writeDiceResult(&b, in.Dice)
	}

	return strings.TrimRight(b.String(), "\n")
}

func section(b *strings.Builder, title string) {
	if b.Len() > 0 {
		b.WriteString("\n")
	}
	fmt.Fprintf(b, "=== %s ===\n", title)
}

func orDefault(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}

func writeIdentity(b *strings.Builder, sheet *charactersheet.Sheet) {
	if sheet == nil {
		section(b, "WARNING: No character context provided")
		return
	}

	name := orDefault(sheet.Name, "Unknown")
	clan := orDefault(sheet.Clan, "no clan")
	faction := orDefault(sheet.Faction, "no kingdom")

	section(b, "IDENTITY")
	fmt.Fprintf(b, "You are roleplaying as: %s\n", name)
	fmt.Fprintf(b, "Your clan: %s\n", clan)
	fmt.Fprintf(b, "Your kingdom: %s\n", faction)
	fmt.Fprintf(b, "Your culture: %s\n", orDefault(sheet.Culture, "unknown"))
	b.WriteString("\nRULES:\n")
	fmt.Fprintf(b, "- You ARE %s. No other name.\n", name)
	fmt.Fprintf(b, "- Your clan IS %s. Do not invent other clan names.\n", clan)
	fmt.Fprintf(b, "- Your kingdom IS %s. Do not invent other kingdoms.\n", faction)
	b.WriteString("- Do NOT use placeholders like {{NAME}}.\n")

	section(b, "CHARACTER SHEET: "+name)
	if sheet.Age > 0 {
		fmt.Fprintf(b, "Age: %d\n", sheet.Age)
	}
	if sheet.Gender != "" {
		fmt.Fprintf(b, "Gender: %s\n", sheet.Gender)
	}
	if sheet.Role != "" {
		fmt.Fprintf(b, "Role: %s\n", sheet.Role)
	}
	fmt.Fprintf(b, "Current Location: %s\n", orDefault(sheet.Location, "traveling"))
	if sheet.PartySize > 0 {
		fmt.Fprintf(b, "Party Size: %d troops\n", sheet.PartySize)
	}
	if sheet.GameDay > 0 {
		fmt.Fprintf(b, "Day: %d\n", sheet.GameDay)
	}

	section(b, "PERSONALITY TRAITS")
	traits := sheet.Traits
	if len(traits) == 0 {
		traits = []string{charactersheet.BalancedPersonality}
	}
	b.WriteString(strings.Join(traits, "\n"))
	b.WriteString("\n")

	section(b, "RELATIONSHIP WITH PLAYER")
	fmt.Fprintf(b, "Player name: %s\n", orDefault(sheet.PlayerName, "the player"))
	label := sheet.RelationLabel
	if label == "" {
		label = charactersheet.DescribeRelation(sheet.Relation)
	}
	fmt.Fprintf(b, "Your relation with player: %s\n", label)
}

func writeDiplomacy(b *strings.Builder, sheet *charactersheet.Sheet) {
	section(b, "CURRENT DIPLOMACY")
	if sheet != nil && len(sheet.Enemies) > 0 {
		fmt.Fprintf(b, "Your kingdom is AT WAR with: %s\n", strings.Join(sheet.Enemies, ", "))
		b.WriteString("You may ONLY speak negatively about these factions as enemies.\n")
	} else {
		b.WriteString("Your kingdom is currently at peace (no active wars).\n")
	}
	if sheet != nil && len(sheet.Allies) > 0 {
		fmt.Fprintf(b, "Allied factions: %s\n", strings.Join(sheet.Allies, ", "))
	}
	b.WriteString("IMPORTANT: Do NOT invent wars or enemies. Only mention conflicts listed above.\n")
}

func writeStyle(b *strings.Builder) {
	section(b, "LANGUAGE & STYLE")
	b.WriteString("You are in a medieval setting. Your speech must be appropriate:\n")
	b.WriteString("- Use formal, medieval-appropriate language\n")
	b.WriteString("- Avoid modern slang\n")
	b.WriteString("- Be concise (2-4 sentences) unless asked for details\n")

	section(b, "RESPONSE RULES")
	b.WriteString("- Respond in character as the NPC described above\n")
	b.WriteString("- Express emotions using *actions* in asterisks\n")
	b.WriteString("- Do NOT invent battles, raids, or events that are not happening\n")
	b.WriteString("- React based on your relationship with the player\n")
}

func writeCommands(b *strings.Builder, commands []Command) {
	section(b, "COMMAND OUTPUT")
	b.WriteString("When you agree to an action, append a JSON command block:\n")
	b.WriteString("```json\n{\"command\": \"COMMAND_TYPE\", \"params\": {...}}\n```\n")
	b.WriteString("\nAvailable commands:\n")
	for _, c := range commands {
		block := fmt.Sprintf(`{"command": %q}`, c.Name)
		if hint, ok := paramHints[c.Name]; ok {
			block = fmt.Sprintf(`{"command": %q, %s}`, c.Name, hint)
		}
		if c.Description != "" {
			fmt.Fprintf(b, "- %s - %s\n", block, c.Description)
			continue
		}
		fmt.Fprintf(b, "- %s\n", block)
	}
}

func writeDiceInstructions(b *strings.Builder) {
	section(b, "DICE ROLLS")
	b.WriteString("If the request requires persuasion, intimidation, or deception, request a dice roll:\n")
	b.WriteString("```json\n{\"dice_request\": true, \"skill\": \"charm|roguery|leadership\", \"dc\": 10-20}\n```\n")
	b.WriteString("DC should be based on:\n")
	b.WriteString("- 10: Easy (good relation, aligned with personality)\n")
	b.WriteString("- 15: Medium (neutral relation or request)\n")
	b.WriteString("- 20: Hard (bad relation, against personality)\n")
}

func writeMemories(b *strings.Builder, memories []*entities.Memory, limit int) {
	if limit <= 0 || len(memories) == 0 {
		return
	}

	section(b, "MEMORIES OF PAST INTERACTIONS")
	written := 0
	for _, m := range memories {
		if m == nil {
			continue
		}
		if written == limit {
			break
		}
		line := fmt.Sprintf("- Day %d: %s", m.GameDay, m.Description)
		switch {
		case m.Sentiment > 0:
			line += " (positive)"
		case m.Sentiment < 0:
			line += " (negative)"
		}
		b.WriteString(line)
		b.WriteString("\n")
		written++
	}
}

func writeDiceResult(b *strings.Builder, o *d20.Outcome) {
	result := "FAILED"
	if o.Success {
		result = "SUCCEEDED"
	}

	section(b, "DICE ROLL RESULT")
	fmt.Fprintf(b, "The player rolled: %d %+d (%s) = %d vs DC %d\n", o.Base, o.Modifier, o.Skill, o.Total, o.DC)
	fmt.Fprintf(b, "Result: %s\n", result)
	if o.Success {
		b.WriteString("Respond positively and agree to the request.\n")
	} else {
		b.WriteString("Politely refuse or show reluctance.\n")
	}
}
