package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-dialogue/internal/errors"
	"github.com/KirkDiggler/rpg-dialogue/internal/orchestrators/dialogue"
)

var (
	chatNPC    string
	chatPlayer string
	chatPrefer string
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to an NPC from the terminal",
	Long: `Start an interactive conversation with an NPC. Type a message and press enter.
Commands: /status shows the backends, /prefer NAME pins one, /quit leaves.`,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVar(&chatNPC, "npc", "lord_derthert", "NPC actor ID")
	chatCmd.Flags().StringVar(&chatPlayer, "player", "player", "player actor ID")
	chatCmd.Flags().StringVar(&chatPrefer, "prefer", "", "backend to try first")
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer cancel()

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, closeCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer closeCancel()
		a.Close(closeCtx)
	}()

	if chatPrefer != "" {
		if err := a.router.SetPreferred(chatPrefer); err != nil {
			return err
		}
	}

	started, err := a.orchestrator.StartConversation(ctx, &dialogue.StartConversationInput{
		NPCID:    chatNPC,
		PlayerID: chatPlayer,
	})
	if err != nil {
		return err
	}
	conversationID := started.Conversation.ID

	npc, err := a.world.GetActor(ctx, chatNPC)
	if err != nil {
		return err
	}

	s := &chatSession{
		app:            a,
		display:        newDisplay(cmd.OutOrStdout()),
		conversationID: conversationID,
		speaker:        npc.DisplayName(),
	}
	s.display.system("Talking to %s. /quit to leave.", s.speaker)

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		s.display.prompt()
		if !scanner.Scan() {
			break
		}
		if ctx.Err() != nil {
			break
		}
		if done := s.handle(ctx, strings.TrimSpace(scanner.Text())); done {
			break
		}
	}

	_, err = a.orchestrator.EndConversation(context.WithoutCancel(ctx), &dialogue.EndConversationInput{
		ConversationID: conversationID,
	})
	if err != nil && !errors.IsNotFound(err) {
		return err
	}
	return scanner.Err()
}

type chatSession struct {
	app            *app
	display        *display
	conversationID string
	speaker        string
	awaitingRoll   bool
}

// handle processes one input line and reports whether the chat should end
func (s *chatSession) handle(ctx context.Context, line string) bool {
	if s.awaitingRoll && line == "" {
		s.resolveRoll(ctx)
		return false
	}

	switch {
	case line == "":
		return false
	case line == "/quit" || line == "/exit":
		return true
	case line == "/status":
		s.status(ctx)
		return false
	case strings.HasPrefix(line, "/prefer"):
		name := strings.TrimSpace(strings.TrimPrefix(line, "/prefer"))
		if err := s.app.router.SetPreferred(name); err != nil {
			s.display.system("%s", errors.GetMessage(err))
			return false
		}
		s.display.system("preferred backend: %s", orNone(s.app.router.Preferred()))
		return false
	}

	out, err := s.app.orchestrator.SendMessage(ctx, &dialogue.SendMessageInput{
		ConversationID: s.conversationID,
		Text:           line,
	})
	if err != nil {
		s.display.system("%s", errors.GetMessage(err))
		return ctx.Err() != nil
	}
	s.show(out.Turn)
	return false
}

func (s *chatSession) resolveRoll(ctx context.Context) {
	out, err := s.app.orchestrator.ResolveDiceRoll(ctx, &dialogue.ResolveDiceRollInput{
		ConversationID: s.conversationID,
	})
	if err != nil {
		s.display.system("%s", errors.GetMessage(err))
		if errors.GetCode(err) == errors.CodeFailedPrecondition {
			s.awaitingRoll = false
		}
		return
	}
	s.show(out.Turn)
}

func (s *chatSession) show(turn *dialogue.TurnResult) {
	s.display.roll(turn.Roll)
	s.display.speech(s.speaker, turn.Display, turn.IsFallback)
	s.display.outcome(turn.Outcome)

	s.awaitingRoll = turn.State == dialogue.StateAwaitingDiceRoll
	if s.awaitingRoll {
		s.display.diceRequest(turn.Dice)
	}
}

func (s *chatSession) status(ctx context.Context) {
	for _, st := range s.app.router.Status(ctx) {
		line := fmt.Sprintf("%s (%s): %s", st.Name, st.Model, st.State)
		if !st.CheckedAt.IsZero() {
			line += ", checked " + st.CheckedAt.Format(time.Kitchen)
		}
		if st.Preferred {
			line += ", preferred"
		}
		s.display.system("%s", line)
	}
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
