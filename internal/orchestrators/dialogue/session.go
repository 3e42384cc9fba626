package dialogue

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/KirkDiggler/rpg-dialogue/internal/errors"
)

// session owns one conversation. At most one request is in flight; starting
// another cancels it.
type session struct {
	mu     sync.Mutex
	conv   Conversation
	seq    uint64
	cancel context.CancelFunc
	now    func() time.Time
}

// turn is one request holding the session
type turn struct {
	ctx    context.Context
	seq    uint64
	cancel context.CancelFunc
	sess   *session
}

// begin cancels any in-flight request and claims the session. prepare runs
// under the lock before anything changes; an error from it leaves the session
// untouched.
func (s *session) begin(ctx context.Context, prepare func(*Conversation) error) (*turn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prepare != nil {
		if err := prepare(&s.conv); err != nil {
			return nil, err
		}
	}

	if s.cancel != nil {
		slog.Info("Superseding in-flight request", "conversation_id", s.conv.ID)
		s.cancel()
	}

	tctx, cancel := context.WithCancel(ctx)
	s.seq++
	s.cancel = cancel
	s.conv.State = StateAwaitingGeneration
	s.conv.UpdatedAt = s.now()

	return &turn{ctx: tctx, seq: s.seq, cancel: cancel, sess: s}, nil
}

// finish releases the session if the turn still holds it
func (t *turn) finish() {
	t.cancel()

	s := t.sess
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seq == t.seq {
		s.cancel = nil
	}
}

// advance moves the conversation to state if the turn is still current
func (t *turn) advance(state State, mutate func(*Conversation)) bool {
	s := t.sess
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.seq != t.seq {
		return false
	}
	s.conv.State = state
	if mutate != nil {
		mutate(&s.conv)
	}
	s.conv.UpdatedAt = s.now()
	return true
}

// abort settles a turn whose generation failed
func (t *turn) abort(err error) error {
	if !t.advance(StateIdle, nil) {
		return errors.Canceled("request superseded")
	}
	return err
}

// end cancels in-flight work and retires the session
func (s *session) end() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.seq++
	s.conv.State = StateDone
	s.conv.PendingDice = nil
	s.conv.PendingAction = nil
	s.conv.UpdatedAt = s.now()
}

func (s *session) snapshot() *Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := s.conv
	if s.conv.PendingDice != nil {
		dice := *s.conv.PendingDice
		cp.PendingDice = &dice
	}
	if s.conv.PendingAction != nil {
		action := *s.conv.PendingAction
		cp.PendingAction = &action
	}
	return &cp
}
