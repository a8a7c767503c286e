package state

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	apperr "github.com/matzehuels/familytree/pkg/errors"
	"github.com/matzehuels/familytree/pkg/family"
	"github.com/matzehuels/familytree/pkg/observability"
)

// Saver persists family data. Store backends satisfy it.
type Saver interface {
	Save(ctx context.Context, d *family.FamilyData) error
}

// Session is the live state of one editor: the current [AppState], the log
// of actions that produced it, and an optional [Saver]. It is safe for
// concurrent use; actions are applied one at a time.
type Session struct {
	mu     sync.Mutex
	state  AppState
	log    *Log
	saver  Saver
	logger *log.Logger
}

// NewSession starts a session at initial. A nil saver disables persistence
// and a nil logger uses log.Default().
func NewSession(initial AppState, saver Saver, logger *log.Logger) *Session {
	if logger == nil {
		logger = log.Default()
	}
	if initial.Data == nil {
		initial.Data = family.New()
	}
	return &Session{state: initial, log: NewLog(), saver: saver, logger: logger}
}

// State returns the current state. Callers must not modify its data.
func (s *Session) State() AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// History returns the log of applied actions.
func (s *Session) History() *Log { return s.log }

// Dispatch applies a and, if it changed the family data, saves the result.
//
// A rejected action leaves the state unchanged and returns the validation
// error. A save failure returns a STORAGE error but keeps the new state,
// so the next successful save catches up.
func (s *Session) Dispatch(ctx context.Context, a Action) (AppState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	next, err := Reduce(s.state, a)
	observability.State().OnDispatch(ctx, a.Type(), time.Since(start), err)
	if err != nil {
		s.logger.Debug("action rejected", "type", a.Type(), "error", err)
		return s.state, err
	}
	s.state = next
	s.log.Append(a)
	s.logger.Debug("action applied", "type", a.Type(), "people", len(next.Data.People))

	if a.Mutates() && s.saver != nil {
		start = time.Now()
		err := s.saver.Save(ctx, next.Data)
		observability.State().OnSave(ctx, len(next.Data.People), time.Since(start), err)
		if err != nil {
			s.logger.Warn("save failed", "type", a.Type(), "error", err)
			return next, apperr.Wrap(apperr.ErrCodeStorage, err, "save after %s", a.Type())
		}
	}
	return next, nil
}
