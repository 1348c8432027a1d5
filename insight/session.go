package insight

import (
	"context"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MinReflectionLength is the minimum trimmed length, in characters, of an accepted submission.
const MinReflectionLength = 10

const fallbackErrorMessage = "Something went wrong. Please try again."

// Generator produces a Result for a reflection. *Adapter is the production implementation.
type Generator interface {
	GenerateInsight(ctx context.Context, reflection string) (Result, error)
}

// State is the session lifecycle tag.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateSuccess
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateSuccess:
		return "success"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Snapshot is a read-only view of the session. Result is set only in StateSuccess, Err only in StateError.
type Snapshot struct {
	State  State
	Result *Result
	Err    string
}

// ValidReflection reports whether text is long enough to submit.
func ValidReflection(text string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(text)) >= MinReflectionLength
}

// Session owns the idle/loading/success/error lifecycle of one reflection at a time.
type Session struct {
	gen    Generator
	logger *zap.Logger

	mu      sync.Mutex
	state   State
	result  *Result
	errMsg  string
	settled chan struct{}
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithLogger sets the session logger.
func WithLogger(l *zap.Logger) SessionOption {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewSession returns an idle session that submits reflections to gen.
func NewSession(gen Generator, opts ...SessionOption) *Session {
	s := &Session{
		gen:    gen,
		logger: zap.NewNop(),
		state:  StateIdle,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit starts an analysis of text. It is ignored unless the session is idle and text has at least
// MinReflectionLength characters after trimming. On acceptance the session is loading when Submit returns.
func (s *Session) Submit(ctx context.Context, text string) {
	if !ValidReflection(text) {
		s.logger.Debug("reflection rejected: too short", zap.Int("len", utf8.RuneCountInString(strings.TrimSpace(text))))
		return
	}

	s.mu.Lock()
	if s.state != StateIdle || s.gen == nil {
		state := s.state
		s.mu.Unlock()
		s.logger.Debug("submit ignored", zap.Stringer("state", state))
		return
	}
	s.state = StateLoading
	s.result = nil
	s.errMsg = ""
	settled := make(chan struct{})
	s.settled = settled
	s.mu.Unlock()

	if ctx == nil {
		ctx = context.Background()
	}
	reqID := uuid.NewString()
	s.logger.Info("reflection submitted", zap.String("request_id", reqID), zap.Int("len", len(text)))

	go s.run(ctx, reqID, text, settled)
}

func (s *Session) run(ctx context.Context, reqID string, text string, settled chan struct{}) {
	start := time.Now()
	res, err := s.gen.GenerateInsight(ctx, text)

	s.mu.Lock()
	if err != nil {
		s.state = StateError
		s.result = nil
		s.errMsg = errorMessage(err)
	} else {
		r := res.Clone()
		s.state = StateSuccess
		s.result = &r
		s.errMsg = ""
	}
	s.settled = nil
	s.mu.Unlock()
	close(settled)

	if err != nil {
		s.logger.Warn("insight failed", zap.String("request_id", reqID), zap.Duration("elapsed", time.Since(start)), zap.Error(err))
		return
	}
	s.logger.Info("insight ready", zap.String("request_id", reqID), zap.Duration("elapsed", time.Since(start)), zap.Int("themes", len(res.Themes)))
}

// SelectDemo shows the bundled demo for key. Accepted from idle and error; unknown keys are ignored.
func (s *Session) SelectDemo(key string) {
	demo, ok := Demo(key)
	if !ok {
		s.logger.Debug("unknown demo key", zap.String("key", key))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateIdle && s.state != StateError {
		s.logger.Debug("demo ignored", zap.String("key", key), zap.Stringer("state", s.state))
		return
	}
	s.state = StateSuccess
	s.result = &demo
	s.errMsg = ""
}

// Reset returns to idle from success or error, discarding the result and error.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateSuccess && s.state != StateError {
		return
	}
	s.state = StateIdle
	s.result = nil
	s.errMsg = ""
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	snap := Snapshot{State: s.state}
	switch s.state {
	case StateSuccess:
		if s.result != nil {
			r := s.result.Clone()
			snap.Result = &r
		}
	case StateError:
		snap.Err = s.errMsg
	}
	return snap
}

// Await blocks while a submission is in flight, then returns the snapshot.
// If ctx ends first the current (loading) snapshot is returned.
func (s *Session) Await(ctx context.Context) Snapshot {
	s.mu.Lock()
	settled := s.settled
	if s.state != StateLoading || settled == nil {
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap
	}
	s.mu.Unlock()

	select {
	case <-settled:
	case <-ctx.Done():
	}
	return s.Snapshot()
}

func errorMessage(err error) string {
	msg := strings.TrimSpace(err.Error())
	if msg == "" {
		return fallbackErrorMessage
	}
	return msg
}
