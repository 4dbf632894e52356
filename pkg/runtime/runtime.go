// Package runtime provides the calculator session: the single owner of one
// environment and its history, and the only place an assignment is committed.
package runtime

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/edwingeng/deque"
	"golang.org/x/text/width"

	"github.com/lifers/kalkucilik/pkg/diagnostics"
	"github.com/lifers/kalkucilik/pkg/env"
	"github.com/lifers/kalkucilik/pkg/evaluator"
)

// DefaultHistoryLimit is the number of history entries kept when no limit is set.
const DefaultHistoryLimit = 1000

// Entry is one committed line and what it evaluated to.
type Entry struct {
	Input  string           `json:"input"`
	Result evaluator.Result `json:"result"`
}

// EventType names the kind of trace event.
type EventType string

const (
	EventPreview EventType = "preview"
	EventCommit  EventType = "commit"
	EventBind    EventType = "bind"
	EventReject  EventType = "reject"
)

// Event is reported to the trace callback for every evaluation.
type Event struct {
	Session string           `json:"session"`
	Type    EventType        `json:"type"`
	Input   string           `json:"input"`
	Result  evaluator.Result `json:"result"`
}

// Session owns one Environment and a bounded history. All methods are safe
// for concurrent use; evaluations within one session run one at a time.
type Session struct {
	mu      sync.Mutex
	id      string
	env     *env.Environment
	history deque.Deque // of Entry, oldest first
	limit   int
	fold    bool
	trace   func(Event)
}

// Option is a functional option for configuring the Session.
type Option func(*Session)

// WithHistoryLimit bounds the history. Once full, the oldest entry is
// dropped for each new one. A limit of zero disables history.
func WithHistoryLimit(n int) Option {
	return func(s *Session) {
		if n < 0 {
			n = 0
		}
		s.limit = n
	}
}

// WithWidthFolding folds full-width characters such as "１＋２" to their
// ASCII forms before evaluation.
func WithWidthFolding(on bool) Option {
	return func(s *Session) {
		s.fold = on
	}
}

// WithEnvironment makes the session own an existing environment.
func WithEnvironment(e *env.Environment) Option {
	return func(s *Session) {
		if e != nil {
			s.env = e
		}
	}
}

// WithID sets the session ID reported in trace events.
func WithID(id string) Option {
	return func(s *Session) {
		s.id = id
	}
}

// WithTrace sets the trace callback. It is called with the session lock held
// and must not call back into the session.
func WithTrace(fn func(event Event)) Option {
	return func(s *Session) {
		s.trace = fn
	}
}

// New creates a new Session with the given options.
// By default the environment is empty, history holds DefaultHistoryLimit
// entries and width folding is off.
func New(opts ...Option) *Session {
	s := &Session{
		id:      "local",
		env:     env.New(),
		history: deque.NewDeque(),
		limit:   DefaultHistoryLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID returns the session ID.
func (s *Session) ID() string {
	return s.id
}

func (s *Session) normalize(text string) string {
	if s.fold {
		return width.Fold.String(text)
	}
	return text
}

func (s *Session) emit(typ EventType, input string, res evaluator.Result) {
	if s.trace != nil {
		s.trace(Event{Session: s.id, Type: typ, Input: input, Result: res})
	}
}

// Preview evaluates text against the current bindings without committing
// anything. It is meant to be called on every edit.
func (s *Session) Preview(text string) evaluator.Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := evaluator.Evaluate(s.normalize(text), s.env)
	s.emit(EventPreview, text, res)
	return res
}

// Commit evaluates text and applies it: an assignment binds its variable,
// and any valid line is appended to the history. Invalid input changes
// nothing and is reported as a *DiagnosticError alongside the result.
func (s *Session) Commit(text string) (evaluator.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, diag := evaluator.Explain(s.normalize(text), s.env)
	s.emit(EventCommit, text, res)
	if diag != nil {
		s.emit(EventReject, text, res)
		return res, &DiagnosticError{Diagnostics: []diagnostics.Diagnostic{*diag}}
	}

	if res.Kind == evaluator.Assignment {
		if err := s.env.Set(res.Name, res.Text); err != nil {
			invalid := evaluator.Result{Kind: evaluator.Invalid}
			s.emit(EventReject, text, invalid)
			return invalid, &DiagnosticError{Diagnostics: []diagnostics.Diagnostic{bindDiag(err)}}
		}
		s.emit(EventBind, text, res)
	}
	s.record(Entry{Input: text, Result: res})
	return res, nil
}

// bindDiag describes an environment rejecting a binding.
func bindDiag(err error) diagnostics.Diagnostic {
	code := diagnostics.EMalformedLiteral
	if errors.Is(err, env.ErrInvalidName) {
		code = diagnostics.EName
	}
	return diagnostics.MakeDiag(code, err.Error(), nil, "")
}

// Explain evaluates text like Preview and also returns the reason for an
// invalid outcome.
func (s *Session) Explain(text string) (evaluator.Result, *diagnostics.Diagnostic) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return evaluator.Explain(s.normalize(text), s.env)
}

// Lookup returns the canonical text bound to name.
func (s *Session) Lookup(name string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.env.Get(name)
	if !ok {
		return "", false
	}
	return v.String(), true
}

// Variables returns the current bindings ordered by name.
func (s *Session) Variables() []env.Binding {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.env.Enumerate()
}

// Unset removes the binding for name and reports whether there was one.
func (s *Session) Unset(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.env.Get(name); !ok {
		return false
	}
	s.env.Delete(name)
	return true
}

// ClearVariables removes every binding.
func (s *Session) ClearVariables() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.env.Clear()
}

// History returns the committed entries, oldest first.
func (s *Session) History() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.history.Len()
	out := make([]Entry, 0, n)
	// Rotate through the queue once; it ends in its original order.
	for i := 0; i < n; i++ {
		e := s.history.PopFront().(Entry)
		out = append(out, e)
		s.history.PushBack(e)
	}
	return out
}

// ClearHistory drops every history entry.
func (s *Session) ClearHistory() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.history = deque.NewDeque()
}

func (s *Session) record(e Entry) {
	if s.limit == 0 {
		return
	}
	s.history.PushBack(e)
	for s.history.Len() > s.limit {
		s.history.PopFront()
	}
}

// DiagnosticError wraps diagnostics as an error.
type DiagnosticError struct {
	Diagnostics []diagnostics.Diagnostic
}

func (e *DiagnosticError) Error() string {
	msgs := make([]string, len(e.Diagnostics))
	for i, d := range e.Diagnostics {
		msgs[i] = fmt.Sprintf("%s: %s", d.Code, d.Message)
	}
	return strings.Join(msgs, "; ")
}
