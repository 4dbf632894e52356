// Package mcp serves the calculator as Model Context Protocol tools.
// Every MCP session gets its own calculator session, so variables and
// history never leak between clients.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/lifers/kalkucilik/pkg/help"
	"github.com/lifers/kalkucilik/pkg/runtime"
)

const serverName = "kalk"

// Server hosts the MCP server.
type Server struct {
	server *sdk.Server
	opts   []runtime.Option

	mu       sync.Mutex
	sessions map[*sdk.ServerSession]*runtime.Session
	seq      int
}

// New creates a configured MCP server. opts apply to every calculator
// session it creates.
func New(opts ...runtime.Option) *Server {
	s := &Server{
		server:   sdk.NewServer(&sdk.Implementation{Name: serverName, Version: help.Version}, nil),
		opts:     opts,
		sessions: make(map[*sdk.ServerSession]*runtime.Session),
	}
	registerTools(s.server, s.session)
	return s
}

// Run serves over stdio until ctx is done or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	return s.Serve(ctx, &sdk.StdioTransport{})
}

// Serve serves a single connection over transport.
func (s *Server) Serve(ctx context.Context, transport sdk.Transport) error {
	err := s.server.Run(ctx, transport)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		err = nil
	}
	if err != nil {
		return fmt.Errorf("serve MCP: %w", err)
	}
	return nil
}

// Connect accepts one more connection without blocking.
func (s *Server) Connect(ctx context.Context, transport sdk.Transport) (*sdk.ServerSession, error) {
	return s.server.Connect(ctx, transport, nil)
}

// Sessions returns the number of live calculator sessions.
func (s *Server) Sessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// session returns the calculator session bound to an MCP session,
// creating it on first use.
func (s *Server) session(ss *sdk.ServerSession) *runtime.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if calc, ok := s.sessions[ss]; ok {
		return calc
	}
	s.seq++
	id := fmt.Sprintf("mcp-%d", s.seq)
	opts := append([]runtime.Option{runtime.WithID(id), runtime.WithTrace(logEvent)}, s.opts...)
	calc := runtime.New(opts...)
	s.sessions[ss] = calc

	if ss != nil {
		go func() {
			_ = ss.Wait()
			s.forget(ss)
		}()
	}
	return calc
}

func (s *Server) forget(ss *sdk.ServerSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, ss)
}

func logEvent(ev runtime.Event) {
	switch ev.Type {
	case runtime.EventBind:
		log.Printf("%s: bind %s = %s", ev.Session, ev.Result.Name, ev.Result.Text)
	case runtime.EventReject:
		log.Printf("%s: rejected %q", ev.Session, ev.Input)
	}
}
