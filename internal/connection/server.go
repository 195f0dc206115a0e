package connection

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/rickgao/ctsp-server/internal/metrics"
	"github.com/rickgao/ctsp-server/internal/protocol"
	"github.com/rickgao/ctsp-server/internal/session"
)

// Server accepts connections and runs one handler loop per client.
type Server struct {
	cfg      Config
	handler  Handler
	sessions session.Registry
	logger   *slog.Logger

	ln  net.Listener
	sem *semaphore.Weighted

	connsMu sync.Mutex
	conns   map[net.Conn]struct{}

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewServer creates a server. sessions is needed so handlers can tear down
// session state when a connection drops.
func NewServer(cfg Config, handler Handler, sessions session.Registry, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		cfg:      cfg,
		handler:  handler,
		sessions: sessions,
		logger:   logger,
		sem:      semaphore.NewWeighted(cfg.MaxConns),
		conns:    make(map[net.Conn]struct{}),
	}
}

// Start binds the listener and begins accepting.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	s.ln = ln
	s.ctx, s.cancel = context.WithCancel(ctx)

	s.wg.Add(1)
	go s.acceptLoop()

	s.logger.Info("server listening",
		"addr", ln.Addr().String(),
		"max_conns", s.cfg.MaxConns,
		"idle_timeout", s.cfg.IdleTimeout,
	)
	return nil
}

// Addr returns the bound listener address.
func (s *Server) Addr() net.Addr {
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// Stop closes the listener, then waits for in-flight handlers. When the ctx
// deadline passes, remaining connections are force-closed.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("stopping server")

	if s.cancel != nil {
		s.cancel()
	}
	if s.ln != nil {
		_ = s.ln.Close()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		s.closeAllConns()
		<-done
	}

	s.logger.Info("server stopped")
	return nil
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()

	for {
		conn, err := s.ln.Accept()
		if err != nil {
			select {
			case <-s.ctx.Done():
				return
			default:
			}
			if errors.Is(err, net.ErrClosed) {
				return
			}
			s.logger.Error("accept failed", "err", err)
			continue
		}

		if !s.sem.TryAcquire(1) {
			s.logger.Warn("connection limit reached, rejecting",
				"remote", conn.RemoteAddr().String(),
				"max_conns", s.cfg.MaxConns,
			)
			_ = conn.Close()
			continue
		}

		s.trackConn(conn)
		s.wg.Add(1)
		go s.handleConn(conn)
	}
}

// handleConn is the per-connection loop: read, dispatch, write.
func (s *Server) handleConn(conn net.Conn) {
	metrics.OpenConnections.Inc()
	s.logger.Debug("client connected", "remote", conn.RemoteAddr().String())

	// Sessions opened over this connection, destroyed on disconnect.
	var owned []session.Token

	defer func() {
		for _, t := range owned {
			s.sessions.Destroy(t)
		}
		s.untrackConn(conn)
		_ = conn.Close()
		s.sem.Release(1)
		metrics.OpenConnections.Dec()
		s.logger.Debug("client disconnected", "remote", conn.RemoteAddr().String())
		s.wg.Done()
	}()

	reader := bufio.NewReader(conn)

	for {
		if s.cfg.IdleTimeout > 0 {
			_ = conn.SetReadDeadline(time.Now().Add(s.cfg.IdleTimeout))
		}

		req, err := protocol.ReadRequest(reader)
		if err != nil {
			var perr *protocol.ProtocolError
			if errors.As(err, &perr) {
				// Malformed request: answer 400 and keep the connection.
				resp := &protocol.Response{
					Status: protocol.StatusBadRequest,
					Body:   errorBody{Error: perr.Error()},
				}
				if !s.writeResponse(conn, resp) {
					return
				}
				continue
			}
			if err != io.EOF {
				s.logger.Debug("connection read failed",
					"remote", conn.RemoteAddr().String(), "err", err)
			}
			return
		}

		resp := s.handler.Dispatch(req)

		switch {
		case req.Command == "ENTER" && resp.Status == protocol.StatusOK && resp.Token != "":
			owned = append(owned, session.TokenFromWire(resp.Token))
		case req.Command == "EXIT" && resp.Status == protocol.StatusOK:
			owned = removeToken(owned, session.TokenFromWire(req.PlayerID))
		}

		if !s.writeResponse(conn, resp) {
			return
		}
	}
}

func (s *Server) writeResponse(conn net.Conn, resp *protocol.Response) bool {
	data, err := resp.Encode()
	if err != nil {
		s.logger.Error("encode response failed", "err", err)
		return false
	}
	if s.cfg.WriteTimeout > 0 {
		_ = conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
	}
	if _, err := conn.Write(data); err != nil {
		s.logger.Debug("connection write failed",
			"remote", conn.RemoteAddr().String(), "err", err)
		return false
	}
	return true
}

func (s *Server) trackConn(conn net.Conn) {
	s.connsMu.Lock()
	s.conns[conn] = struct{}{}
	s.connsMu.Unlock()
}

func (s *Server) untrackConn(conn net.Conn) {
	s.connsMu.Lock()
	delete(s.conns, conn)
	s.connsMu.Unlock()
}

func (s *Server) closeAllConns() {
	s.connsMu.Lock()
	defer s.connsMu.Unlock()
	for conn := range s.conns {
		_ = conn.Close()
	}
}

func removeToken(tokens []session.Token, t session.Token) []session.Token {
	out := tokens[:0]
	for _, tok := range tokens {
		if tok != t {
			out = append(out, tok)
		}
	}
	return out
}
