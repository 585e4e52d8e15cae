package ipc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"os"
	"sync"

	"parley/internal/logging"
	"parley/internal/playback"
	"parley/internal/timeline"
)

// ServiceName is the RPC receiver name clients address.
const ServiceName = "Parley"

// Target is the controller surface the server drives.
type Target interface {
	Play(ctx context.Context) error
	Pause(ctx context.Context) error
	Rewind(ctx context.Context) error
	Forward(ctx context.Context) error
	SetVolume(ctx context.Context, volume float64) error
	State() playback.State
	Timeline() *timeline.Timeline
}

// Server exposes session control via JSON-RPC over a Unix domain socket.
type Server struct {
	path      string
	logger    *slog.Logger
	listener  net.Listener
	rpcServer *rpc.Server

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	connMu sync.Mutex
	conns  map[net.Conn]struct{}
	closed bool
}

// NewServer configures the IPC server at the given socket path.
func NewServer(ctx context.Context, path, sessionID string, target Target, logger *slog.Logger) (*Server, error) {
	if target == nil {
		return nil, errors.New("ipc server requires a target")
	}
	logger = logging.NewComponentLogger(logger, "ipc")

	if err := os.RemoveAll(path); err != nil {
		return nil, fmt.Errorf("remove existing socket: %w", err)
	}

	listener, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen on socket: %w", err)
	}

	serverCtx, cancel := context.WithCancel(ctx)
	rpcServer := rpc.NewServer()
	svc := &service{target: target, sessionID: sessionID, logger: logger, ctx: serverCtx}
	if err := rpcServer.RegisterName(ServiceName, svc); err != nil {
		cancel()
		listener.Close()
		return nil, fmt.Errorf("register rpc service: %w", err)
	}

	return &Server{
		path:      path,
		logger:    logger,
		listener:  listener,
		rpcServer: rpcServer,
		ctx:       serverCtx,
		cancel:    cancel,
		conns:     make(map[net.Conn]struct{}),
	}, nil
}

// Serve starts accepting RPC connections until the server is closed.
func (s *Server) Serve() {
	s.logger.Debug("IPC server listening", logging.String("socket", s.path))
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			conn, err := s.listener.Accept()
			if err != nil {
				select {
				case <-s.ctx.Done():
					return
				default:
				}
				if errors.Is(err, net.ErrClosed) {
					return
				}
				logging.WarnWithContext(s.logger, "accept failed", "ipc_accept_failed",
					logging.Error(err),
					logging.String(logging.FieldImpact, "parley ctl may fail to connect"),
					logging.String(logging.FieldErrorHint, "check socket permissions under state_dir"),
				)
				continue
			}
			if !s.track(conn) {
				_ = conn.Close()
				return
			}
			s.wg.Add(1)
			go func(c net.Conn) {
				defer s.wg.Done()
				defer s.untrack(c)
				s.rpcServer.ServeCodec(jsonrpc.NewServerCodec(c))
			}(conn)
		}
	}()
}

// Close stops the server and removes the socket file. Connected clients are
// disconnected, so an idle client cannot hold up teardown.
func (s *Server) Close() {
	s.cancel()
	if s.listener != nil {
		_ = s.listener.Close()
	}
	s.connMu.Lock()
	s.closed = true
	for conn := range s.conns {
		_ = conn.Close()
	}
	s.connMu.Unlock()
	s.wg.Wait()
	if err := os.RemoveAll(s.path); err != nil {
		logging.WarnWithContext(s.logger, "failed to remove socket", "ipc_socket_cleanup_failed",
			logging.String("socket", s.path),
			logging.Error(err),
			logging.String(logging.FieldImpact, "stale socket will be replaced by the next session"),
			logging.String(logging.FieldErrorHint, "remove the socket file manually"),
		)
	}
}

// track registers an accepted connection. It reports false once Close has
// started.
func (s *Server) track(conn net.Conn) bool {
	s.connMu.Lock()
	defer s.connMu.Unlock()
	if s.closed {
		return false
	}
	s.conns[conn] = struct{}{}
	return true
}

func (s *Server) untrack(conn net.Conn) {
	s.connMu.Lock()
	delete(s.conns, conn)
	s.connMu.Unlock()
	_ = conn.Close()
}

type service struct {
	target    Target
	sessionID string
	logger    *slog.Logger
	ctx       context.Context
}

func (s *service) run(name string, op func(context.Context) error, resp *StatusResponse) error {
	s.logger.Debug("ipc command", logging.String("command", name))
	if err := op(s.ctx); err != nil {
		return err
	}
	*resp = s.status()
	return nil
}

func (s *service) Play(_ CommandRequest, resp *StatusResponse) error {
	return s.run("play", s.target.Play, resp)
}

func (s *service) Pause(_ CommandRequest, resp *StatusResponse) error {
	return s.run("pause", s.target.Pause, resp)
}

func (s *service) Rewind(_ CommandRequest, resp *StatusResponse) error {
	return s.run("rewind", s.target.Rewind, resp)
}

func (s *service) Forward(_ CommandRequest, resp *StatusResponse) error {
	return s.run("forward", s.target.Forward, resp)
}

func (s *service) SetVolume(req VolumeRequest, resp *StatusResponse) error {
	return s.run("volume", func(ctx context.Context) error {
		return s.target.SetVolume(ctx, req.Volume)
	}, resp)
}

func (s *service) Status(_ StatusRequest, resp *StatusResponse) error {
	*resp = s.status()
	return nil
}

func (s *service) status() StatusResponse {
	state := s.target.State()
	tl := s.target.Timeline()
	resp := StatusResponse{
		SessionID:   s.sessionID,
		Status:      state.Status.String(),
		Available:   state.Available,
		Volume:      state.Volume,
		PausedAtMs:  state.PausedAtMs,
		PhraseCount: tl.Len(),
		PID:         os.Getpid(),
	}
	if idx := state.CurrentIndex; idx >= 0 && idx < tl.Len() {
		phrase := tl.Phrase(idx)
		start, end := tl.Window(idx)
		resp.Phrase = &PhraseInfo{Index: idx, Speaker: phrase.Speaker, Words: phrase.Words, StartMs: start, EndMs: end}
	}
	return resp
}
