package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"parley/internal/config"
	"parley/internal/ipc"
	"parley/internal/journal"
	"parley/internal/logging"
	"parley/internal/playback"
	"parley/internal/timeline"
	"parley/internal/transcript"
	"parley/internal/transport/clock"
)

// ErrLocked means another session already owns the audio device.
var ErrLocked = errors.New("another parley session is already running")

// Options describes one playback session.
type Options struct {
	TranscriptPath string
	AudioPath      string
	// Transport overrides cfg.Playback.Transport when set.
	Transport string
	// Clock drives the clock transport; nil means wall time.
	Clock clock.Clock
	// DisableIPC skips the control socket.
	DisableIPC bool
	// SessionLog tees records into <log_dir>/sessions/<id>.log.
	SessionLog bool
}

// Session owns everything a running `parley play` holds open.
type Session struct {
	ID         string
	Transcript transcript.Transcript
	Timeline   *timeline.Timeline

	cfg      *config.Config
	logger   *slog.Logger
	lock     *flock.Flock
	store    *journal.Store
	ctl      *playback.Controller
	server   *ipc.Server
	rec      *recorder
	recDone  chan struct{}
	closeLog func() error
	loadErr  error

	closeOnce sync.Once
	closeErr  error
}

// Start assembles a session. On failure everything acquired so far is
// released before returning. An audio load failure is not a Start failure;
// it is reported by LoadErr and journaled, and the session runs without
// playback.
func Start(ctx context.Context, cfg *config.Config, opts Options, logger *slog.Logger) (*Session, error) {
	if cfg == nil {
		return nil, errors.New("session requires config")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, err
	}

	s := &Session{ID: uuid.NewString(), cfg: cfg}
	s.lock = flock.New(cfg.LockPath())
	ok, err := s.lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, ErrLocked
	}

	if err := s.start(ctx, opts, logger); err != nil {
		s.rec.recordError(err)
		_ = s.Close(context.Background())
		return nil, err
	}
	return s, nil
}

func (s *Session) start(ctx context.Context, opts Options, base *slog.Logger) error {
	cfg := s.cfg
	s.logger = base.With(logging.String(logging.FieldSessionID, s.ID))
	if opts.SessionLog {
		logger, closeLog, err := logging.ForSession(base, cfg, s.ID)
		if err != nil {
			logging.WarnWithContext(s.logger, "session log unavailable", "session_log_failed",
				logging.Error(err),
				logging.String(logging.FieldImpact, "this session is only logged to the main log"))
		} else {
			s.logger, s.closeLog = logger, closeLog
			pruned := logging.PruneSessionLogs(s.logger, logging.SessionLogDir(cfg), cfg.Logging.RetentionDays,
				filepath.Join(logging.SessionLogDir(cfg), s.ID+".log"), time.Now())
			if pruned > 0 {
				s.logger.Debug("old session logs pruned", logging.Int("count", pruned))
			}
		}
	}
	logger := logging.NewComponentLogger(s.logger, "session")

	doc, err := transcript.Load(opts.TranscriptPath)
	if err != nil {
		return err
	}
	for _, issue := range doc.Issues() {
		logging.WarnWithContext(logger, "transcript issue", "transcript_issue",
			logging.String("issue", issue.String()),
			logging.String(logging.FieldImpact, "affected phrases may highlight at unexpected times"),
			logging.String(logging.FieldErrorHint, "fix the transcript timing values"))
	}
	s.Transcript = doc
	s.Timeline = timeline.Build(doc)

	if opts.Transport != "" {
		cfg.Playback.Transport = opts.Transport
	}
	transport, err := NewTransport(cfg, s.Timeline, opts.Clock, s.logger)
	if err != nil {
		return err
	}

	if cfg.Journal.Enabled {
		s.openJournal(ctx, opts, logger)
	}

	s.ctl = playback.New(s.Timeline, transport,
		playback.WithLogger(s.logger),
		playback.WithPollInterval(cfg.PollInterval()),
		playback.WithCommandTimeout(cfg.CommandTimeout()),
		playback.WithVolume(cfg.Playback.DefaultVolume),
	)
	if s.rec != nil {
		s.rec.observe(s.ctl.State())
		states, _ := s.ctl.Subscribe()
		s.recDone = make(chan struct{})
		go func() {
			defer close(s.recDone)
			s.rec.run(states)
		}()
	}

	// A load failure disables playback but keeps the session: the
	// transcript stays readable and commands become no-ops.
	if err := s.ctl.Open(ctx, opts.AudioPath); err != nil {
		s.loadErr = err
		s.rec.recordError(err)
	}

	if !opts.DisableIPC {
		server, err := ipc.NewServer(ctx, cfg.SocketPath(), s.ID, s.ctl, s.logger)
		if err != nil {
			logging.WarnWithContext(logger, "control socket unavailable", "ipc_listen_failed",
				logging.Error(err),
				logging.String(logging.FieldImpact, "parley ctl cannot reach this session"),
				logging.String(logging.FieldErrorHint, "check permissions on state_dir"))
		} else {
			server.Serve()
			s.server = server
		}
	}

	logger.Info("session started",
		logging.String("transcript", opts.TranscriptPath),
		logging.String("audio", opts.AudioPath),
		logging.String("transport", cfg.Playback.Transport),
		logging.Int("phrases", s.Timeline.Len()),
		logging.Bool("audio_available", s.loadErr == nil))
	return nil
}

func (s *Session) openJournal(ctx context.Context, opts Options, logger *slog.Logger) {
	store, err := journal.Open(s.cfg)
	if err == nil {
		err = store.StartSession(ctx, journal.Session{
			ID:          s.ID,
			Transcript:  opts.TranscriptPath,
			Resource:    opts.AudioPath,
			Transport:   s.cfg.Playback.Transport,
			PhraseCount: s.Timeline.Len(),
		})
		if err != nil {
			_ = store.Close()
		}
	}
	if err != nil {
		logging.WarnWithContext(logger, "journal unavailable", "journal_open_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "this session will not appear in parley history"),
			logging.String(logging.FieldErrorHint, "run parley doctor to check the state directory"))
		return
	}
	s.store = store
	s.rec = newRecorder(store, s.ID, logger)
}

// LoadErr reports why the audio could not be loaded, or nil when playback
// is available.
func (s *Session) LoadErr() error { return s.loadErr }

// Controller returns the session's playback controller.
func (s *Session) Controller() *playback.Controller { return s.ctl }

// Logger returns the session-scoped logger.
func (s *Session) Logger() *slog.Logger { return s.logger }

// RecordError journals a failure that was reported to the user.
func (s *Session) RecordError(err error) {
	s.rec.recordError(err)
}

// Close tears the session down in reverse order of Start: control socket,
// controller, journal recorder, journal, session log, lock. It returns the
// first error encountered; later calls return the same result.
func (s *Session) Close(ctx context.Context) error {
	s.closeOnce.Do(func() {
		s.closeErr = s.close(ctx)
	})
	return s.closeErr
}

func (s *Session) close(ctx context.Context) error {
	var errs []error
	if s.server != nil {
		s.server.Close()
	}
	finalStatus := "failed"
	if s.ctl != nil {
		state := s.ctl.State()
		if state.Available {
			finalStatus = state.Status.String()
		}
		if err := s.ctl.Close(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if s.recDone != nil {
		<-s.recDone
	}
	if s.store != nil {
		if err := s.store.EndSession(context.Background(), s.ID, finalStatus); err != nil {
			logging.WarnWithContext(s.logger, "journal end failed", "journal_write_failed",
				logging.Error(err),
				logging.String(logging.FieldImpact, "session shows as unfinished in parley history"))
		}
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close journal: %w", err))
		}
	}
	if s.logger != nil {
		s.logger.Info("session closed", logging.String("final_status", finalStatus))
	}
	if s.closeLog != nil {
		if err := s.closeLog(); err != nil {
			errs = append(errs, fmt.Errorf("close session log: %w", err))
		}
	}
	if s.lock != nil {
		if err := s.lock.Unlock(); err != nil {
			errs = append(errs, fmt.Errorf("release lock: %w", err))
		}
	}
	return errors.Join(errs...)
}
