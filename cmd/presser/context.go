package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/mattn/go-isatty"

	"presser/internal/batch"
	"presser/internal/config"
	"presser/internal/gazelle"
	"presser/internal/history"
	"presser/internal/logging"
	"presser/internal/organizer"
	"presser/internal/scrape"
	"presser/internal/services"
	"presser/internal/services/flaccli"
	"presser/internal/services/qobuzdl"
	"presser/internal/torrent"
	"presser/internal/workflow"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// session bundles everything a pipeline command needs: a signal-aware
// context, a logger, the single-instance lock, and an optional history store.
type session struct {
	ctx    context.Context
	cancel context.CancelFunc
	cfg    *config.Config
	logger *slog.Logger
	lock   *flock.Flock
	store  *history.Store
}

// newSession loads configuration, takes the instance lock, and opens the
// history store. The pipeline assumes it is the only writer to the download
// and destination directories, so a second concurrent instance is refused.
func (c *commandContext) newSession() (*session, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("initialize logging: %w", err)
	}

	lock := flock.New(filepath.Join(cfg.Paths.LogDir, "presser.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire instance lock: %w", err)
	}
	if !locked {
		return nil, services.Wrap(services.ErrConfiguration, "startup", "instance lock",
			"another presser instance is running", nil)
	}

	store, err := history.Open(cfg)
	if err != nil {
		logger.Warn("history store unavailable", logging.Error(err))
		store = nil
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	ctx = services.WithSessionID(ctx, uuid.NewString())

	return &session{
		ctx:    ctx,
		cancel: cancel,
		cfg:    cfg,
		logger: logger,
		lock:   lock,
		store:  store,
	}, nil
}

func (s *session) close() {
	s.cancel()
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.logger.Warn("close history store", logging.Error(err))
		}
	}
	if err := s.lock.Unlock(); err != nil {
		s.logger.Warn("release instance lock", logging.Error(err))
	}
}

// orchestrator wires the pipeline collaborators from configuration. With
// interactive set, derived submission fields are offered for review on the
// terminal before upload.
func (s *session) orchestrator(interactive bool) *workflow.Orchestrator {
	cfg := s.cfg

	deps := workflow.Deps{
		Acquirer: qobuzdl.NewDetector(
			qobuzdl.NewCLI(qobuzdl.WithBinary(cfg.Tools.QobuzDLBinary)), s.logger),
		Flac:     flaccli.NewCLI(s.logger, flaccli.WithBinary(cfg.Tools.FlacBinary)),
		Files:    organizer.New(s.logger),
		Torrents: torrent.NewBuilder(cfg.Tracker.AnnounceURL, cfg.Tracker.SourceTag, s.logger),
		Scraper: scrape.NewClient(
			time.Duration(cfg.Scrape.RequestTimeout)*time.Second, cfg.Scrape.UserAgent, s.logger),
		Uploader: gazelle.NewClient(
			cfg.Tracker.APIURL, cfg.Tracker.APIKey,
			time.Duration(cfg.Tracker.RequestTimeout)*time.Second, s.logger),
		Queue: batch.NewQueue(cfg.Paths.QueueFile),
	}
	if s.store != nil {
		deps.Recorder = s.store
	}
	if interactive {
		deps.Editor = newTerminalEditor()
	}
	return workflow.New(cfg, deps, s.logger)
}

func stdinIsTerminal() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
}
