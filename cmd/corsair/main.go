// Command corsair plays Coders of the Caribbean over stdin/stdout.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/Vinatorul/Coders-Of-The-Caribbean/agent"
	"github.com/Vinatorul/Coders-Of-The-Caribbean/config"
	"github.com/Vinatorul/Coders-Of-The-Caribbean/game"
	"github.com/Vinatorul/Coders-Of-The-Caribbean/hazard"
	"github.com/Vinatorul/Coders-Of-The-Caribbean/logging"
	"github.com/Vinatorul/Coders-Of-The-Caribbean/protocol"
	"github.com/Vinatorul/Coders-Of-The-Caribbean/spectate"
	"github.com/Vinatorul/Coders-Of-The-Caribbean/store"
)

func main() {
	configPath := flag.String("config", "", "Optional YAML tuning file; defaults are used for anything it omits")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn, error")
	logFormat := flag.String("log-format", logging.FormatPretty, "Log format: pretty, json, text")
	archiveDir := flag.String("archive-dir", "", "If set, write a parquet archive of every turn into this directory")
	matchID := flag.String("match-id", "", "Archive and spectator match id (random if empty)")
	spectateURL := flag.String("spectate", "", "If set, stream every turn to this websocket URL")
	flag.Parse()

	level, err := logging.ParseLevel(*logLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	log, err := logging.New(os.Stderr, level, *logFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	cfg := config.Default()
	if *configPath != "" {
		if cfg, err = config.Load(*configPath); err != nil {
			log.Error("config", "path", *configPath, "error", err)
			os.Exit(2)
		}
	}
	if *matchID == "" {
		*matchID = uuid.NewString()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s := newSession(log, cfg, *matchID)
	if *archiveDir != "" {
		if s.archive, err = store.NewArchiveWriter(*archiveDir, *matchID); err != nil {
			s.log.Warn("archive disabled", "error", err)
		}
	}
	if *spectateURL != "" {
		if s.feed, err = spectate.Dial(ctx, spectate.Config{URL: *spectateURL, WriteTimeout: cfg.TurnBudget / 2}); err != nil {
			s.log.Warn("spectator disabled", "error", err)
		}
	}

	err = s.run(ctx, os.Stdin, os.Stdout)
	s.close()
	if err != nil {
		s.log.Error("match aborted", "tick", s.world.Tick, "error", err)
		os.Exit(1)
	}
}

type session struct {
	log     *slog.Logger
	matchID string
	budget  time.Duration

	agent *agent.Agent
	world *game.World

	archive *store.ArchiveWriter
	feed    *spectate.Publisher
}

// newSession tags every line it logs, the agent's included, with the match id.
func newSession(log *slog.Logger, cfg config.Config, matchID string) *session {
	log = log.With("match", matchID)
	return &session{
		log:     log,
		matchID: matchID,
		budget:  cfg.TurnBudget,
		agent:   agent.New(cfg, log),
		world:   game.NewWorld(),
	}
}

type frameResult struct {
	frame game.Frame
	err   error
}

// run plays until the input ends or ctx is cancelled. Frames are read on a
// separate goroutine so a signal is noticed while blocked on stdin.
func (s *session) run(ctx context.Context, in io.Reader, out io.Writer) error {
	frames := make(chan frameResult)
	go func() {
		r := protocol.NewReader(in)
		for {
			f, err := r.ReadFrame()
			select {
			case frames <- frameResult{f, err}:
			case <-ctx.Done():
				return
			}
			if err != nil {
				return
			}
		}
	}()

	w := bufio.NewWriter(out)
	for {
		var fr frameResult
		select {
		case <-ctx.Done():
			s.log.Info("interrupted", "tick", s.world.Tick)
			return nil
		case fr = <-frames:
		}
		if errors.Is(fr.err, io.EOF) {
			s.log.Info("input closed", "ticks", s.world.Tick)
			return nil
		}
		if fr.err != nil {
			return fr.err
		}
		if err := s.turn(fr.frame, w); err != nil {
			return err
		}
	}
}

func (s *session) turn(f game.Frame, w *bufio.Writer) error {
	start := time.Now()
	s.world.Apply(f)
	field := hazard.Build(s.world)
	decisions := s.agent.Decide(s.world, field)

	cmds := make([]game.Command, len(decisions))
	for i, d := range decisions {
		cmds[i] = d.Command
	}
	if err := protocol.WriteCommands(w, cmds); err != nil {
		return fmt.Errorf("write commands: %w", err)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush commands: %w", err)
	}
	elapsed := time.Since(start)

	if len(decisions) != f.MyShipCount {
		s.log.Warn("ship count mismatch", "tick", s.world.Tick, "reported", f.MyShipCount, "live", len(decisions))
	}
	impacts, mines, barrels := field.Counts()
	s.log.Info("turn",
		"tick", s.world.Tick,
		"ships", len(decisions),
		"barrels", barrels,
		"mines", mines,
		"impact_cells", impacts,
		"elapsed", elapsed,
	)
	if s.budget > 0 && elapsed > s.budget {
		s.log.Warn("over turn budget", "tick", s.world.Tick, "elapsed", elapsed, "budget", s.budget)
	}

	s.record(store.Snapshot(s.matchID, s.world, decisions, elapsed))
	return nil
}

// record archives and broadcasts a turn after the commands are out.
// Failures here never affect play.
func (s *session) record(row store.TurnRow) {
	if s.archive != nil {
		if err := s.archive.Write(row); err != nil {
			s.log.Warn("archive write failed, archive disabled", "tick", row.Tick, "error", err)
			s.finalizeArchive()
		}
	}
	if s.feed != nil {
		if err := s.feed.Publish(row); err != nil {
			s.log.Warn("spectator dropped", "tick", row.Tick, "error", err)
			_ = s.feed.Close()
			s.feed = nil
		}
	}
}

func (s *session) finalizeArchive() {
	if s.archive == nil {
		return
	}
	path, rows, err := s.archive.Finalize()
	s.archive = nil
	if err != nil {
		s.log.Warn("archive finalize failed", "error", err)
		return
	}
	if path != "" {
		s.log.Info("archive written", "path", path, "rows", rows)
	}
}

func (s *session) close() {
	s.finalizeArchive()
	if s.feed != nil {
		_ = s.feed.Close()
		s.feed = nil
	}
}
