package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/srliao/streetfire/internal/stats"
	"github.com/srliao/streetfire/internal/transport"
	"github.com/srliao/streetfire/pkg/game"
	"github.com/srliao/streetfire/pkg/gesture"

	//moves
	_ "github.com/srliao/streetfire/internal/move/block"
	_ "github.com/srliao/streetfire/internal/move/hadouken"
	_ "github.com/srliao/streetfire/internal/move/hook"
	_ "github.com/srliao/streetfire/internal/move/jab"
	_ "github.com/srliao/streetfire/internal/move/sonicboom"
)

func main() {
	pPtr := flag.String("p", "config.yaml", "which profile to use")
	addr := flag.String("a", "", "listen address; overrides the profile")
	db := flag.String("db", "", "stats database; overrides the profile")
	debugPtr := flag.String("d", "", "output level: debug, info, warn; overrides the profile")
	auto := flag.Bool("auto", false, "start calibrating as soon as the server is up")
	flag.Parse()

	cfg, err := game.LoadProfile(*pPtr)
	if err != nil {
		log.Fatal(err)
	}
	if *addr != "" {
		cfg.Transport.Addr = *addr
	}
	if *db != "" {
		cfg.Stats.Path = *db
	}
	if *debugPtr != "" {
		cfg.LogLevel = *debugPtr
	}
	//the live rig is driven by gloves, never by a script
	cfg.Script = ""

	logger, err := game.NewLogger(cfg.LogConfig)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	if err := run(cfg, *auto, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatalw("server stopped", "err", err)
	}
}

func run(cfg game.Profile, auto bool, logger *zap.SugaredLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rec, err := stats.Open(cfg.Stats.Path, logger.Named("stats"))
	if err != nil {
		return err
	}
	defer rec.Close()

	mb, err := gesture.NewMailbox(gesture.DefaultDepth, logger)
	if err != nil {
		return err
	}
	m, err := game.NewMatch(cfg, mb, logger.Named("match"))
	if err != nil {
		return err
	}
	m.OnMatchOver = func(r game.MatchResult) {
		if _, err := rec.Record(r); err != nil {
			logger.Errorw("could not record match", "err", err)
		}
	}

	hub := transport.NewHub(mb, logger.Named("hub"))
	hub.OnReady = m.MarkReady
	defer hub.Close()
	go gesture.Feed(ctx, hub.Frames(), &gesture.LabelRecognizer{}, mb, logger.Named("feed"))

	mux := http.NewServeMux()
	ws := hub.Handler()
	mux.Handle("/ws", ws)
	mux.Handle("/sensor", ws)
	mux.HandleFunc("/start", control(m.Start))
	mux.HandleFunc("/pause", control(m.Pause))
	mux.HandleFunc("/resume", control(m.Resume))
	mux.HandleFunc("/reset", control(func() error {
		m.Reset()
		return nil
	}))
	results := rec.Handler()
	mux.Handle("/results", results)
	mux.Handle("/results/", results)

	srv := &http.Server{Addr: cfg.Transport.Addr, Handler: mux}
	go func() {
		logger.Infow("listening", "addr", cfg.Transport.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalw("listen failed", "err", err)
		}
	}()
	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			logger.Warnw("http shutdown", "err", err)
		}
	}()

	if auto {
		if err := m.Start(); err != nil {
			return err
		}
	}
	return m.Run(ctx, func(s game.Status) {
		if err := hub.Broadcast(s); err != nil {
			logger.Warnw("broadcast failed", "err", err)
		}
	})
}

//control wraps a match control as a POST endpoint
func control(fn func() error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if err := fn(); err != nil {
			code := http.StatusInternalServerError
			if errors.Is(err, game.ErrBadState) {
				code = http.StatusConflict
			}
			http.Error(w, err.Error(), code)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
