package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"skirmish/internal/record"
	"skirmish/internal/sim/layout"
	"skirmish/internal/sim/tuning"
	"skirmish/internal/sim/world"
	"skirmish/internal/transport/ws"
)

func main() {
	var (
		addr       = flag.String("addr", ":8080", "http listen address")
		seed       = flag.Int64("seed", 1337, "simulation seed")
		layoutPath = flag.String("layout", "", "path to layout json (default: built-in arena)")
		tuningPath = flag.String("tuning", "./configs/tuning.yaml", "path to tuning.yaml")
		recordDir  = flag.String("record", "", "tick record directory (overrides tuning; empty follows tuning)")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lmicroseconds)

	tune, err := tuning.Load(*tuningPath)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Fatalf("load tuning: %v", err)
		}
		logger.Printf("tuning not found (%s); using defaults", *tuningPath)
		tune = tuning.Default()
	}

	var l *layout.Layout
	if strings.TrimSpace(*layoutPath) != "" {
		l, err = layout.Load(*layoutPath)
		if err != nil {
			logger.Fatalf("load layout: %v", err)
		}
	} else {
		l = layout.Default()
	}

	w, err := world.New(world.WorldConfig{
		TickRateHz: tune.TickRateHz,
		Seed:       *seed,
	}, l, logger)
	if err != nil {
		logger.Fatalf("world: %v", err)
	}

	dir := strings.TrimSpace(*recordDir)
	if dir == "" && tune.Record.Enabled {
		dir = tune.Record.Dir
	}
	if dir != "" {
		rec, err := record.NewRunWriter(dir)
		if err != nil {
			logger.Fatalf("open record: %v", err)
		}
		defer rec.Close()
		w.SetRecorder(rec)
		logger.Printf("recording ticks to %s", rec.Path())
	}

	ctx, cancel := signalContext()
	defer cancel()

	go func() {
		if err := w.Run(ctx); err != nil && err != context.Canceled {
			logger.Printf("world stopped: %v", err)
		}
	}()

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(200)
		_, _ = rw.Write([]byte("ok"))
	})
	mux.HandleFunc("/metrics", func(rw http.ResponseWriter, r *http.Request) {
		rw.Header().Set("Content-Type", "text/plain; version=0.0.4")
		m := w.Metrics()

		// Minimal Prometheus exposition format.
		fmt.Fprintf(rw, "# HELP skirmish_sim_tick Current simulation tick.\n")
		fmt.Fprintf(rw, "# TYPE skirmish_sim_tick gauge\n")
		fmt.Fprintf(rw, "skirmish_sim_tick{layout=%q} %d\n", l.Name, m.Tick)

		fmt.Fprintf(rw, "# HELP skirmish_sim_actors Current number of live actors.\n")
		fmt.Fprintf(rw, "# TYPE skirmish_sim_actors gauge\n")
		fmt.Fprintf(rw, "skirmish_sim_actors{layout=%q} %d\n", l.Name, m.Actors)

		fmt.Fprintf(rw, "# HELP skirmish_sim_clients Current number of connected clients.\n")
		fmt.Fprintf(rw, "# TYPE skirmish_sim_clients gauge\n")
		fmt.Fprintf(rw, "skirmish_sim_clients{layout=%q} %d\n", l.Name, m.Clients)

		fmt.Fprintf(rw, "# HELP skirmish_sim_queue_depth Channel backlog depth.\n")
		fmt.Fprintf(rw, "# TYPE skirmish_sim_queue_depth gauge\n")
		fmt.Fprintf(rw, "skirmish_sim_queue_depth{queue=%q} %d\n", "inbox", m.InboxDepth)
	})
	if envBool("SKIRMISH_ENABLE_PPROF_HTTP", false) {
		mux.HandleFunc("/debug/pprof/", pprof.Index)
		mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
		mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	}
	mux.HandleFunc("/v1/ws", ws.NewServer(w, logger).Handler())

	srv := &http.Server{
		Addr:              *addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel2()
		_ = srv.Shutdown(ctx2)
	}()

	logger.Printf("layout=%s digest=%s seed=%d tick_rate=%dhz", l.Name, l.Digest(), *seed, tune.TickRateHz)
	logger.Printf("listening on %s", *addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("ListenAndServe: %v", err)
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan os.Signal, 2)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ch
		cancel()
	}()
	return ctx, cancel
}

func envBool(key string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return def
	}
}
