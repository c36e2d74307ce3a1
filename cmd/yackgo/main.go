package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"yackgo/pkg/adjust"
	"yackgo/pkg/audio"
	"yackgo/pkg/beacon"
	"yackgo/pkg/clock"
	"yackgo/pkg/command"
	"yackgo/pkg/config"
	"yackgo/pkg/core"
	"yackgo/pkg/db"
	"yackgo/pkg/db/maintenance"
	"yackgo/pkg/host"
	"yackgo/pkg/input"
	"yackgo/pkg/input/serial"
	"yackgo/pkg/input/terminal"
	"yackgo/pkg/logging"
	"yackgo/pkg/metrics"
	"yackgo/pkg/probe"
	"yackgo/pkg/session"
	"yackgo/pkg/settings"
	"yackgo/pkg/store"
	"yackgo/pkg/trainer"
	"yackgo/pkg/version"
)

var (
	configPath   = flag.String("config", "configs/yackgo.yaml", "Path to the config file")
	messagesPath = flag.String("messages", "data/messages.csv", "CSV file of preset messages imported at startup")
	initConfig   = flag.Bool("init-config", false, "Generate default config file and exit")
	listPorts    = flag.Bool("list-ports", false, "List serial ports and exit")
)

func main() {
	flag.Parse()

	if *initConfig {
		if err := config.GenerateDefault(*configPath); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to generate config: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Config file generated:", *configPath)
		return
	}

	if *listPorts {
		ports, err := serial.Ports()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to list serial ports: %v\n", err)
			os.Exit(1)
		}
		for _, p := range ports {
			fmt.Println(p)
		}
		return
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Failed to read .env: %v\n", err)
	}

	if err := run(context.Background(), *configPath, *messagesPath, os.Stdin); err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL ERROR: Application failed: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath, messagesPath string, stdin *os.File) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	appCfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	cleanupLogs, err := logging.Init(&appCfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer cleanupLogs()

	slog.Info("yackgo started", "version", version.Version, "git", version.GitSHA)

	dbConn, st, err := initDB(appCfg)
	if err != nil {
		return err
	}
	defer dbConn.Close()

	if err := maintenance.Run(ctx, st, messagesPath); err != nil {
		slog.Error("Maintenance tasks failed", "error", err)
	}

	set := settings.Load(ctx, config.NewProvider(appCfg, st), st, slog.Default())

	tone, err := initAudio(appCfg, set)
	if err != nil {
		return err
	}
	defer tone.Close()

	// Startup Probes
	probes := []probe.Probe{
		{Name: "Settings Store", Check: probe.StoreCheck(st), Critical: true},
		{Name: "Message Slots", Check: probe.MessagesCheck(st), Critical: true},
		{Name: "Paddle Input", Check: probe.InputCheck(&appCfg.Input, stdin), Critical: true},
	}
	if m, ok := tone.(*audio.Manager); ok {
		probes = append(probes, probe.Probe{
			Name:     "Sidetone Audio",
			Check:    probe.AudioCheck(m.Start),
			Critical: false, // the keyer still drives the TX line without sound
		})
	}
	results := probe.Run(ctx, probes)
	if err := probe.AnalyzeResults(nil, results); err != nil {
		return fmt.Errorf("startup checks failed: %w", err)
	}

	src, tx, err := openInput(appCfg, stdin)
	if err != nil {
		return err
	}
	defer src.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := metrics.New()
	if appCfg.Metrics.Address != "" {
		srv := &http.Server{
			Addr:              appCfg.Metrics.Address,
			Handler:           newMux(m, set),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := runServerLifecycle(ctx, srv); err != nil {
				slog.Error("Metrics server failed", "error", err)
			}
		}()
	}

	eng := host.New(ctx, clock.Real{}, src.Events(), tx, tone, set, st, host.Options{
		TickRate:       appCfg.Keyer.TickRate,
		TuneDuration:   time.Duration(appCfg.Engine.TuneDuration),
		MessageTimeout: time.Duration(appCfg.Engine.MessageTimeout),
		OnInputClosed:  cancel,
	})
	defer eng.Close()

	sess := session.New(session.Options{
		TickRate: appCfg.Keyer.TickRate,
		Seed:     appCfg.Keyer.Seed,
		Metrics:  m,
	})

	adj := adjust.New(eng, sess, appCfg.Keyer.AdjustRepeat)
	tr := trainer.New(eng, sess, time.Duration(appCfg.Keyer.TrainerTimeout))
	bcn := beacon.New(eng, sess, beacon.Options{
		UserSlot:      appCfg.Keyer.BeaconUserSlot,
		MessageSlot:   appCfg.Keyer.BeaconSlot,
		RecordTimeout: time.Duration(appCfg.Keyer.RecordTimeout),
	})
	ctrl := command.New(eng, sess, adj, tr, bcn, command.Options{
		IdleTimeout:  time.Duration(appCfg.Keyer.IdleTimeout),
		MacroTimeout: time.Duration(appCfg.Keyer.MacroTimeout),
	})

	sched := core.NewScheduler(eng, ctrl, slog.Default())
	sched.AddJob(core.NewBeaconJob(bcn))
	sched.Start(ctx)

	// Anything still dirty, for example after the input closed mid-adjustment.
	saveCtx, saveCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer saveCancel()
	if err := set.Save(saveCtx); err != nil {
		slog.Warn("Failed to save settings on exit", "error", err)
	}
	slog.Info("yackgo stopped")
	return nil
}

func initDB(appCfg *config.Config) (*db.DB, store.Store, error) {
	dbConn, err := db.Init(appCfg.DB.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return dbConn, store.NewSQLiteStore(dbConn), nil
}

func initAudio(appCfg *config.Config, set *settings.Manager) (audio.Sidetone, error) {
	if !appCfg.Audio.Enabled {
		slog.Info("Sidetone audio disabled")
		return audio.Silent{}, nil
	}
	m, err := audio.New(&appCfg.Audio, set.Pitch())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize audio: %w", err)
	}
	return m, nil
}

// openInput returns the paddle source and, for serial boards, the TX line.
func openInput(appCfg *config.Config, stdin *os.File) (input.Source, input.Transmitter, error) {
	switch appCfg.Input.Provider {
	case "serial":
		p, err := serial.Open(appCfg.Input.Serial, slog.Default())
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open serial input: %w", err)
		}
		return p, p, nil
	default:
		s, err := terminal.Open(stdin, slog.Default())
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open terminal input: %w", err)
		}
		return s, nil, nil
	}
}

type status struct {
	Version    string   `json:"version"`
	Mode       string   `json:"mode"`
	WPM        int      `json:"wpm"`
	Pitch      float64  `json:"pitch"`
	Farnsworth string   `json:"farnsworth"`
	LastLog    string   `json:"last_log"`
	Transcript []string `json:"transcript"`
}

func newMux(m *metrics.Metrics, set *settings.Manager) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", m.Handler())
	mux.HandleFunc("GET /status", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(status{
			Version:    version.Version,
			Mode:       set.Mode().String(),
			WPM:        set.WPM(),
			Pitch:      set.Pitch(),
			Farnsworth: set.Farnsworth().String(),
			LastLog:    logging.GlobalLogCapture.GetLastLine(),
			Transcript: logging.GlobalTranscriptCapture.Recent(),
		})
	})
	return mux
}

func runServerLifecycle(ctx context.Context, srv *http.Server) error {
	slog.Info("Starting metrics server", "addr", srv.Addr)
	serverErrors := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()
	select {
	case <-ctx.Done():
		slog.Info("Context cancelled, shutting down metrics server...")
	case err := <-serverErrors:
		return fmt.Errorf("server failed: %w", err)
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
