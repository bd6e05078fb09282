package cmd

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/gjdunga/ModernItemBlocker/internal/adapter/inbound/console"
	"github.com/gjdunga/ModernItemBlocker/internal/adapter/inbound/http"
	"github.com/gjdunga/ModernItemBlocker/internal/adapter/outbound/auditlog"
	"github.com/gjdunga/ModernItemBlocker/internal/adapter/outbound/state"
	"github.com/gjdunga/ModernItemBlocker/internal/config"
	"github.com/gjdunga/ModernItemBlocker/internal/domain/auth"
	"github.com/gjdunga/ModernItemBlocker/internal/domain/policy"
	"github.com/gjdunga/ModernItemBlocker/internal/service"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the daemon and its console",
	Long: `Start the item blocker daemon.

The daemon reads commands on stdin (the console transport):

  list | add | remove | reload | loglist | help    administrative commands
  epoch                                            re-arm the timed window
  check <category> <name>                          evaluate one name

SIGHUP also re-arms the timed window, for hosts that signal wipes that way.`,
	RunE: runStart,
}

func init() {
	rootCmd.AddCommand(startCmd)
}

func runStart(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := newLogger(cfg.LogLevel)
	cfg.Normalize(logger)

	// Persistence and initial policy state.
	persist := state.NewFileStore(cfg.PolicyFile, logger)
	record, err := persist.Load()
	if err != nil {
		return fmt.Errorf("load policy: %w", err)
	}

	store := policy.NewStore()
	store.LoadSnapshot(record.Snapshot())
	window := policy.NewWindow(record.DurationHours, time.Unix(record.LastEpoch, 0), nil)
	index := policy.BuildIndex(store)
	engine := policy.NewEngine(index, window)
	gate := policy.NewGate(&logRegistrar{logger: logger}, logger)
	gate.Apply(index)

	// Audit sink.
	auditLog, err := auditlog.NewFileLog(cfg.Audit.File, logger)
	if err != nil {
		return fmt.Errorf("open audit log: %w", err)
	}
	defer func() { _ = auditLog.Close() }()

	// Metrics endpoint (optional).
	var metrics service.Instrumentation = service.NopInstrumentation()
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		m := http.NewMetrics(reg)
		metrics = m
		srv := &stdhttp.Server{Addr: cfg.Metrics.Addr, Handler: http.Handler(reg)}
		go func() {
			logger.Info("metrics endpoint listening", "addr", cfg.Metrics.Addr)
			if err := srv.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
				logger.Error("metrics server failed", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	// Services and transport.
	admin := service.NewAdminService(service.AdminDeps{
		Store:          store,
		Engine:         engine,
		Gate:           gate,
		Window:         window,
		Persist:        persist,
		Record:         record,
		Log:            auditLog,
		Metrics:        metrics,
		Logger:         logger,
		MaxAliasLength: cfg.Admin.MaxAliasLength,
		TailLines:      cfg.Audit.TailLines,
		TailBytes:      cfg.Audit.TailBytes,
	})
	exemptions := policy.NewExemptionChain(logger)
	notifier := console.NewNotifier(os.Stdout,
		cfg.Messages.Prefix, cfg.Messages.PrefixColor, cfg.Messages.DenyColor)
	blocks := service.NewBlockService(engine, exemptions, auditLog, notifier, metrics, logger)
	verifier := auth.NewTokenVerifier(cfg.Admin.TokenHashes, logger)
	con := console.New(admin, blocks, verifier, cfg.Admin.MaxAliasLength, logger)

	logger.Info("item blocker started",
		"policy_file", cfg.PolicyFile,
		"duration_hours", record.DurationHours,
		"window_active", window.Active())

	// SIGHUP re-arms the window; SIGINT/SIGTERM shut down.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-hup:
				admin.OnEpoch()
			}
		}
	}()

	// Console loop on stdin.
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	caller := auth.Caller{ID: "console", Name: "console", Console: true}
	for {
		select {
		case <-ctx.Done():
			logger.Info("shutting down")
			return nil
		case line, ok := <-lines:
			if !ok {
				logger.Info("console closed, shutting down")
				return nil
			}
			fmt.Println(con.Handle(caller, line))
		}
	}
}

// newLogger builds the process logger at the configured level.
func newLogger(level string) *slog.Logger {
	var lv slog.Level
	switch level {
	case "debug":
		lv = slog.LevelDebug
	case "warn":
		lv = slog.LevelWarn
	case "error":
		lv = slog.LevelError
	default:
		lv = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lv}))
}

// logRegistrar is the host-boundary stub for event channel registration.
// A real host integration replaces it with the runtime's hook registry;
// here each subscribe/unsubscribe is just recorded.
type logRegistrar struct {
	logger *slog.Logger
}

func (r *logRegistrar) Subscribe(ch policy.Channel) {
	r.logger.Info("event channel enabled", "channel", string(ch))
}

func (r *logRegistrar) Unsubscribe(ch policy.Channel) {
	r.logger.Info("event channel disabled", "channel", string(ch))
}
