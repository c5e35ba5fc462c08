package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"golang.org/x/sync/errgroup"

	"github.com/mdtanveer0786/roommate-expense-tracker/internal/api"
	"github.com/mdtanveer0786/roommate-expense-tracker/internal/auth"
	"github.com/mdtanveer0786/roommate-expense-tracker/internal/config"
	"github.com/mdtanveer0786/roommate-expense-tracker/internal/events"
	"github.com/mdtanveer0786/roommate-expense-tracker/internal/models"
	"github.com/mdtanveer0786/roommate-expense-tracker/internal/service"
)

// serveCmd represents the serve command.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the household expense API server",
	Long: `Start the HTTP API server.

The server exposes the REST API under /api/v1, a Prometheus /metrics
endpoint and /healthz. The storage backend, household login and AMQP
event publishing are configured through the environment.

Example:
  roomie serve
  DATA_BACKEND=bolt roomie serve`,
	Run: runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	cfg := loadConfig()

	profile, err := config.LoadProfile(cfg.ProfilePath)
	exitOnError(err, "failed to load household profile")

	store, err := openStore(cfg)
	exitOnError(err, "failed to initialize storage")
	defer store.Close()
	slog.Info("Storage initialized", "backend", cfg.DataBackend)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	members := service.NewMemberService(store)
	seedRoster(ctx, members, profile)

	var publisher events.Publisher
	if cfg.EventsEnabled() {
		amqp, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		exitOnError(err, "failed to connect to AMQP broker")
		defer amqp.Close()
		publisher = amqp
		slog.Info("Event publishing enabled", "exchange", cfg.AMQPExchange)
	}

	deps := api.Deps{
		Members:     members,
		Expenses:    service.NewExpenseService(store, publisher),
		Settlements: service.NewSettlementService(store, publisher, nil),
		Reports:     service.NewReportService(store),
		Categories:  profile.Categories,
		Household:   profile.Name,
	}
	if cfg.AuthEnabled() {
		gate, err := auth.NewGate(cfg.AuthPassword)
		exitOnError(err, "failed to set up household login")
		deps.Gate = gate
		deps.JWT = auth.NewJWTManager(cfg.JWTSecret, cfg.TokenDuration)
		slog.Info("Authentication enabled", "token_duration", cfg.TokenDuration)
	}

	// h2c serves HTTP/2 without TLS, for use behind a trusted proxy.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           h2c.NewHandler(api.NewRouter(deps), &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		slog.Info("Server starting", "address", srv.Addr, "household", profile.Name)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		slog.Info("Shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	exitOnError(group.Wait(), "server failed")
	slog.Info("Server stopped gracefully")
}

// seedRoster creates the profile's members when the store is empty. Reruns
// are no-ops so restarting the server never duplicates the roster.
func seedRoster(ctx context.Context, members *service.MemberService, profile *config.Profile) {
	if len(profile.Members) == 0 {
		return
	}
	existing, err := members.ListMembers(ctx)
	if err != nil {
		slog.Warn("Failed to check roster before seeding", "error", err)
		return
	}
	if len(existing) > 0 {
		return
	}
	for _, seed := range profile.Members {
		member := models.Member{Name: seed.Name, Color: seed.Color, Avatar: seed.Avatar}
		if err := members.CreateMember(ctx, &member); err != nil {
			slog.Warn("Failed to seed member", "name", seed.Name, "error", err)
		}
	}
	slog.Info("Seeded roster from profile", "members", len(profile.Members))
}
