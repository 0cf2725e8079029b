package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/verdanta/greenflow"
	"github.com/verdanta/greenflow/internal/blob"
	"github.com/verdanta/greenflow/internal/config"
	"github.com/verdanta/greenflow/internal/identity"
	"github.com/verdanta/greenflow/internal/logging"
	"github.com/verdanta/greenflow/internal/metrics"
	"github.com/verdanta/greenflow/internal/payment"
	"github.com/verdanta/greenflow/internal/storage/sqlite"
	httpAdapter "github.com/verdanta/greenflow/pkg/adapters/http"
	"github.com/verdanta/greenflow/pkg/adapters/memory"
	redisAdapter "github.com/verdanta/greenflow/pkg/adapters/redis"
	"github.com/verdanta/greenflow/pkg/adapters/yamlfile"
	"github.com/verdanta/greenflow/pkg/ports"
	"github.com/verdanta/greenflow/pkg/session"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Greenflow API server",
	Long:  `Starts the REST API: questionnaire sessions, claim management, document uploads and certification checkout.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runServe(cmd); err != nil {
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Listen address (overrides GREENFLOW_ADDR)")
}

func runServe(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.Addr = addr
	}
	if dir, _ := cmd.Flags().GetString("graphs"); cmd.Flags().Changed("graphs") {
		cfg.GraphDir = dir
	}

	logger := logging.New(logging.ParseLevel(cfg.LogLevel))
	m := metrics.New()

	if err := httpAdapter.ValidateSpec(cmd.Context()); err != nil {
		return err
	}

	engine, err := greenflow.New(cmd.Context(),
		greenflow.WithLogger(logger),
		greenflow.WithSource(yamlfile.NewSource(cfg.GraphDir)),
		greenflow.WithLifecycleHooks(m.Hooks()),
	)
	if err != nil {
		return err
	}

	// Sessions: Redis with distributed locking when configured, memory
	// otherwise.
	var (
		store  ports.StateStore
		locker ports.DistributedLocker
	)
	if cfg.RedisAddr != "" {
		client := goredis.NewClient(&goredis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(cmd.Context()).Err(); err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		store = redisAdapter.NewStore(client)
		locker = redisAdapter.NewLocker(client, "greenflow:lock:")
		logger.Info("sessions backed by redis", "addr", cfg.RedisAddr)
	} else {
		store = memory.NewStore()
		logger.Info("sessions backed by memory store")
	}
	managerOpts := []session.Option{session.WithLogger(logger)}
	if locker != nil {
		managerOpts = append(managerOpts, session.WithLocker(locker))
	}
	sessions := session.NewManager(store, managerOpts...)

	claimStore, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer claimStore.Close()

	blobs, err := blob.NewDirStore(cfg.BlobDir)
	if err != nil {
		return err
	}

	provider := identity.NewStaticProvider(map[string]identity.User{
		cfg.UserToken:  {ID: "user", Name: "Default User", Role: identity.RoleUser},
		cfg.AdminToken: {ID: "admin", Name: "Default Admin", Role: identity.RoleAdmin},
	})

	api := httpAdapter.NewServer(engine, sessions, claimStore, provider,
		httpAdapter.WithLogger(logger),
		httpAdapter.WithMetrics(m),
		httpAdapter.WithPayments(payment.NewFakeGateway()),
		httpAdapter.WithBlobs(blobs),
	)

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: api.Handler(),
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)

	go func() {
		logger.Info("starting greenflow server",
			"addr", srv.Addr, "graphs", cfg.GraphDir, "db", cfg.DBPath)
		serverErrors <- srv.ListenAndServe()
	}()

	// Channel to listen for interrupt or terminate signals.
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return err

	case sig := <-shutdown:
		logger.Info("starting shutdown", "signal", sig.String())

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("graceful shutdown did not complete", "err", err)
			if err := srv.Close(); err != nil {
				return fmt.Errorf("could not stop server: %w", err)
			}
		}
		logger.Info("greenflow server stopped")
		return nil
	}
}
