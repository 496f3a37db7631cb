package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/eduquest/eduquest/internal/cache"
	"github.com/eduquest/eduquest/internal/config"
	"github.com/eduquest/eduquest/internal/coursegen"
	"github.com/eduquest/eduquest/internal/llm"
	"github.com/eduquest/eduquest/internal/logger"
	"github.com/eduquest/eduquest/internal/progression"
	"github.com/eduquest/eduquest/internal/scheduler"
	"github.com/eduquest/eduquest/internal/server"
	"github.com/eduquest/eduquest/internal/store"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the daily jobs",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var (
			redisClient *redis.Client
			catalog     server.CourseWriter
		)
		rt, err := openRuntime(cmd, envOptions{
			catalog: func(cfg *config.Config, st *store.Store) (progression.Catalog, error) {
				if cfg.Redis.Addr == "" {
					catalog = st.CourseRepo()
					return st.CourseRepo(), nil
				}
				client, err := cache.NewRedisClient(ctx, cfg.Redis)
				if err != nil {
					return nil, err
				}
				redisClient = client
				cached := cache.NewCachedCatalog(st.CourseRepo(), cache.New(client, cfg.Redis.TTL), logger.Get().Named("cache"))
				catalog = cached
				return cached, nil
			},
		})
		if err != nil {
			return err
		}
		defer rt.Close()
		log := rt.log

		checks := map[string]func(context.Context) error{
			"db": rt.store.DB().PingContext,
		}
		if redisClient != nil {
			defer redisClient.Close()
			checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
			log.Info("catalog cache enabled", zap.String("redis", rt.cfg.Redis.Addr))
		}

		deps := server.Deps{
			Service: rt.service,
			Courses: catalog,
			Checks:  checks,
			Logger:  log.Named("http"),
		}
		if llmCfg, ok := rt.cfg.LLMProviderConfig(); ok {
			provider, err := llm.NewProviderFromConfig(ctx, coursegen.ProviderConfig(llmCfg), rt.store.EventRepo(), log.Named("llm"))
			if err != nil {
				log.Warn("course generation disabled", zap.Error(err))
			} else {
				deps.Generator = coursegen.New(provider, coursegen.DefaultConfig())
			}
		}

		srv := server.New(rt.cfg.Server, deps)

		jobs := scheduler.New(rt.cfg.Scheduler, scheduler.Deps{
			Users:    rt.store.ProgressRepo(),
			Quests:   rt.service,
			Events:   rt.store.EventRepo(),
			Attempts: srv,
			Logger:   log.Named("scheduler"),
		})
		if err := jobs.Start(); err != nil {
			return fmt.Errorf("start scheduler: %w", err)
		}
		defer jobs.Stop()
		addr := rt.cfg.Server.Addr
		if a, _ := cmd.Flags().GetString("addr"); a != "" {
			addr = a
		}

		errCh := make(chan error, 1)
		go func() {
			log.Info("starting server", zap.String("addr", addr))
			errCh <- srv.Listen(addr)
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case err := <-errCh:
			if err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("server: %w", err)
			}
			return nil
		case <-quit:
		}

		log.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		log.Info("server stopped")
		return nil
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides server.addr)")
}
