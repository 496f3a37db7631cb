package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/eduquest/eduquest/internal/app"
	"github.com/eduquest/eduquest/internal/config"
	"github.com/eduquest/eduquest/internal/course"
	"github.com/eduquest/eduquest/internal/llm"
	"github.com/eduquest/eduquest/internal/logger"
	"github.com/eduquest/eduquest/internal/progression"
	"github.com/eduquest/eduquest/internal/screens"
	"github.com/eduquest/eduquest/internal/store"
	"github.com/eduquest/eduquest/internal/tutor"
)

// runtime is what every command works with once the config is loaded and
// the store is open.
type runtime struct {
	cfg     *config.Config
	dbPath  string
	store   *store.Store
	service *progression.Service
	userID  string
	log     *zap.Logger
}

// envOptions tune openRuntime per command.
type envOptions struct {
	// logToFile keeps log output away from the terminal; the TUI owns it.
	logToFile bool

	// catalog replaces the store's course repo, as the API does with the
	// redis cache.
	catalog func(*config.Config, *store.Store) (progression.Catalog, error)
}

// openRuntime loads configuration, sets up logging, opens the store,
// seeds the built-in course and makes sure the learner exists.
func openRuntime(cmd *cobra.Command, opts envOptions) (*runtime, error) {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	dbPath, err := resolveDBPath(cmd, cfg.DB.Path)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}

	logCfg := cfg.Log
	if opts.logToFile && logCfg.File == "" {
		logCfg.File = filepath.Join(filepath.Dir(dbPath), "eduquest.log")
	}
	if err := logger.Initialize(logCfg); err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	log := logger.Get()

	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	ctx := cmd.Context()
	if err := seedCatalog(ctx, st.CourseRepo(), log); err != nil {
		st.Close()
		return nil, err
	}

	var catalog progression.Catalog = st.CourseRepo()
	if opts.catalog != nil {
		if catalog, err = opts.catalog(cfg, st); err != nil {
			st.Close()
			return nil, err
		}
	}

	userID := cfg.User.ID
	if u, _ := cmd.Flags().GetString("user"); u != "" {
		userID = u
	}

	svc := progression.NewService(st.ProgressRepo(), catalog, progression.WithLogger(log.Named("progression")))
	if _, err := svc.EnsureUser(ctx, userID, cfg.User.Name); err != nil {
		st.Close()
		return nil, fmt.Errorf("ensure user: %w", err)
	}

	log.Debug("runtime ready", zap.String("db", dbPath), zap.String("user", userID))
	return &runtime{cfg: cfg, dbPath: dbPath, store: st, service: svc, userID: userID, log: log}, nil
}

func (r *runtime) Close() {
	if err := r.store.Close(); err != nil {
		r.log.Warn("close store", zap.Error(err))
	}
	_ = logger.Sync()
}

// seedCatalog stores the built-in course on first run.
func seedCatalog(ctx context.Context, repo store.CourseRepo, log *zap.Logger) error {
	seed, err := course.Seed()
	if err != nil {
		return fmt.Errorf("load seed course: %w", err)
	}
	inserted, err := repo.EnsureCourse(ctx, seed)
	if err != nil {
		return fmt.Errorf("seed course: %w", err)
	}
	if inserted {
		log.Info("seeded built-in course", zap.String("course", seed.ID))
	}
	return nil
}

// provider builds the configured LLM provider. It returns
// llm.ErrNotConfigured when none is set up.
func (r *runtime) provider(ctx context.Context) (llm.Provider, error) {
	cfg, ok := r.cfg.LLMProviderConfig()
	if !ok {
		return nil, llm.ErrNotConfigured
	}
	return llm.NewProviderFromConfig(ctx, cfg, r.store.EventRepo(), r.log.Named("llm"))
}

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	rt, err := openRuntime(cmd, envOptions{logToFile: true})
	if err != nil {
		return err
	}
	defer rt.Close()

	deps := screens.Deps{
		Service: rt.service,
		UserID:  rt.userID,
		Logger:  rt.log.Named("tui"),
	}

	// LLM provider is optional; only QuestBot needs it.
	provider, err := rt.provider(cmd.Context())
	offline, _ := cmd.Flags().GetBool("offline")
	switch {
	case offline:
		rt.log.Info("QuestBot disabled: offline")
	case errors.Is(err, llm.ErrNotConfigured):
		rt.log.Info("QuestBot disabled: no LLM provider")
	case err != nil:
		fmt.Fprintln(os.Stderr, "LLM provider not available:", err)
		fmt.Fprintln(os.Stderr, "QuestBot will be unavailable.")
	default:
		deps.NewTutor = func(l *course.Lesson) *tutor.Bot {
			return tutor.New(provider, tutor.Options{Lesson: l, Learner: rt.userID})
		}
	}

	return app.Run(deps)
}
