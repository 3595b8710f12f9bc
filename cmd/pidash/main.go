// Command pidash is the project and invoice dashboard CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/custodia-labs/pidash/internal/adapters/driven/ai"
	"github.com/custodia-labs/pidash/internal/adapters/driven/config/file"
	"github.com/custodia-labs/pidash/internal/adapters/driven/knowledge"
	"github.com/custodia-labs/pidash/internal/adapters/driven/source"
	"github.com/custodia-labs/pidash/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/pidash/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/pidash/internal/adapters/driven/watcher"
	"github.com/custodia-labs/pidash/internal/adapters/driving/cli"
	"github.com/custodia-labs/pidash/internal/core/domain"
	"github.com/custodia-labs/pidash/internal/core/ports/driven"
	"github.com/custodia-labs/pidash/internal/core/services"
	"github.com/custodia-labs/pidash/internal/logger"
)

// version is set at build time with -ldflags "-X main.version=...".
var version string

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("get home directory: %w", err)
	}
	dataDir := filepath.Join(home, ".pidash")

	var configStore driven.ConfigStore
	configStore, err = file.NewConfigStore(dataDir)
	if err != nil {
		logger.Warn("config file unavailable, settings will not be saved: %v", err)
		configStore = memory.NewConfigStore()
	}
	secrets := file.NewSecretStore(".env", filepath.Join(dataDir, ".env"))
	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator(), secrets)

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	store, err := sqlite.NewStore(dataDir)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer store.Close()

	src, err := source.Open(ctx, settings.Source, store)
	if err != nil {
		logger.Warn("data source unavailable: %v", err)
		src = source.Unavailable(err)
	}
	defer src.Close()

	var cache driven.SnapshotCache = memory.NewSnapshotCache()
	if settings.Cache.Persist {
		cache = store.SnapshotCache()
	}
	loader := services.NewLoader(src, cache, settings.Cache.TTL)

	// Demo data keeps its ask history in memory.
	history := store.HistoryStore()
	if settings.Source.Backend == domain.SourceBackendMemory {
		history = memory.NewHistoryStore()
	}

	var (
		docs    *knowledge.Source
		docsSrc driven.KnowledgeSource
	)
	if settings.Knowledge.DocumentPath != "" {
		docs = knowledge.NewSource(knowledge.Config{
			Path:      settings.Knowledge.DocumentPath,
			ChunkSize: settings.Knowledge.ChunkSize,
		})
		docsSrc = docs
	}

	llm, err := ai.CreateLLMService(&settings.LLM)
	if err != nil {
		logger.Warn("language model unavailable: %v", err)
	}
	if llm != nil {
		defer llm.Close()
	}

	prompts, err := file.NewPromptStore(filepath.Join(dataDir, "prompts"), file.PromptDefaults{
		Templates: map[string]string{
			driven.PromptSystem: services.DefaultSystemPrompt,
			driven.PromptUser:   services.DefaultUserPrompt,
		},
		QuickPrompts: domain.QuickPrompts,
	})
	if err != nil {
		return fmt.Errorf("open prompts: %w", err)
	}

	importFn := func(ctx context.Context, path string) ([]string, error) {
		imported, err := source.ImportWorkbook(ctx, path, store.Warehouse())
		if err != nil {
			return nil, err
		}
		if err := loader.Invalidate(ctx); err != nil {
			logger.Warn("invalidate snapshots: %v", err)
		}
		lines := make([]string, 0, len(imported))
		for _, im := range imported {
			lines = append(lines, fmt.Sprintf("%s -> %s (%d rows)", im.Sheet, im.Table, im.Rows))
		}
		return lines, nil
	}

	watchFn := func(ctx context.Context) error {
		files := []string{}
		if settings.Source.WorkbookPath != "" {
			files = append(files, settings.Source.WorkbookPath)
		}
		if docs != nil {
			files = append(files, docs.Path())
		}
		if len(files) == 0 {
			return nil
		}
		w, err := watcher.New(func(path string) {
			logger.Info("%s changed, reloading", path)
			if docs != nil && sameFile(path, docs.Path()) {
				docs.Invalidate()
			}
			if err := loader.Invalidate(ctx); err != nil {
				logger.Warn("invalidate snapshots: %v", err)
			}
		}, files...)
		if err != nil {
			return fmt.Errorf("watch data files: %w", err)
		}
		defer w.Close()
		w.Run(ctx)
		return nil
	}

	cli.SetServices(cli.Services{
		Dashboard:    services.NewDashboardService(loader),
		Assistant:    services.NewAssistantService(loader, llm, docsSrc, prompts, history),
		Records:      services.NewRecordService(src, loader),
		Settings:     settingsService,
		QuickPrompts: prompts.QuickPrompts(),
		Import:       importFn,
		Watch:        watchFn,
	})
	cli.SetVersion(version)

	return cli.Execute(ctx)
}

func sameFile(a, b string) bool {
	aa, errA := filepath.Abs(a)
	bb, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return a == b
	}
	return aa == bb
}
