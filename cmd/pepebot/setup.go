package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/sandevgo/pepebot/internal/config"
	"github.com/sandevgo/pepebot/internal/core"
	"github.com/sandevgo/pepebot/internal/entity"
	"github.com/sandevgo/pepebot/internal/history"
	"github.com/sandevgo/pepebot/internal/knowledge"
	"github.com/sandevgo/pepebot/internal/providers/llm"
	"github.com/sandevgo/pepebot/internal/providers/search"
	"github.com/sandevgo/pepebot/internal/router"
	"github.com/sandevgo/pepebot/internal/service/command"
	"github.com/sandevgo/pepebot/internal/storage/sqlite"
	"github.com/sandevgo/pepebot/internal/transport/telegram"
	"github.com/sandevgo/pepebot/pkg/log"
	"github.com/sandevgo/pepebot/pkg/srv"
)

func NewServices(ctx context.Context) []srv.Service {
	logger := log.FromCtx(ctx)
	services := make([]srv.Service, 0)

	// init env
	err := initEnv(ctx, config.GetRuntimePath())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init env")
	}

	// 1. Configuration
	appCfg := config.NewAppConfig(ctx)
	llmCfg := config.NewLLMConfig(ctx)
	searchCfg := config.NewSearchConfig(ctx)
	routingCfg := config.NewRoutingConfig(ctx)

	// 2. Storage
	db, err := sqlite.NewDB(ctx, appCfg.GetDatabasePath())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize storage")
	}
	services = append(services, srv.NewCleanup(db.Close))
	turns := sqlite.NewTurnsRepo(db)

	// 3. Card catalog
	entities := initCatalog(ctx, appCfg)
	descriptor := entity.NewDescriptorMatcher(entities)

	// 4. Search: embedded corpora via the sidecar, chat log locally
	searcher := search.NewMux(search.NewClient(searchCfg.BaseURL))
	searcher.Route(core.SourceChatlog, turns)

	// 5. Completion provider
	completer, err := llm.NewProvider(ctx, appCfg.LLMProvider, llmCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize LLM provider")
	}

	// 6. Conversation history, archived into sqlite
	hist := history.NewStore(
		history.WithCeiling(appCfg.HistoryCeiling),
		history.WithPersona(appCfg.BotName),
		history.WithArchive(turns),
	)

	// 7. Routing engine
	engine := router.NewEngine(router.Deps{
		History:    hist,
		Classifier: router.NewClassifier(completer, routingCfg.ClassifierTimeout),
		Retriever:  knowledge.NewRetriever(searcher, knowledge.DefaultWeights()),
		FastPath:   knowledge.NewFastPathDetector(routingCfg.FastPathMargin),
		Freshness:  knowledge.NewFreshness(routingCfg.FreshnessCapacity, routingCfg.FreshnessWindow, routingCfg.FreshnessMinHits),
		Clusterer:  knowledge.NewClusterer(completer),
		Composer:   knowledge.NewComposer(completer, appCfg.BotName),
		Entities:   entities,
		Descriptor: descriptor,
		Emojis:     router.NewEmojiPickerWith(routingCfg.EmojiFallback),
		Chat:       router.NewChatResponder(completer, appCfg.BotName),
		Config:     routingCfg,
		Persona:    appCfg.BotName,
	})

	// 8. Slash commands
	cmds := command.New(command.NewCommands(entities, searcher))

	// 9. Transports
	transports, err := initTransports(ctx, appCfg, engine, hist, cmds)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize transports")
	}
	services = append(services, transports...)

	return services
}

// initCatalog loads the card catalog, falling back to the built-in seed
// list when the file is missing.
func initCatalog(ctx context.Context, cfg *config.AppConfig) *entity.Index {
	logger := log.FromCtx(ctx)

	idx, err := entity.LoadCatalog(cfg.GetCardCatalogPath())
	if err != nil {
		logger.Warn().Err(err).Str("path", cfg.GetCardCatalogPath()).Msg("card catalog unavailable, using seed list")
		return entity.NewIndex(entity.SeedCatalog)
	}

	logger.Info().Int("cards", idx.Len()).Msg("card catalog loaded")
	return idx
}

func initTransports(
	ctx context.Context,
	cfg *config.AppConfig,
	engine *router.Engine,
	hist *history.Store,
	cmds core.CmdRouter,
) ([]srv.Service, error) {
	var services []srv.Service

	// Telegram Bot
	if cfg.EnableTelegram {
		tgCfg := config.NewTelegramConfig(ctx)
		bot, err := telegram.NewBot(ctx, tgCfg, engine, hist, cmds)
		if err != nil {
			return nil, err
		}
		services = append(services, bot)
	}

	return services, nil
}

func initEnv(ctx context.Context, runtimePath string) error {
	logger := log.FromCtx(ctx)
	envFile := filepath.Join(runtimePath, ".env")

	if _, err := os.Stat(envFile); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if err := godotenv.Load(envFile); err != nil {
		logger.Warn().Err(err).Str("path", envFile).Msg("failed to load .env file")
		return err
	}

	logger.Debug().Str("path", envFile).Msg("loaded .env file")
	return nil
}
