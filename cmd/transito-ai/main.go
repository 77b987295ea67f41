package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/transito-ai/cli/config"
	"github.com/transito-ai/cli/internal/chat"
	"github.com/transito-ai/cli/internal/corpus"
	"github.com/transito-ai/cli/internal/db"
	"github.com/transito-ai/cli/internal/embeddings"
	"github.com/transito-ai/cli/internal/gemini"
	"github.com/transito-ai/cli/internal/index"
	"github.com/transito-ai/cli/internal/ollama"
	"github.com/transito-ai/cli/internal/rag"
	"github.com/transito-ai/cli/internal/tui"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "transito-ai",
		Short: "Asistente sobre el Código Nacional de Tránsito de Colombia",
	}
	rootCmd.AddCommand(newPreprocessCmd(), newAskCmd(), newChatCmd(), newConfigCmd())
	return rootCmd
}

func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}
	configCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write the default configuration file for editing",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(config.Path()); err == nil {
				return fmt.Errorf("config already exists at %s", config.Path())
			}
			if err := config.Default().Save(); err != nil {
				return err
			}
			fmt.Println(config.Path())
			return nil
		},
	})
	return configCmd
}

func newPreprocessCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "preprocess <file>",
		Short: "Normalize the raw statute text for segmentation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			defer logger.Sync()

			out, err := corpus.NormalizeFile(args[0], cfg.Paths.DataDir)
			if err != nil {
				return err
			}
			logger.Info("corpus normalized", zap.String("output", out))
			fmt.Println(out)
			return nil
		},
	}
}

func newAskCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a single question and print the grounded answer",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			defer logger.Sync()

			ctx := cmd.Context()
			controller, cleanup, err := buildController(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer cleanup()

			question := strings.Join(args, " ")
			messages, err := controller.Ask(ctx, []chat.Message{chat.UserMessage(question)})
			if err != nil {
				return err
			}

			for _, m := range messages {
				if m.Role == chat.RoleAssistantFinal {
					fmt.Println(m.Content)
				}
			}
			for _, m := range messages {
				if m.Role == chat.RoleToolResult && m.Content != "" {
					fmt.Println()
					fmt.Println(m.Content)
				}
			}
			return nil
		},
	}
}

func newChatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start the interactive chat",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			defer logger.Sync()

			controller, cleanup, err := buildController(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer cleanup()

			return tui.NewChatView(controller).Run()
		},
	}
}

// setup loads .env, configuration, and the logger.
func setup() (*config.Config, *zap.Logger, error) {
	// A missing .env is fine; explicit environment still applies.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

// buildController loads and segments the statute, builds the vector index,
// and wires the retriever and conversation controller. The index is built
// fresh on every start.
func buildController(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*chat.Controller, func(), error) {
	cleanup := func() {}

	text, err := corpus.Load(cfg.Paths.CorpusFile)
	if err != nil {
		return nil, cleanup, err
	}

	sections := corpus.Segment(text)
	splitter := corpus.NewSplitter(cfg.Processing.ChunkSize, cfg.Processing.ChunkOverlap)
	chunks := splitter.ChunkSections(sections, cfg.Paths.CorpusFile)
	logger.Info("corpus segmented",
		zap.Int("sections", len(sections)),
		zap.Int("chunks", len(chunks)),
	)
	if len(sections) == 0 {
		logger.Warn("no article markers found; retrieval will return no results")
	}

	embedder, paraphraser, decider, generator, err := buildModels(ctx, cfg)
	if err != nil {
		return nil, cleanup, err
	}

	var store index.Store
	if cfg.Database.Enabled {
		database, err := db.New(ctx, cfg.Database.ConnectionString, cfg.Database.MaxConns)
		if err != nil {
			return nil, cleanup, err
		}
		cleanup = database.Close

		pgStore := db.NewStore(database)
		if err := pgStore.Migrate(ctx); err != nil {
			return nil, cleanup, err
		}
		if err := pgStore.Reset(ctx); err != nil {
			return nil, cleanup, err
		}
		store = pgStore
	} else {
		store = index.NewMemory()
	}

	idx, err := index.Build(ctx, embedder, store, chunks)
	if err != nil {
		return nil, cleanup, err
	}
	logger.Info("index built", zap.Int("chunks", len(chunks)))

	retriever := rag.NewRetriever(paraphraser, idx, cfg.Processing.TopK, logger)
	controller := chat.NewController(decider, generator, retriever, rag.GroundingPrompt, logger)
	return controller, cleanup, nil
}

// buildModels wires the embedding and chat capabilities for the configured
// provider.
func buildModels(ctx context.Context, cfg *config.Config) (index.Embedder, rag.Generator, chat.Model, chat.Model, error) {
	switch cfg.Provider {
	case "gemini":
		client := gemini.NewClient(cfg.Gemini.APIKey)
		embedder := embeddings.NewGeminiEmbedder(cfg.Gemini.APIKey, cfg.Gemini.EmbeddingModel)
		decider := gemini.NewChatModel(client, cfg.Gemini.RetrieverModel)
		generator := gemini.NewChatModel(client, cfg.Gemini.GeneratorModel)
		paraphraser := gemini.NewGenerator(client, cfg.Gemini.RetrieverModel)
		return embedder, paraphraser, decider, generator, nil

	case "ollama", "":
		client := ollama.NewClient(cfg.Ollama.BaseURL)
		selector := ollama.NewModelSelector(client)

		retrieverModel, err := selector.Resolve(ctx, cfg.Ollama.RetrieverModel)
		if err != nil {
			return nil, nil, nil, nil, fmt.Errorf("failed to resolve retriever model: %w", err)
		}
		generatorModel, err := selector.Resolve(ctx, cfg.Ollama.GeneratorModel)
		if err != nil {
			return nil, nil, nil, nil, fmt.Errorf("failed to resolve generator model: %w", err)
		}

		embedder := embeddings.NewTextEmbedder(cfg.Ollama.BaseURL, cfg.Embeddings.TextModel)
		decider := ollama.NewChatModel(client, retrieverModel)
		generator := ollama.NewChatModel(client, generatorModel)
		paraphraser := ollama.NewGenerator(client, retrieverModel)
		return embedder, paraphraser, decider, generator, nil

	default:
		return nil, nil, nil, nil, fmt.Errorf("unknown provider: %s", cfg.Provider)
	}
}
