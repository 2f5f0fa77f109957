package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"shoprag/internal/answer"
	"shoprag/internal/config"
	"shoprag/internal/domain"
	"shoprag/internal/embedding"
	"shoprag/internal/facts"
	"shoprag/internal/i18n"
	"shoprag/internal/llm/openai"
	"shoprag/internal/settings"
	"shoprag/internal/shadow"
	"shoprag/internal/store/memory"
	"shoprag/internal/store/postgres"
	"shoprag/internal/translation"
	"shoprag/internal/tui"
	"shoprag/internal/usage"
	"shoprag/internal/vectorsearch"
)

type repos struct {
	settings   domain.ShopSettingsRepository
	products   domain.ProductRepository
	i18n       domain.ProductI18nRepository
	embeddings domain.ProductEmbeddingRepository
	facts      domain.ProductFactsRepository
	usage      domain.UsageRecorder
}

func main() {
	_ = godotenv.Load()

	cfgPath := flag.String("config", "config.yaml", "Path to config YAML")
	action := flag.String("action", "console", "Action: sync, ask, enrich, console")
	shopID := flag.String("shop", "", "Shop ID")
	productID := flag.String("product", "", "Product ID (for sync and enrich)")
	question := flag.String("q", "", "Question (for ask)")
	lang := flag.String("lang", "en", "User language")
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if *shopID == "" {
		log.Fatal().Msg("-shop is required")
	}

	flags := config.NewFlagCache(30 * time.Second)

	client, err := openai.NewClient(openai.Config{
		BaseURL:   cfg.OpenAI.BaseURL,
		APIKeyEnv: cfg.OpenAI.APIKeyEnv,
		Timeout:   time.Duration(cfg.OpenAI.TimeoutSecs) * time.Second,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("openai client init failed")
	}

	ctx := context.Background()
	r, cleanup, err := buildRepos(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("store init failed")
	}
	defer cleanup()

	embedSvc := embedding.NewService(client, flags, r.usage, log)
	translateSvc := translation.NewService(client, flags, r.usage, log)
	settingsSvc := settings.NewService(r.settings, log)
	i18nSvc := i18n.NewService(r.i18n, translateSvc, log)
	vectorSvc := vectorsearch.NewService(r.embeddings, log)
	shadowSvc := shadow.NewService(r.products, settingsSvc, i18nSvc, embedSvc, vectorSvc, flags, log)
	answerSvc := answer.NewService(settingsSvc, vectorSvc, embedSvc, translateSvc, client, flags, r.usage, cfg.Answer.MatchCount, log)
	enricher := facts.NewEnricher(client, flags, r.usage, log)
	factsStore := facts.NewStore(r.facts, log)

	switch *action {
	case "sync":
		if *productID == "" {
			log.Fatal().Msg("-product is required for sync")
		}
		if err := shadowSvc.SyncProduct(ctx, *shopID, *productID); err != nil {
			log.Fatal().Err(err).Msg("sync failed")
		}
		fmt.Println("synced")
	case "ask":
		if *question == "" {
			log.Fatal().Msg("-q is required for ask")
		}
		res, err := answerSvc.Answer(ctx, answer.Request{ShopID: *shopID, Question: *question, UserLang: *lang})
		if err != nil {
			log.Fatal().Err(err).Msg("answer failed")
		}
		out, _ := json.MarshalIndent(res, "", "  ")
		fmt.Println(string(out))
	case "enrich":
		if *productID == "" {
			log.Fatal().Msg("-product is required for enrich")
		}
		if err := runEnrich(ctx, r, enricher, factsStore, *shopID, *productID); err != nil {
			log.Fatal().Err(err).Msg("enrich failed")
		}
	case "console":
		if !flags.Get().ShadowRead {
			log.Warn().Msg("shadow read flag is off; console answers are for comparison only")
		}
		m := tui.New(answerSvc, *shopID, *lang)
		if _, err := tea.NewProgram(m).Run(); err != nil {
			log.Fatal().Err(err).Msg("console failed")
		}
	default:
		fmt.Println("Usage: shoprag -shop=SHOP [-config=config.yaml] -action=ACTION")
		fmt.Println("  -action=sync -product=ID          # translate+embed one product")
		fmt.Println("  -action=ask -q='question' -lang=hu # answer one question")
		fmt.Println("  -action=enrich -product=ID        # extract product facts")
		fmt.Println("  -action=console -lang=hu          # interactive Q&A console")
		os.Exit(1)
	}
}

func buildRepos(ctx context.Context, cfg *config.AppConfig, log zerolog.Logger) (repos, func(), error) {
	dsn := os.Getenv(cfg.Postgres.DSNEnv)
	if dsn == "" {
		log.Warn().Msg("no database DSN configured, using in-memory store")
		st := memory.NewStore()
		return repos{
			settings:   st,
			products:   st.Products(),
			i18n:       st.I18n(),
			embeddings: st.Embeddings(),
			facts:      st.Facts(),
			usage:      usage.NewLogRecorder(log),
		}, func() {}, nil
	}
	st, err := postgres.Connect(ctx, dsn)
	if err != nil {
		return repos{}, nil, err
	}
	return repos{
		settings:   st.Settings(),
		products:   st.Products(),
		i18n:       st.I18n(),
		embeddings: st.Embeddings(),
		facts:      st.Facts(),
		usage:      st.Usage(log),
	}, st.Close, nil
}

func runEnrich(ctx context.Context, r repos, enricher *facts.Enricher, store *facts.Store, shopID, productID string) error {
	product, err := r.products.Get(ctx, shopID, productID)
	if err != nil {
		return err
	}
	if product == nil {
		return fmt.Errorf("product %s/%s not found", shopID, productID)
	}
	result := enricher.EnrichProductDataDetailed(ctx, shopID, productID, product.SourceText())
	if _, err := store.PersistProductFactsSnapshot(ctx, shopID, productID, result); err != nil {
		return err
	}
	fmt.Printf("enrichment mode: %s\n", result.Mode)
	if len(result.ValidationErrors) > 0 {
		fmt.Println("validation errors:")
		for _, e := range result.ValidationErrors {
			fmt.Println("  - " + e)
		}
	}
	fmt.Println(result.Text)
	return nil
}
