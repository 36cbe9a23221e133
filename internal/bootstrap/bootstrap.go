package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kirillkom/petition-assistant/internal/config"
	"github.com/kirillkom/petition-assistant/internal/core/credential"
	"github.com/kirillkom/petition-assistant/internal/core/letters"
	"github.com/kirillkom/petition-assistant/internal/core/ports"
	"github.com/kirillkom/petition-assistant/internal/core/usecase"
	"github.com/kirillkom/petition-assistant/internal/infrastructure/chunking"
	"github.com/kirillkom/petition-assistant/internal/infrastructure/export/xlsx"
	"github.com/kirillkom/petition-assistant/internal/infrastructure/extractor/textextract"
	"github.com/kirillkom/petition-assistant/internal/infrastructure/filestore"
	"github.com/kirillkom/petition-assistant/internal/infrastructure/llm/genservice"
	"github.com/kirillkom/petition-assistant/internal/infrastructure/queue/nats"
	"github.com/kirillkom/petition-assistant/internal/infrastructure/repository/postgres"
	"github.com/kirillkom/petition-assistant/internal/infrastructure/resilience"
	"github.com/kirillkom/petition-assistant/internal/infrastructure/storage/localfs"
)

// PipelineObserver receives generation and extraction outcomes.
type PipelineObserver interface {
	genservice.Observer
	textextract.Observer
}

type App struct {
	Config config.Config

	Queue     *nats.Queue
	Documents ports.DocumentReader

	IngestUC    ports.DocumentIngestor
	ProcessUC   ports.DocumentProcessor
	CaseUC      ports.CaseService
	EvaluateUC  ports.CredentialEvaluator
	VerifyUC    ports.DocumentVerifier
	TranslateUC ports.DocumentTranslator
	LetterUC    ports.LetterDrafter

	closeFn func()
}

// New wires every adapter and use case. observer may be nil.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger, observer PipelineObserver) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := postgres.EnsureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	docRepo := postgres.NewDocumentRepository(db)
	caseRepo := postgres.NewCaseRepository(db)
	letterRepo := postgres.NewLetterRepository(db)

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	files, err := filestore.Open(cfg.CollectionDBPath)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open collection store: %w", err)
	}

	corpus, err := letters.LoadCorpus(cfg.SampleCorpusPath)
	if err != nil {
		_ = files.Close()
		_ = db.Close()
		return nil, fmt.Errorf("load sample corpus: %w", err)
	}

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		QueueGroup:         cfg.NATSQueueGroup,
		ResilienceExecutor: resilience.NewExecutor(resilience.DefaultConfig()),
		Logger:             logger,
	})
	if err != nil {
		_ = files.Close()
		_ = db.Close()
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	generator := genservice.New(
		cfg.GenerationURL,
		cfg.GenerationPath,
		cfg.GenerationTimeout,
		genserviceOptions(cfg, observer)...,
	)
	extractor := textextract.New(extractorOptions(cfg, logger, observer)...)
	chunker := chunking.NewSplitter(cfg.TranslationChunkSize, 0)

	ingestUC := usecase.NewIngestDocumentUseCase(docRepo, caseRepo, storage, queue)
	processUC := usecase.NewProcessDocumentUseCase(docRepo, storage, extractor, generator, cfg.PromptMaxChars, logger)
	caseUC := usecase.NewCaseUseCase(caseRepo, docRepo, letterRepo)
	evaluateUC := usecase.NewEvaluateCredentialUseCase(usecase.EvaluateDeps{
		Files:       files,
		Storage:     storage,
		Extractor:   extractor,
		Fields:      credential.NewFieldExtractor(generator, cfg.PromptMaxChars, logger),
		Equivalency: credential.NewEquivalencyReasoner(generator, cfg.PromptMaxChars, logger),
		Exporter:    xlsx.NewExporter(logger),
		Cases:       caseRepo,
		Letters:     letterRepo,
		Logger:      logger,
	})
	verifyUC := usecase.NewVerifyDocumentUseCase(extractor, generator, cfg.VerifyTimeout, cfg.PromptMaxChars, logger)
	translateUC := usecase.NewTranslateDocumentUseCase(files, storage, extractor, generator, chunker, logger)
	letterUC := usecase.NewLetterUseCase(letterRepo, caseRepo, docRepo, generator, corpus, logger)

	logger.Info("bootstrap_ready",
		"storage_path", cfg.StoragePath,
		"collection_db", cfg.CollectionDBPath,
		"samples", corpus.Len(),
		"generation_url", cfg.GenerationURL,
	)

	return &App{
		Config:    cfg,
		Queue:     queue,
		Documents: docRepo,

		IngestUC:    ingestUC,
		ProcessUC:   processUC,
		CaseUC:      caseUC,
		EvaluateUC:  evaluateUC,
		VerifyUC:    verifyUC,
		TranslateUC: translateUC,
		LetterUC:    letterUC,

		closeFn: func() {
			queue.Close()
			_ = files.Close()
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}

func generationResilience(cfg config.Config) resilience.Config {
	out := resilience.Config{
		RetryMaxAttempts:        cfg.GenerationRetryAttempts,
		RetryInitialBackoff:     cfg.GenerationRetryBackoff,
		RetryMaxBackoff:         4 * cfg.GenerationRetryBackoff,
		RetryMultiplier:         2,
		BreakerEnabled:          cfg.GenerationBreakerEnabled,
		BreakerMinRequests:      uint32(max(cfg.GenerationBreakerMinReqs, 1)),
		BreakerFailureRatio:     cfg.GenerationBreakerRatio,
		BreakerOpenTimeout:      cfg.GenerationBreakerOpenFor,
		BreakerHalfOpenMaxCalls: 1,
	}
	if cfg.GenerationRetryAttempts <= 1 {
		out = resilience.SingleAttempt(out)
	}
	return out
}

func genserviceOptions(cfg config.Config, observer PipelineObserver) []genservice.Option {
	opts := []genservice.Option{
		genservice.WithExecutor(resilience.NewExecutor(generationResilience(cfg))),
	}
	if observer != nil {
		opts = append(opts, genservice.WithObserver(observer))
	}
	return opts
}

func extractorOptions(cfg config.Config, logger *slog.Logger, observer PipelineObserver) []textextract.Option {
	opts := []textextract.Option{
		textextract.WithLogger(logger),
		textextract.WithOCR(textextract.NewOCR(textextract.OCRConfig{
			Binary:      cfg.TesseractBinary,
			Language:    cfg.TesseractLanguage,
			TessdataDir: cfg.TesseractDataDir,
		})),
	}
	if observer != nil {
		opts = append(opts, textextract.WithObserver(observer))
	}
	return opts
}
