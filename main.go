package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/nsqio/go-nsq"

	"github.com/alipouw13/ai-claims-analysis-sub001/internal/adapter/docintel"
	"github.com/alipouw13/ai-claims-analysis-sub001/internal/adapter/gemini"
	wstore "github.com/alipouw13/ai-claims-analysis-sub001/internal/adapter/weaviate"
	"github.com/alipouw13/ai-claims-analysis-sub001/internal/answer"
	"github.com/alipouw13/ai-claims-analysis-sub001/internal/app"
	"github.com/alipouw13/ai-claims-analysis-sub001/internal/batch"
	"github.com/alipouw13/ai-claims-analysis-sub001/internal/config"
	"github.com/alipouw13/ai-claims-analysis-sub001/internal/document"
	"github.com/alipouw13/ai-claims-analysis-sub001/internal/ingest"
	"github.com/alipouw13/ai-claims-analysis-sub001/internal/logger"
	"github.com/alipouw13/ai-claims-analysis-sub001/internal/middleware"
	"github.com/alipouw13/ai-claims-analysis-sub001/internal/retrieval"
	"github.com/alipouw13/ai-claims-analysis-sub001/internal/segment"
	"github.com/alipouw13/ai-claims-analysis-sub001/internal/vector"
	"github.com/alipouw13/ai-claims-analysis-sub001/internal/worker"
)

func main() {
	handler := logger.NewContextHandler(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(slog.New(handler))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := run(context.Background(), cfg); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	deps, err := app.Bootstrap(ctx, cfg)
	if err != nil {
		return fmt.Errorf("bootstrap failed: %w", err)
	}
	defer deps.DB.Close()

	// Per-topic index stores
	policyStore := wstore.NewStore(deps.Weaviate, vector.ClassPolicyChunk)
	claimStore := wstore.NewStore(deps.Weaviate, vector.ClassClaimChunk)
	stores := worker.StoreSet{
		document.TypePolicy: policyStore,
		document.TypeClaim:  claimStore,
	}

	segParams := segment.Params{
		TargetSize:   cfg.ChunkTargetSize,
		MaxSize:      cfg.ChunkMaxSize,
		MinSize:      cfg.ChunkMinSize,
		OverlapRatio: cfg.ChunkOverlapRatio,
	}
	pipeline := ingest.NewPipeline(segParams)
	extractor := docintel.New(cfg.DocIntelURL)
	tracker := batch.NewPostgresRepo(deps.DB)

	embedder, err := gemini.NewEmbedder(ctx, cfg.GeminiAPIKey, cfg.EmbedModel)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}
	completion, err := gemini.NewCompletion(ctx, cfg.GeminiAPIKey, cfg.ChatModel)
	if err != nil {
		return fmt.Errorf("failed to create completion client: %w", err)
	}

	// Workers
	if cfg.EnableDocumentWorker {
		docConsumer := worker.NewDocumentConsumer(pipeline, extractor, stores, deps.NSQProducer, tracker)
		startConsumer(cfg, config.TopicIngestDocument, "backend", docConsumer.HandleMessage)
	}
	if cfg.EnableEmbedWorker {
		embedConsumer := worker.NewEmbedConsumer(embedder, stores)
		startConsumer(cfg, config.TopicIngestEmbed, "backend", embedConsumer.HandleMessage)
	}

	// Retrieval fan-out over both index partitions
	queryLogger, err := retrieval.NewFileQueryLogger(cfg.QueryLogPath)
	if err != nil {
		slog.Warn("failed to create query logger, falling back to stdout", "error", err)
		queryLogger = retrieval.NewQueryLogger(os.Stdout)
	}
	indexes := []retrieval.Index{
		wstore.NewSearchIndex(deps.Weaviate, "policy", vector.ClassPolicyChunk),
		wstore.NewSearchIndex(deps.Weaviate, "claims", vector.ClassClaimChunk),
	}
	indexTimeout := time.Duration(cfg.IndexTimeoutMs) * time.Millisecond
	retriever := retrieval.NewService(indexes, indexTimeout, queryLogger)
	synthesizer := answer.NewSynthesizer(completion)

	chatCfg := answer.ChatConfig{
		Model:       cfg.ChatModel,
		Temperature: cfg.ChatTemp,
		MaxTokens:   cfg.ChatMaxTokens,
	}

	// Thin interface boundary; the full API layer lives elsewhere.
	mux := http.NewServeMux()
	mux.Handle("POST /query", middleware.CorrelationID(queryHandler(retriever, synthesizer, chatCfg, cfg.SearchTopK)))
	mux.Handle("GET /batches/{id}", middleware.CorrelationID(batchHandler(tracker)))
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: mux,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("server starting", "port", cfg.ServerPort)
	return srv.ListenAndServe()
}

func startConsumer(cfg *config.Config, topic, channel string, handle func(*nsq.Message) error) {
	consumer, err := nsq.NewConsumer(topic, channel, nsq.NewConfig())
	if err != nil {
		slog.Error("failed to create NSQ consumer", "topic", topic, "error", err)
		return
	}
	consumer.AddHandler(nsq.HandlerFunc(handle))
	if err := consumer.ConnectToNSQLookupd(cfg.NSQLookupd); err != nil {
		slog.Error("failed to connect to NSQLookupd", "topic", topic, "error", err)
		return
	}
	slog.Info("NSQ consumer connected", "topic", topic)
}

func queryHandler(retriever *retrieval.Service, synthesizer *answer.Synthesizer, chatCfg answer.ChatConfig, defaultTopK int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Question string `json:"question"`
			TopK     int    `json:"top_k"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Question == "" {
			http.Error(w, `{"error":"question is required"}`, http.StatusBadRequest)
			return
		}
		topK := req.TopK
		if topK <= 0 {
			topK = defaultTopK
		}

		hits := retriever.Retrieve(r.Context(), req.Question, topK)
		ans, err := synthesizer.Synthesize(r.Context(), req.Question, hits, chatCfg)
		if err != nil {
			var cerr *answer.CompletionError
			if errors.As(err, &cerr) {
				slog.ErrorContext(r.Context(), "synthesis failed", "error", err)
				http.Error(w, `{"error":"completion service unavailable"}`, http.StatusBadGateway)
				return
			}
			http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(ans); err != nil {
			slog.ErrorContext(r.Context(), "failed to encode response", "error", err)
		}
	}
}

func batchHandler(tracker batch.Tracker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		status, err := tracker.Get(r.Context(), id)
		if err != nil {
			if errors.Is(err, batch.ErrNotFound) {
				http.Error(w, `{"error":"batch not found"}`, http.StatusNotFound)
				return
			}
			http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(status); err != nil {
			slog.ErrorContext(r.Context(), "failed to encode response", "error", err)
		}
	}
}
