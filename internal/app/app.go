// Package app wires configuration, storage, services, and the HTTP router
// into a runnable application.
package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"

	httpx "github.com/yungbote/omnichat-backend/internal/http"
	"github.com/yungbote/omnichat-backend/internal/http/handlers"
	"github.com/yungbote/omnichat-backend/internal/platform/aigrid"
	"github.com/yungbote/omnichat-backend/internal/platform/logger"
	"github.com/yungbote/omnichat-backend/internal/platform/youtube"
	"github.com/yungbote/omnichat-backend/internal/services"
	"github.com/yungbote/omnichat-backend/internal/store"
)

type App struct {
	Log    *logger.Logger
	Cfg    Config
	Router *gin.Engine

	Convo     *services.ConversationService
	Responder *services.ResponderService
	Docs      *services.DocumentContext
}

func New(ctx context.Context) (*App, error) {
	cfg := LoadConfig()

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	var st store.Store
	if cfg.DataPath != "" {
		sq, err := store.NewSQLiteStore(cfg.DataPath)
		if err != nil {
			log.Sync()
			return nil, fmt.Errorf("init store: %w", err)
		}
		st = sq
	} else {
		log.Warn("DATA_PATH is empty, state will not survive restarts")
		st = store.NewMemoryStore()
	}

	convo, err := services.NewConversationService(ctx, st, log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("load conversation state: %w", err)
	}

	// A missing completion key is reported per send rather than blocking
	// startup, so the rest of the app stays usable.
	var completer services.Completer
	client, err := aigrid.NewClient(aigrid.Config{
		APIKey:      cfg.AIGridAPIKey,
		BaseURL:     cfg.AIGridBaseURL,
		Model:       cfg.Model,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
		Timeout:     cfg.Timeout,
	}, log)
	if err != nil {
		log.Warn("completion client unavailable", "error", err)
	} else {
		completer = client
	}

	var searcher services.VideoSearcher
	if cfg.YouTubeAPIKey != "" {
		yt, err := youtube.NewClient(ctx, cfg.YouTubeAPIKey)
		if err != nil {
			log.Warn("youtube client unavailable", "error", err)
		} else {
			searcher = yt
		}
	} else {
		log.Info("YOUTUBE_API_KEY not set, video enrichment disabled")
	}

	docs := services.NewDocumentContext()
	responder := services.NewResponderService(convo, completer, searcher, docs, log)

	routerCfg := httpx.RouterConfig{
		ConversationHandler: handlers.NewConversationHandler(convo),
		MessageHandler:      handlers.NewMessageHandler(responder),
		AttachmentHandler:   handlers.NewAttachmentHandler(docs),
		DocumentHandler:     handlers.NewDocumentHandler(docs),
		HealthHandler:       handlers.NewHealthHandler(),
	}
	if searcher != nil {
		routerCfg.VideoHandler = handlers.NewVideoHandler(searcher)
	}

	return &App{
		Log:       log,
		Cfg:       cfg,
		Router:    httpx.NewRouter(routerCfg),
		Convo:     convo,
		Responder: responder,
		Docs:      docs,
	}, nil
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
