package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tootli/dineout-assistant/config"
	"github.com/tootli/dineout-assistant/recommend"
	"golang.org/x/sync/errgroup"
)

type Assistant struct {
	config   *config.Config
	handler  *Handler
	upgrader websocket.Upgrader
}

func main() {
	cfg := config.LoadConfig()

	var audit *AuditStore
	if cfg.Audit.Enabled {
		var err error
		audit, err = NewAuditStore(cfg.Audit.Path)
		if err != nil {
			log.Fatal(err)
		}
		defer audit.Close()
	}

	llm, err := openai.New(
		openai.WithToken(cfg.OpenAI.APIKey),
		openai.WithModel(cfg.OpenAI.Model),
	)
	if err != nil {
		log.Fatal(err)
	}

	assistant := &Assistant{
		config:   cfg,
		handler:  NewHandler(&cfg.OpenAI, llm, audit),
		upgrader: websocket.Upgrader{},
	}

	if err := assistant.Run(); err != nil {
		log.Fatalf("failed to run the assistant: %v", err)
	}
}

func (a *Assistant) routes() *gin.Engine {
	r := gin.Default()

	r.GET("/", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "Tootli AI Assistant is running"})
	})

	r.POST("/recommend", func(ctx *gin.Context) {
		var req recommend.Request

		if err := ctx.ShouldBindJSON(&req); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if err := req.Validate(); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		result, err := a.handler.Recommend(ctx.Request.Context(), &req)
		if err != nil {
			if errors.Is(err, ErrUpstreamUnavailable) {
				ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		ctx.JSON(http.StatusOK, result)
	})

	r.GET("/recommend/stream", func(ctx *gin.Context) {
		c, err := a.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
		if err != nil {
			log.Println("upgrade:", err)
			return
		}
		defer c.Close()

		var req recommend.Request
		if err := c.ReadJSON(&req); err != nil {
			c.WriteJSON(StreamMessage{Type: "error", Data: "invalid request payload"})
			return
		}
		if err := req.Validate(); err != nil {
			c.WriteJSON(StreamMessage{Type: "error", Data: err.Error()})
			return
		}

		result, err := a.handler.RecommendStream(ctx.Request.Context(), &req, func(chunk []byte) error {
			return c.WriteJSON(StreamMessage{Type: "chunk", Data: string(chunk)})
		})
		if err != nil {
			slog.Error("failed to stream recommendation", "error", err)
			c.WriteJSON(StreamMessage{Type: "error", Data: err.Error()})
			return
		}

		if err := c.WriteJSON(StreamMessage{Type: "result", Data: result}); err != nil {
			slog.Error("failed to write to ws connection", "error", err)
		}
	})

	// manual inspection only: coerces arbitrary JSON into a request and
	// reports what it understood instead of failing hard
	r.POST("/debug/echo", func(ctx *gin.Context) {
		raw, err := io.ReadAll(ctx.Request.Body)
		if err != nil {
			ctx.JSON(http.StatusOK, gin.H{"error": err.Error(), "received_data": nil})
			return
		}

		var received any
		json.Unmarshal(raw, &received)

		var req recommend.Request
		if err := json.Unmarshal(raw, &req); err != nil {
			ctx.JSON(http.StatusOK, gin.H{"error": err.Error(), "received_data": received})
			return
		}
		if err := req.Validate(); err != nil {
			ctx.JSON(http.StatusOK, gin.H{"error": err.Error(), "received_data": received})
			return
		}

		ctx.JSON(http.StatusOK, gin.H{
			"parsed": req,
			"prompt": recommend.BuildPrompt(&req),
		})
	})

	r.GET("/debug/audit", func(ctx *gin.Context) {
		if a.handler.audit == nil {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "audit log is disabled"})
			return
		}

		entries, err := a.handler.audit.Recent(ctx.Request.Context(), 20)
		if err != nil {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		ctx.JSON(http.StatusOK, entries)
	})

	return r
}

func (a *Assistant) Run() error {
	srv := &http.Server{
		Addr:    a.config.Server.Address(),
		Handler: a.routes(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		slog.Info("Starting assistant", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	group.Go(func() error {
		<-ctx.Done()
		slog.Info("Shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	})

	return group.Wait()
}
