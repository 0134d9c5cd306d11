package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	tele "gopkg.in/telebot.v3"

	"github.com/sandevgo/wizzybot/internal/config"
	"github.com/sandevgo/wizzybot/internal/core"
	"github.com/sandevgo/wizzybot/pkg/log"
)

// Server receives Telegram webhook calls and feeds the decoded updates to
// the bot. It also serves the health and metrics endpoints.
type Server struct {
	srv *http.Server
	bot *Bot
	cfg *config.TelegramConfig
}

func NewServer(cfg *config.TelegramConfig, bot *Bot) *Server {
	s := &Server{bot: bot, cfg: cfg}

	mux := http.NewServeMux()
	mux.HandleFunc(cfg.WebhookPath, s.handleWebhook)
	mux.HandleFunc("/health", s.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())

	s.srv = &http.Server{
		Addr:              cfg.ListenAddr(),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) Start(ctx context.Context) error {
	logger := log.FromCtx(ctx)

	if endpoint := s.cfg.WebhookEndpoint(); endpoint != "" {
		if err := s.bot.SetWebhook(ctx, endpoint); err != nil {
			return err
		}
		logger.Info().Str("url", endpoint).Msg("webhook registered")
	}
	s.bot.RegisterCommands(ctx)

	logger.Info().Str("addr", s.srv.Addr).Msg("starting webhook server")
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var update tele.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"status": "error", "message": "malformed update"})
		return
	}

	// Synchronous bot settings keep processing inside this request, so a
	// 200 here means the update was fully handled.
	s.bot.ProcessUpdate(update)
	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": core.BotName + " Bot",
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
