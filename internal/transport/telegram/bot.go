package telegram

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	tele "gopkg.in/telebot.v3"

	"github.com/sandevgo/wizzybot/internal/config"
	"github.com/sandevgo/wizzybot/internal/core"
	"github.com/sandevgo/wizzybot/internal/metrics"
	"github.com/sandevgo/wizzybot/internal/service/router"
	"github.com/sandevgo/wizzybot/pkg/log"
)

const baseContextKey = "base_context"

type Bot struct {
	bot      *tele.Bot
	cfg      *config.TelegramConfig
	router   *router.Router
	commands core.CmdRouter
	sender   *sender
}

func NewBot(
	ctx context.Context,
	cfg *config.TelegramConfig,
	msgRouter *router.Router,
	commands core.CmdRouter,
) (*Bot, error) {
	pref := tele.Settings{
		Token: cfg.Token,
		// Updates arrive over the webhook server, which calls
		// ProcessUpdate directly. Synchronous keeps handling inside the
		// HTTP request like the rest of the pipeline expects.
		Synchronous: true,
	}

	b, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	bot := &Bot{
		bot:      b,
		cfg:      cfg,
		router:   msgRouter,
		commands: commands,
		sender:   newSender(b),
	}

	// Use context from Signal with logger
	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			c.Set(baseContextKey, ctx)
			return next(c)
		}
	})

	b.Handle(tele.OnText, bot.handleText)
	b.Handle(tele.OnVoice, bot.handleVoice)
	b.Handle(tele.OnPhoto, bot.handlePhoto)
	b.Handle(tele.OnDocument, bot.handleDocument)

	return bot, nil
}

// ProcessUpdate feeds one decoded update into the handler chain.
func (b *Bot) ProcessUpdate(u tele.Update) {
	b.bot.ProcessUpdate(u)
}

// RegisterCommands publishes the slash command menu to Telegram.
func (b *Bot) RegisterCommands(ctx context.Context) {
	if b.commands == nil {
		return
	}

	var menu []tele.Command
	for _, cmd := range b.commands.ListCommands() {
		menu = append(menu, tele.Command{
			Text:        cmd.Name(),
			Description: cmd.Description(),
		})
	}
	if err := b.bot.SetCommands(menu); err != nil {
		log.FromCtx(ctx).Warn().Err(err).Msg("failed to register command menu")
	}
}

func (b *Bot) handleText(c tele.Context) error {
	return b.dispatch(c, router.Inbound{
		Kind: router.KindText,
		Text: c.Text(),
	})
}

func (b *Bot) handleVoice(c tele.Context) error {
	voice := c.Message().Voice
	if voice == nil {
		return nil
	}
	return b.dispatch(c, router.Inbound{
		Kind:   router.KindVoice,
		FileID: voice.FileID,
	})
}

func (b *Bot) handlePhoto(c tele.Context) error {
	photo := c.Message().Photo
	if photo == nil {
		return nil
	}
	return b.dispatch(c, router.Inbound{
		Kind:   router.KindPhoto,
		Text:   c.Message().Caption,
		FileID: photo.FileID,
	})
}

func (b *Bot) handleDocument(c tele.Context) error {
	doc := c.Message().Document
	if doc == nil {
		return nil
	}
	return b.dispatch(c, router.Inbound{
		Kind:     router.KindDocument,
		FileID:   doc.FileID,
		FileName: doc.FileName,
		FileSize: doc.FileSize,
	})
}

func (b *Bot) dispatch(c tele.Context, in router.Inbound) error {
	ctx := c.Get(baseContextKey).(context.Context)

	in.SessionID = strconv.FormatInt(c.Chat().ID, 10)
	in.UserName = firstName(c.Sender())

	metrics.UpdatesTotal.WithLabelValues(string(in.Kind)).Inc()

	// Notify user we are working
	_ = c.Notify(tele.Typing)

	out := b.router.Handle(ctx, in)
	return b.deliver(ctx, c, out)
}

// deliver sends the reply. Voice replies carry text alongside, so a
// failed audio upload degrades to a plain message instead of silence.
func (b *Bot) deliver(ctx context.Context, c tele.Context, out router.Outbound) error {
	logger := log.FromCtx(ctx)

	if len(out.Voice) > 0 {
		err := b.sender.sendAudio(ctx, c.Chat(), out.Voice)
		if err == nil {
			metrics.RepliesTotal.WithLabelValues("voice").Inc()
			return nil
		}
		logger.Warn().Err(err).Msg("voice reply failed, falling back to text")
	}

	if out.Text == "" {
		return nil
	}
	if err := b.sender.sendMarkdown(ctx, c.Chat(), out.Text); err != nil {
		metrics.SendFailuresTotal.Inc()
		return err
	}
	metrics.RepliesTotal.WithLabelValues("text").Inc()
	return nil
}

// DownloadFile fetches a Telegram file payload by its file id.
func (b *Bot) DownloadFile(ctx context.Context, fileID string) ([]byte, error) {
	rc, err := b.bot.File(&tele.File{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch telegram file: %w", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read telegram file: %w", err)
	}
	return data, nil
}

// firstName extracts the first token of the sender's first name, which is
// what conversations address the user by.
func firstName(user *tele.User) string {
	if user == nil {
		return ""
	}
	fields := strings.Fields(user.FirstName)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
