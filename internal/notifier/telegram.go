package notifier

import (
	"context"
	"strings"
	"time"

	botApi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/maxaizer/internship-scraper/internal/config"
	"github.com/maxaizer/internship-scraper/internal/logger"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	// MaxMessageLength is the Telegram limit for a single text message.
	MaxMessageLength = 4096
	// Telegram allows about one message per second to the same chat.
	chatMessageInterval = time.Second
)

var ErrNotConfigured = errors.New("telegram token or chat id is not set")

type messageSender interface {
	Send(c botApi.Chattable) (botApi.Message, error)
}

type TelegramNotifier struct {
	api     messageSender
	chatID  int64
	limiter *rate.Limiter
}

func NewTelegramNotifier(cfg config.TelegramConfig) (*TelegramNotifier, error) {
	if !cfg.Enabled() {
		return nil, ErrNotConfigured
	}

	api, err := botApi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, errors.Wrap(err, "can't create telegram api")
	}
	log.Infof("Authorized on account %s", api.Self.UserName)

	err = botApi.SetLogger(log.StandardLogger())
	if err != nil {
		return nil, err
	}

	return newTelegramNotifier(api, cfg.ChatID), nil
}

func newTelegramNotifier(api messageSender, chatID int64) *TelegramNotifier {
	return &TelegramNotifier{
		api:     api,
		chatID:  chatID,
		limiter: rate.NewLimiter(rate.Every(chatMessageInterval), 1),
	}
}

// PostDigest sends the digest to the configured chat, split into as many messages
// as needed. It returns the number of messages sent.
func (n *TelegramNotifier) PostDigest(ctx context.Context, text string) (int, error) {
	sent := 0
	for _, part := range SplitMessage(text, MaxMessageLength) {
		if err := n.limiter.Wait(ctx); err != nil {
			return sent, err
		}

		if err := n.send(part); err != nil {
			log.WithField(logger.ErrorTypeField, logger.ErrorTypeTelegramApi).
				Errorf("error occurred while sending digest part %d: %v", sent+1, err)
			return sent, err
		}
		sent++
	}
	return sent, nil
}

func (n *TelegramNotifier) send(text string) error {
	msg := botApi.NewMessage(n.chatID, text)
	msg.ParseMode = botApi.ModeMarkdown
	msg.DisableWebPagePreview = true

	_, err := n.api.Send(msg)
	if err == nil {
		return nil
	}

	log.Warnf("telegram rejected markdown message, sending as plain text: %v", err)
	msg.ParseMode = ""
	_, err = n.api.Send(msg)
	return err
}

// SplitMessage breaks text into chunks of at most limit characters, cutting on
// line boundaries where possible. Lines longer than limit are cut mid-line.
func SplitMessage(text string, limit int) []string {
	if strings.TrimSpace(text) == "" || limit <= 0 {
		return nil
	}

	var parts []string
	var current []rune

	flush := func() {
		if strings.TrimSpace(string(current)) != "" {
			parts = append(parts, strings.TrimRight(string(current), "\n"))
		}
		current = current[:0]
	}

	for _, line := range strings.SplitAfter(text, "\n") {
		runes := []rune(line)

		if len(current)+len(runes) > limit {
			flush()
		}

		for len(runes) > limit {
			current = append(current, runes[:limit]...)
			flush()
			runes = runes[limit:]
		}

		current = append(current, runes...)
	}
	flush()

	return parts
}
