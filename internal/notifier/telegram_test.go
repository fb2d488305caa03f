package notifier

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	botApi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/maxaizer/internship-scraper/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

type mockSender struct {
	mock.Mock
}

func (m *mockSender) Send(c botApi.Chattable) (botApi.Message, error) {
	args := m.Called(c)
	return args.Get(0).(botApi.Message), args.Error(1)
}

func withParseMode(mode string) any {
	return mock.MatchedBy(func(c botApi.Chattable) bool {
		msg, ok := c.(botApi.MessageConfig)
		return ok && msg.ParseMode == mode && msg.ChatID == 42
	})
}

func Test_SplitMessage_ShortTextIsOnePart(t *testing.T) {
	assert.Equal(t, []string{"hello\nworld"}, SplitMessage("hello\nworld\n", 100))
	assert.Nil(t, SplitMessage("  \n", 100))
}

func Test_SplitMessage_CutsOnLineBoundaries(t *testing.T) {
	block := strings.Repeat("x", 30) + "\n"
	text := strings.Repeat(block, 10)

	parts := SplitMessage(text, 100)

	require.Len(t, parts, 4)
	for _, part := range parts {
		assert.LessOrEqual(t, utf8.RuneCountInString(part), 100)
		for _, line := range strings.Split(part, "\n") {
			assert.Len(t, line, 30)
		}
	}
	assert.Equal(t, strings.TrimRight(text, "\n"), strings.Join(parts, "\n"))
}

func Test_SplitMessage_LongLineIsCut(t *testing.T) {
	line := strings.Repeat("📌", 250)

	parts := SplitMessage(line, 100)

	require.Len(t, parts, 3)
	assert.Equal(t, 100, utf8.RuneCountInString(parts[0]))
	assert.Equal(t, 100, utf8.RuneCountInString(parts[1]))
	assert.Equal(t, 50, utf8.RuneCountInString(parts[2]))
}

func Test_SplitMessage_DigestFitsTelegramLimit(t *testing.T) {
	entry := "📌 *Intern*\n_" + strings.Repeat("summary ", 18) + "_\n🔗 Apply: #\n\n---------------------------------\n\n"
	text := "*Internship Updates - 19 October 2026*\n\n" + strings.Repeat(entry, 60)

	parts := SplitMessage(text, MaxMessageLength)

	assert.Greater(t, len(parts), 1)
	for _, part := range parts {
		assert.LessOrEqual(t, utf8.RuneCountInString(part), MaxMessageLength)
	}
}

func Test_PostDigest_SendsMarkdown(t *testing.T) {
	sender := &mockSender{}
	sender.On("Send", withParseMode(botApi.ModeMarkdown)).Return(botApi.Message{}, nil).Once()

	sent, err := newTelegramNotifier(sender, 42).PostDigest(context.Background(), "*Internship Updates*")

	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	sender.AssertExpectations(t)
}

func Test_PostDigest_FallsBackToPlainText(t *testing.T) {
	sender := &mockSender{}
	sender.On("Send", withParseMode(botApi.ModeMarkdown)).
		Return(botApi.Message{}, errors.New("Bad Request: can't parse entities")).Once()
	sender.On("Send", withParseMode("")).Return(botApi.Message{}, nil).Once()

	sent, err := newTelegramNotifier(sender, 42).PostDigest(context.Background(), "*unbalanced _markup")

	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	sender.AssertExpectations(t)
}

func Test_PostDigest_ReturnsSendError(t *testing.T) {
	sender := &mockSender{}
	sender.On("Send", mock.Anything).Return(botApi.Message{}, errors.New("chat not found"))

	sent, err := newTelegramNotifier(sender, 42).PostDigest(context.Background(), "digest")

	assert.EqualError(t, err, "chat not found")
	assert.Equal(t, 0, sent)
	sender.AssertNumberOfCalls(t, "Send", 2)
}

func Test_NewTelegramNotifier_RequiresConfig(t *testing.T) {
	_, err := NewTelegramNotifier(config.TelegramConfig{Token: "token"})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func Test_PostDigest_PacesMessagesToTheChat(t *testing.T) {
	sender := &mockSender{}
	sender.On("Send", withParseMode(botApi.ModeMarkdown)).Return(botApi.Message{}, nil)

	telegram := newTelegramNotifier(sender, 42)
	telegram.limiter = rate.NewLimiter(rate.Every(50*time.Millisecond), 1)

	text := strings.Repeat("x", MaxMessageLength) + "\n" + strings.Repeat("y", 10)
	started := time.Now()
	sent, err := telegram.PostDigest(context.Background(), text)

	require.NoError(t, err)
	assert.Equal(t, 2, sent)
	assert.GreaterOrEqual(t, time.Since(started), 40*time.Millisecond)
}

func Test_PostDigest_CanceledContextSendsNothing(t *testing.T) {
	sender := &mockSender{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sent, err := newTelegramNotifier(sender, 42).PostDigest(ctx, "digest")

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, sent)
	sender.AssertNotCalled(t, "Send", mock.Anything)
}
