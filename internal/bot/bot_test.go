package bot

import (
	"errors"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
)

func TestObservationFrom(t *testing.T) {
	from := &tgbotapi.User{
		ID:        42,
		FirstName: "Ann",
		LastName:  "Lee",
		UserName:  "annlee",
		IsBot:     false,
	}

	obs := observationFrom(from)
	assert.Equal(t, int64(42), obs.TelegramID)
	assert.Equal(t, "Ann", obs.FirstName)
	assert.Equal(t, "Lee", obs.LastName)
	assert.Equal(t, "annlee", obs.Username)
	assert.False(t, obs.IsBot)
}

func TestObservationFromBotAccount(t *testing.T) {
	obs := observationFrom(&tgbotapi.User{ID: 7, IsBot: true})
	assert.Equal(t, int64(7), obs.TelegramID)
	assert.True(t, obs.IsBot)
	assert.Empty(t, obs.FirstName)
}

func TestFormatLatency(t *testing.T) {
	assert.Equal(t, "123ms", formatLatency(123*time.Millisecond, nil))
	assert.Equal(t, "2s", formatLatency(2*time.Second, nil))
	assert.Equal(t, "0s", formatLatency(400*time.Microsecond, nil))
	assert.Equal(t, "failed", formatLatency(time.Second, errors.New("boom")))
}

// The denial reply is part of the privileged-command contract: identical
// wording regardless of why the actor is not privileged.
func TestAccessDeniedTextIsStable(t *testing.T) {
	assert.Equal(t, "❌ Access denied. This command is for administrators only.", accessDeniedText)
}
