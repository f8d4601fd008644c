package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"meetnotes/config"
)

func TestGetConfigDefaults(t *testing.T) {
	cfg := config.GetConfig()

	assert.NotEmpty(t, cfg.ListenAddr)
	assert.NotEmpty(t, cfg.GeminiModel)
	assert.Equal(t, "Meeting Summary", cfg.Mail.DefaultSubject)
	assert.Greater(t, cfg.SummarizeTimeout().Seconds(), 0.0)
	assert.Greater(t, cfg.MailTimeout().Seconds(), 0.0)
}
