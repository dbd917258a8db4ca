package app

import (
	"LearnTrack/internal/config"
	"LearnTrack/internal/notification"
	"LearnTrack/pkg/logger"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSender(t *testing.T) {
	log := logger.Nop()

	s, err := newSender(context.Background(), config.Notifier{Provider: "log"}, log)
	require.NoError(t, err)
	assert.IsType(t, &notification.LogSender{}, s)

	s, err = newSender(context.Background(), config.Notifier{Provider: "sendgrid", SendgridAPIKey: "SG.x", FromEmail: "a@b.c"}, log)
	require.NoError(t, err)
	assert.IsType(t, &notification.SendgridSender{}, s)

	_, err = newSender(context.Background(), config.Notifier{Provider: "sendgrid"}, log)
	assert.Error(t, err)

	_, err = newSender(context.Background(), config.Notifier{Provider: "fax"}, log)
	assert.Error(t, err)
}

func TestDisabledBackendsAreNil(t *testing.T) {
	log := logger.Nop()

	assert.Nil(t, newActivityStore(config.ES{}, log))
	assert.Nil(t, newCertificateStore(config.Minio{}, log))
	assert.Nil(t, newLeaderboard(config.Redis{}, log))
}
