package activity

import (
	"LearnTrack/internal/app_errors"
	"LearnTrack/internal/models"
	"LearnTrack/pkg/logger"
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	events   []models.ActivityEvent
	lastSize int
}

func (m *memRepo) Index(_ context.Context, e models.ActivityEvent) error {
	m.events = append(m.events, e)
	return nil
}

func (m *memRepo) ByUser(_ context.Context, userID uuid.UUID, size int) ([]models.ActivityEvent, error) {
	m.lastSize = size
	var out []models.ActivityEvent
	for _, e := range m.events {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func TestLogAssignsID(t *testing.T) {
	repo := &memRepo{}
	svc := NewActivityService(logger.Nop(), repo)

	require.NoError(t, svc.Log(context.Background(), models.ActivityEvent{UserID: uuid.New()}))
	require.Len(t, repo.events, 1)
	assert.NotEqual(t, uuid.Nil, repo.events[0].ID)
}

func TestRecentClampsLimit(t *testing.T) {
	repo := &memRepo{}
	svc := NewActivityService(logger.Nop(), repo)

	_, err := svc.Recent(context.Background(), uuid.New(), 1000)
	require.NoError(t, err)
	assert.Equal(t, 20, repo.lastSize)
}

func TestDisabledRepo(t *testing.T) {
	svc := NewActivityService(logger.Nop(), nil)

	assert.NoError(t, svc.Log(context.Background(), models.ActivityEvent{}))
	_, err := svc.Recent(context.Background(), uuid.New(), 5)
	assert.ErrorIs(t, err, app_errors.ErrStorageDisabled)
}
