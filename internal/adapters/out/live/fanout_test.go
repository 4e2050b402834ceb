package live_test

import (
	"context"
	"errors"
	"testing"

	"junkos/internal/adapters/out/live"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockChannel struct {
	mock.Mock
}

func (m *mockChannel) Emit(ctx context.Context, room, event string, payload any) error {
	return m.Called(ctx, room, event, payload).Error(0)
}

func TestFanout_Emit(t *testing.T) {
	ctx := t.Context()
	payload := map[string]any{"job_id": "j1"}

	broken := new(mockChannel)
	broken.On("Emit", ctx, "j1", "job:status", payload).Return(errors.New("broker down")).Once()
	healthy := new(mockChannel)
	healthy.On("Emit", ctx, "j1", "job:status", payload).Return(nil).Once()

	err := live.Fanout{broken, nil, healthy}.Emit(ctx, "j1", "job:status", payload)

	require.ErrorContains(t, err, "broker down")
	broken.AssertExpectations(t)
	healthy.AssertExpectations(t)
}

func TestFanout_EmitAllHealthy(t *testing.T) {
	ch := new(mockChannel)
	ch.On("Emit", mock.Anything, "admin", "admin:job-status", nil).Return(nil).Once()

	require.NoError(t, live.Fanout{ch}.Emit(t.Context(), "admin", "admin:job-status", nil))
}
