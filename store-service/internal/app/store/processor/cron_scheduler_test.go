package processor

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"timezone/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockStatsRefresher мок для StatsRefresher
type MockStatsRefresher struct {
	mock.Mock
}

func (m *MockStatsRefresher) RefreshStatusStats(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// ===================== Start Tests =====================

func TestCronScheduler_Start_Success(t *testing.T) {
	// Arrange
	stats := new(MockStatsRefresher)
	scheduler := NewCronScheduler(stats)

	// Первый пересчет при старте
	stats.On("RefreshStatusStats", mock.Anything).Return(nil)

	// Act
	err := scheduler.Start(context.Background(), "@every 1h")

	// Assert
	require.NoError(t, err)
	assert.Len(t, scheduler.Entries(), 1)

	scheduler.Stop()
	stats.AssertNumberOfCalls(t, "RefreshStatusStats", 1)
}

func TestCronScheduler_Start_InvalidSchedule(t *testing.T) {
	// Arrange
	stats := new(MockStatsRefresher)
	scheduler := NewCronScheduler(stats)

	// Act
	err := scheduler.Start(context.Background(), "invalid cron expression")

	// Assert
	assert.Error(t, err)
	stats.AssertNotCalled(t, "RefreshStatusStats", mock.Anything)
}

func TestCronScheduler_Start_InitialRefreshError_ContinuesWork(t *testing.T) {
	// Arrange
	stats := new(MockStatsRefresher)
	scheduler := NewCronScheduler(stats)

	stats.On("RefreshStatusStats", mock.Anything).Return(errors.New("mongo unavailable"))

	// Act
	err := scheduler.Start(context.Background(), "*/5 * * * *")

	// Assert
	assert.NoError(t, err)
	assert.Len(t, scheduler.Entries(), 1)

	scheduler.Stop()
}

func TestCronScheduler_Stop_WithoutStart(t *testing.T) {
	scheduler := NewCronScheduler(new(MockStatsRefresher))

	assert.NotPanics(t, scheduler.Stop)
}

// ===================== cronLogger Tests =====================

func TestCronLogger_WritesToServiceLogger(t *testing.T) {
	// Arrange
	var buf bytes.Buffer
	logger.InitWithWriter("store-service", "debug", &buf)
	t.Cleanup(func() { logger.InitWithWriter("store-service", "info", &bytes.Buffer{}) })

	l := cronLogger{log: logger.Logger()}

	// Act
	l.Info("schedule", "entry", 1)
	l.Error(errors.New("job panicked"), "panic", "stack", "trace")

	// Assert
	out := buf.String()
	assert.Contains(t, out, `"service":"store-service"`)
	assert.Contains(t, out, `"component":"cron"`)
	assert.Contains(t, out, `"entry":1`)
	assert.Contains(t, out, `"error":"job panicked"`)
}
