package processor

import (
	"context"
	"time"

	"timezone/pkg/logger"
	"timezone/pkg/metrics"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

const jobTimeout = 30 * time.Second

// StatsRefresher пересчитывает агрегаты по заказам (реализует OrderService)
type StatsRefresher interface {
	RefreshStatusStats(ctx context.Context) error
}

type CronScheduler struct {
	cron  *cron.Cron
	stats StatsRefresher
}

func NewCronScheduler(stats StatsRefresher) *CronScheduler {
	l := cronLogger{log: logger.Logger()}
	c := cron.New(
		cron.WithLogger(l),
		cron.WithChain(cron.Recover(l), cron.SkipIfStillRunning(l)),
	)

	return &CronScheduler{
		cron:  c,
		stats: stats,
	}
}

// Start регистрирует задачу и сразу выполняет первый пересчет,
// чтобы gauge не был пустым до первого срабатывания расписания
func (s *CronScheduler) Start(ctx context.Context, schedule string) error {
	logger.Info().Str("schedule", schedule).Msg("Starting cron scheduler")

	if _, err := s.cron.AddFunc(schedule, func() { s.run(ctx) }); err != nil {
		return err
	}

	s.cron.Start()
	s.run(ctx)

	return nil
}

func (s *CronScheduler) run(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, jobTimeout)
	defer cancel()

	if err := s.stats.RefreshStatusStats(ctx); err != nil {
		metrics.StatsJobRuns.WithLabelValues("error").Inc()
		logger.Error().Err(err).Msg("Failed to refresh order status stats")
		return
	}

	metrics.StatsJobRuns.WithLabelValues("success").Inc()
	logger.Debug().Msg("Order status stats refreshed")
}

// Stop дожидается завершения запущенной задачи
func (s *CronScheduler) Stop() {
	logger.Info().Msg("Stopping cron scheduler...")
	<-s.cron.Stop().Done()
	logger.Info().Msg("Cron scheduler stopped")
}

func (s *CronScheduler) Entries() []cron.Entry {
	return s.cron.Entries()
}

// cronLogger направляет сообщения cron в zerolog
type cronLogger struct {
	log *zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Str("component", "cron").Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error().Str("component", "cron").Err(err).Fields(keysAndValues).Msg(msg)
}
