package services

import (
	"context"
	"time"

	"jarvis-rag-backend/internal/logger"
	"jarvis-rag-backend/internal/vectorstore"

	"github.com/go-co-op/gocron"
)

// StatsService periodically polls the vector index and logs its shape.
// The log line doubles as a liveness signal for the index connection.
type StatsService struct {
	store     vectorstore.Store
	scheduler *gocron.Scheduler
	interval  time.Duration
}

func NewStatsService(store vectorstore.Store, intervalMinutes int) *StatsService {
	if intervalMinutes <= 0 {
		intervalMinutes = 15
	}
	return &StatsService{
		store:     store,
		scheduler: gocron.NewScheduler(time.UTC),
		interval:  time.Duration(intervalMinutes) * time.Minute,
	}
}

// Start schedules the polling job and runs it in the background.
func (s *StatsService) Start() error {
	_, err := s.scheduler.Every(s.interval).Do(s.report)
	if err != nil {
		return err
	}
	s.scheduler.StartAsync()
	logger.Info("Index stats job scheduled", "interval", s.interval.String())
	return nil
}

func (s *StatsService) Stop() {
	s.scheduler.Stop()
}

func (s *StatsService) report() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	stats, err := s.store.Stats(ctx)
	if err != nil {
		logger.Error("Failed to fetch index stats", "error", err)
		return
	}

	logger.Info("Vector index stats",
		"dimension", stats.Dimension,
		"total_vectors", stats.TotalVectorCount,
		"namespaces", len(stats.Namespaces))
}
