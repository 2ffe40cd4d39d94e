package service

import (
	"context"
	"fmt"

	"go-inventory-pos/pkg/logger"

	"github.com/robfig/cron/v3"
)

// StartIncidentSweeper schedules ReportOpen on spec (standard cron syntax or
// descriptors such as "@every 5m"). Stop the returned scheduler on shutdown.
func StartIncidentSweeper(spec string, incidents IncidentService) (*cron.Cron, error) {
	scheduler := cron.New()
	_, err := scheduler.AddFunc(spec, func() {
		if _, err := incidents.ReportOpen(context.Background()); err != nil {
			logger.Error("incident sweep failed", err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid incident sweep spec %q: %w", spec, err)
	}
	scheduler.Start()
	logger.Info("incident sweeper scheduled with spec '%s'", spec)
	return scheduler, nil
}
