package jobs

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"EnerTrack/internal/config"
	"EnerTrack/internal/logger"
	"EnerTrack/internal/serviceiface"
)

// CronService schedules the inbox importer.
type CronService struct {
	cfg   map[string]interface{}
	inbox *Inbox
	cron  *cron.Cron
}

func NewCronService(cfg map[string]interface{}, inbox *Inbox) serviceiface.Service {
	return &CronService{cfg: cfg, inbox: inbox}
}

func (s *CronService) Name() string {
	return "jobs"
}

func (s *CronService) Start() error {
	schedule := config.DefaultInboxSchedule
	if v, ok := s.cfg["inbox_schedule"].(string); ok && v != "" {
		schedule = v
	}
	tz := config.DefaultTimeZone
	if v, ok := s.cfg["timezone"].(string); ok && v != "" {
		tz = v
	}
	if v, ok := s.cfg["inbox_dir"].(string); ok && v != "" {
		s.inbox.Dir = v
	}
	if s.inbox.Dir == "" {
		s.inbox.Dir = config.DefaultInboxDir
	}

	loc, err := time.LoadLocation(tz)
	if err != nil {
		return fmt.Errorf("invalid timezone for inbox importer: %v", err)
	}
	s.cron = cron.New(cron.WithLocation(loc))
	_, err = s.cron.AddFunc(schedule, func() {
		if err := s.inbox.Scan(context.Background()); err != nil {
			logger.Audit("inbox scan failed: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid inbox schedule %q: %v", schedule, err)
	}
	s.cron.Start()
	log.Printf("[INFO] inbox importer scheduled %q on %s (%s)", schedule, s.inbox.Dir, tz)
	return nil
}

func (s *CronService) Stop() error {
	if s.cron != nil {
		s.cron.Stop()
	}
	return nil
}
