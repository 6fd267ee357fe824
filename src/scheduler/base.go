package scheduler

import (
	"time"

	"github.com/robfig/cron/v3"
)

type ScheduledTask struct {
	cronID   cron.EntryID
	cron     *cron.Cron
	location *time.Location
	cancel   chan struct{}
}

// NewScheduledTask starts running taskFunc on cronSpec, evaluated in loc.
func NewScheduledTask(cronSpec string, loc *time.Location, taskFunc func()) (*ScheduledTask, error) {
	if loc == nil {
		loc = time.Local
	}
	c := cron.New(cron.WithLocation(loc))
	cancel := make(chan struct{})
	task := &ScheduledTask{
		cron:     c,
		location: loc,
		cancel:   cancel,
	}

	id, err := c.AddFunc(cronSpec, func() {
		select {
		case <-cancel:
			return
		default:
			taskFunc()
		}
	})
	if err != nil {
		return nil, err
	}

	task.cronID = id
	c.Start()
	return task, nil
}

// Next returns the next activation time.
func (s *ScheduledTask) Next() time.Time {
	entry := s.cron.Entry(s.cronID)
	if !entry.Next.IsZero() {
		return entry.Next
	}
	// the runner has not planned the entry yet
	if entry.Schedule == nil {
		return time.Time{}
	}
	return entry.Schedule.Next(time.Now().In(s.location))
}

func (s *ScheduledTask) Cancel() {
	s.cron.Remove(s.cronID)
	close(s.cancel)
	<-s.cron.Stop().Done()
}
