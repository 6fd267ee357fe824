package controllers

import (
	"context"
	"time"

	"pipeline/src/models"
	"pipeline/src/scheduler"
	"pipeline/src/services"
	"pipeline/src/utils"
)

// RunPipeline runs the daily pipeline immediately.
func (c *Controller) RunPipeline(ctx context.Context) (*services.RunReport, error) {
	return c.Pipeline.Run(c.context(ctx))
}

// GetValuations lists the valuations recorded on date, or today when date is zero.
func (c *Controller) GetValuations(ctx context.Context, date time.Time) ([]models.Valuation, error) {
	if date.IsZero() {
		date = utils.LocalDate(c.Clock, c.Location)
	}
	return c.Valuations.GetValuations(c.context(ctx), date)
}

// SchedulePipeline (re)installs the recurring pipeline run.
func (c *Controller) SchedulePipeline(cronSpec string) error {
	c.SchedulerMutex.Lock()
	defer c.SchedulerMutex.Unlock()

	if c.Scheduler != nil {
		c.Scheduler.Cancel()
		c.Scheduler = nil
	}

	task, err := scheduler.NewScheduledTask(cronSpec, c.Location, func() {
		ctx := c.context(context.Background())
		report, err := c.Pipeline.Run(ctx)
		if err != nil {
			utils.LoggerFromContext(ctx).WithError(err).Error("scheduled pipeline run failed")
			return
		}
		utils.LoggerFromContext(ctx).WithField("status", report.Status).Info("scheduled pipeline run done")
	})
	if err != nil {
		return err
	}
	c.Scheduler = task
	utils.LoggerFromContext(c.context(context.Background())).WithField("next", task.Next()).Info("pipeline scheduled")
	return nil
}

// StopSchedule cancels the recurring run, if any.
func (c *Controller) StopSchedule() {
	c.SchedulerMutex.Lock()
	defer c.SchedulerMutex.Unlock()
	if c.Scheduler != nil {
		c.Scheduler.Cancel()
		c.Scheduler = nil
	}
}
