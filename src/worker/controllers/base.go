package controllers

import (
	"context"
	"sync"
	"time"

	"pipeline/src/scheduler"
	"pipeline/src/services"
	"pipeline/src/utils"

	"github.com/sirupsen/logrus"
)

type Controller struct {
	Pipeline   services.PipelineServiceI
	Valuations services.ValuationServiceI
	Logger     *logrus.Logger
	Location   *time.Location
	Clock      utils.Clock

	SchedulerMutex sync.Mutex
	Scheduler      *scheduler.ScheduledTask
}

func NewController(pipeline services.PipelineServiceI, valuations services.ValuationServiceI, logger *logrus.Logger, location *time.Location) *Controller {
	return &Controller{
		Pipeline:   pipeline,
		Valuations: valuations,
		Logger:     logger,
		Location:   location,
		Clock:      utils.SystemClock{},
	}
}

func (c *Controller) context(ctx context.Context) context.Context {
	if c.Logger == nil {
		return ctx
	}
	return utils.WithLogger(ctx, c.Logger)
}
