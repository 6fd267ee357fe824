package commands

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"pipeline/src/worker"
	"pipeline/src/worker/controllers"
	"pipeline/src/worker/handlers"

	"github.com/spf13/cobra"
)

func newServeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the worker: HTTP trigger plus the daily schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(opts)
			if err != nil {
				return err
			}
			return serve(cmd, a)
		},
	}
}

func serve(cmd *cobra.Command, a *app) error {
	db, err := a.openDB()
	if err != nil {
		return err
	}
	pipeline, valuations := a.services(db)

	controller := controllers.NewController(pipeline, valuations, a.logger, a.location)
	if a.cfg.Pipeline.Schedule != "" {
		if err := controller.SchedulePipeline(a.cfg.Pipeline.Schedule); err != nil {
			return err
		}
		defer controller.StopSchedule()
	}

	httpServer := worker.NewHTTPServer(worker.NewServer(handlers.NewHandler(controller)), a.cfg.Service.Port)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errC := make(chan error, 1)
	go func() {
		a.logger.WithField("addr", httpServer.Addr).Info("Starting server")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errC <- err
		}
		close(errC)
	}()

	select {
	case err := <-errC:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
