package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/dukex/leadflow/pkg/cmd"
	"github.com/dukex/leadflow/pkg/log"
	"github.com/dukex/leadflow/pkg/otelhelper"
	"github.com/dukex/leadflow/pkg/sources/queue"
	"github.com/dukex/leadflow/pkg/workflow"
)

func RunWorkerCommand() *cli.Command {
	return &cli.Command{
		Name:    "run",
		Aliases: []string{"r"},
		Usage:   "Start the event worker",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "redis-url",
				Usage:   "Redis connection URL for the business event stream",
				Value:   "redis://localhost:6379",
				Sources: cli.EnvVars("REDIS_URL"),
			},
			&cli.StringFlag{
				Name:    "stream",
				Usage:   "Stream the business events arrive on",
				Value:   "leadflow.events",
				Sources: cli.EnvVars("STREAM"),
			},
			&cli.StringFlag{
				Name:    "consumer-group",
				Usage:   "Consumer group to join",
				Value:   "cg-leadflow",
				Sources: cli.EnvVars("CONSUMER_GROUP"),
			},
			&cli.StringFlag{
				Name:     "database-url",
				Usage:    "Database connection URL for persistence",
				Required: true,
				Sources:  cli.EnvVars("DATABASE_URL"),
			},
			&cli.StringFlag{
				Name:    "event-bus",
				Usage:   "Analytics event bus type (kafka, gochannel)",
				Value:   "gochannel",
				Sources: cli.EnvVars("EVENT_BUS_TYPE"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
			&cli.BoolFlag{
				Name:    "tracing",
				Usage:   "Export traces over OTLP HTTP",
				Sources: cli.EnvVars("TRACING_ENABLED"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			logger := log.WithModule("worker")
			logger.InfoContext(ctx, "Initializing Leadflow worker")

			if command.Bool("tracing") {
				shutdown, err := otelhelper.Init(ctx, "leadflow-worker")
				if err != nil {
					return err
				}

				defer func() {
					if err := shutdown(ctx); err != nil {
						logger.ErrorContext(ctx, "Failed to shutdown tracer provider", "error", err)
					}
				}()
			}

			registry := cmd.NewRegistry(logger, cmd.NewCapabilities())

			eventBus := cmd.NewEventBus(command.String("event-bus"), "leadflow-worker", logger)
			defer func() {
				if err := eventBus.Close(); err != nil {
					logger.ErrorContext(ctx, "Failed to close event bus", "error", err)
				}
			}()

			persistence := cmd.NewPersistence(ctx, logger, command.String("database-url"))
			defer func() {
				if err := persistence.Close(ctx); err != nil {
					logger.ErrorContext(ctx, "Failed to close persistence", "error", err)
				}
			}()

			engine := workflow.NewEngine(persistence, registry, eventBus, logger)

			receiver, err := queue.NewReceiver(queue.Config{
				RedisURL:      command.String("redis-url"),
				Stream:        command.String("stream"),
				ConsumerGroup: command.String("consumer-group"),
			}, logger)
			if err != nil {
				return err
			}

			err = receiver.Start(ctx, func(ctx context.Context, event queue.Event) error {
				executions, err := engine.HandleEvent(ctx, event.SiteID, event.Trigger, event.Data)
				if err != nil {
					return err
				}

				logger.InfoContext(ctx, "Handled business event",
					"trigger", string(event.Trigger), "site_id", event.SiteID,
					"matched", len(executions))

				return nil
			})
			if err != nil {
				return err
			}

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
			<-sigChan

			logger.InfoContext(ctx, "Shutting down Leadflow worker")

			return receiver.Stop(ctx)
		},
	}
}
