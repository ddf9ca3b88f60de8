// Package main provides the Leadflow worker: a consumer that turns business
// events from the event stream into workflow executions.
package main

import (
	"context"
	"os"

	cli "github.com/urfave/cli/v3"
)

func main() {
	command := &cli.Command{
		Name:                  "leadflow-worker",
		Usage:                 "Consume business events and execute matching workflows",
		EnableShellCompletion: true,
		Commands: []*cli.Command{
			RunWorkerCommand(),
		},
	}

	if err := command.Run(context.Background(), os.Args); err != nil {
		panic(err)
	}
}
