package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/allisson/blog/cmd/app/commands"
	"github.com/allisson/blog/internal/app"
	"github.com/allisson/blog/internal/config"
	postRepository "github.com/allisson/blog/internal/post/repository"
)

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Value:   "text",
		Usage:   "Output format: 'text' or 'json'",
	}
}

func getSystemCommands(version string) []*cli.Command {
	return []*cli.Command{
		{
			Name:  "server",
			Usage: "Start the blog and metrics HTTP servers",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunServer(ctx, version)
			},
		},
		{
			Name:  "init-db",
			Usage: "Create the posts collection and seed it when it does not exist",
			Flags: []cli.Flag{formatFlag()},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer commands.CloseContainer(container, container.Logger())

				repo, err := container.PostRepository()
				if err != nil {
					return fmt.Errorf("failed to initialize post repository: %w", err)
				}

				return commands.RunInitDB(
					ctx,
					repo,
					postRepository.CollectionName,
					container.Logger(),
					os.Stdout,
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "check-secrets",
			Usage: "Report which required secrets can be resolved, without printing them",
			Flags: []cli.Flag{formatFlag()},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer commands.CloseContainer(container, container.Logger())

				reader, err := container.SecretReader()
				if err != nil {
					return fmt.Errorf("failed to initialize secret reader: %w", err)
				}
				keys, err := container.SecretResolver()
				if err != nil {
					return fmt.Errorf("failed to initialize secret resolver: %w", err)
				}

				checks := commands.SecretChecks(
					container.TokenResolver(),
					reader,
					keys,
					cfg.MongoSecretPath,
					cfg.AppSecretKey,
				)
				return commands.RunCheckSecrets(ctx, checks, container.Logger(), os.Stdout, cmd.String("format"))
			},
		},
	}
}
