package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"ArticleComposer/internal/app"
	"ArticleComposer/internal/config"
	"ArticleComposer/internal/domain"
	"ArticleComposer/internal/logging"
)

type commandContext struct {
	configPath string
	logLevel   string
}

func (c *commandContext) load() (config.Config, *slog.Logger) {
	var cfg config.Config
	if c.configPath != "" {
		cfg = config.LoadFile(c.configPath)
	} else {
		cfg = config.Load()
	}
	level := cfg.Logging.Level
	if c.logLevel != "" {
		level = c.logLevel
	}
	return cfg, logging.New(level)
}

func (c *commandContext) open(ctx context.Context) (*app.Application, config.Config, error) {
	cfg, logger := c.load()
	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		return nil, cfg, err
	}
	return application, cfg, nil
}

func newRootCommand() *cobra.Command {
	cc := &commandContext{}

	rootCmd := &cobra.Command{
		Use:           "articlecomposer",
		Short:         "Generate, schedule and store batches of articles",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&cc.configPath, "config", "c", "", "Configuration file path (defaults to $ARTICLE_COMPOSER_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&cc.logLevel, "log-level", "", "Override the configured log level")

	rootCmd.AddCommand(newGenerateCommand(cc))
	rootCmd.AddCommand(newScheduleCommand(cc))
	rootCmd.AddCommand(newMigrateCommand(cc))

	return rootCmd
}

// collectRequests merges positional titles with an optional titles file.
func collectRequests(args []string, file string, cfg config.Config) ([]domain.ArticleRequest, error) {
	requests := app.TitlesToRequests(args)
	if strings.TrimSpace(file) != "" {
		fromFile, err := app.LoadRequests(file, cfg.Schedule.Location())
		if err != nil {
			return nil, err
		}
		requests = append(requests, fromFile...)
	}
	if len(requests) == 0 {
		return nil, fmt.Errorf("no titles given; pass titles as arguments or use --file")
	}
	return requests, nil
}

func exitCode(err error) int {
	var (
		verr *domain.ValidationError
		aerr *domain.AuthError
	)
	switch {
	case errors.As(err, &verr):
		return 2
	case errors.As(err, &aerr):
		return 3
	case errors.Is(err, domain.ErrRunInProgress):
		return 4
	default:
		return 1
	}
}
