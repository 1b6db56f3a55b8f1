package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formmigrate/pkg/config"
)

type rootOptions struct {
	configPath string
	logLevel   string
}

func main() {
	if err := newRootCommand(os.Stdin, os.Stdout, os.Stderr, surveyConfirm).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand(stdin io.Reader, stdout, stderr io.Writer, confirm confirmFunc) *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:          "formmigrate",
		Short:        "Convert exported legacy forms and tile pages into editor blocks",
		SilenceUsage: true,
	}
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "YAML configuration file")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(newConvertCommand(opts, confirm))
	root.AddCommand(newServeCommand(opts))
	return root
}

func (o *rootOptions) load(stderr io.Writer) (config.Config, *slog.Logger, error) {
	level, err := parseLevel(o.logLevel)
	if err != nil {
		return config.Config{}, nil, err
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := config.Load(o.configPath)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, logger, nil
}

func parseLevel(raw string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", raw)
	}
}
