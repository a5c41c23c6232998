package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Yamashou/gqlbuilder/config"
	"github.com/Yamashou/gqlbuilder/plugins"
)

var configNames = []string{".gqlbuilder.yml", "gqlbuilder.yml", ".gqlbuilder.yaml", "gqlbuilder.yaml"}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var (
		cfgFile string
		verbose bool
	)

	cmd := &cobra.Command{
		Use:           "gqlbuilder",
		Short:         "Generate fluent Go query builders from a GraphQL schema",
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})))

			return generate(cmd.Context(), cfgFile)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetVersionTemplate("gqlbuilder v{{.Version}}\n")

	cmd.Flags().StringVarP(&cfgFile, "config", "c", "", "config file (default: first of "+strings.Join(configNames, ", ")+" found upwards from the working directory)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	return cmd
}

func generate(ctx context.Context, cfgFile string) error {
	if cfgFile == "" {
		found, err := config.FindConfigFile(".", configNames)
		if err != nil {
			return fmt.Errorf("failed to find config file: %w", err)
		}
		cfgFile = found
	}
	slog.Debug("loading config", "file", cfgFile)

	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config file: %w", err)
	}

	if err := cfg.LoadSchema(ctx); err != nil {
		return fmt.Errorf("failed to load schema: %w", err)
	}
	slog.Debug("loaded schema", "types", len(cfg.Introspection.Types))

	if err := plugins.GenerateCode(cfg); err != nil {
		return fmt.Errorf("failed to generate code: %w", err)
	}
	return nil
}
