// Package cmd implements the sldv CLI commands.
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/eykd/sldview/internal/config"
)

// NewRootCmd creates the root sldv command with all subcommands registered.
func NewRootCmd() *cobra.Command {
	fio := newDefaultFileIO()
	root := &cobra.Command{
		Use:           "sldv",
		Short:         "sldv - overlay projection and layout overrides for single-line diagrams",
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		RunE:          rootRunE,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return setupEnv(cmd, os.Getwd)
		},
	}
	root.PersistentFlags().String("config", "", "path to config file (default: ./"+config.FileName+" if present)")
	root.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	root.PersistentFlags().String("log-format", "", "log format: text, json")

	root.AddCommand(NewInitCmd(fio))
	root.AddCommand(NewOverlayCmd(fio))
	root.AddCommand(NewOverridesCmd(fio))
	root.AddCommand(NewCanonCmd(fio))
	root.AddCommand(NewFingerprintCmd(fio))
	return root
}

func rootRunE(cmd *cobra.Command, _ []string) error {
	return cmd.Help()
}

// env is the per-invocation configuration and logger shared by subcommands.
type env struct {
	cfg config.Config
	log *slog.Logger
}

type envKey struct{}

// setupEnv loads configuration, applies flag overrides, and attaches the
// resulting env to the command context.
func setupEnv(cmd *cobra.Command, getwd func() (string, error)) error {
	cwd, err := getwd()
	if err != nil {
		return fmt.Errorf("getting working directory: %w", err)
	}
	cfgPath, _ := cmd.Flags().GetString("config")
	cfg, used, err := config.Load(cfgPath, cwd)
	if err != nil {
		return err
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.Log.Level = lvl
	}
	if format, _ := cmd.Flags().GetString("log-format"); format != "" {
		cfg.Log.Format = format
	}

	logger := newLogger(cmd.ErrOrStderr(), cfg.Log)
	if used != "" {
		logger.Debug("loaded config", "path", used)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(context.WithValue(ctx, envKey{}, &env{cfg: cfg, log: logger}))
	return nil
}

// envFrom returns the env attached by setupEnv, or defaults with a discarding
// logger when the command runs outside the root (as in tests).
func envFrom(cmd *cobra.Command) *env {
	if ctx := cmd.Context(); ctx != nil {
		if e, ok := ctx.Value(envKey{}).(*env); ok {
			return e
		}
	}
	return &env{cfg: config.Default(), log: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func newLogger(w io.Writer, lc config.LogConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLogLevel(lc.Level)}
	if lc.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLogLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "error":
		return slog.LevelError
	case "warn", "warning":
		return slog.LevelWarn
	case "debug":
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}

// writeJSON encodes v to the command's stdout using the configured indent.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetEscapeHTML(false)
	if e := envFrom(cmd); e.cfg.Output.Indent != nil && *e.cfg.Output.Indent > 0 {
		enc.SetIndent("", strings.Repeat(" ", *e.cfg.Output.Indent))
	}
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	return nil
}

// readJSON reads path through fio and decodes it into v.
func readJSON(fio FileReader, path string, v any) error {
	data, err := fio.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	return nil
}
