package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/theimaginaryfoundation/insight-snapshot/insight"
	"github.com/theimaginaryfoundation/insight-snapshot/ui"
)

// usageError marks failures caused by bad input; they exit with status 2.
type usageError struct {
	msg string
}

func (e usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return usageError{msg: fmt.Sprintf(format, args...)}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		var ue usageError
		if errors.As(err, &ue) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

type app struct {
	cfg    Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{cfg: defaultConfig(), logger: zap.NewNop()}

	root := &cobra.Command{
		Use:   "insight-snapshot",
		Short: "Turn a workplace reflection into a structured insight snapshot",
		Long: `insight-snapshot sends a short workplace reflection to a language model and shows a
structured snapshot: summary, key themes, an emotional signal, two reflection prompts and,
when one is clearly present, a risk note.

Run without arguments for the interactive screen. Demo snapshots need no API key.

The API key is read from --api-key, API_KEY, or OPENAI_API_KEY.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := applyConfigFile(cmd.Flags(), &a.cfg); err != nil {
				return usageError{msg: err.Error()}
			}
			if err := a.cfg.Validate(); err != nil {
				return usageError{msg: err.Error()}
			}
			logger, err := newLogger(a.cfg, cmd.Name() == "insight-snapshot")
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			a.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			session := insight.NewSession(a.adapter(), insight.WithLogger(a.logger))
			return ui.Run(cmd.Context(), session, ui.Options{WordWrap: a.cfg.WordWrap})
		},
	}
	bindFlags(root.PersistentFlags(), &a.cfg)

	root.AddCommand(newAnalyzeCmd(a), newDemoCmd(a))
	return root
}

func (a *app) adapter() *insight.Adapter {
	return insight.NewAdapter(insight.AdapterConfig{
		Model:           a.cfg.Model,
		BaseURL:         a.cfg.BaseURL,
		MaxOutputTokens: a.cfg.MaxOutputTokens,
		Credential:      a.cfg.credential(),
		Logger:          a.logger.Named("adapter"),
	})
}

// newLogger builds the process logger. The interactive screen owns the terminal, so it only logs to --log-file.
func newLogger(cfg Config, interactive bool) (*zap.Logger, error) {
	if interactive && cfg.LogFile == "" {
		return zap.NewNop(), nil
	}
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if cfg.Verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	if cfg.LogFile != "" {
		config.OutputPaths = []string{cfg.LogFile}
		config.ErrorOutputPaths = []string{cfg.LogFile}
	}
	return config.Build()
}
