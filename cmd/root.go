package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Beastly713/codecprop/pkg/codec"
	"github.com/Beastly713/codecprop/pkg/logging"
	"github.com/Beastly713/codecprop/pkg/runner"
	"github.com/Beastly713/codecprop/pkg/settings"
)

// app is the state shared by every subcommand once flags are resolved.
type app struct {
	settings *settings.Settings
	log      *zap.Logger
	// factory overrides codec.Build when set.
	factory codec.Factory
}

func (a *app) runnerOptions(extra ...runner.Option) []runner.Option {
	opts := []runner.Option{
		runner.WithLogger(a.log),
		runner.WithSeed(a.settings.Seed),
		runner.WithBudget(a.settings.Budget),
		runner.WithMemoryTracking(a.settings.TrackMemory),
	}
	if a.factory != nil {
		opts = append(opts, runner.WithFactory(a.factory))
	}
	return append(opts, extra...)
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{})
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "codecprop",
		Short: "Property-based checks for a configurable base64 codec",
		Long: `Codecprop drives a base64 codec with well-formed and malformed
inputs under every alphabet and padding policy, and reports the first
counterexample of each property together with a stream that replays it.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			s, err := settings.Load(cmd.Flags())
			if err != nil {
				return err
			}
			log, err := logging.New(s.LogLevel, s.LogFormat, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			a.settings = s
			a.log = log
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}
	settings.AddFlags(root.PersistentFlags())

	root.AddCommand(
		newRunCmd(a),
		newListCmd(),
		newReplayCmd(a),
		newInteractiveCmd(a),
	)
	return root
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
