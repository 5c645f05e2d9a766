package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/doeshing/aurora-go/internal/app"
	"github.com/doeshing/aurora-go/internal/infrastructure/cli/commands"
)

// Options holds CLI-level configuration.
type Options struct {
	Verbose bool
}

// NewRootCmd wires the cobra root command. The dependency graph is built
// lazily, after flag parsing, so threshold and registry overrides reach the
// container.
func NewRootCmd(opts Options) *cobra.Command {
	var (
		configPath    string
		registryPath  string
		confirmThresh float64
		autoThresh    float64
		verifySpeaker bool
		verbose       bool
	)

	root := &cobra.Command{
		Use:           "aurora [utterance]",
		Short:         "Aurora - voice command assistant",
		Long:          "Aurora maps natural-language utterances to pre-registered commands,\nrouting each one by classifier confidence: execute, confirm, or reject.",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "Config file path (default ~/.aurora/config.yaml)")
	root.PersistentFlags().StringVar(&registryPath, "registry", "", "Registry source file override")
	root.PersistentFlags().Float64Var(&confirmThresh, "confirm-threshold", 0, "Confidence below which utterances are rejected")
	root.PersistentFlags().Float64Var(&autoThresh, "auto-threshold", 0, "Confidence at or above which commands run without confirmation")
	root.PersistentFlags().BoolVar(&verifySpeaker, "verify-speaker", false, "Require speaker verification before routing")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	flags := root.PersistentFlags()
	build := func(ctx context.Context) (*app.Container, error) {
		buildOpts := app.Options{
			Verbose:          opts.Verbose || verbose,
			ConfigPath:       configPath,
			RegistryPath:     registryPath,
			ConfirmThreshold: -1,
			AutoThreshold:    -1,
		}
		if flags.Changed("confirm-threshold") {
			buildOpts.ConfirmThreshold = confirmThresh
		}
		if flags.Changed("auto-threshold") {
			buildOpts.AutoThreshold = autoThresh
		}
		if flags.Changed("verify-speaker") {
			enabled := verifySpeaker
			buildOpts.VerifySpeaker = &enabled
		}
		return app.BuildContainer(ctx, buildOpts)
	}

	runCmd := newRunCommand(build)
	root.RunE = func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return cmd.Help()
		}
		return runUtterance(cmd, build, args)
	}

	root.AddCommand(runCmd)
	root.AddCommand(commands.NewRegistryCommand(build))
	root.AddCommand(commands.NewSpeakerCommand(build))
	root.AddCommand(commands.NewHistoryCommand(build))
	root.AddCommand(commands.NewVersionCommand())
	return root
}
