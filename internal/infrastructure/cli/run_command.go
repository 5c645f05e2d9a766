package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/doeshing/aurora-go/internal/application/assist"
	"github.com/doeshing/aurora-go/internal/domain"
	"github.com/doeshing/aurora-go/internal/infrastructure/cli/commands"
	"github.com/doeshing/aurora-go/internal/infrastructure/registry"
)

// newRunCommand creates the run command: single utterance by default, a text
// REPL with -i, or the continuous microphone loop with --voice.
func newRunCommand(build commands.Builder) *cobra.Command {
	var (
		interactive   bool
		voice         bool
		watchRegistry bool
	)

	cmd := &cobra.Command{
		Use:   "run [utterance]",
		Short: "Process an utterance through the pipeline",
		RunE: func(cmd *cobra.Command, args []string) error {
			switch {
			case voice:
				return runVoiceLoop(cmd, build, watchRegistry)
			case interactive:
				return runInteractiveLoop(cmd, build)
			case len(args) == 0:
				return errors.New("nothing to do: pass an utterance, -i, or --voice")
			default:
				return runUtterance(cmd, build, args)
			}
		},
	}

	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Read utterances from stdin in a loop")
	cmd.Flags().BoolVar(&voice, "voice", false, "Capture utterances from the microphone in a loop")
	cmd.Flags().BoolVar(&watchRegistry, "watch-registry", false, "Reload the registry when its source file changes (voice mode)")
	return cmd
}

// runUtterance processes one text utterance and exits.
func runUtterance(cmd *cobra.Command, build commands.Builder, args []string) error {
	ctx := cmd.Context()
	svc, err := buildService(ctx, cmd, build)
	if err != nil {
		return err
	}

	outcome, err := svc.ProcessText(ctx, strings.Join(args, " "), nil)
	RenderOutcome(cmd.OutOrStdout(), outcome, err)
	if err != nil {
		return err
	}
	if outcome.Status == domain.StatusUnauthorized {
		return errors.New("speaker not authorized")
	}
	return nil
}

// runInteractiveLoop reads utterances from stdin until EOF or exit/quit.
func runInteractiveLoop(cmd *cobra.Command, build commands.Builder) error {
	ctx := cmd.Context()
	svc, err := buildService(ctx, cmd, build)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		fmt.Fprint(out, "aurora> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			return nil
		}

		outcome, err := svc.ProcessText(ctx, line, nil)
		RenderOutcome(out, outcome, err)
	}
}

// runVoiceLoop captures, transcribes, and processes utterances until
// interrupted. Each utterance is fully resolved before the next capture
// starts; registry reloads are applied only between utterances.
func runVoiceLoop(cmd *cobra.Command, build commands.Builder, watchRegistry bool) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	container, err := build(ctx)
	if err != nil {
		return err
	}
	svc, err := container.BuildAssist(ctx)
	if err != nil {
		return err
	}
	svc.Prompter = NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout())

	var reloads <-chan domain.Registry
	if watchRegistry {
		watcher := registry.NewWatcher(container.RegistrySource(), container.Logger)
		reloads, err = watcher.Watch(ctx)
		if err != nil {
			return fmt.Errorf("watch registry: %w", err)
		}
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Listening... (Ctrl-C to stop)")
	for {
		if ctx.Err() != nil {
			return nil
		}
		drainReloads(reloads, svc)

		sample, text, err := svc.CaptureUtterance(ctx)
		switch {
		case ctx.Err() != nil:
			return nil
		case errors.Is(err, domain.ErrCaptureTimeout):
			continue
		case errors.Is(err, domain.ErrUnintelligible):
			fmt.Fprintln(out, "Didn't catch that.")
			continue
		case err != nil:
			// device or transcription-service failure; retrying in a
			// tight loop cannot help
			return err
		}

		outcome, err := svc.ProcessText(ctx, text, &sample)
		RenderOutcome(out, outcome, err)
	}
}

func drainReloads(reloads <-chan domain.Registry, svc *assist.Service) {
	if reloads == nil {
		return
	}
	for {
		select {
		case reg, ok := <-reloads:
			if !ok {
				return
			}
			if err := svc.SwapRegistry(reg); err != nil {
				svc.Logger.Warn("registry swap failed, keeping previous wiring", map[string]interface{}{
					"error": err.Error(),
				})
			}
		default:
			return
		}
	}
}

// buildService assembles the pipeline with the interactive prompter attached.
func buildService(ctx context.Context, cmd *cobra.Command, build commands.Builder) (*assist.Service, error) {
	container, err := build(ctx)
	if err != nil {
		return nil, err
	}
	svc, err := container.BuildAssist(ctx)
	if err != nil {
		return nil, err
	}
	svc.Prompter = NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
	return svc, nil
}
