package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/doeshing/aurora-go/internal/app"
	"github.com/doeshing/aurora-go/internal/domain"
)

// NewSpeakerCommand creates the speaker command with all subcommands
func NewSpeakerCommand(build Builder) *cobra.Command {
	speakerCmd := &cobra.Command{
		Use:   "speaker",
		Short: "Manage speaker enrollment and verification",
	}

	speakerCmd.AddCommand(
		newSpeakerEnrollCommand(build),
		newSpeakerVerifyCommand(build),
		newSpeakerResetCommand(build),
		newSpeakerStatusCommand(build),
	)

	return speakerCmd
}

// newSpeakerEnrollCommand creates the 'speaker enroll' subcommand
func newSpeakerEnrollCommand(build Builder) *cobra.Command {
	var samples int

	cmd := &cobra.Command{
		Use:   "enroll",
		Short: "Record voice samples and add them to the trust model",
		RunE: func(cmd *cobra.Command, args []string) error {
			if samples <= 0 {
				return errors.New(ErrSamplesMustBePos)
			}
			container, err := build(cmd.Context())
			if err != nil {
				return err
			}
			return enrollSpeaker(cmd.Context(), cmd.OutOrStdout(), container, samples)
		},
	}

	cmd.Flags().IntVar(&samples, "samples", DefaultEnrollSamples, "Number of samples to record")
	return cmd
}

// newSpeakerVerifyCommand creates the 'speaker verify' subcommand
func newSpeakerVerifyCommand(build Builder) *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Record one sample and test it against the trust model",
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := build(cmd.Context())
			if err != nil {
				return err
			}
			return verifySpeaker(cmd.Context(), cmd.OutOrStdout(), container)
		},
	}
}

// newSpeakerResetCommand creates the 'speaker reset' subcommand
func newSpeakerResetCommand(build Builder) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Remove all enrolled speaker data",
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := build(cmd.Context())
			if err != nil {
				return err
			}
			if err := container.Gate.Reset(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), MsgSpeakerReset)
			return nil
		},
	}
}

// newSpeakerStatusCommand creates the 'speaker status' subcommand
func newSpeakerStatusCommand(build Builder) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current trust state",
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := build(cmd.Context())
			if err != nil {
				return err
			}
			status := container.Gate.Status()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Samples enrolled: %d\n", status.SampleCount)
			fmt.Fprintf(out, "Trained:          %v\n", status.Trained)
			fmt.Fprintf(out, "Threshold:        %.2f\n", status.Threshold)
			return nil
		},
	}
}

// enrollSpeaker records the requested number of samples, folding each into
// the trust model as it arrives
func enrollSpeaker(ctx context.Context, out io.Writer, container *app.Container, samples int) error {
	for i := 1; i <= samples; i++ {
		fmt.Fprintf(out, "Sample %d/%d: speak now...\n", i, samples)
		sample, err := captureSample(ctx, container)
		if err != nil {
			if errors.Is(err, domain.ErrCaptureTimeout) {
				fmt.Fprintln(out, "No speech detected, try again.")
				i--
				continue
			}
			return err
		}
		status, err := container.Gate.Enroll(sample)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Enrolled. Total samples: %d\n", status.SampleCount)
	}
	return nil
}

// verifySpeaker records one sample and reports the gate's verdict
func verifySpeaker(ctx context.Context, out io.Writer, container *app.Container) error {
	fmt.Fprintln(out, "Speak now...")
	sample, err := captureSample(ctx, container)
	if err != nil {
		return err
	}

	verdict, err := container.Gate.Verify(sample)
	if err != nil {
		if errors.Is(err, domain.ErrNotTrained) {
			return errors.New(ErrSpeakerNotTrained)
		}
		return err
	}

	if verdict.Authorized {
		fmt.Fprintf(out, "Authorized (confidence %.0f%%)\n", verdict.Confidence*100)
	} else {
		fmt.Fprintf(out, "Not authorized (confidence %.0f%%)\n", verdict.Confidence*100)
	}
	return nil
}

func captureSample(ctx context.Context, container *app.Container) (domain.AudioSample, error) {
	timeout := time.Duration(container.Config.Audio.TimeoutSeconds) * time.Second
	phraseLimit := time.Duration(container.Config.Audio.PhraseLimitSeconds) * time.Second
	return container.Capturer.Capture(ctx, timeout, phraseLimit)
}
