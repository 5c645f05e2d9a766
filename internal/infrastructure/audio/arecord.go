package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"time"

	"github.com/doeshing/aurora-go/internal/domain"
	"github.com/doeshing/aurora-go/internal/ports"
)

const captureSampleRate = 16000

// speechEnergyFloor separates "someone spoke" from ambient silence on the
// normalized RMS of the whole recording.
const speechEnergyFloor = 0.005

// ArecordCapturer records from the ALSA default (or configured) device by
// driving the arecord binary as a child process. A recording whose energy
// never rises above the silence floor is reported as a capture timeout,
// which voice mode may retry; a failure of the recorder itself is a device
// error and is not retryable.
type ArecordCapturer struct {
	device string
	log    ports.Logger
}

// NewArecordCapturer builds a capturer for the given ALSA device ("" means default).
func NewArecordCapturer(device string, log ports.Logger) *ArecordCapturer {
	return &ArecordCapturer{device: device, log: log}
}

// Capture implements ports.AudioCapturer.
func (c *ArecordCapturer) Capture(ctx context.Context, timeout, phraseLimit time.Duration) (domain.AudioSample, error) {
	window := timeout + phraseLimit
	ctx, cancel := context.WithTimeout(ctx, window+2*time.Second)
	defer cancel()

	args := []string{
		"-q",
		"-f", "S16_LE",
		"-r", strconv.Itoa(captureSampleRate),
		"-c", "1",
		"-t", "wav",
		"-d", strconv.Itoa(int(window.Seconds())),
	}
	if c.device != "" {
		args = append(args, "-D", c.device)
	}
	args = append(args, "-")

	cmd := exec.CommandContext(ctx, "arecord", args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	c.log.Debug("capturing audio", map[string]interface{}{"window_seconds": window.Seconds()})
	if err := cmd.Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return domain.AudioSample{}, fmt.Errorf("microphone device error: arecord not installed: %w", err)
		}
		return domain.AudioSample{}, fmt.Errorf("microphone device error: %s: %w", bytes.TrimSpace(stderr.Bytes()), err)
	}

	sample := domain.AudioSample{WAV: stdout.Bytes(), SampleRate: captureSampleRate}
	pcm, err := decodePCM16(sample.WAV)
	if err != nil {
		return domain.AudioSample{}, fmt.Errorf("microphone device error: %w", err)
	}
	if rms(pcm) < speechEnergyFloor {
		return domain.AudioSample{}, domain.ErrCaptureTimeout
	}
	return sample, nil
}

var _ ports.AudioCapturer = (*ArecordCapturer)(nil)
