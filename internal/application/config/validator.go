// Package config validates the loaded configuration before the pipeline starts.
package config

import (
	"errors"
	"fmt"

	"github.com/doeshing/aurora-go/internal/domain"
)

// Validate ensures the configuration is consistent. Violations here are fatal
// at startup; no utterance is processed on a broken configuration.
func Validate(cfg domain.Config) error {
	if cfg.Registry.SourceFile == "" && cfg.Registry.CompiledFile == "" {
		return errors.New("registry.source_file or registry.compiled_file must be set")
	}
	if _, err := domain.NewThresholds(cfg.Routing.ConfirmationThreshold, cfg.Routing.AutoExecuteThreshold); err != nil {
		return fmt.Errorf("routing: %w", err)
	}
	if cfg.Speaker.Enabled {
		if cfg.Speaker.Threshold < 0 || cfg.Speaker.Threshold > 1 {
			return fmt.Errorf("speaker.threshold %.2f outside [0,1]", cfg.Speaker.Threshold)
		}
		if cfg.Speaker.ModelFile == "" {
			return errors.New("speaker.model_file must be set when speaker verification is enabled")
		}
	}
	if cfg.Audio.TimeoutSeconds <= 0 {
		return fmt.Errorf("audio.timeout must be > 0, got %d", cfg.Audio.TimeoutSeconds)
	}
	if cfg.Audio.PhraseLimitSeconds <= 0 {
		return fmt.Errorf("audio.phrase_limit must be > 0, got %d", cfg.Audio.PhraseLimitSeconds)
	}
	if cfg.Audio.MaxRetries < 0 {
		return fmt.Errorf("audio.max_retries must be >= 0, got %d", cfg.Audio.MaxRetries)
	}
	return nil
}
