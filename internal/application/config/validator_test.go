package config

import (
	"testing"

	"github.com/doeshing/aurora-go/internal/domain"
)

func validConfig() domain.Config {
	return domain.Config{
		Registry: domain.RegistrySettings{
			SourceFile:   "/tmp/commands.txt",
			CompiledFile: "/tmp/commands.json",
		},
		Routing: domain.RoutingSettings{
			ConfirmationThreshold: 0.4,
			AutoExecuteThreshold:  0.75,
		},
		Speaker: domain.SpeakerSettings{
			Enabled:   true,
			Threshold: 0.5,
			ModelFile: "/tmp/model.json",
		},
		Audio: domain.AudioSettings{
			TimeoutSeconds:     5,
			PhraseLimitSeconds: 10,
			MaxRetries:         3,
		},
	}
}

func TestValidateAcceptsValidConfig(t *testing.T) {
	if err := Validate(validConfig()); err != nil {
		t.Fatalf("Validate error: %v", err)
	}
}

func TestValidateRejectsMissingRegistry(t *testing.T) {
	cfg := validConfig()
	cfg.Registry.SourceFile = ""
	cfg.Registry.CompiledFile = ""
	if err := Validate(cfg); err == nil {
		t.Fatal("expected error for missing registry paths")
	}
}

func TestValidateRejectsInvertedThresholds(t *testing.T) {
	cfg := validConfig()
	cfg.Routing.ConfirmationThreshold = 0.9
	cfg.Routing.AutoExecuteThreshold = 0.4
	if err := Validate(cfg); err == nil {
		t.Fatal("expected error for inverted thresholds")
	}
}

func TestValidateRejectsBadSpeakerThreshold(t *testing.T) {
	cfg := validConfig()
	cfg.Speaker.Threshold = 1.2
	if err := Validate(cfg); err == nil {
		t.Fatal("expected error for speaker threshold above 1")
	}
}

func TestValidateRejectsSpeakerWithoutModelFile(t *testing.T) {
	cfg := validConfig()
	cfg.Speaker.ModelFile = ""
	if err := Validate(cfg); err == nil {
		t.Fatal("expected error for enabled speaker without model file")
	}
}

func TestValidateIgnoresSpeakerWhenDisabled(t *testing.T) {
	cfg := validConfig()
	cfg.Speaker.Enabled = false
	cfg.Speaker.ModelFile = ""
	if err := Validate(cfg); err != nil {
		t.Fatalf("Validate error: %v", err)
	}
}

func TestValidateRejectsBadAudioSettings(t *testing.T) {
	cfg := validConfig()
	cfg.Audio.TimeoutSeconds = 0
	if err := Validate(cfg); err == nil {
		t.Fatal("expected error for zero capture timeout")
	}
}
