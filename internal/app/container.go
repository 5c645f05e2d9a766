// Package app wires application services with infrastructure adapters.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/doeshing/aurora-go/internal/application/assist"
	appconfig "github.com/doeshing/aurora-go/internal/application/config"
	"github.com/doeshing/aurora-go/internal/application/route"
	"github.com/doeshing/aurora-go/internal/domain"
	"github.com/doeshing/aurora-go/internal/infrastructure/audio"
	"github.com/doeshing/aurora-go/internal/infrastructure/audit"
	"github.com/doeshing/aurora-go/internal/infrastructure/classifier"
	"github.com/doeshing/aurora-go/internal/infrastructure/config"
	"github.com/doeshing/aurora-go/internal/infrastructure/executor"
	"github.com/doeshing/aurora-go/internal/infrastructure/registry"
	"github.com/doeshing/aurora-go/internal/infrastructure/speaker"
	"github.com/doeshing/aurora-go/internal/infrastructure/transcribe"
	"github.com/doeshing/aurora-go/internal/infrastructure/wakeword"
	"github.com/doeshing/aurora-go/internal/pkg/logger"
	"github.com/doeshing/aurora-go/internal/ports"
)

// Options carries CLI-level overrides into the dependency graph. Threshold
// overrides below zero mean "use the configured value".
type Options struct {
	Verbose          bool
	ConfigPath       string
	RegistryPath     string
	ConfirmThreshold float64
	AutoThreshold    float64
	VerifySpeaker    *bool
}

// Container holds the constructed dependency graph. There is no ambient
// global state anywhere in the pipeline; everything is owned here.
type Container struct {
	Config   domain.Config
	Logger   ports.Logger
	Audit    ports.AuditRepository
	Gate     ports.SpeakerGate
	Capturer ports.AudioCapturer

	registrySource string
}

// BuildContainer constructs the shared part of the dependency graph.
// Configuration problems (bad thresholds, missing registry settings) are
// fatal here, before any utterance is processed.
func BuildContainer(ctx context.Context, opts Options) (*Container, error) {
	cfgLoader := config.NewFileLoader(opts.ConfigPath)
	cfg, err := cfgLoader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if opts.ConfirmThreshold >= 0 {
		cfg.Routing.ConfirmationThreshold = opts.ConfirmThreshold
	}
	if opts.AutoThreshold >= 0 {
		cfg.Routing.AutoExecuteThreshold = opts.AutoThreshold
	}
	if opts.RegistryPath != "" {
		cfg.Registry.SourceFile = opts.RegistryPath
	}
	if opts.VerifySpeaker != nil {
		cfg.Speaker.Enabled = *opts.VerifySpeaker
	}

	if err := appconfig.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	log := logger.NewStd(opts.Verbose)

	gate, err := speaker.NewGate(cfg.Speaker.ModelFile, cfg.Speaker.Threshold, audio.NewSpectralExtractor(), log)
	if err != nil {
		return nil, err
	}

	var auditStore ports.AuditRepository
	if cfg.Audit.Enabled {
		auditStore = audit.NewSQLiteStore(filepath.Join(config.DataDir(), "audit"))
	}

	return &Container{
		Config:         cfg,
		Logger:         log,
		Audit:          auditStore,
		Gate:           gate,
		Capturer:       audio.NewArecordCapturer(cfg.Audio.Device, log),
		registrySource: cfg.Registry.SourceFile,
	}, nil
}

// LoadRegistry loads the declarative source when present, falling back to
// the compiled form.
func (c *Container) LoadRegistry() (domain.Registry, error) {
	if c.registrySource != "" {
		if _, err := os.Stat(c.registrySource); err == nil {
			return registry.LoadFile(c.registrySource)
		}
	}
	if c.Config.Registry.CompiledFile != "" {
		if _, err := os.Stat(c.Config.Registry.CompiledFile); err == nil {
			return registry.LoadCompiled(c.Config.Registry.CompiledFile)
		}
	}
	return domain.Registry{}, fmt.Errorf("no command registry found (looked for %s and %s)",
		c.registrySource, c.Config.Registry.CompiledFile)
}

// RegistrySource returns the declarative source path for compile/watch.
func (c *Container) RegistrySource() string {
	return c.registrySource
}

// BuildAssist assembles a fully wired pipeline service.
func (c *Container) BuildAssist(ctx context.Context) (*assist.Service, error) {
	reg, err := c.LoadRegistry()
	if err != nil {
		return nil, err
	}

	classifierFor := func(r domain.Registry) (ports.IntentClassifier, error) {
		return classifier.NewKeyword(c.Config.Classifier.PhrasesFile, r)
	}
	intentClassifier, err := classifierFor(reg)
	if err != nil {
		return nil, err
	}

	thresholds, err := domain.NewThresholds(
		c.Config.Routing.ConfirmationThreshold,
		c.Config.Routing.AutoExecuteThreshold,
	)
	if err != nil {
		return nil, err
	}

	sandboxFor := func(r domain.Registry) ports.CommandExecutor {
		return executor.NewSandbox(r)
	}

	return &assist.Service{
		Registry:          reg,
		Stripper:          wakeword.NewStripper(c.Config.Wakeword),
		Classifier:        intentClassifier,
		Gate:              c.Gate,
		Router:            route.NewRouter(thresholds, sandboxFor(reg)),
		Capturer:          c.Capturer,
		Transcriber:       transcribe.NewHTTPTranscriber(c.Config.Transcriber),
		Audit:             c.Audit,
		Logger:            c.Logger,
		VerifySpeaker:     c.Config.Speaker.Enabled,
		FailOpen:          c.Config.Speaker.FailOpen,
		CaptureTimeout:    time.Duration(c.Config.Audio.TimeoutSeconds) * time.Second,
		PhraseLimit:       time.Duration(c.Config.Audio.PhraseLimitSeconds) * time.Second,
		MaxRetries:        c.Config.Audio.MaxRetries,
		ExecutorFactory:   sandboxFor,
		ClassifierFactory: classifierFor,
	}, nil
}
