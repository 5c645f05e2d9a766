// Package config loads the Aurora configuration file.
package config

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/doeshing/aurora-go/internal/domain"
	"github.com/doeshing/aurora-go/internal/pkg/filesystem"
	"github.com/doeshing/aurora-go/internal/ports"
)

// FileLoader loads YAML configuration from ~/.aurora/config.yaml (overridable
// via AURORA_CONFIG or an explicit path).
type FileLoader struct {
	overridePath string
}

// NewFileLoader builds a new loader.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{overridePath: path}
}

// Load implements ports.ConfigProvider. A missing file is replaced with
// written defaults so a fresh install starts from a readable configuration.
func (l *FileLoader) Load(context.Context) (domain.Config, error) {
	path := l.resolvePath()
	if err := os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions); err != nil {
		return domain.Config{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := defaultConfig()
			if err := writeDefault(path, cfg); err != nil {
				return domain.Config{}, err
			}
			return cfg, nil
		}
		return domain.Config{}, err
	}

	var cfg domain.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.Config{}, err
	}

	return hydrateDefaults(cfg, data), nil
}

func (l *FileLoader) resolvePath() string {
	if l.overridePath != "" {
		return expandPath(l.overridePath)
	}
	if custom := os.Getenv("AURORA_CONFIG"); custom != "" {
		return expandPath(custom)
	}
	return filepath.Join(DataDir(), "config.yaml")
}

// DataDir is the root of Aurora's on-disk state.
func DataDir() string {
	return filepath.Join(filesystem.UserHomeDir(), ".aurora")
}

func writeDefault(path string, cfg domain.Config) error {
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, domain.SecureFilePermissions)
}

func defaultConfig() domain.Config {
	dataDir := DataDir()
	return domain.Config{
		ConfigFormatVersion: "1",
		Registry: domain.RegistrySettings{
			SourceFile:   filepath.Join(dataDir, "commands.txt"),
			CompiledFile: filepath.Join(dataDir, "commands.json"),
		},
		Routing: domain.RoutingSettings{
			ConfirmationThreshold: domain.DefaultConfirmationThreshold,
			AutoExecuteThreshold:  domain.DefaultAutoExecuteThreshold,
		},
		Wakeword: domain.WakewordSettings{
			Word:      "aurora",
			StartOnly: true,
		},
		Speaker: domain.SpeakerSettings{
			Enabled:   false,
			Threshold: domain.DefaultSpeakerThreshold,
			ModelFile: filepath.Join(dataDir, "speaker", "model.json"),
		},
		Audio: domain.AudioSettings{
			TimeoutSeconds:     int(domain.DefaultCaptureTimeout.Seconds()),
			PhraseLimitSeconds: int(domain.DefaultPhraseLimit.Seconds()),
			MaxRetries:         domain.DefaultCaptureRetries,
		},
		Transcriber: domain.TranscriberSettings{
			Endpoint:       "http://127.0.0.1:8765/inference",
			Language:       "en",
			TimeoutSeconds: 30,
		},
		Classifier: domain.ClassifierSettings{
			PhrasesFile: filepath.Join(dataDir, "phrases.yaml"),
		},
		Audit: domain.AuditSettings{
			Enabled: true,
		},
	}
}

// routingProbe re-reads the routing keys with pointer fields, so an explicit
// zero threshold is distinguishable from an absent key.
type routingProbe struct {
	Routing struct {
		Confirmation *float64 `yaml:"confirmation_threshold"`
		AutoExecute  *float64 `yaml:"auto_execute_threshold"`
	} `yaml:"routing"`
}

func hydrateDefaults(cfg domain.Config, raw []byte) domain.Config {
	def := defaultConfig()
	if cfg.Registry.SourceFile == "" {
		cfg.Registry.SourceFile = def.Registry.SourceFile
	}
	if cfg.Registry.CompiledFile == "" {
		cfg.Registry.CompiledFile = def.Registry.CompiledFile
	}
	var probe routingProbe
	_ = yaml.Unmarshal(raw, &probe)
	if probe.Routing.Confirmation == nil {
		cfg.Routing.ConfirmationThreshold = def.Routing.ConfirmationThreshold
	}
	if probe.Routing.AutoExecute == nil {
		cfg.Routing.AutoExecuteThreshold = def.Routing.AutoExecuteThreshold
	}
	if cfg.Speaker.ModelFile == "" {
		cfg.Speaker.ModelFile = def.Speaker.ModelFile
	}
	if cfg.Speaker.Threshold == 0 {
		cfg.Speaker.Threshold = def.Speaker.Threshold
	}
	if cfg.Audio.TimeoutSeconds == 0 {
		cfg.Audio.TimeoutSeconds = def.Audio.TimeoutSeconds
	}
	if cfg.Audio.PhraseLimitSeconds == 0 {
		cfg.Audio.PhraseLimitSeconds = def.Audio.PhraseLimitSeconds
	}
	if cfg.Audio.MaxRetries == 0 {
		cfg.Audio.MaxRetries = def.Audio.MaxRetries
	}
	if cfg.Transcriber.Endpoint == "" {
		cfg.Transcriber = def.Transcriber
	}
	if cfg.Classifier.PhrasesFile == "" {
		cfg.Classifier.PhrasesFile = def.Classifier.PhrasesFile
	}
	return cfg
}

func expandPath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(filesystem.UserHomeDir(), path[2:])
	}
	return filepath.Clean(path)
}

var _ ports.ConfigProvider = (*FileLoader)(nil)
