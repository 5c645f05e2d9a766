package domain

// Config mirrors ~/.aurora/config.yaml.
type Config struct {
	ConfigFormatVersion string              `yaml:"config_format_version"`
	Registry            RegistrySettings    `yaml:"registry"`
	Routing             RoutingSettings     `yaml:"routing"`
	Wakeword            WakewordSettings    `yaml:"wakeword"`
	Speaker             SpeakerSettings     `yaml:"speaker"`
	Audio               AudioSettings       `yaml:"audio"`
	Transcriber         TranscriberSettings `yaml:"transcriber"`
	Classifier          ClassifierSettings  `yaml:"classifier"`
	Audit               AuditSettings       `yaml:"audit"`
}

// RegistrySettings points at the declarative command source and its compiled form.
type RegistrySettings struct {
	SourceFile   string `yaml:"source_file"`
	CompiledFile string `yaml:"compiled_file"`
}

// RoutingSettings carries the two confidence cut points.
type RoutingSettings struct {
	ConfirmationThreshold float64 `yaml:"confirmation_threshold"`
	AutoExecuteThreshold  float64 `yaml:"auto_execute_threshold"`
}

// WakewordSettings configures wakeword stripping.
type WakewordSettings struct {
	Word          string `yaml:"word"`
	CaseSensitive bool   `yaml:"case_sensitive"`
	StartOnly     bool   `yaml:"start_only"`
}

// SpeakerSettings configures the speaker trust gate.
// FailOpen controls the policy on a gate malfunction during verification:
// false (the default) aborts the utterance, true degrades to continuing
// without verification.
type SpeakerSettings struct {
	Enabled   bool    `yaml:"enabled"`
	Threshold float64 `yaml:"threshold"`
	ModelFile string  `yaml:"model_file"`
	FailOpen  bool    `yaml:"fail_open"`
}

// AudioSettings controls voice capture.
type AudioSettings struct {
	Device             string `yaml:"device"`
	TimeoutSeconds     int    `yaml:"timeout"`
	PhraseLimitSeconds int    `yaml:"phrase_limit"`
	MaxRetries         int    `yaml:"max_retries"`
}

// TranscriberSettings points at the speech-to-text service.
type TranscriberSettings struct {
	Endpoint       string `yaml:"endpoint"`
	Language       string `yaml:"language"`
	TimeoutSeconds int    `yaml:"timeout"`
}

// ClassifierSettings configures the intent classifier adapter.
type ClassifierSettings struct {
	PhrasesFile string `yaml:"phrases_file"`
}

// AuditSettings toggles the utterance audit trail.
type AuditSettings struct {
	Enabled bool `yaml:"enabled"`
}
