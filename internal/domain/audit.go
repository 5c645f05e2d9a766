package domain

import "time"

// AuditRecord captures one processed utterance for the audit trail.
type AuditRecord struct {
	ID                string          `json:"id"`
	Timestamp         time.Time       `json:"timestamp"`
	Utterance         string          `json:"utterance"`
	Intent            string          `json:"intent"`
	Confidence        float64         `json:"confidence"`
	Decision          Decision        `json:"decision"`
	Status            UtteranceStatus `json:"status"`
	Executed          bool            `json:"executed"`
	Success           bool            `json:"success"`
	ExitCode          int             `json:"exit_code"`
	SpeakerVerified   bool            `json:"speaker_verified"`
	SpeakerConfidence float64         `json:"speaker_confidence"`
}
