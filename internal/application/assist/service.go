// Package assist orchestrates the per-utterance pipeline: wakeword strip,
// intent classification, speaker verification, confidence routing, and the
// confirmation loop.
package assist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/doeshing/aurora-go/internal/application/route"
	"github.com/doeshing/aurora-go/internal/domain"
	"github.com/doeshing/aurora-go/internal/ports"
)

// Service sequences the pipeline stages for one utterance at a time. All
// processing is synchronous and strictly sequential: an utterance is fully
// resolved before the next begins.
type Service struct {
	Registry    domain.Registry
	Stripper    ports.WakewordStripper
	Classifier  ports.IntentClassifier
	Gate        ports.SpeakerGate
	Router      *route.Router
	Prompter    ports.ConfirmationPrompter
	Capturer    ports.AudioCapturer
	Transcriber ports.Transcriber
	Audit       ports.AuditRepository
	Logger      ports.Logger

	// VerifySpeaker turns the trust-gate veto on for this session.
	VerifySpeaker bool
	// FailOpen makes a TrustGateError degrade to "continue without
	// verification" instead of aborting the utterance. Off by default:
	// a malfunctioning gate fails closed.
	FailOpen bool

	CaptureTimeout time.Duration
	PhraseLimit    time.Duration
	MaxRetries     int

	// ExecutorFactory rebuilds the sandbox when the registry is reloaded.
	ExecutorFactory func(domain.Registry) ports.CommandExecutor
	// ClassifierFactory rebuilds the classifier against a reloaded
	// registry, so a removed command cannot stay predictable.
	ClassifierFactory func(domain.Registry) (ports.IntentClassifier, error)
}

// ProcessText resolves one utterance. sample carries the audio that produced
// the text, when there is one; the trust gate verifies that same audio. The
// returned outcome always describes a terminal state; err is non-nil only for
// genuine failures, never for Confirm/Reject/Cancel outcomes.
func (s *Service) ProcessText(ctx context.Context, text string, sample *domain.AudioSample) (domain.UtteranceOutcome, error) {
	if err := s.checkDeps(); err != nil {
		return domain.UtteranceOutcome{}, err
	}

	outcome := domain.UtteranceOutcome{
		ID:         uuid.NewString(),
		SourceText: text,
	}
	outcome.CleanText = s.Stripper.Strip(text)
	s.Logger.Info("processing utterance", map[string]interface{}{
		"id":   outcome.ID,
		"text": outcome.CleanText,
	})

	intent, err := s.Classifier.Classify(ctx, outcome.CleanText)
	if err != nil {
		outcome.Status = domain.StatusFailed
		s.record(outcome)
		return outcome, fmt.Errorf("classify: %w", err)
	}
	outcome.Intent = &intent

	if s.VerifySpeaker && sample == nil {
		// a verified session must not let text utterances slip past the
		// gate unchecked; absence of audio is treated like a veto unless
		// the session explicitly fails open
		if !s.FailOpen {
			outcome.Status = domain.StatusUnauthorized
			s.record(outcome)
			return outcome, nil
		}
		s.Logger.Warn("no audio sample for speaker verification, continuing unverified", map[string]interface{}{
			"id": outcome.ID,
		})
	}

	if s.VerifySpeaker && sample != nil {
		verdict, err := s.Gate.Verify(*sample)
		switch {
		case err != nil && s.FailOpen:
			s.Logger.Warn("speaker verification failed, continuing unverified", map[string]interface{}{
				"id":    outcome.ID,
				"error": err.Error(),
			})
		case err != nil:
			outcome.Status = domain.StatusFailed
			s.record(outcome)
			return outcome, fmt.Errorf("verify speaker: %w", err)
		default:
			outcome.Speaker = &verdict
			if !verdict.Authorized {
				// hard veto: no routing, no execution, whatever the
				// intent confidence was
				outcome.Status = domain.StatusUnauthorized
				s.record(outcome)
				return outcome, nil
			}
		}
	}

	decision, execution, err := s.Router.Route(ctx, intent)
	outcome.Decision = decision
	outcome.Execution = execution
	switch decision {
	case domain.DecisionExecute:
		if err != nil {
			outcome.Status = domain.StatusFailed
			s.record(outcome)
			return outcome, err
		}
		outcome.Status = domain.StatusExecuted
	case domain.DecisionConfirm:
		return s.awaitConfirmation(ctx, outcome, intent)
	case domain.DecisionReject:
		outcome.Status = domain.StatusRejected
	}

	s.record(outcome)
	return outcome, nil
}

// awaitConfirmation is the pipeline's explicit suspension point for
// mid-confidence intents. Anything but an affirmative answer cancels with no
// execution and no retry.
func (s *Service) awaitConfirmation(ctx context.Context, outcome domain.UtteranceOutcome, intent domain.IntentResult) (domain.UtteranceOutcome, error) {
	entry, ok := s.Registry.Lookup(intent.IntentID)
	if !ok {
		// the executor would refuse this anyway; don't even prompt
		outcome.Status = domain.StatusFailed
		s.record(outcome)
		return outcome, fmt.Errorf("%w: %q", domain.ErrNotAllowed, intent.IntentID)
	}

	if s.Prompter == nil || !s.Prompter.Enabled() {
		outcome.Status = domain.StatusCancelled
		s.record(outcome)
		return outcome, nil
	}

	confirmed, err := s.Prompter.Confirm(intent, entry)
	if err != nil {
		outcome.Status = domain.StatusFailed
		s.record(outcome)
		return outcome, fmt.Errorf("confirmation prompt: %w", err)
	}
	if !confirmed {
		s.Logger.Info("user declined execution", map[string]interface{}{"id": outcome.ID})
		outcome.Status = domain.StatusCancelled
		s.record(outcome)
		return outcome, nil
	}

	execution, err := s.Router.Executor.Execute(ctx, intent.IntentID)
	outcome.Execution = &execution
	if err != nil {
		outcome.Status = domain.StatusFailed
		s.record(outcome)
		return outcome, err
	}
	outcome.Status = domain.StatusExecuted
	s.record(outcome)
	return outcome, nil
}

// CaptureUtterance records one phrase and transcribes it. Capture timeouts
// are retried up to MaxRetries attempts; a microphone-level error aborts
// immediately because retrying the same device cannot help.
func (s *Service) CaptureUtterance(ctx context.Context) (domain.AudioSample, string, error) {
	attempts := s.MaxRetries
	if attempts < 1 {
		attempts = 1
	}

	var sample domain.AudioSample
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		sample, err = s.Capturer.Capture(ctx, s.CaptureTimeout, s.PhraseLimit)
		if err == nil {
			break
		}
		if !errors.Is(err, domain.ErrCaptureTimeout) {
			return domain.AudioSample{}, "", err
		}
		s.Logger.Info("capture timeout", map[string]interface{}{
			"attempt": attempt,
			"max":     attempts,
		})
	}
	if err != nil {
		return domain.AudioSample{}, "", err
	}

	text, err := s.Transcriber.Transcribe(ctx, sample)
	if err != nil {
		return domain.AudioSample{}, "", err
	}
	return sample, text, nil
}

// SwapRegistry replaces the registry and rebinds the executor, router, and
// classifier to it. The previous registry is discarded whole; nothing is
// mutated in place. A classifier that cannot be rebuilt against the new
// registry aborts the swap, leaving the previous wiring in service. Callers
// invoke this only between utterances.
func (s *Service) SwapRegistry(reg domain.Registry) error {
	if s.ExecutorFactory == nil {
		return nil
	}
	if s.ClassifierFactory != nil {
		classifier, err := s.ClassifierFactory(reg)
		if err != nil {
			return fmt.Errorf("rebuild classifier: %w", err)
		}
		s.Classifier = classifier
	}
	s.Registry = reg
	executor := s.ExecutorFactory(reg)
	s.Router = route.NewRouter(s.Router.Thresholds, executor)
	s.Logger.Info("registry reloaded", map[string]interface{}{"commands": reg.Len()})
	return nil
}

func (s *Service) record(outcome domain.UtteranceOutcome) {
	if s.Audit == nil {
		return
	}
	rec := domain.AuditRecord{
		ID:        outcome.ID,
		Timestamp: time.Now(),
		Utterance: outcome.SourceText,
		Decision:  outcome.Decision,
		Status:    outcome.Status,
	}
	if outcome.Intent != nil {
		rec.Intent = outcome.Intent.IntentID
		rec.Confidence = outcome.Intent.Confidence
	}
	if outcome.Execution != nil {
		rec.Executed = outcome.Execution.Ran
		rec.Success = outcome.Execution.Ran && outcome.Execution.ExitCode == 0
		rec.ExitCode = outcome.Execution.ExitCode
	}
	if outcome.Speaker != nil {
		rec.SpeakerVerified = outcome.Speaker.Authorized
		rec.SpeakerConfidence = outcome.Speaker.Confidence
	}
	if err := s.Audit.Save(rec); err != nil {
		s.Logger.Warn("audit save failed", map[string]interface{}{"error": err.Error()})
	}
}

func (s *Service) checkDeps() error {
	if s.Stripper == nil || s.Classifier == nil || s.Router == nil || s.Logger == nil {
		return errors.New("assist.Service dependencies not satisfied")
	}
	if s.VerifySpeaker && s.Gate == nil {
		return errors.New("assist.Service speaker verification enabled without a gate")
	}
	return nil
}
