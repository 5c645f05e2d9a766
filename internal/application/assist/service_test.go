package assist

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/doeshing/aurora-go/internal/application/route"
	"github.com/doeshing/aurora-go/internal/domain"
	"github.com/doeshing/aurora-go/internal/pkg/logger"
	"github.com/doeshing/aurora-go/internal/ports"
)

func testRegistry() domain.Registry {
	return domain.NewRegistry(map[string]domain.CommandEntry{
		"show_date": {ID: "show_date", Raw: "date", Argv: []string{"date"}},
	})
}

func newTestService(t *testing.T, classifier *stubClassifier, executor *stubExecutor) *Service {
	t.Helper()
	thresholds, err := domain.NewThresholds(0.4, 0.75)
	if err != nil {
		t.Fatalf("NewThresholds error: %v", err)
	}
	return &Service{
		Registry:   testRegistry(),
		Stripper:   passthroughStripper{},
		Classifier: classifier,
		Router:     route.NewRouter(thresholds, executor),
		Logger:     logger.NewStd(false),
	}
}

func TestProcessTextAutoExecutesHighConfidence(t *testing.T) {
	executor := &stubExecutor{outcome: domain.ExecutionOutcome{CommandID: "show_date", Ran: true}}
	classifier := &stubClassifier{result: domain.IntentResult{IntentID: "show_date", Confidence: 0.9}}
	audit := &stubAudit{}
	svc := newTestService(t, classifier, executor)
	svc.Audit = audit

	outcome, err := svc.ProcessText(context.Background(), "what time is it", nil)
	if err != nil {
		t.Fatalf("ProcessText error: %v", err)
	}
	if outcome.Status != domain.StatusExecuted {
		t.Fatalf("status = %v, want executed", outcome.Status)
	}
	if executor.calls != 1 {
		t.Fatalf("executor called %d times, want 1", executor.calls)
	}
	if len(audit.saved) != 1 {
		t.Fatalf("expected 1 audit record, got %d", len(audit.saved))
	}
	if audit.saved[0].Status != domain.StatusExecuted || !audit.saved[0].Executed {
		t.Fatalf("audit record mismatch: %+v", audit.saved[0])
	}
}

func TestProcessTextConfirmDeclined(t *testing.T) {
	executor := &stubExecutor{}
	classifier := &stubClassifier{result: domain.IntentResult{IntentID: "show_date", Confidence: 0.5}}
	svc := newTestService(t, classifier, executor)
	svc.Prompter = &stubPrompter{confirm: false}

	outcome, err := svc.ProcessText(context.Background(), "what time is it", nil)
	if err != nil {
		t.Fatalf("ProcessText error: %v", err)
	}
	if outcome.Status != domain.StatusCancelled {
		t.Fatalf("status = %v, want cancelled", outcome.Status)
	}
	if executor.calls != 0 {
		t.Fatalf("executor called %d times on declined confirmation", executor.calls)
	}
}

func TestProcessTextConfirmAccepted(t *testing.T) {
	executor := &stubExecutor{outcome: domain.ExecutionOutcome{CommandID: "show_date", Ran: true}}
	classifier := &stubClassifier{result: domain.IntentResult{IntentID: "show_date", Confidence: 0.5}}
	svc := newTestService(t, classifier, executor)
	svc.Prompter = &stubPrompter{confirm: true}

	outcome, err := svc.ProcessText(context.Background(), "what time is it", nil)
	if err != nil {
		t.Fatalf("ProcessText error: %v", err)
	}
	if outcome.Status != domain.StatusExecuted {
		t.Fatalf("status = %v, want executed", outcome.Status)
	}
	if executor.calls != 1 {
		t.Fatalf("executor called %d times, want 1", executor.calls)
	}
}

func TestProcessTextConfirmWithoutPrompterCancels(t *testing.T) {
	executor := &stubExecutor{}
	classifier := &stubClassifier{result: domain.IntentResult{IntentID: "show_date", Confidence: 0.5}}
	svc := newTestService(t, classifier, executor)

	outcome, err := svc.ProcessText(context.Background(), "what time is it", nil)
	if err != nil {
		t.Fatalf("ProcessText error: %v", err)
	}
	if outcome.Status != domain.StatusCancelled {
		t.Fatalf("status = %v, want cancelled", outcome.Status)
	}
	if executor.calls != 0 {
		t.Fatal("executor must not run without a confirmation channel")
	}
}

func TestProcessTextRejectsLowConfidence(t *testing.T) {
	executor := &stubExecutor{}
	classifier := &stubClassifier{result: domain.IntentResult{IntentID: "show_date", Confidence: 0.2}}
	svc := newTestService(t, classifier, executor)

	outcome, err := svc.ProcessText(context.Background(), "mumble", nil)
	if err != nil {
		t.Fatalf("ProcessText error: %v", err)
	}
	if outcome.Status != domain.StatusRejected {
		t.Fatalf("status = %v, want rejected", outcome.Status)
	}
	if executor.calls != 0 {
		t.Fatalf("executor called %d times on reject", executor.calls)
	}
}

func TestProcessTextSpeakerVetoOverridesConfidence(t *testing.T) {
	executor := &stubExecutor{}
	classifier := &stubClassifier{result: domain.IntentResult{IntentID: "show_date", Confidence: 0.95}}
	svc := newTestService(t, classifier, executor)
	svc.VerifySpeaker = true
	svc.Gate = &stubGate{result: domain.VerificationResult{Authorized: false, Confidence: 0.8}}

	sample := domain.AudioSample{WAV: []byte{1}}
	outcome, err := svc.ProcessText(context.Background(), "what time is it", &sample)
	if err != nil {
		t.Fatalf("ProcessText error: %v", err)
	}
	if outcome.Status != domain.StatusUnauthorized {
		t.Fatalf("status = %v, want unauthorized", outcome.Status)
	}
	if executor.calls != 0 {
		t.Fatal("executor must not run after a speaker veto")
	}
}

func TestProcessTextVerifiedSessionRequiresAudio(t *testing.T) {
	executor := &stubExecutor{}
	classifier := &stubClassifier{result: domain.IntentResult{IntentID: "show_date", Confidence: 0.95}}
	svc := newTestService(t, classifier, executor)
	svc.VerifySpeaker = true
	svc.Gate = &stubGate{result: domain.VerificationResult{Authorized: false}}

	// a text utterance carries no sample; the gate must still veto
	outcome, err := svc.ProcessText(context.Background(), "what time is it", nil)
	if err != nil {
		t.Fatalf("ProcessText error: %v", err)
	}
	if outcome.Status != domain.StatusUnauthorized {
		t.Fatalf("status = %v, want unauthorized", outcome.Status)
	}
	if executor.calls != 0 {
		t.Fatal("executor must not run without speaker verification")
	}
}

func TestProcessTextVerifiedSessionFailOpenAllowsText(t *testing.T) {
	executor := &stubExecutor{outcome: domain.ExecutionOutcome{CommandID: "show_date", Ran: true}}
	classifier := &stubClassifier{result: domain.IntentResult{IntentID: "show_date", Confidence: 0.95}}
	gate := &stubGate{result: domain.VerificationResult{Authorized: false}}
	svc := newTestService(t, classifier, executor)
	svc.VerifySpeaker = true
	svc.FailOpen = true
	svc.Gate = gate

	outcome, err := svc.ProcessText(context.Background(), "what time is it", nil)
	if err != nil {
		t.Fatalf("ProcessText error: %v", err)
	}
	if outcome.Status != domain.StatusExecuted {
		t.Fatalf("status = %v, want executed under fail-open", outcome.Status)
	}
	if gate.verifyCalls != 0 {
		t.Fatal("gate must not be consulted without a sample")
	}
}

func TestProcessTextGateErrorFailsClosed(t *testing.T) {
	executor := &stubExecutor{}
	classifier := &stubClassifier{result: domain.IntentResult{IntentID: "show_date", Confidence: 0.95}}
	svc := newTestService(t, classifier, executor)
	svc.VerifySpeaker = true
	svc.Gate = &stubGate{err: &domain.TrustGateError{Op: "verify", Err: errors.New("model corrupt")}}

	sample := domain.AudioSample{WAV: []byte{1}}
	outcome, err := svc.ProcessText(context.Background(), "what time is it", &sample)
	if err == nil {
		t.Fatal("expected error when the gate fails closed")
	}
	if outcome.Status != domain.StatusFailed {
		t.Fatalf("status = %v, want failed", outcome.Status)
	}
	if executor.calls != 0 {
		t.Fatal("executor must not run when the gate errors")
	}
}

func TestProcessTextGateErrorFailOpenContinues(t *testing.T) {
	executor := &stubExecutor{outcome: domain.ExecutionOutcome{CommandID: "show_date", Ran: true}}
	classifier := &stubClassifier{result: domain.IntentResult{IntentID: "show_date", Confidence: 0.95}}
	svc := newTestService(t, classifier, executor)
	svc.VerifySpeaker = true
	svc.FailOpen = true
	svc.Gate = &stubGate{err: &domain.TrustGateError{Op: "verify", Err: errors.New("model corrupt")}}

	sample := domain.AudioSample{WAV: []byte{1}}
	outcome, err := svc.ProcessText(context.Background(), "what time is it", &sample)
	if err != nil {
		t.Fatalf("ProcessText error: %v", err)
	}
	if outcome.Status != domain.StatusExecuted {
		t.Fatalf("status = %v, want executed under fail-open", outcome.Status)
	}
}

func TestProcessTextClassifierError(t *testing.T) {
	executor := &stubExecutor{}
	classifier := &stubClassifier{err: errors.New("no match")}
	svc := newTestService(t, classifier, executor)

	outcome, err := svc.ProcessText(context.Background(), "gibberish", nil)
	if err == nil {
		t.Fatal("expected classification error")
	}
	if outcome.Status != domain.StatusFailed {
		t.Fatalf("status = %v, want failed", outcome.Status)
	}
	if executor.calls != 0 {
		t.Fatal("executor must not run on classification failure")
	}
}

func TestSwapRegistryRebindsExecutorAndClassifier(t *testing.T) {
	executor := &stubExecutor{}
	classifier := &stubClassifier{result: domain.IntentResult{IntentID: "show_date", Confidence: 0.9}}
	svc := newTestService(t, classifier, executor)

	replacement := &stubExecutor{outcome: domain.ExecutionOutcome{CommandID: "show_date", Ran: true}}
	rebuilt := &stubClassifier{result: domain.IntentResult{IntentID: "show_date", Confidence: 0.9}}
	svc.ExecutorFactory = func(domain.Registry) ports.CommandExecutor { return replacement }
	svc.ClassifierFactory = func(domain.Registry) (ports.IntentClassifier, error) { return rebuilt, nil }
	if err := svc.SwapRegistry(testRegistry()); err != nil {
		t.Fatalf("SwapRegistry error: %v", err)
	}

	outcome, err := svc.ProcessText(context.Background(), "what time is it", nil)
	if err != nil {
		t.Fatalf("ProcessText error: %v", err)
	}
	if outcome.Status != domain.StatusExecuted {
		t.Fatalf("status = %v, want executed", outcome.Status)
	}
	if replacement.calls != 1 || executor.calls != 0 {
		t.Fatalf("swap did not rebind executor: old=%d new=%d", executor.calls, replacement.calls)
	}
	if rebuilt.calls != 1 || classifier.calls != 0 {
		t.Fatalf("swap did not rebind classifier: old=%d new=%d", classifier.calls, rebuilt.calls)
	}
}

func TestSwapRegistryKeepsWiringOnClassifierFailure(t *testing.T) {
	executor := &stubExecutor{outcome: domain.ExecutionOutcome{CommandID: "show_date", Ran: true}}
	classifier := &stubClassifier{result: domain.IntentResult{IntentID: "show_date", Confidence: 0.9}}
	svc := newTestService(t, classifier, executor)

	svc.ExecutorFactory = func(domain.Registry) ports.CommandExecutor {
		return &stubExecutor{}
	}
	svc.ClassifierFactory = func(domain.Registry) (ports.IntentClassifier, error) {
		return nil, errors.New("phrase corpus unreadable")
	}
	if err := svc.SwapRegistry(domain.NewRegistry(nil)); err == nil {
		t.Fatal("expected swap to fail when the classifier cannot be rebuilt")
	}

	// the previous wiring must remain in service
	outcome, err := svc.ProcessText(context.Background(), "what time is it", nil)
	if err != nil {
		t.Fatalf("ProcessText error: %v", err)
	}
	if outcome.Status != domain.StatusExecuted {
		t.Fatalf("status = %v, want executed with previous wiring", outcome.Status)
	}
	if executor.calls != 1 {
		t.Fatalf("previous executor called %d times, want 1", executor.calls)
	}
}

func TestCaptureUtteranceRetriesTimeouts(t *testing.T) {
	capturer := &scriptedCapturer{
		errs:   []error{domain.ErrCaptureTimeout, nil},
		sample: domain.AudioSample{WAV: []byte{1}},
	}
	svc := newCaptureService(t, capturer, &stubTranscriber{text: "what time is it"})

	sample, text, err := svc.CaptureUtterance(context.Background())
	if err != nil {
		t.Fatalf("CaptureUtterance error: %v", err)
	}
	if text != "what time is it" {
		t.Fatalf("text = %q", text)
	}
	if len(sample.WAV) == 0 {
		t.Fatal("expected captured sample to be returned")
	}
	if capturer.calls != 2 {
		t.Fatalf("capturer called %d times, want 2", capturer.calls)
	}
}

func TestCaptureUtteranceDeviceErrorAbortsImmediately(t *testing.T) {
	deviceErr := errors.New("microphone device error")
	capturer := &scriptedCapturer{errs: []error{deviceErr}}
	svc := newCaptureService(t, capturer, &stubTranscriber{text: "ignored"})

	_, _, err := svc.CaptureUtterance(context.Background())
	if !errors.Is(err, deviceErr) {
		t.Fatalf("expected device error, got %v", err)
	}
	if capturer.calls != 1 {
		t.Fatalf("capturer called %d times, want 1 (device errors are not retried)", capturer.calls)
	}
}

func TestCaptureUtteranceExhaustsRetries(t *testing.T) {
	capturer := &scriptedCapturer{
		errs: []error{domain.ErrCaptureTimeout, domain.ErrCaptureTimeout, domain.ErrCaptureTimeout},
	}
	svc := newCaptureService(t, capturer, &stubTranscriber{text: "ignored"})

	_, _, err := svc.CaptureUtterance(context.Background())
	if !errors.Is(err, domain.ErrCaptureTimeout) {
		t.Fatalf("expected ErrCaptureTimeout after exhaustion, got %v", err)
	}
	if capturer.calls != 3 {
		t.Fatalf("capturer called %d times, want 3", capturer.calls)
	}
}

func newCaptureService(t *testing.T, capturer *scriptedCapturer, transcriber *stubTranscriber) *Service {
	t.Helper()
	svc := newTestService(t, &stubClassifier{}, &stubExecutor{})
	svc.Capturer = capturer
	svc.Transcriber = transcriber
	svc.CaptureTimeout = time.Second
	svc.PhraseLimit = 2 * time.Second
	svc.MaxRetries = 3
	return svc
}

type stubClassifier struct {
	result domain.IntentResult
	err    error
	calls  int
}

func (s *stubClassifier) Classify(_ context.Context, text string) (domain.IntentResult, error) {
	s.calls++
	if s.err != nil {
		return domain.IntentResult{}, s.err
	}
	result := s.result
	result.SourceText = text
	return result, nil
}

type stubExecutor struct {
	outcome domain.ExecutionOutcome
	err     error
	calls   int
}

func (s *stubExecutor) Execute(context.Context, string) (domain.ExecutionOutcome, error) {
	s.calls++
	return s.outcome, s.err
}

type stubGate struct {
	result      domain.VerificationResult
	err         error
	verifyCalls int
}

func (s *stubGate) Enroll(domain.AudioSample) (domain.TrustStatus, error) {
	return domain.TrustStatus{}, nil
}

func (s *stubGate) Verify(domain.AudioSample) (domain.VerificationResult, error) {
	s.verifyCalls++
	return s.result, s.err
}

func (s *stubGate) Reset() error { return nil }

func (s *stubGate) Status() domain.TrustStatus { return domain.TrustStatus{} }

type stubPrompter struct {
	confirm bool
	err     error
}

func (s *stubPrompter) Confirm(domain.IntentResult, domain.CommandEntry) (bool, error) {
	return s.confirm, s.err
}

func (s *stubPrompter) Enabled() bool { return true }

type stubAudit struct {
	saved []domain.AuditRecord
}

func (s *stubAudit) Save(record domain.AuditRecord) error {
	s.saved = append(s.saved, record)
	return nil
}

func (s *stubAudit) Records(int, string) ([]domain.AuditRecord, error) { return nil, nil }

func (s *stubAudit) Clear() error { return nil }

func (s *stubAudit) ExportJSON(string) error { return nil }

type scriptedCapturer struct {
	errs   []error
	sample domain.AudioSample
	calls  int
}

func (s *scriptedCapturer) Capture(context.Context, time.Duration, time.Duration) (domain.AudioSample, error) {
	attempt := s.calls
	s.calls++
	if attempt < len(s.errs) && s.errs[attempt] != nil {
		return domain.AudioSample{}, s.errs[attempt]
	}
	return s.sample, nil
}

type stubTranscriber struct {
	text string
	err  error
}

func (s *stubTranscriber) Transcribe(context.Context, domain.AudioSample) (string, error) {
	return s.text, s.err
}

type passthroughStripper struct{}

func (passthroughStripper) Strip(text string) string { return text }
