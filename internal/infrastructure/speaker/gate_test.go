package speaker

import (
	"errors"
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/doeshing/aurora-go/internal/domain"
	"github.com/doeshing/aurora-go/internal/pkg/logger"
)

type stubExtractor struct {
	features []float64
	err      error
}

func (s stubExtractor) Extract(domain.AudioSample) ([]float64, error) {
	return s.features, s.err
}

func enrollFeatures() []float64 {
	return []float64{0.2, 0.8, 1.5, 0.1, 0.4, 0.9}
}

func newTestGate(t *testing.T, path string, extractor stubExtractor, seed int64) *Gate {
	t.Helper()
	gate, err := NewGate(path, 0.5, extractor, logger.NewStd(false), WithRand(rand.New(rand.NewSource(seed))))
	if err != nil {
		t.Fatalf("NewGate error: %v", err)
	}
	return gate
}

func TestVerifyBeforeEnroll(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	gate := newTestGate(t, path, stubExtractor{features: enrollFeatures()}, 1)

	_, err := gate.Verify(domain.AudioSample{})
	if !errors.Is(err, domain.ErrNotTrained) {
		t.Fatalf("expected ErrNotTrained, got %v", err)
	}
}

func TestEnrollAccumulatesAndVerifies(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	gate := newTestGate(t, path, stubExtractor{features: enrollFeatures()}, 1)

	status, err := gate.Enroll(domain.AudioSample{})
	if err != nil {
		t.Fatalf("Enroll error: %v", err)
	}
	if status.SampleCount != 1 || !status.Trained {
		t.Fatalf("unexpected status after enroll: %+v", status)
	}

	status, err = gate.Enroll(domain.AudioSample{})
	if err != nil {
		t.Fatalf("second Enroll error: %v", err)
	}
	if status.SampleCount != 2 {
		t.Fatalf("sample count = %d, want 2", status.SampleCount)
	}

	// the same voice that enrolled must verify
	result, err := gate.Verify(domain.AudioSample{})
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if !result.Authorized {
		t.Fatalf("expected enrolled speaker to be authorized, got %+v", result)
	}
	if result.Confidence < 0.5 {
		t.Fatalf("confidence = %v, expected at least 0.5", result.Confidence)
	}
}

func TestVerifyRejectsDistantSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	features := enrollFeatures()

	// replicate the gate's perturbation so the impostor sample can be placed
	// past the synthetic negative centroid
	noiseSource := rand.New(rand.NewSource(7))
	negative := make([]float64, len(features))
	for i, v := range features {
		negative[i] = v + noiseSource.NormFloat64()
	}
	impostor := make([]float64, len(features))
	for i := range features {
		impostor[i] = negative[i] + 3*(negative[i]-features[i])
	}

	extractor := &switchableExtractor{features: features}
	gate, err := NewGate(path, 0.5, extractor, logger.NewStd(false), WithRand(rand.New(rand.NewSource(7))))
	if err != nil {
		t.Fatalf("NewGate error: %v", err)
	}
	if _, err := gate.Enroll(domain.AudioSample{}); err != nil {
		t.Fatalf("Enroll error: %v", err)
	}

	extractor.features = impostor
	result, err := gate.Verify(domain.AudioSample{})
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if result.Authorized {
		t.Fatalf("expected distant sample to be rejected, got %+v", result)
	}
}

func TestStatePersistsAcrossGates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	extractor := stubExtractor{features: enrollFeatures()}

	first := newTestGate(t, path, extractor, 1)
	if _, err := first.Enroll(domain.AudioSample{}); err != nil {
		t.Fatalf("Enroll error: %v", err)
	}

	second := newTestGate(t, path, extractor, 2)
	status := second.Status()
	if status.SampleCount != 1 || !status.Trained {
		t.Fatalf("persisted state not restored: %+v", status)
	}

	result, err := second.Verify(domain.AudioSample{})
	if err != nil {
		t.Fatalf("Verify after reload error: %v", err)
	}
	if !result.Authorized {
		t.Fatalf("expected reloaded gate to authorize enrolled speaker, got %+v", result)
	}
}

func TestResetClearsState(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	gate := newTestGate(t, path, stubExtractor{features: enrollFeatures()}, 1)

	if _, err := gate.Enroll(domain.AudioSample{}); err != nil {
		t.Fatalf("Enroll error: %v", err)
	}
	if err := gate.Reset(); err != nil {
		t.Fatalf("Reset error: %v", err)
	}

	status := gate.Status()
	if status.SampleCount != 0 || status.Trained {
		t.Fatalf("state not cleared: %+v", status)
	}
	if status.Threshold != 0.5 {
		t.Fatalf("threshold not preserved across reset: %v", status.Threshold)
	}

	if _, err := gate.Verify(domain.AudioSample{}); !errors.Is(err, domain.ErrNotTrained) {
		t.Fatalf("expected ErrNotTrained after reset, got %v", err)
	}
}

func TestEnrollWrapsExtractorFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	gate := newTestGate(t, path, stubExtractor{err: errors.New("no audio")}, 1)

	_, err := gate.Enroll(domain.AudioSample{})
	var gateErr *domain.TrustGateError
	if !errors.As(err, &gateErr) {
		t.Fatalf("expected TrustGateError, got %v", err)
	}
	if gateErr.Op != "enroll" {
		t.Fatalf("unexpected op %q", gateErr.Op)
	}
}

type switchableExtractor struct {
	features []float64
}

func (s *switchableExtractor) Extract(domain.AudioSample) ([]float64, error) {
	return s.features, nil
}
