// Package speaker implements the accumulative speaker trust gate.
//
// The gate can veto execution independently of intent confidence. Enrollment
// is accumulative only in its counter: each enroll retrains the model from
// scratch on the latest sample plus one synthetically perturbed negative,
// because the binary classifier needs two classes and no real impostor data
// is ever observed. That makes false-accept and false-reject rates
// uncalibrated against real impostors; the protocol preserves this known
// approximation deliberately.
package speaker

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/doeshing/aurora-go/internal/domain"
	"github.com/doeshing/aurora-go/internal/ports"
)

// Gate implements ports.SpeakerGate. All mutable trust state lives here and
// in the persisted blob; callers only see TrustStatus snapshots.
type Gate struct {
	extractor ports.FeatureExtractor
	store     *blobStore
	log       ports.Logger
	rng       *rand.Rand

	state trustState
}

// Option tweaks gate construction.
type Option func(*Gate)

// WithRand replaces the perturbation source, used by tests for determinism.
func WithRand(rng *rand.Rand) Option {
	return func(g *Gate) { g.rng = rng }
}

// NewGate opens (or initializes) the trust gate persisted at modelPath.
func NewGate(modelPath string, threshold float64, extractor ports.FeatureExtractor, log ports.Logger, opts ...Option) (*Gate, error) {
	g := &Gate{
		extractor: extractor,
		store:     newBlobStore(modelPath),
		log:       log,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(g)
	}

	state, found, err := g.store.Load()
	if err != nil {
		return nil, &domain.TrustGateError{Op: "load", Err: err}
	}
	if found {
		g.state = state
	} else {
		g.state = trustState{Threshold: threshold}
	}
	log.Info("speaker gate ready", map[string]interface{}{
		"trained":   g.state.Trained,
		"samples":   g.state.SampleCount,
		"threshold": g.state.Threshold,
	})
	return g, nil
}

// Enroll folds one sample of the authorized speaker into the trust model and
// persists the updated state. The sample counter only ever increases (until
// an explicit Reset).
func (g *Gate) Enroll(sample domain.AudioSample) (domain.TrustStatus, error) {
	features, err := g.extractor.Extract(sample)
	if err != nil {
		return g.Status(), &domain.TrustGateError{Op: "enroll", Err: err}
	}

	negative := g.perturb(features)
	if err := g.state.Scaler.Fit([][]float64{features, negative}); err != nil {
		return g.Status(), &domain.TrustGateError{Op: "enroll", Err: err}
	}
	scaledPos, err := g.state.Scaler.Transform(features)
	if err != nil {
		return g.Status(), &domain.TrustGateError{Op: "enroll", Err: err}
	}
	scaledNeg, err := g.state.Scaler.Transform(negative)
	if err != nil {
		return g.Status(), &domain.TrustGateError{Op: "enroll", Err: err}
	}
	if err := g.state.Model.Fit(
		[][]float64{scaledPos, scaledNeg},
		[]int{classEnrolled, classImpostor},
	); err != nil {
		return g.Status(), &domain.TrustGateError{Op: "enroll", Err: err}
	}

	g.state.SampleCount++
	g.state.Trained = true
	if err := g.store.Save(g.state); err != nil {
		return g.Status(), &domain.TrustGateError{Op: "persist", Err: err}
	}

	g.log.Info("speaker sample enrolled", map[string]interface{}{"samples": g.state.SampleCount})
	return g.Status(), nil
}

// Verify checks one sample against the trust model. Authorized requires both
// that the predicted class is the enrolled speaker and that the predicted
// class's probability clears the threshold. The reported confidence belongs
// to the predicted class, whichever that is.
func (g *Gate) Verify(sample domain.AudioSample) (domain.VerificationResult, error) {
	if !g.state.Trained {
		return domain.VerificationResult{}, fmt.Errorf("%w: enroll first", domain.ErrNotTrained)
	}

	features, err := g.extractor.Extract(sample)
	if err != nil {
		return domain.VerificationResult{}, &domain.TrustGateError{Op: "verify", Err: err}
	}
	scaled, err := g.state.Scaler.Transform(features)
	if err != nil {
		return domain.VerificationResult{}, &domain.TrustGateError{Op: "verify", Err: err}
	}
	predicted, confidence, err := g.state.Model.Predict(scaled)
	if err != nil {
		return domain.VerificationResult{}, &domain.TrustGateError{Op: "verify", Err: err}
	}

	result := domain.VerificationResult{
		Authorized: predicted == classEnrolled && confidence >= g.state.Threshold,
		Confidence: confidence,
	}
	g.log.Info("speaker verification", map[string]interface{}{
		"authorized": result.Authorized,
		"confidence": result.Confidence,
		"threshold":  g.state.Threshold,
	})
	return result, nil
}

// Reset discards the model and all persisted state.
func (g *Gate) Reset() error {
	threshold := g.state.Threshold
	g.state = trustState{Threshold: threshold}
	if err := g.store.Remove(); err != nil {
		return &domain.TrustGateError{Op: "reset", Err: err}
	}
	g.log.Info("speaker model reset", nil)
	return nil
}

// Status returns a read-only snapshot of the accumulated trust state.
func (g *Gate) Status() domain.TrustStatus {
	return domain.TrustStatus{
		SampleCount: g.state.SampleCount,
		Trained:     g.state.Trained,
		Threshold:   g.state.Threshold,
	}
}

// perturb builds the synthetic impostor counter-example from an enrollment
// sample with unit Gaussian noise.
func (g *Gate) perturb(features []float64) []float64 {
	out := make([]float64, len(features))
	for i, v := range features {
		out[i] = v + g.rng.NormFloat64()
	}
	return out
}

var _ ports.SpeakerGate = (*Gate)(nil)
