package domain

// AudioSample is one captured utterance worth of audio, WAV-encoded.
type AudioSample struct {
	WAV        []byte
	SampleRate int
}

// VerificationResult is the speaker trust gate's verdict for one sample.
// Confidence is the probability of the *predicted* class, which is not
// necessarily the probability of being the authorized speaker.
type VerificationResult struct {
	Authorized bool
	Confidence float64
}

// TrustStatus is a read-only snapshot of the trust gate's accumulated state.
// The orchestrator only ever inspects this snapshot; the mutable state itself
// is owned exclusively by the gate.
type TrustStatus struct {
	SampleCount int
	Trained     bool
	Threshold   float64
}
