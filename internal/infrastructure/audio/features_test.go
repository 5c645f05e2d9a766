package audio

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/doeshing/aurora-go/internal/domain"
)

// synthesizeWAV builds a minimal RIFF/WAVE container around a 16-bit sine tone.
func synthesizeWAV(t *testing.T, samples int, freq float64, amplitude float64) []byte {
	t.Helper()
	data := make([]byte, samples*2)
	for i := 0; i < samples; i++ {
		v := amplitude * math.Sin(2*math.Pi*freq*float64(i)/16000.0)
		binary.LittleEndian.PutUint16(data[2*i:], uint16(int16(v*32767)))
	}

	wav := make([]byte, 0, 44+len(data))
	wav = append(wav, []byte("RIFF")...)
	wav = binary.LittleEndian.AppendUint32(wav, uint32(36+len(data)))
	wav = append(wav, []byte("WAVE")...)
	wav = append(wav, []byte("fmt ")...)
	wav = binary.LittleEndian.AppendUint32(wav, 16)
	wav = binary.LittleEndian.AppendUint16(wav, 1)
	wav = binary.LittleEndian.AppendUint16(wav, 1)
	wav = binary.LittleEndian.AppendUint32(wav, 16000)
	wav = binary.LittleEndian.AppendUint32(wav, 32000)
	wav = binary.LittleEndian.AppendUint16(wav, 2)
	wav = binary.LittleEndian.AppendUint16(wav, 16)
	wav = append(wav, []byte("data")...)
	wav = binary.LittleEndian.AppendUint32(wav, uint32(len(data)))
	wav = append(wav, data...)
	return wav
}

func TestExtractProducesFixedLengthVector(t *testing.T) {
	extractor := NewSpectralExtractor()
	sample := domain.AudioSample{WAV: synthesizeWAV(t, 8000, 440, 0.5), SampleRate: 16000}

	features, err := extractor.Extract(sample)
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}
	if len(features) != 6 {
		t.Fatalf("expected 6 features, got %d", len(features))
	}
	for i, v := range features {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("feature %d is not finite: %v", i, v)
		}
	}
}

func TestExtractDistinguishesLoudFromQuiet(t *testing.T) {
	extractor := NewSpectralExtractor()
	loud, err := extractor.Extract(domain.AudioSample{WAV: synthesizeWAV(t, 8000, 440, 0.8)})
	if err != nil {
		t.Fatalf("Extract loud error: %v", err)
	}
	quiet, err := extractor.Extract(domain.AudioSample{WAV: synthesizeWAV(t, 8000, 440, 0.05)})
	if err != nil {
		t.Fatalf("Extract quiet error: %v", err)
	}

	// rms and peak live at indices 4 and 5
	if loud[4] <= quiet[4] || loud[5] <= quiet[5] {
		t.Fatalf("loud signal should dominate: loud=%v quiet=%v", loud, quiet)
	}
}

func TestExtractRejectsNonWAV(t *testing.T) {
	extractor := NewSpectralExtractor()
	if _, err := extractor.Extract(domain.AudioSample{WAV: []byte("not audio at all")}); err == nil {
		t.Fatal("expected error for non-WAV payload")
	}
}

func TestExtractRejectsShortAudio(t *testing.T) {
	extractor := NewSpectralExtractor()
	if _, err := extractor.Extract(domain.AudioSample{WAV: synthesizeWAV(t, 100, 440, 0.5)}); err == nil {
		t.Fatal("expected error for audio shorter than one frame")
	}
}
