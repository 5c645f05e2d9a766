// Package audio provides the microphone capture and feature extraction adapters.
package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/doeshing/aurora-go/internal/domain"
	"github.com/doeshing/aurora-go/internal/ports"
)

const featureFrameSize = 400 // 25ms at 16kHz

// SpectralExtractor derives a small fixed-length vector of frame-level energy
// and zero-crossing statistics from 16-bit PCM WAV audio. It satisfies the
// FeatureExtractor contract for the speaker gate; richer acoustic features
// can replace it behind the same port.
type SpectralExtractor struct{}

// NewSpectralExtractor builds the default extractor.
func NewSpectralExtractor() *SpectralExtractor {
	return &SpectralExtractor{}
}

// Extract implements ports.FeatureExtractor.
func (e *SpectralExtractor) Extract(sample domain.AudioSample) ([]float64, error) {
	pcm, err := decodePCM16(sample.WAV)
	if err != nil {
		return nil, err
	}
	if len(pcm) < featureFrameSize {
		return nil, fmt.Errorf("audio too short for feature extraction: %d samples", len(pcm))
	}

	var energies, crossings []float64
	for start := 0; start+featureFrameSize <= len(pcm); start += featureFrameSize {
		frame := pcm[start : start+featureFrameSize]
		energies = append(energies, frameEnergy(frame))
		crossings = append(crossings, zeroCrossingRate(frame))
	}

	eMean, eStd := meanStd(energies)
	zMean, zStd := meanStd(crossings)
	return []float64{eMean, eStd, zMean, zStd, rms(pcm), peak(pcm)}, nil
}

// decodePCM16 pulls normalized samples out of a WAV container. Only the data
// chunk is consumed; 16-bit little-endian PCM is assumed.
func decodePCM16(wav []byte) ([]float64, error) {
	if len(wav) < 12 || string(wav[:4]) != "RIFF" || string(wav[8:12]) != "WAVE" {
		return nil, errors.New("not a RIFF/WAVE stream")
	}
	offset := 12
	for offset+8 <= len(wav) {
		chunkID := string(wav[offset : offset+4])
		chunkLen := int(binary.LittleEndian.Uint32(wav[offset+4 : offset+8]))
		offset += 8
		if chunkID == "data" {
			end := offset + chunkLen
			if end > len(wav) {
				end = len(wav)
			}
			data := wav[offset:end]
			samples := make([]float64, len(data)/2)
			for i := range samples {
				v := int16(binary.LittleEndian.Uint16(data[2*i : 2*i+2]))
				samples[i] = float64(v) / 32768.0
			}
			return samples, nil
		}
		offset += chunkLen
	}
	return nil, errors.New("WAV data chunk not found")
}

func frameEnergy(frame []float64) float64 {
	var sum float64
	for _, v := range frame {
		sum += v * v
	}
	return sum / float64(len(frame))
}

func zeroCrossingRate(frame []float64) float64 {
	crossings := 0
	for i := 1; i < len(frame); i++ {
		if (frame[i-1] >= 0) != (frame[i] >= 0) {
			crossings++
		}
	}
	return float64(crossings) / float64(len(frame))
}

func meanStd(values []float64) (float64, float64) {
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))
	var variance float64
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	return mean, math.Sqrt(variance / float64(len(values)))
}

func rms(samples []float64) float64 {
	return math.Sqrt(frameEnergy(samples))
}

func peak(samples []float64) float64 {
	var p float64
	for _, v := range samples {
		if a := math.Abs(v); a > p {
			p = a
		}
	}
	return p
}

var _ ports.FeatureExtractor = (*SpectralExtractor)(nil)
