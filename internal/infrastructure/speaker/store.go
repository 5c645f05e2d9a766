package speaker

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/doeshing/aurora-go/internal/domain"
)

// trustState is the single serialized blob holding everything the gate owns:
// classifier, scaler, counters, and threshold. Written after every successful
// enrollment, read once at startup.
type trustState struct {
	Model       centroidModel  `json:"model"`
	Scaler      standardScaler `json:"scaler"`
	SampleCount int            `json:"sample_count"`
	Trained     bool           `json:"trained"`
	Threshold   float64        `json:"threshold"`
}

// blobStore persists the trust state as a JSON file.
type blobStore struct {
	path string
}

func newBlobStore(path string) *blobStore {
	return &blobStore{path: path}
}

// Load returns (state, false, nil) when no blob exists yet; a missing store
// simply means the gate is untrained.
func (s *blobStore) Load() (trustState, bool, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return trustState{}, false, nil
		}
		return trustState{}, false, err
	}
	var state trustState
	if err := json.Unmarshal(data, &state); err != nil {
		return trustState{}, false, err
	}
	return state, true, nil
}

func (s *blobStore) Save(state trustState) error {
	if err := os.MkdirAll(filepath.Dir(s.path), domain.DirectoryPermissions); err != nil {
		return err
	}
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, domain.SecureFilePermissions)
}

func (s *blobStore) Remove() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
