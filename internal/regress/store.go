package regress

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Snapshot is the serializable state of a fitted model: the scaler, the
// forest, and the feature names the model was trained on.
type Snapshot struct {
	FeatureNames []string  `json:"feature_names"`
	Scaler       *Scaler   `json:"scaler"`
	Forest       *Forest   `json:"forest"`
	SavedAt      time.Time `json:"saved_at"`
}

// Store persists model snapshots as JSON files under a data directory.
type Store struct {
	dataDir string
}

// NewStore creates a snapshot store rooted at dataDir.
func NewStore(dataDir string) *Store {
	return &Store{dataDir: dataDir}
}

// Save writes a snapshot under the given name, creating the data directory
// if needed.
func (s *Store) Save(name string, snap *Snapshot) error {
	if snap == nil || snap.Scaler == nil || snap.Forest == nil {
		return fmt.Errorf("regress: cannot save incomplete snapshot")
	}

	if err := os.MkdirAll(s.dataDir, 0755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	snap.SavedAt = time.Now().UTC()

	file, err := os.Create(s.path(name))
	if err != nil {
		return fmt.Errorf("failed to create snapshot file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(snap); err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	return nil
}

// Load reads a previously saved snapshot.
func (s *Store) Load(name string) (*Snapshot, error) {
	file, err := os.Open(s.path(name))
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot file: %w", err)
	}
	defer file.Close()

	var snap Snapshot
	if err := json.NewDecoder(file).Decode(&snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}

	if snap.Scaler == nil || snap.Forest == nil {
		return nil, fmt.Errorf("snapshot %s is incomplete", name)
	}

	return &snap, nil
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dataDir, fmt.Sprintf("%s.json", name))
}
