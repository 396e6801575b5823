package learn

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// ModelFile is the filename the trained model persists under inside the
// learning directory.
const ModelFile = "model.json"

// Save writes the model to dir/model.json, creating dir if needed.
func Save(m *Model, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating learning directory: %w", err)
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding model: %w", err)
	}

	path := filepath.Join(dir, ModelFile)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing model: %w", err)
	}
	return nil
}

// Load reads the model from dir/model.json. A missing or unreadable
// model is not an error: predictions are an optional layer, so both
// cases yield (nil, nil) and the caller proceeds untrained.
func Load(dir string) (*Model, error) {
	data, err := os.ReadFile(filepath.Join(dir, ModelFile))
	if err != nil {
		return nil, nil
	}

	m := NewModel()
	if err := json.Unmarshal(data, m); err != nil {
		return nil, nil
	}
	return m, nil
}

// Clear removes the persisted model. Missing files are fine.
func Clear(dir string) error {
	err := os.Remove(filepath.Join(dir, ModelFile))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing model: %w", err)
	}
	return nil
}
