package classifier

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Artifact file names inside the model output directory.
const (
	IntentModelFile  = "intent_classifier.json"
	ServiceModelFile = "service_classifier.json"
	EmbedderFile     = "embedder.json"
)

// EmbedderRef pins the embedding configuration the classifiers were
// fit against. Inference must encode with the same model and
// dimension; a mismatch silently breaks predictions, which is exactly
// what persisting this reference is meant to prevent.
type EmbedderRef struct {
	Model     string `json:"model"`
	Dimension int    `json:"dimension"`
}

// SaveArtifacts writes both classifiers and the embedder reference to
// dir, creating it if needed.
func SaveArtifacts(dir string, intent, service *LogisticRegression, ref EmbedderRef) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create model dir: %w", err)
	}
	if err := writeJSON(filepath.Join(dir, IntentModelFile), intent); err != nil {
		return err
	}
	if err := writeJSON(filepath.Join(dir, ServiceModelFile), service); err != nil {
		return err
	}
	return writeJSON(filepath.Join(dir, EmbedderFile), ref)
}

// LoadModel reads a persisted classifier.
func LoadModel(path string) (*LogisticRegression, error) {
	var m LogisticRegression
	if err := readJSON(path, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// LoadEmbedderRef reads the persisted embedder reference.
func LoadEmbedderRef(dir string) (*EmbedderRef, error) {
	var ref EmbedderRef
	if err := readJSON(filepath.Join(dir, EmbedderFile), &ref); err != nil {
		return nil, err
	}
	return &ref, nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}
