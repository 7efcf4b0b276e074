// Package metadata records and verifies run manifests for normalized tables.
package metadata

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"pensionqa/internal/models"
)

// ManifestSuffix is appended to the output path to name the manifest file.
const ManifestSuffix = ".manifest.yaml"

// Manifest verification errors.
var (
	ErrNoDigest       = errors.New("manifest has no digest")
	ErrDigestMismatch = errors.New("digest mismatch")
	ErrRowMismatch    = errors.New("row count mismatch")
)

// Manifest describes one normalization run.
type Manifest struct {
	RunID       string    `yaml:"run_id"`
	Layout      string    `yaml:"layout"`
	Input       string    `yaml:"input"`
	Output      string    `yaml:"output"`
	Rows        int       `yaml:"rows"`
	GeneratedAt time.Time `yaml:"generated_at"`
	Digest      string    `yaml:"digest"`
}

// NewRunID returns a fresh identifier for a run.
func NewRunID() string {
	return uuid.NewString()
}

// Digest computes the SHA-256 of the table's cells in output order. Cells are
// tab separated and rows newline terminated, with the header as first row.
func Digest(records []models.CanonicalRecord) string {
	h := sha256.New()

	h.Write([]byte(strings.Join(models.CanonicalColumns, "\t") + "\n"))

	for _, rec := range records {
		values := rec.Values()
		cells := make([]string, len(values))

		for i, v := range values {
			cells[i] = v.Kind().String() + ":" + v.String()
		}

		h.Write([]byte(strings.Join(cells, "\t") + "\n"))
	}

	return hex.EncodeToString(h.Sum(nil))
}

// Sign builds a manifest for records.
func Sign(runID, layout, input, output string, records []models.CanonicalRecord) *Manifest {
	return &Manifest{
		RunID:       runID,
		Layout:      layout,
		Input:       input,
		Output:      output,
		Rows:        len(records),
		GeneratedAt: time.Now().UTC().Truncate(time.Second),
		Digest:      Digest(records),
	}
}

// Verify checks that records match the manifest.
func Verify(m *Manifest, records []models.CanonicalRecord) (bool, error) {
	if m.Digest == "" {
		return false, ErrNoDigest
	}

	if m.Rows != len(records) {
		return false, fmt.Errorf("%w: expected %d, got %d", ErrRowMismatch, m.Rows, len(records))
	}

	calculated := Digest(records)
	if calculated != m.Digest {
		return false, fmt.Errorf("%w: expected %s, got %s", ErrDigestMismatch, m.Digest, calculated)
	}

	return true, nil
}

// PathFor returns the manifest path for an output file.
func PathFor(output string) string {
	return output + ManifestSuffix
}

// Save writes the manifest as YAML.
func (m *Manifest) Save(path string) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	return nil
}

// Load reads a manifest from a YAML file.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}

	return &m, nil
}
