package run

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"jailreport/domain/core"
)

// FileStatus is the outcome of cleaning one file
type FileStatus string

const (
	StatusProcessed FileStatus = "processed"
	StatusFailed    FileStatus = "failed"
)

// FileResult records what happened to one input file
type FileResult struct {
	Input       string         `json:"input"`
	Output      string         `json:"output,omitempty"`
	Status      FileStatus     `json:"status"`
	Rows        int            `json:"rows"`
	Columns     []string       `json:"columns,omitempty"`
	Fingerprint core.Hash      `json:"fingerprint,omitempty"` // SHA-256 of the rendered CSV
	Stage       string         `json:"stage,omitempty"`
	ErrorCode   string         `json:"error_code,omitempty"`
	Error       string         `json:"error,omitempty"`
	FinishedAt  core.Timestamp `json:"finished_at"`
}

// Manifest is the record of one run over a batch of files
type Manifest struct {
	RunID     core.RunID     `json:"run_id"`
	CreatedAt core.Timestamp `json:"created_at"`
	Files     []*FileResult  `json:"files"`

	mu sync.Mutex
}

// NewManifest starts a manifest for a new run
func NewManifest() *Manifest {
	return &Manifest{
		RunID:     core.NewRunID(),
		CreatedAt: core.Now(),
	}
}

// Add records a file result. Safe for concurrent use.
func (m *Manifest) Add(result *FileResult) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Files = append(m.Files, result)
}

// Sort orders file results by input path so concurrent runs serialize the same way
func (m *Manifest) Sort() {
	m.mu.Lock()
	defer m.mu.Unlock()
	sort.SliceStable(m.Files, func(i, j int) bool { return m.Files[i].Input < m.Files[j].Input })
}

// Failed returns the results that did not produce output
func (m *Manifest) Failed() []*FileResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	var failed []*FileResult
	for _, f := range m.Files {
		if f.Status == StatusFailed {
			failed = append(failed, f)
		}
	}
	return failed
}

// Validate checks if the manifest is complete
func (m *Manifest) Validate() error {
	if core.ID(m.RunID).IsEmpty() {
		return fmt.Errorf("run_manifest: run_id cannot be empty")
	}
	for _, f := range m.Files {
		if f.Input == "" {
			return fmt.Errorf("run_manifest: file result without input")
		}
		if f.Status == StatusProcessed && f.Fingerprint.IsEmpty() {
			return fmt.Errorf("run_manifest: %s processed without fingerprint", f.Input)
		}
	}
	return nil
}

// WriteFile stores the manifest as indented JSON at dir/manifest_<run id>.json
func (m *Manifest) WriteFile(dir string) (string, error) {
	m.mu.Lock()
	data, err := json.MarshalIndent(m, "", "  ")
	m.mu.Unlock()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, fmt.Sprintf("manifest_%s.json", m.RunID))
	return path, os.WriteFile(path, data, 0o644)
}
