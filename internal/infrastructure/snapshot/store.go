package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"SubSignal/internal/domain"
	"SubSignal/internal/ports"
)

// Artifact file names, overwritten on every run.
const (
	CandidatesFile = "top_posts.json"
	SelectedFile   = "selected_ideas.json"
	AnalysisFile   = "analysis.json"
)

// Store writes run artifacts as indented UTF-8 JSON files so an operator can
// audit exactly where the model was or wasn't consulted.
type Store struct {
	dir string
}

var _ ports.SnapshotStore = (*Store)(nil)

// NewStore targets the given directory; "" means the working directory.
func NewStore(dir string) *Store {
	if dir == "" {
		dir = "."
	}
	return &Store{dir: dir}
}

// SaveCandidates persists the raw candidate snapshot.
func (s *Store) SaveCandidates(snapshot domain.Snapshot) error {
	return s.write(CandidatesFile, snapshot)
}

// SaveSelected persists the per-source selections.
func (s *Store) SaveSelected(ideas []domain.SelectedIdea) error {
	return s.write(SelectedFile, ideas)
}

// SaveAnalysis persists the cross-source ranking report.
func (s *Store) SaveAnalysis(analysis domain.AnalysisResult) error {
	return s.write(AnalysisFile, analysis)
}

func (s *Store) write(name string, v any) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}
	data = append(data, '\n')

	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}

	return nil
}
