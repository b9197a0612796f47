package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/ctmcsim/internal/collision"
)

// ExportData is the JSON document of one stored run.
type ExportData struct {
	Metadata *RunMetadata            `json:"metadata"`
	Rounds   []collision.RoundResult `json:"rounds"`
}

// Export loads run runID with its rounds.
func (s *Store) Export(runID string) (*ExportData, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}
	rounds, err := s.LoadRounds(runID)
	if err != nil {
		return nil, err
	}
	return &ExportData{Metadata: meta, Rounds: rounds}, nil
}

func ExportJSON(w io.Writer, data *ExportData) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func ExportJSONFile(path string, data *ExportData) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return ExportJSON(file, data)
}
