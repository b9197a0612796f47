package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/ctmcsim/internal/collision"
)

var ErrRunNotFound = errors.New("storage: run not found")

const (
	metadataFile = "metadata.json"
	roundsFile   = "rounds.csv"
	tracksDir    = "tracks"
)

var roundsHeader = []string{
	"round", "impact_parameter", "outcome", "status", "extended",
	"time", "energy_error", "max_energy_drift", "steps", "tracked",
}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) BaseDir() string { return s.baseDir }

type RunMetadata struct {
	ID            string                      `json:"id"`
	Timestamp     time.Time                   `json:"timestamp"`
	Target        string                      `json:"target"`
	Configuration string                      `json:"configuration"`
	Model         string                      `json:"model"`
	EnergyKeV     float64                     `json:"energy_kev"`
	Charge        float64                     `json:"charge"`
	B2Max         float64                     `json:"b2max"`
	Rounds        int                         `json:"rounds"`
	Seed          uint64                      `json:"seed"`
	Workers       int                         `json:"workers"`
	Duration      float64                     `json:"duration"`
	Successful    int                         `json:"successful"`
	Failed        int                         `json:"failed"`
	Tracked       []int                       `json:"tracked,omitempty"`
	Tally         *collision.Tally            `json:"tally"`
	CrossSections []collision.ChannelEstimate `json:"cross_sections"`
}

// Summarize builds the metadata record of a finished experiment.
func Summarize(id string, res *collision.Result) RunMetadata {
	cfg := res.Config
	return RunMetadata{
		ID:            id,
		Timestamp:     res.Started,
		Target:        cfg.Target.Element.Symbol(),
		Configuration: configuration(cfg),
		Model:         cfg.Target.Model.String(),
		EnergyKeV:     cfg.Projectile.EnergyKeV,
		Charge:        cfg.Projectile.Charge,
		B2Max:         cfg.B2Max,
		Rounds:        cfg.Rounds,
		Seed:          cfg.Seed,
		Workers:       cfg.Workers,
		Duration:      res.Duration.Seconds(),
		Successful:    res.Tally.Successful(),
		Failed:        res.Tally.Failed(),
		Tracked:       append([]int(nil), cfg.Track...),
		Tally:         res.Tally,
		CrossSections: res.Tally.Estimates(),
	}
}

func configuration(cfg collision.Config) string {
	if cfg.Target.Configuration.Valid() {
		return cfg.Target.Configuration.Symbol()
	}
	return cfg.Target.Element.Symbol()
}

func (s *Store) runDir(runID string) (string, error) {
	if runID == "" || runID == "." || runID == ".." || filepath.Base(runID) != runID {
		return "", fmt.Errorf("%w: %q", ErrRunNotFound, runID)
	}
	return filepath.Join(s.baseDir, runID), nil
}

// Dir returns the directory of an existing run.
func (s *Store) Dir(runID string) (string, error) {
	dir, err := s.runDir(runID)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(dir); err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return "", err
	}
	return dir, nil
}

// Create reserves a run directory named after prefix and returns its id.
// Tracks are written into it while the experiment runs; Save completes it.
func (s *Store) Create(prefix string) (string, error) {
	runID := fmt.Sprintf("%s_%d", prefix, time.Now().UnixNano())
	runDir, err := s.runDir(runID)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}
	return runID, nil
}

// Save writes the metadata and the per-round table of res into run runID.
func (s *Store) Save(runID string, res *collision.Result) (*RunMetadata, error) {
	runDir, err := s.Dir(runID)
	if err != nil {
		return nil, err
	}

	meta := Summarize(runID, res)

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return nil, err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return nil, err
	}

	if err := writeRounds(filepath.Join(runDir, roundsFile), res.Rounds); err != nil {
		return nil, err
	}
	return &meta, nil
}

func writeRounds(path string, rounds []collision.RoundResult) error {
	csvFile, err := os.Create(path)
	if err != nil {
		return err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write(roundsHeader); err != nil {
		return err
	}

	for _, r := range rounds {
		row := []string{
			strconv.Itoa(r.Round),
			formatFloat(r.ImpactParameter),
			r.Outcome.String(),
			r.Status.String(),
			strconv.Itoa(r.Extended),
			formatFloat(r.Time),
			formatFloat(r.EnergyError),
			formatFloat(r.MaxEnergyDrift),
			strconv.Itoa(r.Steps),
			strconv.FormatBool(r.Tracked),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// List returns every completed run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}

		runs = append(runs, *meta)
	}

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	runDir, err := s.runDir(runID)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(runDir, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("storage: %s: %w", runID, err)
	}

	return &meta, nil
}

// LoadRounds reads back the per-round table of a run.
func (s *Store) LoadRounds(runID string) ([]collision.RoundResult, error) {
	runDir, err := s.runDir(runID)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(filepath.Join(runDir, roundsFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(roundsHeader)

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("storage: %s: %w", runID, err)
	}

	if len(records) < 2 {
		return []collision.RoundResult{}, nil
	}

	rounds := make([]collision.RoundResult, 0, len(records)-1)
	for i, record := range records[1:] {
		rr, err := parseRound(record)
		if err != nil {
			return nil, fmt.Errorf("storage: %s: line %d: %w", runID, i+2, err)
		}
		rounds = append(rounds, rr)
	}
	return rounds, nil
}

func parseRound(record []string) (collision.RoundResult, error) {
	var (
		rr   collision.RoundResult
		errs []error
	)
	atoi := func(s string) int {
		v, err := strconv.Atoi(s)
		errs = append(errs, err)
		return v
	}
	atof := func(s string) float64 {
		v, err := strconv.ParseFloat(s, 64)
		errs = append(errs, err)
		return v
	}

	rr.Round = atoi(record[0])
	rr.ImpactParameter = atof(record[1])
	errs = append(errs, rr.Outcome.UnmarshalText([]byte(record[2])))
	errs = append(errs, rr.Status.UnmarshalText([]byte(record[3])))
	rr.Extended = atoi(record[4])
	rr.Time = atof(record[5])
	rr.EnergyError = atof(record[6])
	rr.MaxEnergyDrift = atof(record[7])
	rr.Steps = atoi(record[8])
	tracked, err := strconv.ParseBool(record[9])
	errs = append(errs, err)
	rr.Tracked = tracked

	return rr, errors.Join(errs...)
}
