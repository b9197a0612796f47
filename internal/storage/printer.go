package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/san-kum/ctmcsim/internal/collision"
	"github.com/san-kum/ctmcsim/internal/dynamo"
	"github.com/san-kum/ctmcsim/internal/physics"
	"github.com/san-kum/ctmcsim/internal/sim"
)

// Field selects the columns a Printer writes.
type Field uint8

const (
	FieldTime Field = 1 << iota
	// FieldPositions writes x, y, z of every body.
	FieldPositions
	// FieldBody writes the full phase of PrinterOptions.Body.
	FieldBody
)

const stride = 6

type PrinterOptions struct {
	Fields Field
	Body   physics.BodyID
	// Buffer is the number of steps held before they are formatted.
	Buffer int
}

func DefaultPrinterOptions() PrinterOptions {
	return PrinterOptions{Fields: FieldTime | FieldPositions, Buffer: 256}
}

// Printer writes accepted steps to a CSV file. Write errors are sticky and
// reported by Flush and Close.
type Printer struct {
	file   *os.File
	w      *csv.Writer
	opts   PrinterOptions
	bodies int

	pool   *sim.StatePool
	states []dynamo.State
	times  []float64
	row    []string
	err    error
}

// NewPrinter creates path for a system of the given number of bodies.
func NewPrinter(path string, bodies int, opts PrinterOptions) (*Printer, error) {
	if opts.Fields == 0 {
		return nil, fmt.Errorf("storage: printer has no fields")
	}
	if opts.Fields&FieldBody != 0 && (opts.Body < 0 || int(opts.Body) >= bodies) {
		return nil, fmt.Errorf("storage: printer body %d outside [0, %d)", opts.Body, bodies)
	}
	if opts.Buffer < 1 {
		opts.Buffer = 1
	}

	file, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	p := &Printer{
		file:   file,
		w:      csv.NewWriter(file),
		opts:   opts,
		bodies: bodies,
		pool:   sim.NewStatePool(bodies * stride),
		states: make([]dynamo.State, 0, opts.Buffer),
		times:  make([]float64, 0, opts.Buffer),
	}

	header := p.header()
	p.row = make([]string, 0, len(header))
	if err := p.w.Write(header); err != nil {
		file.Close()
		return nil, err
	}
	return p, nil
}

func (p *Printer) header() []string {
	var header []string
	if p.opts.Fields&FieldTime != 0 {
		header = append(header, "time")
	}
	if p.opts.Fields&FieldPositions != 0 {
		for b := 0; b < p.bodies; b++ {
			header = append(header, fmt.Sprintf("x%d", b), fmt.Sprintf("y%d", b), fmt.Sprintf("z%d", b))
		}
	}
	if p.opts.Fields&FieldBody != 0 {
		header = append(header, "x", "y", "z", "vx", "vy", "vz")
	}
	return header
}

// OnStep implements dynamo.Observer.
func (p *Printer) OnStep(x dynamo.State, t float64) {
	if p.err != nil {
		return
	}
	if len(x) != p.bodies*stride {
		p.err = fmt.Errorf("storage: phase length %d, printer expects %d", len(x), p.bodies*stride)
		return
	}
	p.states = append(p.states, p.pool.GetAndCopy(x))
	p.times = append(p.times, t)
	if len(p.states) >= p.opts.Buffer {
		p.drain()
	}
}

func (p *Printer) drain() {
	for i, x := range p.states {
		if p.err == nil {
			p.err = p.w.Write(p.format(x, p.times[i]))
		}
		p.pool.Put(x)
	}
	p.states = p.states[:0]
	p.times = p.times[:0]
}

func (p *Printer) format(x dynamo.State, t float64) []string {
	row := p.row[:0]
	if p.opts.Fields&FieldTime != 0 {
		row = append(row, formatFloat(t))
	}
	if p.opts.Fields&FieldPositions != 0 {
		for b := 0; b < p.bodies; b++ {
			o := b * stride
			row = append(row, formatFloat(x[o]), formatFloat(x[o+1]), formatFloat(x[o+2]))
		}
	}
	if p.opts.Fields&FieldBody != 0 {
		o := int(p.opts.Body) * stride
		for i := 0; i < stride; i++ {
			row = append(row, formatFloat(x[o+i]))
		}
	}
	p.row = row
	return row
}

func (p *Printer) Flush() error {
	p.drain()
	p.w.Flush()
	if p.err == nil {
		p.err = p.w.Error()
	}
	return p.err
}

// Close flushes and closes the file. It implements collision.Track.
func (p *Printer) Close() error {
	err := p.Flush()
	if cerr := p.file.Close(); err == nil {
		err = cerr
	}
	return err
}

// TrackPath is the trajectory file of round within a run directory.
func TrackPath(runDir string, round int) string {
	return filepath.Join(runDir, tracksDir, strconv.Itoa(round)+".csv")
}

// Tracker opens a Printer under run runID for every tracked round.
func (s *Store) Tracker(runID string, opts PrinterOptions) (collision.TrackFunc, error) {
	runDir, err := s.Dir(runID)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Join(runDir, tracksDir), 0755); err != nil {
		return nil, err
	}
	return func(round int, sc *collision.Scenario) (collision.Track, error) {
		return NewPrinter(TrackPath(runDir, round), sc.System().Bodies(), opts)
	}, nil
}

// LoadTrack reads the trajectory of a tracked round.
func (s *Store) LoadTrack(runID string, round int) ([]string, [][]float64, error) {
	runDir, err := s.Dir(runID)
	if err != nil {
		return nil, nil, err
	}

	file, err := os.Open(TrackPath(runDir, round))
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.ReuseRecord = true

	header, err := r.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("storage: track %d: %w", round, err)
	}
	header = append([]string(nil), header...)

	var rows [][]float64
	for {
		record, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, nil, fmt.Errorf("storage: track %d: %w", round, err)
		}
		row := make([]float64, len(record))
		for i, v := range record {
			row[i], err = strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, nil, fmt.Errorf("storage: track %d: %w", round, err)
			}
		}
		rows = append(rows, row)
	}
	return header, rows, nil
}
