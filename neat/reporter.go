package neat

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// GenerationStats summarizes one generation. Score statistics describe the scores reported
// before the generation was advanced.
type GenerationStats struct {
	Generation             int     `csv:"generation"`
	Clients                int     `csv:"clients"`
	Species                int     `csv:"species"`
	BestScore              float64 `csv:"best_score"`
	MeanScore              float64 `csv:"mean_score"`
	StdDevScore            float64 `csv:"stddev_score"`
	AverageAdjustedFitness float64 `csv:"average_adjusted_fitness"`
	NodeInnovations        int     `csv:"node_innovations"`
	ConnectionInnovations  int     `csv:"connection_innovations"`
}

// LogValue implements slog.LogValuer for structured logging.
func (s GenerationStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("generation", s.Generation),
		slog.Int("clients", s.Clients),
		slog.Int("species", s.Species),
		slog.Float64("best_score", s.BestScore),
		slog.Float64("mean_score", s.MeanScore),
		slog.Float64("stddev_score", s.StdDevScore),
		slog.Float64("average_adjusted_fitness", s.AverageAdjustedFitness),
		slog.Int("node_innovations", s.NodeInnovations),
		slog.Int("connection_innovations", s.ConnectionInnovations),
	)
}

// scoreStats fills the score columns from the given scores. Empty input leaves them at 0 and a
// single score has a standard deviation of 0.
func (s *GenerationStats) scoreStats(scores []float64) {
	if len(scores) == 0 {
		return
	}
	s.BestScore = floats.Max(scores)
	s.MeanScore = stat.Mean(scores, nil)
	if len(scores) > 1 {
		s.StdDevScore = stat.StdDev(scores, nil)
	}
}

// Reporter receives a summary after every generation.
type Reporter interface {
	ReportGeneration(stats GenerationStats) error
}

// ReporterFunc adapts a function to the Reporter interface.
type ReporterFunc func(stats GenerationStats) error

// ReportGeneration calls f(stats).
func (f ReporterFunc) ReportGeneration(stats GenerationStats) error {
	return f(stats)
}

// CSVReporter writes one CSV row per generation. The header is written with the first row.
type CSVReporter struct {
	w             io.Writer
	headerWritten bool
}

// NewCSVReporter creates a CSVReporter writing to w.
func NewCSVReporter(w io.Writer) *CSVReporter {
	return &CSVReporter{w: w}
}

// ReportGeneration writes stats as a CSV row.
func (r *CSVReporter) ReportGeneration(stats GenerationStats) error {
	records := []GenerationStats{stats}

	if !r.headerWritten {
		// First write includes headers
		if err := gocsv.Marshal(records, r.w); err != nil {
			return fmt.Errorf("writing generation stats: %w", err)
		}
		r.headerWritten = true
		return nil
	}

	if err := gocsv.MarshalWithoutHeaders(records, r.w); err != nil {
		return fmt.Errorf("writing generation stats: %w", err)
	}
	return nil
}
