package server

import (
	"encoding/csv"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"time"

	"github.com/matzehuels/uldpack/pkg/errors"
)

// handleMock serves the configured sample solution instead of solving.
// A small randomized delay imitates solver latency so frontend spinners
// and timeouts get exercised.
func (s *Server) handleMock(w http.ResponseWriter, r *http.Request) {
	if s.cfg.SampleCSV == "" {
		writeError(w, errors.New(errors.ErrCodeUnsupported, "no sample solution configured"))
		return
	}

	rows, err := readSampleCSV(s.cfg.SampleCSV)
	if err != nil {
		writeError(w, err)
		return
	}

	delay := time.Duration(200+rand.Intn(1300)) * time.Millisecond
	select {
	case <-time.After(delay):
	case <-r.Context().Done():
		return
	}

	writeJSON(w, http.StatusOK, rows)
}

// readSampleCSV reads the sample solution, skipping the header row.
// Each row becomes a map keyed column_0, column_1, ... - the row format is
// whatever the sample file carries; the mock path never interprets it.
func readSampleCSV(path string) ([]map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open sample solution")
	}
	defer f.Close()

	reader := csv.NewReader(f)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read sample solution")
	}
	if len(records) > 0 {
		records = records[1:] // header
	}

	rows := make([]map[string]string, 0, len(records))
	for _, record := range records {
		row := make(map[string]string, len(record))
		for i, field := range record {
			row[fmt.Sprintf("column_%d", i)] = field
		}
		rows = append(rows, row)
	}
	return rows, nil
}
