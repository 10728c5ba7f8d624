package grid

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ReadCSV parses a headerless comma-separated cost matrix. Blank lines are
// skipped and surrounding whitespace in a field is ignored.
func ReadCSV(r io.Reader) (*Grid, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var cost [][]float64
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv: %w", err)
		}
		if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			continue
		}
		row := make([]float64, len(record))
		for x, field := range record {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, fmt.Errorf("row %d col %d: invalid cost %q", len(cost), x, field)
			}
			row[x] = v
		}
		cost = append(cost, row)
	}
	return New(cost)
}

// LoadCSV reads a cost matrix from the file at path.
func LoadCSV(path string) (*Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open map: %w", err)
	}
	defer f.Close()
	g, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}
