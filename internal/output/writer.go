package output

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"img2csv/internal/types"
)

// FormatValue renders v with the shortest decimal that reads back as the
// same float32, never in exponent form.
func FormatValue(v float32) string {
	return strconv.FormatFloat(float64(v), 'f', -1, 32)
}

func FormatTable(grid types.Grid) [][]string {
	table := make([][]string, len(grid))
	for i, row := range grid {
		record := make([]string, len(row))
		for j, v := range row {
			record[j] = FormatValue(v)
		}
		table[i] = record
	}
	return table
}

func WriteTable(w io.Writer, grid types.Grid) error {
	cw := csv.NewWriter(w)
	for _, record := range FormatTable(grid) {
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSV creates or truncates path and writes grid to it. The parent
// directory must already exist. A failed write may leave a partial file.
func WriteCSV(path string, grid types.Grid) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteTable(f, grid); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
