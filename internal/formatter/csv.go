package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/desertthunder/ytgrab/internal/models"
)

// ResultsToCSV converts results to CSV with columns: Track, Status, URL, File
func ResultsToCSV(results []models.TrackResult) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{"Track", "Status", "URL", "File"}); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, r := range results {
		if err := writer.Write([]string{r.TrackName, r.Status, r.URL, r.FilePath}); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// WriteCSV writes results to {dir}/results.csv and returns the file path.
func WriteCSV(dir string, results []models.TrackResult) (string, error) {
	data, err := ResultsToCSV(results)
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, CSVName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write CSV file: %w", err)
	}
	return path, nil
}
