package formatter

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/desertthunder/ytgrab/internal/models"
	"github.com/olekukonko/tablewriter"
)

// RenderLegend writes one line per status code with its meaning.
func RenderLegend(w io.Writer) error {
	if _, err := fmt.Fprintln(w, "Status codes:"); err != nil {
		return err
	}
	for _, code := range models.StatusCodes {
		if _, err := fmt.Fprintf(w, "  %-22s %s\n", code, code.Description()); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}

// RenderReport writes the legend followed by a grid with one row per result.
func RenderReport(w io.Writer, results []models.TrackResult) error {
	if err := RenderLegend(w); err != nil {
		return fmt.Errorf("failed to write legend: %w", err)
	}
	return RenderResults(w, results)
}

// RenderResults writes a Track/Status/URL grid.
func RenderResults(w io.Writer, results []models.TrackResult) error {
	rows := make([][]string, len(results))
	for i, r := range results {
		rows[i] = []string{r.TrackName, r.Status, r.URL}
	}
	return renderTable(w, []string{"Track", "Status", "URL"}, rows, true)
}

// RenderRuns writes one row per stored run, newest first as given.
func RenderRuns(w io.Writer, runs []models.Run) error {
	rows := make([][]string, len(runs))
	for i, r := range runs {
		elapsed := "-"
		if r.Finished() {
			elapsed = r.Elapsed().Round(time.Second).String()
		}
		rows[i] = []string{
			ShortID(r.ID),
			r.PlaylistName,
			r.Format,
			strconv.Itoa(r.TotalTracks),
			strconv.Itoa(r.Omitted),
			r.StartedAt.Local().Format("2006-01-02 15:04"),
			elapsed,
		}
	}
	return renderTable(w, []string{"ID", "Playlist", "Format", "Tracks", "Omitted", "Started", "Took"}, rows, false)
}

// ShortID returns the first 8 characters of a run id.
func ShortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func renderTable(w io.Writer, header []string, rows [][]string, rowLines bool) error {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetRowLine(rowLines)
	table.AppendBulk(rows)
	table.Render()

	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write table: %w", err)
	}
	return nil
}

// WriteReport renders results to {dir}/report.txt and returns the file path.
func WriteReport(dir string, results []models.TrackResult) (string, error) {
	var buf bytes.Buffer
	if err := RenderReport(&buf, results); err != nil {
		return "", err
	}

	path := filepath.Join(dir, ReportName)
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return path, nil
}
