package service

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// TaskRow is one exported task.
type TaskRow struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	DueDate     time.Time `json:"due_date"`
	Due         bool      `json:"due"`
}

// Exporter renders a manager's tasks as json, csv or pdf.
type Exporter struct{}

func NewExporter() *Exporter { return &Exporter{} }

// Rows returns every task in insertion order with its due flag as of the
// manager's clock.
func (e *Exporter) Rows(m *TaskManager) []TaskRow {
	now := m.Now()
	tasks := m.Tasks()
	rows := make([]TaskRow, 0, len(tasks))
	for _, t := range tasks {
		category := ""
		if t.Category != nil {
			category = t.Category.Name
		}
		rows = append(rows, TaskRow{
			Title:       t.Title,
			Description: t.Description,
			Category:    category,
			DueDate:     t.DueDate,
			Due:         t.IsDue(now),
		})
	}
	return rows
}

func (e *Exporter) Export(m *TaskManager, format string) ([]byte, error) {
	rows := e.Rows(m)
	switch strings.ToLower(format) {
	case "json":
		return json.MarshalIndent(rows, "", "  ")
	case "csv":
		return exportCSV(rows)
	case "pdf":
		return exportPDF(rows, m.Now())
	default:
		return nil, fmt.Errorf("unknown format %s", format)
	}
}

func exportCSV(rows []TaskRow) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"title", "description", "category", "due_date", "due"}); err != nil {
		return nil, err
	}
	for _, r := range rows {
		record := []string{r.Title, r.Description, r.Category, r.DueDate.Format(time.RFC3339), fmt.Sprint(r.Due)}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func exportPDF(rows []TaskRow, now time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(40, 10, "Task Report")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 9)
	pdf.Cell(40, 6, "Generated "+now.Format("2006-01-02 15:04"))
	pdf.Ln(10)

	writeSection := func(title string, due bool) {
		pdf.SetFont("Arial", "B", 12)
		pdf.Cell(40, 8, title)
		pdf.Ln(8)
		pdf.SetFont("Arial", "", 10)
		n := 0
		for _, r := range rows {
			if r.Due != due {
				continue
			}
			n++
			line := fmt.Sprintf("[%s] %s - due %s", r.Category, r.Title, r.DueDate.Format("2006-01-02 15:04"))
			if r.Description != "" {
				line += ": " + r.Description
			}
			pdf.MultiCell(0, 6, tr(line), "0", "L", false)
		}
		if n == 0 {
			pdf.MultiCell(0, 6, "none", "0", "L", false)
		}
		pdf.Ln(4)
	}
	writeSection("Upcoming", false)
	writeSection("Due", true)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
