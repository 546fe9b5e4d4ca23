package service_test

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"

	"task-tracker/internal/service"
)

func TestExporter_JSON(t *testing.T) {
	m := populated(t)

	data, err := service.NewExporter().Export(m, "json")
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	var rows []service.TaskRow
	if err := json.Unmarshal(data, &rows); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Category != "Work" || rows[0].Due {
		t.Fatalf("unexpected first row: %+v", rows[0])
	}
	if rows[1].Category != "Personal" || !rows[1].Due {
		t.Fatalf("unexpected second row: %+v", rows[1])
	}
}

func TestExporter_CSV(t *testing.T) {
	m := populated(t)

	data, err := service.NewExporter().Export(m, "CSV")
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(records))
	}
	if records[0][0] != "title" || records[1][0] != "Complete project report" || records[2][4] != "true" {
		t.Fatalf("unexpected csv: %v", records)
	}
}

func TestExporter_PDF(t *testing.T) {
	m := populated(t)

	data, err := service.NewExporter().Export(m, "pdf")
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Fatalf("output does not look like a PDF: %q", data[:min(len(data), 16)])
	}
}

func TestExporter_UnknownFormat(t *testing.T) {
	m, _ := newTestManager(t)
	if _, err := service.NewExporter().Export(m, "xml"); err == nil {
		t.Fatal("expected an error for an unknown format")
	}
}
