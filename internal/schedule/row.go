// Package schedule turns the persisted agenda rows into the weekly view and
// books or removes entries on top of it.
package schedule

import (
	"strings"

	"github.com/manav03panchal/studiodesk/internal/storage"
)

// Agenda CSV columns. The names come from the studio's original sheet.
const (
	ColID           = "id"
	ColDay          = "dia"
	ColTime         = "horario"
	ColTimeSort     = "horario_sort"
	ColClient       = "nome"
	ColProfessional = "profissional"
	ColDuration     = "duracao"
)

// Columns is the agenda header in file order.
var Columns = []string{ColID, ColDay, ColTime, ColTimeSort, ColClient, ColProfessional, ColDuration}

// Row is a raw agenda row exactly as stored. Nothing in it is trusted.
type Row struct {
	ID           string
	Day          string
	Time         string // display form, "08h00"
	TimeSort     string // ordering form, "08:00"
	Client       string
	Professional string
	Duration     string
}

// Blank reports whether every field is empty or whitespace.
func (r Row) Blank() bool {
	for _, f := range [...]string{r.ID, r.Day, r.Time, r.TimeSort, r.Client, r.Professional, r.Duration} {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// RowFromRecord reads a row from a CSV record.
func RowFromRecord(rec storage.Record) Row {
	return Row{
		ID:           rec[ColID],
		Day:          rec[ColDay],
		Time:         rec[ColTime],
		TimeSort:     rec[ColTimeSort],
		Client:       rec[ColClient],
		Professional: rec[ColProfessional],
		Duration:     rec[ColDuration],
	}
}

// Record converts the row back to a CSV record.
func (r Row) Record() storage.Record {
	return storage.Record{
		ColID:           r.ID,
		ColDay:          r.Day,
		ColTime:         r.Time,
		ColTimeSort:     r.TimeSort,
		ColClient:       r.Client,
		ColProfessional: r.Professional,
		ColDuration:     r.Duration,
	}
}

// RowsFromRecords converts a loaded table.
func RowsFromRecords(records []storage.Record) []Row {
	rows := make([]Row, len(records))
	for i, rec := range records {
		rows[i] = RowFromRecord(rec)
	}
	return rows
}

// Records converts rows for saving.
func Records(rows []Row) []storage.Record {
	records := make([]storage.Record, len(rows))
	for i, r := range rows {
		records[i] = r.Record()
	}
	return records
}
