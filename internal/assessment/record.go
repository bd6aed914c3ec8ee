package assessment

import (
	"strconv"
	"strings"
	"time"

	"github.com/manav03panchal/studiodesk/internal/model"
	"github.com/manav03panchal/studiodesk/internal/parser"
	"github.com/manav03panchal/studiodesk/internal/storage"
)

// Column names of avaliacoes.csv and imagens.csv.
const (
	ColID   = "id"
	ColName = "nome"
	ColDate = "data"

	ColAssessmentID = "avaliacao_id"
	ColFile         = "arquivo"
	ColUploadedAt   = "data"
)

var (
	// Columns is the avaliacoes.csv header.
	Columns = []string{ColID, ColName, ColDate}
	// PhotoColumns is the imagens.csv header.
	PhotoColumns = []string{ColAssessmentID, ColFile, ColUploadedAt}
)

// repairIDs renumbers every record 1..N when an id is missing, malformed or
// duplicated. Gaps are left alone since photo rows point at the ids.
func repairIDs(records []storage.Record) ([]storage.Record, bool) {
	seen := make(map[int]bool, len(records))
	ok := true
	for _, r := range records {
		id, valid := parser.ParseCount(r[ColID])
		if !valid || seen[id] {
			ok = false
			break
		}
		seen[id] = true
	}
	if ok {
		return records, false
	}

	out := make([]storage.Record, len(records))
	for i, r := range records {
		out[i] = storage.Record{ColID: strconv.Itoa(i + 1), ColName: r[ColName], ColDate: r[ColDate]}
	}
	return out, true
}

func fromRecord(r storage.Record) model.Assessment {
	id, _ := parser.ParseCount(r[ColID])
	a := model.Assessment{ID: id, Name: r[ColName]}
	raw := strings.TrimSpace(r[ColDate])
	if t, err := time.Parse(parser.DateLayout, raw); err == nil {
		a.Date = t
	} else {
		a.RawDate = raw
	}
	return a
}

func toRecord(a model.Assessment) storage.Record {
	return storage.Record{
		ColID:   strconv.Itoa(a.ID),
		ColName: a.Name,
		ColDate: a.DateString(),
	}
}

func photoFromRecord(r storage.Record) (model.Photo, bool) {
	id, ok := parser.ParseCount(r[ColAssessmentID])
	if !ok {
		return model.Photo{}, false
	}
	return model.Photo{
		AssessmentID: id,
		File:         r[ColFile],
		UploadedAt:   r[ColUploadedAt],
	}, true
}

func photoRecord(p model.Photo) storage.Record {
	return storage.Record{
		ColAssessmentID: strconv.Itoa(p.AssessmentID),
		ColFile:         p.File,
		ColUploadedAt:   p.UploadedAt,
	}
}
