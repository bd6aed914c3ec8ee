package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/manav03panchal/studiodesk/internal/assessment"
	"github.com/manav03panchal/studiodesk/internal/model"
	"github.com/manav03panchal/studiodesk/internal/parser"
	"github.com/manav03panchal/studiodesk/internal/schedule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleWeek() *schedule.Week {
	return schedule.Sanitize([]schedule.Row{
		{Day: "segunda", Time: "9h", Client: "Bia", Professional: "Fernanda", Duration: "60"},
		{Day: "segunda", Time: "8h", Client: "Ana", Professional: "Fernanda", Duration: "45"},
		{Day: "sábado", Time: "10h30", Client: "Carla", Professional: "Júlia", Duration: "45"},
		{Day: "domingo", Time: "10h", Client: "Dora", Professional: "Júlia", Duration: "45"},
	}, parser.ClockStrict)
}

func newCLI(format Format) (*CLIFormatter, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewCLIFormatter(&Formatter{Writer: &buf, Format: format, ColorMode: ColorNever}), &buf
}

// =============================================================================
// Formatter Tests
// =============================================================================

func TestNewFormatter(t *testing.T) {
	f := NewFormatter()
	assert.NotNil(t, f)
	assert.Equal(t, FormatCLI, f.Format)
	assert.Equal(t, ColorAuto, f.ColorMode)
}

func TestFormatterIsColorEnabled(t *testing.T) {
	t.Run("color_always", func(t *testing.T) {
		f := &Formatter{ColorMode: ColorAlways}
		assert.True(t, f.IsColorEnabled())
	})

	t.Run("color_never", func(t *testing.T) {
		f := &Formatter{ColorMode: ColorNever}
		assert.False(t, f.IsColorEnabled())
	})

	t.Run("color_auto_non_terminal", func(t *testing.T) {
		var buf bytes.Buffer
		f := &Formatter{
			Writer:    &buf,
			ColorMode: ColorAuto,
		}
		// Buffer is not a terminal
		assert.False(t, f.IsColorEnabled())
	})

	t.Run("plain_never_colors", func(t *testing.T) {
		f := &Formatter{Format: FormatPlain, ColorMode: ColorAlways}
		assert.False(t, f.IsColorEnabled())
	})
}

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"cli", "json", "plain"} {
		f, err := ParseFormat(s)
		require.NoError(t, err)
		assert.Equal(t, Format(s), f)
	}
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatCLI, f)

	_, err = ParseFormat("xml")
	assert.Error(t, err)
}

func TestParseColorMode(t *testing.T) {
	m, err := ParseColorMode("never")
	require.NoError(t, err)
	assert.Equal(t, ColorNever, m)

	m, err = ParseColorMode("")
	require.NoError(t, err)
	assert.Equal(t, ColorAuto, m)

	_, err = ParseColorMode("sometimes")
	assert.Error(t, err)
}

func TestFormatterJSON(t *testing.T) {
	var buf bytes.Buffer
	f := &Formatter{Writer: &buf}

	require.NoError(t, f.JSON(map[string]string{"key": "value"}))
	assert.Contains(t, buf.String(), `"key": "value"`)
}

// =============================================================================
// CLIFormatter Tests
// =============================================================================

func TestCLIFormatterMessages(t *testing.T) {
	c, buf := newCLI(FormatCLI)

	c.Title("Agenda")
	c.Success("saved")
	c.Warning("careful")
	c.Error("failed")
	c.Muted("quiet")

	assert.Equal(t, "Agenda\n✓ saved\n⚠ careful\n✗ failed\nquiet\n", buf.String())
}

func TestCLIFormatterPrintTable(t *testing.T) {
	c, buf := newCLI(FormatCLI)
	c.PrintTable([]string{"Nome", "Dia"}, []TableRow{
		{Columns: []string{"Júlia", "sábado"}},
		{Columns: []string{"Ana", "terça"}},
	})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Nome   Dia", lines[0])
	assert.Equal(t, "Júlia  sábado", lines[2])
	assert.Equal(t, "Ana    terça", lines[3])

	buf.Reset()
	c.PrintTable([]string{"x"}, nil)
	assert.Empty(t, buf.String())
}

func TestCLIFormatterPrintWeek(t *testing.T) {
	t.Run("cli", func(t *testing.T) {
		c, buf := newCLI(FormatCLI)
		c.PrintWeek(sampleWeek())
		out := buf.String()

		assert.Contains(t, out, "Segunda (2)")
		assert.Contains(t, out, "Terça (0)")
		assert.Contains(t, out, "Sábado (1)")
		assert.Less(t, strings.Index(out, "08h00"), strings.Index(out, "09h00"))
		assert.Contains(t, out, "1 row(s) have a day outside")
	})

	t.Run("plain", func(t *testing.T) {
		c, buf := newCLI(FormatPlain)
		c.PrintWeek(sampleWeek())
		assert.Contains(t, buf.String(), "Segunda\n  [2] 08h00 - Ana (Fernanda) [45 min]\n  [1] 09h00 - Bia (Fernanda) [60 min]\nTerça\n")
	})

	t.Run("empty", func(t *testing.T) {
		c, buf := newCLI(FormatCLI)
		c.PrintWeek(schedule.Sanitize(nil, parser.ClockStrict))
		assert.Contains(t, buf.String(), "Nenhum horário cadastrado.")
	})
}

func TestCLIFormatterPrintRepair(t *testing.T) {
	c, buf := newCLI(FormatCLI)
	c.PrintRepair(schedule.Sanitize([]schedule.Row{
		{ID: "1", Day: "segunda", Time: "8h", Client: "Ana", Professional: "F", Duration: "45"},
		{ID: "2", Day: "segunda", Time: "abc", TimeSort: "zz", Client: "Bia", Professional: "F", Duration: "45"},
	}, parser.ClockStrict))

	out := buf.String()
	assert.Contains(t, out, "dropped unparseable_time")
	assert.Contains(t, out, `nome="Bia"`)
	assert.Contains(t, out, "Agenda repaired (1 entries)")
}

func TestCLIFormatterAssessments(t *testing.T) {
	ana := model.Assessment{ID: 1, Name: "Ana", RawDate: "2024-01-10", Photos: []model.Photo{
		{AssessmentID: 1, File: "1_a.jpg", UploadedAt: "2024-01-10 09:00:00"},
	}}
	bia := model.Assessment{ID: 2, Name: "Bia", RawDate: "2024-02-01"}

	t.Run("list", func(t *testing.T) {
		c, buf := newCLI(FormatCLI)
		c.PrintAssessments([]model.Assessment{bia, ana})
		assert.Contains(t, buf.String(), "ID  Data        Nome  Fotos")
		assert.Contains(t, buf.String(), "2   2024-02-01  Bia   0")
	})

	t.Run("list_plain", func(t *testing.T) {
		c, buf := newCLI(FormatPlain)
		c.PrintAssessments([]model.Assessment{ana})
		assert.Equal(t, "1\t2024-01-10\tAna\t1\n", buf.String())
	})

	t.Run("list_empty", func(t *testing.T) {
		c, buf := newCLI(FormatCLI)
		c.PrintAssessments(nil)
		assert.Contains(t, buf.String(), "Nenhuma avaliação encontrada.")
	})

	t.Run("show", func(t *testing.T) {
		c, buf := newCLI(FormatCLI)
		c.PrintAssessment(ana)
		assert.Contains(t, buf.String(), "Fotos: 1 imagens")
		assert.Contains(t, buf.String(), "1_a.jpg")
	})

	t.Run("compare", func(t *testing.T) {
		c, buf := newCLI(FormatCLI)
		c.PrintComparison(assessment.Comparison{Left: ana, Right: bia})
		lines := strings.Split(buf.String(), "\n")
		assert.True(t, strings.HasPrefix(lines[0], "Avaliação 1 "))
		assert.True(t, strings.HasSuffix(lines[0], "  │  Avaliação 2"))
		assert.Contains(t, buf.String(), "Sem fotos registradas.")
	})
}

func TestCLIFormatterPrintSettings(t *testing.T) {
	c, buf := newCLI(FormatCLI)
	c.PrintSettings(map[string]any{"b": 2, "a": "x", "mirror": map[string]any{"token": "****"}})
	assert.Equal(t, "a = x\nb = 2\nmirror.token = ****\n", buf.String())
}

// =============================================================================
// JSONFormatter Tests
// =============================================================================

func TestJSONFormatterPrintWeek(t *testing.T) {
	var buf bytes.Buffer
	j := NewJSONFormatter(&Formatter{Writer: &buf})
	require.NoError(t, j.PrintWeek(sampleWeek()))

	var resp WeekResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	require.Len(t, resp.Days, 6)
	assert.Equal(t, 3, resp.Count)
	assert.Equal(t, 1, resp.Unscheduled)
	assert.Equal(t, "terça", resp.Days[1].Day)
	assert.NotNil(t, resp.Days[1].Entries)
	assert.Equal(t, "08:00", resp.Days[0].Entries[0].TimeSort)
	assert.Equal(t, "08h00", resp.Days[0].Entries[0].Time)
	assert.Contains(t, buf.String(), `"entries": []`)
}

func TestJSONFormatterPrintEntry(t *testing.T) {
	var buf bytes.Buffer
	j := NewJSONFormatter(&Formatter{Writer: &buf})
	e := model.Entry{ID: 3, Day: model.Friday, Time: model.Clock{Hour: 7, Minute: 5}, Client: "Ana", Professional: "F", DurationMinutes: 45}
	require.NoError(t, j.PrintEntry("booked", e))

	var resp EntryResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "booked", resp.Status)
	assert.Equal(t, "07h05", resp.Entry.Time)
	assert.Equal(t, "sexta", resp.Entry.Day)
}

func TestJSONFormatterAssessments(t *testing.T) {
	var buf bytes.Buffer
	j := NewJSONFormatter(&Formatter{Writer: &buf})
	require.NoError(t, j.PrintAssessments([]model.Assessment{{ID: 1, Name: "Ana", RawDate: "2024-01-10"}}))

	var resp AssessmentsResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, 1, resp.Total)
	assert.Equal(t, "2024-01-10", resp.Assessments[0].Date)
	assert.Contains(t, buf.String(), `"photos": []`)
}

func TestJSONFormatterPrintError(t *testing.T) {
	var buf bytes.Buffer
	j := NewJSONFormatter(&Formatter{Writer: &buf})
	require.NoError(t, j.PrintError("error", "invalid time", "time: 'abc'", "Use 8h00"))

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "Use 8h00", resp.Suggestion)
}
