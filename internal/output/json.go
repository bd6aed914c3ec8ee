package output

import (
	"github.com/manav03panchal/studiodesk/internal/assessment"
	"github.com/manav03panchal/studiodesk/internal/model"
	"github.com/manav03panchal/studiodesk/internal/schedule"
)

// JSONFormatter provides JSON-specific formatting.
type JSONFormatter struct {
	*Formatter
}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter(f *Formatter) *JSONFormatter {
	return &JSONFormatter{Formatter: f}
}

// EntryOutput represents a schedule entry in JSON output.
type EntryOutput struct {
	ID              int    `json:"id"`
	Day             string `json:"day"`
	Time            string `json:"time"`
	TimeSort        string `json:"time_sort"`
	Client          string `json:"client"`
	Professional    string `json:"professional"`
	DurationMinutes int    `json:"duration_minutes"`
}

// NewEntryOutput creates an EntryOutput from an Entry.
func NewEntryOutput(e model.Entry) EntryOutput {
	return EntryOutput{
		ID:              e.ID,
		Day:             string(e.Day),
		Time:            e.Time.DisplayKey(),
		TimeSort:        e.Time.SortKey(),
		Client:          e.Client,
		Professional:    e.Professional,
		DurationMinutes: e.DurationMinutes,
	}
}

// DayOutput is one day of the week view.
type DayOutput struct {
	Day     string        `json:"day"`
	Label   string        `json:"label"`
	Entries []EntryOutput `json:"entries"`
}

// WeekResponse represents the week view in JSON.
type WeekResponse struct {
	Days        []DayOutput `json:"days"`
	Count       int         `json:"count"`
	Unscheduled int         `json:"unscheduled,omitempty"`
}

// NewWeekResponse creates a WeekResponse from a Week.
func NewWeekResponse(w *schedule.Week) *WeekResponse {
	resp := &WeekResponse{
		Days:        make([]DayOutput, len(w.Days)),
		Count:       w.Count(),
		Unscheduled: len(w.Unscheduled),
	}
	for i, b := range w.Days {
		entries := make([]EntryOutput, len(b.Entries))
		for j, e := range b.Entries {
			entries[j] = NewEntryOutput(e)
		}
		resp.Days[i] = DayOutput{Day: string(b.Day), Label: b.Day.Label(), Entries: entries}
	}
	return resp
}

// EntryResponse reports a change to one entry.
type EntryResponse struct {
	Status string      `json:"status"`
	Entry  EntryOutput `json:"entry"`
}

// DroppedOutput is a row removed while repairing the agenda.
type DroppedOutput struct {
	Reason string `json:"reason"`
	ID     string `json:"id"`
	Day    string `json:"day"`
	Time   string `json:"time"`
	Client string `json:"client"`
}

// RepairResponse reports what repairing the agenda changed.
type RepairResponse struct {
	Status    string          `json:"status"`
	Count     int             `json:"count"`
	Reindexed bool            `json:"reindexed"`
	Dropped   []DroppedOutput `json:"dropped"`
}

// AssessmentsResponse represents an assessment list in JSON.
type AssessmentsResponse struct {
	Assessments []AssessmentOutput `json:"assessments"`
	Total       int                `json:"total"`
}

// AssessmentOutput represents an assessment in JSON output.
type AssessmentOutput struct {
	ID     int           `json:"id"`
	Name   string        `json:"name"`
	Date   string        `json:"date"`
	Photos []model.Photo `json:"photos"`
}

// NewAssessmentOutput creates an AssessmentOutput from an Assessment.
func NewAssessmentOutput(a model.Assessment) AssessmentOutput {
	photos := a.Photos
	if photos == nil {
		photos = []model.Photo{}
	}
	return AssessmentOutput{ID: a.ID, Name: a.Name, Date: a.DateString(), Photos: photos}
}

// AssessmentResponse reports one assessment.
type AssessmentResponse struct {
	Status     string           `json:"status"`
	Assessment AssessmentOutput `json:"assessment"`
}

// ComparisonResponse represents a side-by-side comparison in JSON.
type ComparisonResponse struct {
	Left  AssessmentOutput `json:"left"`
	Right AssessmentOutput `json:"right"`
}

// ErrorResponse represents an error in JSON.
type ErrorResponse struct {
	Status     string `json:"status"`
	Error      string `json:"error"`
	Message    string `json:"message,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

// PrintWeek outputs the week view in JSON format.
func (j *JSONFormatter) PrintWeek(w *schedule.Week) error {
	return j.JSON(NewWeekResponse(w))
}

// PrintEntry outputs a changed entry in JSON format.
func (j *JSONFormatter) PrintEntry(status string, e model.Entry) error {
	return j.JSON(EntryResponse{Status: status, Entry: NewEntryOutput(e)})
}

// PrintRepair outputs a repair report in JSON format.
func (j *JSONFormatter) PrintRepair(w *schedule.Week) error {
	resp := RepairResponse{
		Status:    "clean",
		Count:     w.Count(),
		Reindexed: w.Reindexed,
		Dropped:   make([]DroppedOutput, len(w.Dropped)),
	}
	if len(w.Dropped) > 0 || w.Reindexed {
		resp.Status = "repaired"
	}
	for i, d := range w.Dropped {
		resp.Dropped[i] = DroppedOutput{
			Reason: string(d.Reason),
			ID:     d.Row.ID,
			Day:    d.Row.Day,
			Time:   d.Row.Time,
			Client: d.Row.Client,
		}
	}
	return j.JSON(resp)
}

// PrintAssessments outputs an assessment list in JSON format.
func (j *JSONFormatter) PrintAssessments(list []model.Assessment) error {
	resp := AssessmentsResponse{Assessments: make([]AssessmentOutput, len(list)), Total: len(list)}
	for i, a := range list {
		resp.Assessments[i] = NewAssessmentOutput(a)
	}
	return j.JSON(resp)
}

// PrintAssessment outputs one assessment in JSON format.
func (j *JSONFormatter) PrintAssessment(status string, a model.Assessment) error {
	return j.JSON(AssessmentResponse{Status: status, Assessment: NewAssessmentOutput(a)})
}

// PrintComparison outputs a comparison in JSON format.
func (j *JSONFormatter) PrintComparison(c assessment.Comparison) error {
	return j.JSON(ComparisonResponse{Left: NewAssessmentOutput(c.Left), Right: NewAssessmentOutput(c.Right)})
}

// PrintError outputs an error in JSON format.
func (j *JSONFormatter) PrintError(status, errMsg, message, suggestion string) error {
	return j.JSON(ErrorResponse{
		Status:     status,
		Error:      errMsg,
		Message:    message,
		Suggestion: suggestion,
	})
}
