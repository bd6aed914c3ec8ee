package model

import "time"

// Assessment is a postural assessment record.
type Assessment struct {
	ID     int       `json:"id" yaml:"id"`
	Name   string    `json:"name" yaml:"name"`
	Date   time.Time `json:"date" yaml:"date"`
	Photos []Photo   `json:"photos" yaml:"photos"`

	// RawDate keeps the stored text when it is not a YYYY-MM-DD date.
	RawDate string `json:"raw_date,omitempty" yaml:"-"`
}

// DateString returns the stored date text.
func (a *Assessment) DateString() string {
	if a.Date.IsZero() {
		return a.RawDate
	}
	return a.Date.Format("2006-01-02")
}

// Photo is an image attached to an assessment.
type Photo struct {
	AssessmentID int    `json:"assessment_id" yaml:"assessment_id"`
	File         string `json:"file" yaml:"file"`
	UploadedAt   string `json:"uploaded_at" yaml:"uploaded_at"`
}

// PhotoTimestampLayout is the layout of Photo.UploadedAt.
const PhotoTimestampLayout = "2006-01-02 15:04:05"
