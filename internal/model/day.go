package model

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Day is one of the six studio weekdays. Values are the Portuguese names
// stored in agenda.csv.
type Day string

const (
	Monday    Day = "segunda"
	Tuesday   Day = "terça"
	Wednesday Day = "quarta"
	Thursday  Day = "quinta"
	Friday    Day = "sexta"
	Saturday  Day = "sábado"
)

// Week lists the studio days in display order. There is no Sunday.
var Week = [6]Day{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

var dayAliases = map[string]Day{
	"segunda":       Monday,
	"segunda-feira": Monday,
	"seg":           Monday,
	"monday":        Monday,
	"mon":           Monday,
	"terça":         Tuesday,
	"terca":         Tuesday,
	"terça-feira":   Tuesday,
	"terca-feira":   Tuesday,
	"ter":           Tuesday,
	"tuesday":       Tuesday,
	"tue":           Tuesday,
	"quarta":        Wednesday,
	"quarta-feira":  Wednesday,
	"qua":           Wednesday,
	"wednesday":     Wednesday,
	"wed":           Wednesday,
	"quinta":        Thursday,
	"quinta-feira":  Thursday,
	"qui":           Thursday,
	"thursday":      Thursday,
	"thu":           Thursday,
	"sexta":         Friday,
	"sexta-feira":   Friday,
	"sex":           Friday,
	"friday":        Friday,
	"fri":           Friday,
	"sábado":        Saturday,
	"sabado":        Saturday,
	"sáb":           Saturday,
	"sab":           Saturday,
	"saturday":      Saturday,
	"sat":           Saturday,
}

// ParseDay resolves a weekday name in Portuguese (with or without accents)
// or English. Sunday and unknown names report false.
func ParseDay(s string) (Day, bool) {
	d, ok := dayAliases[strings.ToLower(strings.TrimSpace(s))]
	return d, ok
}

// Index returns the position of d in Week, or -1.
func (d Day) Index() int {
	for i, w := range Week {
		if w == d {
			return i
		}
	}
	return -1
}

// Valid reports whether d is one of the six studio days.
func (d Day) Valid() bool {
	return d.Index() >= 0
}

// Label returns the capitalised name used in headers ("Segunda", "Sábado").
func (d Day) Label() string {
	s := string(d)
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func (d Day) String() string {
	return string(d)
}
