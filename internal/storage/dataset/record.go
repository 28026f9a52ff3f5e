// Package dataset holds the read-only student/grade table and the aggregates
// derived from it once at load time.
package dataset

import (
	"math"
	"strconv"
	"strings"

	"github.com/sandevgo/gradebot/pkg/textnorm"
)

// Score is a grade or a mean of grades. Valid is false for missing or
// unparseable values and for means over zero valid grades.
type Score struct {
	Value float64
	Valid bool
}

func NewScore(v float64) Score {
	return Score{Value: v, Valid: true}
}

// ParseScore reads a grade cell. Empty, non-numeric and non-finite cells are
// missing.
func ParseScore(s string) Score {
	s = strings.TrimSpace(s)
	if s == "" {
		return Score{}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return Score{}
	}
	return NewScore(v)
}

// Format renders the score with prec decimals, or "N/A" when missing.
func (s Score) Format(prec int) string {
	if !s.Valid {
		return "N/A"
	}
	return strconv.FormatFloat(s.Value, 'f', prec, 64)
}

func (s Score) String() string {
	return s.Format(-1)
}

// Record is one subject row of one student.
type Record struct {
	EnrollmentID string
	GivenName    string
	PaternalName string
	MaternalName string
	Program      string
	Subject      string
	Grade        Score
	Term         string
	Teacher      string
	Gender       string

	normGiven    string
	normPaternal string
	normMaternal string
	normTeacher  string
}

func (r Record) FullName() string {
	return strings.Join(strings.Fields(strings.Join([]string{r.GivenName, r.PaternalName, r.MaternalName}, " ")), " ")
}

func (r Record) NormGiven() string    { return r.normGiven }
func (r Record) NormPaternal() string { return r.normPaternal }
func (r Record) NormMaternal() string { return r.normMaternal }
func (r Record) NormTeacher() string  { return r.normTeacher }

func (r *Record) normalize() {
	r.EnrollmentID = strings.TrimSpace(r.EnrollmentID)
	r.normGiven = textnorm.Canonical(r.GivenName)
	r.normPaternal = textnorm.Canonical(r.PaternalName)
	r.normMaternal = textnorm.Canonical(r.MaternalName)
	r.normTeacher = textnorm.Canonical(r.Teacher)
}
