package dataset

import (
	"fmt"
	"math/rand/v2"
)

// TeacherStats aggregates every graded row taught by one teacher.
type TeacherStats struct {
	Name         string
	Subjects     []string
	Mean         Score
	Programs     []string
	Terms        []string
	StudentCount int
}

// Summary is the statistical overview handed to the LLM.
type Summary struct {
	Rows      int
	Programs  int
	Subjects  int
	Teachers  int
	Students  int
	MinGrade  Score
	MaxGrade  Score
	MeanGrade Score
}

func (s Summary) String() string {
	return fmt.Sprintf(
		"Dataset with %d rows. Programs: %d, Subjects: %d, Teachers: %d, Students: %d. Grades: Min %s, Max %s, Avg %s.",
		s.Rows, s.Programs, s.Subjects, s.Teachers, s.Students,
		s.MinGrade.Format(1), s.MaxGrade.Format(1), s.MeanGrade.Format(1),
	)
}

// Store is immutable after New returns and safe for concurrent readers.
type Store struct {
	records      []Record
	byID         map[string][]int
	studentMeans map[string]Score
	teachers     map[string]*TeacherStats
	teacherOrder []string
	summary      Summary
}

// New derives normalized columns and all aggregates from records.
func New(records []Record) *Store {
	s := &Store{
		records:      make([]Record, len(records)),
		byID:         make(map[string][]int),
		studentMeans: make(map[string]Score),
		teachers:     make(map[string]*TeacherStats),
	}
	copy(s.records, records)

	for i := range s.records {
		s.records[i].normalize()
		id := s.records[i].EnrollmentID
		s.byID[id] = append(s.byID[id], i)
	}

	s.buildStudentMeans()
	s.buildTeacherStats()
	s.buildSummary()
	return s
}

// Empty returns an empty store.
func Empty() *Store {
	return New(nil)
}

func (s *Store) Len() int {
	return len(s.records)
}

func (s *Store) IsEmpty() bool {
	return len(s.records) == 0
}

// Records returns the rows in file order. Callers must not modify them.
func (s *Store) Records() []Record {
	return s.records
}

// ByEnrollment returns every row of a student, matching the id as an exact
// string.
func (s *Store) ByEnrollment(id string) []Record {
	idx := s.byID[id]
	if len(idx) == 0 {
		return nil
	}
	out := make([]Record, 0, len(idx))
	for _, i := range idx {
		out = append(out, s.records[i])
	}
	return out
}

func (s *Store) StudentMean(id string) Score {
	return s.studentMeans[id]
}

// Teachers returns distinct non-empty teacher names in order of first
// appearance.
func (s *Store) Teachers() []string {
	out := make([]string, len(s.teacherOrder))
	copy(out, s.teacherOrder)
	return out
}

func (s *Store) TeacherStats(name string) (TeacherStats, bool) {
	st, ok := s.teachers[name]
	if !ok {
		return TeacherStats{}, false
	}
	return *st, true
}

func (s *Store) Summary() Summary {
	return s.summary
}

// Sample picks up to n distinct rows at random.
func (s *Store) Sample(n int, rnd *rand.Rand) []Record {
	if n > len(s.records) {
		n = len(s.records)
	}
	if n <= 0 {
		return nil
	}
	perm := rnd.Perm(len(s.records))[:n]
	out := make([]Record, 0, n)
	for _, i := range perm {
		out = append(out, s.records[i])
	}
	return out
}

func (s *Store) buildStudentMeans() {
	for id, idx := range s.byID {
		var m meanAcc
		for _, i := range idx {
			m.add(s.records[i].Grade)
		}
		s.studentMeans[id] = m.score()
	}
}

func (s *Store) buildTeacherStats() {
	type acc struct {
		stats    *TeacherStats
		mean     meanAcc
		subjects distinct
		programs distinct
		terms    distinct
		students distinct
	}
	accs := make(map[string]*acc)

	for _, r := range s.records {
		if r.Teacher == "" {
			continue
		}
		a, ok := accs[r.Teacher]
		if !ok {
			a = &acc{stats: &TeacherStats{Name: r.Teacher}}
			accs[r.Teacher] = a
			s.teacherOrder = append(s.teacherOrder, r.Teacher)
		}
		a.mean.add(r.Grade)
		a.subjects.add(r.Subject)
		a.programs.add(r.Program)
		a.terms.add(r.Term)
		a.students.add(r.EnrollmentID)
	}

	for name, a := range accs {
		a.stats.Subjects = a.subjects.items
		a.stats.Mean = a.mean.score()
		a.stats.Programs = a.programs.items
		a.stats.Terms = a.terms.items
		a.stats.StudentCount = len(a.students.items)
		s.teachers[name] = a.stats
	}
}

func (s *Store) buildSummary() {
	var programs, subjects, students distinct
	var mean meanAcc
	var lo, hi Score

	for _, r := range s.records {
		programs.add(r.Program)
		subjects.add(r.Subject)
		students.add(r.EnrollmentID)
		if !r.Grade.Valid {
			continue
		}
		mean.add(r.Grade)
		if !lo.Valid || r.Grade.Value < lo.Value {
			lo = r.Grade
		}
		if !hi.Valid || r.Grade.Value > hi.Value {
			hi = r.Grade
		}
	}

	s.summary = Summary{
		Rows:      len(s.records),
		Programs:  len(programs.items),
		Subjects:  len(subjects.items),
		Teachers:  len(s.teacherOrder),
		Students:  len(students.items),
		MinGrade:  lo,
		MaxGrade:  hi,
		MeanGrade: mean.score(),
	}
}

type meanAcc struct {
	sum   float64
	count int
}

func (m *meanAcc) add(s Score) {
	if !s.Valid {
		return
	}
	m.sum += s.Value
	m.count++
}

func (m meanAcc) score() Score {
	if m.count == 0 {
		return Score{}
	}
	return NewScore(m.sum / float64(m.count))
}

// distinct keeps non-empty values in first-seen order.
type distinct struct {
	seen  map[string]struct{}
	items []string
}

func (d *distinct) add(v string) {
	if v == "" {
		return
	}
	if d.seen == nil {
		d.seen = make(map[string]struct{})
	}
	if _, ok := d.seen[v]; ok {
		return
	}
	d.seen[v] = struct{}{}
	d.items = append(d.items, v)
}
