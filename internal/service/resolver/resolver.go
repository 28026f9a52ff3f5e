// Package resolver maps free-form user text to students and teachers in the
// dataset.
package resolver

import (
	"fmt"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/sandevgo/gradebot/internal/core"
	"github.com/sandevgo/gradebot/internal/storage/dataset"
	"github.com/sandevgo/gradebot/pkg/textnorm"
)

const (
	MinNameTokens     = 3
	MaxSuggestions    = 5
	suggestionPrefix  = 3
	teacherCacheTTL   = 10 * time.Minute
	teacherCacheSweep = 30 * time.Minute
)

// Name is a student's display name split the way the dataset stores it.
type Name struct {
	Given    string
	Paternal string
	Maternal string
}

func (n Name) String() string {
	return strings.Join(strings.Fields(n.Given+" "+n.Paternal+" "+n.Maternal), " ")
}

// Student is the profile view of one enrollment id plus its subject rows.
type Student struct {
	EnrollmentID string
	Name         Name
	Program      string
	Term         string
	Mean         dataset.Score
	Rows         []dataset.Record
}

// NoMatchError is returned by StudentByName when no row matches all three
// name parts. Suggestions may be empty.
type NoMatchError struct {
	Query       string
	Suggestions []Name
}

func (e *NoMatchError) Error() string {
	return fmt.Sprintf("no student matches %q (%d suggestions)", e.Query, len(e.Suggestions))
}

func (e *NoMatchError) Unwrap() error {
	return core.ErrNotFound
}

type teacherKey struct {
	name string
	norm string
}

type Resolver struct {
	data     *dataset.Store
	teachers []teacherKey
	cache    *cache.Cache
}

func New(data *dataset.Store) *Resolver {
	r := &Resolver{
		data:  data,
		cache: cache.New(teacherCacheTTL, teacherCacheSweep),
	}
	for _, name := range data.Teachers() {
		r.teachers = append(r.teachers, teacherKey{name: name, norm: textnorm.Canonical(name)})
	}
	return r
}

// Data exposes the underlying store for read-only use.
func (r *Resolver) Data() *dataset.Store {
	return r.data
}

func (r *Resolver) available() error {
	if r.data == nil || r.data.IsEmpty() {
		return core.ErrDataUnavailable
	}
	return nil
}

// StudentByID matches the trimmed id against enrollment ids as strings, so
// "007" and "7" are different students.
func (r *Resolver) StudentByID(id string) (Student, error) {
	if err := r.available(); err != nil {
		return Student{}, err
	}

	id = strings.TrimSpace(id)
	rows := r.data.ByEnrollment(id)
	if len(rows) == 0 {
		return Student{}, fmt.Errorf("enrollment id %s: %w", id, core.ErrNotFound)
	}
	return r.profile(id, rows), nil
}

// StudentByName resolves "given name(s) paternal maternal". The last token is
// the maternal family name, the one before it the paternal family name, and
// everything else the given name(s).
func (r *Resolver) StudentByName(text string) (Student, error) {
	tokens := textnorm.Fields(text)
	if len(tokens) < MinNameTokens {
		return Student{}, fmt.Errorf("%w: name search needs given name(s) plus paternal and maternal family names", core.ErrValidation)
	}
	if err := r.available(); err != nil {
		return Student{}, err
	}

	maternal := tokens[len(tokens)-1]
	paternal := tokens[len(tokens)-2]
	given := strings.Join(tokens[:len(tokens)-2], " ")

	var id string
	var rows []dataset.Record
	for _, rec := range r.data.Records() {
		if !strings.Contains(rec.NormGiven(), given) ||
			!strings.Contains(rec.NormPaternal(), paternal) ||
			!strings.Contains(rec.NormMaternal(), maternal) {
			continue
		}
		if id == "" {
			id = rec.EnrollmentID
		}
		if rec.EnrollmentID == id {
			rows = append(rows, rec)
		}
	}

	if len(rows) == 0 {
		return Student{}, &NoMatchError{
			Query:       text,
			Suggestions: r.suggest(given, paternal, maternal),
		}
	}
	return r.profile(id, rows), nil
}

// suggest ORs a three-rune prefix of each name part across the three name
// fields and returns up to MaxSuggestions distinct names in file order.
func (r *Resolver) suggest(given, paternal, maternal string) []Name {
	g := textnorm.Prefix(given, suggestionPrefix)
	p := textnorm.Prefix(paternal, suggestionPrefix)
	m := textnorm.Prefix(maternal, suggestionPrefix)

	seen := make(map[Name]struct{})
	var out []Name
	for _, rec := range r.data.Records() {
		if !strings.Contains(rec.NormGiven(), g) &&
			!strings.Contains(rec.NormPaternal(), p) &&
			!strings.Contains(rec.NormMaternal(), m) {
			continue
		}
		n := Name{Given: rec.GivenName, Paternal: rec.PaternalName, Maternal: rec.MaternalName}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
		if len(out) == MaxSuggestions {
			break
		}
	}
	return out
}

func (r *Resolver) profile(id string, rows []dataset.Record) Student {
	first := rows[0]
	return Student{
		EnrollmentID: id,
		Name: Name{
			Given:    first.GivenName,
			Paternal: first.PaternalName,
			Maternal: first.MaternalName,
		},
		Program: first.Program,
		Term:    first.Term,
		Mean:    r.data.StudentMean(id),
		Rows:    rows,
	}
}

// Teachers returns the aggregates of every teacher whose normalized name
// contains the normalized fragment, in dataset order.
func (r *Resolver) Teachers(fragment string) ([]dataset.TeacherStats, error) {
	if err := r.available(); err != nil {
		return nil, err
	}

	q := textnorm.Canonical(fragment)
	if q == "" {
		return nil, fmt.Errorf("empty teacher name: %w", core.ErrNotFound)
	}

	if cached, ok := r.cache.Get(q); ok {
		return append([]dataset.TeacherStats(nil), cached.([]dataset.TeacherStats)...), nil
	}

	var out []dataset.TeacherStats
	for _, t := range r.teachers {
		if !strings.Contains(t.norm, q) {
			continue
		}
		if st, ok := r.data.TeacherStats(t.name); ok {
			out = append(out, st)
		}
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("teacher %q: %w", fragment, core.ErrNotFound)
	}

	r.cache.Set(q, out, cache.DefaultExpiration)
	return out, nil
}

// Roster returns up to limit distinct teacher names and how many were left
// out.
func (r *Resolver) Roster(limit int) ([]string, int, error) {
	if err := r.available(); err != nil {
		return nil, 0, err
	}

	names := r.data.Teachers()
	if len(names) == 0 {
		return nil, 0, fmt.Errorf("no teachers: %w", core.ErrNotFound)
	}
	if limit <= 0 || len(names) <= limit {
		return names, 0, nil
	}
	return names[:limit], len(names) - limit, nil
}
