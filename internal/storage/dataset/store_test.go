package dataset

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecords() []Record {
	return []Record{
		{EnrollmentID: "001", GivenName: "Ana", PaternalName: "López", MaternalName: "Pérez", Program: "Law", Subject: "Civil", Grade: NewScore(8), Term: "1", Teacher: "Juan Díaz"},
		{EnrollmentID: "001", GivenName: "Ana", PaternalName: "López", MaternalName: "Pérez", Program: "Law", Subject: "Penal", Grade: Score{}, Term: "1", Teacher: "Juan Díaz"},
		{EnrollmentID: "002", GivenName: "Luis", PaternalName: "Mora", MaternalName: "Vega", Program: "CS", Subject: "Math", Grade: NewScore(6), Term: "2", Teacher: "Juan Díaz"},
		{EnrollmentID: "003", GivenName: "Eva", PaternalName: "Ruiz", MaternalName: "Gil", Program: "CS", Subject: "Art", Grade: Score{}, Term: "2", Teacher: "Rosa Paz"},
	}
}

func TestStore_StudentMean(t *testing.T) {
	s := New(testRecords())

	assert.Equal(t, NewScore(8), s.StudentMean("001"), "missing grades are excluded")
	assert.Equal(t, NewScore(6), s.StudentMean("002"))
	assert.False(t, s.StudentMean("003").Valid, "no valid grades means no data")
	assert.False(t, s.StudentMean("404").Valid)
}

func TestStore_ByEnrollment(t *testing.T) {
	s := New(testRecords())

	assert.Len(t, s.ByEnrollment("001"), 2)
	assert.Empty(t, s.ByEnrollment("1"), "ids are compared as strings")
}

func TestStore_TeacherStats(t *testing.T) {
	s := New(testRecords())

	st, ok := s.TeacherStats("Juan Díaz")
	require.True(t, ok)
	assert.Equal(t, []string{"Civil", "Penal", "Math"}, st.Subjects)
	assert.Equal(t, NewScore(7), st.Mean)
	assert.Equal(t, []string{"Law", "CS"}, st.Programs)
	assert.Equal(t, []string{"1", "2"}, st.Terms)
	assert.Equal(t, 2, st.StudentCount)

	rosa, ok := s.TeacherStats("Rosa Paz")
	require.True(t, ok)
	assert.Equal(t, "N/A", rosa.Mean.Format(2))

	assert.Equal(t, []string{"Juan Díaz", "Rosa Paz"}, s.Teachers())
}

func TestStore_Summary(t *testing.T) {
	sum := New(testRecords()).Summary()

	assert.Equal(t, 4, sum.Rows)
	assert.Equal(t, 2, sum.Programs)
	assert.Equal(t, 4, sum.Subjects)
	assert.Equal(t, 2, sum.Teachers)
	assert.Equal(t, 3, sum.Students)
	assert.Equal(t, NewScore(6), sum.MinGrade)
	assert.Equal(t, NewScore(8), sum.MaxGrade)
	assert.Equal(t, NewScore(7), sum.MeanGrade)
	assert.Contains(t, sum.String(), "Dataset with 4 rows")
	assert.Contains(t, sum.String(), "Avg 7.0")
}

func TestStore_Empty(t *testing.T) {
	s := Empty()
	assert.True(t, s.IsEmpty())
	assert.Empty(t, s.Teachers())
	assert.Equal(t, "N/A", s.Summary().MeanGrade.Format(1))
	assert.Empty(t, s.Sample(5, rand.New(rand.NewPCG(1, 2))))
}

func TestStore_Sample(t *testing.T) {
	s := New(testRecords())
	rnd := rand.New(rand.NewPCG(1, 2))

	assert.Len(t, s.Sample(2, rnd), 2)
	assert.Len(t, s.Sample(10, rnd), 4)
}

func TestStore_NormalizedColumns(t *testing.T) {
	s := New(testRecords())
	r := s.Records()[0]

	assert.Equal(t, "lopez", r.NormPaternal())
	assert.Equal(t, "juan diaz", r.NormTeacher())
	assert.Equal(t, "Ana López Pérez", r.FullName())
}

func TestScore(t *testing.T) {
	assert.Equal(t, "9.00", NewScore(9).Format(2))
	assert.Equal(t, "8.5", NewScore(8.5).String())
	assert.Equal(t, "N/A", Score{}.Format(2))
	assert.False(t, ParseScore("NaN").Valid)
	assert.False(t, ParseScore(" ").Valid)
	assert.Equal(t, NewScore(7.25), ParseScore(" 7.25 "))
}
