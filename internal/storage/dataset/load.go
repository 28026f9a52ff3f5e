package dataset

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/sandevgo/gradebot/pkg/log"
	"github.com/sandevgo/gradebot/pkg/textnorm"
	"golang.org/x/text/encoding/charmap"
)

type column int

const (
	colEnrollment column = iota
	colGiven
	colPaternal
	colMaternal
	colProgram
	colSubject
	colGrade
	colTerm
	colTeacher
	colGender
	numColumns
)

var columnNames = [numColumns]string{
	"enrollment id", "given name", "paternal name", "maternal name",
	"program", "subject", "grade", "term", "teacher", "gender",
}

// headerAliases maps a folded header (normalized, no spaces or underscores)
// to its column.
var headerAliases = map[string]column{
	"matricula":       colEnrollment,
	"enrollmentid":    colEnrollment,
	"enrollment":      colEnrollment,
	"nombre":          colGiven,
	"nombres":         colGiven,
	"givenname":       colGiven,
	"paterno":         colPaternal,
	"apellidopaterno": colPaternal,
	"paternalname":    colPaternal,
	"materno":         colMaternal,
	"apellidomaterno": colMaternal,
	"maternalname":    colMaternal,
	"carrera":         colProgram,
	"program":         colProgram,
	"materia":         colSubject,
	"subject":         colSubject,
	"calificacion":    colGrade,
	"grade":           colGrade,
	"cuatrimestre":    colTerm,
	"term":            colTerm,
	"profesor":        colTeacher,
	"docente":         colTeacher,
	"teacher":         colTeacher,
	"genero":          colGender,
	"gender":          colGender,
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

type LoadOptions struct {
	Delimiter rune
}

// Load reads the dataset file at path.
func Load(ctx context.Context, path string, opts LoadOptions) (*Store, error) {
	if path == "" {
		return nil, errors.New("dataset path is not configured")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}

	records, err := Parse(bytes.NewReader(data), opts)
	if err != nil {
		return nil, fmt.Errorf("parse dataset %s: %w", path, err)
	}

	log.FromCtx(ctx).Info().
		Str("path", path).
		Int("rows", len(records)).
		Msg("dataset loaded")

	return New(records), nil
}

// LoadOrEmpty never fails: problems are logged and an empty store is
// returned so the bot can still start and report the dataset as unavailable.
func LoadOrEmpty(ctx context.Context, path string, opts LoadOptions) *Store {
	s, err := Load(ctx, path, opts)
	if err != nil {
		log.FromCtx(ctx).Error().Err(err).Str("path", path).Msg("failed to load dataset")
		return Empty()
	}
	return s
}

// Parse decodes a character-separated table. Input that is not valid UTF-8 is
// decoded as Windows-1252, a superset of ISO-8859-1.
func Parse(r io.Reader, opts LoadOptions) ([]Record, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	raw = bytes.TrimPrefix(raw, utf8BOM)
	if !utf8.Valid(raw) {
		raw, err = charmap.Windows1252.NewDecoder().Bytes(raw)
		if err != nil {
			return nil, fmt.Errorf("decode legacy encoding: %w", err)
		}
	}

	cr := csv.NewReader(bytes.NewReader(raw))
	if opts.Delimiter != 0 {
		cr.Comma = opts.Delimiter
	}
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty file")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	index, err := mapHeader(header)
	if err != nil {
		return nil, err
	}

	var records []Record
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}

		field := func(c column) string {
			i := index[c]
			if i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		records = append(records, Record{
			EnrollmentID: field(colEnrollment),
			GivenName:    field(colGiven),
			PaternalName: field(colPaternal),
			MaternalName: field(colMaternal),
			Program:      field(colProgram),
			Subject:      field(colSubject),
			Grade:        ParseScore(field(colGrade)),
			Term:         field(colTerm),
			Teacher:      field(colTeacher),
			Gender:       field(colGender),
		})
	}

	return records, nil
}

func mapHeader(header []string) ([numColumns]int, error) {
	var index [numColumns]int
	for i := range index {
		index[i] = -1
	}

	for i, h := range header {
		key := strings.NewReplacer(" ", "", "_", "").Replace(textnorm.Normalize(h))
		if c, ok := headerAliases[key]; ok && index[c] == -1 {
			index[c] = i
		}
	}

	var missing []string
	for c, i := range index {
		if i == -1 {
			missing = append(missing, columnNames[c])
		}
	}
	if len(missing) > 0 {
		return index, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}
	return index, nil
}
