package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/goccy/go-json"
	"github.com/sandevgo/gradebot/internal/core"
	"github.com/sandevgo/gradebot/pkg/log"
)

const extractorSystemPrompt = "You are an information extractor for an academic records assistant. Output only a JSON object."

// categoryAliases maps the category names an LLM may produce onto the
// knowledge categories.
var categoryAliases = map[string]string{
	"student":    core.CategoryStudent,
	"students":   core.CategoryStudent,
	"alumno":     core.CategoryStudent,
	"alumnos":    core.CategoryStudent,
	"teacher":    core.CategoryTeacher,
	"teachers":   core.CategoryTeacher,
	"profesor":   core.CategoryTeacher,
	"profesores": core.CategoryTeacher,
	"docentes":   core.CategoryTeacher,
	"subject":    core.CategorySubject,
	"subjects":   core.CategorySubject,
	"materia":    core.CategorySubject,
	"materias":   core.CategorySubject,
	"program":    core.CategoryProgram,
	"programs":   core.CategoryProgram,
	"carrera":    core.CategoryProgram,
	"carreras":   core.CategoryProgram,
}

// Extracted is one knowledge entry proposed by the extraction call.
type Extracted struct {
	Category string
	Key      string
	Entry    core.KnowledgeEntry
}

// Extractor asks the LLM for entities mentioned in an exchange and feeds them
// into the Memory Store.
type Extractor struct {
	ai   core.AIProvider
	mem  core.Memory
	opts core.ChatOptions
}

func NewExtractor(ai core.AIProvider, mem core.Memory) *Extractor {
	return &Extractor{
		ai:  ai,
		mem: mem,
		opts: core.ChatOptions{
			Temperature: 0.1,
			MaxTokens:   500,
			JSON:        true,
		},
	}
}

// Extract runs the structured-extraction call for one query/answer pair and
// upserts every entity it returns. It reports how many entries were stored.
func (e *Extractor) Extract(ctx context.Context, query, answer string) (int, error) {
	resp, err := e.ai.Chat(ctx, []core.Message{
		{Role: core.RoleSystem, Content: extractorSystemPrompt},
		{Role: core.RoleUser, Content: buildExtractionPrompt(query, answer)},
	}, e.opts)
	if err != nil {
		return 0, fmt.Errorf("extraction chat: %w", err)
	}

	items, err := ParseExtraction(resp.Content)
	if err != nil {
		return 0, err
	}

	for _, it := range items {
		e.mem.UpsertKnowledge(ctx, it.Category, it.Key, it.Entry)
	}

	log.FromCtx(ctx).Debug().Int("count", len(items)).Msg("knowledge extracted")
	return len(items), nil
}

func buildExtractionPrompt(query, answer string) string {
	return fmt.Sprintf(
		`Analyze the exchange and extract the important entities: students (keyed by enrollment id), teachers (by name), subjects, programs. Return JSON shaped as {"students": {"<enrollment id>": {...}}, "teachers": {"<name>": {...}}, "subjects": {"<name>": {...}}, "programs": {"<name>": {...}}}. Omit empty categories.

Query: %s
Answer: %s`,
		query, answer,
	)
}

// ParseExtraction decodes a JSON object keyed by category then key. Unknown
// categories and non-object entries are skipped. Keywords are the existing
// "keywords" list plus the word tokens of the key and of a "name"/"nombre"
// attribute.
func ParseExtraction(content string) ([]Extracted, error) {
	raw := extractJSONObject(content)
	if raw == "" {
		return nil, fmt.Errorf("no JSON object found in extraction response")
	}

	var doc map[string]any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, fmt.Errorf("unmarshal extraction: %w", err)
	}

	var out []Extracted
	for rawCat, value := range doc {
		cat, ok := categoryAliases[strings.ToLower(strings.TrimSpace(rawCat))]
		if !ok {
			continue
		}
		items, ok := value.(map[string]any)
		if !ok {
			continue
		}
		for key, v := range items {
			attrs, ok := v.(map[string]any)
			if !ok || strings.TrimSpace(key) == "" {
				continue
			}
			entry := decodeEntry(attrs)
			kws := wordTokens(key)
			for _, field := range []string{"name", "nombre"} {
				if s, ok := attrs[field].(string); ok {
					kws = append(kws, wordTokens(s)...)
				}
			}
			entry.Keywords = mergeKeywords(entry.Keywords, kws)
			out = append(out, Extracted{Category: cat, Key: key, Entry: entry})
		}
	}
	return out, nil
}

// KeywordsFor builds the keyword set of an entity from free-form strings.
func KeywordsFor(values ...string) []string {
	var kws []string
	for _, v := range values {
		kws = append(kws, wordTokens(v)...)
	}
	return mergeKeywords(nil, kws)
}

// minKeywordRunes drops connectors such as "de" or "y" from generated
// keywords, since Recall matches them as substrings.
const minKeywordRunes = 3

func wordTokens(s string) []string {
	tokens := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return r != '_' && !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	return slices.DeleteFunc(tokens, func(t string) bool {
		return utf8.RuneCountInString(t) < minKeywordRunes
	})
}

func extractJSONObject(content string) string {
	start := strings.Index(content, "{")
	if start == -1 {
		return ""
	}
	end := strings.LastIndex(content, "}")
	if end < start {
		return ""
	}
	return content[start : end+1]
}
