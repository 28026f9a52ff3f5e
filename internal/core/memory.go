package core

import "context"

const (
	CategoryStudent = "student"
	CategoryTeacher = "teacher"
	CategorySubject = "subject"
	CategoryProgram = "program"
)

// Categories lists the knowledge categories in display order.
var Categories = []string{CategoryStudent, CategoryTeacher, CategorySubject, CategoryProgram}

// Attributes is the free-form attribute map of a knowledge entry. The
// "keywords" attribute is kept separately on KnowledgeEntry.
type Attributes map[string]any

// KnowledgeEntry is a long-term fact about one entity.
type KnowledgeEntry struct {
	Attributes Attributes
	Keywords   []string
}

// Recalled is a knowledge entry returned by keyword recall.
type Recalled struct {
	Category string
	Key      string
	Entry    KnowledgeEntry
}

type Memory interface {
	AppendTurn(ctx context.Context, userID, role, content string)
	History(userID string) []Turn
	ClearHistory(ctx context.Context, userID string)
	UpsertKnowledge(ctx context.Context, category, key string, entry KnowledgeEntry)
	Knowledge(category, key string) KnowledgeEntry
	Recall(query string) []Recalled
}
