package memory

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/sandevgo/gradebot/internal/core"
	"github.com/sandevgo/gradebot/pkg/log"
)

// DefaultHistoryLimit is the number of turns kept per user.
const DefaultHistoryLimit = 10

const keywordsField = "keywords"

// fileLayout is the on-disk shape of the memory file.
type fileLayout struct {
	Conversations map[string][]core.Turn                `json:"conversations"`
	Knowledge     map[string]map[string]map[string]any `json:"knowledge"`
}

// Store is the file-backed conversational memory. Every mutation rewrites
// the whole file; writes are serialized by mu.
type Store struct {
	path  string
	limit int
	now   func() time.Time

	mu            sync.Mutex
	conversations map[string][]core.Turn
	knowledge     map[string]map[string]core.KnowledgeEntry
}

var _ core.Memory = (*Store)(nil)

// Option tunes a Store.
type Option func(*Store)

func WithHistoryLimit(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.limit = n
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// Open loads the memory file at path. A missing or unreadable file yields an
// empty store; it is never an error.
func Open(ctx context.Context, path string, opts ...Option) *Store {
	s := &Store{
		path:  path,
		limit: DefaultHistoryLimit,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.reset()

	logger := log.FromCtx(ctx)

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.Warn().Err(err).Str("path", path).Msg("failed to read memory file, starting empty")
		}
		return s
	}

	var layout fileLayout
	if err := json.Unmarshal(data, &layout); err != nil {
		logger.Warn().Err(err).Str("path", path).Msg("memory file is corrupt, starting empty")
		return s
	}

	for uid, turns := range layout.Conversations {
		if len(turns) > s.limit {
			turns = turns[len(turns)-s.limit:]
		}
		s.conversations[uid] = turns
	}
	for cat, entries := range layout.Knowledge {
		if _, ok := s.knowledge[cat]; !ok {
			logger.Debug().Str("category", cat).Msg("skipping unknown knowledge category")
			continue
		}
		for key, raw := range entries {
			s.knowledge[cat][key] = decodeEntry(raw)
		}
	}

	logger.Info().
		Int("users", len(s.conversations)).
		Str("path", path).
		Msg("memory loaded")
	return s
}

func (s *Store) reset() {
	s.conversations = make(map[string][]core.Turn)
	s.knowledge = make(map[string]map[string]core.KnowledgeEntry, len(core.Categories))
	for _, cat := range core.Categories {
		s.knowledge[cat] = make(map[string]core.KnowledgeEntry)
	}
}

// AppendTurn records one turn and keeps only the newest limit turns.
func (s *Store) AppendTurn(ctx context.Context, userID, role, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	turns := append(s.conversations[userID], core.Turn{
		Role:      role,
		Content:   content,
		Timestamp: s.now().UTC(),
	})
	if len(turns) > s.limit {
		turns = slices.Clone(turns[len(turns)-s.limit:])
	}
	s.conversations[userID] = turns

	s.persistLocked(ctx)
}

// History returns a copy of the user's turns, oldest first.
func (s *Store) History(userID string) []core.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.conversations[userID])
}

func (s *Store) ClearHistory(ctx context.Context, userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.conversations[userID]; !ok {
		return
	}
	delete(s.conversations, userID)
	s.persistLocked(ctx)
}

// UpsertKnowledge merges entry into the stored one: attributes are
// overwritten key by key and keywords are unioned.
func (s *Store) UpsertKnowledge(ctx context.Context, category, key string, entry core.KnowledgeEntry) {
	key = strings.TrimSpace(key)
	if key == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	bucket, ok := s.knowledge[category]
	if !ok {
		log.FromCtx(ctx).Warn().Str("category", category).Msg("ignoring knowledge for unknown category")
		return
	}

	current := bucket[key]
	merged := core.KnowledgeEntry{
		Attributes: make(core.Attributes, len(current.Attributes)+len(entry.Attributes)),
		Keywords:   mergeKeywords(current.Keywords, entry.Keywords),
	}
	for k, v := range current.Attributes {
		merged.Attributes[k] = v
	}
	for k, v := range entry.Attributes {
		if k == keywordsField {
			continue
		}
		merged.Attributes[k] = v
	}
	bucket[key] = merged

	s.persistLocked(ctx)
}

func (s *Store) Knowledge(category, key string) core.KnowledgeEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneEntry(s.knowledge[category][key])
}

// Recall returns every entry with a keyword that occurs in the lowercased
// query, ordered by category then key.
func (s *Store) Recall(query string) []core.Recalled {
	q := strings.ToLower(query)
	if strings.TrimSpace(q) == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var out []core.Recalled
	for _, cat := range core.Categories {
		bucket := s.knowledge[cat]
		keys := make([]string, 0, len(bucket))
		for k := range bucket {
			keys = append(keys, k)
		}
		slices.Sort(keys)

		for _, k := range keys {
			entry := bucket[k]
			if !matchesAny(q, entry.Keywords) {
				continue
			}
			out = append(out, core.Recalled{Category: cat, Key: k, Entry: cloneEntry(entry)})
		}
	}
	return out
}

// Users returns the ids with a non-empty history.
func (s *Store) Users() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, 0, len(s.conversations))
	for uid, turns := range s.conversations {
		if len(turns) > 0 {
			out = append(out, uid)
		}
	}
	slices.Sort(out)
	return out
}

// Flush writes the current state to disk.
func (s *Store) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeLocked()
}

func (s *Store) Start(ctx context.Context) error {
	return nil
}

func (s *Store) Shutdown(ctx context.Context) error {
	return s.Flush(ctx)
}

// persistLocked saves and logs failures. The in-memory state stays
// authoritative for the rest of the process.
func (s *Store) persistLocked(ctx context.Context) {
	if err := s.writeLocked(); err != nil {
		log.FromCtx(ctx).Error().Err(err).Str("path", s.path).Msg("failed to save memory")
	}
}

func (s *Store) writeLocked() error {
	layout := fileLayout{
		Conversations: s.conversations,
		Knowledge:     make(map[string]map[string]map[string]any, len(s.knowledge)),
	}
	for cat, bucket := range s.knowledge {
		out := make(map[string]map[string]any, len(bucket))
		for key, entry := range bucket {
			out[key] = encodeEntry(entry)
		}
		layout.Knowledge[cat] = out
	}

	data, err := json.MarshalIndent(layout, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: marshal memory: %v", core.ErrPersistence, err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: create temp file: %v", core.ErrPersistence, err)
	}
	tmpName := tmp.Name()

	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: chmod memory: %v", core.ErrPersistence, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: write memory: %v", core.ErrPersistence, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: close memory: %v", core.ErrPersistence, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: replace memory file: %v", core.ErrPersistence, err)
	}
	return nil
}

func encodeEntry(e core.KnowledgeEntry) map[string]any {
	out := make(map[string]any, len(e.Attributes)+1)
	for k, v := range e.Attributes {
		out[k] = v
	}
	kw := e.Keywords
	if kw == nil {
		kw = []string{}
	}
	out[keywordsField] = kw
	return out
}

func decodeEntry(raw map[string]any) core.KnowledgeEntry {
	e := core.KnowledgeEntry{Attributes: make(core.Attributes, len(raw))}
	for k, v := range raw {
		if k != keywordsField {
			e.Attributes[k] = v
			continue
		}
		list, _ := v.([]any)
		var kws []string
		for _, item := range list {
			if s, ok := item.(string); ok {
				kws = append(kws, s)
			}
		}
		e.Keywords = mergeKeywords(nil, kws)
	}
	return e
}

// mergeKeywords unions b into a, lowercasing and dropping blanks and
// duplicates while keeping first-seen order.
func mergeKeywords(a, b []string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, list := range [][]string{a, b} {
		for _, kw := range list {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw == "" {
				continue
			}
			if _, ok := seen[kw]; ok {
				continue
			}
			seen[kw] = struct{}{}
			out = append(out, kw)
		}
	}
	return out
}

func matchesAny(query string, keywords []string) bool {
	for _, kw := range keywords {
		if kw != "" && strings.Contains(query, kw) {
			return true
		}
	}
	return false
}

func cloneEntry(e core.KnowledgeEntry) core.KnowledgeEntry {
	out := core.KnowledgeEntry{Keywords: slices.Clone(e.Keywords)}
	if e.Attributes != nil {
		out.Attributes = make(core.Attributes, len(e.Attributes))
		for k, v := range e.Attributes {
			out.Attributes[k] = v
		}
	}
	return out
}
