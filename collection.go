package questionbank

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Collection holds the full question list as last fetched from the server
// plus the ids selected for batch operations.
type Collection struct {
	mu        sync.RWMutex
	transport Transport
	questions []Question
	selected  map[int]bool
}

// NewCollection creates an empty collection backed by transport
func NewCollection(transport Transport) *Collection {
	return &Collection{
		transport: transport,
		selected:  make(map[int]bool),
	}
}

// Refresh replaces the whole collection with the server snapshot and clears
// the selection. On failure the previous snapshot is kept.
func (c *Collection) Refresh(ctx context.Context) error {
	env := c.transport.List(ctx)
	if !env.OK() {
		VerboseLog("Refresh failed: code %d, %s", env.Code, env.Msg)
		return fmt.Errorf("failed to load question bank: %w", env.Err())
	}

	questions := env.Data
	if questions == nil {
		questions = []Question{}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.questions = questions
	c.selected = make(map[int]bool)

	VerboseLog("Refreshed question bank: %d questions", len(questions))
	return nil
}

// All returns a copy of the whole collection in server order
func (c *Collection) All() []Question {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Question, len(c.questions))
	copy(out, c.questions)
	return out
}

// Len returns the number of questions held
func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.questions)
}

// Find returns the question with the given id
func (c *Collection) Find(id int) (Question, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, q := range c.questions {
		if q.ID == id && id != 0 {
			return q, true
		}
	}
	return Question{}, false
}

// FilteredView derives the visible rows from the collection. See Filter.
func (c *Collection) FilteredView(search string, typeFilter QuestionType) []Question {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Filter(c.questions, search, typeFilter)
}

// Filter keeps the questions whose type equals typeFilter (0 means any) and
// whose title or keyword contains search, ignoring case. The input is not
// modified.
func Filter(questions []Question, search string, typeFilter QuestionType) []Question {
	needle := strings.ToLower(search)

	out := make([]Question, 0, len(questions))
	for _, q := range questions {
		if typeFilter != 0 && q.Type != typeFilter {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(q.Title), needle) &&
			!strings.Contains(strings.ToLower(q.Keyword), needle) {
			continue
		}
		out = append(out, q)
	}
	return out
}

// Select adds ids to the selection. Ids not present in the collection are
// ignored, so unsaved records can never be selected.
func (c *Collection) Select(ids ...int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, id := range ids {
		if c.containsLocked(id) {
			c.selected[id] = true
		}
	}
}

// Deselect removes ids from the selection
func (c *Collection) Deselect(ids ...int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, id := range ids {
		delete(c.selected, id)
	}
}

// SetSelection replaces the selection with ids
func (c *Collection) SetSelection(ids []int) {
	c.mu.Lock()
	c.selected = make(map[int]bool, len(ids))
	c.mu.Unlock()

	c.Select(ids...)
}

// ClearSelection empties the selection
func (c *Collection) ClearSelection() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected = make(map[int]bool)
}

// IsSelected reports whether id is selected
func (c *Collection) IsSelected(id int) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.selected[id]
}

// SelectionCount returns the number of selected ids
func (c *Collection) SelectionCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.selected)
}

// Selected returns the selected questions in collection order
func (c *Collection) Selected() []Question {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Question, 0, len(c.selected))
	for _, q := range c.questions {
		if q.ID != 0 && c.selected[q.ID] {
			out = append(out, q)
		}
	}
	return out
}

func (c *Collection) containsLocked(id int) bool {
	if id == 0 {
		return false
	}
	for _, q := range c.questions {
		if q.ID == id {
			return true
		}
	}
	return false
}

// Page slices view into pages of pageSize and returns the requested 1-based
// page (clamped into range) along with the number of rows in view.
func Page(view []Question, page, pageSize int) ([]Question, int) {
	total := len(view)
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if page < 1 {
		page = 1
	}
	if last := PageCount(total, pageSize); page > last {
		page = last
	}

	start := (page - 1) * pageSize
	if start >= total {
		return []Question{}, total
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	return view[start:end], total
}

// PageCount returns how many pages of pageSize rows total rows need. An
// empty view still has one (empty) page.
func PageCount(total, pageSize int) int {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if total == 0 {
		return 1
	}
	return (total + pageSize - 1) / pageSize
}

// DefaultPageSize is the number of rows per page when none is configured
const DefaultPageSize = 10
