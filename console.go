package questionbank

import (
	"context"
	"errors"
	"fmt"
	"log"
)

// Console drives the question bank page: it owns the collection, the view
// state and the AI workflow, and runs every mutation through the transport.
// A Console is used from one goroutine at a time.
type Console struct {
	transport  Transport
	collection *Collection
	state      *ViewState
	notifier   Notifier
	confirmer  Confirmer
	generator  *Generator
}

// NewConsole wires a console. A nil notifier logs notices; a nil confirmer
// declines every destructive action.
func NewConsole(transport Transport, notifier Notifier, confirmer Confirmer, pageSize int) *Console {
	if notifier == nil {
		notifier = LogNotifier{}
	}
	if confirmer == nil {
		confirmer = ConfirmerFunc(func(string, string) bool { return false })
	}

	c := &Console{
		transport:  transport,
		collection: NewCollection(transport),
		state:      NewViewState(pageSize),
		notifier:   notifier,
		confirmer:  confirmer,
	}
	c.generator = newGenerator(c)
	return c
}

func (c *Console) Collection() *Collection { return c.collection }
func (c *Console) State() *ViewState       { return c.state }
func (c *Console) Generator() *Generator   { return c.generator }

// Load fetches the whole bank, as on page open or an explicit refresh
func (c *Console) Load(ctx context.Context) error {
	if err := c.collection.Refresh(ctx); err != nil {
		c.notifyFailure(err, "failed to load question bank")
		return err
	}
	return nil
}

// View returns the rows of the current page under the current search and
// type filter, and the number of rows matching overall.
func (c *Console) View() ([]Question, int) {
	filtered := c.collection.FilteredView(c.state.Search, c.state.TypeFilter)
	return Page(filtered, c.state.Page, c.state.PageSize)
}

// OpenAdd opens the add surface
func (c *Console) OpenAdd() {
	c.state.AddOpen = true
}

// Add validates form, persists a new hand-written question and refreshes
func (c *Console) Add(ctx context.Context, form QuestionForm) error {
	if err := form.Validate(); err != nil {
		c.notify(LevelError, err.Error())
		return err
	}

	var q Question
	form.Apply(&q)

	env := c.transport.Add(ctx, q)
	if !env.OK() {
		c.notify(LevelError, env.Message("add failed"))
		return fmt.Errorf("failed to add question: %w", env.Err())
	}

	c.notify(LevelSuccess, "question added")
	c.state.AddOpen = false
	c.refresh(ctx)
	return nil
}

// BeginEdit opens the edit surface for q
func (c *Console) BeginEdit(q Question) error {
	if !q.Persisted() {
		c.notify(LevelError, "question has no id, cannot edit")
		return ErrMissingID
	}
	c.state.Editing = &q
	c.state.EditOpen = true
	return nil
}

// Edit merges form onto original and overwrites the stored record. The
// original must carry an id; otherwise nothing is sent.
func (c *Console) Edit(ctx context.Context, original Question, form QuestionForm) error {
	if !original.Persisted() {
		c.notify(LevelError, "question has no id, cannot save")
		return ErrMissingID
	}
	if err := form.Validate(); err != nil {
		c.notify(LevelError, err.Error())
		return err
	}

	updated := original
	form.Apply(&updated)

	env := c.transport.Edit(ctx, updated)
	if !env.OK() {
		c.notify(LevelError, env.Message("edit failed"))
		return fmt.Errorf("failed to edit question %d: %w", original.ID, env.Err())
	}

	c.notify(LevelSuccess, "question updated")
	c.state.EditOpen = false
	c.state.Editing = nil
	c.refresh(ctx)
	return nil
}

// Delete removes q after explicit confirmation
func (c *Console) Delete(ctx context.Context, q Question) error {
	if !q.Persisted() {
		c.notify(LevelError, "question has no id, cannot delete")
		return ErrMissingID
	}
	if !c.confirmer.Confirm("Delete this question?", "This cannot be undone.") {
		return ErrCancelled
	}

	env := c.transport.Delete(ctx, q)
	if !env.OK() {
		c.notify(LevelError, env.Message("delete failed"))
		return fmt.Errorf("failed to delete question %d: %w", q.ID, env.Err())
	}

	c.notify(LevelSuccess, "question deleted")
	c.refresh(ctx)
	return nil
}

// BatchDelete deletes every selected question, one request at a time, and
// reports one summary notice. The collection is refreshed once after the
// loop whatever the outcome. Failed items are not retried.
func (c *Console) BatchDelete(ctx context.Context) (Tally, error) {
	var tally Tally

	if c.collection.SelectionCount() == 0 {
		c.notify(LevelInfo, "select the questions to delete")
		return tally, nil
	}

	selected := c.collection.Selected()
	title := fmt.Sprintf("Delete the %d selected questions?", len(selected))
	if !c.confirmer.Confirm(title, "This cannot be undone.") {
		return tally, ErrCancelled
	}

	for _, q := range selected {
		env := c.transport.Delete(ctx, q)
		tally.Record(env.OK())
		if !env.OK() {
			log.Printf("Failed to delete question %d: %s", q.ID, env.Message("delete failed"))
		}
	}

	c.notifier.Notify(tally.Notice("deleted", "batch delete failed"))
	c.refresh(ctx)

	return tally, tally.Err()
}

// refresh reloads the collection after a mutation. A failed reload keeps
// the old snapshot; the mutation outcome has already been reported.
func (c *Console) refresh(ctx context.Context) {
	if err := c.collection.Refresh(ctx); err != nil {
		log.Printf("Failed to refresh question bank: %v", err)
	}
}

func (c *Console) notify(level Level, msg string) {
	c.notifier.Notify(Notice{Level: level, Message: msg})
}

func (c *Console) notifyFailure(err error, fallback string) {
	var serverErr *ServerError
	switch {
	case errors.Is(err, ErrNetwork):
		c.notify(LevelError, networkErrorMessage)
	case errors.As(err, &serverErr) && serverErr.Msg != "":
		c.notify(LevelError, serverErr.Msg)
	default:
		c.notify(LevelError, fallback)
	}
}
