package questionbank

import (
	"context"
	"fmt"
	"log"
)

// GeneratorState is the phase of the AI generation workflow
type GeneratorState int

const (
	StateIdle GeneratorState = iota
	StateGenerating
	StatePreviewing
	StateSaving
)

func (s GeneratorState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateGenerating:
		return "generating"
	case StatePreviewing:
		return "previewing"
	case StateSaving:
		return "saving"
	}
	return "unknown"
}

// Generator runs the two phase AI flow: Propose stages generated candidates
// without persisting them, Commit saves the staged candidates one by one
// after the user confirmed the preview.
type Generator struct {
	console *Console
	staging *StagingBuffer
	state   GeneratorState
}

func newGenerator(c *Console) *Generator {
	return &Generator{
		console: c,
		staging: NewStagingBuffer(),
		state:   StateIdle,
	}
}

// State returns the current phase
func (g *Generator) State() GeneratorState {
	return g.state
}

// Staged returns the candidates awaiting confirmation
func (g *Generator) Staged() []Question {
	return g.staging.All()
}

// Open shows the parameter surface
func (g *Generator) Open() error {
	if g.state != StateIdle {
		return fmt.Errorf("cannot open generation from %s: %w", g.state, ErrInvalidState)
	}
	g.console.state.GenerateOpen = true
	return nil
}

// Propose asks the backend for candidates and stages them for preview.
// On failure or an empty result the workflow stays idle.
func (g *Generator) Propose(ctx context.Context, form GenerateForm) error {
	if g.state != StateIdle {
		return fmt.Errorf("cannot generate from %s: %w", g.state, ErrInvalidState)
	}

	params, err := form.Params()
	if err != nil {
		g.console.notify(LevelError, err.Error())
		return err
	}

	log.Printf("Generating %d %s questions on %q (%s, %s)",
		params.Number, params.Type, params.Keyword, params.Language, params.Difficulty)

	g.state = StateGenerating
	env := g.console.transport.Generate(ctx, params)
	if !env.OK() {
		g.state = StateIdle
		g.console.notify(LevelError, env.Message("AI generation failed"))
		return fmt.Errorf("failed to generate questions: %w", env.Err())
	}
	if len(env.Data) == 0 {
		g.state = StateIdle
		g.console.notify(LevelError, "AI generation returned no questions")
		return fmt.Errorf("failed to generate questions: empty result")
	}

	g.staging.Replace(env.Data)
	g.state = StatePreviewing
	g.console.state.GenerateOpen = false
	g.console.state.PreviewOpen = true

	VerboseLog("Staged %d generated questions for preview", g.staging.Size())
	return nil
}

// Commit saves every staged candidate with is_ai set, one request at a
// time. When at least one save succeeds the buffer is cleared, the preview
// closes and the collection is refreshed once. When all fail the preview
// stays open so the user can try again without regenerating.
func (g *Generator) Commit(ctx context.Context) (Tally, error) {
	var tally Tally

	if g.state != StatePreviewing {
		return tally, fmt.Errorf("cannot save from %s: %w", g.state, ErrInvalidState)
	}
	if g.staging.IsEmpty() {
		g.console.notify(LevelError, "nothing to save")
		return tally, fmt.Errorf("nothing staged: %w", ErrInvalidState)
	}

	g.state = StateSaving
	for _, candidate := range g.staging.All() {
		q := stagedForSave(candidate)

		env := g.console.transport.Add(ctx, q)
		tally.Record(env.OK())
		if !env.OK() {
			log.Printf("Failed to save generated question %q: %s", q.Title, env.Message("add failed"))
		}
	}

	g.console.notifier.Notify(tally.Notice("added", "failed to save generated questions"))

	if tally.Success == 0 {
		g.state = StatePreviewing
		return tally, tally.Err()
	}

	g.staging.Clear()
	g.state = StateIdle
	g.console.state.PreviewOpen = false
	g.console.refresh(ctx)

	return tally, tally.Err()
}

// Discard drops the staged candidates without touching the backend
func (g *Generator) Discard() error {
	if g.state != StatePreviewing {
		return fmt.Errorf("cannot discard from %s: %w", g.state, ErrInvalidState)
	}
	g.staging.Clear()
	g.state = StateIdle
	g.console.state.PreviewOpen = false
	return nil
}

// stagedForSave builds the Add payload of a staged candidate
func stagedForSave(candidate Question) Question {
	q := Question{
		Title:      candidate.Title,
		Type:       candidate.Type,
		Difficulty: candidate.Difficulty,
		Language:   candidate.Language,
		Keyword:    candidate.Keyword,
		Answers:    candidate.Answers,
		Right:      candidate.Right,
		IsAI:       1,
	}
	if q.Answers == nil {
		q.Answers = []string{}
	}
	if q.Right == nil {
		q.Right = []string{}
	}
	return q
}
