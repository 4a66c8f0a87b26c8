package questionbank

import (
	"context"
	"sync"
)

// fakeTransport records every call and answers from scripted results
type fakeTransport struct {
	mu sync.Mutex

	questions []Question
	listErr   *Envelope[[]Question]

	generated   Envelope[[]Question]
	addResults  []Envelope[any]
	editResult  Envelope[any]
	deleteFails map[int]bool

	listCalls     int
	generateCalls int
	added         []Question
	edited        []Question
	deleted       []int
}

func newFakeTransport(questions ...Question) *fakeTransport {
	return &fakeTransport{
		questions:   questions,
		editResult:  Success[any]("question updated", nil),
		deleteFails: make(map[int]bool),
	}
}

func (f *fakeTransport) List(ctx context.Context) Envelope[[]Question] {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.listCalls++
	if f.listErr != nil {
		return *f.listErr
	}
	out := make([]Question, len(f.questions))
	copy(out, f.questions)
	return Success("success", out)
}

func (f *fakeTransport) Generate(ctx context.Context, params GenerateParams) Envelope[[]Question] {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.generateCalls++
	return f.generated
}

func (f *fakeTransport) Add(ctx context.Context, q Question) Envelope[any] {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.added = append(f.added, q)
	if i := len(f.added) - 1; i < len(f.addResults) {
		return f.addResults[i]
	}
	return Success[any]("question added", nil)
}

func (f *fakeTransport) Edit(ctx context.Context, q Question) Envelope[any] {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.edited = append(f.edited, q)
	return f.editResult
}

func (f *fakeTransport) Delete(ctx context.Context, q Question) Envelope[any] {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.deleted = append(f.deleted, q.ID)
	if f.deleteFails[q.ID] {
		return Failure[any](-108, "question not found or deleted")
	}
	return Success[any]("question deleted", nil)
}

func (f *fakeTransport) mutations() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.added) + len(f.edited) + len(f.deleted)
}

// recorder collects notices and answers confirmations with a fixed reply
type recorder struct {
	notices  []Notice
	confirms []string
	answer   bool
}

func (r *recorder) Notify(n Notice) {
	r.notices = append(r.notices, n)
}

func (r *recorder) Confirm(title, content string) bool {
	r.confirms = append(r.confirms, title)
	return r.answer
}

func (r *recorder) last() Notice {
	if len(r.notices) == 0 {
		return Notice{}
	}
	return r.notices[len(r.notices)-1]
}

func sampleQuestion(id int, title string, t QuestionType) Question {
	q := Question{
		ID:         id,
		Title:      title,
		Type:       t,
		Difficulty: DifficultyEasy,
		Language:   LanguageGo,
		Keyword:    "basics",
		Active:     1,
	}
	if t != TypeCoding {
		q.Answers = []string{"A.yes", "B.no"}
		q.Right = []string{"A"}
	}
	q.Normalize()
	return q
}
