package questionbank

import (
	"fmt"
	"log"
)

// Level is the severity of a user notice
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelWarning
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelInfo:
		return "info"
	case LevelSuccess:
		return "success"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	}
	return "unknown"
}

// Notice is the one message a user action resolves to
type Notice struct {
	Level   Level
	Message string
}

// Notifier shows notices to the user
type Notifier interface {
	Notify(n Notice)
}

// Confirmer gates destructive actions behind an explicit yes
type Confirmer interface {
	Confirm(title, content string) bool
}

// NotifierFunc adapts a function to Notifier
type NotifierFunc func(Notice)

func (f NotifierFunc) Notify(n Notice) { f(n) }

// ConfirmerFunc adapts a function to Confirmer
type ConfirmerFunc func(title, content string) bool

func (f ConfirmerFunc) Confirm(title, content string) bool { return f(title, content) }

// LogNotifier writes notices to the standard logger
type LogNotifier struct{}

func (LogNotifier) Notify(n Notice) {
	log.Printf("[%s] %s", n.Level, n.Message)
}

// Tally counts per-item outcomes of a sequential batch
type Tally struct {
	Success int
	Fail    int
}

// Record counts one outcome
func (t *Tally) Record(ok bool) {
	if ok {
		t.Success++
	} else {
		t.Fail++
	}
}

// Total is the number of items processed
func (t Tally) Total() int {
	return t.Success + t.Fail
}

// Notice summarises the batch in one message: success when nothing failed,
// a warning with both counts when some failed, an error when none succeeded.
// verb is the past tense of the action ("deleted", "added").
func (t Tally) Notice(verb, failed string) Notice {
	switch {
	case t.Success > 0 && t.Fail == 0:
		return Notice{Level: LevelSuccess, Message: fmt.Sprintf("%s %d questions", verb, t.Success)}
	case t.Success > 0 && t.Fail > 0:
		return Notice{Level: LevelWarning, Message: fmt.Sprintf("%s %d questions, %d failed", verb, t.Success, t.Fail)}
	}
	return Notice{Level: LevelError, Message: failed}
}

// Err is nil when every item succeeded, wraps ErrPartialFailure when some
// failed and ErrBatchFailed when none succeeded.
func (t Tally) Err() error {
	switch {
	case t.Fail == 0:
		return nil
	case t.Success > 0:
		return fmt.Errorf("%d of %d failed: %w", t.Fail, t.Total(), ErrPartialFailure)
	}
	return fmt.Errorf("%d of %d failed: %w", t.Fail, t.Total(), ErrBatchFailed)
}
