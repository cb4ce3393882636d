package editor

import (
	"errors"
	"fmt"
)

type EventKind int

const (
	EventNone EventKind = iota
	EventEdited
	EventLoaded
	EventNewFile
	EventSaved
	EventUndo
	EventRedo
	EventNothingToUndo
	EventNothingToRedo
	EventFound
	EventNoMatch
	EventSearchCleared
	EventLine
	EventCopied
	EventCut
	EventPasted
	EventNoSelection
	EventClipboardEmpty
)

// Event is the outcome of a session operation, shown by the host in its
// status bar. Operations return it instead of writing shared status state.
type Event struct {
	Kind    EventKind
	Message string
}

func (e Event) String() string {
	if e.Message == "" { return "" }
	return "[" + e.Message + "]"
}

func event(kind EventKind, format string, args ...any) Event {
	return Event{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

var (
	// ErrOutOfRange is returned for a line number outside the document.
	ErrOutOfRange = errors.New("line out of range")
	// ErrInvalidUTF8 is wrapped in an IOFailure when a file is not UTF-8 text.
	ErrInvalidUTF8 = errors.New("file is not valid UTF-8")
	// ErrNoFileName is wrapped in an IOFailure when saving an unnamed buffer.
	ErrNoFileName = errors.New("no file name")
)

// IOFailure reports a failed load or save. The session is left as it was.
type IOFailure struct {
	Op     string // "load" or "save"
	Path   string
	Reason string
	Err    error
}

func (f *IOFailure) Error() string {
	return fmt.Sprintf("%s %s: %s", f.Op, f.Path, f.Reason)
}

func (f *IOFailure) Unwrap() error { return f.Err }

func ioFailure(op, path string, err error) *IOFailure {
	return &IOFailure{Op: op, Path: path, Reason: err.Error(), Err: err}
}
