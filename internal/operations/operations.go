package operations

import (
	"errors"
	"fmt"

	"kobi/internal/buffer"
)

type Action string

const (
	Insert Action = "insert"
	Delete Action = "delete"
)

// ErrDiverged means a replayed delete found different text than it recorded.
var ErrDiverged = errors.New("buffer diverged from history")

// Operation is one reversible edit. Insert uses At and Text, Delete uses
// Range and Text, where Text is the removed text captured at delete time.
type Operation struct {
	Action Action
	At     buffer.Position
	Range  buffer.Range
	Text   string
}

// NewInsert records text with line breaks normalized, matching what the
// buffer stores, so the inverse delete finds exactly this text.
func NewInsert(at buffer.Position, text string) Operation {
	return Operation{Action: Insert, At: at, Text: buffer.NormalizeNewlines(text)}
}

func NewDelete(r buffer.Range, removed string) Operation {
	return Operation{Action: Delete, At: r.Start, Range: r, Text: removed}
}

// End is where the cursor lands after the operation is applied forward.
func (o Operation) End() buffer.Position {
	if o.Action == Insert { return buffer.PositionAfter(o.At, o.Text) }
	return o.Range.Start
}

func (o Operation) Inverse() Operation {
	if o.Action == Insert {
		return NewDelete(buffer.Range{Start: o.At, End: o.End()}, o.Text)
	}
	return NewInsert(o.Range.Start, o.Text)
}

// Apply runs the operation against b and returns the resulting cursor.
func (o Operation) Apply(b *buffer.Buffer) (buffer.Position, error) {
	switch o.Action {
	case Insert:
		return b.Insert(o.At, o.Text)
	case Delete:
		current, err := b.TextOf(o.Range)
		if err != nil { return o.Range.Start, err }
		if current != o.Text {
			return o.Range.Start, fmt.Errorf("%w: found %q, recorded %q", ErrDiverged, current, o.Text)
		}
		_, err = b.Delete(o.Range)
		return o.Range.Start, err
	}
	return o.At, fmt.Errorf("unknown action %q", o.Action)
}

func (o Operation) String() string {
	if o.Action == Insert { return fmt.Sprintf("insert %q at %v", o.Text, o.At) }
	return fmt.Sprintf("delete %q at %v", o.Text, o.Range)
}

// EditOperation is a group of operations undone and redone as one step.
type EditOperation []Operation

// Revert undoes ops that were applied forward, newest first.
func (ops EditOperation) Revert(b *buffer.Buffer) error {
	for i := len(ops) - 1; i >= 0; i-- {
		if _, err := ops[i].Inverse().Apply(b); err != nil { return err }
	}
	return nil
}

// Replay applies ops forward in order.
func (ops EditOperation) Replay(b *buffer.Buffer) error {
	for _, op := range ops {
		if _, err := op.Apply(b); err != nil { return err }
	}
	return nil
}
