package canvas

import (
	"github.com/mcoot/sketchgame/internal/model"
)

// Log is the ordered stroke history of one room's canvas. Only the last
// stroke may change after it is appended.
//
// A Log is owned by a single room goroutine and is not safe for
// concurrent use.
type Log struct {
	strokes []model.Stroke
}

// NewLog creates an empty drawing log
func NewLog() *Log {
	return &Log{}
}

// Start appends a new stroke
func (l *Log) Start(stroke model.Stroke) error {
	if err := stroke.Validate(); err != nil {
		return err
	}
	l.strokes = append(l.strokes, stroke.Clone())
	return nil
}

// Continue replaces the last stroke with an updated version. It reports
// false when the log is empty.
func (l *Log) Continue(stroke model.Stroke) (bool, error) {
	if err := stroke.Validate(); err != nil {
		return false, err
	}
	if len(l.strokes) == 0 {
		return false, nil
	}
	l.strokes[len(l.strokes)-1] = stroke.Clone()
	return true, nil
}

// Undo removes the last stroke, reporting false when there was none
func (l *Log) Undo() bool {
	if len(l.strokes) == 0 {
		return false
	}
	l.strokes[len(l.strokes)-1] = model.Stroke{}
	l.strokes = l.strokes[:len(l.strokes)-1]
	return true
}

// Clear empties the log
func (l *Log) Clear() {
	l.strokes = nil
}

// Len returns the number of strokes
func (l *Log) Len() int {
	return len(l.strokes)
}

// Strokes returns a deep copy of the log in drawing order
func (l *Log) Strokes() []model.Stroke {
	out := make([]model.Stroke, len(l.strokes))
	for i, s := range l.strokes {
		out[i] = s.Clone()
	}
	return out
}
