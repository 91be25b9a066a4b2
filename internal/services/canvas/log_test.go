package canvas

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/sketchgame/internal/model"
)

type LogSuite struct {
	suite.Suite
	log *Log
}

func TestLogSuite(t *testing.T) {
	suite.Run(t, new(LogSuite))
}

func (s *LogSuite) SetupTest() {
	s.log = NewLog()
}

func stroke(color string, xs ...float64) model.Stroke {
	points := make([]model.Point, len(xs))
	for i, x := range xs {
		points[i] = model.Point{X: x, Y: x}
	}
	return model.Stroke{Points: points, Color: color, Width: 4}
}

func (s *LogSuite) TestStartAppends() {
	s.Require().NoError(s.log.Start(stroke("red", 1)))
	s.Require().NoError(s.log.Start(stroke("blue", 2)))

	strokes := s.log.Strokes()
	s.Len(strokes, 2)
	s.Equal("red", strokes[0].Color)
	s.Equal("blue", strokes[1].Color)
}

func (s *LogSuite) TestStartRejectsInvalidStroke() {
	err := s.log.Start(model.Stroke{Width: model.MaxStrokeWidth + 1})

	s.ErrorIs(err, model.ErrInvalidStroke)
	s.Equal(0, s.log.Len())
}

func (s *LogSuite) TestContinueReplacesLast() {
	_ = s.log.Start(stroke("red", 1))
	_ = s.log.Start(stroke("blue", 1))

	ok, err := s.log.Continue(stroke("blue", 1, 2, 3))
	s.Require().NoError(err)
	s.True(ok)

	strokes := s.log.Strokes()
	s.Len(strokes, 2)
	s.Len(strokes[0].Points, 1)
	s.Len(strokes[1].Points, 3)
}

func (s *LogSuite) TestContinueOnEmptyIsNoop() {
	ok, err := s.log.Continue(stroke("red", 1, 2))

	s.NoError(err)
	s.False(ok)
	s.Equal(0, s.log.Len())
}

func (s *LogSuite) TestUndo() {
	_ = s.log.Start(stroke("red", 1))
	_ = s.log.Start(stroke("blue", 2))

	s.True(s.log.Undo())

	strokes := s.log.Strokes()
	s.Require().Len(strokes, 1)
	s.Equal("red", strokes[0].Color)
}

func (s *LogSuite) TestUndoOnEmpty() {
	s.False(s.log.Undo())
}

func (s *LogSuite) TestClear() {
	_ = s.log.Start(stroke("red", 1))
	_ = s.log.Start(stroke("blue", 2))

	s.log.Clear()

	s.Equal(0, s.log.Len())
	s.Empty(s.log.Strokes())
}

func (s *LogSuite) TestLogDoesNotAliasCallerStroke() {
	st := stroke("red", 1, 2)
	_ = s.log.Start(st)

	st.Points[0].X = 99

	s.InDelta(1.0, s.log.Strokes()[0].Points[0].X, 0.0001)
}

func (s *LogSuite) TestStrokesReturnsCopy() {
	_ = s.log.Start(stroke("red", 1))

	out := s.log.Strokes()
	out[0].Points[0].X = 42

	s.InDelta(1.0, s.log.Strokes()[0].Points[0].X, 0.0001)
}
