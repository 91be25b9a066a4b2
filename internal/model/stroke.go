package model

// Point is a canvas coordinate
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Stroke is one continuous pointer drag on the canvas
type Stroke struct {
	Points []Point `json:"points"`
	Color  string  `json:"color"`
	Width  float64 `json:"width"`
}

// Limits applied to incoming strokes
const (
	MaxStrokePoints = 4096
	MaxStrokeWidth  = 100
	maxColorLength  = 32
)

// Validate checks a stroke against the size limits
func (s Stroke) Validate() error {
	if len(s.Points) > MaxStrokePoints {
		return ErrInvalidStroke
	}
	if s.Width < 0 || s.Width > MaxStrokeWidth {
		return ErrInvalidStroke
	}
	if len(s.Color) > maxColorLength {
		return ErrInvalidStroke
	}
	return nil
}

// Clone returns a deep copy so the log never aliases caller-owned slices
func (s Stroke) Clone() Stroke {
	points := make([]Point, len(s.Points))
	copy(points, s.Points)
	return Stroke{Points: points, Color: s.Color, Width: s.Width}
}
