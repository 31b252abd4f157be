package bezier

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidControlGrid matches any *InvalidControlGridError.
	ErrInvalidControlGrid = errors.New("invalid control grid")

	// ErrInvalidSegmentCount matches any *InvalidSegmentCountError.
	ErrInvalidSegmentCount = errors.New("invalid segment count")
)

// InvalidControlGridError reports a control grid that is not 4x4 points of
// three finite coordinates each. Row and Col are -1 when the problem is
// with the grid shape rather than a single point.
type InvalidControlGridError struct {
	Row, Col int
	Reason   string
}

func (e *InvalidControlGridError) Error() string {
	if e.Row < 0 {
		return fmt.Sprintf("%v: %s", ErrInvalidControlGrid, e.Reason)
	}
	if e.Col < 0 {
		return fmt.Sprintf("%v: row %d: %s", ErrInvalidControlGrid, e.Row, e.Reason)
	}
	return fmt.Sprintf("%v: point [%d][%d]: %s", ErrInvalidControlGrid, e.Row, e.Col, e.Reason)
}

// Is makes errors.Is(err, ErrInvalidControlGrid) succeed.
func (e *InvalidControlGridError) Is(target error) bool {
	return target == ErrInvalidControlGrid
}

// InvalidSegmentCountError reports a tessellation resolution below 1.
type InvalidSegmentCountError struct {
	Axis  string // "s" or "t"
	Count int
}

func (e *InvalidSegmentCountError) Error() string {
	return fmt.Sprintf("%v: %sSegments = %d, must be >= 1", ErrInvalidSegmentCount, e.Axis, e.Count)
}

// Is makes errors.Is(err, ErrInvalidSegmentCount) succeed.
func (e *InvalidSegmentCountError) Is(target error) bool {
	return target == ErrInvalidSegmentCount
}
