package placement

import (
	"errors"
	"fmt"

	"github.com/woozymasta/windmap/internal/geo"
)

// ErrInfeasiblePlacement is wrapped by every InfeasiblePlacementError.
var ErrInfeasiblePlacement = errors.New("infeasible placement")

// InfeasiblePlacementError reports a zone whose minimum distance was relaxed
// below the floor before its target count was reached.
type InfeasiblePlacementError struct {
	BBox        geo.BBox
	ClusterID   int
	Count       int
	Placed      int
	MinDistance float64
	Floor       float64
}

func (e *InfeasiblePlacementError) Error() string {
	return fmt.Sprintf(
		"zone %d: placed %d of %d turbines in lon [%g, %g] lat [%g, %g]: min distance %.6f fell below floor %g",
		e.ClusterID, e.Placed, e.Count,
		e.BBox.LonMin, e.BBox.LonMax, e.BBox.LatMin, e.BBox.LatMax,
		e.MinDistance, e.Floor)
}

// Unwrap allows errors.Is(err, ErrInfeasiblePlacement).
func (e *InfeasiblePlacementError) Unwrap() error { return ErrInfeasiblePlacement }
