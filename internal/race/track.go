package race

import (
	"fmt"
	"image"
)

// Track is the static geometry of a session: the border obstacle mask
// (placed at the origin) and the finish line mask placed at FinishPos.
type Track struct {
	Border    *Mask
	Finish    *Mask
	FinishPos image.Point

	// GuardColumn is the finish-mask column of the finish line's own border
	// graphic. A car touching it is entering against the racing direction.
	GuardColumn int
}

// NewTrack validates the geometry. A negative guard column is derived from
// the finish mask as its right-most solid column.
func NewTrack(border, finish *Mask, finishPos image.Point, guardColumn int) (*Track, error) {
	if border == nil || border.Count() == 0 {
		return nil, fmt.Errorf("%w: track border mask is empty", ErrConfig)
	}
	if finish == nil || finish.Count() == 0 {
		return nil, fmt.Errorf("%w: finish line mask is empty", ErrConfig)
	}
	fw, _ := finish.Size()
	if guardColumn < 0 {
		guardColumn = finish.Bounds().Max.X - 1
	}
	if guardColumn >= fw {
		return nil, fmt.Errorf("%w: finish guard column %d outside finish width %d", ErrConfig, guardColumn, fw)
	}
	return &Track{
		Border:      border,
		Finish:      finish,
		FinishPos:   finishPos,
		GuardColumn: guardColumn,
	}, nil
}

// Size is the extent of the border mask, which spans the whole track image.
func (t *Track) Size() (int, int) { return t.Border.Size() }

// HitsBorder tests a car against the border mask.
func (t *Track) HitsBorder(c *Car) (image.Point, bool) {
	return Collide(c, t.Border, image.Point{})
}

// HitsFinish tests a car against the finish line.
func (t *Track) HitsFinish(c *Car) (image.Point, bool) {
	return Collide(c, t.Finish, t.FinishPos)
}

// WrongWay reports whether a finish crossing first overlaps at the guard
// column. Any other overlap point counts as a lap.
func (t *Track) WrongWay(poi image.Point) bool {
	return poi.X == t.GuardColumn
}
