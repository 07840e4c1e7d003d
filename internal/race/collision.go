package race

import "image"

// Collide tests the car footprint against an obstacle mask placed at offset
// in world space. The returned point is in obstacle-mask coordinates. This
// is a discrete end-of-tick test; a fast car can pass through thin geometry
// between two ticks.
func Collide(c *Car, obstacle *Mask, offset image.Point) (image.Point, bool) {
	off := image.Pt(int(c.X)-offset.X, int(c.Y)-offset.Y)
	return obstacle.Overlap(c.Footprint, off)
}
