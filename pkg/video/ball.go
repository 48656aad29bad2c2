package video

import (
	"image"

	"gonum.org/v1/gonum/interp"
)

//InterpolateBall fills gaps in the per-frame ball boxes by piecewise-linear
//interpolation between sightings. Frames before the first sighting are
//backfilled with it; frames after the last sighting stay empty. With fewer
//than two sightings the input is returned unchanged.
func InterpolateBall(boxes []*image.Rectangle) []*image.Rectangle {
	frames := make([]float64, 0)
	coords := [4][]float64{}
	for i, b := range boxes {
		if b == nil {
			continue
		}
		frames = append(frames, float64(i))
		coords[0] = append(coords[0], float64(b.Min.X))
		coords[1] = append(coords[1], float64(b.Min.Y))
		coords[2] = append(coords[2], float64(b.Max.X))
		coords[3] = append(coords[3], float64(b.Max.Y))
	}

	if len(frames) < 2 {
		return boxes
	}

	var fits [4]interp.PiecewiseLinear
	for c := 0; c < 4; c++ {
		if err := fits[c].Fit(frames, coords[c]); err != nil {
			return boxes
		}
	}

	first, last := int(frames[0]), int(frames[len(frames)-1])
	out := make([]*image.Rectangle, len(boxes))
	copy(out, boxes)

	for i := range out {
		if out[i] != nil || i > last {
			continue
		}
		if i < first {
			b := *boxes[first]
			out[i] = &b
			continue
		}
		x := float64(i)
		b := image.Rect(
			int(fits[0].Predict(x)),
			int(fits[1].Predict(x)),
			int(fits[2].Predict(x)),
			int(fits[3].Predict(x)),
		)
		out[i] = &b
	}

	return out
}
