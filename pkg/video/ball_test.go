package video

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rectPtr(x1, y1, x2, y2 int) *image.Rectangle {
	r := image.Rect(x1, y1, x2, y2)
	return &r
}

func TestInterpolateBallFillsGap(t *testing.T) {
	boxes := []*image.Rectangle{
		rectPtr(0, 0, 10, 10),
		nil,
		nil,
		nil,
		rectPtr(40, 0, 50, 10),
	}

	out := InterpolateBall(boxes)

	require.NotNil(t, out[2])
	assert.Equal(t, image.Rect(20, 0, 30, 10), *out[2])
	assert.Equal(t, *boxes[0], *out[0])
	assert.Equal(t, *boxes[4], *out[4])
}

func TestInterpolateBallBackfillsLeadingGap(t *testing.T) {
	boxes := []*image.Rectangle{
		nil,
		rectPtr(10, 10, 20, 20),
		rectPtr(20, 10, 30, 20),
		nil,
	}

	out := InterpolateBall(boxes)

	require.NotNil(t, out[0])
	assert.Equal(t, image.Rect(10, 10, 20, 20), *out[0], "leading gap backfills the first sighting")
	assert.Nil(t, out[3], "trailing gap stays empty")
}

func TestInterpolateBallTooFewSightings(t *testing.T) {
	boxes := []*image.Rectangle{nil, rectPtr(1, 1, 2, 2), nil}

	out := InterpolateBall(boxes)

	assert.Nil(t, out[0])
	assert.Nil(t, out[2])
}
