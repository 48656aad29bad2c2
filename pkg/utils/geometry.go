package utils

import (
	"image"
	"math"
)

//Center returns the center point of given bounding box
func Center(r image.Rectangle) (float64, float64) {
	return float64(r.Min.X+r.Max.X) / 2, float64(r.Min.Y+r.Max.Y) / 2
}

//FootPoint returns the bottom-center point of given bounding box, the reference
//point for a person standing on the pitch
func FootPoint(r image.Rectangle) (float64, float64) {
	return float64(r.Min.X+r.Max.X) / 2, float64(r.Max.Y)
}

//Distance returns the Euclidean distance between two points
func Distance(x1, y1, x2, y2 float64) float64 {
	return math.Hypot(x1-x2, y1-y2)
}

//ClampRect fixes bounding box values in case they are out of frame's range
func ClampRect(r image.Rectangle, frameWidth, frameHeight int) image.Rectangle {
	return r.Intersect(image.Rect(0, 0, frameWidth, frameHeight))
}
