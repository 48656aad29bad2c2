package analysis

import (
	"math"

	"gocv.io/x/gocv"
)

//Projector maps pixel coordinates to real-world court-plane meters via a
//fixed homography from the frame corners to the court rectangle. It is
//computed once from the video resolution, never re-estimated per frame.
type Projector struct {
	transform gocv.Mat
	valid     bool
}

//NewProjector builds the homography for given frame resolution
func NewProjector(frameWidth, frameHeight int, cfg Config) *Projector {
	if frameWidth <= 0 || frameHeight <= 0 {
		return &Projector{}
	}

	w, h := float32(frameWidth), float32(frameHeight)
	cl, cw := float32(cfg.CourtLength), float32(cfg.CourtWidth)

	src := gocv.NewPoint2fVectorFromPoints([]gocv.Point2f{
		{X: 0, Y: h},
		{X: 0, Y: 0},
		{X: w, Y: 0},
		{X: w, Y: h},
	})
	defer src.Close()

	dst := gocv.NewPoint2fVectorFromPoints([]gocv.Point2f{
		{X: 0, Y: cw},
		{X: 0, Y: 0},
		{X: cl, Y: 0},
		{X: cl, Y: cw},
	})
	defer dst.Close()

	return &Projector{
		transform: gocv.GetPerspectiveTransform2f(src, dst),
		valid:     true,
	}
}

func (p *Projector) Close() {
	if p.valid {
		p.transform.Close()
	}
}

//Project maps a pixel point to court-plane meters. The second return value is
//false for undefined input; downstream consumers treat that as no speed
//contribution for the frame.
func (p *Projector) Project(pt Point) (Point, bool) {
	if !p.valid || math.IsNaN(pt.X) || math.IsNaN(pt.Y) || math.IsInf(pt.X, 0) || math.IsInf(pt.Y, 0) {
		return Point{}, false
	}

	src := gocv.NewMatWithSize(1, 1, gocv.MatTypeCV32FC2)
	defer src.Close()
	src.SetFloatAt(0, 0, float32(pt.X))
	src.SetFloatAt(0, 1, float32(pt.Y))

	dst := gocv.NewMat()
	defer dst.Close()
	gocv.PerspectiveTransform(src, &dst, p.transform)

	out := dst.GetVecfAt(0, 0)
	res := Point{X: float64(out[0]), Y: float64(out[1])}
	if math.IsNaN(res.X) || math.IsNaN(res.Y) {
		return Point{}, false
	}
	return res, true
}

//AddCourtPositions projects every entity's compensated (or raw) position
func AddCourtPositions(entities map[int]*EntityFrame, p *Projector) {
	for _, ef := range entities {
		pos := ef.Position
		if ef.Compensated != nil {
			pos = *ef.Compensated
		}
		if court, ok := p.Project(pos); ok {
			ef.Court = &court
		}
	}
}
