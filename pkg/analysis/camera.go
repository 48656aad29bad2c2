package analysis

import (
	"image"
	"math"

	"gocv.io/x/gocv"
)

const (
	leftStripWidth  = 20
	rightStripWidth = 150
	maxCorners      = 100
	cornerQuality   = 0.3
	cornerMinDist   = 3
)

//CameraEstimator estimates the per-frame camera translation from sparse
//optical flow on background features. Feature detection is restricted to the
//lateral edges of the frame (stands and background, unlikely to contain
//players). The single feature pair with maximum displacement is taken as the
//camera vector: static background should have near-zero displacement, so the
//strongest consistent motion there reflects camera pan.
type CameraEstimator struct {
	cfg      Config
	prevGray gocv.Mat
	features gocv.Mat
	primed   bool
}

func NewCameraEstimator(cfg Config) *CameraEstimator {
	return &CameraEstimator{
		cfg:      cfg,
		prevGray: gocv.NewMat(),
		features: gocv.NewMat(),
	}
}

func (e *CameraEstimator) Close() {
	e.prevGray.Close()
	e.features.Close()
}

//Estimate returns the camera translation between the previous frame and this
//one. The first frame and frames without a reliable motion signal yield (0,0).
func (e *CameraEstimator) Estimate(frame gocv.Mat) CameraMotionSample {
	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(frame, &gray, gocv.ColorBGRToGray)

	if !e.primed {
		e.detectFeatures(gray)
		gray.CopyTo(&e.prevGray)
		e.primed = true
		return CameraMotionSample{}
	}

	if e.features.Empty() || e.features.Rows() == 0 {
		e.detectFeatures(gray)
		gray.CopyTo(&e.prevGray)
		return CameraMotionSample{}
	}

	next := gocv.NewMat()
	defer next.Close()
	status := gocv.NewMat()
	defer status.Close()
	flowErr := gocv.NewMat()
	defer flowErr.Close()

	gocv.CalcOpticalFlowPyrLK(e.prevGray, gray, e.features, next, &status, &flowErr)

	var sample CameraMotionSample
	maxDist := 0.0

	n := e.features.Rows()
	if next.Rows() < n {
		n = next.Rows()
	}
	for i := 0; i < n; i++ {
		if status.Rows() > i && status.GetUCharAt(i, 0) == 0 {
			continue
		}
		old := e.features.GetVecfAt(i, 0)
		moved := next.GetVecfAt(i, 0)
		dx := float64(old[0] - moved[0])
		dy := float64(old[1] - moved[1])
		if d := math.Hypot(dx, dy); d > maxDist {
			maxDist = d
			sample = CameraMotionSample{Dx: dx, Dy: dy}
		}
	}

	if maxDist > e.cfg.MotionNoiseFloor {
		//real pan: refresh the feature set for the next step
		e.detectFeatures(gray)
	} else {
		sample = CameraMotionSample{}
	}

	gray.CopyTo(&e.prevGray)
	return sample
}

//detectFeatures finds sparse corners in the two lateral strips and merges them
//into a single point set, offsetting the right strip back to frame coordinates
func (e *CameraEstimator) detectFeatures(gray gocv.Mat) {
	w, h := gray.Cols(), gray.Rows()

	type corner struct{ x, y float32 }
	found := make([]corner, 0, 2*maxCorners)

	strips := []struct {
		rect    image.Rectangle
		offsetX int
	}{
		{image.Rect(0, 0, min(leftStripWidth, w), h), 0},
		{image.Rect(max(0, w-rightStripWidth), 0, w, h), max(0, w-rightStripWidth)},
	}

	for _, s := range strips {
		if s.rect.Dx() <= 0 {
			continue
		}
		region := gray.Region(s.rect)
		corners := gocv.NewMat()
		gocv.GoodFeaturesToTrack(region, &corners, maxCorners, cornerQuality, cornerMinDist)
		for i := 0; i < corners.Rows(); i++ {
			v := corners.GetVecfAt(i, 0)
			found = append(found, corner{v[0] + float32(s.offsetX), v[1]})
		}
		corners.Close()
		region.Close()
	}

	e.features.Close()
	if len(found) == 0 {
		e.features = gocv.NewMat()
		return
	}

	e.features = gocv.NewMatWithSize(len(found), 1, gocv.MatTypeCV32FC2)
	for i, c := range found {
		e.features.SetFloatAt(i, 0, c.x)
		e.features.SetFloatAt(i, 1, c.y)
	}
}

//Compensate subtracts the frame's camera vector from every entity position so
//camera pan is not mistaken for entity motion
func Compensate(entities map[int]*EntityFrame, motion CameraMotionSample) {
	for _, ef := range entities {
		ef.Compensated = &Point{
			X: ef.Position.X - motion.Dx,
			Y: ef.Position.Y - motion.Dy,
		}
	}
}
