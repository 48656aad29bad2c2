package analysis

import (
	"image"
	"image/color"
)

//Point is a 2D position, in pixels or court meters depending on context
type Point struct {
	X float64
	Y float64
}

//Detection is one raw detector output: a bounding box with class and confidence.
//Produced externally, consumed once.
type Detection struct {
	Bbox       image.Rectangle
	Class      string
	Confidence float32
	Frame      int
}

//TransientTrack is a short-lived identifier the external tracker binds to a detection.
//It is not stable across occlusions and may be reused for a different physical entity.
type TransientTrack struct {
	ID    int
	Bbox  image.Rectangle
	Class string
}

//PositionSample is one (frame, x, y) entry in an entity's position history
type PositionSample struct {
	Frame int
	X     float64
	Y     float64
}

//StableEntity is a long-lived tracked object. Team and Color are set once at
//creation and never change for the lifetime of the id.
type StableEntity struct {
	ID       int
	Kind     string
	Team     int
	Color    color.RGBA
	Aliases  []int
	History  []PositionSample
	LastSeen int
}

//CameraMotionSample is the per-frame camera translation estimate in pixels
type CameraMotionSample struct {
	Dx float64
	Dy float64
}

//PossessionRecord is the per-frame possession state: holder entity id
//(utils.NoHolder when unassigned) and the holding team
type PossessionRecord struct {
	Frame    int
	HolderID int
	Team     int
}

//PassEvent is recorded when possession transfers between two different
//entities on the same team within one possession streak
type PassEvent struct {
	Frame int
	From  int
	To    int
	Team  int
}

//EntityFrame is the per-frame output record for one stable entity.
//Nil pointer fields mean the value was not computed for this frame.
type EntityFrame struct {
	ID          int
	Kind        string
	Bbox        image.Rectangle
	Team        int
	Color       color.RGBA
	Position    Point
	Compensated *Point
	Court       *Point
	Speed       *float64
	Distance    *float64
	HasBall     bool
}

//FrameResult is the full pipeline output for one frame
type FrameResult struct {
	Frame      int
	Entities   map[int]*EntityFrame
	Ball       *image.Rectangle
	Camera     CameraMotionSample
	Possession PossessionRecord
}
