package video

import (
	"image"

	"github.com/matchvision/match-analyzer/pkg/analysis"
)

//trackedObjectRecord is one JSON line printed by the external detector/tracker
//process. TransientID is only present for trackable classes; the ball is
//detection-only.
type trackedObjectRecord struct {
	TransientID int
	Class       string
	Confidence  float32
	Xmin        int
	Ymin        int
	Xmax        int
	Ymax        int
}

//frameObjects collects everything the external process reported for one frame
type frameObjects struct {
	frameNumber int
	tracks      []analysis.TransientTrack
	detections  []analysis.Detection
	ball        *image.Rectangle
}

func newFrameObjects(frameNum int) *frameObjects {
	return &frameObjects{
		frameNumber: frameNum,
		tracks:      make([]analysis.TransientTrack, 0),
		detections:  make([]analysis.Detection, 0),
	}
}
