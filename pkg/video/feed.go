package video

import (
	"bufio"
	"encoding/json"
	"image"
	"os/exec"
	"strings"

	"github.com/matchvision/match-analyzer/pkg/analysis"
	"github.com/matchvision/match-analyzer/pkg/utils"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

//RunDetector executes the external detection/tracking process for given video and
//listens to its standard output. The process prints a "Frame #: N" marker, then one
//JSON record per object in that frame; trackable classes carry a transient tracker id,
//the ball does not. Each completed frame is sent through the chan in order, so the
//pipeline consumes results strictly frame by frame. Because this function is the only
//writer of the given chan, it closes it before finishing.
func RunDetector(videoPath string, framesC chan<- *frameObjects) {
	cmd := exec.Command("python3", viper.GetString("directory.detector"), "--video", videoPath)

	defer close(framesC)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		logrus.Errorf("RunDetector: Error, got '%v'", err)
		return
	}
	defer stdout.Close()

	if err := cmd.Start(); err != nil {
		logrus.Errorf("RunDetector: Error, got '%v'", err)
		return
	}

	scanner := bufio.NewScanner(stdout)

	var current *frameObjects
	frameCounter := 0

	for scanner.Scan() {
		line := scanner.Text()

		if strings.Contains(line, "Frame #:") {
			if current != nil {
				framesC <- current
			}
			current = newFrameObjects(frameCounter)
			frameCounter++
			continue
		}

		if line == "EOF" {
			if current != nil {
				framesC <- current
			}
			current = nil
			break
		}

		if strings.Contains(line, "FPS:") { //detector progress print, skip it
			continue
		}

		if current == nil {
			continue
		}

		if strings.Contains(line, "{\"") {
			rec := trackedObjectRecord{TransientID: -1}
			if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
				logrus.Warnf("RunDetector: Error, got '%v'. Skipping record", err)
				continue
			}
			appendRecord(current, rec)
		}
	}

	if err := cmd.Wait(); err != nil {
		logrus.Errorf("RunDetector: Error waiting for detector process, got '%v'", err)
	}
}

//appendRecord validates one record and files it as a transient track, a ball box or a
//raw detection. A malformed record is rejected alone, never the whole frame.
func appendRecord(fo *frameObjects, rec trackedObjectRecord) {
	bbox := image.Rect(rec.Xmin, rec.Ymin, rec.Xmax, rec.Ymax)
	if bbox.Empty() {
		logrus.WithField("class", rec.Class).Warn("RunDetector: degenerate bounding box, skipping record")
		return
	}

	switch {
	case rec.Class == utils.BallClass:
		fo.ball = &bbox
	case utils.InSlice(rec.Class, utils.TrackableClasses):
		if rec.TransientID < 0 {
			logrus.WithField("class", rec.Class).Warn("RunDetector: trackable record without transient id, skipping")
			return
		}
		fo.tracks = append(fo.tracks, analysis.TransientTrack{
			ID:    rec.TransientID,
			Bbox:  bbox,
			Class: rec.Class,
		})
		fo.detections = append(fo.detections, analysis.Detection{
			Bbox:       bbox,
			Class:      rec.Class,
			Confidence: rec.Confidence,
			Frame:      fo.frameNumber,
		})
	default:
		logrus.WithField("class", rec.Class).Warn("RunDetector: unknown class, skipping record")
	}
}
