package video

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"os/exec"
	"path"
	"strings"

	"github.com/matchvision/match-analyzer/pkg/analysis"
	"github.com/matchvision/match-analyzer/pkg/store"
	"github.com/matchvision/match-analyzer/pkg/utils"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"gocv.io/x/gocv"
)

//Analysis stage names reported through the store while a run is in progress
const (
	StageDetecting = "detecting"
	StageAnalyzing = "analyzing"
	StageRendering = "rendering"
)

//Analyze runs the full pipeline for given video: reads detector output frame by frame,
//stabilizes identities, classifies teams, compensates camera motion, projects to court
//coordinates, assigns possession, aggregates movement and writes an annotated copy
//(XVID '.avi' converted to the production format by ffmpeg) into the 'ready' directory.
//Progress and the final summary are reported through the store under analysisID.
//srcVideoName should include file's extension ('.mp4', etc.)
func Analyze(analysisID, srcVideoName string, st store.Store) {
	srcVideoPath := path.Join(viper.GetString("directory.source"), srcVideoName)
	tmpVideoPath := path.Join(viper.GetString("directory.temp"), strings.Split(srcVideoName, ".")[0]+"."+"avi")
	outputVideoPath := path.Join(viper.GetString("directory.ready"), srcVideoName)

	cap, err := gocv.VideoCaptureFile(srcVideoPath)
	if err != nil {
		failAnalysis(st, analysisID, "Analyze: Error opening video", err)
		return
	}
	defer cap.Close()

	frameWidth := int(cap.Get(gocv.VideoCaptureFrameWidth))
	frameHeight := int(cap.Get(gocv.VideoCaptureFrameHeight))
	fps := cap.Get(gocv.VideoCaptureFPS)

	cfg := configFromViper()
	if fps > 0 {
		cfg.FrameRate = fps
	}

	classifier := analysis.NewClassifier()
	stabilizer := analysis.NewStabilizer(cfg)
	cameraEstimator := analysis.NewCameraEstimator(cfg)
	defer cameraEstimator.Close()
	projector := analysis.NewProjector(frameWidth, frameHeight, cfg)
	defer projector.Close()
	possession := analysis.NewPossessionTracker(cfg)
	movement := analysis.NewMovementAggregator(cfg)

	framesC := make(chan *frameObjects)
	go RunDetector(srcVideoPath, framesC)

	frameMat := gocv.NewMat()
	defer frameMat.Close()

	//everything the rendering pass needs, collected while consuming detector output
	recordedFrames := make([]gocv.Mat, 0)
	results := make([]*analysis.FrameResult, 0)
	rawBallBoxes := make([]*image.Rectangle, 0)

	defer func() {
		for i := range recordedFrames {
			recordedFrames[i].Close()
		}
	}()

	st.Update(analysisID, func(a *store.Analysis) { a.Stage = StageDetecting })

	for fo := range framesC {
		if !cap.Read(&frameMat) { //detector reported more frames than the file holds
			logrus.Warnf("Analyze: video '%v' ended before detector output did", srcVideoName)
			drainFrames(framesC)
			break
		}

		cameraMotion := cameraEstimator.Estimate(frameMat)

		if !classifier.Derived() && (countPlayers(fo.detections) >= cfg.ProfileMinPlayers || fo.frameNumber >= cfg.ProfileFrameBudget) {
			classifier.DeriveProfile(frameMat, fo.detections)
		}

		resolveTeam := func(bbox image.Rectangle) (int, color.RGBA, error) {
			return classifier.Classify(frameMat, bbox)
		}

		entities := stabilizer.Stabilize(fo.tracks, resolveTeam, fo.frameNumber)
		analysis.Compensate(entities, cameraMotion)
		analysis.AddCourtPositions(entities, projector)

		recorded := gocv.NewMat()
		frameMat.CopyTo(&recorded)
		recordedFrames = append(recordedFrames, recorded)
		rawBallBoxes = append(rawBallBoxes, fo.ball)
		results = append(results, &analysis.FrameResult{
			Frame:    fo.frameNumber,
			Entities: entities,
			Camera:   cameraMotion,
		})

		if fo.frameNumber%50 == 0 {
			frameNum := fo.frameNumber
			st.Update(analysisID, func(a *store.Analysis) { a.Frame = frameNum })
		}
	}

	if len(results) == 0 {
		failAnalysis(st, analysisID, "Analyze: detector produced no frames for '"+srcVideoName+"'", nil)
		return
	}

	st.Update(analysisID, func(a *store.Analysis) { a.Stage = StageAnalyzing })

	//possession needs a ball position even on frames where detection missed it
	ballBoxes := InterpolateBall(rawBallBoxes)
	for i, result := range results {
		result.Ball = ballBoxes[i]
		result.Possession = possession.Assign(result.Frame, result.Ball, result.Entities)
	}

	movement.Apply(results)
	summary := analysis.Summarize(results, possession, movement)

	st.Update(analysisID, func(a *store.Analysis) { a.Stage = StageRendering })

	if err := renderAnnotated(tmpVideoPath, recordedFrames, results, fps, frameWidth, frameHeight); err != nil {
		failAnalysis(st, analysisID, "Analyze: Error rendering annotated video", err)
		return
	}
	defer os.Remove(tmpVideoPath) //remove '.avi' temp file at the end of this function

	//Convert from 'avi' to the production format. example: ffmpeg -i match.avi match.mp4
	cmd := exec.Command("ffmpeg", "-y", "-i", tmpVideoPath, outputVideoPath)
	if err := cmd.Run(); err != nil {
		failAnalysis(st, analysisID, "Analyze: Error from ffmpeg", err)
		return
	}

	st.Update(analysisID, func(a *store.Analysis) {
		a.Status = store.StatusCompleted
		a.Stage = ""
		a.Frame = len(results)
		a.Summary = &summary
	})

	logrus.Infof("Analyze: finished '%v', %v frames, %v passes", srcVideoName, len(results), summary.Passes.Total)
}

//renderAnnotated writes the buffered frames with all overlays into an XVID '.avi' file
func renderAnnotated(tmpVideoPath string, frames []gocv.Mat, results []*analysis.FrameResult, fps float64, width, height int) error {
	videoWriter, err := gocv.VideoWriterFile(tmpVideoPath, "XVID", fps, width, height, true)
	if err != nil {
		return err
	}
	defer videoWriter.Close()

	team1Frames, team2Frames := 0, 0

	for i := range frames {
		result := results[i]

		switch result.Possession.Team {
		case utils.Team1:
			team1Frames++
		case utils.Team2:
			team2Frames++
		}

		for _, e := range result.Entities {
			plotEntityOnFrame(&frames[i], e)
			if e.HasBall {
				plotHolderOnFrame(&frames[i], e)
			}
		}

		if result.Ball != nil {
			plotBallOnFrame(&frames[i], *result.Ball)
		}

		plotCameraMotion(&frames[i], result.Camera)

		if total := team1Frames + team2Frames; total > 0 {
			plotControlOverlay(&frames[i], float64(team1Frames)/float64(total), float64(team2Frames)/float64(total))
		}

		if err := videoWriter.Write(frames[i]); err != nil {
			return err
		}
	}

	return nil
}

//drainFrames discards the rest of the detector feed. The sender blocks on the
//unbuffered chan, so abandoning the loop without draining would leak the
//detector goroutine and leave its subprocess unreaped.
func drainFrames(framesC <-chan *frameObjects) {
	for range framesC {
	}
}

func countPlayers(detections []analysis.Detection) int {
	count := 0
	for _, d := range detections {
		if d.Class == utils.PlayerClass {
			count++
		}
	}
	return count
}

func failAnalysis(st store.Store, analysisID, msg string, err error) {
	if err != nil {
		logrus.Errorf("%v, got '%v'", msg, err)
	} else {
		logrus.Error(msg)
	}

	st.Update(analysisID, func(a *store.Analysis) {
		a.Status = store.StatusFailed
		a.Error = fmt.Sprintf("%v", msg)
		if err != nil {
			a.Error = fmt.Sprintf("%v: %v", msg, err)
		}
	})
}
