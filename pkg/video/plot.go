package video

import (
	"fmt"
	"image"
	"image/color"

	"github.com/matchvision/match-analyzer/pkg/analysis"
	"github.com/matchvision/match-analyzer/pkg/utils"
	"gocv.io/x/gocv"
)

var refereeColor = color.RGBA{0, 255, 255, 0}
var ballMarkerColor = color.RGBA{0, 255, 0, 0}
var holderMarkerColor = color.RGBA{0, 0, 255, 0}
var whiteRGB = color.RGBA{255, 255, 255, 0}
var blackRGB = color.RGBA{0, 0, 0, 0}

//plotEntityOnFrame plots an ellipse under given entity's feet in it's team color, an ID plate below it
//and, when available, it's current speed and cumulative distance
func plotEntityOnFrame(frame *gocv.Mat, e *analysis.EntityFrame) {
	if e.Bbox.Empty() {
		return
	}

	xCenter := (e.Bbox.Min.X + e.Bbox.Max.X) / 2
	yBottom := e.Bbox.Max.Y
	width := e.Bbox.Dx()

	plotColor := e.Color
	if e.Kind == utils.RefereeClass {
		plotColor = refereeColor
	}

	gocv.Ellipse(frame, image.Pt(xCenter, yBottom), image.Pt(width, int(0.35*float64(width))), 0, -45, 235, plotColor, 2)

	//referees get the ellipse only, no ID plate
	if e.Kind == utils.RefereeClass {
		return
	}

	plateWidth, plateHeight := 40, 20
	plateRect := image.Rect(xCenter-plateWidth/2, yBottom+15, xCenter+plateWidth/2, yBottom+15+plateHeight)
	gocv.Rectangle(frame, plateRect, plotColor, -1) //thickness -1 == filled rectangle

	idText := fmt.Sprintf("%d", e.ID)
	textStart := image.Pt(plateRect.Min.X+8, plateRect.Max.Y-5)
	if e.ID > 99 { //wider number, shift left so it stays inside the plate
		textStart.X -= 8
	}
	gocv.PutText(frame, idText, textStart, gocv.FontHersheyPlain, 1.2, blackRGB, 2)

	if e.Speed != nil && e.Distance != nil {
		speedText := fmt.Sprintf("%.1f km/h", *e.Speed)
		distText := fmt.Sprintf("%.1f m", *e.Distance)
		gocv.PutText(frame, speedText, image.Pt(xCenter-25, yBottom+50), gocv.FontHersheyPlain, 1, blackRGB, 2)
		gocv.PutText(frame, distText, image.Pt(xCenter-25, yBottom+65), gocv.FontHersheyPlain, 1, blackRGB, 2)
	}
}

//plotTriangle plots a filled triangle pointing down at given point, used to mark the ball and the current holder
func plotTriangle(frame *gocv.Mat, tip image.Point, plotColor color.RGBA) {
	triangle := [][]image.Point{{
		tip,
		image.Pt(tip.X-10, tip.Y-20),
		image.Pt(tip.X+10, tip.Y-20),
	}}

	pts := gocv.NewPointsVectorFromPoints(triangle)
	defer pts.Close()

	gocv.FillPoly(frame, pts, plotColor)
	gocv.Polylines(frame, pts, true, blackRGB, 2)
}

//plotBallOnFrame marks the ball with a green triangle above it's bounding box
func plotBallOnFrame(frame *gocv.Mat, bbox image.Rectangle) {
	tip := image.Pt((bbox.Min.X+bbox.Max.X)/2, bbox.Min.Y)
	plotTriangle(frame, tip, ballMarkerColor)
}

//plotHolderOnFrame marks the current ball holder with a red triangle above it's head
func plotHolderOnFrame(frame *gocv.Mat, e *analysis.EntityFrame) {
	tip := image.Pt((e.Bbox.Min.X+e.Bbox.Max.X)/2, e.Bbox.Min.Y)
	plotTriangle(frame, tip, holderMarkerColor)
}

//plotControlOverlay plots a semi-transparent box in the bottom-right corner with both teams' possession
//percentages so far
func plotControlOverlay(frame *gocv.Mat, team1Pct, team2Pct float64) {
	width, height := frame.Cols(), frame.Rows()
	overlayRect := image.Rect(width-500, height-110, width-30, height-20)

	overlay := frame.Clone()
	defer overlay.Close()

	gocv.Rectangle(&overlay, overlayRect, whiteRGB, -1)
	gocv.AddWeighted(overlay, 0.4, *frame, 0.6, 0, frame)

	team1Text := fmt.Sprintf("Team 1 Ball Control: %.2f%%", team1Pct*100)
	team2Text := fmt.Sprintf("Team 2 Ball Control: %.2f%%", team2Pct*100)
	gocv.PutText(frame, team1Text, image.Pt(overlayRect.Min.X+20, overlayRect.Min.Y+35), gocv.FontHersheyPlain, 1.5, blackRGB, 2)
	gocv.PutText(frame, team2Text, image.Pt(overlayRect.Min.X+20, overlayRect.Min.Y+70), gocv.FontHersheyPlain, 1.5, blackRGB, 2)
}

//plotCameraMotion plots a semi-transparent box in the top-left corner with the estimated camera movement
//for this frame
func plotCameraMotion(frame *gocv.Mat, motion analysis.CameraMotionSample) {
	overlayRect := image.Rect(0, 0, 500, 100)

	overlay := frame.Clone()
	defer overlay.Close()

	gocv.Rectangle(&overlay, overlayRect, whiteRGB, -1)
	gocv.AddWeighted(overlay, 0.6, *frame, 0.4, 0, frame)

	xText := fmt.Sprintf("Camera Movement X: %.2f", motion.Dx)
	yText := fmt.Sprintf("Camera Movement Y: %.2f", motion.Dy)
	gocv.PutText(frame, xText, image.Pt(10, 30), gocv.FontHersheyPlain, 1.5, blackRGB, 2)
	gocv.PutText(frame, yText, image.Pt(10, 60), gocv.FontHersheyPlain, 1.5, blackRGB, 2)
}
