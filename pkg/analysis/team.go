package analysis

import (
	"errors"
	"image"
	"image/color"

	"github.com/matchvision/match-analyzer/pkg/utils"
	"gocv.io/x/gocv"
)

//neutralColor is returned for degenerate crops instead of failing the frame
var neutralColor = [3]float64{128, 128, 128}

//TeamProfile holds the two team color prototypes derived once per analysis.
//Prototypes are stored in BGR to match frame pixel order, Colors are the
//boosted display variants. Index 0 is team 1 (the lighter kit), index 1 is team 2.
type TeamProfile struct {
	Prototypes [2][3]float64
	Colors     [2]color.RGBA
}

//Classifier clusters jersey colors into two team prototypes and classifies
//individual boxes against them. Derivation runs exactly once per analysis.
type Classifier struct {
	profile *TeamProfile
}

func NewClassifier() *Classifier {
	return &Classifier{}
}

//Derived reports whether the team profile has been derived yet
func (c *Classifier) Derived() bool {
	return c.profile != nil
}

//Profile returns the derived team profile, or nil before derivation
func (c *Classifier) Profile() *TeamProfile {
	return c.profile
}

//DeriveProfile clusters the jersey colors of all player detections in given
//frame into two team prototypes. With fewer than 2 usable players it falls
//back to fixed default kit colors instead of failing.
func (c *Classifier) DeriveProfile(frame gocv.Mat, detections []Detection) {
	playerColors := make([][3]float64, 0)
	for _, d := range detections {
		if d.Class != utils.PlayerClass {
			continue
		}
		playerColors = append(playerColors, jerseyColor(frame, d.Bbox))
	}

	if len(playerColors) < 2 {
		c.profile = &TeamProfile{
			Prototypes: [2][3]float64{{255, 255, 255}, {0, 255, 0}},
			Colors:     [2]color.RGBA{{255, 255, 255, 0}, {0, 255, 0, 0}},
		}
		return
	}

	samples := gocv.NewMatWithSize(len(playerColors), 3, gocv.MatTypeCV32F)
	defer samples.Close()
	for i, pc := range playerColors {
		for ch := 0; ch < 3; ch++ {
			samples.SetFloatAt(i, ch, float32(pc[ch]))
		}
	}

	labels := gocv.NewMat()
	defer labels.Close()
	centers := gocv.NewMat()
	defer centers.Close()

	criteria := gocv.NewTermCriteria(gocv.MaxIter+gocv.EPS, 10, 1.0)
	gocv.KMeans(samples, 2, &labels, criteria, 10, gocv.KMeansPPCenters, &centers)

	var prototypes [2][3]float64
	brightness := [2]float64{}
	for cl := 0; cl < 2; cl++ {
		for ch := 0; ch < 3; ch++ {
			prototypes[cl][ch] = float64(centers.GetFloatAt(cl, ch))
			brightness[cl] += prototypes[cl][ch]
		}
	}

	//team 1 is the lighter-average-brightness cluster (white/light kits convention)
	light, dark := 0, 1
	if brightness[1] > brightness[0] {
		light, dark = 1, 0
	}

	c.profile = &TeamProfile{
		Prototypes: [2][3]float64{prototypes[light], prototypes[dark]},
		Colors:     [2]color.RGBA{displayColor(prototypes[light]), displayColor(prototypes[dark])},
	}
}

//Classify predicts which team prototype given box's jersey color is nearest to
//and returns the team id with its locked display color. It errors before
//profile derivation; callers fall back to team 1 and a neutral color.
func (c *Classifier) Classify(frame gocv.Mat, bbox image.Rectangle) (int, color.RGBA, error) {
	if c.profile == nil {
		return 0, color.RGBA{}, errors.New("Classify: team profile not derived yet")
	}
	if frame.Empty() {
		return 0, color.RGBA{}, errors.New("Classify: empty frame")
	}

	jc := jerseyColor(frame, bbox)
	best, bestDist := 0, -1.0
	for cl := 0; cl < 2; cl++ {
		d := 0.0
		for ch := 0; ch < 3; ch++ {
			diff := jc[ch] - c.profile.Prototypes[cl][ch]
			d += diff * diff
		}
		if bestDist < 0 || d < bestDist {
			best, bestDist = cl, d
		}
	}

	if best == 0 {
		return utils.Team1, c.profile.Colors[0], nil
	}
	return utils.Team2, c.profile.Colors[1], nil
}

//jerseyColor extracts the dominant jersey color from the upper portion of the
//cropped box. The chest area is more reliable than the full body, which
//includes shorts and background. Degenerate crops yield a neutral gray.
func jerseyColor(frame gocv.Mat, bbox image.Rectangle) [3]float64 {
	r := utils.ClampRect(bbox, frame.Cols(), frame.Rows())
	chest := image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+r.Dy()/3)
	if chest.Dx() < 5 || chest.Dy() < 5 {
		return neutralColor
	}

	roi := frame.Region(chest)
	defer roi.Close()

	f32 := gocv.NewMat()
	defer f32.Close()
	roi.ConvertTo(&f32, gocv.MatTypeCV32F)

	rows, cols := chest.Dy(), chest.Dx()
	samples := f32.Reshape(1, rows*cols)
	defer samples.Close()

	labels := gocv.NewMat()
	defer labels.Close()
	centers := gocv.NewMat()
	defer centers.Close()

	criteria := gocv.NewTermCriteria(gocv.MaxIter+gocv.EPS, 10, 1.0)
	gocv.KMeans(samples, 2, &labels, criteria, 3, gocv.KMeansPPCenters, &centers)

	//the cluster dominating the crop border is background, the other is the jersey
	borderCounts := [2]int{}
	for col := 0; col < cols; col++ {
		borderCounts[labels.GetIntAt(col, 0)]++
		borderCounts[labels.GetIntAt((rows-1)*cols+col, 0)]++
	}
	for row := 0; row < rows; row++ {
		borderCounts[labels.GetIntAt(row*cols, 0)]++
		borderCounts[labels.GetIntAt(row*cols+cols-1, 0)]++
	}

	jersey := 0
	if borderCounts[0] > borderCounts[1] {
		jersey = 1
	}

	return [3]float64{
		float64(centers.GetFloatAt(jersey, 0)),
		float64(centers.GetFloatAt(jersey, 1)),
		float64(centers.GetFloatAt(jersey, 2)),
	}
}

//displayColor converts a BGR prototype to a boosted RGBA for drawing
func displayColor(bgr [3]float64) color.RGBA {
	b := boost(bgr[0])
	g := boost(bgr[1])
	r := boost(bgr[2])
	if int(r)+int(g)+int(b) < 150 {
		r = clampByte(int(r) + 50)
		g = clampByte(int(g) + 50)
		b = clampByte(int(b) + 50)
	}
	return color.RGBA{r, g, b, 0}
}

func boost(v float64) uint8 {
	return clampByte(int(v * 1.2))
}

func clampByte(v int) uint8 {
	if v > 255 {
		return 255
	}
	if v < 0 {
		return 0
	}
	return uint8(v)
}
