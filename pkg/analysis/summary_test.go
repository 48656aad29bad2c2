package analysis

import (
	"image"
	"testing"

	"github.com/matchvision/match-analyzer/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FrameWindow = 2
	cfg.FrameRate = 20

	poss := NewPossessionTracker(cfg)
	mov := NewMovementAggregator(cfg)

	frames := make([]*FrameResult, 0, 4)
	for f := 0; f < 4; f++ {
		fr := &FrameResult{Frame: f, Entities: map[int]*EntityFrame{
			1: {ID: 1, Kind: utils.PlayerClass, Team: utils.Team1, Bbox: image.Rect(90, 60, 110, 100), Position: Point{X: float64(100 + 10*f), Y: 100}},
			2: {ID: 2, Kind: utils.PlayerClass, Team: utils.Team2, Bbox: image.Rect(390, 60, 410, 100), Position: Point{X: 400, Y: 100}},
		}}
		ball := image.Rect(95, 95, 105, 105)
		fr.Ball = &ball
		fr.Possession = poss.Assign(f, fr.Ball, fr.Entities)
		frames = append(frames, fr)
	}

	mov.Apply(frames)
	sum := Summarize(frames, poss, mov)

	assert.Equal(t, 4, sum.Frames)
	assert.Equal(t, 2, sum.UniquePlayers)
	assert.InDelta(t, 100.0, sum.Team1PossessionPct, 1e-9)
	assert.InDelta(t, 100.0, sum.PlayerPossessionPct[1], 1e-9)
	assert.Equal(t, 0, sum.Passes.Total)

	require.Len(t, sum.Movement, 2)
	assert.Equal(t, 1, sum.Movement[0].ID)
	assert.Greater(t, sum.Movement[0].AvgSpeedKmh, 0.0)
	require.NotNil(t, sum.FastestPlayer)
	assert.Equal(t, 1, sum.FastestPlayer.ID)
}
