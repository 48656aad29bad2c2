package analysis

import (
	"testing"

	"github.com/matchvision/match-analyzer/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func courtFrame(frame int, positions map[int]Point) *FrameResult {
	fr := &FrameResult{Frame: frame, Entities: make(map[int]*EntityFrame)}
	for id, pos := range positions {
		p := pos
		fr.Entities[id] = &EntityFrame{
			ID:       id,
			Kind:     utils.PlayerClass,
			Team:     utils.Team1,
			Position: Point{X: p.X * 20, Y: p.Y * 20},
			Court:    &p,
		}
	}
	return fr
}

func TestMovementWindowedSpeed(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FrameWindow = 5
	cfg.FrameRate = 25
	m := NewMovementAggregator(cfg)

	// one player moving 0.2 m per frame along the court x axis for 11 frames
	frames := make([]*FrameResult, 0, 11)
	for f := 0; f < 11; f++ {
		frames = append(frames, courtFrame(f, map[int]Point{1: {X: 0.2 * float64(f), Y: 10}}))
	}

	m.Apply(frames)

	// 1 m over 5 frames at 25 fps: 5 m/s == 18 km/h
	require.NotNil(t, frames[0].Entities[1].Speed)
	assert.InDelta(t, 18.0, *frames[0].Entities[1].Speed, 1e-6)
	require.NotNil(t, frames[3].Entities[1].Speed, "speed is written onto every frame within the window")
	assert.InDelta(t, 18.0, *frames[3].Entities[1].Speed, 1e-6)

	// cumulative distance after both windows
	assert.InDelta(t, 2.0, m.TotalDistance(1), 1e-6)
	require.NotNil(t, frames[10].Entities[1].Distance)
	assert.InDelta(t, 2.0, *frames[10].Entities[1].Distance, 1e-6)
}

func TestMovementGapSkipsWindowWithoutReset(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FrameWindow = 5
	cfg.FrameRate = 25
	m := NewMovementAggregator(cfg)

	frames := make([]*FrameResult, 0, 11)
	for f := 0; f < 11; f++ {
		if f == 10 {
			// absent at the second window's endpoint
			frames = append(frames, courtFrame(f, nil))
			continue
		}
		frames = append(frames, courtFrame(f, map[int]Point{1: {X: 0.2 * float64(f), Y: 10}}))
	}

	m.Apply(frames)

	assert.InDelta(t, 1.0, m.TotalDistance(1), 1e-6, "skipped window must not add or reset distance")
	assert.Nil(t, frames[7].Entities[1].Speed, "no speed written for the skipped window")
}

func TestMovementFallsBackToPixelConversion(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FrameWindow = 2
	cfg.FrameRate = 20
	cfg.PixelsPerMeter = 10
	m := NewMovementAggregator(cfg)

	frames := []*FrameResult{
		{Frame: 0, Entities: map[int]*EntityFrame{1: {ID: 1, Kind: utils.PlayerClass, Position: Point{X: 0, Y: 0}}}},
		{Frame: 1, Entities: map[int]*EntityFrame{1: {ID: 1, Kind: utils.PlayerClass, Position: Point{X: 15, Y: 0}}}},
		{Frame: 2, Entities: map[int]*EntityFrame{1: {ID: 1, Kind: utils.PlayerClass, Position: Point{X: 30, Y: 0}}}},
	}

	m.Apply(frames)

	// 30 px == 3 m over 2 frames at 20 fps: 30 m/s == 108 km/h
	require.NotNil(t, frames[0].Entities[1].Speed)
	assert.InDelta(t, 108.0, *frames[0].Entities[1].Speed, 1e-6)
	assert.InDelta(t, 3.0, m.TotalDistance(1), 1e-6)
}

func TestMovementIgnoresReferees(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FrameWindow = 2
	m := NewMovementAggregator(cfg)

	ref := func(x float64) *EntityFrame {
		return &EntityFrame{ID: 9, Kind: utils.RefereeClass, Position: Point{X: x, Y: 0}}
	}
	frames := []*FrameResult{
		{Frame: 0, Entities: map[int]*EntityFrame{9: ref(0)}},
		{Frame: 1, Entities: map[int]*EntityFrame{9: ref(50)}},
		{Frame: 2, Entities: map[int]*EntityFrame{9: ref(100)}},
	}

	m.Apply(frames)

	assert.Zero(t, m.TotalDistance(9))
	assert.Nil(t, frames[0].Entities[9].Speed)
}

func TestCompensateSubtractsCameraVector(t *testing.T) {
	entities := map[int]*EntityFrame{
		1: {ID: 1, Position: Point{X: 100, Y: 50}},
		2: {ID: 2, Position: Point{X: 10, Y: 10}},
	}

	Compensate(entities, CameraMotionSample{Dx: 12, Dy: -3})

	require.NotNil(t, entities[1].Compensated)
	assert.Equal(t, Point{X: 88, Y: 53}, *entities[1].Compensated)
	assert.Equal(t, Point{X: -2, Y: 13}, *entities[2].Compensated)
}
