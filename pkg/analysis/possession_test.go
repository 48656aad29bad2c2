package analysis

import (
	"image"
	"testing"

	"github.com/matchvision/match-analyzer/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func playerFrame(id, team, x, y int) *EntityFrame {
	return &EntityFrame{
		ID:   id,
		Kind: utils.PlayerClass,
		Team: team,
		Bbox: image.Rect(x-10, y-40, x+10, y),
	}
}

func ballAt(x, y int) *image.Rectangle {
	r := image.Rect(x-5, y-5, x+5, y+5)
	return &r
}

func TestPossessionAssignsClosestWithinThreshold(t *testing.T) {
	p := NewPossessionTracker(DefaultConfig())

	entities := map[int]*EntityFrame{
		1: playerFrame(1, utils.Team1, 100, 100),
		2: playerFrame(2, utils.Team1, 300, 100),
	}

	rec := p.Assign(0, ballAt(105, 100), entities)

	assert.Equal(t, 1, rec.HolderID)
	assert.Equal(t, utils.Team1, rec.Team)
	assert.True(t, entities[1].HasBall)
	assert.False(t, entities[2].HasBall)
}

func TestPossessionNoQualifierKeepsDefaultTeam(t *testing.T) {
	p := NewPossessionTracker(DefaultConfig())

	rec := p.Assign(0, nil, map[int]*EntityFrame{})

	assert.Equal(t, utils.NoHolder, rec.HolderID)
	assert.Equal(t, utils.Team1, rec.Team, "never-held frames default to team 1")
}

func TestPossessionPersistsThroughOcclusion(t *testing.T) {
	p := NewPossessionTracker(DefaultConfig())

	entities := map[int]*EntityFrame{1: playerFrame(1, utils.Team2, 100, 100)}
	p.Assign(0, ballAt(100, 100), entities)

	// ball occluded for a few frames: the holder must not flicker away
	for f := 1; f <= 4; f++ {
		rec := p.Assign(f, nil, map[int]*EntityFrame{1: playerFrame(1, utils.Team2, 100+f, 100)})
		assert.Equal(t, 1, rec.HolderID)
		assert.Equal(t, utils.Team2, rec.Team)
	}
}

func TestPossessionSameTeamTransferCountsOnePass(t *testing.T) {
	p := NewPossessionTracker(DefaultConfig())

	a := playerFrame(1, utils.Team1, 100, 100)
	b := playerFrame(2, utils.Team1, 300, 100)

	p.Assign(0, ballAt(100, 100), map[int]*EntityFrame{1: a, 2: b})
	p.Assign(1, ballAt(300, 100), map[int]*EntityFrame{1: a, 2: b})

	tally := p.Tally()
	assert.Equal(t, 1, tally.Total)
	assert.Equal(t, 1, tally.Team1)
	assert.Equal(t, 0, tally.Team2)
	assert.Equal(t, 1, tally.ByPlayer[1])

	require.Len(t, p.Passes(), 1)
	pass := p.Passes()[0]
	assert.Equal(t, 1, pass.From)
	assert.Equal(t, 2, pass.To)
	assert.Equal(t, utils.Team1, pass.Team)
}

func TestPossessionTurnoverIncrementsNothing(t *testing.T) {
	p := NewPossessionTracker(DefaultConfig())

	a := playerFrame(1, utils.Team1, 100, 100)
	b := playerFrame(2, utils.Team2, 300, 100)

	p.Assign(0, ballAt(100, 100), map[int]*EntityFrame{1: a, 2: b})
	p.Assign(1, ballAt(300, 100), map[int]*EntityFrame{1: a, 2: b})

	tally := p.Tally()
	assert.Equal(t, 0, tally.Total, "a change to a different team is a turnover, not a pass")
	assert.Empty(t, p.Passes())
}

func TestPossessionFirstHolderIsNotAPass(t *testing.T) {
	p := NewPossessionTracker(DefaultConfig())

	p.Assign(0, ballAt(100, 100), map[int]*EntityFrame{1: playerFrame(1, utils.Team1, 100, 100)})

	assert.Equal(t, 0, p.Tally().Total)
}

func TestPossessionClusteredPlayersStayWithClosest(t *testing.T) {
	p := NewPossessionTracker(DefaultConfig())

	// three team-1 players within 10 px of each other and the ball for 5 frames;
	// the single closest player must hold every frame, not alternate
	for f := 0; f < 5; f++ {
		entities := map[int]*EntityFrame{
			1: playerFrame(1, utils.Team1, 100, 100),
			2: playerFrame(2, utils.Team1, 106, 100),
			3: playerFrame(3, utils.Team1, 109, 100),
		}
		rec := p.Assign(f, ballAt(92, 100), entities)
		assert.Equal(t, 1, rec.HolderID)
	}

	assert.Equal(t, 0, p.Tally().Total)
}

func TestPossessionTeamShare(t *testing.T) {
	p := NewPossessionTracker(DefaultConfig())

	a := playerFrame(1, utils.Team1, 100, 100)
	b := playerFrame(2, utils.Team2, 300, 100)

	p.Assign(0, ballAt(100, 100), map[int]*EntityFrame{1: a, 2: b})
	p.Assign(1, ballAt(100, 100), map[int]*EntityFrame{1: a, 2: b})
	p.Assign(2, ballAt(300, 100), map[int]*EntityFrame{1: a, 2: b})
	p.Assign(3, ballAt(300, 100), map[int]*EntityFrame{1: a, 2: b})

	t1, t2 := p.TeamShare()
	assert.InDelta(t, 0.5, t1, 1e-9)
	assert.InDelta(t, 0.5, t2, 1e-9)
}
