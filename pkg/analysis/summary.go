package analysis

import (
	"sort"

	"github.com/matchvision/match-analyzer/pkg/utils"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

//PlayerMovement is the clip-level movement summary for one entity
type PlayerMovement struct {
	ID            int     `json:"id"`
	Team          int     `json:"team"`
	AvgSpeedKmh   float64 `json:"avg_speed_kmh"`
	MaxSpeedKmh   float64 `json:"max_speed_kmh"`
	TotalDistance float64 `json:"total_distance_m"`
}

//ClipSummary is the clip-level aggregate output
type ClipSummary struct {
	Frames              int              `json:"frames"`
	UniquePlayers       int              `json:"unique_players"`
	Team1PossessionPct  float64          `json:"team_1_possession_pct"`
	Team2PossessionPct  float64          `json:"team_2_possession_pct"`
	PlayerPossessionPct map[int]float64  `json:"player_possession_pct"`
	Passes              PassTally        `json:"passes"`
	Movement            []PlayerMovement `json:"movement"`
	FastestPlayer       *PlayerMovement  `json:"fastest_player,omitempty"`
}

//Summarize builds the clip-level aggregates from the per-frame results
func Summarize(frames []*FrameResult, poss *PossessionTracker, mov *MovementAggregator) ClipSummary {
	t1, t2 := poss.TeamShare()

	holderFrames := poss.HolderFrames()
	totalHeld := 0
	for _, c := range holderFrames {
		totalHeld += c
	}
	playerPct := make(map[int]float64, len(holderFrames))
	for id, c := range holderFrames {
		if totalHeld > 0 {
			playerPct[id] = float64(c) / float64(totalHeld) * 100
		}
	}

	speeds := make(map[int][]float64)
	teams := make(map[int]int)
	for _, fr := range frames {
		for id, ef := range fr.Entities {
			if ef.Kind == utils.RefereeClass {
				continue
			}
			teams[id] = ef.Team
			if ef.Speed != nil {
				speeds[id] = append(speeds[id], *ef.Speed)
			}
		}
	}

	movement := make([]PlayerMovement, 0, len(teams))
	for id, team := range teams {
		pm := PlayerMovement{
			ID:            id,
			Team:          team,
			TotalDistance: mov.TotalDistance(id),
		}
		if s := speeds[id]; len(s) > 0 {
			pm.AvgSpeedKmh = stat.Mean(s, nil)
			pm.MaxSpeedKmh = floats.Max(s)
		}
		movement = append(movement, pm)
	}
	sort.Slice(movement, func(i, j int) bool { return movement[i].ID < movement[j].ID })

	var fastest *PlayerMovement
	for i := range movement {
		if fastest == nil || movement[i].MaxSpeedKmh > fastest.MaxSpeedKmh {
			fastest = &movement[i]
		}
	}

	return ClipSummary{
		Frames:              len(frames),
		UniquePlayers:       len(teams),
		Team1PossessionPct:  t1 * 100,
		Team2PossessionPct:  t2 * 100,
		PlayerPossessionPct: playerPct,
		Passes:              poss.Tally(),
		Movement:            movement,
		FastestPlayer:       fastest,
	}
}
