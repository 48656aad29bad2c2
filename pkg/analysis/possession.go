package analysis

import (
	"image"

	"github.com/matchvision/match-analyzer/pkg/utils"
)

//PassTally is the running pass count, total, per team and per passer
type PassTally struct {
	Total    int
	Team1    int
	Team2    int
	ByPlayer map[int]int
}

//PossessionTracker is the streaming possession and pass state machine.
//States are no-holder and held-by(id, team); frames must arrive in order.
type PossessionTracker struct {
	cfg        Config
	holderID   int
	holderTeam int
	tally      PassTally
	passes     []PassEvent
	records    []PossessionRecord
	teamFrames map[int]int
	byHolder   map[int]int
}

func NewPossessionTracker(cfg Config) *PossessionTracker {
	return &PossessionTracker{
		cfg:        cfg,
		holderID:   utils.NoHolder,
		holderTeam: utils.Team1,
		tally:      PassTally{ByPlayer: make(map[int]int)},
		teamFrames: make(map[int]int),
		byHolder:   make(map[int]int),
	}
}

//Assign computes the possession holder for this frame. The closest player
//within the distance threshold becomes the holder; with no qualifier the
//previous holder persists, so brief ball occlusion does not flicker the
//state. Before any holder ever existed the team defaults to team 1.
func (p *PossessionTracker) Assign(frame int, ball *image.Rectangle, entities map[int]*EntityFrame) PossessionRecord {
	if ball != nil {
		bx, by := utils.Center(*ball)
		if holder := p.closestPlayer(bx, by, entities); holder != nil {
			p.transferTo(frame, holder)
		}
	}

	if p.holderID != utils.NoHolder {
		if ef, ok := entities[p.holderID]; ok {
			ef.HasBall = true
		}
		p.byHolder[p.holderID]++
	}
	p.teamFrames[p.holderTeam]++

	rec := PossessionRecord{Frame: frame, HolderID: p.holderID, Team: p.holderTeam}
	p.records = append(p.records, rec)
	return rec
}

//closestPlayer finds the player whose nearest foot corner is closest to the
//ball's reference point, within the possession distance threshold
func (p *PossessionTracker) closestPlayer(bx, by float64, entities map[int]*EntityFrame) *EntityFrame {
	var best *EntityFrame
	bestDist := p.cfg.PossessionDistance

	for _, ef := range entities {
		if ef.Kind != utils.PlayerClass && ef.Kind != utils.GoalkeeperClass {
			continue
		}
		left := utils.Distance(float64(ef.Bbox.Min.X), float64(ef.Bbox.Max.Y), bx, by)
		right := utils.Distance(float64(ef.Bbox.Max.X), float64(ef.Bbox.Max.Y), bx, by)
		d := left
		if right < d {
			d = right
		}
		if d < bestDist {
			bestDist = d
			best = ef
		}
	}

	return best
}

//transferTo moves possession to a new holder. A transfer to a different
//entity on the same team within the streak is a completed pass; a transfer
//to the other team is a turnover and increments nothing.
func (p *PossessionTracker) transferTo(frame int, holder *EntityFrame) {
	if holder.ID == p.holderID {
		return
	}

	if p.holderID != utils.NoHolder && holder.Team == p.holderTeam {
		p.tally.Total++
		if holder.Team == utils.Team1 {
			p.tally.Team1++
		} else {
			p.tally.Team2++
		}
		p.tally.ByPlayer[p.holderID]++
		p.passes = append(p.passes, PassEvent{
			Frame: frame,
			From:  p.holderID,
			To:    holder.ID,
			Team:  holder.Team,
		})
	}

	p.holderID = holder.ID
	p.holderTeam = holder.Team
}

//Tally returns the running pass counts
func (p *PossessionTracker) Tally() PassTally {
	return p.tally
}

//Passes returns all completed pass events in frame order
func (p *PossessionTracker) Passes() []PassEvent {
	return p.passes
}

//TeamShare returns each team's share of possession frames, in [0,1].
//With no frames processed both shares are 0.5.
func (p *PossessionTracker) TeamShare() (float64, float64) {
	total := p.teamFrames[utils.Team1] + p.teamFrames[utils.Team2]
	if total == 0 {
		return 0.5, 0.5
	}
	return float64(p.teamFrames[utils.Team1]) / float64(total),
		float64(p.teamFrames[utils.Team2]) / float64(total)
}

//HolderFrames returns per-entity counts of frames spent holding the ball
func (p *PossessionTracker) HolderFrames() map[int]int {
	return p.byHolder
}

//Records returns the per-frame possession timeline
func (p *PossessionTracker) Records() []PossessionRecord {
	return p.records
}
