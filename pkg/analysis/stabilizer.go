package analysis

import (
	"image"
	"image/color"

	"github.com/matchvision/match-analyzer/pkg/utils"
	"github.com/sirupsen/logrus"
)

//TeamResolver resolves the team and display color for a detection's bounding
//box on the current frame. The stabilizer never aborts a frame on resolver
//errors, it defaults to team 1 and a neutral color instead.
type TeamResolver func(bbox image.Rectangle) (int, color.RGBA, error)

//Stabilizer converts transient per-frame tracker ids into stable long-lived
//entities. Stable ids are monotonically assigned and never reused; team and
//display color are locked at creation and never change.
type Stabilizer struct {
	cfg      Config
	entities map[int]*StableEntity
	aliases  map[int]int
	nextID   int
}

func NewStabilizer(cfg Config) *Stabilizer {
	return &Stabilizer{
		cfg:      cfg,
		entities: make(map[int]*StableEntity),
		aliases:  make(map[int]int),
		nextID:   1,
	}
}

//Stabilize maps this frame's transient tracks to stable entities and returns
//the per-frame output records keyed by stable id. Frames must be passed in
//strictly increasing order.
func (s *Stabilizer) Stabilize(tracks []TransientTrack, resolve TeamResolver, frame int) map[int]*EntityFrame {
	out := make(map[int]*EntityFrame, len(tracks))

	for _, t := range tracks {
		cx, cy := utils.Center(t.Bbox)

		var entity *StableEntity
		if sid, ok := s.aliases[t.ID]; ok {
			entity = s.entities[sid]
		}

		if entity != nil {
			//soft motion gate: a teleport-sized jump on an unchanged transient id is
			//most likely an external tracker error, report it but keep the identity
			if last, ok := lastSample(entity); ok {
				if d := utils.Distance(cx, cy, last.X, last.Y); d > s.cfg.MaxFrameJump {
					logrus.WithFields(logrus.Fields{
						"entity":   entity.ID,
						"frame":    frame,
						"distance": d,
					}).Warn("Stabilize: displacement above per-frame limit, probable tracker id switch")
				}
			}
		} else {
			team, col, err := resolve(t.Bbox)
			if err != nil {
				logrus.Warnf("Stabilize: team classification failed, got '%v'. Defaulting to team %d", err, utils.Team1)
				team, col = utils.Team1, color.RGBA{128, 128, 128, 0}
			}

			//reconnection candidates must match the detection's kind and classified
			//team: team lock takes precedence over clustering noise, and a referee
			//near a missing player must never inherit the player's id. A mismatch
			//mints a new id instead
			entity = s.reconnect(t.Class, team, cx, cy, frame)
			if entity != nil {
				entity.Aliases = append(entity.Aliases, t.ID)
				logrus.WithFields(logrus.Fields{
					"entity":    entity.ID,
					"transient": t.ID,
					"frame":     frame,
				}).Debug("Stabilize: reconnected missing entity")
			} else {
				entity = &StableEntity{
					ID:      s.nextID,
					Kind:    t.Class,
					Team:    team,
					Color:   col,
					Aliases: []int{t.ID},
				}
				s.nextID++
				s.entities[entity.ID] = entity
				logrus.WithFields(logrus.Fields{
					"entity":    entity.ID,
					"transient": t.ID,
					"team":      team,
				}).Debug("Stabilize: minted new stable entity")
			}
			s.aliases[t.ID] = entity.ID
		}

		entity.LastSeen = frame
		entity.History = append(entity.History, PositionSample{Frame: frame, X: cx, Y: cy})
		if len(entity.History) > s.cfg.HistorySize {
			entity.History = entity.History[len(entity.History)-s.cfg.HistorySize:]
		}

		fx, fy := utils.FootPoint(t.Bbox)
		out[entity.ID] = &EntityFrame{
			ID:       entity.ID,
			Kind:     entity.Kind,
			Bbox:     t.Bbox,
			Team:     entity.Team,
			Color:    entity.Color,
			Position: Point{X: fx, Y: fy},
		}
	}

	s.evict(frame)

	return out
}

//reconnect searches active and missing entities of the same kind and team whose
//gap and distance are within budget. Euclidean nearest match wins. Entities
//matched in the current frame are excluded by the gap > 0 condition.
func (s *Stabilizer) reconnect(kind string, team int, x, y float64, frame int) *StableEntity {
	var best *StableEntity
	bestDist := s.cfg.ReconnectDistance

	for _, e := range s.entities {
		gap := frame - e.LastSeen
		if e.Kind != kind || e.Team != team || gap <= 0 || gap > s.cfg.ReconnectFrames {
			continue
		}
		last, ok := lastSample(e)
		if !ok {
			continue
		}
		if d := utils.Distance(x, y, last.X, last.Y); d < bestDist {
			bestDist = d
			best = e
		}
	}

	return best
}

//evict permanently removes entities unmatched beyond the eviction budget.
//Their ids are never reassigned because nextID only grows.
func (s *Stabilizer) evict(frame int) {
	for id, e := range s.entities {
		if frame-e.LastSeen <= s.cfg.EvictFrames {
			continue
		}
		for _, alias := range e.Aliases {
			if s.aliases[alias] == id {
				delete(s.aliases, alias)
			}
		}
		delete(s.entities, id)
		logrus.WithField("entity", id).Debug("Stabilize: evicted entity, id retired")
	}
}

//Entities returns the currently registered (active or missing) entities
func (s *Stabilizer) Entities() map[int]*StableEntity {
	return s.entities
}

func lastSample(e *StableEntity) (PositionSample, bool) {
	if len(e.History) == 0 {
		return PositionSample{}, false
	}
	return e.History[len(e.History)-1], true
}
