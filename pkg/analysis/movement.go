package analysis

import (
	"github.com/matchvision/match-analyzer/pkg/utils"
)

//MovementAggregator computes windowed speed and cumulative distance per
//entity. Court-plane coordinates are preferred; pixel distance scaled by the
//approximate conversion factor is the fallback when projection is unavailable.
type MovementAggregator struct {
	cfg    Config
	totals map[int]float64
}

func NewMovementAggregator(cfg Config) *MovementAggregator {
	return &MovementAggregator{
		cfg:    cfg,
		totals: make(map[int]float64),
	}
}

//Apply walks the frame results in fixed-size windows and writes speed and
//cumulative distance back onto every frame within each window, so the
//displayed values change once per window. Windows where an entity is absent
//from either endpoint are skipped without resetting the running total.
//Referees are excluded, their movement is not a match statistic.
func (m *MovementAggregator) Apply(frames []*FrameResult) {
	n := len(frames)
	if n < 2 {
		return
	}

	for start := 0; start < n; start += m.cfg.FrameWindow {
		end := start + m.cfg.FrameWindow
		if end > n-1 {
			end = n - 1
		}
		if end <= start {
			continue
		}

		for id, first := range frames[start].Entities {
			if first.Kind == utils.RefereeClass {
				continue
			}
			last, ok := frames[end].Entities[id]
			if !ok {
				continue
			}

			meters, ok := m.windowDistance(first, last)
			if !ok {
				continue
			}

			elapsed := float64(end-start) / m.cfg.FrameRate
			if elapsed <= 0 {
				continue
			}
			kmh := meters / elapsed * 3.6

			m.totals[id] += meters
			total := m.totals[id]

			for f := start; f <= end; f++ {
				ef, present := frames[f].Entities[id]
				if !present {
					continue
				}
				speed := kmh
				cumulative := total
				ef.Speed = &speed
				ef.Distance = &cumulative
			}
		}
	}
}

//TotalDistance returns the accumulated distance in meters for an entity
func (m *MovementAggregator) TotalDistance(id int) float64 {
	return m.totals[id]
}

//windowDistance measures the distance in meters between the window endpoints
func (m *MovementAggregator) windowDistance(first, last *EntityFrame) (float64, bool) {
	if first.Court != nil && last.Court != nil {
		return utils.Distance(first.Court.X, first.Court.Y, last.Court.X, last.Court.Y), true
	}

	if m.cfg.PixelsPerMeter <= 0 {
		return 0, false
	}
	a, b := first.Position, last.Position
	if first.Compensated != nil && last.Compensated != nil {
		a, b = *first.Compensated, *last.Compensated
	}
	return utils.Distance(a.X, a.Y, b.X, b.Y) / m.cfg.PixelsPerMeter, true
}
