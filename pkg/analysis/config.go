package analysis

//Config holds the pipeline tuning parameters. Zero values are not meaningful,
//use DefaultConfig and override single fields as needed.
type Config struct {
	//FrameRate is the source video frame rate used for speed conversion
	FrameRate float64
	//FrameWindow is the number of frames per speed/distance aggregation window
	FrameWindow int
	//ReconnectDistance is the maximum pixel distance between a new detection and a
	//missing entity's last known position for reconnection
	ReconnectDistance float64
	//ReconnectFrames is the maximum number of missing frames for reconnection
	ReconnectFrames int
	//EvictFrames is the number of unmatched frames after which an entity is
	//permanently evicted and its id retired
	EvictFrames int
	//MaxFrameJump is the per-frame displacement above which a same-transient-id
	//update is reported as a probable tracker error. The update is still accepted.
	MaxFrameJump float64
	//PossessionDistance is the maximum pixel distance between the ball and a
	//player's foot corner for possession assignment
	PossessionDistance float64
	//CourtLength and CourtWidth are the real-world court dimensions in meters
	CourtLength float64
	CourtWidth  float64
	//MotionNoiseFloor is the displacement in pixels below which camera motion is
	//reported as zero
	MotionNoiseFloor float64
	//PixelsPerMeter is the approximate conversion used when court projection is
	//unavailable
	PixelsPerMeter float64
	//HistorySize bounds each entity's position history ring
	HistorySize int
	//ProfileFrameBudget is how many frames to scan forward for a frame with
	//enough players to derive the team profile
	ProfileFrameBudget int
	//ProfileMinPlayers is the preferred player count for profile derivation
	ProfileMinPlayers int
}

//DefaultConfig returns the tuning used for broadcast soccer footage
func DefaultConfig() Config {
	return Config{
		FrameRate:          24,
		FrameWindow:        5,
		ReconnectDistance:  80,
		ReconnectFrames:    12,
		EvictFrames:        90,
		MaxFrameJump:       150,
		PossessionDistance: 70,
		CourtLength:        105,
		CourtWidth:         68,
		MotionNoiseFloor:   5,
		PixelsPerMeter:     20,
		HistorySize:        20,
		ProfileFrameBudget: 30,
		ProfileMinPlayers:  4,
	}
}
