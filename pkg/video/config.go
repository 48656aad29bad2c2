package video

import (
	"github.com/matchvision/match-analyzer/pkg/analysis"
	"github.com/spf13/viper"
)

//configFromViper builds the analysis tuning from the loaded configuration file.
//Keys missing from the file keep their defaults
func configFromViper() analysis.Config {
	cfg := analysis.DefaultConfig()

	if viper.IsSet("analysis.frame_rate") {
		cfg.FrameRate = viper.GetFloat64("analysis.frame_rate")
	}
	if viper.IsSet("analysis.frame_window") {
		cfg.FrameWindow = viper.GetInt("analysis.frame_window")
	}
	if viper.IsSet("analysis.reconnect_distance") {
		cfg.ReconnectDistance = viper.GetFloat64("analysis.reconnect_distance")
	}
	if viper.IsSet("analysis.reconnect_frames") {
		cfg.ReconnectFrames = viper.GetInt("analysis.reconnect_frames")
	}
	if viper.IsSet("analysis.evict_frames") {
		cfg.EvictFrames = viper.GetInt("analysis.evict_frames")
	}
	if viper.IsSet("analysis.max_frame_jump") {
		cfg.MaxFrameJump = viper.GetFloat64("analysis.max_frame_jump")
	}
	if viper.IsSet("analysis.possession_distance") {
		cfg.PossessionDistance = viper.GetFloat64("analysis.possession_distance")
	}
	if viper.IsSet("analysis.court_length") {
		cfg.CourtLength = viper.GetFloat64("analysis.court_length")
	}
	if viper.IsSet("analysis.court_width") {
		cfg.CourtWidth = viper.GetFloat64("analysis.court_width")
	}
	if viper.IsSet("analysis.pixels_per_meter") {
		cfg.PixelsPerMeter = viper.GetFloat64("analysis.pixels_per_meter")
	}

	return cfg
}
