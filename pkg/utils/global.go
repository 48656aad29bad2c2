package utils

//PlayerClass is the detector class name for an outfield player
const PlayerClass = "player"

//GoalkeeperClass is the detector class name for a goalkeeper
const GoalkeeperClass = "goalkeeper"

//RefereeClass is the detector class name for a referee
const RefereeClass = "referee"

//BallClass is the detector class name for the ball
const BallClass = "ball"

//Team1 is the id of the team with the lighter kit
const Team1 = 1

//Team2 is the id of the team with the darker kit
const Team2 = 2

//NoHolder marks a possession frame without an assigned holder
const NoHolder = -1

//TrackableClasses are the detector classes the external tracker assigns transient ids to.
//The ball is detection-only and never carries a transient id.
var TrackableClasses = []string{PlayerClass, GoalkeeperClass, RefereeClass}
