package agent

// AI Constants for Agent Behavior
// Defaults for every tunable the decision engine reads. Params carries them
// at runtime so a config file can override any of them.

const (
	// Perception
	DetectionRadius = 500.0 // Objects farther than this are ignored (priority pickups excepted)

	// Boundary guard
	BoundaryThreshold = 90.0 // Distance to a closing-boundary plane that triggers an escape

	// Path planner
	RingPoints = 6    // Candidate waypoints sampled around a target
	RingRadius = 80.0 // Stand-off distance from the target

	// Targeting
	AimJitterDeg = 3.0   // Maximum random aim deviation in degrees
	BulletSpeed  = 450.0 // Bullet travel per turn, used only for lead shots

	// Movement
	ReferenceMaxSpeed = 140.0 // Nominal top speed of a tank
	OptimalSpeedRatio = 0.5   // Below this share of ReferenceMaxSpeed the tank counts as stuck

	// State machine
	PatienceTurns = 15 // Counted turns before the agent gives up waiting and attacks
)

// Params are the decision engine tunables.
type Params struct {
	DetectionRadius   float64 `yaml:"detection_radius" json:"detection_radius" jsonschema:"minimum=0,description=Perception cutoff in map units"`
	BoundaryThreshold float64 `yaml:"boundary_threshold" json:"boundary_threshold" jsonschema:"minimum=0,description=Distance to a boundary plane that triggers an escape"`
	RingPoints        int     `yaml:"ring_points" json:"ring_points" jsonschema:"minimum=1,description=Waypoints sampled around a path target"`
	RingRadius        float64 `yaml:"ring_radius" json:"ring_radius" jsonschema:"minimum=0,description=Stand-off distance from a path target"`
	AimJitterDeg      float64 `yaml:"aim_jitter_deg" json:"aim_jitter_deg" jsonschema:"minimum=0,maximum=180,description=Maximum random aim deviation in degrees"`
	ReferenceMaxSpeed float64 `yaml:"reference_max_speed" json:"reference_max_speed" jsonschema:"minimum=0"`
	OptimalSpeedRatio float64 `yaml:"optimal_speed_ratio" json:"optimal_speed_ratio" jsonschema:"minimum=0,maximum=1"`
	PatienceTurns     int     `yaml:"patience_turns" json:"patience_turns" jsonschema:"minimum=0,description=Counted turns before forcing an attack"`
	LeadShots         bool    `yaml:"lead_shots" json:"lead_shots" jsonschema:"description=Aim at the predicted intercept point of a moving enemy"`
	BulletSpeed       float64 `yaml:"bullet_speed" json:"bullet_speed" jsonschema:"exclusiveMinimum=0"`
	CornerEscape      bool    `yaml:"corner_escape" json:"corner_escape" jsonschema:"description=Steer to the arena center when near two planes or outside the arena"`
}

// DefaultParams returns the stock tuning.
func DefaultParams() Params {
	return Params{
		DetectionRadius:   DetectionRadius,
		BoundaryThreshold: BoundaryThreshold,
		RingPoints:        RingPoints,
		RingRadius:        RingRadius,
		AimJitterDeg:      AimJitterDeg,
		ReferenceMaxSpeed: ReferenceMaxSpeed,
		OptimalSpeedRatio: OptimalSpeedRatio,
		PatienceTurns:     PatienceTurns,
		LeadShots:         false,
		BulletSpeed:       BulletSpeed,
		CornerEscape:      true,
	}
}

// stuckSpeed is the speed under which the agent picks a fresh heading.
func (p Params) stuckSpeed() float64 {
	return p.OptimalSpeedRatio * p.ReferenceMaxSpeed
}
