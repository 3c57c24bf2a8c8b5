// Package simulation provides the tuning rules for a Pinewood session.
// Rules are loaded from a JSON file so a build can be rebalanced without code changes.
package simulation

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// Config holds all simulation rules for a session
type Config struct {
	Movement   MovementConfig   `json:"movement" jsonschema:"title=Movement,description=Player speed and playable bounds"`
	Battery    BatteryConfig    `json:"battery" jsonschema:"title=Battery,description=Flashlight battery drain"`
	Objective  ObjectiveConfig  `json:"objective" jsonschema:"title=Objective,description=Page pickup and campfire delivery"`
	Antagonist AntagonistConfig `json:"antagonist" jsonschema:"title=Antagonist,description=Threat signal, catch rule and teleport pacing"`
	World      WorldConfig      `json:"world" jsonschema:"title=World,description=Procedural forest layout"`
	Input      InputConfig      `json:"input" jsonschema:"title=Input,description=Look controls"`
}

// MovementConfig defines player movement
type MovementConfig struct {
	Speed           float64 `json:"speed" jsonschema:"minimum=0,description=Units per second"`
	BoundHalfExtent float64 `json:"bound_half_extent" jsonschema:"minimum=0,description=Playable square is [-h, h] on X and Z"`
}

// BatteryConfig defines the flashlight resource loop
type BatteryConfig struct {
	Capacity       float64 `json:"capacity" jsonschema:"minimum=0,maximum=100"`
	DrainPerSecond float64 `json:"drain_per_second" jsonschema:"minimum=0"`
	StartOn        bool    `json:"start_on"`
	LowThreshold   float64 `json:"low_threshold" jsonschema:"minimum=0,maximum=100,description=Level below which the beam starts to dim"`
	MinIntensity   float64 `json:"min_intensity" jsonschema:"minimum=0,maximum=1,description=Beam intensity at an empty battery"`
}

// ObjectiveConfig defines pages and delivery
type ObjectiveConfig struct {
	RequiredPages  int     `json:"required_pages" jsonschema:"minimum=1"`
	PickupRadius   float64 `json:"pickup_radius" jsonschema:"minimum=0"`
	DeliveryRadius float64 `json:"delivery_radius" jsonschema:"minimum=0"`
}

// AntagonistConfig defines threat, catch and teleport rules
type AntagonistConfig struct {
	ProximityRange  float64 `json:"proximity_range" jsonschema:"minimum=0,description=Proximity threat is zero at or beyond this distance"`
	GazeRange       float64 `json:"gaze_range" jsonschema:"minimum=0,description=Gaze threat only counts inside this distance"`
	GazeCutoff      float64 `json:"gaze_cutoff" jsonschema:"minimum=-1,maximum=1"`
	JitterAmplitude float64 `json:"jitter_amplitude" jsonschema:"minimum=0"`
	MaxThreat       float64 `json:"max_threat" jsonschema:"minimum=0,maximum=1"`

	CatchDistance float64 `json:"catch_distance" jsonschema:"minimum=0"`
	CatchGaze     float64 `json:"catch_gaze" jsonschema:"minimum=-1,maximum=1"`

	// TeleportIntervals is indexed by pages collected; the last entry covers everything beyond.
	TeleportIntervals []float64 `json:"teleport_intervals" jsonschema:"minItems=1,description=Seconds between teleports indexed by pages collected"`
	MinInterval       float64   `json:"min_interval" jsonschema:"minimum=0"`

	AheadBase    float64 `json:"ahead_base" jsonschema:"minimum=0,maximum=1"`
	AheadPerPage float64 `json:"ahead_per_page" jsonschema:"minimum=0,maximum=1"`
	AheadMax     float64 `json:"ahead_max" jsonschema:"minimum=0,maximum=1"`

	MinSpawnDistance float64 `json:"min_spawn_distance" jsonschema:"minimum=0"`
	MaxSpawnDistance float64 `json:"max_spawn_distance" jsonschema:"minimum=0"`
	EarlyGamePages   int     `json:"early_game_pages" jsonschema:"minimum=0"`
	SafeDistance     float64 `json:"safe_distance" jsonschema:"minimum=0"`
	SpawnHeight      float64 `json:"spawn_height"`
	DormantDistance  float64 `json:"dormant_distance" jsonschema:"minimum=0,description=Where the antagonist waits before its first teleport"`
}

// WorldConfig defines forest generation
type WorldConfig struct {
	TreeCount         int     `json:"tree_count" jsonschema:"minimum=0"`
	TreeRadius        float64 `json:"tree_radius" jsonschema:"minimum=0"`
	TreeSpread        float64 `json:"tree_spread" jsonschema:"minimum=0,description=Trees are placed in [-s, s]"`
	SpawnClearing     float64 `json:"spawn_clearing" jsonschema:"minimum=0,description=Half-extent of the tree-free square around the origin"`
	HouseRadius       float64 `json:"house_radius" jsonschema:"minimum=0"`
	HouseMinDistance  float64 `json:"house_min_distance" jsonschema:"minimum=0"`
	CampfireMinDist   float64 `json:"campfire_min_distance" jsonschema:"minimum=0"`
	CampfireHouseDist float64 `json:"campfire_house_distance" jsonschema:"minimum=0"`
	CampfireClearing  float64 `json:"campfire_clearing" jsonschema:"minimum=0"`
	PlacementAttempts int     `json:"placement_attempts" jsonschema:"minimum=1"`
	MaxPages          int     `json:"max_pages" jsonschema:"minimum=0"`
	PageSpawnChance   float64 `json:"page_spawn_chance" jsonschema:"minimum=0,maximum=1"`
	PageOffset        float64 `json:"page_offset" jsonschema:"minimum=0,description=Distance from the tree center a page is pinned at"`
	PageHeight        float64 `json:"page_height"`

	PlayerSpawn [3]float64 `json:"player_spawn" jsonschema:"description=Player start position (x, y, z); y is eye height"`
}

// InputConfig defines look controls
type InputConfig struct {
	LookSensitivity float64 `json:"look_sensitivity" jsonschema:"minimum=0,description=Radians per pixel of pointer movement"`
}

// DefaultConfig returns the canonical rule set
func DefaultConfig() *Config {
	return &Config{
		Movement: MovementConfig{
			Speed:           5.0,
			BoundHalfExtent: 98,
		},
		Battery: BatteryConfig{
			Capacity:       100,
			DrainPerSecond: 100.0 / 300.0,
			StartOn:        true,
			LowThreshold:   20,
			MinIntensity:   0.35,
		},
		Objective: ObjectiveConfig{
			RequiredPages:  3,
			PickupRadius:   1.5,
			DeliveryRadius: 6.0,
		},
		Antagonist: AntagonistConfig{
			ProximityRange:    20,
			GazeRange:         40,
			GazeCutoff:        0.5,
			JitterAmplitude:   0.05,
			MaxThreat:         0.8,
			CatchDistance:     8.0,
			CatchGaze:         0.7,
			TeleportIntervals: []float64{15, 10, 5, 2.5},
			MinInterval:       2.5,
			AheadBase:         0.25,
			AheadPerPage:      0.2,
			AheadMax:          0.9,
			MinSpawnDistance:  10,
			MaxSpawnDistance:  25,
			EarlyGamePages:    2,
			SafeDistance:      15,
			SpawnHeight:       1.7,
			DormantDistance:   1000,
		},
		World: WorldConfig{
			TreeCount:         300,
			TreeRadius:        2,
			TreeSpread:        95,
			SpawnClearing:     10,
			HouseRadius:       6,
			HouseMinDistance:  30,
			CampfireMinDist:   40,
			CampfireHouseDist: 15,
			CampfireClearing:  4,
			PlacementAttempts: 50,
			MaxPages:          3,
			PageSpawnChance:   0.02,
			PageOffset:        2.3,
			PageHeight:        1.5,
			PlayerSpawn:       [3]float64{0, 1.7, 5},
		},
		Input: InputConfig{
			LookSensitivity: 0.002,
		},
	}
}

// LoadConfig loads simulation config from a JSON file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		// Return defaults if file doesn't exist
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read simulation config: %w", err)
	}

	config := DefaultConfig() // Start with defaults
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse simulation config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid simulation config %s: %w", path, err)
	}

	return config, nil
}

// Validate rejects tunings the simulation cannot run with
func (c *Config) Validate() error {
	var errs []error

	if c.Movement.Speed < 0 {
		errs = append(errs, errors.New("movement.speed must not be negative"))
	}
	if c.Movement.BoundHalfExtent <= 0 {
		errs = append(errs, errors.New("movement.bound_half_extent must be positive"))
	}
	if c.Battery.Capacity <= 0 || c.Battery.Capacity > 100 {
		errs = append(errs, errors.New("battery.capacity must be in (0, 100]"))
	}
	if c.Battery.DrainPerSecond < 0 {
		errs = append(errs, errors.New("battery.drain_per_second must not be negative"))
	}
	if c.Objective.RequiredPages < 1 {
		errs = append(errs, errors.New("objective.required_pages must be at least 1"))
	}
	if c.Objective.RequiredPages > c.World.MaxPages {
		errs = append(errs, fmt.Errorf("objective.required_pages (%d) exceeds world.max_pages (%d)",
			c.Objective.RequiredPages, c.World.MaxPages))
	}

	a := c.Antagonist
	if len(a.TeleportIntervals) == 0 {
		errs = append(errs, errors.New("antagonist.teleport_intervals must not be empty"))
	}
	for i := 1; i < len(a.TeleportIntervals); i++ {
		if a.TeleportIntervals[i] > a.TeleportIntervals[i-1] {
			errs = append(errs, fmt.Errorf("antagonist.teleport_intervals must not increase (index %d)", i))
			break
		}
	}
	if a.MinSpawnDistance > a.MaxSpawnDistance {
		errs = append(errs, errors.New("antagonist.min_spawn_distance exceeds max_spawn_distance"))
	}
	if a.MaxThreat < 0 || a.MaxThreat > 1 {
		errs = append(errs, errors.New("antagonist.max_threat must be in [0, 1]"))
	}
	if a.GazeCutoff >= 1 {
		errs = append(errs, errors.New("antagonist.gaze_cutoff must be below 1"))
	}
	if c.World.PlacementAttempts < 1 {
		errs = append(errs, errors.New("world.placement_attempts must be at least 1"))
	}

	return errors.Join(errs...)
}

// TeleportInterval returns the seconds between teleports for a page count
func (a *AntagonistConfig) TeleportInterval(pages int) float64 {
	if len(a.TeleportIntervals) == 0 {
		return a.MinInterval
	}
	if pages < 0 {
		pages = 0
	}
	if pages >= len(a.TeleportIntervals) {
		pages = len(a.TeleportIntervals) - 1
	}
	interval := a.TeleportIntervals[pages]
	if interval < a.MinInterval {
		interval = a.MinInterval
	}
	return interval
}

// AheadChance returns the probability of spawning in the player's line of sight
func (a *AntagonistConfig) AheadChance(pages int) float64 {
	p := a.AheadBase + a.AheadPerPage*float64(pages)
	if p > a.AheadMax {
		p = a.AheadMax
	}
	if p < 0 {
		p = 0
	}
	return p
}
