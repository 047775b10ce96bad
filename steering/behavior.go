// Package steering composes per-agent steering forces from a set of named
// behaviors and integrates them into vehicle motion.
package steering

import (
	"fmt"
	"strings"
)

// Behavior is a set of steering behaviors.
type Behavior uint32

// None is the empty set.
const None Behavior = 0

const (
	Seek Behavior = 1 << iota
	Flee
	Arrive
	Wander
	Cohesion
	Separation
	Alignment
	ObstacleAvoidance
	WallAvoidance
	FollowPath
	Pursuit
	Evade
	Interpose
	Hide
	OffsetPursuit

	// Flock is the classic group preset.
	Flock = Separation | Alignment | Cohesion | Wander
)

// Order in which WeightedAverage and Prioritized evaluate behaviors.
// Avoidance first, group behaviors next, single-target seeking last.
var priorityOrder = []Behavior{
	WallAvoidance,
	ObstacleAvoidance,
	Evade,
	Flee,
	Separation,
	Alignment,
	Cohesion,
	Seek,
	Arrive,
	Wander,
	Pursuit,
	OffsetPursuit,
	Interpose,
	Hide,
	FollowPath,
}

var behaviorNames = map[Behavior]string{
	Seek:              "seek",
	Flee:              "flee",
	Arrive:            "arrive",
	Wander:            "wander",
	Cohesion:          "cohesion",
	Separation:        "separation",
	Alignment:         "alignment",
	ObstacleAvoidance: "obstacle_avoidance",
	WallAvoidance:     "wall_avoidance",
	FollowPath:        "follow_path",
	Pursuit:           "pursuit",
	Evade:             "evade",
	Interpose:         "interpose",
	Hide:              "hide",
	OffsetPursuit:     "offset_pursuit",
}

// Has checks if the set contains every behavior in other.
func (b Behavior) Has(other Behavior) bool {
	return other != None && b&other == other
}

// HasAny checks if the set shares any behavior with other.
func (b Behavior) HasAny(other Behavior) bool {
	return b&other != 0
}

// Add adds behaviors to the set.
func (b Behavior) Add(other Behavior) Behavior {
	return b | other
}

// Remove removes behaviors from the set.
func (b Behavior) Remove(other Behavior) Behavior {
	return b &^ other
}

// Names lists the set's members in priority order.
func (b Behavior) Names() []string {
	var names []string
	for _, x := range priorityOrder {
		if b.Has(x) {
			names = append(names, behaviorNames[x])
		}
	}
	return names
}

func (b Behavior) String() string {
	if b == None {
		return "none"
	}
	return strings.Join(b.Names(), "|")
}

// ParseBehavior looks a single behavior up by name.
func ParseBehavior(name string) (Behavior, error) {
	for b, n := range behaviorNames {
		if n == name {
			return b, nil
		}
	}
	return None, fmt.Errorf("unknown behavior %q", name)
}

// ParseBehaviors unions a list of behavior names.
func ParseBehaviors(names []string) (Behavior, error) {
	var set Behavior
	for _, n := range names {
		b, err := ParseBehavior(n)
		if err != nil {
			return None, err
		}
		set = set.Add(b)
	}
	return set, nil
}

// SummingMethod selects how active behavior forces are combined.
type SummingMethod uint8

const (
	WeightedAverage SummingMethod = iota
	Prioritized
	Dithered
)

func (m SummingMethod) String() string {
	switch m {
	case WeightedAverage:
		return "weighted_average"
	case Prioritized:
		return "prioritized"
	case Dithered:
		return "dithered"
	}
	return fmt.Sprintf("SummingMethod(%d)", m)
}

// ParseSummingMethod converts a config name to a SummingMethod.
func ParseSummingMethod(s string) (SummingMethod, error) {
	switch s {
	case "weighted_average":
		return WeightedAverage, nil
	case "prioritized":
		return Prioritized, nil
	case "dithered":
		return Dithered, nil
	}
	return 0, fmt.Errorf("unknown summing method %q", s)
}

// Deceleration controls how hard Arrive brakes. Larger values arrive more gently.
type Deceleration int

const (
	Fast   Deceleration = 1
	Normal Deceleration = 2
	Slow   Deceleration = 3
)

func (d Deceleration) String() string {
	switch d {
	case Fast:
		return "fast"
	case Normal:
		return "normal"
	case Slow:
		return "slow"
	}
	return fmt.Sprintf("Deceleration(%d)", int(d))
}

// ParseDeceleration converts a config name to a Deceleration.
func ParseDeceleration(s string) (Deceleration, error) {
	switch s {
	case "fast":
		return Fast, nil
	case "normal":
		return Normal, nil
	case "slow":
		return Slow, nil
	}
	return 0, fmt.Errorf("unknown deceleration %q", s)
}
