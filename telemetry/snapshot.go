package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pthm-cable/steer/steering"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot holds the flock state at one tick.
type Snapshot struct {
	Version int   `json:"version"`
	RNGSeed int64 `json:"rng_seed"`

	WorldWidth  float64 `json:"world_width"`
	WorldHeight float64 `json:"world_height"`

	Tick int32 `json:"tick"`

	Agents    []AgentState    `json:"agents"`
	Obstacles []ObstacleState `json:"obstacles"`

	Bookmark *Bookmark `json:"bookmark,omitempty"`
}

// AgentState holds one agent's kinematic and steering state.
type AgentState struct {
	ID uint32 `json:"id"`

	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	VelX     float64 `json:"vel_x"`
	VelY     float64 `json:"vel_y"`
	HeadingX float64 `json:"heading_x"`
	HeadingY float64 `json:"heading_y"`
	MaxSpeed float64 `json:"max_speed"`
	Scale    float64 `json:"scale"`

	Behaviors string  `json:"behaviors"`
	ForceX    float64 `json:"force_x"`
	ForceY    float64 `json:"force_y"`
	Neighbors int     `json:"neighbors"`
}

// ObstacleState holds one obstacle.
type ObstacleState struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius"`
}

// NewSnapshot captures the current state of w.
func NewSnapshot(w steering.World, seed int64, tick int32) *Snapshot {
	width, height := w.Bounds()
	s := &Snapshot{
		Version:     SnapshotVersion,
		RNGSeed:     seed,
		WorldWidth:  width,
		WorldHeight: height,
		Tick:        tick,
	}

	for _, a := range w.Agents() {
		f := a.Steering().Force()
		s.Agents = append(s.Agents, AgentState{
			ID:        uint32(a.ID()),
			X:         a.Pos().X,
			Y:         a.Pos().Y,
			VelX:      a.Velocity().X,
			VelY:      a.Velocity().Y,
			HeadingX:  a.Heading().X,
			HeadingY:  a.Heading().Y,
			MaxSpeed:  a.MaxSpeed(),
			Scale:     a.Scale().X,
			Behaviors: a.Steering().Flags().String(),
			ForceX:    f.X,
			ForceY:    f.Y,
			Neighbors: a.Steering().NeighborCount(),
		})
	}
	for _, ob := range w.Obstacles() {
		s.Obstacles = append(s.Obstacles, ObstacleState{X: ob.Center.X, Y: ob.Center.Y, Radius: ob.Radius})
	}

	return s
}

// SaveSnapshot writes a snapshot to disk.
// Returns the filepath where it was saved.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	name := fmt.Sprintf("snapshot_%d", snapshot.Tick)
	if snapshot.Bookmark != nil {
		sanitized := strings.ReplaceAll(string(snapshot.Bookmark.Type), " ", "_")
		name = fmt.Sprintf("snapshot_%d_%s", snapshot.Tick, sanitized)
	}
	name += ".json"

	path := filepath.Join(dir, name)

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}

	return path, nil
}

// LoadSnapshot reads a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if snapshot.Version != SnapshotVersion {
		return nil, fmt.Errorf("snapshot version %d, want %d", snapshot.Version, SnapshotVersion)
	}

	return &snapshot, nil
}
