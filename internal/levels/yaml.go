package levels

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tilebox/internal/core"
)

// Map runes with a fixed meaning. Any other non-blank rune must be in the legend.
const (
	runePlayer = 'P'
	runeCoin   = 'C'
)

// DefaultLegend is used when a level declares no legend.
var DefaultLegend = map[string]string{"#": "ground"}

// YAMLLevel represents the YAML structure for a level file.
type YAMLLevel struct {
	ID        string            `yaml:"id"`
	Name      string            `yaml:"name"`
	ChunkSize int               `yaml:"chunk_size,omitempty"`
	Cell      *YAMLSize         `yaml:"cell,omitempty"`
	Origin    YAMLVec           `yaml:"origin,omitempty"`
	Gravity   *YAMLVec          `yaml:"gravity,omitempty"`
	Map       []string          `yaml:"map"`
	Legend    map[string]string `yaml:"legend,omitempty"`
	Spawns    []YAMLSpawn       `yaml:"spawns,omitempty"`
	Rects     []YAMLRect        `yaml:"rects,omitempty"`
}

// YAMLVec is an x/y pair.
type YAMLVec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// YAMLSize is a w/h pair.
type YAMLSize struct {
	W float64 `yaml:"w"`
	H float64 `yaml:"h"`
}

// YAMLSpawn is an explicitly placed dynamic body in world units.
type YAMLSpawn struct {
	Name    string  `yaml:"name"`
	X       float64 `yaml:"x"`
	Y       float64 `yaml:"y"`
	W       float64 `yaml:"w,omitempty"` // 0 uses the configured player size
	H       float64 `yaml:"h,omitempty"`
	VX      float64 `yaml:"vx,omitempty"`
	VY      float64 `yaml:"vy,omitempty"`
	Trigger bool    `yaml:"trigger,omitempty"`
}

// YAMLRect is a static rect collider in world units.
type YAMLRect struct {
	Name string  `yaml:"name"`
	X    float64 `yaml:"x"`
	Y    float64 `yaml:"y"`
	W    float64 `yaml:"w"`
	H    float64 `yaml:"h"`
}

// ParseYAML parses a YAML level file.
func ParseYAML(data []byte) (Level, error) {
	var yl YAMLLevel
	if err := yaml.Unmarshal(data, &yl); err != nil {
		return Level{}, fmt.Errorf("yaml unmarshal: %w", err)
	}
	if yl.ID == "" {
		return Level{}, fmt.Errorf("level has no id")
	}

	legend := yl.Legend
	if len(legend) == 0 {
		legend = DefaultLegend
	}
	runes := make(map[rune]string, len(legend))
	for k, v := range legend {
		r := []rune(k)
		if len(r) != 1 {
			return Level{}, fmt.Errorf("level %s: legend key %q must be a single character", yl.ID, k)
		}
		runes[r[0]] = v
	}

	level := Level{
		ID:        yl.ID,
		Name:      yl.Name,
		ChunkSize: yl.ChunkSize,
		Origin:    core.V(yl.Origin.X, yl.Origin.Y),
		Tiles:     make(map[core.Coord]string),
	}
	if level.Name == "" {
		level.Name = yl.ID
	}
	if yl.Cell != nil {
		level.Cell = core.V(yl.Cell.W, yl.Cell.H)
	}
	if yl.Gravity != nil {
		g := core.V(yl.Gravity.X, yl.Gravity.Y)
		level.Gravity = &g
	}

	coins := 0
	for y, row := range yl.Map {
		x := 0
		for _, r := range row {
			p := core.C(x, y)
			x++
			switch {
			case r == ' ' || r == '.':
			case r == runePlayer:
				level.Spawns = append(level.Spawns, Spawn{Name: PlayerName, Cell: &p})
			case r == runeCoin:
				coins++
				level.Spawns = append(level.Spawns, Spawn{
					Name:    fmt.Sprintf("coin-%d", coins),
					Cell:    &p,
					Trigger: true,
				})
			default:
				res, ok := runes[r]
				if !ok {
					return Level{}, fmt.Errorf("level %s: unknown map rune %q at %v", yl.ID, r, p)
				}
				level.Tiles[p] = res
			}
		}
	}

	for i, s := range yl.Spawns {
		name := s.Name
		if name == "" {
			name = fmt.Sprintf("body-%d", i+1)
		}
		level.Spawns = append(level.Spawns, Spawn{
			Name:     name,
			Rect:     core.NewRect(s.X, s.Y, s.W, s.H),
			Velocity: core.V(s.VX, s.VY),
			Trigger:  s.Trigger,
		})
	}

	for i, r := range yl.Rects {
		if r.W <= 0 || r.H <= 0 {
			return Level{}, fmt.Errorf("level %s: rect %d has non-positive size", yl.ID, i)
		}
		name := r.Name
		if name == "" {
			name = fmt.Sprintf("rect-%d", i+1)
		}
		level.Rects = append(level.Rects, StaticRect{Name: name, Rect: core.NewRect(r.X, r.Y, r.W, r.H)})
	}

	return level, nil
}

// FormatExtensions returns supported file extensions.
func FormatExtensions() []string {
	return []string{".yaml", ".yml"}
}
