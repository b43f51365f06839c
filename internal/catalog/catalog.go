// Package catalog holds the curated landmark, dialect and style tables.
//
// A Catalog is immutable once built and safe for concurrent use. Accessors
// return copies so callers cannot mutate the shared tables.
package catalog

import (
	_ "embed"
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ShayCichocki/litmap/pkg/models"
)

//go:embed data/catalog.yaml
var embedded []byte

// Catalog is the read-only curated data set.
type Catalog struct {
	order     []string
	landmarks map[string]models.Landmark
	dialects  map[string]models.Dialect
	styles    map[string]models.Style
}

// file is the on-disk layout of a catalog document.
type file struct {
	Landmarks []models.Landmark         `yaml:"landmarks"`
	Dialects  map[string]models.Dialect `yaml:"dialects"`
	Styles    map[string]models.Style   `yaml:"styles"`
}

// Embedded returns the catalog compiled into the binary.
func Embedded() (*Catalog, error) {
	return Parse(embedded)
}

// Load reads a catalog from path. An empty path selects the embedded data.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Embedded()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	cat, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return cat, nil
}

// Parse builds a catalog from a YAML document.
func Parse(data []byte) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	c := &Catalog{
		landmarks: make(map[string]models.Landmark, len(f.Landmarks)),
		dialects:  make(map[string]models.Dialect, len(f.Dialects)),
		styles:    make(map[string]models.Style, len(f.Styles)),
	}

	for i, lm := range f.Landmarks {
		lm.ID = strings.TrimSpace(lm.ID)
		if lm.ID == "" {
			return nil, fmt.Errorf("landmark %d: missing id", i)
		}
		if _, dup := c.landmarks[lm.ID]; dup {
			return nil, fmt.Errorf("landmark %q: duplicate id", lm.ID)
		}
		c.landmarks[lm.ID] = lm
		c.order = append(c.order, lm.ID)
	}
	for era, d := range f.Dialects {
		c.dialects[era] = d
	}
	for era, s := range f.Styles {
		c.styles[era] = s
	}

	return c, nil
}

// Landmark returns the curated landmark with the given id.
func (c *Catalog) Landmark(id string) (models.Landmark, bool) {
	lm, ok := c.landmarks[id]
	if !ok {
		return models.Landmark{}, false
	}
	return cloneLandmark(lm), true
}

// Landmarks returns every landmark in catalog order.
func (c *Catalog) Landmarks() []models.Landmark {
	out := make([]models.Landmark, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, cloneLandmark(c.landmarks[id]))
	}
	return out
}

// Dialect returns the curated dialect entry for an era.
func (c *Catalog) Dialect(era string) (models.Dialect, bool) {
	d, ok := c.dialects[era]
	if !ok {
		return models.Dialect{}, false
	}
	d.Slang = slices.Clone(d.Slang)
	return d, true
}

// Style returns the curated map style for an era.
func (c *Catalog) Style(era string) (models.Style, bool) {
	s, ok := c.styles[era]
	if !ok {
		return models.Style{}, false
	}
	s.PaintOverrides = maps.Clone(s.PaintOverrides)
	return s, true
}

// Eras returns the sorted set of eras with a dialect or style entry.
func (c *Catalog) Eras() []string {
	seen := make(map[string]struct{}, len(c.dialects)+len(c.styles))
	for era := range c.dialects {
		seen[era] = struct{}{}
	}
	for era := range c.styles {
		seen[era] = struct{}{}
	}
	return slices.Sorted(maps.Keys(seen))
}

func cloneLandmark(lm models.Landmark) models.Landmark {
	lm.Mood = slices.Clone(lm.Mood)
	lm.Coordinates = slices.Clone(lm.Coordinates)
	return lm
}
