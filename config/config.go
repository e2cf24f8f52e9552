// Package config describes the scenes the voxel engine builds: the tree height and the
// voxels, lights, and primitive shapes to insert.
package config

import (
	"fmt"
	"math"

	"github.com/go-viper/mapstructure/v2"
	"github.com/golang/geo/r3"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.viam.com/utils"

	"go.viam.com/svo/octree"
)

// DefaultMaxDepth is used when a config leaves max_depth unset.
const DefaultMaxDepth = 6

// DefaultColor is used for voxels and primitives without a color.
const DefaultColor = "#ffffff"

// The primitive shapes a scene can contain.
const (
	PrimitiveTypeBox    = "box"
	PrimitiveTypeSphere = "sphere"
)

// A Config describes a scene.
type Config struct {
	ConfigFilePath string            `json:"-"`
	MaxDepth       int               `json:"max_depth"`
	Debug          bool              `json:"debug"`
	Voxels         []VoxelConfig     `json:"voxels"`
	Lights         []VoxelConfig     `json:"lights"`
	Primitives     []PrimitiveConfig `json:"primitives"`
}

// RootSpan returns the edge length of the root cube for the configured depth.
func (c *Config) RootSpan() float64 {
	return math.Ldexp(1, c.MaxDepth)
}

// Validate checks every part of the config and reports all problems at once.
func (c *Config) Validate(path string) error {
	var errs error
	if c.MaxDepth < 2 || c.MaxDepth > octree.MaxDepth {
		errs = multierr.Append(errs, utils.NewConfigValidationError(path,
			errors.Errorf("max_depth %d must be in [2, %d]", c.MaxDepth, octree.MaxDepth)))
		// positions cannot be checked against a bogus root
		return errs
	}
	span := c.RootSpan()
	for idx, v := range c.Voxels {
		errs = multierr.Append(errs, v.Validate(joinPath(path, "voxels", idx), span))
	}
	for idx, v := range c.Lights {
		errs = multierr.Append(errs, v.Validate(joinPath(path, "lights", idx), span))
	}
	for idx, p := range c.Primitives {
		errs = multierr.Append(errs, p.Validate(joinPath(path, "primitives", idx), span))
	}
	return errs
}

func joinPath(path, field string, idx int) string {
	if path == "" {
		return fmt.Sprintf("%s.%d", field, idx)
	}
	return fmt.Sprintf("%s.%s.%d", path, field, idx)
}

// Vec is a point in scene coordinates.
type Vec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// R3 converts the point to an r3.Vector.
func (v Vec) R3() r3.Vector {
	return r3.Vector{X: v.X, Y: v.Y, Z: v.Z}
}

func (v Vec) inside(span float64) bool {
	for _, c := range []float64{v.X, v.Y, v.Z} {
		if c < 0 || c >= span {
			return false
		}
	}
	return true
}

// VoxelConfig is a single voxel to fill.
type VoxelConfig struct {
	Position Vec    `json:"position"`
	Color    string `json:"color"`
}

// Validate ensures the voxel lies inside the root cube and has a parseable color.
func (v *VoxelConfig) Validate(path string, span float64) error {
	var errs error
	if !v.Position.inside(span) {
		errs = multierr.Append(errs, utils.NewConfigValidationError(path,
			errors.Errorf("position %v is outside the root cube [0, %g)", v.Position, span)))
	}
	if _, err := ParseColor(v.Color); err != nil {
		errs = multierr.Append(errs, utils.NewConfigValidationError(path, err))
	}
	return errs
}

// PrimitiveConfig is a shape filled with voxels. Attributes are decoded according to Type.
type PrimitiveConfig struct {
	Type       string                 `json:"type"`
	Color      string                 `json:"color"`
	Attributes map[string]interface{} `json:"attributes"`
}

// BoxAttributes is a solid axis aligned box. Max is exclusive.
type BoxAttributes struct {
	Min Vec `json:"min"`
	Max Vec `json:"max"`
}

// SphereAttributes is a solid ball.
type SphereAttributes struct {
	Center Vec     `json:"center"`
	Radius float64 `json:"radius"`
}

// Validate ensures the primitive has a known type, a parseable color, and sensible
// attributes.
func (p *PrimitiveConfig) Validate(path string, span float64) error {
	var errs error
	if _, err := ParseColor(p.Color); err != nil {
		errs = multierr.Append(errs, utils.NewConfigValidationError(path, err))
	}
	switch p.Type {
	case "":
		return multierr.Append(errs, utils.NewConfigValidationFieldRequiredError(path, "type"))
	case PrimitiveTypeBox:
		box, err := p.Box()
		if err != nil {
			return multierr.Append(errs, utils.NewConfigValidationError(path, err))
		}
		if box.Min.X >= box.Max.X || box.Min.Y >= box.Max.Y || box.Min.Z >= box.Max.Z {
			errs = multierr.Append(errs, utils.NewConfigValidationError(path,
				errors.Errorf("box min %v must be below max %v on every axis", box.Min, box.Max)))
		}
		if !box.Min.inside(span) {
			errs = multierr.Append(errs, utils.NewConfigValidationError(path,
				errors.Errorf("box min %v is outside the root cube [0, %g)", box.Min, span)))
		}
	case PrimitiveTypeSphere:
		sphere, err := p.Sphere()
		if err != nil {
			return multierr.Append(errs, utils.NewConfigValidationError(path, err))
		}
		if sphere.Radius <= 0 {
			errs = multierr.Append(errs, utils.NewConfigValidationError(path,
				errors.Errorf("sphere radius %g must be positive", sphere.Radius)))
		}
		if !sphere.Center.inside(span) {
			errs = multierr.Append(errs, utils.NewConfigValidationError(path,
				errors.Errorf("sphere center %v is outside the root cube [0, %g)", sphere.Center, span)))
		}
	default:
		errs = multierr.Append(errs, utils.NewConfigValidationError(path,
			errors.Errorf("unknown primitive type %q", p.Type)))
	}
	return errs
}

// Box decodes the attributes of a box primitive.
func (p *PrimitiveConfig) Box() (BoxAttributes, error) {
	var attrs BoxAttributes
	if err := p.decodeAttributes(&attrs); err != nil {
		return BoxAttributes{}, err
	}
	return attrs, nil
}

// Sphere decodes the attributes of a sphere primitive.
func (p *PrimitiveConfig) Sphere() (SphereAttributes, error) {
	var attrs SphereAttributes
	if err := p.decodeAttributes(&attrs); err != nil {
		return SphereAttributes{}, err
	}
	return attrs, nil
}

func (p *PrimitiveConfig) decodeAttributes(result interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		Result:           result,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return errors.Wrap(err, "error creating attribute decoder")
	}
	if err := decoder.Decode(p.Attributes); err != nil {
		return errors.Wrapf(err, "error decoding %s attributes", p.Type)
	}
	return nil
}

// ParseColor parses a "#rrggbb" or "#rgb" color. An empty string is DefaultColor.
func ParseColor(s string) (colorful.Color, error) {
	if s == "" {
		s = DefaultColor
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return colorful.Color{}, errors.Wrapf(err, "invalid color %q", s)
	}
	return c, nil
}
