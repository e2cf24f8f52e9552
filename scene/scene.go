// Package scene fills octrees from scene configs.
package scene

import (
	"context"
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"go.viam.com/svo/config"
	"go.viam.com/svo/logging"
	"go.viam.com/svo/octree"
)

// Build creates an octree of the configured depth and inserts the config's voxels, then its
// primitives in order, then its lights.
func Build(ctx context.Context, cfg *config.Config, logger logging.Logger) (*octree.Octree, error) {
	if err := cfg.Validate(""); err != nil {
		return nil, err
	}
	tree, err := octree.New(cfg.MaxDepth, logger.Sublogger("octree"))
	if err != nil {
		return nil, err
	}

	for idx, v := range cfg.Voxels {
		mat, err := material(v.Color)
		if err != nil {
			return nil, err
		}
		if _, err := tree.InsertMaterial(v.Position.R3(), mat); err != nil {
			return nil, errors.Wrapf(err, "inserting voxel %d", idx)
		}
	}

	for idx, p := range cfg.Primitives {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		n, err := fillPrimitive(ctx, tree, &p)
		if err != nil {
			return nil, errors.Wrapf(err, "filling primitive %d", idx)
		}
		logger.Debugw("filled primitive", "index", idx, "type", p.Type, "voxels", n)
	}

	for idx, l := range cfg.Lights {
		c, err := config.ParseColor(l.Color)
		if err != nil {
			return nil, err
		}
		if _, err := tree.InsertLight(l.Position.R3(), c); err != nil {
			return nil, errors.Wrapf(err, "inserting light %d", idx)
		}
	}

	logger.Infow("built scene",
		"max_depth", tree.MaxDepth(),
		"leaves", tree.Size(),
		"nodes", tree.Len(),
		"lights", len(cfg.Lights),
	)
	return tree, nil
}

func material(hex string) (octree.Material, error) {
	c, err := config.ParseColor(hex)
	if err != nil {
		return octree.Material{}, err
	}
	return octree.Material{Color: c}, nil
}

func fillPrimitive(ctx context.Context, tree *octree.Octree, p *config.PrimitiveConfig) (int, error) {
	mat, err := material(p.Color)
	if err != nil {
		return 0, err
	}
	switch p.Type {
	case config.PrimitiveTypeBox:
		box, err := p.Box()
		if err != nil {
			return 0, err
		}
		return FillBox(ctx, tree, box.Min.R3(), box.Max.R3(), mat)
	case config.PrimitiveTypeSphere:
		sphere, err := p.Sphere()
		if err != nil {
			return 0, err
		}
		return FillSphere(ctx, tree, sphere.Center.R3(), sphere.Radius, mat)
	default:
		return 0, errors.Errorf("unknown primitive type %q", p.Type)
	}
}

// FillBox fills every leaf voxel overlapping the box [lo, hi), clipped to the root cube. It
// returns the number of voxels inserted.
func FillBox(ctx context.Context, tree *octree.Octree, lo, hi r3.Vector, mat octree.Material) (int, error) {
	return fillCells(ctx, tree, lo, hi, mat, func(r3.Vector) bool { return true })
}

// FillSphere fills every leaf voxel whose center lies within radius of center. It returns the
// number of voxels inserted.
func FillSphere(ctx context.Context, tree *octree.Octree, center r3.Vector, radius float64, mat octree.Material) (int, error) {
	ext := r3.Vector{X: radius, Y: radius, Z: radius}
	r2 := radius * radius
	return fillCells(ctx, tree, center.Sub(ext), center.Add(ext), mat, func(cellCenter r3.Vector) bool {
		return cellCenter.Sub(center).Norm2() <= r2
	})
}

// fillCells walks the leaf grid over [lo, hi) and inserts each cell accepted by keep.
func fillCells(
	ctx context.Context,
	tree *octree.Octree,
	lo, hi r3.Vector,
	mat octree.Material,
	keep func(cellCenter r3.Vector) bool,
) (int, error) {
	leaf := tree.LeafSpan()
	start := func(v float64) float64 {
		return math.Max(0, math.Floor(v/leaf)*leaf)
	}
	end := func(v float64) float64 {
		return math.Min(v, tree.RootSpan())
	}

	n := 0
	for x := start(lo.X); x < end(hi.X); x += leaf {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		for y := start(lo.Y); y < end(hi.Y); y += leaf {
			for z := start(lo.Z); z < end(hi.Z); z += leaf {
				cell := r3.Vector{X: x, Y: y, Z: z}
				if !keep(cell.Add(r3.Vector{X: leaf / 2, Y: leaf / 2, Z: leaf / 2})) {
					continue
				}
				if _, err := tree.InsertMaterial(cell, mat); err != nil {
					return n, err
				}
				n++
			}
		}
	}
	return n, nil
}
