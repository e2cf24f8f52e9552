package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/urfave/cli/v2"
	"go.viam.com/utils"

	"go.viam.com/svo/config"
	"go.viam.com/svo/logging"
	"go.viam.com/svo/mesh"
	"go.viam.com/svo/octree"
	"go.viam.com/svo/scene"
)

func newLogger(c *cli.Context, cfg *config.Config) logging.Logger {
	if c.Bool(flagDebug) || (cfg != nil && cfg.Debug) {
		return logging.NewDebugLogger("svo")
	}
	return logging.NewBlankLogger("svo")
}

// loadScene reads the configured scene, or the default room, and builds it.
func loadScene(c *cli.Context) (*octree.Octree, logging.Logger, error) {
	cfg := scene.DefaultRoom()
	if path := c.String(flagConfig); path != "" {
		var err error
		cfg, err = config.Read(c.Context, path, newLogger(c, nil))
		if err != nil {
			return nil, nil, err
		}
	}
	logger := newLogger(c, cfg)
	logging.ReplaceGlobal(logger)
	tree, err := scene.Build(c.Context, cfg, logger)
	if err != nil {
		return nil, nil, errors.Wrap(err, "error building scene")
	}
	return tree, logger, nil
}

func vectorFlag(c *cli.Context, name string) (r3.Vector, error) {
	v := c.Float64Slice(name)
	if len(v) != 3 {
		return r3.Vector{}, errors.Errorf("--%s needs exactly 3 values, got %d", name, len(v))
	}
	vec := r3.Vector{X: v[0], Y: v[1], Z: v[2]}
	if !octree.IsFinite(vec) {
		return r3.Vector{}, errors.Errorf("--%s must be finite, got %s", name, formatVec(vec))
	}
	return vec, nil
}

func formatVec(v r3.Vector) string {
	return fmt.Sprintf("(%g, %g, %g)", v.X, v.Y, v.Z)
}

// BuildAction builds the scene and prints statistics about the tree and its mesh.
func BuildAction(c *cli.Context) error {
	tree, logger, err := loadScene(c)
	if err != nil {
		return err
	}
	defer utils.UncheckedErrorFunc(logger.Sync)

	if err := tree.Validate(); err != nil {
		return errors.Wrap(err, "built tree is inconsistent")
	}
	fmt.Fprintf(c.App.Writer, "max depth: %d\n", tree.MaxDepth())
	fmt.Fprintf(c.App.Writer, "root span: %g\n", tree.RootSpan())
	fmt.Fprintf(c.App.Writer, "leaves: %d\n", tree.Size())
	fmt.Fprintf(c.App.Writer, "nodes: %d (%d bytes)\n", tree.Len(), tree.Len()*octree.NodeSize)
	fmt.Fprintf(c.App.Writer, "subdivisions: %d\n", tree.Subdivisions())
	fmt.Fprintf(c.App.Writer, "lights: %d\n", len(tree.Lights()))

	depth := tree.MaxDepth() - 1
	if c.IsSet(flagDepth) {
		depth = c.Int(flagDepth)
	}
	m, err := mesh.FromEntries(c.Context, tree.Collect(depth))
	if err != nil {
		return errors.Wrap(err, "error building mesh")
	}
	fmt.Fprintf(c.App.Writer, "cubes: %d\n", m.CubeCount())
	fmt.Fprintf(c.App.Writer, "vertices: %d\n", len(m.Vertices))
	fmt.Fprintf(c.App.Writer, "indices: %d\n", len(m.Indices))
	tris := m.Triangles()
	fmt.Fprintf(c.App.Writer, "surface area: %g\n", tris.SurfaceArea())
	if lo, hi, ok := tris.Bounds(); ok {
		fmt.Fprintf(c.App.Writer, "bounds: %s - %s\n", formatVec(lo), formatVec(hi))
	}

	if dir := c.Path(flagOut); dir != "" {
		if err := writeBuffers(c.App.Writer, tree, dir); err != nil {
			return err
		}
	}

	if c.Bool(flagMetrics) {
		return printMetrics(c)
	}
	return nil
}

// writeBuffers writes everything a renderer uploads for the tree, one file per buffer.
func writeBuffers(w io.Writer, tree *octree.Octree, dir string) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return errors.Wrapf(err, "error creating %s", dir)
	}
	buffers := []struct {
		name string
		data []byte
	}{
		{"nodes.bin", tree.AppendWords(nil)},
		{"uniform.bin", tree.Uniform().Bytes()},
		{"materials.bin", tree.AppendMaterials(nil)},
		{"lights.bin", tree.AppendLights(nil)},
	}
	for _, buf := range buffers {
		path := filepath.Join(dir, buf.name)
		//nolint:gosec
		if err := os.WriteFile(path, buf.data, 0o644); err != nil {
			return errors.Wrapf(err, "error writing %s", path)
		}
		fmt.Fprintf(w, "wrote %d bytes to %s\n", len(buf.data), path)
	}
	return nil
}

func printMetrics(c *cli.Context) error {
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		return errors.Wrap(err, "error gathering metrics")
	}
	for _, mf := range families {
		if !strings.HasPrefix(mf.GetName(), "octree_") {
			continue
		}
		if _, err := expfmt.MetricFamilyToText(c.App.Writer, mf); err != nil {
			return err
		}
	}
	return nil
}

// LocateAction prints the node holding a point.
func LocateAction(c *cli.Context) error {
	pt, err := vectorFlag(c, flagPoint)
	if err != nil {
		return err
	}
	tree, logger, err := loadScene(c)
	if err != nil {
		return err
	}
	defer utils.UncheckedErrorFunc(logger.Sync)

	p := tree.Locate(pt)
	fmt.Fprintf(c.App.Writer, "%s at depth %d, index %d\n", p.Node().Type(), p.Depth, p.Index())
	fmt.Fprintf(c.App.Writer, "edge: %s span: %g\n", formatVec(p.PosOnEdge), p.Span())
	if p.Node().IsLeaf() {
		m := tree.Material(p.Index())
		fmt.Fprintf(c.App.Writer, "color: %s emissive: %t\n", m.Color.Clamped().Hex(), m.Emissive)
	}
	return nil
}

// RaycastAction casts a ray and prints the first leaf it hits.
func RaycastAction(c *cli.Context) error {
	origin, err := vectorFlag(c, flagOrigin)
	if err != nil {
		return err
	}
	dir, err := vectorFlag(c, flagDir)
	if err != nil {
		return err
	}
	tree, logger, err := loadScene(c)
	if err != nil {
		return err
	}
	defer utils.UncheckedErrorFunc(logger.Sync)

	hit, ok := tree.CastRay(octree.Ray{Origin: origin, Dir: dir}, c.Int(flagMaxSteps))
	if !ok {
		fmt.Fprintln(c.App.Writer, "miss")
		return nil
	}
	fmt.Fprintf(c.App.Writer, "hit index %d at %s after %d steps, distance %g\n",
		hit.Pos.Index(), formatVec(hit.Pos.PosOnEdge), hit.Steps, hit.Distance)
	fmt.Fprintf(c.App.Writer, "color: %s\n", tree.Material(hit.Pos.Index()).Color.Clamped().Hex())
	return nil
}
