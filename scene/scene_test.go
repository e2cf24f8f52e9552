package scene

import (
	"context"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/lucasb-eyer/go-colorful"
	"go.viam.com/test"

	"go.viam.com/svo/config"
	"go.viam.com/svo/logging"
	"go.viam.com/svo/octree"
)

func TestBuild(t *testing.T) {
	logger, logs := logging.NewObservedTestLogger(t)
	cfg := &config.Config{
		MaxDepth: 4,
		Voxels: []config.VoxelConfig{
			{Position: config.Vec{X: 1, Y: 1, Z: 1}, Color: "#ff0000"},
		},
		Primitives: []config.PrimitiveConfig{
			box("#0000ff", config.Vec{X: 4, Y: 0, Z: 0}, config.Vec{X: 8, Y: 2, Z: 2}),
		},
		Lights: []config.VoxelConfig{
			{Position: config.Vec{X: 15, Y: 15, Z: 15}, Color: "#ffff00"},
		},
	}

	tree, err := Build(context.Background(), cfg, logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, tree.MaxDepth(), test.ShouldEqual, 4)
	test.That(t, tree.Size(), test.ShouldEqual, 4)
	test.That(t, tree.Validate(), test.ShouldBeNil)

	red := tree.Locate(r3.Vector{X: 1, Y: 1, Z: 1})
	test.That(t, red.Node().IsLeaf(), test.ShouldBeTrue)
	test.That(t, tree.Material(red.Index()).Color.Hex(), test.ShouldEqual, "#ff0000")

	test.That(t, tree.IsFilled(4, 0, 0), test.ShouldBeTrue)
	test.That(t, tree.IsFilled(6, 1, 1), test.ShouldBeTrue)
	test.That(t, tree.IsFilled(8, 0, 0), test.ShouldBeFalse)
	test.That(t, tree.IsFilled(4, 2, 0), test.ShouldBeFalse)

	lights := tree.Lights()
	test.That(t, len(lights), test.ShouldEqual, 1)
	test.That(t, tree.Material(lights[0]).Emissive, test.ShouldBeTrue)

	test.That(t, logs.FilterMessage("filled primitive").Len(), test.ShouldEqual, 1)
	test.That(t, logs.FilterMessage("built scene").Len(), test.ShouldEqual, 1)
}

func TestBuildInvalid(t *testing.T) {
	logger := logging.NewTestLogger(t)
	_, err := Build(context.Background(), &config.Config{MaxDepth: 40}, logger)
	test.That(t, err, test.ShouldNotBeNil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Build(ctx, DefaultRoom(), logger)
	test.That(t, err, test.ShouldEqual, context.Canceled)
}

func TestFillBox(t *testing.T) {
	tree, err := octree.New(4, logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)
	mat := octree.Material{Color: colorful.Color{B: 1}}

	t.Run("partial cells are filled", func(t *testing.T) {
		n, err := FillBox(context.Background(), tree, r3.Vector{X: 1, Y: 1, Z: 1}, r3.Vector{X: 3, Y: 2, Z: 2}, mat)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, n, test.ShouldEqual, 2)
		test.That(t, tree.IsFilled(0, 0, 0), test.ShouldBeTrue)
		test.That(t, tree.IsFilled(2, 0, 0), test.ShouldBeTrue)
	})

	t.Run("clipped to the root", func(t *testing.T) {
		n, err := FillBox(context.Background(), tree, r3.Vector{X: 14, Y: 14, Z: 14}, r3.Vector{X: 40, Y: 40, Z: 40}, mat)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, n, test.ShouldEqual, 1)
	})
}

func TestFillSphere(t *testing.T) {
	tree, err := octree.New(5, logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)
	center := r3.Vector{X: 16, Y: 16, Z: 16}
	n, err := FillSphere(context.Background(), tree, center, 5, octree.Material{})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, n, test.ShouldEqual, tree.Size())
	test.That(t, n, test.ShouldBeGreaterThan, 0)

	for _, e := range tree.Collect(tree.MaxDepth()) {
		test.That(t, e.Center().Distance(center), test.ShouldBeLessThanOrEqualTo, 5)
	}
	test.That(t, tree.IsFilled(15, 15, 15), test.ShouldBeTrue)
	test.That(t, tree.IsFilled(16, 22, 16), test.ShouldBeFalse)
}

func TestDefaultRoom(t *testing.T) {
	cfg := DefaultRoom()
	test.That(t, cfg.Validate(""), test.ShouldBeNil)

	tree, err := Build(context.Background(), cfg, logging.NewBlankLogger("room"))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, tree.Validate(), test.ShouldBeNil)
	test.That(t, tree.Len(), test.ShouldBeLessThanOrEqualTo, octree.MaxChildIndex+8)

	// floor, both side walls, back wall, ceiling, box
	for _, p := range []r3.Vector{
		{X: 150, Y: 100, Z: 120},
		{X: 100, Y: 150, Z: 150},
		{X: 200, Y: 150, Z: 150},
		{X: 150, Y: 150, Z: 200},
		{X: 150, Y: 200, Z: 150},
		{X: 150, Y: 110, Z: 150},
	} {
		test.That(t, tree.IsFilled(p.X, p.Y, p.Z), test.ShouldBeTrue)
	}
	test.That(t, tree.IsFilled(120, 150, 120), test.ShouldBeFalse)

	lights := tree.Lights()
	test.That(t, len(lights), test.ShouldEqual, 1)
	test.That(t, tree.Material(lights[0]).Color.Hex(), test.ShouldEqual, "#ffff00")

	green := tree.Locate(r3.Vector{X: 100, Y: 150, Z: 150})
	test.That(t, tree.Material(green.Index()).Color.Hex(), test.ShouldEqual, "#00ff00")
}
