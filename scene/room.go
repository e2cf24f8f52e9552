package scene

import "go.viam.com/svo/config"

func box(color string, lo, hi config.Vec) config.PrimitiveConfig {
	return config.PrimitiveConfig{
		Type:  config.PrimitiveTypeBox,
		Color: color,
		Attributes: map[string]interface{}{
			"min": map[string]interface{}{"x": lo.X, "y": lo.Y, "z": lo.Z},
			"max": map[string]interface{}{"x": hi.X, "y": hi.Y, "z": hi.Z},
		},
	}
}

// DefaultRoom returns a 100 unit room open on one side: a floor, a ceiling, a back wall, a
// green and a red side wall, a blue box on the floor, and a yellow light near the ceiling.
func DefaultRoom() *config.Config {
	return &config.Config{
		MaxDepth: 8,
		Primitives: []config.PrimitiveConfig{
			// floor
			box("#ffffff", config.Vec{X: 100, Y: 100, Z: 100}, config.Vec{X: 200, Y: 101, Z: 200}),
			box("#00ff00", config.Vec{X: 100, Y: 100, Z: 100}, config.Vec{X: 101, Y: 200, Z: 200}),
			box("#ff0000", config.Vec{X: 200, Y: 100, Z: 100}, config.Vec{X: 201, Y: 200, Z: 200}),
			// back wall
			box("#ffffff", config.Vec{X: 100, Y: 100, Z: 200}, config.Vec{X: 200, Y: 200, Z: 201}),
			// ceiling
			box("#ffffff", config.Vec{X: 100, Y: 200, Z: 100}, config.Vec{X: 200, Y: 201, Z: 200}),
			box("#0000ff", config.Vec{X: 140, Y: 100, Z: 140}, config.Vec{X: 160, Y: 120, Z: 160}),
		},
		Lights: []config.VoxelConfig{
			{Position: config.Vec{X: 150, Y: 180, Z: 150}, Color: "#ffff00"},
		},
	}
}
