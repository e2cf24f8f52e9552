// Package cli contains the svo command line tool.
package cli

import (
	"io"

	"github.com/urfave/cli/v2"
)

const (
	flagConfig   = "config"
	flagDebug    = "debug"
	flagDepth    = "depth"
	flagMetrics  = "metrics"
	flagOut      = "out"
	flagPoint    = "point"
	flagOrigin   = "origin"
	flagDir      = "dir"
	flagMaxSteps = "max-steps"
)

func newApp() *cli.App {
	return &cli.App{
		Name:            "svo",
		Usage:           "build and query sparse voxel octree scenes",
		HideHelpCommand: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    flagConfig,
				Aliases: []string{"c"},
				Usage:   "load the scene from `FILE`; the default room is used when unset",
			},
			&cli.BoolFlag{
				Name:    flagDebug,
				Aliases: []string{"vvv"},
				Usage:   "enable debug logging",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "build",
				Usage: "build the scene and print tree and mesh statistics",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  flagDepth,
						Usage: "collect nodes down to this depth for the mesh; leaf depth when unset",
					},
					&cli.PathFlag{
						Name:  flagOut,
						Usage: "write the node, uniform, material and light buffers into `DIR`",
					},
					&cli.BoolFlag{
						Name:  flagMetrics,
						Usage: "print octree metrics after building",
					},
				},
				Action: BuildAction,
			},
			{
				Name:  "locate",
				Usage: "print the node holding a point",
				Flags: []cli.Flag{
					&cli.Float64SliceFlag{
						Name:     flagPoint,
						Required: true,
						Usage:    "point to locate as x,y,z",
					},
				},
				Action: LocateAction,
			},
			{
				Name:  "raycast",
				Usage: "cast a ray through the scene and print the first voxel hit",
				Flags: []cli.Flag{
					&cli.Float64SliceFlag{
						Name:     flagOrigin,
						Required: true,
						Usage:    "ray origin as x,y,z",
					},
					&cli.Float64SliceFlag{
						Name:     flagDir,
						Required: true,
						Usage:    "ray direction as x,y,z",
					},
					&cli.IntFlag{
						Name:  flagMaxSteps,
						Value: 1024,
						Usage: "give up after visiting this many nodes",
					},
				},
				Action: RaycastAction,
			},
		},
	}
}

// NewApp returns a new app with the CLI API, Writer set to out, and ErrWriter
// set to errOut.
func NewApp(out, errOut io.Writer) *cli.App {
	app := newApp()
	app.Writer = out
	app.ErrWriter = errOut
	return app
}
