package main

import (
	"os"
	"runtime"

	"github.com/urfave/cli"
	"github.com/xlab/closer"

	"mini-sky/internal/config"
	"mini-sky/internal/graphics/renderer"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	// Exit codes from cli go through closer so the exit hook still runs.
	cli.OsExiter = closer.Exit
	closer.Bind(onExit)

	app := cli.NewApp()
	app.Name = "mini-sky"
	app.Usage = "fly over a procedural scene drawn by a multi-pass renderer"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "run",
			Usage: "open the interactive viewer",
			Description: `
Open a window and fly over the demo scene. WASD moves, space and shift
rise and sink, ctrl sprints. E/Q change exposure, G/B gamma and X/Z
sharpness. T toggles the day cycle, V periodic frame statistics and
escape pauses.`,
			Flags:  runFlags(),
			Action: Run,
		},
		{
			Name:   "shaders",
			Usage:  "list shader stages and their includes",
			Flags:  []cli.Flag{shadersFlag},
			Action: ListShaders,
		},
	}
	app.Action = Run
	app.Flags = append(app.Flags, runFlags()...)

	if err := app.Run(os.Args); err != nil {
		logger.Error(err)
		closer.Exit(1)
	}
	closer.Close()
}

var shadersFlag = cli.StringFlag{
	Name:  "shaders",
	Usage: "read shader stages from this directory instead of the embedded set",
}

func runFlags() []cli.Flag {
	return []cli.Flag{
		cli.IntFlag{
			Name:  "width",
			Value: 1280,
			Usage: "window width",
		},
		cli.IntFlag{
			Name:  "height",
			Value: 720,
			Usage: "window height",
		},
		cli.Float64Flag{
			Name:  "exposure",
			Value: float64(renderer.DefaultExposure),
			Usage: "exposure applied before tone-mapping",
		},
		cli.Float64Flag{
			Name:  "gamma",
			Value: float64(renderer.DefaultGamma),
			Usage: "display gamma",
		},
		cli.Float64Flag{
			Name:  "sharpness",
			Value: float64(renderer.DefaultSharpness),
			Usage: "sharpening strength, 1 disables it",
		},
		cli.IntFlag{
			Name:  "fps",
			Value: config.GetFPSLimit(),
			Usage: "frame rate cap when vsync is off, 0 for uncapped",
		},
		cli.BoolTFlag{
			Name:  "vsync",
			Usage: "synchronise buffer swaps with the display",
		},
		cli.IntFlag{
			Name:  "shadow-size",
			Value: config.GetShadowMapSize(),
			Usage: "shadow map resolution",
		},
		cli.IntFlag{
			Name:  "blur-passes",
			Value: config.GetBlurPasses(),
			Usage: "bloom blur passes, rounded up to an even count",
		},
		cli.DurationFlag{
			Name:  "day-length",
			Value: config.GetDayLength(),
			Usage: "time for one full sky rotation, 0 freezes the sky",
		},
		cli.StringFlag{
			Name:  "texture",
			Usage: "image file used for the crates",
		},
		cli.StringFlag{
			Name:  "skybox",
			Usage: "directory holding px, nx, py, ny, pz and nz cubemap faces",
		},
		shadersFlag,
	}
}
