package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/urfave/cli"

	"mini-sky/assets"
	"mini-sky/internal/config"
	"mini-sky/internal/game"
	"mini-sky/internal/graphics/gpu"
	"mini-sky/internal/graphics/gpu/opengl"
	"mini-sky/internal/graphics/renderer"
	"mini-sky/internal/input"
)

// Run opens the viewer window and blocks until it is closed.
func Run(ctx *cli.Context) error {
	setupLogging(ctx)
	applySettings(ctx)

	width, height := ctx.Int("width"), ctx.Int("height")
	if width <= 0 || height <= 0 {
		return cli.NewExitError(fmt.Sprintf("invalid window size %dx%d", width, height), 1)
	}

	if err := glfw.Init(); err != nil {
		return cli.NewExitError(fmt.Sprintf("glfw: %v", err), 1)
	}
	defer glfw.Terminate()

	window, err := game.SetupWindow(width, height, "mini-sky", config.GetVSync())
	if err != nil {
		return cli.NewExitError(fmt.Sprintf("window: %v", err), 1)
	}
	defer window.Destroy()

	dev, err := opengl.New(shaderSource(ctx))
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}

	slots := gpu.NewSlotAllocator(0)
	r, err := renderer.New(dev, slots,
		renderer.WithShadowMapSize(config.GetShadowMapSize()),
		renderer.WithBlurPasses(config.GetBlurPasses()),
	)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	fbWidth, fbHeight := window.GetFramebufferSize()
	if err := r.Init(fbWidth, fbHeight); err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	defer r.Dispose()

	if err := applyPostProcess(ctx, r); err != nil {
		return cli.NewExitError(err.Error(), 1)
	}

	if dir := ctx.String("skybox"); dir != "" {
		slot, err := slots.Next()
		if err != nil {
			return cli.NewExitError(err.Error(), 1)
		}
		cubemap, err := dev.LoadCubemap(dir, slot)
		if err != nil {
			return cli.NewExitError(fmt.Sprintf("skybox: %v", err), 1)
		}
		defer cubemap.Dispose()
		r.SetSkybox(cubemap)
		logger.Infof("skybox cubemap from %s", dir)
	}

	opts := game.DefaultSceneOptions()
	if path := ctx.String("texture"); path != "" {
		slot, err := slots.Next()
		if err != nil {
			return cli.NewExitError(err.Error(), 1)
		}
		if opts.CrateTexture, err = dev.LoadTexture(path, slot); err != nil {
			return cli.NewExitError(err.Error(), 1)
		}
	}
	scene, err := game.NewScene(dev, slots, opts)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	defer scene.Dispose()
	if err := scene.Attach(r); err != nil {
		return cli.NewExitError(err.Error(), 1)
	}

	app := game.NewApp(window, input.NewInputManager(), r, scene)
	game.SetupInputHandlers(app)

	logger.Noticef("rendering %dx%d (framebuffer %dx%d)", width, height, fbWidth, fbHeight)
	if err := app.Run(); err != nil {
		return cli.NewExitError(fmt.Sprintf("frame failed: %v", err), 1)
	}
	return nil
}

func applySettings(ctx *cli.Context) {
	config.SetFPSLimit(ctx.Int("fps"))
	config.SetVSync(ctx.BoolT("vsync"))
	config.SetShadowMapSize(ctx.Int("shadow-size"))
	config.SetBlurPasses(ctx.Int("blur-passes"))
	config.SetDayLength(ctx.Duration("day-length"))
}

func applyPostProcess(ctx *cli.Context, r *renderer.Renderer) error {
	return errors.Join(
		r.SetExposure(config.ClampExposure(float32(ctx.Float64("exposure")))),
		r.SetGamma(config.ClampGamma(float32(ctx.Float64("gamma")))),
		r.SetSharpness(config.ClampSharpness(float32(ctx.Float64("sharpness")))),
	)
}

func shaderSource(ctx *cli.Context) fs.FS {
	if dir := ctx.String("shaders"); dir != "" {
		logger.Infof("loading shaders from %s", dir)
		return os.DirFS(dir)
	}
	return assets.Shaders()
}
