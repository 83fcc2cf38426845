// Package game runs the interactive viewer: a fly camera over the demo
// scene, drawn by the multi-pass renderer.
package game

import (
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"

	"mini-sky/internal/config"
	"mini-sky/internal/graphics/renderer"
	"mini-sky/internal/input"
	"mini-sky/internal/log"
	"mini-sky/internal/player"
	"mini-sky/internal/profiling"
)

var logger = log.New("game")

// slowFrame is the processing time above which a frame gets logged.
const slowFrame = 16 * time.Millisecond

type App struct {
	window       *glfw.Window
	inputManager *input.InputManager

	renderer *renderer.Renderer
	scene    *Scene
	player   *player.Player

	paused    bool
	showStats bool
	lastStats time.Time

	fpsLimiter *FPSLimiter
	lastTime   time.Time
	frames     int
}

// NewApp wires the viewer around an initialised renderer and its scene.
// The player starts above the terrain looking at the crates.
func NewApp(window *glfw.Window, im *input.InputManager, r *renderer.Renderer, scene *Scene) *App {
	start := mgl32.Vec3{0, 0, -25}
	start[1] = scene.Heightmap().HeightAt(start.X(), start.Z()) + 8

	scene.Day.Length = config.GetDayLength()
	scene.Day.Enabled = scene.Day.Length > 0

	return &App{
		window:       window,
		inputManager: im,
		renderer:     r,
		scene:        scene,
		player:       player.New(start, 90, -15),
		fpsLimiter:   NewFPSLimiter(),
		lastTime:     time.Now(),
		lastStats:    time.Now(),
	}
}

// Run ticks until the window is closed or a frame fails.
func (a *App) Run() error {
	for !a.window.ShouldClose() {
		if err := a.tick(); err != nil {
			return err
		}
	}
	logger.Infof("closed after %d frames", a.frames)
	return nil
}

func (a *App) tick() error {
	profiling.ResetFrame()
	startTick := time.Now() // Measure pure processing time
	now := time.Now()
	dt := now.Sub(a.lastTime).Seconds()
	a.lastTime = now

	func() { defer profiling.Track("glfw.PollEvents")(); glfw.PollEvents() }()

	a.handleInputActions()
	if !a.paused {
		a.player.UpdatePosition(dt, a.inputManager)
		func() { defer profiling.Track("scene.Update")(); a.scene.Update(dt) }()
	}
	if err := applyTuning(a.renderer, a.inputManager, dt); err != nil {
		return err
	}

	if err := a.render(); err != nil {
		return err
	}
	func() { defer profiling.Track("glfw.SwapBuffers")(); a.window.SwapBuffers() }()
	a.frames++

	// Check if frame took too long
	if d := time.Since(startTick); d > slowFrame {
		logger.Debugf("slow frame: %v. Top tasks: %s", d, profiling.TopN(5))
	}
	if a.showStats && time.Since(a.lastStats) >= time.Second {
		logger.Infof("frame stats:\n%s", a.renderer.Stats().Table())
		a.lastStats = time.Now()
	}

	a.inputManager.PostUpdate() // Clear "JustPressed" flags
	a.fpsLimiter.Wait(a.paused)
	return nil
}

func (a *App) render() error {
	view := a.player.GetViewMatrix()
	a.scene.Submit(a.renderer)
	return a.renderer.Render(view, a.scene.SkyboxView(view), a.player.Position, a.player.GetFrontVector())
}

func (a *App) handleInputActions() {
	im := a.inputManager

	if im.JustPressed(input.ActionPause) {
		a.SetPaused(!a.paused)
	}
	if a.paused && im.JustPressed(input.ActionMouseLeft) {
		a.SetPaused(false)
	}
	if im.JustPressed(input.ActionToggleDayCycle) {
		a.scene.Day.Enabled = !a.scene.Day.Enabled
		logger.Infof("day cycle enabled: %t", a.scene.Day.Enabled)
	}
	if im.JustPressed(input.ActionToggleStats) {
		a.showStats = !a.showStats
	}
	if im.JustReleased(input.ActionExposureUp) || im.JustReleased(input.ActionExposureDown) ||
		im.JustReleased(input.ActionGammaUp) || im.JustReleased(input.ActionGammaDown) ||
		im.JustReleased(input.ActionSharpnessUp) || im.JustReleased(input.ActionSharpnessDown) {
		logger.Infof("exposure %.2f, gamma %.2f, sharpness %.1f",
			a.renderer.GetExposure(), a.renderer.GetGamma(), a.renderer.GetSharpness())
	}
}

// SetPaused freezes the camera and scene and releases the cursor.
func (a *App) SetPaused(paused bool) {
	a.paused = paused
	if a.paused {
		a.window.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
		w, h := a.window.GetSize()
		a.window.SetCursorPos(float64(w)/2, float64(h)/2)
	} else {
		a.window.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
		a.player.FirstMouse = true
	}
}

// RefreshRender handles window resize repaints
func (a *App) RefreshRender() {
	if err := a.render(); err != nil {
		logger.Errorf("refresh: %v", err)
		return
	}
	a.window.SwapBuffers()
}
