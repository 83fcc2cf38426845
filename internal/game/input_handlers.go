package game

import (
	"github.com/go-gl/glfw/v3.3/glfw"
)

func SetupInputHandlers(app *App) {
	window := app.window

	// Keys and mouse buttons feed the input manager
	app.inputManager.Attach(window)

	// Mouse position callback
	window.SetCursorPosCallback(func(w *glfw.Window, xpos, ypos float64) {
		if !app.paused {
			app.player.HandleMouseMovement(xpos, ypos)
		}
	})

	// Framebuffer size callback; render targets follow the pixel size
	window.SetFramebufferSizeCallback(func(w *glfw.Window, fbWidth, fbHeight int) {
		if err := app.renderer.Resize(fbWidth, fbHeight); err != nil {
			logger.Errorf("resize: %v", err)
		}
	})

	// Focus callback
	window.SetFocusCallback(func(w *glfw.Window, focused bool) {
		if !focused && !app.paused {
			app.SetPaused(true)
		}
	})

	// Refresh callback
	window.SetRefreshCallback(func(w *glfw.Window) {
		app.RefreshRender()
	})
}
