package glbackend

import (
	"fmt"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// OffscreenContext is a hidden-window GL context for compiling and probing
// shader variants without anything to present to.
type OffscreenContext struct {
	win *glfw.Window
}

// Offscreen initializes glfw, creates an invisible window with a 3.2 core
// context and makes it current. The calling goroutine must be locked to its
// OS thread and stay so for the lifetime of the context.
func Offscreen() (*OffscreenContext, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("glbackend: initializing glfw: %v", err)
	}
	glfw.WindowHint(glfw.Visible, glfw.False)
	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 2)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	// Ask for a debug context so DebugOutput has a queue to read from.
	glfw.WindowHint(glfw.OpenGLDebugContext, glfw.True)

	win, err := glfw.CreateWindow(640, 480, "meshvis", nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("glbackend: creating offscreen window: %v", err)
	}
	win.MakeContextCurrent()

	if err := gl.Init(); err != nil {
		win.Destroy()
		glfw.Terminate()
		return nil, fmt.Errorf("glbackend: loading GL functions: %v", err)
	}
	return &OffscreenContext{win: win}, nil
}

// Release destroys the context and terminates glfw.
func (c *OffscreenContext) Release() {
	if c.win != nil {
		c.win.Destroy()
		c.win = nil
	}
	glfw.Terminate()
}
