// Package shader owns GPU program compilation, linking, and caching for the
// enhancement effects, plus the full-screen-quad geometry, texture upload,
// and pixel readback they all share. The Manager talks to the GPU through
// the small GL interface so the engine can run against a real OpenGL
// context or a test double; GPU resources are not garbage-collected, so
// callers must ClearCache when a manager is retired.
package shader

// ShaderKind selects the shader stage being compiled.
type ShaderKind int

const (
	// VertexShader is the vertex stage.
	VertexShader ShaderKind = iota
	// FragmentShader is the fragment stage.
	FragmentShader
)

// RenderTarget is an offscreen framebuffer the effects render into.
type RenderTarget struct {
	FBO     uint32
	Texture uint32
	Width   int
	Height  int
}

// GL abstracts the OpenGL entry points the Manager needs. Errors returned
// from CompileShader and LinkProgram carry the driver's info log.
// Implementations: the go-gl backend in glbackend.go, and an in-memory
// fake for tests.
type GL interface {
	CompileShader(kind ShaderKind, source string) (uint32, error)
	LinkProgram(vertex, fragment uint32) (uint32, error)
	DeleteShader(id uint32)
	DeleteProgram(id uint32)

	SetUniform(program uint32, name string, value float32)

	CreateTexture(width, height int, pix []uint8) (uint32, error)
	DeleteTexture(id uint32)

	CreateRenderTarget(width, height int) (RenderTarget, error)
	DeleteRenderTarget(rt RenderTarget)

	SetupQuad() (uint32, error)
	DeleteQuad(vao uint32)

	// Draw renders the textured quad into the target using the program.
	Draw(target RenderTarget, program, vao, texture uint32)

	// ReadPixels copies the target's RGBA contents into pix in GL order:
	// row 0 is the BOTTOM of the image. The Manager corrects orientation.
	ReadPixels(target RenderTarget, pix []uint8)
}
