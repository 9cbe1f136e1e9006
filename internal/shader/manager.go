package shader

import (
	"github.com/rs/zerolog/log"

	"github.com/kemo-beep/snip-enhance/internal/enherr"
	"github.com/kemo-beep/snip-enhance/internal/pixel"
)

// Manager compiles, links, and caches GPU programs keyed by effect name, so
// repeated frames reuse the same program object. It also owns the shared
// full-screen-quad geometry. A Manager is bound to one GL context; its
// cache is mutable shared state, and callers running concurrent pipelines
// on the same context must serialize ClearCache against in-flight runs.
type Manager struct {
	gl       GL
	programs map[string]uint32
	quad     uint32
	hasQuad  bool
}

// NewManager creates a Manager over the given GL implementation.
func NewManager(gl GL) *Manager {
	return &Manager{
		gl:       gl,
		programs: make(map[string]uint32),
	}
}

// Program returns a compiled and linked program for the shader pair,
// compiling on first use and serving from cache thereafter. Compile or link
// failures are logged with the shader source and driver log, then surfaced
// as a GPU_NOT_AVAILABLE error so callers can fall back to the CPU path;
// this method never panics.
func (m *Manager) Program(key, vertexSrc, fragmentSrc string) (uint32, error) {
	if p, ok := m.programs[key]; ok {
		return p, nil
	}

	vs, err := m.gl.CompileShader(VertexShader, vertexSrc)
	if err != nil {
		log.Error().
			Str("key", key).
			Str("stage", "vertex").
			Str("source", vertexSrc).
			Err(err).
			Msg("Shader compilation failed")
		return 0, enherr.Wrap(err, enherr.CodeGPUNotAvailable, "compile vertex shader %q", key)
	}

	fs, err := m.gl.CompileShader(FragmentShader, fragmentSrc)
	if err != nil {
		m.gl.DeleteShader(vs)
		log.Error().
			Str("key", key).
			Str("stage", "fragment").
			Str("source", fragmentSrc).
			Err(err).
			Msg("Shader compilation failed")
		return 0, enherr.Wrap(err, enherr.CodeGPUNotAvailable, "compile fragment shader %q", key)
	}

	program, err := m.gl.LinkProgram(vs, fs)
	// Shaders are owned by the program after linking either way.
	m.gl.DeleteShader(vs)
	m.gl.DeleteShader(fs)
	if err != nil {
		log.Error().
			Str("key", key).
			Err(err).
			Msg("Shader program link failed")
		return 0, enherr.Wrap(err, enherr.CodeGPUNotAvailable, "link program %q", key)
	}

	m.programs[key] = program
	log.Debug().Str("key", key).Uint32("program", program).Msg("Shader program compiled and cached")
	return program, nil
}

// Apply runs one full-screen shader pass over the buffer: upload as a
// texture, draw the quad into an offscreen target with the keyed program,
// and read the pixels back. The readback arrives bottom-left origin (GL
// convention) and is flipped so the returned buffer is top-left origin like
// every other Buffer. The input buffer is never modified.
func (m *Manager) Apply(key, fragmentSrc string, b *pixel.Buffer, uniforms map[string]float32) (*pixel.Buffer, error) {
	program, err := m.Program(key, QuadVertexSource, fragmentSrc)
	if err != nil {
		return nil, err
	}

	if !m.hasQuad {
		vao, err := m.gl.SetupQuad()
		if err != nil {
			return nil, enherr.Wrap(err, enherr.CodeGPUNotAvailable, "set up quad geometry")
		}
		m.quad = vao
		m.hasQuad = true
	}

	texture, err := m.gl.CreateTexture(b.Width, b.Height, b.Pix)
	if err != nil {
		return nil, enherr.Wrap(err, enherr.CodeGPUNotAvailable, "upload %dx%d texture", b.Width, b.Height)
	}
	defer m.gl.DeleteTexture(texture)

	target, err := m.gl.CreateRenderTarget(b.Width, b.Height)
	if err != nil {
		return nil, enherr.Wrap(err, enherr.CodeGPUNotAvailable, "create %dx%d render target", b.Width, b.Height)
	}
	defer m.gl.DeleteRenderTarget(target)

	for name, value := range uniforms {
		m.gl.SetUniform(program, name, value)
	}

	m.gl.Draw(target, program, m.quad, texture)

	raw := make([]uint8, b.Width*b.Height*4)
	m.gl.ReadPixels(target, raw)

	return flipRows(raw, b.Width, b.Height), nil
}

// Probe reports whether the GL context can compile and run the identity
// program. Pipelines call this once per session instead of checking
// capability per frame.
func (m *Manager) Probe() bool {
	_, err := m.Program("identity", QuadVertexSource, IdentitySource)
	return err == nil
}

// ClearCache releases every cached program and the quad geometry. GPU
// objects are not garbage-collected; skipping this leaks GPU memory across
// pipeline runs.
func (m *Manager) ClearCache() {
	for key, program := range m.programs {
		m.gl.DeleteProgram(program)
		delete(m.programs, key)
	}
	if m.hasQuad {
		m.gl.DeleteQuad(m.quad)
		m.hasQuad = false
	}
	log.Debug().Msg("Shader cache cleared")
}

// CachedPrograms returns the number of programs currently cached.
func (m *Manager) CachedPrograms() int {
	return len(m.programs)
}

// flipRows converts a bottom-left-origin readback into a top-left-origin
// buffer.
func flipRows(raw []uint8, width, height int) *pixel.Buffer {
	out := pixel.New(width, height)
	stride := width * 4
	for y := 0; y < height; y++ {
		src := (height - 1 - y) * stride
		copy(out.Pix[y*stride:(y+1)*stride], raw[src:src+stride])
	}
	return out
}
