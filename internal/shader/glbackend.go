package shader

// glbackend.go is the real OpenGL implementation of the GL interface, built
// on go-gl. It assumes the caller has made a 4.1-core context current on
// this thread (the host application owns context and window creation).

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
)

type openGL struct{}

// OpenGL initializes go-gl against the current context and returns the real
// GL backend. Fails when no context is current or the driver rejects
// initialization.
func OpenGL() (GL, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("initialize OpenGL: %w", err)
	}
	return openGL{}, nil
}

func (openGL) CompileShader(kind ShaderKind, source string) (uint32, error) {
	glKind := uint32(gl.VERTEX_SHADER)
	if kind == FragmentShader {
		glKind = gl.FRAGMENT_SHADER
	}

	id := gl.CreateShader(glKind)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(id, 1, csources, nil)
	free()
	gl.CompileShader(id)

	var status int32
	gl.GetShaderiv(id, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		infoLog := shaderLog(id)
		gl.DeleteShader(id)
		return 0, fmt.Errorf("shader compile failed: %s", infoLog)
	}
	return id, nil
}

func (openGL) LinkProgram(vertex, fragment uint32) (uint32, error) {
	id := gl.CreateProgram()
	gl.AttachShader(id, vertex)
	gl.AttachShader(id, fragment)
	gl.LinkProgram(id)

	var status int32
	gl.GetProgramiv(id, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		infoLog := programLog(id)
		gl.DeleteProgram(id)
		return 0, fmt.Errorf("program link failed: %s", infoLog)
	}
	return id, nil
}

func (openGL) DeleteShader(id uint32)  { gl.DeleteShader(id) }
func (openGL) DeleteProgram(id uint32) { gl.DeleteProgram(id) }

func (openGL) SetUniform(program uint32, name string, value float32) {
	gl.UseProgram(program)
	loc := gl.GetUniformLocation(program, gl.Str(name+"\x00"))
	if loc >= 0 {
		gl.Uniform1f(loc, value)
	}
}

func (openGL) CreateTexture(width, height int, pix []uint8) (uint32, error) {
	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(width), int32(height), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pix))

	if errCode := gl.GetError(); errCode != gl.NO_ERROR {
		gl.DeleteTextures(1, &tex)
		return 0, fmt.Errorf("texture upload failed: GL error 0x%x", errCode)
	}
	return tex, nil
}

func (openGL) DeleteTexture(id uint32) { gl.DeleteTextures(1, &id) }

func (openGL) CreateRenderTarget(width, height int) (RenderTarget, error) {
	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(width), int32(height), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, nil)

	var fbo uint32
	gl.GenFramebuffers(1, &fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, fbo)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, tex, 0)

	if status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER); status != gl.FRAMEBUFFER_COMPLETE {
		gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
		gl.DeleteFramebuffers(1, &fbo)
		gl.DeleteTextures(1, &tex)
		return RenderTarget{}, fmt.Errorf("framebuffer incomplete: 0x%x", status)
	}
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)

	return RenderTarget{FBO: fbo, Texture: tex, Width: width, Height: height}, nil
}

func (openGL) DeleteRenderTarget(rt RenderTarget) {
	gl.DeleteFramebuffers(1, &rt.FBO)
	gl.DeleteTextures(1, &rt.Texture)
}

// SetupQuad builds the shared full-screen triangle-strip quad. Texture V
// coordinates are flipped so the rendered framebuffer carries the uploaded
// image the right way up; readback is therefore bottom-first and the
// Manager flips rows once on the way out.
func (openGL) SetupQuad() (uint32, error) {
	vertices := []float32{
		// x, y, u, v
		-1, -1, 0, 1,
		1, -1, 1, 1,
		-1, 1, 0, 0,
		1, 1, 1, 0,
	}

	var vao uint32
	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)

	var vbo uint32
	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)

	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 2, gl.FLOAT, false, 4*4, 0)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(1, 2, gl.FLOAT, false, 4*4, 2*4)

	gl.BindVertexArray(0)

	if errCode := gl.GetError(); errCode != gl.NO_ERROR {
		gl.DeleteVertexArrays(1, &vao)
		gl.DeleteBuffers(1, &vbo)
		return 0, fmt.Errorf("quad setup failed: GL error 0x%x", errCode)
	}
	return vao, nil
}

func (openGL) DeleteQuad(vao uint32) { gl.DeleteVertexArrays(1, &vao) }

func (openGL) Draw(target RenderTarget, program, vao, texture uint32) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, target.FBO)
	gl.Viewport(0, 0, int32(target.Width), int32(target.Height))

	gl.UseProgram(program)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, texture)
	loc := gl.GetUniformLocation(program, gl.Str("frame\x00"))
	if loc >= 0 {
		gl.Uniform1i(loc, 0)
	}

	gl.BindVertexArray(vao)
	gl.DrawArrays(gl.TRIANGLE_STRIP, 0, 4)
	gl.BindVertexArray(0)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
}

func (openGL) ReadPixels(target RenderTarget, pix []uint8) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, target.FBO)
	gl.ReadPixels(0, 0, int32(target.Width), int32(target.Height),
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pix))
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
}

func shaderLog(id uint32) string {
	var length int32
	gl.GetShaderiv(id, gl.INFO_LOG_LENGTH, &length)
	if length == 0 {
		return "(no info log)"
	}
	buf := strings.Repeat("\x00", int(length+1))
	gl.GetShaderInfoLog(id, length, nil, gl.Str(buf))
	return strings.TrimRight(buf, "\x00")
}

func programLog(id uint32) string {
	var length int32
	gl.GetProgramiv(id, gl.INFO_LOG_LENGTH, &length)
	if length == 0 {
		return "(no info log)"
	}
	buf := strings.Repeat("\x00", int(length+1))
	gl.GetProgramInfoLog(id, length, nil, gl.Str(buf))
	return strings.TrimRight(buf, "\x00")
}
