package shader

import (
	"errors"
	"testing"

	"github.com/kemo-beep/snip-enhance/internal/enherr"
	"github.com/kemo-beep/snip-enhance/internal/pixel"
)

// fakeGL is an in-memory GL double. Draw runs the identity transform:
// the bound texture is copied into the render target. ReadPixels returns
// rows bottom-first, matching the real backend's GL convention, so the
// Manager's flip logic is exercised for real.
type fakeGL struct {
	failCompile bool
	compiles    int
	links       int

	nextID   uint32
	textures map[uint32][]uint8
	texDims  map[uint32][2]int
	targets  map[uint32][]uint8

	liveShaders  int
	livePrograms int
	liveQuads    int
}

func newFakeGL() *fakeGL {
	return &fakeGL{
		textures: make(map[uint32][]uint8),
		texDims:  make(map[uint32][2]int),
		targets:  make(map[uint32][]uint8),
	}
}

func (f *fakeGL) id() uint32 { f.nextID++; return f.nextID }

func (f *fakeGL) CompileShader(kind ShaderKind, source string) (uint32, error) {
	f.compiles++
	if f.failCompile {
		return 0, errors.New("0:1(1): error: syntax error (fake)")
	}
	f.liveShaders++
	return f.id(), nil
}

func (f *fakeGL) LinkProgram(vertex, fragment uint32) (uint32, error) {
	f.links++
	f.livePrograms++
	return f.id(), nil
}

func (f *fakeGL) DeleteShader(id uint32)  { f.liveShaders-- }
func (f *fakeGL) DeleteProgram(id uint32) { f.livePrograms-- }

func (f *fakeGL) SetUniform(program uint32, name string, value float32) {}

func (f *fakeGL) CreateTexture(width, height int, pix []uint8) (uint32, error) {
	id := f.id()
	cp := make([]uint8, len(pix))
	copy(cp, pix)
	f.textures[id] = cp
	f.texDims[id] = [2]int{width, height}
	return id, nil
}

func (f *fakeGL) DeleteTexture(id uint32) { delete(f.textures, id) }

func (f *fakeGL) CreateRenderTarget(width, height int) (RenderTarget, error) {
	id := f.id()
	f.targets[id] = make([]uint8, width*height*4)
	return RenderTarget{FBO: id, Width: width, Height: height}, nil
}

func (f *fakeGL) DeleteRenderTarget(rt RenderTarget) { delete(f.targets, rt.FBO) }

func (f *fakeGL) SetupQuad() (uint32, error) { f.liveQuads++; return f.id(), nil }
func (f *fakeGL) DeleteQuad(vao uint32)      { f.liveQuads-- }

func (f *fakeGL) Draw(target RenderTarget, program, vao, texture uint32) {
	copy(f.targets[target.FBO], f.textures[texture])
}

func (f *fakeGL) ReadPixels(target RenderTarget, pix []uint8) {
	// GL returns the bottom framebuffer row first.
	data := f.targets[target.FBO]
	stride := target.Width * 4
	for y := 0; y < target.Height; y++ {
		src := (target.Height - 1 - y) * stride
		copy(pix[y*stride:(y+1)*stride], data[src:src+stride])
	}
}

func TestProgramCaching(t *testing.T) {
	gl := newFakeGL()
	m := NewManager(gl)

	p1, err := m.Program("brightness", QuadVertexSource, BrightnessSource)
	if err != nil {
		t.Fatalf("Program() error: %v", err)
	}
	p2, err := m.Program("brightness", QuadVertexSource, BrightnessSource)
	if err != nil {
		t.Fatalf("Program() second call error: %v", err)
	}

	if p1 != p2 {
		t.Errorf("cached program = %d, first program = %d", p2, p1)
	}
	if gl.links != 1 {
		t.Errorf("links = %d, want 1 (second call must hit the cache)", gl.links)
	}
}

func TestProgramCompileFailure(t *testing.T) {
	gl := newFakeGL()
	gl.failCompile = true
	m := NewManager(gl)

	_, err := m.Program("bad", QuadVertexSource, "not glsl")
	if err == nil {
		t.Fatal("Program() should fail when compilation fails")
	}
	if !enherr.IsCode(err, enherr.CodeGPUNotAvailable) {
		t.Errorf("error code = %v, want GPU_NOT_AVAILABLE", err)
	}
	if m.CachedPrograms() != 0 {
		t.Error("failed program must not be cached")
	}
}

// TestApplyIdentityRoundTrip is the orientation regression test: upload,
// draw the identity shader, read back, and compare byte-for-byte. If the
// vertical flip on readback is wrong or missing, this fails.
func TestApplyIdentityRoundTrip(t *testing.T) {
	gl := newFakeGL()
	m := NewManager(gl)

	src := pixel.New(3, 2)
	for i := range src.Pix {
		src.Pix[i] = uint8(i * 7)
	}

	out, err := m.Apply("identity", IdentitySource, src, nil)
	if err != nil {
		t.Fatalf("Apply() error: %v", err)
	}

	if out.Width != src.Width || out.Height != src.Height {
		t.Fatalf("dimensions = %dx%d, want %dx%d", out.Width, out.Height, src.Width, src.Height)
	}
	for i := range src.Pix {
		if out.Pix[i] != src.Pix[i] {
			t.Fatalf("byte %d = %d, want %d (vertical flip broken?)", i, out.Pix[i], src.Pix[i])
		}
	}
}

func TestApplyDoesNotModifyInput(t *testing.T) {
	gl := newFakeGL()
	m := NewManager(gl)

	src := pixel.New(4, 4)
	for i := range src.Pix {
		src.Pix[i] = 42
	}
	snapshot := src.Clone()

	if _, err := m.Apply("identity", IdentitySource, src, nil); err != nil {
		t.Fatalf("Apply() error: %v", err)
	}
	for i := range src.Pix {
		if src.Pix[i] != snapshot.Pix[i] {
			t.Fatal("Apply() modified the input buffer")
		}
	}
}

func TestClearCacheReleasesResources(t *testing.T) {
	gl := newFakeGL()
	m := NewManager(gl)

	if _, err := m.Apply("identity", IdentitySource, pixel.New(2, 2), nil); err != nil {
		t.Fatalf("Apply() error: %v", err)
	}
	if _, err := m.Program("contrast", QuadVertexSource, ContrastSource); err != nil {
		t.Fatalf("Program() error: %v", err)
	}
	if m.CachedPrograms() != 2 {
		t.Fatalf("cached programs = %d, want 2", m.CachedPrograms())
	}

	m.ClearCache()

	if m.CachedPrograms() != 0 {
		t.Errorf("cached programs after clear = %d, want 0", m.CachedPrograms())
	}
	if gl.livePrograms != 0 {
		t.Errorf("live GPU programs after clear = %d, want 0", gl.livePrograms)
	}
	if gl.liveQuads != 0 {
		t.Errorf("live quads after clear = %d, want 0", gl.liveQuads)
	}
	if gl.liveShaders != 0 {
		t.Errorf("live shaders = %d, want 0 (shaders deleted after link)", gl.liveShaders)
	}
}

func TestProbe(t *testing.T) {
	ok := NewManager(newFakeGL())
	if !ok.Probe() {
		t.Error("Probe() = false on a working context")
	}

	broken := newFakeGL()
	broken.failCompile = true
	if NewManager(broken).Probe() {
		t.Error("Probe() = true on a context that cannot compile")
	}
}
