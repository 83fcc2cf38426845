package renderer

import (
	"errors"
	"image"
	"io"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"mini-sky/internal/graphics/blur"
	"mini-sky/internal/graphics/gpu"
	"mini-sky/internal/graphics/gpu/gputest"
	"mini-sky/internal/log"
)

func init() {
	log.SetSink(io.Discard)
}

func newTestRenderer(t *testing.T, opts ...Option) (*Renderer, *gputest.Device) {
	t.Helper()
	dev := gputest.NewDevice()
	r, err := New(dev, gpu.NewSlotAllocator(0), opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := r.Init(800, 600); err != nil {
		t.Fatalf("Init: %v", err)
	}
	dev.Reset()
	return r, dev
}

// testScene is one lit cube at the origin, a warm point light, a pale sun
// pointing down and a camera at (0,2,-10) looking at the origin.
type testScene struct {
	material   *Material
	transform  *Transform
	pointColor mgl32.Vec3
	pointPos   *Transform
	sunDir     mgl32.Vec3
	sunColor   mgl32.Vec3

	position  mgl32.Vec3
	direction mgl32.Vec3
	view      mgl32.Mat4
}

func newTestScene() *testScene {
	position := mgl32.Vec3{0, 2, -10}
	return &testScene{
		material:   DefaultMaterial(),
		transform:  NewTransform(mgl32.Vec3{}),
		pointColor: mgl32.Vec3{1.0, 0.8, 0.6},
		pointPos:   NewTransform(mgl32.Vec3{150, 100, 120}),
		sunDir:     mgl32.Vec3{0, -1, 0},
		sunColor:   mgl32.Vec3{0.9, 0.9, 1.0},
		position:   position,
		direction:  mgl32.Vec3{}.Sub(position).Normalize(),
		view:       mgl32.LookAtV(position, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0}),
	}
}

func (s *testScene) submit(r *Renderer, dev *gputest.Device) {
	r.AddRegularObject(RegularObject{Material: s.material, Transform: s.transform, Drawable: gputest.NewDrawable(dev, "object")})
	r.AddPointLightObject(PointLightObject{Color: &s.pointColor, Transform: s.pointPos, Drawable: gputest.NewDrawable(dev, "light")})
	r.AddDirectionalLightObject(DirectionalLightObject{Direction: &s.sunDir, Color: &s.sunColor})
}

func (s *testScene) render(r *Renderer) error {
	return r.Render(s.view, s.view.Mat3().Mat4(), s.position, s.direction)
}

func program(t *testing.T, dev *gputest.Device, name string) *gputest.Program {
	t.Helper()
	p, ok := dev.Programs[name]
	if !ok {
		t.Fatalf("program %q was not compiled", name)
	}
	return p
}

func TestRenderSingleFrame(t *testing.T) {
	r, dev := newTestRenderer(t)
	s := newTestScene()
	terrain := &Terrain{Drawable: gputest.NewDrawable(dev, "terrain")}
	if err := r.SetTerrain(terrain); err != nil {
		t.Fatalf("SetTerrain: %v", err)
	}
	s.submit(r, dev)
	r.AddDebugObject(DebugObject{Transform: &TranslateTransform{}, Color: &mgl32.Vec3{1, 0, 0}, Drawable: gputest.NewDrawable(dev, "marker")})

	if err := s.render(r); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !r.queue.empty() {
		t.Fatalf("queues not empty after render: %+v", r.queue)
	}
	if r.Terrain() != terrain {
		t.Fatalf("terrain changed by render")
	}

	order := []string{"bind fb:shadow", "bind fb:screen", "draw skybox", "bind fb:ping_pong_1", "bind fb:default"}
	last := -1
	for _, cmd := range order {
		i := dev.Index(cmd)
		if i < 0 {
			t.Fatalf("missing %q in log", cmd)
		}
		if i < last {
			t.Fatalf("%q out of order", cmd)
		}
		last = i
	}

	draws := map[string]int{}
	for _, c := range dev.Commands("draw ") {
		draws[strings.TrimPrefix(c, "draw ")]++
	}
	want := map[string]int{"object": 2, "terrain": 2, "light": 1, "marker": 1, "skybox": 1, "quad": DefaultBlurPasses + 1}
	for label, n := range want {
		if draws[label] != n {
			t.Fatalf("draws of %q: got %d, want %d", label, draws[label], n)
		}
	}

	st := r.Stats()
	if st.Frame != 1 || st.RegularObjects != 1 || st.DebugObjects != 1 || st.PointLights != 1 || !st.TerrainDrawn {
		t.Fatalf("unexpected stats %+v", st)
	}
	if st.ShadowSkipped || st.ShadowCasters != 2 {
		t.Fatalf("shadow stats: got skipped=%t casters=%d, want false 2", st.ShadowSkipped, st.ShadowCasters)
	}
	if len(st.Passes) != 5 {
		t.Fatalf("got %d pass timings, want 5", len(st.Passes))
	}
	if !strings.Contains(st.Table(), "composite") {
		t.Fatalf("timing table misses composite pass:\n%s", st.Table())
	}
}

func TestRenderLightInvariant(t *testing.T) {
	tests := []struct {
		name         string
		directionals int
		points       int
	}{
		{"no lights", 0, 0},
		{"no directional", 0, 1},
		{"two directional", 2, 1},
		{"no point", 1, 0},
		{"two point", 1, 2},
	}
	for _, tt := range tests {
		r, dev := newTestRenderer(t)
		s := newTestScene()
		r.AddRegularObject(RegularObject{Transform: s.transform, Drawable: gputest.NewDrawable(dev, "object")})
		for i := 0; i < tt.directionals; i++ {
			r.AddDirectionalLightObject(DirectionalLightObject{Direction: &s.sunDir, Color: &s.sunColor})
		}
		for i := 0; i < tt.points; i++ {
			r.AddPointLightObject(PointLightObject{Color: &s.pointColor, Transform: s.pointPos, Drawable: gputest.NewDrawable(dev, "light")})
		}
		if err := s.render(r); !errors.Is(err, ErrLightCount) {
			t.Fatalf("%s: got %v, want ErrLightCount", tt.name, err)
		}
		if !r.queue.empty() {
			t.Fatalf("%s: queues not cleared after failure", tt.name)
		}
		if len(dev.Commands("draw ")) != 0 {
			t.Fatalf("%s: drew after a contract failure: %q", tt.name, dev.Commands("draw "))
		}
	}
}

func TestRenderDirectionalLightOff(t *testing.T) {
	r, dev := newTestRenderer(t)
	s := newTestScene()
	s.sunColor = mgl32.Vec3{}
	s.submit(r, dev)

	if err := s.render(r); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if dev.Index("bind fb:shadow") >= 0 {
		t.Fatalf("shadow target bound with the light off")
	}
	lit := program(t, dev, "regular_object")
	if m, _ := lit.Matrix("u_light_space"); m != mgl32.Ident4() {
		t.Fatalf("light space: got %v, want identity", m)
	}
	if v, ok := lit.Int("u_shadows_enabled"); !ok || v != 0 {
		t.Fatalf("u_shadows_enabled: got %d (set=%t), want 0", v, ok)
	}
	if !r.Stats().ShadowSkipped {
		t.Fatalf("stats do not report the skipped shadow pass")
	}
	if dev.Index("draw object") < 0 {
		t.Fatalf("scene pass did not draw the object")
	}
}

func TestRenderShadowsEnabled(t *testing.T) {
	r, dev := newTestRenderer(t)
	s := newTestScene()
	s.submit(r, dev)
	if err := s.render(r); err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := FitShadowFrustum(s.position, s.direction, s.sunDir, DefaultShadowFrustum()).ViewProjection
	lit := program(t, dev, "regular_object")
	if m, _ := lit.Matrix("u_light_space"); !m.ApproxEqual(want) {
		t.Fatalf("light space matrix does not match the fitted frustum")
	}
	if v, _ := lit.Int("u_shadows_enabled"); v != 1 {
		t.Fatalf("u_shadows_enabled: got %d, want 1", v)
	}
	if depth, _ := program(t, dev, "depth").Matrix("u_light_space"); !depth.ApproxEqual(want) {
		t.Fatalf("depth program light space does not match")
	}

	bind := dev.Index("bind fb:shadow")
	front := dev.Index("cull front")
	draw := dev.Index("draw object")
	back := dev.Index("cull back")
	if !(bind < front && front < draw && draw < back) {
		t.Fatalf("shadow pass state order: bind=%d front=%d draw=%d back=%d", bind, front, draw, back)
	}
}

func TestRenderNotInitialized(t *testing.T) {
	dev := gputest.NewDevice()
	r, err := New(dev, gpu.NewSlotAllocator(0))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	s := newTestScene()
	s.submit(r, dev)
	if err := s.render(r); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("got %v, want ErrNotInitialized", err)
	}
	if !r.queue.empty() {
		t.Fatalf("queues not cleared")
	}
}

func TestRenderPropagatesUniformErrors(t *testing.T) {
	r, dev := newTestRenderer(t)
	dev.Undeclared["regular_object.u_model"] = true
	s := newTestScene()
	s.submit(r, dev)
	err := s.render(r)
	if !errors.Is(err, gpu.ErrUniformNotFound) {
		t.Fatalf("got %v, want ErrUniformNotFound", err)
	}
	if !strings.Contains(err.Error(), "scene pass") {
		t.Fatalf("error does not name the pass: %v", err)
	}
	if !r.queue.empty() {
		t.Fatalf("queues not cleared after failure")
	}
	if dev.Index("bind fb:default") >= 0 {
		t.Fatalf("composite ran after a failed scene pass")
	}
}

func TestRenderRejectsIncompleteObjects(t *testing.T) {
	r, dev := newTestRenderer(t)
	s := newTestScene()
	s.submit(r, dev)
	r.AddRegularObject(RegularObject{Transform: s.transform})
	if err := s.render(r); !errors.Is(err, ErrInvalidObject) {
		t.Fatalf("got %v, want ErrInvalidObject", err)
	}
}

func TestEachLitProgramGetsLighting(t *testing.T) {
	r, dev := newTestRenderer(t)
	s := newTestScene()
	if err := r.SetTerrain(&Terrain{Drawable: gputest.NewDrawable(dev, "terrain")}); err != nil {
		t.Fatalf("SetTerrain: %v", err)
	}
	s.submit(r, dev)
	if err := s.render(r); err != nil {
		t.Fatalf("Render: %v", err)
	}
	names := []string{
		"u_view", "u_projection", "u_model", "u_light_space", "u_camera_position",
		"u_point_light.position", "u_point_light.ambient", "u_point_light.diffuse", "u_point_light.specular",
		"u_directional_light.direction", "u_directional_light.ambient", "u_directional_light.diffuse",
		"u_directional_light.specular", "u_shadows_enabled", "u_shadow_texture_sampler",
		"u_normal_texture_sampler", "u_material.texture_sampler", "u_material.ambient",
		"u_material.diffuse", "u_material.specular", "u_material.shininess",
	}
	for _, prog := range []string{"regular_object", "terrain"} {
		p := program(t, dev, prog)
		for _, n := range names {
			if _, ok := p.Uniforms[n]; !ok {
				t.Fatalf("%s: uniform %q never set", prog, n)
			}
		}
		if v, _ := p.Vector("u_point_light.diffuse"); v != s.pointColor {
			t.Fatalf("%s: point diffuse got %v, want %v", prog, v, s.pointColor)
		}
		if v, _ := p.Vector("u_point_light.position"); v != s.pointPos.Position {
			t.Fatalf("%s: point position got %v, want %v", prog, v, s.pointPos.Position)
		}
	}
	if m, _ := program(t, dev, "terrain").Matrix("u_model"); m != mgl32.Ident4() {
		t.Fatalf("terrain model: got %v, want identity", m)
	}
}

func TestSkyboxPassState(t *testing.T) {
	r, dev := newTestRenderer(t)
	s := newTestScene()
	s.submit(r, dev)
	if err := s.render(r); err != nil {
		t.Fatalf("Render: %v", err)
	}
	lequal := dev.Index("depth lequal")
	draw := dev.Index("draw skybox")
	less := dev.Index("depth less")
	if !(lequal >= 0 && lequal < draw && draw < less) {
		t.Fatalf("skybox depth state order: lequal=%d draw=%d less=%d", lequal, draw, less)
	}
	if dev.DepthFunc != gpu.DepthLess || dev.CullMode != gpu.CullBack {
		t.Fatalf("state not restored: depth=%v cull=%v", dev.DepthFunc, dev.CullMode)
	}
	sky := program(t, dev, "skybox")
	if v, _ := sky.Vector("u_sun_color"); v != s.sunColor {
		t.Fatalf("sun color: got %v, want %v", v, s.sunColor)
	}
	if v, _ := sky.Vector("u_sun_position"); !v.ApproxEqual(SunPosition()) {
		t.Fatalf("sun position: got %v", v)
	}
	if m, _ := sky.Matrix("u_view"); m.Col(3) != (mgl32.Vec4{0, 0, 0, 1}) {
		t.Fatalf("skybox view keeps a translation: %v", m.Col(3))
	}
}

func TestSceneDrawBufferSelection(t *testing.T) {
	r, dev := newTestRenderer(t)
	s := newTestScene()
	if err := r.SetTerrain(&Terrain{Drawable: gputest.NewDrawable(dev, "terrain")}); err != nil {
		t.Fatalf("SetTerrain: %v", err)
	}
	s.submit(r, dev)
	r.AddDebugObject(DebugObject{Transform: &TranslateTransform{}, Color: &mgl32.Vec3{0, 1, 0}, Drawable: gputest.NewDrawable(dev, "marker")})
	if err := s.render(r); err != nil {
		t.Fatalf("Render: %v", err)
	}

	// Only emissive geometry writes the bright-pass target.
	want := map[string]string{
		"marker":  "color0",
		"object":  "color0",
		"terrain": "color0",
		"light":   "color0,color1",
		"skybox":  "color0,color1",
	}
	start := dev.Index("bind fb:screen")
	if start < 0 {
		t.Fatalf("screen target never bound")
	}
	selected := ""
	seen := map[string]bool{}
	for _, l := range dev.Log[start+1:] {
		if strings.HasPrefix(l, "bind fb:") {
			break
		}
		if sel, ok := strings.CutPrefix(l, "draw-buffers screen "); ok {
			selected = sel
			continue
		}
		if strings.HasPrefix(l, "clear ") && selected != "color0,color1" {
			t.Fatalf("screen cleared with %q selected, want both color targets", selected)
		}
		label, ok := strings.CutPrefix(l, "draw ")
		if !ok {
			continue
		}
		w, ok := want[label]
		if !ok {
			t.Fatalf("unexpected draw %q into the screen target", label)
		}
		if selected != w {
			t.Fatalf("draw %s: got draw buffers %q, want %q", label, selected, w)
		}
		seen[label] = true
	}
	if len(seen) != len(want) {
		t.Fatalf("drawn into screen: got %v, want every key of %v", seen, want)
	}
}

func TestSkyboxCubemap(t *testing.T) {
	r, dev := newTestRenderer(t)
	var faces gpu.CubeFaces
	for i := range faces {
		faces[i] = image.NewRGBA(image.Rect(0, 0, 4, 4))
	}
	cubemap, err := dev.NewCubemap("sky", faces, 7)
	if err != nil {
		t.Fatalf("NewCubemap: %v", err)
	}

	s := newTestScene()
	s.submit(r, dev)
	if err := s.render(r); err != nil {
		t.Fatalf("Render: %v", err)
	}
	sky := program(t, dev, "skybox")
	if v, _ := sky.Int("u_skybox_enabled"); v != 0 {
		t.Fatalf("procedural sky: u_skybox_enabled = %d, want 0", v)
	}
	if dev.Index("bind-texture sky@7") >= 0 {
		t.Fatalf("cubemap bound before it was set")
	}

	r.SetSkybox(cubemap)
	dev.Reset()
	s.submit(r, dev)
	if err := s.render(r); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if v, _ := sky.Int("u_skybox_enabled"); v != 1 {
		t.Fatalf("cubemap sky: u_skybox_enabled = %d, want 1", v)
	}
	if v, _ := sky.Int("u_skybox_texture_sampler"); v != 7 {
		t.Fatalf("cubemap sampler: got %d, want 7", v)
	}
	bind, draw := dev.Index("bind-texture sky@7"), dev.Index("draw skybox")
	if bind < 0 || bind > draw {
		t.Fatalf("cubemap bind at %d, skybox draw at %d", bind, draw)
	}

	r.SetSkybox(nil)
	s.submit(r, dev)
	if err := s.render(r); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if v, _ := sky.Int("u_skybox_enabled"); v != 0 {
		t.Fatalf("cleared cubemap: u_skybox_enabled = %d, want 0", v)
	}
	r.Dispose()
	if cubemap.(*gputest.Texture).Disposed {
		t.Fatalf("renderer disposed a cubemap it does not own")
	}
}

func TestBloomPassResultTarget(t *testing.T) {
	r, dev := newTestRenderer(t)
	s := newTestScene()
	s.submit(r, dev)
	if err := s.render(r); err != nil {
		t.Fatalf("Render: %v", err)
	}

	st := r.Stats()
	if st.BlurPasses != DefaultBlurPasses {
		t.Fatalf("blur passes: got %d, want %d", st.BlurPasses, DefaultBlurPasses)
	}
	if st.BloomTarget != blur.StartFlag {
		t.Fatalf("bloom result index: got %d, want start flag %d", st.BloomTarget, blur.StartFlag)
	}

	var flags []string
	for _, c := range dev.Commands("set gaussian_blur.u_horizontal=") {
		flags = append(flags, strings.TrimPrefix(c, "set gaussian_blur.u_horizontal="))
	}
	if got := strings.Join(flags, ""); got != "1010101010" {
		t.Fatalf("horizontal flags: got %s, want 1010101010", got)
	}

	composite := dev.Index("bind fb:default")
	if composite < 0 {
		t.Fatalf("composite pass did not run")
	}
	tail := dev.Log[composite:]
	found := false
	for _, c := range tail {
		if c == "bind-texture ping_pong_1.color0@1" {
			found = true
		}
	}
	if !found {
		t.Fatalf("composite did not bind the result target: %q", tail)
	}
	if v, _ := program(t, dev, "screen").Int("u_bloom_texture_sampler"); v != 1 {
		t.Fatalf("u_bloom_texture_sampler: got %d, want 1", v)
	}
	if w, ok := program(t, dev, "gaussian_blur").Float("u_weight[0]"); !ok || w <= 0 {
		t.Fatalf("blur weights not uploaded")
	}
}

func TestParameterRoundTrip(t *testing.T) {
	dev := gputest.NewDevice()
	r, err := New(dev, gpu.NewSlotAllocator(0))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if r.GetExposure() != DefaultExposure || r.GetGamma() != DefaultGamma || r.GetSharpness() != DefaultSharpness {
		t.Fatalf("defaults: got %v %v %v", r.GetExposure(), r.GetGamma(), r.GetSharpness())
	}
	if err := r.SetExposure(2.5); err != nil {
		t.Fatalf("SetExposure before Init: %v", err)
	}
	if err := r.Init(320, 200); err != nil {
		t.Fatalf("Init: %v", err)
	}
	screen := program(t, dev, "screen")
	if v, _ := screen.Float("u_exposure"); v != 2.5 {
		t.Fatalf("exposure stored before Init not uploaded: got %v", v)
	}

	for _, x := range []float32{0, 0.25, 1, 2.2, 9.75, 1000, -3} {
		if err := r.SetExposure(x); err != nil {
			t.Fatalf("SetExposure(%v): %v", x, err)
		}
		if err := r.SetGamma(x); err != nil {
			t.Fatalf("SetGamma(%v): %v", x, err)
		}
		if err := r.SetSharpness(x); err != nil {
			t.Fatalf("SetSharpness(%v): %v", x, err)
		}
		if r.GetExposure() != x || r.GetGamma() != x || r.GetSharpness() != x {
			t.Fatalf("round trip %v: got %v %v %v", x, r.GetExposure(), r.GetGamma(), r.GetSharpness())
		}
		if v, _ := screen.Float("u_sharpness"); v != x {
			t.Fatalf("u_sharpness: got %v, want %v", v, x)
		}
	}

	dev.Undeclared["screen.u_gamma"] = true
	if err := r.SetGamma(3); !errors.Is(err, gpu.ErrUniformNotFound) {
		t.Fatalf("got %v, want ErrUniformNotFound", err)
	}
	if r.GetGamma() != 3 {
		t.Fatalf("gamma not stored when upload fails")
	}
}

func TestInitFailureReleasesResources(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*gputest.Device)
		want  error
	}{
		{"compile", func(d *gputest.Device) { d.FailCompile["terrain"] = nil }, gpu.ErrCompile},
		{"shadow target", func(d *gputest.Device) { d.Incomplete["shadow"] = true }, gpu.ErrFramebufferIncomplete},
		{"ping-pong target", func(d *gputest.Device) { d.Incomplete["ping_pong_1"] = true }, gpu.ErrFramebufferIncomplete},
	}
	for _, tt := range tests {
		dev := gputest.NewDevice()
		tt.setup(dev)
		r, err := New(dev, gpu.NewSlotAllocator(0))
		if err != nil {
			t.Fatalf("%s: New: %v", tt.name, err)
		}
		if err := r.Init(640, 480); !errors.Is(err, tt.want) {
			t.Fatalf("%s: got %v, want %v", tt.name, err, tt.want)
		}
		for name, fb := range dev.Framebuffers {
			if !fb.Disposed {
				t.Fatalf("%s: framebuffer %q leaked", tt.name, name)
			}
		}
		for name, p := range dev.Programs {
			if !p.Disposed {
				t.Fatalf("%s: program %q leaked", tt.name, name)
			}
		}
		for _, m := range dev.Meshes {
			if !m.Disposed {
				t.Fatalf("%s: mesh %q leaked", tt.name, m.Label)
			}
		}
	}
}

func TestInitSlotExhaustion(t *testing.T) {
	r, err := New(gputest.NewDevice(), gpu.NewSlotAllocator(3))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := r.Init(64, 64); !errors.Is(err, gpu.ErrSlotsExhausted) {
		t.Fatalf("got %v, want ErrSlotsExhausted", err)
	}
}

func TestInitTwice(t *testing.T) {
	r, _ := newTestRenderer(t)
	if err := r.Init(10, 10); !errors.Is(err, ErrAlreadyInitialized) {
		t.Fatalf("got %v, want ErrAlreadyInitialized", err)
	}
}

func TestNewRejectsInvalidOptions(t *testing.T) {
	for _, opt := range []Option{
		WithBlurPasses(3),
		WithBlurPasses(0),
		WithShadowMapSize(0),
		WithFOV(0),
		WithBlurKernel(9, 2),
		WithShadowFrustum(ShadowFrustumParams{RenderDistance: 10, Depth: 0, HalfWidth: 5}),
	} {
		if _, err := New(gputest.NewDevice(), gpu.NewSlotAllocator(0), opt); !errors.Is(err, ErrInvalidOptions) {
			t.Fatalf("got %v, want ErrInvalidOptions", err)
		}
	}
}

func TestOptionsShapeTargets(t *testing.T) {
	_, dev := newTestRenderer(t, WithShadowMapSize(2048), WithBlurPasses(4))
	shadow := dev.Framebuffers["shadow"]
	if shadow.Spec.Width != 2048 || shadow.Spec.Height != 2048 {
		t.Fatalf("shadow size: got %dx%d, want 2048", shadow.Spec.Width, shadow.Spec.Height)
	}
	ts := shadow.Spec.Targets[0]
	if ts.Format != gpu.FormatDepth || ts.Filter != gpu.FilterNearest || ts.Wrap != gpu.WrapClampToBorder {
		t.Fatalf("shadow target spec: %+v", ts)
	}

	screen := dev.Framebuffers["screen"]
	if !screen.Spec.DepthStencil || len(screen.Spec.Targets) != 2 {
		t.Fatalf("screen spec: %+v", screen.Spec)
	}
	bloomSlot := screen.Target(gpu.ColorAttachment1).Slot()
	for i := 0; i < 2; i++ {
		pp := dev.Framebuffers[[]string{"ping_pong_0", "ping_pong_1"}[i]]
		if pp.Target(gpu.ColorAttachment0).Slot() != bloomSlot {
			t.Fatalf("ping-pong %d does not share the bloom slot", i)
		}
		if pp.Spec.Width != 800 || pp.Spec.Height != 600 {
			t.Fatalf("ping-pong %d size: %dx%d", i, pp.Spec.Width, pp.Spec.Height)
		}
	}
}

func TestResize(t *testing.T) {
	r, dev := newTestRenderer(t)
	old := dev.Framebuffers["screen"]
	if err := r.Resize(1024, 512); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	if !old.Disposed {
		t.Fatalf("old screen target not disposed")
	}
	screen := dev.Framebuffers["screen"]
	if screen.Spec.Width != 1024 || screen.Spec.Height != 512 {
		t.Fatalf("screen size: got %dx%d", screen.Spec.Width, screen.Spec.Height)
	}
	if screen.Target(gpu.ColorAttachment0).Slot() != old.Target(gpu.ColorAttachment0).Slot() {
		t.Fatalf("resize moved the color slot")
	}
	if r.camera.AspectRatio != 2 {
		t.Fatalf("aspect: got %v, want 2", r.camera.AspectRatio)
	}

	s := newTestScene()
	s.submit(r, dev)
	if err := s.render(r); err != nil {
		t.Fatalf("Render after resize: %v", err)
	}
	if dev.Viewport != [2]int{1024, 512} {
		t.Fatalf("window viewport: got %v", dev.Viewport)
	}
}

func TestResizeFailureKeepsTargets(t *testing.T) {
	r, dev := newTestRenderer(t)
	screen := dev.Framebuffers["screen"]
	pingPong := [2]*gputest.Framebuffer{dev.Framebuffers["ping_pong_0"], dev.Framebuffers["ping_pong_1"]}

	dev.Incomplete["ping_pong_1"] = true
	if err := r.Resize(1024, 512); !errors.Is(err, gpu.ErrFramebufferIncomplete) {
		t.Fatalf("got %v, want ErrFramebufferIncomplete", err)
	}
	if screen.Disposed || pingPong[0].Disposed || pingPong[1].Disposed {
		t.Fatalf("failed resize disposed the live targets")
	}
	if r.res.screen != screen || r.res.pingPong[0] != pingPong[0] || r.res.pingPong[1] != pingPong[1] {
		t.Fatalf("failed resize replaced the live targets")
	}
	for _, name := range []string{"screen", "ping_pong_0"} {
		if fb := dev.Framebuffers[name]; fb.Spec.Width == 1024 && !fb.Disposed {
			t.Fatalf("partially built %s target leaked", name)
		}
	}
	if r.res.width != 800 || r.res.height != 600 {
		t.Fatalf("size after failed resize: got %dx%d, want 800x600", r.res.width, r.res.height)
	}
	if r.camera.AspectRatio != float32(800)/600 {
		t.Fatalf("aspect after failed resize: got %v", r.camera.AspectRatio)
	}

	s := newTestScene()
	s.submit(r, dev)
	if err := s.render(r); err != nil {
		t.Fatalf("Render after failed resize: %v", err)
	}
	if dev.Viewport != [2]int{800, 600} {
		t.Fatalf("window viewport: got %v, want [800 600]", dev.Viewport)
	}

	delete(dev.Incomplete, "ping_pong_1")
	if err := r.Resize(1024, 512); err != nil {
		t.Fatalf("Resize retry: %v", err)
	}
	if !screen.Disposed || !pingPong[0].Disposed || !pingPong[1].Disposed {
		t.Fatalf("old targets not disposed after a successful resize")
	}
	if r.res.width != 1024 || r.res.height != 512 {
		t.Fatalf("size after retry: got %dx%d", r.res.width, r.res.height)
	}
}

func TestInitRetryKeepsSlots(t *testing.T) {
	dev := gputest.NewDevice()
	// Exactly the slots one renderer needs.
	slots := gpu.NewSlotAllocator(5)
	r, err := New(dev, slots)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	dev.FailCompile["terrain"] = nil
	for i := 0; i < 3; i++ {
		if err := r.Init(640, 480); !errors.Is(err, gpu.ErrCompile) {
			t.Fatalf("attempt %d: got %v, want ErrCompile", i, err)
		}
	}
	if slots.Remaining() != 0 {
		t.Fatalf("remaining after failed inits: got %d, want 0", slots.Remaining())
	}

	delete(dev.FailCompile, "terrain")
	if err := r.Init(640, 480); err != nil {
		t.Fatalf("Init after failures: %v", err)
	}
	color := dev.Framebuffers["screen"].Target(gpu.ColorAttachment0).Slot()

	r.Dispose()
	if err := r.Init(640, 480); err != nil {
		t.Fatalf("Init after Dispose: %v", err)
	}
	if got := dev.Framebuffers["screen"].Target(gpu.ColorAttachment0).Slot(); got != color {
		t.Fatalf("color slot after re-init: got %d, want %d", got, color)
	}
}

func TestDisposeIsIdempotent(t *testing.T) {
	r, dev := newTestRenderer(t)
	r.Dispose()
	disposed := len(dev.Commands("dispose "))
	if disposed == 0 {
		t.Fatalf("nothing disposed")
	}
	if first := dev.Commands("dispose ")[0]; first != "dispose program:screen" {
		t.Fatalf("first disposal: got %q, want the composite program", first)
	}
	if last := dev.Commands("dispose "); last[len(last)-1] != "dispose mesh:quad" {
		t.Fatalf("last disposal: got %q, want the quad", last[len(last)-1])
	}
	r.Dispose()
	if got := len(dev.Commands("dispose ")); got != disposed {
		t.Fatalf("second Dispose released %d more resources", got-disposed)
	}

	s := newTestScene()
	s.submit(r, dev)
	if err := s.render(r); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("render after Dispose: got %v, want ErrNotInitialized", err)
	}
}

func TestSetTerrain(t *testing.T) {
	r, dev := newTestRenderer(t)
	if err := r.SetTerrain(&Terrain{}); !errors.Is(err, ErrInvalidObject) {
		t.Fatalf("got %v, want ErrInvalidObject", err)
	}
	if err := r.SetTerrain(&Terrain{Drawable: gputest.NewDrawable(dev, "terrain")}); err != nil {
		t.Fatalf("SetTerrain: %v", err)
	}
	if err := r.SetTerrain(nil); err != nil {
		t.Fatalf("SetTerrain(nil): %v", err)
	}
	s := newTestScene()
	s.submit(r, dev)
	if err := s.render(r); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if dev.Index("draw terrain") >= 0 {
		t.Fatalf("cleared terrain was drawn")
	}
}
