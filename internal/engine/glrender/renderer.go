// Package glrender draws the reflection room with OpenGL 4.1: a forward lit
// pass, spot and point light shadow maps and cube map environment capture.
package glrender

import (
	"fmt"
	"slices"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/reflectbox/internal/camera"
	"github.com/Faultbox/reflectbox/internal/engine/glrender/shaders"
	"github.com/Faultbox/reflectbox/internal/logger"
	"github.com/Faultbox/reflectbox/internal/scene"
	"github.com/Faultbox/reflectbox/pkg/math"
)

// ErrDisposed is returned by Render and RenderCube after Dispose.
var ErrDisposed = scene.ErrDisposed

// Texture units of the lit program.
const (
	unitEnvMap       = 0
	unitSpotShadow   = 1
	unitPointShadow0 = 2
)

// Config holds the initial viewport.
type Config struct {
	Width      int
	Height     int
	PixelRatio float32
}

// Renderer is the OpenGL backend. All methods must run on the goroutine
// that owns the GL context.
type Renderer struct {
	width, height int
	pixelRatio    float32
	target        *Framebuffer

	lit   *program
	depth *program

	dummyCube  uint32
	dummyDepth uint32

	// capturing is the cube texture being drawn into, never sampled meanwhile
	capturing *cubeTexture

	owned    []gpuObject
	joints   []math.Mat4
	jointsGL []mgl32.Mat4

	drawCalls int
	disposed  bool
}

// New creates the renderer. The GL context must be current.
func New(cfg Config) (*Renderer, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("initializing OpenGL: %w", err)
	}
	logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))))

	r := &Renderer{pixelRatio: 1}

	var err error
	if r.lit, err = newProgram("lit", shaders.LitVertexShader, shaders.LitFragmentShader); err != nil {
		return nil, err
	}
	if r.depth, err = newProgram("depth", shaders.DepthVertexShader, shaders.DepthFragmentShader); err != nil {
		r.lit.release()
		return nil, err
	}
	r.createDummies()

	r.lit.use()
	r.lit.setInt("uEnvMap", unitEnvMap)
	r.lit.setInt("uSpotShadowMap", unitSpotShadow)
	r.lit.setInt("uPointShadowMap0", unitPointShadow0)
	r.lit.setInt("uPointShadowMap1", unitPointShadow0+1)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.TEXTURE_CUBE_MAP_SEAMLESS)

	r.SetSize(cfg.Width, cfg.Height, cfg.PixelRatio)
	return r, nil
}

// createDummies makes 1x1 textures bound to unused sampler units so every
// sampler always sees a texture of its declared type.
func (r *Renderer) createDummies() {
	white := []uint8{255, 255, 255, 255}
	gl.GenTextures(1, &r.dummyCube)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, r.dummyCube)
	for face := uint32(0); face < 6; face++ {
		gl.TexImage2D(gl.TEXTURE_CUBE_MAP_POSITIVE_X+face, 0, gl.RGBA8, 1, 1, 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(white))
	}
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, 0)

	far := []float32{1}
	gl.GenTextures(1, &r.dummyDepth)
	gl.BindTexture(gl.TEXTURE_2D, r.dummyDepth)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.DEPTH_COMPONENT24, 1, 1, 0, gl.DEPTH_COMPONENT, gl.FLOAT, gl.Ptr(far))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_COMPARE_MODE, gl.COMPARE_REF_TO_TEXTURE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_COMPARE_FUNC, gl.LEQUAL)
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

// SetSize records the logical viewport size and pixel density.
func (r *Renderer) SetSize(width, height int, pixelRatio float32) {
	if pixelRatio <= 0 {
		pixelRatio = 1
	}
	r.width, r.height, r.pixelRatio = max(width, 1), max(height, 1), pixelRatio
}

// DrawableSize returns the framebuffer size in pixels.
func (r *Renderer) DrawableSize() (int32, int32) {
	return int32(float32(r.width) * r.pixelRatio), int32(float32(r.height) * r.pixelRatio)
}

// SetTarget redirects the main render into fb. Nil restores the window.
func (r *Renderer) SetTarget(fb *Framebuffer) {
	r.target = fb
}

// DrawCalls returns the number of mesh draws issued by the last Render.
func (r *Renderer) DrawCalls() int {
	return r.drawCalls
}

// Render draws sc from cam into the window or the current target.
func (r *Renderer) Render(sc *scene.Scene, cam *camera.Perspective) error {
	if r.disposed || sc.Disposed() {
		return ErrDisposed
	}
	r.drawCalls = 0

	lights := collectLights(sc)
	if err := r.shadowPass(sc, &lights); err != nil {
		return err
	}

	w, h := r.DrawableSize()
	if r.target != nil {
		r.target.Resize(w, h)
		gl.BindFramebuffer(gl.FRAMEBUFFER, r.target.fbo)
	} else {
		gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	}
	gl.Viewport(0, 0, w, h)

	r.drawScene(sc, &lights, cam.View(), cam.Projection(), cam.Position)

	if r.target != nil {
		gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	}
	return nil
}

// RenderCube draws sc into the six faces of the cube camera's target,
// creating the target texture on first use.
func (r *Renderer) RenderCube(sc *scene.Scene, cc *camera.CubeCamera) error {
	if r.disposed || sc.Disposed() {
		return ErrDisposed
	}
	if cc.Target == nil {
		return fmt.Errorf("cube camera has no target")
	}
	tex, err := r.cubeTexture(cc.Target)
	if err != nil {
		return err
	}

	lights := collectLights(sc)
	if err := r.shadowPass(sc, &lights); err != nil {
		return err
	}

	r.capturing = tex
	defer func() { r.capturing = nil }()

	proj := cc.Projection()
	for face, view := range cc.FaceViews() {
		tex.bindFace(face)
		r.drawScene(sc, &lights, view, proj, cc.Position)
	}
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	tex.finish()
	return nil
}

func (r *Renderer) drawScene(sc *scene.Scene, lights *lightSet, view, proj mgl32.Mat4, eye math.Vec3) {
	bg := sc.Background
	gl.ClearColor(bg.R, bg.G, bg.B, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthMask(true)
	gl.Disable(gl.BLEND)

	p := r.lit
	p.use()
	p.setMat4("uView", view)
	p.setMat4("uProj", proj)
	p.setVec3("uCameraPos", eye.Array())
	r.uploadLights(lights)

	opaque, transparent := drawList(sc.Root, eye)
	for _, it := range opaque {
		r.drawLit(it)
	}
	if len(transparent) > 0 {
		gl.Enable(gl.BLEND)
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
		gl.DepthMask(false)
		for _, it := range transparent {
			r.drawLit(it)
		}
		gl.DepthMask(true)
		gl.Disable(gl.BLEND)
	}
	gl.Disable(gl.CULL_FACE)
}

func (r *Renderer) uploadLights(ls *lightSet) {
	p := r.lit
	p.setVec3("uAmbient", ls.Ambient)

	spotShadow := false
	gl.ActiveTexture(gl.TEXTURE0 + unitSpotShadow)
	gl.BindTexture(gl.TEXTURE_2D, r.dummyDepth)
	p.setBool("uSpotEnabled", ls.Spot != nil)
	if s := ls.Spot; s != nil {
		p.setVec3("uSpotPos", s.Position)
		p.setVec3("uSpotDir", s.Direction)
		p.setVec3("uSpotColor", s.Color)
		p.setFloat("uSpotCosOuter", s.CosOuter)
		p.setFloat("uSpotCosInner", s.CosInner)
		p.setFloat("uSpotDistance", s.Distance)
		p.setFloat("uSpotDecay", s.Decay)
		if sh := s.node.Light.Shadow; sh != nil {
			if m, ok := sh.Map.(*depthMap); ok && m.texture != 0 {
				spotShadow = true
				gl.BindTexture(gl.TEXTURE_2D, m.texture)
				p.setMat4("uSpotMatrix", s.Matrix)
				p.setFloat("uSpotBias", sh.Bias)
				p.setFloat("uSpotRadius", sh.Radius)
				p.setFloat("uSpotMapSize", float32(m.size))
			}
		}
	}
	p.setBool("uSpotShadow", spotShadow)

	p.setInt("uPointCount", int32(len(ls.Points)))
	for i := range MaxPointLights {
		gl.ActiveTexture(gl.TEXTURE0 + unitPointShadow0 + uint32(i))
		gl.BindTexture(gl.TEXTURE_CUBE_MAP, r.dummyCube)
		shadow := false
		if i < len(ls.Points) {
			pl := ls.Points[i]
			p.setVec3(fmt.Sprintf("uPointPos[%d]", i), pl.Position)
			p.setVec3(fmt.Sprintf("uPointColor[%d]", i), pl.Color)
			p.setFloat(fmt.Sprintf("uPointDistance[%d]", i), pl.Distance)
			p.setFloat(fmt.Sprintf("uPointDecay[%d]", i), pl.Decay)
			if sh := pl.node.Light.Shadow; sh != nil {
				if m, ok := sh.Map.(*distanceMap); ok && m.texture != 0 {
					shadow = true
					gl.BindTexture(gl.TEXTURE_CUBE_MAP, m.texture)
					p.setFloat(fmt.Sprintf("uPointFar[%d]", i), sh.Far)
					p.setFloat(fmt.Sprintf("uPointBias[%d]", i), sh.Bias)
					p.setFloat(fmt.Sprintf("uPointRadius[%d]", i), sh.Radius)
					p.setFloat(fmt.Sprintf("uPointMapSize[%d]", i), float32(m.size))
				}
			}
		}
		p.setBool(fmt.Sprintf("uPointShadow[%d]", i), shadow)
	}
	gl.ActiveTexture(gl.TEXTURE0)
}

func (r *Renderer) drawLit(it drawItem) {
	mb := r.buffers(it.mesh.Geometry)
	p := r.lit

	r.setTransform(p, it, mb)
	p.setBool("uReceiveShadow", it.node.ReceiveShadow)
	r.applyMaterial(it.mesh.Material)
	applyCull(cullFor(it.mesh.Material.RenderSide(), false))

	mb.draw()
	r.drawCalls++
}

func (r *Renderer) setTransform(p *program, it drawItem, mb *meshBuffers) {
	skinned := it.mesh.Skin != nil && mb.skinned
	p.setBool("uSkinned", skinned)
	if skinned {
		r.joints = it.mesh.Skin.JointMatrices(r.joints)
		n := min(len(r.joints), scene.MaxJoints)
		r.jointsGL = r.jointsGL[:0]
		for _, m := range r.joints[:n] {
			r.jointsGL = append(r.jointsGL, m.GL())
		}
		p.setMat4Array("uJoints[0]", r.jointsGL)
		return
	}
	model := it.world.GL()
	p.setMat4("uModel", model)
	if p == r.lit {
		p.setMat3("uNormalMatrix", model.Inv().Transpose().Mat3())
	}
}

func (r *Renderer) applyMaterial(mat scene.Material) {
	p := r.lit
	switch m := mat.(type) {
	case *scene.PhongMaterial:
		opacity := float32(1)
		if m.Transparent {
			opacity = m.Opacity
		}
		p.setInt("uMaterialType", 0)
		p.setVec3("uColor", m.Color.Array())
		p.setVec3("uEmissive", m.Emissive.Array())
		p.setFloat("uOpacity", opacity)
		p.setFloat("uShininess", m.Shininess)
		p.setBool("uHasEnvMap", false)

	case *scene.PhysicalMaterial:
		p.setInt("uMaterialType", 1)
		p.setVec3("uColor", m.Color.Array())
		p.setVec3("uEmissive", [3]float32{})
		p.setFloat("uOpacity", 1)
		p.setFloat("uMetalness", m.Metalness)
		p.setFloat("uRoughness", m.Roughness)
		p.setFloat("uClearcoat", m.Clearcoat)
		p.setFloat("uClearcoatRoughness", m.ClearcoatRoughness)

		gl.ActiveTexture(gl.TEXTURE0 + unitEnvMap)
		tex, ok := envTexture(m.EnvMap)
		if ok && tex != r.capturing {
			gl.BindTexture(gl.TEXTURE_CUBE_MAP, tex.texture)
			p.setFloat("uEnvMaxLod", float32(tex.levels-1))
		} else {
			ok = false
			gl.BindTexture(gl.TEXTURE_CUBE_MAP, r.dummyCube)
		}
		p.setBool("uHasEnvMap", ok)
	}
}

func envTexture(t *scene.CubeTarget) (*cubeTexture, bool) {
	if t == nil {
		return nil, false
	}
	tex, ok := t.Texture.(*cubeTexture)
	return tex, ok && tex.texture != 0
}

// cullFor maps a material side to GL face culling. Shadow passes draw the
// opposite faces of single-sided materials to reduce acne.
func cullFor(side scene.Side, shadow bool) (enabled bool, face uint32) {
	switch side {
	case scene.DoubleSide:
		return false, 0
	case scene.BackSide:
		if shadow {
			return true, gl.BACK
		}
		return true, gl.FRONT
	default:
		if shadow {
			return true, gl.FRONT
		}
		return true, gl.BACK
	}
}

func applyCull(enabled bool, face uint32) {
	if !enabled {
		gl.Disable(gl.CULL_FACE)
		return
	}
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(face)
}

// gpuObject is a resource the renderer created. The scene may release it
// first, when a shadow map is rebuilt or a model is unloaded.
type gpuObject interface {
	scene.Resource
	live() bool
}

// own tracks res for Dispose and forgets objects already released.
func (r *Renderer) own(res gpuObject) {
	r.owned = slices.DeleteFunc(r.owned, func(o gpuObject) bool { return !o.live() })
	r.owned = append(r.owned, res)
}

// buffers returns the uploaded copy of g, uploading it on first use.
func (r *Renderer) buffers(g *scene.Geometry) *meshBuffers {
	if mb, ok := g.Buffers.(*meshBuffers); ok {
		return mb
	}
	mb := uploadGeometry(g)
	g.Buffers = mb
	r.own(mb)
	return mb
}

func (r *Renderer) cubeTexture(t *scene.CubeTarget) (*cubeTexture, error) {
	if tex, ok := envTexture(t); ok {
		return tex, nil
	}
	t.Release()
	tex, err := newCubeTexture(int32(max(t.Size, 1)))
	if err != nil {
		return nil, err
	}
	t.Texture = tex
	r.own(tex)
	logger.Debug("cube target created", zap.Int("size", t.Size))
	return tex, nil
}

// ReadPixels returns the last rendered frame as bottom-up RGBA rows. Call
// it before the buffers are swapped.
func (r *Renderer) ReadPixels() (pixels []byte, width, height int) {
	if r.target != nil {
		w, h := r.target.Size()
		return r.target.ReadPixels(), int(w), int(h)
	}
	w, h := r.DrawableSize()
	pixels = make([]byte, w*h*4)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.ReadBuffer(gl.BACK)
	gl.ReadPixels(0, 0, w, h, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels, int(w), int(h)
}

// Dispose releases every GPU object the renderer created. It is safe to
// call more than once.
func (r *Renderer) Dispose() error {
	if r.disposed {
		return nil
	}
	r.disposed = true

	for _, res := range r.owned {
		if res.live() {
			res.Release()
		}
	}
	r.owned = nil

	r.lit.release()
	r.depth.release()
	for _, tex := range []*uint32{&r.dummyCube, &r.dummyDepth} {
		if *tex != 0 {
			gl.DeleteTextures(1, tex)
			*tex = 0
		}
	}
	logger.Debug("renderer disposed")
	return nil
}
