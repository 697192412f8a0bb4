package glrender

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/reflectbox/internal/logger"
	"github.com/Faultbox/reflectbox/internal/scene"
)

// shadowPass renders the depth maps of every shadow casting light,
// creating missing maps at the light's current MapSize.
func (r *Renderer) shadowPass(sc *scene.Scene, ls *lightSet) error {
	casters := casterList(sc.Root)
	d := r.depth
	d.use()
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthMask(true)
	gl.Disable(gl.BLEND)

	if s := ls.Spot; s != nil && s.node.Light.CastsShadow() {
		sh := s.node.Light.Shadow
		m, err := r.spotMap(sh)
		if err != nil {
			return fmt.Errorf("%s shadow: %w", s.node.Name, err)
		}
		m.bind()
		d.setMat4("uLightViewProj", s.Matrix)
		d.setVec3("uLightPos", s.Position)
		d.setFloat("uFar", sh.Far)
		for _, it := range casters {
			r.drawDepth(it)
		}
	}

	for _, pl := range ls.Points {
		if !pl.node.Light.CastsShadow() {
			continue
		}
		sh := pl.node.Light.Shadow
		m, err := r.pointMap(sh)
		if err != nil {
			return fmt.Errorf("%s shadow: %w", pl.node.Name, err)
		}
		d.setVec3("uLightPos", pl.Position)
		d.setFloat("uFar", sh.Far)
		for face, vp := range PointFaceMatrices(pl.node.WorldPosition(), sh.Near, sh.Far) {
			m.bindFace(face)
			d.setMat4("uLightViewProj", vp)
			for _, it := range casters {
				r.drawDepth(it)
			}
		}
	}

	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Disable(gl.CULL_FACE)
	return nil
}

func (r *Renderer) drawDepth(it drawItem) {
	mb := r.buffers(it.mesh.Geometry)
	r.setTransform(r.depth, it, mb)
	side := scene.FrontSide
	if it.mesh.Material != nil {
		side = it.mesh.Material.RenderSide()
	}
	applyCull(cullFor(side, true))
	mb.draw()
}

func (r *Renderer) spotMap(sh *scene.ShadowConfig) (*depthMap, error) {
	if m, ok := sh.Map.(*depthMap); ok && m.fbo != 0 {
		return m, nil
	}
	sh.ReleaseMap()
	m, err := newDepthMap(int32(max(sh.MapSize, 1)))
	if err != nil {
		return nil, err
	}
	sh.Map = m
	r.own(m)
	logger.Debug("spot shadow map created", zap.Int("size", sh.MapSize))
	return m, nil
}

func (r *Renderer) pointMap(sh *scene.ShadowConfig) (*distanceMap, error) {
	if m, ok := sh.Map.(*distanceMap); ok && m.fbo != 0 {
		return m, nil
	}
	sh.ReleaseMap()
	m, err := newDistanceMap(int32(max(sh.MapSize, 1)))
	if err != nil {
		return nil, err
	}
	sh.Map = m
	r.own(m)
	logger.Debug("point shadow map created", zap.Int("size", sh.MapSize))
	return m, nil
}
