package glrender

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// cubeTexture backs a scene.CubeTarget: six RGBA faces with mipmaps for
// rough reflections and a shared depth renderbuffer.
type cubeTexture struct {
	fbo     uint32
	texture uint32
	depth   uint32
	size    int32
	levels  int32
}

func newCubeTexture(size int32) (*cubeTexture, error) {
	c := &cubeTexture{size: size, levels: mipLevels(size)}

	gl.GenTextures(1, &c.texture)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, c.texture)
	for face := uint32(0); face < 6; face++ {
		gl.TexImage2D(gl.TEXTURE_CUBE_MAP_POSITIVE_X+face, 0, gl.RGBA8, size, size, 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	}
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_R, gl.CLAMP_TO_EDGE)
	gl.GenerateMipmap(gl.TEXTURE_CUBE_MAP)

	gl.GenRenderbuffers(1, &c.depth)
	gl.BindRenderbuffer(gl.RENDERBUFFER, c.depth)
	gl.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH_COMPONENT24, size, size)

	gl.GenFramebuffers(1, &c.fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, c.fbo)
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.RENDERBUFFER, c.depth)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_CUBE_MAP_POSITIVE_X, c.texture, 0)

	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, 0)
	if status != gl.FRAMEBUFFER_COMPLETE {
		c.Release()
		return nil, fmt.Errorf("cube target framebuffer incomplete: 0x%x", status)
	}
	return c, nil
}

// mipLevels returns the number of mip levels of a square texture.
func mipLevels(size int32) int32 {
	levels := int32(1)
	for size > 1 {
		size /= 2
		levels++
	}
	return levels
}

func (c *cubeTexture) bindFace(face int) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, c.fbo)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_CUBE_MAP_POSITIVE_X+uint32(face), c.texture, 0)
	gl.Viewport(0, 0, c.size, c.size)
}

// finish rebuilds the mip chain after all faces were drawn.
func (c *cubeTexture) finish() {
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, c.texture)
	gl.GenerateMipmap(gl.TEXTURE_CUBE_MAP)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, 0)
}

// Release deletes the GPU objects. It is safe to call more than once.
func (c *cubeTexture) live() bool { return c.fbo != 0 || c.texture != 0 }

func (c *cubeTexture) Release() {
	if c.fbo != 0 {
		gl.DeleteFramebuffers(1, &c.fbo)
		c.fbo = 0
	}
	if c.texture != 0 {
		gl.DeleteTextures(1, &c.texture)
		c.texture = 0
	}
	if c.depth != 0 {
		gl.DeleteRenderbuffers(1, &c.depth)
		c.depth = 0
	}
}
