package glrender

import (
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/reflectbox/internal/scene"
)

// meshBuffers is the uploaded copy of a scene.Geometry.
type meshBuffers struct {
	vao, vbo, ebo       uint32
	jointVBO, weightVBO uint32
	count               int32
	skinned             bool
}

var vertexSize = int32(unsafe.Sizeof(scene.Vertex{}))

func uploadGeometry(g *scene.Geometry) *meshBuffers {
	mb := &meshBuffers{count: int32(len(g.Indices)), skinned: g.Skinned()}
	if len(g.Vertices) == 0 || len(g.Indices) == 0 {
		return mb
	}

	gl.GenVertexArrays(1, &mb.vao)
	gl.BindVertexArray(mb.vao)

	gl.GenBuffers(1, &mb.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, mb.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(g.Vertices)*int(vertexSize), unsafe.Pointer(&g.Vertices[0]), gl.STATIC_DRAW)

	// Position
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, vertexSize, 0)
	gl.EnableVertexAttribArray(0)
	// Normal
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, vertexSize, 3*4)
	gl.EnableVertexAttribArray(1)
	// TexCoord
	gl.VertexAttribPointerWithOffset(2, 2, gl.FLOAT, false, vertexSize, 6*4)
	gl.EnableVertexAttribArray(2)

	if mb.skinned {
		gl.GenBuffers(1, &mb.jointVBO)
		gl.BindBuffer(gl.ARRAY_BUFFER, mb.jointVBO)
		gl.BufferData(gl.ARRAY_BUFFER, len(g.Joints)*8, unsafe.Pointer(&g.Joints[0]), gl.STATIC_DRAW)
		gl.VertexAttribIPointerWithOffset(3, 4, gl.UNSIGNED_SHORT, 8, 0)
		gl.EnableVertexAttribArray(3)

		gl.GenBuffers(1, &mb.weightVBO)
		gl.BindBuffer(gl.ARRAY_BUFFER, mb.weightVBO)
		gl.BufferData(gl.ARRAY_BUFFER, len(g.Weights)*16, unsafe.Pointer(&g.Weights[0]), gl.STATIC_DRAW)
		gl.VertexAttribPointerWithOffset(4, 4, gl.FLOAT, false, 16, 0)
		gl.EnableVertexAttribArray(4)
	}

	gl.GenBuffers(1, &mb.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, mb.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(g.Indices)*4, unsafe.Pointer(&g.Indices[0]), gl.STATIC_DRAW)

	gl.BindVertexArray(0)
	return mb
}

func (mb *meshBuffers) draw() {
	if mb.vao == 0 {
		return
	}
	gl.BindVertexArray(mb.vao)
	gl.DrawElementsWithOffset(gl.TRIANGLES, mb.count, gl.UNSIGNED_INT, 0)
	gl.BindVertexArray(0)
}

// Release deletes the GPU buffers. It is safe to call more than once.
func (mb *meshBuffers) live() bool { return mb.vao != 0 }

func (mb *meshBuffers) Release() {
	for _, buf := range []*uint32{&mb.vbo, &mb.ebo, &mb.jointVBO, &mb.weightVBO} {
		if *buf != 0 {
			gl.DeleteBuffers(1, buf)
			*buf = 0
		}
	}
	if mb.vao != 0 {
		gl.DeleteVertexArrays(1, &mb.vao)
		mb.vao = 0
	}
}
