package scene

// CubeTarget is a six-face colour render target used as an environment map.
type CubeTarget struct {
	Size int // Face resolution in pixels

	// Texture is created lazily by the renderer.
	Texture Resource
}

// NewCubeTarget creates an unallocated cube target.
func NewCubeTarget(size int) *CubeTarget {
	return &CubeTarget{Size: size}
}

// Release frees the GPU texture, if allocated.
func (t *CubeTarget) Release() {
	if t.Texture != nil {
		t.Texture.Release()
		t.Texture = nil
	}
}
