package scene

// Side selects which triangle faces a material renders.
type Side int

// Side values.
const (
	FrontSide Side = iota
	BackSide
	DoubleSide
)

// String returns the side name.
func (s Side) String() string {
	switch s {
	case FrontSide:
		return "front"
	case BackSide:
		return "back"
	case DoubleSide:
		return "double"
	default:
		return "unknown"
	}
}

// Color is an sRGB colour with components in [0, 1]. Renderers convert it
// to linear space before lighting.
type Color struct {
	R, G, B float32
}

// Hex converts a 0xRRGGBB value to a Color.
func Hex(rgb uint32) Color {
	return Color{
		R: float32((rgb>>16)&0xFF) / 255,
		G: float32((rgb>>8)&0xFF) / 255,
		B: float32(rgb&0xFF) / 255,
	}
}

// Hex returns the 0xRRGGBB form of c, clamping out of range components.
func (c Color) Hex() uint32 {
	return uint32(channel(c.R))<<16 | uint32(channel(c.G))<<8 | uint32(channel(c.B))
}

// Array returns the colour as an RGB array.
func (c Color) Array() [3]float32 {
	return [3]float32{c.R, c.G, c.B}
}

func channel(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}

// Material is implemented by PhongMaterial and PhysicalMaterial.
type Material interface {
	// RenderSide reports which faces are drawn.
	RenderSide() Side
	// IsTransparent reports whether the material needs alpha blending.
	IsTransparent() bool
}

// PhongMaterial is a specular-highlight material used for the room faces.
type PhongMaterial struct {
	Color       Color
	Emissive    Color
	Opacity     float32
	Transparent bool
	Side        Side
	Shininess   float32
}

// NewPhong returns an opaque front-sided Phong material.
func NewPhong(color Color) *PhongMaterial {
	return &PhongMaterial{Color: color, Opacity: 1, Side: FrontSide, Shininess: 30}
}

// RenderSide implements Material.
func (m *PhongMaterial) RenderSide() Side { return m.Side }

// IsTransparent implements Material.
func (m *PhongMaterial) IsTransparent() bool { return m.Transparent }

// PhysicalMaterial is a metal/roughness material with clearcoat and an
// optional environment cube map.
type PhysicalMaterial struct {
	Color              Color
	Metalness          float32
	Roughness          float32
	Clearcoat          float32
	ClearcoatRoughness float32
	EnvMap             *CubeTarget
	Side               Side
}

// NewPhysical returns a dielectric, fully rough material.
func NewPhysical(color Color) *PhysicalMaterial {
	return &PhysicalMaterial{Color: color, Roughness: 1, Side: FrontSide}
}

// RenderSide implements Material.
func (m *PhysicalMaterial) RenderSide() Side { return m.Side }

// IsTransparent implements Material.
func (m *PhysicalMaterial) IsTransparent() bool { return false }

// Mesh pairs geometry with a material. Skinned meshes also reference the
// joints that deform them.
type Mesh struct {
	Geometry *Geometry
	Material Material
	Skin     *Skin
}
