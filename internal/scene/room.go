package scene

import "github.com/Faultbox/reflectbox/pkg/math"

// RoomConfig sizes the static scene.
type RoomConfig struct {
	Size       float32 // Cube edge length
	EnvMapSize int     // Environment cube target resolution
	Faces      []FaceSpec
}

// DefaultRoomConfig returns the standard 3 unit room.
func DefaultRoomConfig() RoomConfig {
	return RoomConfig{Size: 3, EnvMapSize: 256, Faces: DefaultFaces()}
}

// Room is the static part of the scene: the cube walls and the mirror sphere.
type Room struct {
	Scene  *Scene
	Size   float32
	Walls  *Node
	Sphere *Node

	SphereMaterial *PhysicalMaterial
	EnvMap         *CubeTarget
}

// SphereColor is the sphere tint offered by the panel.
var SphereColor = Hex(0xE0E0E0)

// NewRoom builds the static scene: black background, the cube walls and a
// reflective sphere whose environment map is an unallocated cube target.
func NewRoom(cfg RoomConfig) *Room {
	if cfg.Size <= 0 {
		cfg.Size = 3
	}
	if cfg.EnvMapSize <= 0 {
		cfg.EnvMapSize = 256
	}
	if cfg.Faces == nil {
		cfg.Faces = DefaultFaces()
	}

	sc := New()
	sc.Background = Hex(0x000000)

	walls := BuildRoom(cfg.Size, cfg.Faces)
	sc.Add(walls)

	envMap := NewCubeTarget(cfg.EnvMapSize)
	mat := &PhysicalMaterial{
		Color:              Hex(0xFFFFFF),
		Metalness:          1.0,
		Roughness:          0.1,
		Clearcoat:          0.5,
		ClearcoatRoughness: 0.05,
		EnvMap:             envMap,
		Side:               FrontSide,
	}

	h := cfg.Size / 2
	sphere := NewMeshNode("sphere", NewSphere(0.6, 32, 32), mat)
	sphere.Position = math.Vec3{X: -h + 1, Y: h - 1, Z: -h + 1}
	sphere.CastShadow = true
	sphere.ReceiveShadow = true
	sc.Add(sphere)

	return &Room{
		Scene:          sc,
		Size:           cfg.Size,
		Walls:          walls,
		Sphere:         sphere,
		SphereMaterial: mat,
		EnvMap:         envMap,
	}
}
