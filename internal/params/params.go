// Package params holds the tunable values shared by the frame loop and the panel.
package params

// Store is the flat record of live-tunable scene parameters.
// It is mutated only on the render goroutine, last write wins.
type Store struct {
	TimeScale     float64 `yaml:"time_scale"`
	AutoRotate    bool    `yaml:"auto_rotate"`
	RotationSpeed float64 `yaml:"rotation_speed"`

	Light1Radius float64 `yaml:"light1_radius"`
	Light2Radius float64 `yaml:"light2_radius"`
	Light1Speed  float64 `yaml:"light1_speed"`
	Light2Speed  float64 `yaml:"light2_speed"`

	CameraDistance float64 `yaml:"camera_distance"`

	SpotLightIntensity   float64 `yaml:"spot_light_intensity"`
	MovingLightIntensity float64 `yaml:"moving_light_intensity"`

	ShadowRadius   float64 `yaml:"shadow_radius"`
	ShadowMapSize  int     `yaml:"shadow_map_size"`
	ShadowBias     float64 `yaml:"shadow_bias"`
	ShadowDarkness float64 `yaml:"shadow_darkness"`
}

// Default returns the parameter values the scene starts with.
func Default() Store {
	return Store{
		TimeScale:     1,
		AutoRotate:    true,
		RotationSpeed: 0.01,

		Light1Radius: 0.8,
		Light2Radius: 0.8,
		Light1Speed:  1,
		Light2Speed:  -1,

		CameraDistance: 5,

		SpotLightIntensity:   1,
		MovingLightIntensity: 1.5,

		ShadowRadius:   4,
		ShadowMapSize:  2048,
		ShadowBias:     -0.0001,
		ShadowDarkness: 0.5,
	}
}

// New returns a heap allocated store with default values.
func New() *Store {
	s := Default()
	return &s
}

// Clone returns an independent copy.
func (s *Store) Clone() *Store {
	c := *s
	return &c
}

// ShadowMapSizes are the selectable shadow quality levels.
var ShadowMapSizes = []int{512, 1024, 2048, 4096}

// IsShadowMapSize reports whether size is one of ShadowMapSizes.
func IsShadowMapSize(size int) bool {
	for _, s := range ShadowMapSizes {
		if s == size {
			return true
		}
	}
	return false
}

// NextShadowMapSize cycles to the next quality level, wrapping around.
// Unknown sizes restart at the lowest level.
func NextShadowMapSize(size int) int {
	for i, s := range ShadowMapSizes {
		if s == size {
			return ShadowMapSizes[(i+1)%len(ShadowMapSizes)]
		}
	}
	return ShadowMapSizes[0]
}

// Sanitize clamps every ranged field into its range and snaps the shadow map
// size to a known level. Used after loading values from a config file.
func (s *Store) Sanitize() {
	s.TimeScale = TimeScale.Clamp(s.TimeScale)
	s.RotationSpeed = RotationSpeed.Clamp(s.RotationSpeed)
	s.Light1Radius = LightRadius.Clamp(s.Light1Radius)
	s.Light2Radius = LightRadius.Clamp(s.Light2Radius)
	s.Light1Speed = LightSpeed.Clamp(s.Light1Speed)
	s.Light2Speed = LightSpeed.Clamp(s.Light2Speed)
	s.CameraDistance = CameraDistance.Clamp(s.CameraDistance)
	s.SpotLightIntensity = LightIntensity.Clamp(s.SpotLightIntensity)
	s.MovingLightIntensity = LightIntensity.Clamp(s.MovingLightIntensity)
	s.ShadowRadius = ShadowRadius.Clamp(s.ShadowRadius)
	s.ShadowBias = ShadowBias.Clamp(s.ShadowBias)
	s.ShadowDarkness = Unit.Clamp(s.ShadowDarkness)
	if !IsShadowMapSize(s.ShadowMapSize) {
		s.ShadowMapSize = Default().ShadowMapSize
	}
}
