// Package reflector refreshes the mirror sphere's environment map.
package reflector

import (
	"errors"
	"fmt"

	"github.com/Faultbox/reflectbox/internal/camera"
	"github.com/Faultbox/reflectbox/internal/scene"
)

// CubeRenderer renders a scene into a cube camera's target.
type CubeRenderer interface {
	RenderCube(sc *scene.Scene, cam *camera.CubeCamera) error
}

// ErrNoTarget is returned when the cube camera has nowhere to render.
var ErrNoTarget = errors.New("reflector: cube camera has no target")

// Reflector captures the surroundings of a reflective node into a cube
// map. The node is hidden while capturing so it does not occlude itself,
// which leaves the map one frame behind the main render.
type Reflector struct {
	subject *scene.Node
	cam     *camera.CubeCamera

	captures uint64
}

// New creates a reflector for subject rendering through cam.
func New(subject *scene.Node, cam *camera.CubeCamera) *Reflector {
	return &Reflector{subject: subject, cam: cam}
}

// Camera returns the cube camera.
func (r *Reflector) Camera() *camera.CubeCamera {
	return r.cam
}

// Captures returns the number of completed captures.
func (r *Reflector) Captures() uint64 {
	return r.captures
}

// Capture hides the subject, moves the cube camera to the subject's world
// position, renders the scene into the cube target and shows the subject
// again. The subject is shown again even if rendering fails or panics.
func (r *Reflector) Capture(cr CubeRenderer, sc *scene.Scene) (err error) {
	if r.subject == nil {
		return nil
	}
	if r.cam.Target == nil {
		return ErrNoTarget
	}

	wasVisible := r.subject.Visible
	r.subject.Visible = false
	defer func() { r.subject.Visible = wasVisible }()

	r.cam.Position = r.subject.WorldPosition()
	if err := cr.RenderCube(sc, r.cam); err != nil {
		return fmt.Errorf("capturing environment: %w", err)
	}
	r.captures++
	return nil
}
