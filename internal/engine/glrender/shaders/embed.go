// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// LitVertexShader transforms (optionally skinned) meshes for the lit pass.
//
//go:embed lit.vert
var LitVertexShader string

// LitFragmentShader shades Phong and physical materials with shadows and
// environment reflections.
//
//go:embed lit.frag
var LitFragmentShader string

// DepthVertexShader transforms shadow casters into light space.
//
//go:embed depth.vert
var DepthVertexShader string

// DepthFragmentShader writes linear light distance for point light cube maps.
// Spot light maps only use the depth attachment.
//
//go:embed depth.frag
var DepthFragmentShader string
