package loader

import (
	"fmt"
	gomath "math"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"go.uber.org/zap"

	"github.com/Faultbox/reflectbox/internal/animator"
	"github.com/Faultbox/reflectbox/internal/logger"
	"github.com/Faultbox/reflectbox/internal/scene"
	"github.com/Faultbox/reflectbox/pkg/math"
)

// DefaultColor is used for primitives without a base colour.
var DefaultColor = scene.Hex(0xB4B4B4)

type builder struct {
	doc       *gltf.Document
	nodes     []*scene.Node
	skins     []*scene.Skin
	materials map[int]scene.Material
	meshes    int
	log       *zap.Logger
}

// Build converts a decoded document into a node tree and clips.
func Build(doc *gltf.Document) (*Model, error) {
	sceneIdx := 0
	if doc.Scene != nil {
		sceneIdx = *doc.Scene
	}
	if sceneIdx < 0 || sceneIdx >= len(doc.Scenes) {
		return nil, ErrNoScene
	}
	if err := validate(doc); err != nil {
		return nil, err
	}

	b := &builder{doc: doc, materials: make(map[int]scene.Material), log: logger.Named("loader")}

	b.nodes = make([]*scene.Node, len(doc.Nodes))
	for i, n := range doc.Nodes {
		b.nodes[i] = newNode(i, n)
	}
	for i, n := range doc.Nodes {
		for _, c := range n.Children {
			if c < 0 || c >= len(b.nodes) {
				return nil, fmt.Errorf("node %d: child index %d out of range", i, c)
			}
			b.nodes[i].Add(b.nodes[c])
		}
	}

	if err := b.buildSkins(); err != nil {
		return nil, err
	}
	for i, n := range doc.Nodes {
		if n.Mesh == nil {
			continue
		}
		if err := b.attachMesh(b.nodes[i], n); err != nil {
			return nil, fmt.Errorf("node %d: %w", i, err)
		}
	}

	sc := doc.Scenes[sceneIdx]
	root := scene.NewNode(sc.Name)
	if root.Name == "" {
		root.Name = "model"
	}
	for _, ni := range sc.Nodes {
		if ni < 0 || ni >= len(b.nodes) {
			return nil, fmt.Errorf("scene root index %d out of range", ni)
		}
		root.Add(b.nodes[ni])
	}

	clips, err := b.buildClips()
	if err != nil {
		return nil, err
	}

	return &Model{Root: root, Clips: clips, Meshes: b.meshes}, nil
}

// validate rejects documents with null entries in the arrays the builder
// indexes. The JSON decoder accepts them.
func validate(doc *gltf.Document) error {
	if err := noNil("scenes", doc.Scenes); err != nil {
		return err
	}
	if err := noNil("nodes", doc.Nodes); err != nil {
		return err
	}
	if err := noNil("meshes", doc.Meshes); err != nil {
		return err
	}
	for i, m := range doc.Meshes {
		if err := noNil(fmt.Sprintf("mesh %d primitives", i), m.Primitives); err != nil {
			return err
		}
	}
	if err := noNil("accessors", doc.Accessors); err != nil {
		return err
	}
	if err := noNil("bufferViews", doc.BufferViews); err != nil {
		return err
	}
	if err := noNil("buffers", doc.Buffers); err != nil {
		return err
	}
	if err := noNil("materials", doc.Materials); err != nil {
		return err
	}
	if err := noNil("skins", doc.Skins); err != nil {
		return err
	}
	if err := noNil("animations", doc.Animations); err != nil {
		return err
	}
	for i, a := range doc.Animations {
		if err := noNil(fmt.Sprintf("animation %d channels", i), a.Channels); err != nil {
			return err
		}
		if err := noNil(fmt.Sprintf("animation %d samplers", i), a.Samplers); err != nil {
			return err
		}
	}
	return nil
}

func noNil[T any](what string, items []*T) error {
	for i, it := range items {
		if it == nil {
			return fmt.Errorf("%w: %s[%d] is null", ErrMalformed, what, i)
		}
	}
	return nil
}

var identity16 = [16]float64{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}

func newNode(i int, n *gltf.Node) *scene.Node {
	name := n.Name
	if name == "" {
		name = fmt.Sprintf("node_%d", i)
	}
	node := scene.NewNode(name)

	if n.Matrix != ([16]float64{}) && n.Matrix != identity16 {
		t, r, s := decompose(n.Matrix)
		node.Position, node.Scale = t, s
		node.Quaternion = &r
		return node
	}

	node.Position = math.Vec3{X: float32(n.Translation[0]), Y: float32(n.Translation[1]), Z: float32(n.Translation[2])}
	if n.Scale != ([3]float64{}) {
		node.Scale = math.Vec3{X: float32(n.Scale[0]), Y: float32(n.Scale[1]), Z: float32(n.Scale[2])}
	}
	if n.Rotation != ([4]float64{}) {
		q := math.Quat{
			X: float32(n.Rotation[0]),
			Y: float32(n.Rotation[1]),
			Z: float32(n.Rotation[2]),
			W: float32(n.Rotation[3]),
		}.Normalize()
		node.Quaternion = &q
	}
	return node
}

// decompose splits a column-major affine matrix into translation, rotation
// and scale. Shear is discarded.
func decompose(m [16]float64) (math.Vec3, math.Quat, math.Vec3) {
	t := math.Vec3{X: float32(m[12]), Y: float32(m[13]), Z: float32(m[14])}

	sx := gomath.Sqrt(m[0]*m[0] + m[1]*m[1] + m[2]*m[2])
	sy := gomath.Sqrt(m[4]*m[4] + m[5]*m[5] + m[6]*m[6])
	sz := gomath.Sqrt(m[8]*m[8] + m[9]*m[9] + m[10]*m[10])
	// A negative determinant means one axis is mirrored
	det := m[0]*(m[5]*m[10]-m[9]*m[6]) - m[4]*(m[1]*m[10]-m[9]*m[2]) + m[8]*(m[1]*m[6]-m[5]*m[2])
	if det < 0 {
		sx = -sx
	}
	s := math.Vec3{X: float32(sx), Y: float32(sy), Z: float32(sz)}
	if sx == 0 || sy == 0 || sz == 0 {
		return t, math.QuatIdentity(), s
	}

	// Rotation matrix elements rRC (row, column)
	r00, r10, r20 := m[0]/sx, m[1]/sx, m[2]/sx
	r01, r11, r21 := m[4]/sy, m[5]/sy, m[6]/sy
	r02, r12, r22 := m[8]/sz, m[9]/sz, m[10]/sz

	var q math.Quat
	switch trace := r00 + r11 + r22; {
	case trace > 0:
		k := 0.5 / gomath.Sqrt(trace+1)
		q = math.Quat{W: float32(0.25 / k), X: float32((r21 - r12) * k), Y: float32((r02 - r20) * k), Z: float32((r10 - r01) * k)}
	case r00 > r11 && r00 > r22:
		k := 2 * gomath.Sqrt(1+r00-r11-r22)
		q = math.Quat{W: float32((r21 - r12) / k), X: float32(0.25 * k), Y: float32((r01 + r10) / k), Z: float32((r02 + r20) / k)}
	case r11 > r22:
		k := 2 * gomath.Sqrt(1+r11-r00-r22)
		q = math.Quat{W: float32((r02 - r20) / k), X: float32((r01 + r10) / k), Y: float32(0.25 * k), Z: float32((r12 + r21) / k)}
	default:
		k := 2 * gomath.Sqrt(1+r22-r00-r11)
		q = math.Quat{W: float32((r10 - r01) / k), X: float32((r02 + r20) / k), Y: float32((r12 + r21) / k), Z: float32(0.25 * k)}
	}
	return t, q.Normalize(), s
}

func (b *builder) buildSkins() error {
	b.skins = make([]*scene.Skin, len(b.doc.Skins))
	for i, sk := range b.doc.Skins {
		skin := &scene.Skin{}
		for _, j := range sk.Joints {
			if j < 0 || j >= len(b.nodes) {
				return fmt.Errorf("skin %d: joint index %d out of range", i, j)
			}
			skin.Joints = append(skin.Joints, b.nodes[j])
		}
		if len(skin.Joints) > scene.MaxJoints {
			b.log.Warn("skin exceeds joint limit, skinning disabled",
				zap.Int("skin", i),
				zap.Int("joints", len(skin.Joints)),
				zap.Int("limit", scene.MaxJoints))
			continue
		}

		if sk.InverseBindMatrices != nil {
			acr, err := b.accessor(*sk.InverseBindMatrices)
			if err != nil {
				return fmt.Errorf("skin %d: %w", i, err)
			}
			data, err := modeler.ReadAccessor(b.doc, acr, nil)
			if err != nil {
				return fmt.Errorf("skin %d: reading inverse bind matrices: %w", i, err)
			}
			mats, ok := data.([][4][4]float32)
			if !ok {
				return fmt.Errorf("skin %d: inverse bind matrices have type %T", i, data)
			}
			for _, c := range mats {
				skin.InverseBind = append(skin.InverseBind, math.Mat4{
					c[0][0], c[0][1], c[0][2], c[0][3],
					c[1][0], c[1][1], c[1][2], c[1][3],
					c[2][0], c[2][1], c[2][2], c[2][3],
					c[3][0], c[3][1], c[3][2], c[3][3],
				})
			}
		}
		b.skins[i] = skin
	}
	return nil
}

func (b *builder) accessor(i int) (*gltf.Accessor, error) {
	if i < 0 || i >= len(b.doc.Accessors) {
		return nil, fmt.Errorf("accessor index %d out of range", i)
	}
	return b.doc.Accessors[i], nil
}

func (b *builder) attachMesh(node *scene.Node, n *gltf.Node) error {
	if *n.Mesh < 0 || *n.Mesh >= len(b.doc.Meshes) {
		return fmt.Errorf("mesh index %d out of range", *n.Mesh)
	}
	mesh := b.doc.Meshes[*n.Mesh]

	var skin *scene.Skin
	if n.Skin != nil && *n.Skin >= 0 && *n.Skin < len(b.skins) {
		skin = b.skins[*n.Skin]
	}

	var parts []*scene.Mesh
	for pi, prim := range mesh.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles {
			b.log.Debug("skipping non-triangle primitive",
				zap.String("mesh", mesh.Name),
				zap.Int("primitive", pi))
			continue
		}
		geo, err := b.geometry(prim)
		if err != nil {
			return fmt.Errorf("mesh %q primitive %d: %w", mesh.Name, pi, err)
		}
		m := &scene.Mesh{Geometry: geo, Material: b.material(prim.Material)}
		if skin != nil && geo.Skinned() {
			m.Skin = skin
		}
		parts = append(parts, m)
	}
	b.meshes += len(parts)

	// One primitive lives on the node itself, several become children
	switch len(parts) {
	case 0:
	case 1:
		node.Mesh = parts[0]
	default:
		for i, m := range parts {
			child := scene.NewNode(fmt.Sprintf("%s_%d", node.Name, i))
			child.Mesh = m
			node.Add(child)
		}
	}
	return nil
}

func (b *builder) geometry(prim *gltf.Primitive) (*scene.Geometry, error) {
	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil, fmt.Errorf("no POSITION attribute")
	}
	acr, err := b.accessor(posIdx)
	if err != nil {
		return nil, err
	}
	positions, err := modeler.ReadPosition(b.doc, acr, nil)
	if err != nil {
		return nil, fmt.Errorf("reading positions: %w", err)
	}

	var normals [][3]float32
	if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
		if acr, err := b.accessor(idx); err == nil {
			normals, _ = modeler.ReadNormal(b.doc, acr, nil)
		}
	}
	var uvs [][2]float32
	if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
		if acr, err := b.accessor(idx); err == nil {
			uvs, _ = modeler.ReadTextureCoord(b.doc, acr, nil)
		}
	}

	vertices := make([]scene.Vertex, len(positions))
	for i, p := range positions {
		v := scene.Vertex{Position: p, Normal: [3]float32{0, 1, 0}}
		if i < len(normals) {
			v.Normal = normals[i]
		}
		if i < len(uvs) {
			v.TexCoord = uvs[i]
		}
		vertices[i] = v
	}

	var indices []uint32
	if prim.Indices != nil {
		acr, err := b.accessor(*prim.Indices)
		if err != nil {
			return nil, err
		}
		if indices, err = modeler.ReadIndices(b.doc, acr, nil); err != nil {
			return nil, fmt.Errorf("reading indices: %w", err)
		}
	} else {
		indices = make([]uint32, len(positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}
	for _, idx := range indices {
		if int(idx) >= len(vertices) {
			return nil, fmt.Errorf("index %d out of range (%d vertices)", idx, len(vertices))
		}
	}

	geo := scene.NewGeometry(vertices, indices)

	jIdx, hasJoints := prim.Attributes[gltf.JOINTS_0]
	wIdx, hasWeights := prim.Attributes[gltf.WEIGHTS_0]
	if hasJoints && hasWeights {
		jAcr, jErr := b.accessor(jIdx)
		wAcr, wErr := b.accessor(wIdx)
		if jErr == nil && wErr == nil {
			joints, jErr := modeler.ReadJoints(b.doc, jAcr, nil)
			weights, wErr := modeler.ReadWeights(b.doc, wAcr, nil)
			if jErr == nil && wErr == nil && len(joints) == len(vertices) && len(weights) == len(vertices) {
				geo.Joints, geo.Weights = joints, weights
			}
		}
	}
	return geo, nil
}

func (b *builder) material(idx *int) scene.Material {
	key := -1
	if idx != nil {
		key = *idx
	}
	if m, ok := b.materials[key]; ok {
		return m
	}

	mat := scene.NewPhysical(DefaultColor)
	mat.Metalness = 0.1
	mat.Roughness = 0.8
	if key >= 0 && key < len(b.doc.Materials) {
		src := b.doc.Materials[key]
		if src.DoubleSided {
			mat.Side = scene.DoubleSide
		}
		if pbr := src.PBRMetallicRoughness; pbr != nil {
			if c := pbr.BaseColorFactor; c != nil {
				mat.Color = scene.Color{R: float32(c[0]), G: float32(c[1]), B: float32(c[2])}
			}
			if pbr.MetallicFactor != nil {
				mat.Metalness = float32(*pbr.MetallicFactor)
			}
			if pbr.RoughnessFactor != nil {
				mat.Roughness = float32(*pbr.RoughnessFactor)
			}
		}
	}
	b.materials[key] = mat
	return mat
}

func (b *builder) buildClips() ([]*animator.Clip, error) {
	var clips []*animator.Clip
	for ai, anim := range b.doc.Animations {
		var tracks []*animator.Track
		for ci, ch := range anim.Channels {
			tr, err := b.track(anim, ch)
			if err != nil {
				return nil, fmt.Errorf("animation %d channel %d: %w", ai, ci, err)
			}
			if tr != nil {
				tracks = append(tracks, tr)
			}
		}
		name := anim.Name
		if name == "" {
			name = fmt.Sprintf("animation_%d", ai)
		}
		clips = append(clips, animator.NewClip(name, tracks))
	}
	return clips, nil
}

func (b *builder) track(anim *gltf.Animation, ch *gltf.AnimationChannel) (*animator.Track, error) {
	if ch.Target.Node == nil {
		return nil, nil
	}
	node := *ch.Target.Node
	if node < 0 || node >= len(b.nodes) {
		return nil, fmt.Errorf("target node %d out of range", node)
	}

	var path animator.Path
	switch ch.Target.Path {
	case gltf.TRSTranslation:
		path = animator.PathTranslation
	case gltf.TRSRotation:
		path = animator.PathRotation
	case gltf.TRSScale:
		path = animator.PathScale
	default:
		// Morph target weights are not supported
		return nil, nil
	}

	if ch.Sampler < 0 || ch.Sampler >= len(anim.Samplers) {
		return nil, fmt.Errorf("sampler index %d out of range", ch.Sampler)
	}
	s := anim.Samplers[ch.Sampler]

	inAcr, err := b.accessor(s.Input)
	if err != nil {
		return nil, err
	}
	in, err := modeler.ReadAccessor(b.doc, inAcr, nil)
	if err != nil {
		return nil, fmt.Errorf("reading key times: %w", err)
	}
	times, ok := in.([]float32)
	if !ok {
		return nil, fmt.Errorf("key times have type %T", in)
	}

	outAcr, err := b.accessor(s.Output)
	if err != nil {
		return nil, err
	}
	out, err := modeler.ReadAccessor(b.doc, outAcr, nil)
	if err != nil {
		return nil, fmt.Errorf("reading key values: %w", err)
	}
	values, err := flatten(out, outAcr.Normalized)
	if err != nil {
		return nil, err
	}

	tr := &animator.Track{Target: b.nodes[node], Path: path, Times: times, Values: values}
	switch s.Interpolation {
	case gltf.InterpolationStep:
		tr.Interp = animator.Step
	case gltf.InterpolationCubicSpline:
		tr.Interp = animator.CubicSpline
		tr.Values = splineValues(values, path.Components())
	default:
		tr.Interp = animator.Linear
	}
	return tr, nil
}

// splineValues keeps the value of each in-tangent, value, out-tangent triple.
func splineValues(values []float32, comps int) []float32 {
	stride := 3 * comps
	out := make([]float32, 0, len(values)/3)
	for i := 0; i+stride <= len(values); i += stride {
		out = append(out, values[i+comps:i+2*comps]...)
	}
	return out
}

// flatten converts accessor data to a flat float slice, expanding
// normalized integer components to [-1, 1] or [0, 1].
func flatten(data any, normalized bool) ([]float32, error) {
	var out []float32
	switch v := data.(type) {
	case []float32:
		out = v
	case [][3]float32:
		out = make([]float32, 0, len(v)*3)
		for _, e := range v {
			out = append(out, e[:]...)
		}
	case [][4]float32:
		out = make([]float32, 0, len(v)*4)
		for _, e := range v {
			out = append(out, e[:]...)
		}
	case [][4]int8:
		for _, e := range v {
			for _, c := range e {
				out = append(out, max(float32(c)/127, -1))
			}
		}
	case [][4]uint8:
		for _, e := range v {
			for _, c := range e {
				out = append(out, float32(c)/255)
			}
		}
	case [][4]int16:
		for _, e := range v {
			for _, c := range e {
				out = append(out, max(float32(c)/32767, -1))
			}
		}
	case [][4]uint16:
		for _, e := range v {
			for _, c := range e {
				out = append(out, float32(c)/65535)
			}
		}
	default:
		return nil, fmt.Errorf("unsupported key value type %T", data)
	}
	if !normalized {
		switch data.(type) {
		case [][4]int8, [][4]uint8, [][4]int16, [][4]uint16:
			return nil, fmt.Errorf("integer key values must be normalized")
		}
	}
	return out, nil
}
