// Package loader fetches glTF/GLB models and converts them into scene nodes
// and animation clips.
package loader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/qmuntal/gltf"
	"go.uber.org/zap"

	"github.com/Faultbox/reflectbox/internal/animator"
	"github.com/Faultbox/reflectbox/internal/logger"
	"github.com/Faultbox/reflectbox/internal/scene"
	"github.com/Faultbox/reflectbox/pkg/math"
)

// DefaultScale is the uniform scale applied to a loaded model.
const DefaultScale = 2.0

// ErrNoScene is returned for documents without a scene to instantiate.
var ErrNoScene = errors.New("loader: document has no scene")

// ErrMalformed is returned for documents the builder cannot walk safely.
var ErrMalformed = errors.New("loader: malformed document")

// Model is a decoded model ready to be added to the scene.
type Model struct {
	Root   *scene.Node
	Clips  []*animator.Clip
	Meshes int
	Source string
}

// Load fetches and decodes the model at src. Local paths may be .gltf or
// .glb; remote sources must be self-contained (GLB or embedded buffers).
func Load(ctx context.Context, src Source) (*Model, error) {
	start := time.Now()

	var doc *gltf.Document
	if src.IsRemote() {
		data, err := src.Fetch(ctx)
		if err != nil {
			return nil, err
		}
		if doc, err = Parse(data); err != nil {
			return nil, err
		}
	} else {
		var err error
		if doc, err = gltf.Open(src.Location); err != nil {
			return nil, fmt.Errorf("opening %s: %w", src.Location, err)
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m, err := Build(doc)
	if err != nil {
		return nil, fmt.Errorf("building %s: %w", src.Name(), err)
	}
	m.Source = src.Location

	logger.Named("loader").Info("model loaded",
		zap.String("source", src.Name()),
		zap.Int("meshes", m.Meshes),
		zap.Int("clips", len(m.Clips)),
		zap.Duration("took", time.Since(start)))
	return m, nil
}

// Parse decodes a glTF document from GLB or embedded JSON bytes.
func Parse(data []byte) (*gltf.Document, error) {
	doc := new(gltf.Document)
	if err := gltf.NewDecoder(bytes.NewReader(data)).Decode(doc); err != nil {
		return nil, fmt.Errorf("decoding gltf: %w", err)
	}
	return doc, nil
}

// Func loads a model from a source. Load is the default implementation.
type Func func(ctx context.Context, src Source) (*Model, error)

// Async runs f on a new goroutine. The result is handed to done through
// post, so done runs wherever post schedules it. A panic inside f is
// reported to done as an error.
func (f Func) Async(ctx context.Context, src Source, post func(func()), done func(*Model, error)) {
	go func() {
		m, err := f.call(ctx, src)
		post(func() { done(m, err) })
	}()
}

func (f Func) call(ctx context.Context, src Source) (m *Model, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Named("loader").Error("model load panicked",
				zap.String("source", src.Name()),
				zap.Any("panic", r))
			m, err = nil, fmt.Errorf("%w: loading %s: %v", ErrMalformed, src.Name(), r)
		}
	}()
	return f(ctx, src)
}

// LoadAsync is Load run through Func.Async.
func LoadAsync(ctx context.Context, src Source, post func(func()), done func(*Model, error)) {
	Func(Load).Async(ctx, src, post, done)
}

// Place scales the model uniformly, lifts it so its lowest point rests on
// y = 0 and makes every mesh cast and receive shadows.
func Place(m *Model, scale float32) {
	root := m.Root
	root.Position = math.Vec3{}
	root.SetUniformScale(scale)

	box := scene.WorldBounds(root)
	if !box.IsEmpty() {
		root.Position.Y = -box.Min.Y
	}

	root.Traverse(func(n *scene.Node) {
		if n.Mesh != nil {
			n.CastShadow = true
			n.ReceiveShadow = true
		}
	})
}
