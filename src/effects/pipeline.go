// Package effects chains shader passes over the rendered selection.
package effects

import (
	"errors"
	"fmt"
)

// Uniforms are the per-frame inputs every pass receives.
type Uniforms struct {
	Mouse [2]float32
	Time  float32
	Color [4]float32
}

// Effect is a compiled shader program. Shared effects belong to someone
// else (the built-in pass-through) and are never closed by a Pipeline.
type Effect interface {
	Name() string
	Shared() bool
	Close() error
}

// Surface is an off-screen render target holding an image.
type Surface interface {
	Bind()
	Unbind()
	Clear()
	// Draw renders the surface's image through effect into whatever
	// target is currently bound.
	Draw(effect Effect, u Uniforms)
}

// Blender toggles source-over alpha blending.
type Blender interface {
	EnableBlend()
	DisableBlend()
}

// Stats describes the passes of the last Apply.
type Stats struct {
	Pairs    int
	Trailing int
	Swaps    int
}

// Pipeline composites an ordered effect chain by ping-ponging between the
// primary surface and a scratch surface.
type Pipeline struct {
	effects []Effect
	buffers *DoubleBuffer
	blend   Blender
	stats   Stats
}

var ErrNoEffects = errors.New("effects: pipeline needs at least one effect")

func NewPipeline(effects []Effect, primary, scratch Surface, blend Blender) (*Pipeline, error) {
	if len(effects) == 0 {
		return nil, ErrNoEffects
	}
	if primary == nil || scratch == nil {
		return nil, errors.New("effects: pipeline needs two surfaces")
	}
	return &Pipeline{
		effects: append([]Effect(nil), effects...),
		buffers: NewDoubleBuffer(primary, scratch),
		blend:   blend,
	}, nil
}

// Apply runs every effect over the image currently in the primary surface
// and returns the surface holding the result.
func (p *Pipeline) Apply(u Uniforms) Surface {
	p.buffers.Reset()
	p.stats = Stats{}

	if p.blend != nil {
		p.blend.EnableBlend()
	}
	n := len(p.effects)
	i := 0
	for ; i+1 < n; i += 2 {
		p.pass(p.effects[i], u)
		p.pass(p.effects[i+1], u)
		p.stats.Pairs++
	}
	if i < n {
		p.pass(p.effects[i], u)
		p.stats.Trailing++
	}
	if p.blend != nil {
		p.blend.DisableBlend()
	}
	return p.buffers.Current()
}

// pass draws the current image through effect into the other buffer.
func (p *Pipeline) pass(effect Effect, u Uniforms) {
	src, dst := p.buffers.Current(), p.buffers.Back()
	dst.Bind()
	dst.Clear()
	src.Draw(effect, u)
	dst.Unbind()
	p.buffers.Swap()
	p.stats.Swaps++
}

// Stats returns the pass counts of the last Apply.
func (p *Pipeline) Stats() Stats { return p.stats }

// Effects returns the chain in order.
func (p *Pipeline) Effects() []Effect { return p.effects }

// Close releases every effect the pipeline owns.
func (p *Pipeline) Close() error {
	var errs []error
	for _, e := range p.effects {
		if e.Shared() {
			continue
		}
		if err := e.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close effect %s: %w", e.Name(), err))
		}
	}
	p.effects = nil
	return errors.Join(errs...)
}
