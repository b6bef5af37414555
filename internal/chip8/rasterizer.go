package chip8

import "context"

// Rasterizer paces the "render queued" flag at render_frequency when
// render_occasion is "frequency", leaving DRW/CLS to queue renders
// directly when render_occasion is "changes". Grounded on
// original_source's GPU::run_separate_render limiter loop, generalized
// from its "To do" body into the acquire-release queue flag spec.md §5
// describes.
type Rasterizer struct {
	fb      *Framebuffer
	limiter *Limiter
	active  func() bool
}

// NewRasterizer builds a Rasterizer over fb, paced by limiter.
func NewRasterizer(fb *Framebuffer, limiter *Limiter, active func() bool) *Rasterizer {
	return &Rasterizer{fb: fb, limiter: limiter, active: active}
}

// Run marks a render as queued once per limiter period until ctx is
// cancelled or the machine stops.
func (r *Rasterizer) Run(ctx context.Context) {
	for r.active() {
		select {
		case <-ctx.Done():
			return
		default:
		}

		r.limiter.WaitIfEarly()

		select {
		case <-ctx.Done():
			return
		default:
		}

		r.fb.QueueRender()
	}
}
