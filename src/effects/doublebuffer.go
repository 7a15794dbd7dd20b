package effects

// DoubleBuffer is a two-slot ping-pong pair. Current holds the latest
// image; Back is the target of the next pass.
type DoubleBuffer struct {
	slots [2]Surface
	cur   int
}

func NewDoubleBuffer(primary, scratch Surface) *DoubleBuffer {
	return &DoubleBuffer{slots: [2]Surface{primary, scratch}}
}

func (d *DoubleBuffer) Current() Surface { return d.slots[d.cur] }
func (d *DoubleBuffer) Back() Surface    { return d.slots[1-d.cur] }
func (d *DoubleBuffer) Swap()            { d.cur = 1 - d.cur }

// Reset makes the primary surface current again.
func (d *DoubleBuffer) Reset() { d.cur = 0 }

// OnPrimary reports whether the latest image is in the primary surface.
func (d *DoubleBuffer) OnPrimary() bool { return d.cur == 0 }
