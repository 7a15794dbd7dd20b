package overlay

import (
	"github.com/go-gl/mathgl/mgl32"

	"goslop/src/config"
	"goslop/src/render"
	"goslop/src/selection"
	"goslop/src/x11"
)

// xshapeBackend has no GPU surface. Drawing the model moves and reshapes
// its overlay window, which is mapped on the first draw.
type xshapeBackend struct {
	sess      *x11.Session
	rectangle *render.ShapeRectangle
}

func newXShapeBackend(sess *x11.Session, opts config.Options) (*xshapeBackend, error) {
	var (
		rect *render.ShapeRectangle
		err  error
	)
	sess.SuppressErrors(func() {
		rect, err = render.NewShapeRectangle(sess, opts.BorderSize, opts.Padding, opts.Color.Vec4(), opts.Highlight)
	})
	if err != nil {
		return nil, err
	}
	return &xshapeBackend{sess: sess, rectangle: rect}, nil
}

func (b *xshapeBackend) Name() string                   { return "xshape" }
func (b *xshapeBackend) Rectangle() selection.Rectangle { return b.rectangle }
func (b *xshapeBackend) OverlayWindow() uint32          { return uint32(b.rectangle.Window()) }

func (b *xshapeBackend) Render(f Frame) error {
	f.Model.Draw(mgl32.Ident4())
	b.sess.Flush()
	return nil
}

// Close is a no-op: the overlay window is destroyed with the rectangle.
func (b *xshapeBackend) Close() {}
