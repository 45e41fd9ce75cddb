package style

import (
	"math"

	"github.com/matzehuels/nodevis/pkg/hierarchy"
	"github.com/matzehuels/nodevis/pkg/layout"
)

// Handle identifies an editing handle of a style overlay.
type Handle string

const (
	HandleResize   Handle = "scale"
	HandleRotation Handle = "rotation"
	HandleRadius   Handle = "radius"
	HandleDegree   Handle = "degree"
)

// HandleDragger is implemented by styles whose options can be changed by
// dragging overlay handles.
type HandleDragger interface {
	Handles() []Handle
	// StartHandleDrag records the pointer position and the current options.
	StartHandleDrag(x, y float64)
	// DragHandle applies one pointer step. x and y are the pointer
	// position, dx and dy the movement since the previous step.
	DragHandle(h Handle, x, y, dx, dy float64)
}

type handleDrag struct {
	startX, startY float64
	deltaX, deltaY float64
	options        layout.Options
}

// treeStyle is the shared part of the styles that lay out a subtree.
type treeStyle struct {
	*base
	maxDepth  int
	unrotated []point
	drag      handleDrag
}

func (t *treeStyle) Weight() float64 {
	return 10 + float64(t.root.Depth)
}

// Remove deletes all entries the style wrote in its subtree.
func (t *treeStyle) Remove() {
	t.base.Remove()
	t.cleanup()
}

// update runs the shared part of UpdateData around compute.
func (t *treeStyle) update(compute func()) {
	t.useTransition = true
	t.cleanup()
	t.view = t.filter()
	t.maxDepth = max(1, t.view.MaxDepth())
	compute()
	t.ForceTranslation()
}

// unrotatedVertices returns the node offsets before rotation.
func (t *treeStyle) unrotatedVertices() []point {
	return t.unrotated
}

func (t *treeStyle) StartHandleDrag(x, y float64) {
	t.drag = handleDrag{startX: x, startY: y, options: t.config.Options.Clone()}
}

func (t *treeStyle) rotate() {
	rotation := math.Mod(t.drag.options.Float(OptRotation, 0)-t.drag.deltaY, 360)
	if rotation < 0 {
		rotation += 360
	}
	t.config.Options[OptRotation] = rotation
	t.ForceTranslation()
}

func (t *treeStyle) defaultOption(id string) float64 {
	for _, s := range t.variant.Options {
		if s.ID == id {
			d, _ := s.Default.(float64)
			return d
		}
	}
	return 0
}

// nestedSize returns the block size a nested style occupies inside a
// parent laid out at rotation rad.
func nestedSize(s Style, rad float64) (w, h float64) {
	if s.Type() == TypeBlock {
		return s.Size()
	}
	opts := s.Config().Options
	nodeRad := opts.Float(OptRotation, 0) / 180 * math.Pi

	var pts []point
	if v, ok := s.(interface{ unrotatedVertices() []point }); ok {
		pts = v.unrotatedVertices()
	}

	if opts.Bool(OptIncludeParentRotation, false) {
		bw, bh := rotatedBounds(pts, nodeRad)
		return bh*1.1 + 100, bw*1.1 + 100
	}

	nodeRad = nodeRad + math.Pi - rad
	bw, bh := rotatedBounds(pts, nodeRad)
	var extra float64
	if s.Type() == TypeHierarchy {
		extra = math.Abs(bh*math.Sin(nodeRad)) * 0.5
	}
	return extra + bh*1.1 + 100, bw*1.1 + 100
}

// retranslate re-places nested styles whose root was moved by the parent.
func retranslate(env Env, nodes []*hierarchy.Node, force bool) {
	for _, n := range nodes {
		s := env.StyleOf(n)
		if s == nil {
			continue
		}
		hierarchy.ComputeNodePosition(n)
		if force {
			s.ForceTranslation()
		}
		s.TranslateCoords()
		if force {
			hierarchy.ComputeNodePositions(s.FilteredDescendants())
		}
	}
}
