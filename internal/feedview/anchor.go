// ABOUTME: Scroll anchoring so content prepended above the viewport does not move it
// ABOUTME: Capture the extent before the prepend renders, restore the delta before the next paint

package feedview

// Viewport is the scrollable surface a host renders the view into.
type Viewport interface {
	// ScrollExtent is the total scrollable height of the rendered content.
	ScrollExtent() int
	// ScrollOffset is the current distance from the top.
	ScrollOffset() int
	SetScrollOffset(offset int)
}

// ScrollAnchor keeps the visible content in place across one prepend.
// The zero value is ready to use.
type ScrollAnchor struct {
	extent int
	armed  bool
}

// Capture records the extent before a prepend is rendered.
func (a *ScrollAnchor) Capture(v Viewport) {
	a.extent = v.ScrollExtent()
	a.armed = true
}

// Armed reports whether a capture is waiting to be restored.
func (a *ScrollAnchor) Armed() bool {
	return a.armed
}

// Restore shifts the offset by the growth since Capture and disarms the
// anchor. It returns the applied delta; without a pending capture it does nothing.
func (a *ScrollAnchor) Restore(v Viewport) int {
	if !a.armed {
		return 0
	}
	a.armed = false
	delta := v.ScrollExtent() - a.extent
	if delta != 0 {
		v.SetScrollOffset(v.ScrollOffset() + delta)
	}
	return delta
}

// Cancel drops a pending capture, e.g. when the view was reset instead of prepended.
func (a *ScrollAnchor) Cancel() {
	a.armed = false
}
