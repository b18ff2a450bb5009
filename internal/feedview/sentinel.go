// ABOUTME: Edge-triggered pagination trigger for the bottom of a scrolling view
// ABOUTME: Fires once per exposure, re-arming when the view grows or the sentinel leaves the screen

package feedview

// Sentinel decides when a host should call LoadMore. The zero value is ready to use.
type Sentinel struct {
	fired bool
	size  int
}

// Observe reports the sentinel's visibility after a render. ready is the
// engine's CanLoadMore and size the number of held entries. It returns true
// at most once per exposure; an exposure ends when the sentinel is hidden or
// new entries arrive.
func (s *Sentinel) Observe(visible, ready bool, size int) bool {
	if !visible {
		s.fired = false
		return false
	}
	if size != s.size {
		s.size = size
		s.fired = false
	}
	if s.fired || !ready {
		return false
	}
	s.fired = true
	return true
}

// Reset forgets the current exposure, used after the view is reset.
func (s *Sentinel) Reset() {
	s.fired = false
	s.size = 0
}
