// ABOUTME: Tests for scroll anchoring and the pagination sentinel
// ABOUTME: Uses a fake viewport whose extent is the sum of rendered entry heights

package feedview

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeViewport struct {
	heights []int
	offset  int
}

func (v *fakeViewport) ScrollExtent() int {
	total := 0
	for _, h := range v.heights {
		total += h
	}
	return total
}

func (v *fakeViewport) ScrollOffset() int { return v.offset }

func (v *fakeViewport) SetScrollOffset(offset int) { v.offset = offset }

func TestScrollAnchor_PrependShiftsByRenderedHeight(t *testing.T) {
	vp := &fakeViewport{heights: []int{3, 3, 4, 3}, offset: 5}
	var anchor ScrollAnchor

	anchor.Capture(vp)
	vp.heights = append([]int{2, 5}, vp.heights...)
	delta := anchor.Restore(vp)

	assert.Equal(t, 7, delta)
	assert.Equal(t, 12, vp.offset)
	assert.False(t, anchor.Armed())
}

func TestScrollAnchor_RestoreWithoutCaptureIsNoop(t *testing.T) {
	vp := &fakeViewport{heights: []int{3}, offset: 1}
	var anchor ScrollAnchor

	assert.Equal(t, 0, anchor.Restore(vp))
	assert.Equal(t, 1, vp.offset)
}

func TestScrollAnchor_CancelDropsCapture(t *testing.T) {
	vp := &fakeViewport{heights: []int{3}}
	var anchor ScrollAnchor

	anchor.Capture(vp)
	anchor.Cancel()
	vp.heights = append(vp.heights, 10)

	assert.Equal(t, 0, anchor.Restore(vp))
	assert.Equal(t, 0, vp.offset)
}

func TestSentinel_FiresOncePerExposure(t *testing.T) {
	var s Sentinel

	assert.True(t, s.Observe(true, true, 20))
	assert.False(t, s.Observe(true, true, 20), "repeated renders do not refire")
	assert.False(t, s.Observe(false, true, 20))
	assert.True(t, s.Observe(true, true, 20), "re-exposure fires again")
}

func TestSentinel_WaitsUntilReady(t *testing.T) {
	var s Sentinel

	assert.False(t, s.Observe(true, false, 20))
	assert.True(t, s.Observe(true, true, 20))
}

func TestSentinel_GrowthRearms(t *testing.T) {
	var s Sentinel

	assert.True(t, s.Observe(true, true, 20))
	assert.True(t, s.Observe(true, true, 40))
	assert.False(t, s.Observe(true, false, 60))
}
