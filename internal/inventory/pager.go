package inventory

// PageSize is the number of pocket slots revealed per page.
const PageSize = 30

// IntersectThreshold is the visible fraction of the sentinel slot that
// counts as "scrolled into view".
const IntersectThreshold = 0.5

// Pager is the pagination cursor of one grid. The page only ever grows;
// a new Pager (or Reset) is the only way back to the first page.
type Pager struct {
	size int
	page int
}

// NewPager returns a Pager revealing size items per page. Sizes below 1 fall
// back to PageSize.
func NewPager(size int) *Pager {
	if size < 1 {
		size = PageSize
	}
	return &Pager{size: size}
}

// Page returns the current page, starting at 0.
func (p *Pager) Page() int { return p.page }

// Size returns the page size.
func (p *Pager) Size() int { return p.size }

// Window returns how many of n items are currently revealed.
func (p *Pager) Window(n int) int {
	return min((p.page+1)*p.size, n)
}

// Sentinel returns the index of the slot whose visibility grows the window.
// ok is false when the list is shorter than the window, in which case
// nothing can grow it any further.
func (p *Pager) Sentinel(n int) (idx int, ok bool) {
	idx = (p.page+1)*p.size - 1
	return idx, idx < n
}

// Intersect records one intersection event and reveals the next page.
func (p *Pager) Intersect() { p.page++ }

// Observe feeds the sentinel's visible fraction. It advances the page and
// returns true when the fraction reaches IntersectThreshold.
func (p *Pager) Observe(fraction float64) bool {
	if fraction < IntersectThreshold {
		return false
	}
	p.Intersect()
	return true
}

// Reset returns to the first page.
func (p *Pager) Reset() { p.page = 0 }
