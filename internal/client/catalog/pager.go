package catalog

const (
	DefaultPageSize = 12
	PageWindow      = 5
)

// Pager tracks the current page over a result set of known size. Pages are
// 1-based.
type Pager struct {
	size  int
	page  int
	total int
}

func NewPager(size int) Pager {
	if size <= 0 {
		size = DefaultPageSize
	}
	return Pager{size: size, page: 1}
}

// Reset sets a new total and returns to page 1.
func (p *Pager) Reset(total int) {
	p.total = total
	p.page = 1
}

func (p Pager) Page() int  { return p.page }
func (p Pager) Size() int  { return p.size }
func (p Pager) Total() int { return p.total }

func (p Pager) TotalPages() int {
	return (p.total + p.size - 1) / p.size
}

// GoTo moves to page n. Out-of-range pages are ignored.
func (p *Pager) GoTo(n int) bool {
	if n < 1 || n > p.TotalPages() {
		return false
	}
	p.page = n
	return true
}

func (p *Pager) Next() bool { return p.GoTo(p.page + 1) }
func (p *Pager) Prev() bool { return p.GoTo(p.page - 1) }

func (p Pager) HasPrev() bool { return p.page > 1 }
func (p Pager) HasNext() bool { return p.page < p.TotalPages() }

// Bounds returns the slice indices [start, end) of the current page.
func (p Pager) Bounds() (int, int) {
	start := (p.page - 1) * p.size
	if start > p.total {
		start = p.total
	}
	end := start + p.size
	if end > p.total {
		end = p.total
	}
	return start, end
}

// Window returns up to PageWindow page numbers centred on the current page
// and clamped to the valid range.
func (p Pager) Window() []int {
	pages := p.TotalPages()
	if pages == 0 {
		return nil
	}

	start := max(1, p.page-PageWindow/2)
	end := min(pages, start+PageWindow-1)
	if end-start+1 < PageWindow {
		start = max(1, end-PageWindow+1)
	}

	out := make([]int, 0, end-start+1)
	for i := start; i <= end; i++ {
		out = append(out, i)
	}
	return out
}
