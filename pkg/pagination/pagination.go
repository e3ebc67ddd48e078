package pagination

const (
	// DefaultPageSize is the listing size when none is configured.
	DefaultPageSize = 12
	// MaxPageSize caps how many rows a listing can request.
	MaxPageSize = 100
	// Ellipsis marks a gap in a page range.
	Ellipsis = 0
)

const (
	windowAllPages = 7
	windowEdge     = 5
)

// Params holds page-number inputs from controllers or services.
type Params struct {
	Page int
	Size int
}

// Page describes one page of a listing. Out of range page numbers resolve to
// the nearest valid page; an empty listing still has one page.
type Page struct {
	Number     int   `json:"number"`
	Size       int   `json:"size"`
	TotalItems int64 `json:"total_items"`
	NumPages   int   `json:"num_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_previous"`
	NextNumber int   `json:"next_page_number,omitempty"`
	PrevNumber int   `json:"previous_page_number,omitempty"`
}

// NormalizeSize enforces the default and maximum page size.
func NormalizeSize(size int) int {
	if size <= 0 {
		return DefaultPageSize
	}
	if size > MaxPageSize {
		return MaxPageSize
	}
	return size
}

// NewPage resolves the requested page number against the total item count.
func NewPage(number, size int, total int64) Page {
	size = NormalizeSize(size)
	if total < 0 {
		total = 0
	}
	numPages := int((total + int64(size) - 1) / int64(size))
	if numPages < 1 {
		numPages = 1
	}
	if number < 1 {
		number = 1
	}
	if number > numPages {
		number = numPages
	}

	page := Page{
		Number:     number,
		Size:       size,
		TotalItems: total,
		NumPages:   numPages,
		HasNext:    number < numPages,
		HasPrev:    number > 1,
	}
	if page.HasNext {
		page.NextNumber = number + 1
	}
	if page.HasPrev {
		page.PrevNumber = number - 1
	}
	return page
}

// Offset returns the row offset of the page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// Range returns the page links shown for the page.
func (p Page) Range() []int {
	return Window(p.Number, p.NumPages)
}

// Window computes the page links for current out of total pages, using
// Ellipsis for gaps:
//
//	total <= 7            1 2 3 4 5 6 7
//	current <= 4          1 2 3 4 5 … N
//	current >= total-3    1 … N-4 N-3 N-2 N-1 N
//	otherwise             1 … c-1 c c+1 … N
func Window(current, total int) []int {
	if total < 1 {
		return []int{1}
	}
	if current < 1 {
		current = 1
	}
	if current > total {
		current = total
	}

	if total <= windowAllPages {
		return span(1, total)
	}

	switch {
	case current <= 4:
		out := span(1, windowEdge)
		return append(out, Ellipsis, total)
	case current >= total-3:
		out := []int{1, Ellipsis}
		return append(out, span(total-windowEdge+1, total)...)
	default:
		out := []int{1, Ellipsis}
		out = append(out, span(current-1, current+1)...)
		return append(out, Ellipsis, total)
	}
}

func span(from, to int) []int {
	out := make([]int, 0, to-from+1)
	for i := from; i <= to; i++ {
		out = append(out, i)
	}
	return out
}
