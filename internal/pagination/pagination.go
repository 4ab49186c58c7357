// Package pagination windows an in-memory list into pages.
//
// A Paginator never mutates the slice it is given and never returns an
// error: every navigation call clamps into the valid range.
package pagination

// DefaultPerPage is used when a non-positive page size is requested.
const DefaultPerPage = 10

// Paginator exposes a 1-indexed page window over items.
type Paginator[T any] struct {
	items   []T
	perPage int
	page    int
}

// New returns a paginator positioned on page 1.
func New[T any](items []T, perPage int) *Paginator[T] {
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	return &Paginator[T]{items: items, perPage: perPage, page: 1}
}

// Page is the current page number. It is 1 even when there are no pages.
func (p *Paginator[T]) Page() int {
	return p.page
}

// PerPage is the current page size.
func (p *Paginator[T]) PerPage() int {
	return p.perPage
}

// Len is the length of the source sequence.
func (p *Paginator[T]) Len() int {
	return len(p.items)
}

// TotalPages is ceil(len/perPage); zero for an empty sequence.
func (p *Paginator[T]) TotalPages() int {
	return (len(p.items) + p.perPage - 1) / p.perPage
}

// CurrentData returns the items on the current page. The returned slice
// shares memory with the source.
func (p *Paginator[T]) CurrentData() []T {
	start := (p.page - 1) * p.perPage
	if start >= len(p.items) {
		return []T{}
	}
	end := start + p.perPage
	if end > len(p.items) {
		end = len(p.items)
	}
	return p.items[start:end:end]
}

// NextPage advances one page, staying on the last page.
func (p *Paginator[T]) NextPage() {
	p.GoToPage(p.page + 1)
}

// PrevPage goes back one page, staying on page 1.
func (p *Paginator[T]) PrevPage() {
	p.GoToPage(p.page - 1)
}

// GoToPage moves to n clamped into [1, TotalPages]. With no pages the
// paginator stays on page 1.
func (p *Paginator[T]) GoToPage(n int) {
	total := p.TotalPages()
	if total == 0 {
		p.page = 1
		return
	}
	if n > total {
		n = total
	}
	if n < 1 {
		n = 1
	}
	p.page = n
}

// HasNext reports whether NextPage would move.
func (p *Paginator[T]) HasNext() bool {
	return p.page < p.TotalPages()
}

// HasPrev reports whether PrevPage would move.
func (p *Paginator[T]) HasPrev() bool {
	return p.page > 1
}

// SetItems swaps the source sequence, e.g. after a filter change, and
// clamps the current page into the new range.
func (p *Paginator[T]) SetItems(items []T) {
	p.items = items
	p.GoToPage(p.page)
}

// SetPerPage changes the page size and returns to page 1.
func (p *Paginator[T]) SetPerPage(n int) {
	if n < 1 {
		n = DefaultPerPage
	}
	p.perPage = n
	p.page = 1
}

// Pages lists 1..TotalPages for rendering page links.
func (p *Paginator[T]) Pages() []int {
	total := p.TotalPages()
	pages := make([]int, total)
	for i := range pages {
		pages[i] = i + 1
	}
	return pages
}

// FilterBy returns the items for which keep is true, in order. The source
// slice is not modified.
func FilterBy[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}
