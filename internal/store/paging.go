package store

// RowRange converts a 1-based page number and page size into the
// zero-based inclusive row range the table API expects.
func RowRange(page, pageSize int) (from, to int) {
	if page < 1 {
		page = 1
	}
	from = (page - 1) * pageSize
	to = from + pageSize - 1
	return from, to
}

// TotalPages is ceil(total/pageSize), never less than 1 so that an empty
// result set still renders as page 1 of 1.
func TotalPages(total, pageSize int) int {
	if pageSize < 1 {
		return 1
	}
	pages := (total + pageSize - 1) / pageSize
	if pages < 1 {
		return 1
	}
	return pages
}

// CanPrev reports whether a previous page exists.
func (p PostsState) CanPrev() bool {
	return p.Page > 1
}

// CanNext reports whether a next page exists.
func (p PostsState) CanNext() bool {
	return p.Page < TotalPages(p.Total, p.PageSize)
}

// TotalPages is the page count for the slice's current totals.
func (p PostsState) TotalPages() int {
	return TotalPages(p.Total, p.PageSize)
}
