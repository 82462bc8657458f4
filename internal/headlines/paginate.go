package headlines

// DefaultPageSize is used when callers pass a non-positive page size.
const DefaultPageSize = 30

// Slice returns the page of items and the offset of its first element.
// Pages are 1-based; a page past the end is empty, not an error, and its
// offset is len(items). The returned slice is a copy.
func Slice[T any](items []T, page, pageSize int) ([]T, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}

	// Compare page numbers before multiplying so huge inputs cannot wrap.
	if len(items) == 0 || page-1 > (len(items)-1)/pageSize {
		return []T{}, len(items)
	}

	start := (page - 1) * pageSize
	end := len(items)
	if end-start > pageSize {
		end = start + pageSize
	}
	out := make([]T, end-start)
	copy(out, items[start:end])
	return out, start
}
