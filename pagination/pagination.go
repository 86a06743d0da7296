package pagination

const (
	DefaultPage  = 1
	DefaultLimit = 100
)

// Normalize fills in defaults and returns the page, limit and the offset of
// the page's first item.
func Normalize(page, limit int) (int, int, int) {
	if page < 1 {
		page = DefaultPage
	}

	if limit <= 0 {
		limit = DefaultLimit
	}

	offset := (page - 1) * limit

	return page, limit, offset
}
