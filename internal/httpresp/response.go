package httpresp

// Page applies skip/limit to an in-memory slice. It never returns nil so the
// JSON body is always an array.
func Page[T any](items []T, skip, limit int) []T {
	if skip < 0 {
		skip = 0
	}
	if skip >= len(items) || limit <= 0 {
		return []T{}
	}
	end := skip + limit
	if end > len(items) {
		end = len(items)
	}
	return items[skip:end]
}
