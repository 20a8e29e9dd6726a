package listing

// PostingsPerPage is the fixed page size used by the job board.
const PostingsPerPage = 12

// Page slices postings for a 1-indexed page, clipped to list bounds. An
// out-of-range page yields an empty slice, not an error.
func Page(postings []Posting, page, size int) []Posting {
	if page < 1 || size < 1 {
		return []Posting{}
	}
	start := (page - 1) * size
	if start >= len(postings) {
		return []Posting{}
	}
	end := start + size
	if end > len(postings) {
		end = len(postings)
	}
	out := make([]Posting, end-start)
	copy(out, postings[start:end])
	return out
}

// TotalPages is ceil(n/size); zero items means zero pages.
func TotalPages(n, size int) int {
	if n <= 0 || size < 1 {
		return 0
	}
	return (n + size - 1) / size
}
