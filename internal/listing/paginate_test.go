package listing

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageBoundaries(t *testing.T) {
	postings := make([]Posting, 25)
	for i := range postings {
		postings[i].ID = fmt.Sprintf("%d", i)
	}

	assert.Equal(t, 3, TotalPages(len(postings), PostingsPerPage))
	assert.Len(t, Page(postings, 1, PostingsPerPage), 12)
	assert.Len(t, Page(postings, 2, PostingsPerPage), 12)
	assert.Len(t, Page(postings, 3, PostingsPerPage), 1)
	assert.Empty(t, Page(postings, 4, PostingsPerPage))
}

func TestPageContents(t *testing.T) {
	postings := []Posting{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	got := Page(postings, 2, 2)
	assert.Equal(t, []string{"c"}, ids(got))
}

func TestPageInvalidInputs(t *testing.T) {
	postings := []Posting{{ID: "a"}}
	assert.Empty(t, Page(postings, 0, PostingsPerPage))
	assert.Empty(t, Page(postings, -1, PostingsPerPage))
	assert.Empty(t, Page(postings, 1, 0))
	assert.Empty(t, Page(nil, 1, PostingsPerPage))
}

func TestTotalPagesEmptyListIsZeroPages(t *testing.T) {
	assert.Equal(t, 0, TotalPages(0, PostingsPerPage))
	assert.Equal(t, 1, TotalPages(12, 12))
	assert.Equal(t, 2, TotalPages(13, 12))
}
