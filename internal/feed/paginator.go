package feed

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"yatube/internal/models"
)

// MaxPageSize bounds the page size accepted by Paginate.
const MaxPageSize = 100

// Page is one page of a feed.
type Page struct {
	Items      []models.Post `json:"results"`
	Number     int           `json:"page"`
	HasNext    bool          `json:"has_next"`
	HasPrev    bool          `json:"has_previous"`
	TotalCount int           `json:"count"`
	TotalPages int           `json:"num_pages"`
}

// Paginate cuts page number out of seq. Numbers below 1 become 1 and numbers past the
// last page become the last page; an empty sequence has a single empty page. Only
// size+1 items are read, the extra one deciding HasNext.
func Paginate(ctx context.Context, seq Sequence, number, size int) (*Page, error) {
	if size < 1 || size > MaxPageSize {
		return nil, models.NewValidationError(fmt.Sprintf("page size must be between 1 and %d", MaxPageSize))
	}

	total, err := seq.Len(ctx)
	if err != nil {
		return nil, err
	}

	pages := (total + size - 1) / size
	if pages < 1 {
		pages = 1
	}
	if number < 1 {
		number = 1
	}
	if number > pages {
		number = pages
	}

	items, err := seq.Slice(ctx, (number-1)*size, size+1)
	if err != nil {
		return nil, err
	}
	hasNext := len(items) > size
	if hasNext {
		items = items[:size]
	}

	return &Page{
		Items:      items,
		Number:     number,
		HasNext:    hasNext,
		HasPrev:    number > 1,
		TotalCount: total,
		TotalPages: pages,
	}, nil
}

// ParsePageNumber reads a ?page= value. Anything that is not an integer means page 1.
func ParsePageNumber(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 1
	}
	return n
}
