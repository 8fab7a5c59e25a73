package feed

import (
	"context"
	"fmt"
	"testing"

	"yatube/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func numbered(n int) sliceSequence {
	seq := make(sliceSequence, n)
	for i := range seq {
		seq[i] = models.Post{ID: uint(n - i)}
	}
	return seq
}

// probeSequence records how much of the sequence a caller realises.
type probeSequence struct {
	sliceSequence
	maxLimit int
	slices   int
}

func (p *probeSequence) Slice(ctx context.Context, offset, limit int) ([]models.Post, error) {
	p.slices++
	if limit > p.maxLimit {
		p.maxLimit = limit
	}
	return p.sliceSequence.Slice(ctx, offset, limit)
}

func TestPaginate(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		total     int
		number    int
		size      int
		wantNum   int
		wantLen   int
		wantFirst uint
		wantNext  bool
		wantPrev  bool
		wantPages int
	}{
		{"first page", 13, 1, 10, 1, 10, 13, true, false, 2},
		{"last partial page", 13, 2, 10, 2, 3, 3, false, true, 2},
		{"past the end clamps", 13, 9, 10, 2, 3, 3, false, true, 2},
		{"zero becomes one", 13, 0, 10, 1, 10, 13, true, false, 2},
		{"negative becomes one", 13, -4, 10, 1, 10, 13, true, false, 2},
		{"exact fit has no next", 10, 1, 10, 1, 10, 10, false, false, 1},
		{"empty", 0, 3, 10, 1, 0, 0, false, false, 1},
		{"size one", 3, 2, 1, 2, 1, 2, true, true, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Paginate(ctx, numbered(tt.total), tt.number, tt.size)
			require.NoError(t, err)
			assert.Equal(t, tt.wantNum, p.Number)
			assert.Len(t, p.Items, tt.wantLen)
			if tt.wantLen > 0 {
				assert.Equal(t, tt.wantFirst, p.Items[0].ID)
			}
			assert.Equal(t, tt.wantNext, p.HasNext)
			assert.Equal(t, tt.wantPrev, p.HasPrev)
			assert.Equal(t, tt.total, p.TotalCount)
			assert.Equal(t, tt.wantPages, p.TotalPages)
		})
	}
}

func TestPaginate_RejectsPageSizeOutOfBounds(t *testing.T) {
	for _, size := range []int{0, -1, MaxPageSize + 1} {
		_, err := Paginate(context.Background(), numbered(3), 1, size)
		assert.Equal(t, models.CodeValidation, models.ErrorCode(err), "size %d", size)
	}
}

func TestPaginate_ReadsOneLookahead(t *testing.T) {
	seq := &probeSequence{sliceSequence: numbered(50)}
	p, err := Paginate(context.Background(), seq, 2, 10)
	require.NoError(t, err)
	assert.Len(t, p.Items, 10)
	assert.Equal(t, 1, seq.slices)
	assert.Equal(t, 11, seq.maxLimit)
}

// Every page is at most size long, HasNext is true exactly when items remain after it,
// and the pages together are the sequence in order.
func TestPaginate_Properties(t *testing.T) {
	ctx := context.Background()
	for total := 0; total <= 23; total++ {
		for size := 1; size <= 7; size++ {
			t.Run(fmt.Sprintf("total=%d/size=%d", total, size), func(t *testing.T) {
				seq := numbered(total)
				var walked []uint
				last, err := Paginate(ctx, seq, 1<<20, size)
				require.NoError(t, err)

				for n := 1; n <= last.Number; n++ {
					p, err := Paginate(ctx, seq, n, size)
					require.NoError(t, err)
					assert.LessOrEqual(t, len(p.Items), size)
					assert.Equal(t, n*size < total, p.HasNext)
					for _, item := range p.Items {
						walked = append(walked, item.ID)
					}
				}

				want := make([]uint, 0, total)
				for _, post := range seq {
					want = append(want, post.ID)
				}
				assert.Equal(t, want, append(make([]uint, 0, total), walked...))

				lastAgain, err := Paginate(ctx, seq, last.Number, size)
				require.NoError(t, err)
				assert.Equal(t, lastAgain, last, "clamping past the end equals the last page")
			})
		}
	}
}

func TestParsePageNumber(t *testing.T) {
	assert.Equal(t, 1, ParsePageNumber(""))
	assert.Equal(t, 1, ParsePageNumber("abc"))
	assert.Equal(t, 1, ParsePageNumber("2.5"))
	assert.Equal(t, 3, ParsePageNumber("3"))
	assert.Equal(t, 3, ParsePageNumber(" 3 "))
	assert.Equal(t, -2, ParsePageNumber("-2"))
}
