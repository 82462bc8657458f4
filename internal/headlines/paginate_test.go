package headlines

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlice_Pages(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7}

	page, start := Slice(items, 1, 3)
	assert.Equal(t, []int{1, 2, 3}, page)
	assert.Equal(t, 0, start)

	page, start = Slice(items, 3, 3)
	assert.Equal(t, []int{7}, page)
	assert.Equal(t, 6, start)

	page, start = Slice(items, 4, 3)
	assert.Empty(t, page)
	assert.NotNil(t, page)
	assert.Equal(t, len(items), start)
}

func TestSlice_HugePageDoesNotWrap(t *testing.T) {
	items := make([]int, 35)
	for i := range items {
		items[i] = i + 1
	}

	page, start := Slice(items, 1<<59+1, 32)
	assert.Empty(t, page)
	assert.Equal(t, len(items), start)

	page, start = Slice(items, math.MaxInt, math.MaxInt)
	assert.Empty(t, page)
	assert.Equal(t, len(items), start)

	page, start = Slice(items, 1, math.MaxInt)
	assert.Len(t, page, 35)
	assert.Equal(t, 0, start)
}

func TestSlice_ConcatenationReconstructsInput(t *testing.T) {
	for n := 0; n <= 40; n++ {
		items := make([]int, n)
		for i := range items {
			items[i] = i
		}

		for size := 1; size <= 12; size++ {
			var joined []int
			for p := 1; ; p++ {
				page, start := Slice(items, p, size)
				require.Equal(t, min((p-1)*size, n), start)
				if len(page) == 0 {
					break
				}
				joined = append(joined, page...)
			}
			if n == 0 {
				assert.Empty(t, joined)
				continue
			}
			assert.Equal(t, items, joined, "n=%d size=%d", n, size)
		}
	}
}

func TestSlice_NormalizesInputs(t *testing.T) {
	items := make([]string, 45)

	page, start := Slice(items, 0, 0)
	assert.Len(t, page, DefaultPageSize)
	assert.Equal(t, 0, start)

	page, start = Slice(items, -3, 10)
	assert.Len(t, page, 10)
	assert.Equal(t, 0, start)
}

func TestSlice_ReturnsCopy(t *testing.T) {
	items := []string{"a", "b", "c"}
	page, _ := Slice(items, 1, 2)
	page[0] = "changed"
	assert.Equal(t, "a", items[0])
}
