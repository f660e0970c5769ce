package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectPages(t *testing.T) {
	tests := []struct {
		name  string
		total int
		want  []int
	}{
		{name: "empty document", total: 0, want: nil},
		{name: "single page", total: 1, want: []int{0}},
		{name: "exactly at threshold", total: 6, want: []int{0, 1, 2, 3, 4, 5}},
		{name: "one past threshold", total: 7, want: []int{0, 1, 2, 5, 6}},
		{name: "long contract", total: 42, want: []int{0, 1, 2, 40, 41}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SelectPages(tt.total))
		})
	}
}

func TestSelectPagesNeverExceedsFive(t *testing.T) {
	for total := 7; total < 200; total++ {
		assert.Len(t, SelectPages(total), 5, "total=%d", total)
	}
}
