package leaderboarddomain

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestAssignRanks(t *testing.T) {
	tests := []struct {
		name   string
		scores []int
		want   []int
	}{
		{name: "empty", scores: nil, want: nil},
		{name: "distinct", scores: []int{100, 42, 10}, want: []int{1, 2, 3}},
		{name: "tie at top", scores: []int{50, 50, 10}, want: []int{1, 1, 3}},
		{name: "tie in middle", scores: []int{90, 40, 40, 40, 5}, want: []int{1, 2, 2, 2, 5}},
		{name: "all equal", scores: []int{7, 7, 7}, want: []int{1, 1, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var entries []Entry
			for _, s := range tt.scores {
				entries = append(entries, Entry{Score: s})
			}
			AssignRanks(entries)

			var got []int
			for _, e := range entries {
				got = append(got, e.Rank)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ranks mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestClampLimit(t *testing.T) {
	for in, want := range map[int]int{-5: 10, 0: 10, 1: 1, 7: 7, 10: 10, 11: 10, 500: 10} {
		if got := ClampLimit(in); got != want {
			t.Errorf("ClampLimit(%d) = %d, want %d", in, got, want)
		}
	}
}
