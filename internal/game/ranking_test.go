package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRank(t *testing.T) {
	cases := []struct {
		name  string
		slots []Slot
		want  []Standing
	}{
		{
			name:  "shared top score ties, rest lose, disconnected skipped",
			slots: []Slot{Scored(10), Scored(10), Scored(5), Disconnected},
			want: []Standing{
				{Player: 1, Score: 10, Result: ResultTied},
				{Player: 2, Score: 10, Result: ResultTied},
				{Player: 3, Score: 5, Result: ResultLost},
			},
		},
		{
			name:  "sole top score wins",
			slots: []Slot{Scored(12), Scored(7), Scored(7)},
			want: []Standing{
				{Player: 1, Score: 12, Result: ResultWon},
				{Player: 2, Score: 7, Result: ResultLost},
				{Player: 3, Score: 7, Result: ResultLost},
			},
		},
		{
			name:  "negative scores still rank",
			slots: []Slot{Disconnected, Scored(-3), Scored(-1)},
			want: []Standing{
				{Player: 2, Score: -3, Result: ResultLost},
				{Player: 3, Score: -1, Result: ResultWon},
			},
		},
		{
			name:  "single connected player wins",
			slots: []Slot{Scored(0)},
			want:  []Standing{{Player: 1, Score: 0, Result: ResultWon}},
		},
		{
			name:  "nobody connected",
			slots: []Slot{Disconnected, Disconnected},
			want:  []Standing{},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Rank(tc.slots))
		})
	}
}
