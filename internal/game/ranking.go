package game

// Standing is a connected player's final score and result
type Standing struct {
	Player int
	Score  int
	Result Result
}

// Rank computes results for the connected slots, in ascending player order.
// A sole top score wins; a shared top score ties; everyone else loses.
// Disconnected players get no standing.
func Rank(slots []Slot) []Standing {
	var (
		best    int
		found   bool
		leaders int
	)
	for _, s := range slots {
		score, ok := s.Score()
		if !ok {
			continue
		}
		switch {
		case !found || score > best:
			best, found, leaders = score, true, 1
		case score == best:
			leaders++
		}
	}

	top := ResultWon
	if leaders > 1 {
		top = ResultTied
	}

	standings := make([]Standing, 0, len(slots))
	for i, s := range slots {
		score, ok := s.Score()
		if !ok {
			continue
		}
		result := ResultLost
		if score == best {
			result = top
		}
		standings = append(standings, Standing{Player: i + 1, Score: score, Result: result})
	}
	return standings
}
