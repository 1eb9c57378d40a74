package game

import (
	"fmt"
	"sort"
)

type scoreEntry struct {
	ID    string
	Score int
}

func sortedScores(scores map[string]int) []scoreEntry {
	arr := make([]scoreEntry, 0, len(scores))
	for id, s := range scores {
		arr = append(arr, scoreEntry{ID: id, Score: s})
	}
	sort.Slice(arr, func(i, j int) bool {
		if arr[i].Score != arr[j].Score {
			return arr[i].Score > arr[j].Score
		}
		return arr[i].ID < arr[j].ID
	})
	return arr
}

// VictoryInfo reports, per player, how many more mines that player must find
// to clinch first place no matter how the remaining mines are distributed.
// Each mine a player takes also shrinks the pool the opponent could catch up
// with, hence the halving. Zero means victory is already mathematically
// certain.
func VictoryInfo(scores map[string]int, totalMines int) map[string]int {
	arr := sortedScores(scores)
	if len(arr) == 0 {
		return map[string]int{}
	}
	minesLeft := totalMines
	for _, e := range arr {
		minesLeft -= e.Score
	}
	firstID, firstScore := arr[0].ID, arr[0].Score
	secondScore := 0
	if len(arr) > 1 {
		secondScore = arr[1].Score
	}

	info := make(map[string]int, len(arr))
	for _, e := range arr {
		top := firstScore
		if e.ID == firstID {
			top = secondScore
		}
		diff := top - e.Score + minesLeft
		half := diff / 2
		if diff < 0 && diff%2 != 0 {
			half-- // floor, not truncation: diff goes negative once a lead is safe
		}
		needed := half + 1
		if needed < 0 {
			needed = 0
		}
		info[e.ID] = needed
	}
	return info
}

// Outcome is the result of a termination check.
type Outcome struct {
	Over   bool
	Winner *string // nil on a tie
	Reason string
}

// CheckOver runs the two round-ending checks after every reveal: first the
// no-comeback rule (the leader's margin exceeds every remaining mine), then
// exhaustion (all mines found). No-comeback wins when both would fire.
func CheckOver(scores map[string]int, totalMines int) Outcome {
	arr := sortedScores(scores)
	foundSum := 0
	for _, e := range arr {
		foundSum += e.Score
	}
	minesLeft := totalMines - foundSum

	if len(arr) >= 2 {
		first, second := arr[0], arr[1]
		if first.Score > second.Score+minesLeft {
			return Outcome{
				Over:   true,
				Winner: &first.ID,
				Reason: fmt.Sprintf("No possible comeback: %d > %d + %d", first.Score, second.Score, minesLeft),
			}
		}
	}

	if foundSum == totalMines {
		if len(arr) == 0 {
			return Outcome{Over: true, Reason: "All mines found"}
		}
		top := arr[0].Score
		tied := 0
		for _, e := range arr {
			if e.Score == top {
				tied++
			}
		}
		if tied > 1 {
			return Outcome{Over: true, Reason: "All mines found: tie"}
		}
		return Outcome{Over: true, Winner: &arr[0].ID, Reason: "All mines found: top score"}
	}

	return Outcome{}
}
