package game

import "testing"

func answered(identity string, score, latency float64) *Participant {
	wrong := "wrong"
	lat := latency
	return &Participant{
		Identity:      identity,
		Name:          identity,
		Score:         score,
		Answer:        &wrong,
		AnswerSeconds: &lat,
		Connected:     true,
	}
}

func TestScoreContribution(t *testing.T) {
	cases := []struct {
		name    string
		latency float64
		want    float64
	}{
		{"instant answer earns the ceiling", 0, 10},
		{"two seconds in", 2, 8},
		{"exactly at the ceiling", 10, 0},
		{"past the ceiling clamps to zero", 12.5, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			correct := "42"
			lat := tc.latency
			p := &Participant{
				Identity:      "a@example.com",
				Answer:        &correct,
				AnswerSeconds: &lat,
				Connected:     true,
			}

			board := scoreQuestion([]*Participant{p}, "42", 10, 15)
			if len(board) != 1 {
				t.Fatalf("expected 1 entry, got %d", len(board))
			}
			if board[0].Score != tc.want {
				t.Errorf("latency %.2f: expected score %.2f, got %.2f", tc.latency, tc.want, board[0].Score)
			}
			if !board[0].Correct {
				t.Errorf("exact match should be marked correct")
			}
		})
	}
}

func TestAnswerMatchingIsCaseSensitive(t *testing.T) {
	got := "Paris"
	lat := 1.0
	p := &Participant{Identity: "a", Answer: &got, AnswerSeconds: &lat, Connected: true}

	board := scoreQuestion([]*Participant{p}, "paris", 10, 10)
	if board[0].Correct {
		t.Errorf("mismatched case should not count as correct")
	}
	if board[0].Score != 0 {
		t.Errorf("wrong answer should earn 0, got %.2f", board[0].Score)
	}
}

func TestNoAnswerScoredAtFullElapsed(t *testing.T) {
	p := &Participant{Identity: "a", Connected: true}

	board := scoreQuestion([]*Participant{p}, "42", 10, 9.25)
	if board[0].Score != 0 {
		t.Errorf("no answer should earn 0, got %.2f", board[0].Score)
	}
	if board[0].Seconds == nil || *board[0].Seconds != 9.25 {
		t.Errorf("no answer should carry the full elapsed time, got %v", board[0].Seconds)
	}
}

func TestRankingOrder(t *testing.T) {
	// Ties on score break by lower latency; C trails on score despite the
	// fastest answer.
	participants := []*Participant{
		answered("A", 5, 2.0),
		answered("B", 5, 1.0),
		answered("C", 3, 0.5),
	}

	board := scoreQuestion(participants, "42", 10, 10)

	want := []string{"B", "A", "C"}
	for i, id := range want {
		if board[i].PlayerID != id {
			t.Errorf("position %d: expected %s, got %s", i+1, id, board[i].PlayerID)
		}
	}
}

func TestRankingStableOnFullTie(t *testing.T) {
	participants := []*Participant{
		answered("first", 5, 2.0),
		answered("second", 5, 2.0),
	}

	board := scoreQuestion(participants, "42", 10, 10)
	if board[0].PlayerID != "first" || board[1].PlayerID != "second" {
		t.Errorf("full tie should preserve insertion order, got [%s, %s]",
			board[0].PlayerID, board[1].PlayerID)
	}
}

func TestDisconnectedExcludedButScored(t *testing.T) {
	correct := "42"
	lat := 1.0
	gone := &Participant{Identity: "gone", Answer: &correct, AnswerSeconds: &lat, Connected: false}
	here := answered("here", 0, 3.0)

	board := scoreQuestion([]*Participant{gone, here}, "42", 10, 10)

	if len(board) != 1 || board[0].PlayerID != "here" {
		t.Fatalf("disconnected participant should not appear on the board: %+v", board)
	}
	if gone.Score != 9 {
		t.Errorf("disconnected participant should still accumulate score, got %.2f", gone.Score)
	}
}
