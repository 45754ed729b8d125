package game

import "sort"

// LeaderboardEntry is one ranked row of the end-of-question standings.
type LeaderboardEntry struct {
	PlayerID string   `json:"playerId"`
	Name     string   `json:"playerName"`
	Score    float64  `json:"score"`
	Seconds  *float64 `json:"seconds"`
	Correct  bool     `json:"correct"`
}

// scoreQuestion applies the current question's outcome to every participant
// and returns the broadcastable leaderboard.
//
// An exact, case-sensitive match with correctAnswer earns
// max(0, maxPoints - latencySeconds) on the cumulative score. Wrong or
// missing answers earn nothing; a participant who never answered is scored
// with the full question elapsed time so "no answer" reads as answering at
// the last instant rather than having no time at all.
//
// Disconnected participants keep their cumulative score but are excluded
// from the returned board. Ordering: descending score, ties broken by
// ascending latency, remaining ties by insertion order (stable sort).
func scoreQuestion(participants []*Participant, correctAnswer string, maxPoints, elapsedSeconds float64) []LeaderboardEntry {
	entries := make([]LeaderboardEntry, 0, len(participants))

	for _, p := range participants {
		latency := elapsedSeconds
		if p.AnswerSeconds != nil {
			latency = *p.AnswerSeconds
		}
		correct := p.Answer != nil && *p.Answer == correctAnswer
		if correct {
			points := maxPoints - latency
			if points < 0 {
				points = 0
			}
			p.Score += points
		}
		if !p.Connected {
			continue
		}
		sec := latency
		entries = append(entries, LeaderboardEntry{
			PlayerID: p.Identity,
			Name:     p.Name,
			Score:    p.Score,
			Seconds:  &sec,
			Correct:  correct,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		if entries[i].Seconds == nil || entries[j].Seconds == nil {
			return false
		}
		return *entries[i].Seconds < *entries[j].Seconds
	})

	return entries
}
