package training

import "time"

// Stats accumulates results over a training run
type Stats struct {
	Episodes   int
	Wins       [2]int
	TotalMoves int
	Updates    int
	TableSize  int
	Duration   time.Duration
}

func (s *Stats) record(r EpisodeResult) {
	s.Episodes++
	if r.Winner == 0 || r.Winner == 1 {
		s.Wins[r.Winner]++
	}
	s.TotalMoves += r.Moves
	s.Updates += r.Updates
}

// WinRate returns the share of episodes won by player
func (s *Stats) WinRate(player int) float64 {
	if s.Episodes == 0 || player < 0 || player > 1 {
		return 0
	}
	return float64(s.Wins[player]) / float64(s.Episodes)
}

func (s *Stats) AverageMoves() float64 {
	if s.Episodes == 0 {
		return 0
	}
	return float64(s.TotalMoves) / float64(s.Episodes)
}
