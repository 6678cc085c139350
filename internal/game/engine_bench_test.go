package game

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/NimReinforcementLearning/internal/game/core"
)

func BenchmarkPlayRandomGame(b *testing.B) {
	testCases := []struct {
		name  string
		piles core.Piles
	}{
		{"Classic_1_3_5_7", core.DefaultPiles()},
		{"Wide_8x5", core.Piles{5, 5, 5, 5, 5, 5, 5, 5}},
		{"Tall_2x40", core.Piles{40, 40}},
	}

	for _, tc := range testCases {
		b.Run(tc.name, func(b *testing.B) {
			rng := rand.New(rand.NewSource(42))
			moves := 0

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				engine, err := NewEngine(GameConfig{InitialPiles: tc.piles, GameID: "bench", Logger: zerolog.Nop()})
				if err != nil {
					b.Fatal(err)
				}
				for !engine.IsGameOver() {
					actions := engine.AvailableActions()
					if err := engine.Move(actions[rng.Intn(len(actions))]); err != nil {
						b.Fatal(err)
					}
					moves++
				}
			}

			b.ReportMetric(float64(moves)/float64(b.N), "moves/game")
		})
	}
}

func BenchmarkAvailableActions(b *testing.B) {
	for _, size := range []int{4, 16, 64} {
		piles := make(core.Piles, size)
		for i := range piles {
			piles[i] = i + 1
		}

		b.Run(fmt.Sprintf("Piles_%d", size), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				_ = core.AvailableActions(piles)
			}
			b.ReportMetric(float64(len(core.AvailableActions(piles))), "actions")
		})
	}
}
