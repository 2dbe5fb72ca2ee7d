package game

import (
	"context"
	"fmt"
	"testing"

	"github.com/mitchelldurbincs/ShapeOfThings/internal/testutil"
)

func BenchmarkStep(b *testing.B) {
	testCases := []struct {
		name     string
		size     int
		empires  int
		warmTurn int
	}{
		{"Small_16x12_2_Empires", 16, 2, 10},
		{"Medium_32x24_4_Empires", 32, 4, 20},
		{"Large_64x48_8_Empires", 64, 8, 30},
	}

	for _, tc := range testCases {
		b.Run(tc.name, func(b *testing.B) {
			engine := createBenchEngine(b, tc.size, tc.size*3/4, tc.empires)
			ctx := context.Background()
			rng := testutil.NewTestRNG(12345)

			for i := 0; i < tc.warmTurn; i++ {
				GenerateRandomOrders(engine, rng)
				if err := engine.Step(ctx); err != nil {
					b.Fatalf("warm-up turn %d: %v", i, err)
				}
			}

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if engine.IsGameOver() {
					b.StopTimer()
					engine = createBenchEngine(b, tc.size, tc.size*3/4, tc.empires)
					b.StartTimer()
				}
				if err := engine.Step(ctx); err != nil {
					b.Fatalf("step: %v", err)
				}
			}
			b.ReportMetric(float64(engine.Grid().Size()), "tiles")
		})
	}
}

func BenchmarkBoard(b *testing.B) {
	for _, size := range []int{16, 64} {
		b.Run(fmt.Sprintf("%dx%d", size, size), func(b *testing.B) {
			engine := createBenchEngine(b, size, size, 2)
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_ = engine.Board(true)
			}
		})
	}
}

func createBenchEngine(b *testing.B, w, h, empires int) *Engine {
	b.Helper()
	settings := testSettings()
	settings.Simulation.MaxTurns = 0
	settings.Simulation.Map.Width = w
	settings.Simulation.Map.Height = h
	settings.Simulation.Map.Empires = empires
	settings.Simulation.Map.MinCapitalSpacing = max(3, min(w, h)/3)

	engine, err := NewEngine(context.Background(), GameConfig{
		Seed:     12345,
		Settings: settings,
		Logger:   testutil.NopLogger(),
	})
	if err != nil {
		b.Fatalf("create engine: %v", err)
	}
	return engine
}
