package client_test

import (
	"context"
	"fmt"

	"github.com/daniacca/ecosim/internal/eco"
	"github.com/daniacca/ecosim/pkg/client"
)

func ExampleScenarioBuilder() {
	chance := 0.2
	cfg := client.NewScenario("savanna").
		Size(12, 9).
		Populations(30, 10, 4).
		Ticks(80).
		Seed(42).
		Override(eco.Herbivore, eco.SpeciesOverride{ReproChance: &chance}).
		Build()

	fmt.Printf("Scenario: %s\n", cfg.Name)
	fmt.Printf("Grid: %dx%d\n", cfg.Width, cfg.Height)
	fmt.Printf("Ticks: %d\n", cfg.Ticks)

	// Output:
	// Scenario: savanna
	// Grid: 12x9
	// Ticks: 80
}

func ExampleClient_CreateWorld() {
	ctx := context.Background()
	c := client.New("http://localhost:8080")

	cfg := client.NewScenario("demo").
		Size(10, 10).
		Populations(20, 8, 3).
		Ticks(50).
		Build()

	// Uncomment against a running server:
	// if err := c.CreateWorld(ctx, "demo", cfg); err != nil {
	// 	log.Fatal(err)
	// }
	// if err := c.StartWorld(ctx, "demo", 250); err != nil {
	// 	log.Fatal(err)
	// }

	_ = ctx
	_ = c
	_ = cfg
}
