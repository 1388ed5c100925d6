// Command seed loads the demo accounts and ideas, plus optional generated
// content, into the configured database.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"ideahub/internal/config"
	"ideahub/internal/database"
	"ideahub/internal/middleware"
	"ideahub/internal/seed"
)

func main() {
	fakeUsers := flag.Int("users", 0, "Number of generated REGULAR users to add")
	fakeIdeas := flag.Int("ideas", 0, "Number of generated ideas to add")
	clean := flag.Bool("clean", false, "Delete all users, ideas and favorites first")
	randSeed := flag.Int64("rand-seed", 0, "Seed for generated content (0 uses the clock)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		fatal("load config", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		fatal("connect database", err)
	}
	defer func() { _ = database.Close(db) }()

	s := seed.NewSeeder(db, seed.Options{
		FakeUsers: *fakeUsers,
		FakeIdeas: *fakeIdeas,
		Clean:     *clean,
		RandSeed:  *randSeed,
	})
	sum, err := s.Run(context.Background())
	if err != nil {
		fatal("seeding", err)
	}

	fmt.Printf("Seeded %d users, %d ideas, %d favorites and %d problems.\n", sum.Users, sum.Ideas, sum.Favorites, sum.Problems)
	fmt.Printf("Every seeded account uses the password %s\n", seed.DemoPassword)
}

func fatal(step string, err error) {
	middleware.Logger.Error(step+" failed", slog.String("error", err.Error()))
	os.Exit(1)
}
