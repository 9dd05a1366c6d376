// Package main provides a read-only inspector for the poem database.
//
// Usage:
//
//	CHIZURASHI_DATA_PATH=~/chizurashi go run ./cmd/dbinspect
package main

import (
	"context"
	"fmt"
	"log"

	"github.com/chizurashi/chizurashi-server/internal/config"
	"github.com/chizurashi/chizurashi-server/internal/store/sqlite"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	s, err := sqlite.Open(cfg.Data.DatabasePath(), nil)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer s.Close()

	ctx := context.Background()

	fmt.Println("=== Database Inspection ===")
	fmt.Printf("Path: %s\n\n", cfg.Data.DatabasePath())

	count, err := s.CountPoems(ctx)
	if err != nil {
		log.Fatalf("Failed to count poems: %v", err)
	}
	fmt.Printf("Poems: %d\n\n", count)

	poems, err := s.ListPoems(ctx)
	if err != nil {
		log.Fatalf("Failed to list poems: %v", err)
	}

	haiku, tanka := 0, 0
	for _, p := range poems {
		switch p.Kind {
		case "haiku":
			haiku++
		case "tanka":
			tanka++
		}
	}
	fmt.Printf("  haiku: %d\n  tanka: %d\n\n", haiku, tanka)

	// Newest first, capped so big databases stay readable.
	const maxShown = 10
	for i, p := range poems {
		if i >= maxShown {
			fmt.Printf("  ... and %d more\n", len(poems)-maxShown)
			break
		}
		author := p.Author
		if author == "" {
			author = "(unsigned)"
		}
		fmt.Printf("[%s] %s by %s\n", p.Kind, p.ID, author)
		fmt.Printf("  at (%.4f, %.4f), %d appreciations, created %s\n",
			p.Position.Lat, p.Position.Lon,
			p.AppreciationCount(),
			p.CreatedAt.Format("2006-01-02 15:04"))
		for _, line := range p.Lines() {
			fmt.Printf("    %s\n", line)
		}
	}
}
