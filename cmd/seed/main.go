// Package main provides a tool to seed the database with demo poems.
//
// It creates a demo account and pins a handful of classic public-domain
// haiku and tanka at the places they were written. Useful for trying out
// a fresh server or exercising the map client against real data.
//
// Usage:
//
//	CHIZURASHI_DATA_PATH=~/chizurashi go run ./cmd/seed
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/chizurashi/chizurashi-server/internal/auth"
	"github.com/chizurashi/chizurashi-server/internal/config"
	"github.com/chizurashi/chizurashi-server/internal/domain"
	"github.com/chizurashi/chizurashi-server/internal/id"
	"github.com/chizurashi/chizurashi-server/internal/store/sqlite"
)

// seedPoem is one classic poem with the coordinate it is pinned to.
type seedPoem struct {
	kind   domain.Kind
	author string
	lines  []string
	lat    float64
	lon    float64
}

var classics = []seedPoem{
	{
		// Bashō, at the pond said to be in today's Kiyosumi Garden, Tokyo.
		kind:   domain.KindHaiku,
		author: "松尾芭蕉",
		lines:  []string{"古池や", "蛙飛びこむ", "水の音"},
		lat:    35.6796, lon: 139.7957,
	},
	{
		// Bashō, Risshaku-ji (Yamadera), Yamagata.
		kind:   domain.KindHaiku,
		author: "松尾芭蕉",
		lines:  []string{"閑さや", "岩にしみ入る", "蝉の声"},
		lat:    38.3126, lon: 140.4374,
	},
	{
		// Issa, Shinano, Nagano.
		kind:   domain.KindHaiku,
		author: "小林一茶",
		lines:  []string{"雪とけて", "村いっぱいの", "子どもかな"},
		lat:    36.8735, lon: 138.2167,
	},
	{
		// Buson, the Settsu countryside west of Osaka.
		kind:   domain.KindHaiku,
		author: "与謝蕪村",
		lines:  []string{"菜の花や", "月は東に", "日は西に"},
		lat:    34.7055, lon: 135.1980,
	},
	{
		// Takuboku, the Ōmori beach near Hakodate.
		kind:   domain.KindTanka,
		author: "石川啄木",
		lines:  []string{"東海の", "小島の磯の", "白砂に", "われ泣きぬれて", "蟹とたはむる"},
		lat:    41.7687, lon: 140.7288,
	},
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	fmt.Printf("Opening database at: %s\n", cfg.Data.DatabasePath())

	s, err := sqlite.Open(cfg.Data.DatabasePath(), nil)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	ctx := context.Background()

	count, err := s.CountPoems(ctx)
	if err != nil {
		log.Fatalf("Failed to count poems: %v", err)
	}
	if count > 0 {
		fmt.Printf("Database already has %d poems, nothing to do\n", count)
		return
	}

	now := time.Now()

	// Demo account that owns the seeded poems. Reused if it already exists.
	owner, err := s.GetUserByEmail(ctx, "demo@chizurashi.local")
	if err != nil {
		hash, err := auth.HashPassword("chizurashi-demo")
		if err != nil {
			log.Fatalf("Failed to hash demo password: %v", err)
		}
		owner = &domain.User{
			ID:           id.MustGenerate("user"),
			Email:        "demo@chizurashi.local",
			PasswordHash: hash,
			DisplayName:  "Demo",
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := s.CreateUser(ctx, owner); err != nil {
			log.Fatalf("Failed to create demo user: %v", err)
		}
		fmt.Printf("Created demo user: %s (%s)\n", owner.DisplayName, owner.Email)
	}

	created := 0
	for _, sp := range classics {
		text := sp.lines[0]
		for _, line := range sp.lines[1:] {
			text += "\n" + line
		}

		poem := &domain.Poem{
			ID:            id.MustGenerate("poem"),
			Kind:          sp.kind,
			Text:          text,
			Position:      domain.Position{Lat: sp.lat, Lon: sp.lon},
			Author:        sp.author,
			OwnerID:       owner.ID,
			CreatedAt:     now,
			UpdatedAt:     now,
			AppreciatedBy: []string{},
		}

		if err := poem.Validate(); err != nil {
			log.Fatalf("Seed poem by %s is invalid: %v", sp.author, err)
		}

		if err := s.CreatePoem(ctx, poem); err != nil {
			log.Printf("Failed to create poem by %s: %v", sp.author, err)
			continue
		}

		fmt.Printf("  Pinned %s by %s at (%.4f, %.4f)\n", poem.Kind, sp.author, sp.lat, sp.lon)
		created++
	}

	// The server rebuilds the search index on startup when it is behind
	// the store, so no indexing is needed here.
	fmt.Printf("\nSeeding complete! Created %d poems\n", created)
}
