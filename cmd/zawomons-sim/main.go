package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/zawodev/zawomons/internal/config"
	"github.com/zawodev/zawomons/internal/game"
	"github.com/zawodev/zawomons/internal/keys"
	"github.com/zawodev/zawomons/internal/lifecycle"
	"github.com/zawodev/zawomons/internal/logging"
)

func main() {
	catalogPath := flag.String("catalog", "./zawomons_catalog.yaml", "path to the YAML catalog")
	partyA := flag.String("a", "Embercub,Tidefin", "comma separated roster of party A")
	partyB := flag.String("b", "Pebblor,Voltkit", "comma separated roster of party B")
	maxTurns := flag.Int("turns", 50, "stop after this many turns")
	flag.Parse()
	defer logging.Sync()

	catalog, err := config.LoadCatalog(*catalogPath)
	if err != nil {
		logging.Fatal("Failed to load catalog", err, logging.Fields{"catalog_path": *catalogPath})
	}
	rosterA, err := pickRoster(catalog, *partyA)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	rosterB, err := pickRoster(catalog, *partyB)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	winner, err := simulate(context.Background(), rosterA, rosterB, *maxTurns, os.Stdout)
	if err != nil {
		logging.Fatal("Simulation failed", err, nil)
	}
	fmt.Printf("Result: %s\n", winner)
}

func pickRoster(catalog *config.Catalog, list string) ([]*game.Combatant, error) {
	byKey := make(map[string]*game.Combatant, len(catalog.Combatants))
	for _, c := range catalog.Combatants {
		byKey[keys.Slug(c.Name)] = c
	}
	var out []*game.Combatant
	for _, name := range strings.Split(list, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		c, ok := byKey[keys.Slug(name)]
		if !ok {
			return nil, fmt.Errorf("unknown combatant %q", name)
		}
		out = append(out, c)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("empty roster %q", list)
	}
	return out, nil
}

// firstEligible picks the first known spell the combatant may cast, or ""
// to skip.
func firstEligible(c *game.Combatant) string {
	for _, s := range c.Spells {
		if s.CanBeLearnedBy(c) {
			return s.ID
		}
	}
	return ""
}

// simulate plays a local battle where every living member casts its first
// eligible spell at the default targets, printing each turn summary.
func simulate(ctx context.Context, partyA, partyB []*game.Combatant, maxTurns int, w io.Writer) (game.Winner, error) {
	b, err := lifecycle.Start(ctx, "sim", partyA, partyB, lifecycle.Options{})
	if err != nil {
		return "", err
	}
	rosters := [2][]*game.Combatant{partyA, partyB}

	for turn := 0; turn < maxTurns; turn++ {
		s := b.Snapshot()
		for _, party := range []game.PartyID{game.PartyA, game.PartyB} {
			members := s.PartyA
			if party == game.PartyB {
				members = s.PartyB
			}
			for i, m := range members {
				if !m.Alive {
					continue
				}
				if err := b.SelectMove(ctx, m.ID, firstEligible(rosters[party][i]), ""); err != nil {
					return "", err
				}
			}
		}
		if _, err := b.CommitParty(ctx, game.PartyA); err != nil {
			return "", err
		}
		ready, err := b.CommitParty(ctx, game.PartyB)
		if err != nil {
			return "", err
		}
		if !ready {
			return "", fmt.Errorf("turn %d: parties not ready after commit", turn+1)
		}
		res, err := b.ResolveTurn(ctx)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(w, "== Turn %d ==\n", res.Turn)
		for _, line := range res.Summary {
			fmt.Fprintln(w, line)
		}
		if res.Finished() {
			return res.Winner, nil
		}
	}
	return game.WinnerNone, nil
}
