package synergy

import (
	"io"
	"log/slog"
)

const (
	// genres
	Punk = "PUNK"
	Jazz = "JAZZ"

	// venues
	Basement  = "BASEMENT"
	Warehouse = "WAREHOUSE"

	// combos
	PunkInBasement = "punk_in_basement"
	PerfectStorm   = "perfect_storm"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func punkBasementContext() Context {
	return Context{
		Genres:     []string{Punk},
		VenueType:  Basement,
		LineupSize: 3,
	}
}

func perfectStormContext() Context {
	return Context{
		Genres:       []string{Punk, Jazz},
		Authenticity: 95,
		Energy:       97,
		VenueType:    Warehouse,
		LineupSize:   4,
		Equipment:    []string{"professional_pa", "fog_machine"},
	}
}

func perfectStormDefinition() Definition {
	return Definition{
		ID:     PerfectStorm,
		Rarity: Legendary,
		Requirements: Require().
			Stat("authenticity", GreaterThan, 90).
			Stat("energy", GreaterThan, 90).
			VenueType(Warehouse).
			LineupSize(4, Equals).
			Equipment("professional_pa").
			List(),
	}
}
