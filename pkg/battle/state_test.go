package battle

import "testing"

func rosterOf(n int, active int) []PokemonView {
	team := make([]PokemonView, n)
	for i := range team {
		team[i] = PokemonView{
			Species:  "mon",
			Types:    [2]Type{Normal, TypeNone},
			HP:       1,
			Exists:   true,
			Revealed: true,
			Active:   i == active,
		}
	}
	return team
}

func TestOwnReserveExcludesActive(t *testing.T) {
	snap := &Snapshot{Own: rosterOf(6, 2), OwnActive: 2}
	reserve := snap.OwnReserve()
	if len(reserve) != 5 {
		t.Fatalf("reserve size %d, want 5", len(reserve))
	}
	for i, p := range reserve {
		if p.Active {
			t.Errorf("reserve slot %d holds the active pokemon", i)
		}
	}
}

func TestActiveOutOfRange(t *testing.T) {
	snap := &Snapshot{Own: rosterOf(3, 0), OwnActive: -1}
	if snap.Active() != nil {
		t.Error("Active() should be nil when no active index is set")
	}
	snap.OwnActive = 7
	if snap.Active() != nil {
		t.Error("Active() should be nil for an out-of-range index")
	}
}

func TestFaintedCount(t *testing.T) {
	team := rosterOf(4, 0)
	team[1].Fainted = true
	team[3].Fainted = true
	team[3].Exists = false // vanished slots don't count
	if got := FaintedCount(team); got != 1 {
		t.Errorf("FaintedCount = %d, want 1", got)
	}
}

func TestTotalHPFraction(t *testing.T) {
	team := rosterOf(3, 0)
	team[0].HP = 0.5
	team[1].HP = 0.25
	team[2].Exists = false
	if got := TotalHPFraction(team); got != 0.75 {
		t.Errorf("TotalHPFraction = %v, want 0.75", got)
	}
}

func TestWeatherFromName(t *testing.T) {
	cases := map[string]Weather{
		"SunnyDay":      WeatherSun,
		"DesolateLand":  WeatherSun,
		"RainDance":     WeatherRain,
		"PrimordialSea": WeatherRain,
		"Sandstorm":     WeatherSand,
		"Snow":          WeatherSnow,
		"Hail":          WeatherSnow,
		"none":          WeatherNone,
	}
	for name, want := range cases {
		if got := WeatherFromName(name); got != want {
			t.Errorf("WeatherFromName(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestAvailable(t *testing.T) {
	p := PokemonView{Exists: true}
	if !p.Available() {
		t.Error("healthy reserve should be available")
	}
	p.Fainted = true
	if p.Available() {
		t.Error("fainted pokemon should not be available")
	}
	p = PokemonView{Exists: true, Active: true}
	if p.Available() {
		t.Error("active pokemon should not be a switch target")
	}
}
