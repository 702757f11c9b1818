package battle

import "testing"

func TestEffectiveness(t *testing.T) {
	cases := []struct {
		atk  Type
		def  [2]Type
		want float64
	}{
		{Water, [2]Type{Fire, TypeNone}, 2},
		{Fire, [2]Type{Water, TypeNone}, 0.5},
		{Electric, [2]Type{Ground, TypeNone}, 0},
		{Normal, [2]Type{Ghost, TypeNone}, 0},
		{Ice, [2]Type{Dragon, Flying}, 4},
		{Grass, [2]Type{Fire, Flying}, 0.25},
		{Ground, [2]Type{Flying, Steel}, 0},
		{Fairy, [2]Type{Dragon, Dark}, 4},
		{Dragon, [2]Type{Fairy, TypeNone}, 0},
		{Fighting, [2]Type{Normal, TypeNone}, 2},
		{TypeNone, [2]Type{Fire, TypeNone}, 1},
	}
	for _, tc := range cases {
		if got := Effectiveness(tc.atk, tc.def); got != tc.want {
			t.Errorf("Effectiveness(%v, %v) = %v, want %v", tc.atk, tc.def, got, tc.want)
		}
	}
}

func TestTypeChartSymmetryAgainstSelf(t *testing.T) {
	// Every attacking row covers all 18 defenders with a known multiplier.
	for a := 0; a < NumTypes; a++ {
		for d := 0; d < NumTypes; d++ {
			m := typeChart[a][d]
			if m != 0 && m != 0.5 && m != 1 && m != 2 {
				t.Fatalf("typeChart[%v][%v] = %v, not a legal multiplier", Type(a), Type(d), m)
			}
		}
	}
}

func TestTypeFromName(t *testing.T) {
	for i := 0; i < NumTypes; i++ {
		typ := Type(i)
		if got := TypeFromName(typ.String()); got != typ {
			t.Errorf("TypeFromName(%q) = %v, want %v", typ.String(), got, typ)
		}
	}
	if TypeFromName("shadow") != TypeNone {
		t.Error("unknown type name should resolve to TypeNone")
	}
}

func TestStatusFromName(t *testing.T) {
	cases := map[string]Status{
		"brn": StatusBurn,
		"tox": StatusToxic,
		"fnt": StatusFaint,
		"???": StatusNone,
	}
	for name, want := range cases {
		if got := StatusFromName(name); got != want {
			t.Errorf("StatusFromName(%q) = %v, want %v", name, got, want)
		}
	}
}
