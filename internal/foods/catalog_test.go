package foods_test

import (
	"testing"

	"github.com/vidaleve/sofia/internal/foods"
)

func loadCatalog(t *testing.T) *foods.Catalog {
	t.Helper()
	cat, err := foods.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return cat
}

func TestLoad(t *testing.T) {
	cat := loadCatalog(t)
	if cat.Size() == 0 {
		t.Fatal("catalog loaded zero profiles")
	}
}

func TestResolve(t *testing.T) {
	cat := loadCatalog(t)

	tests := []struct {
		name    string
		input   string
		wantKey string
		wantOK  bool
	}{
		{"exact canonical key", "arroz_branco_cozido", "arroz_branco_cozido", true},
		{"spaced key form", "arroz branco cozido", "arroz_branco_cozido", true},
		{"alias", "arroz", "arroz_branco_cozido", true},
		{"alias with casing", "Arroz Branco", "arroz_branco_cozido", true},
		{"english alias", "white rice", "arroz_branco_cozido", true},
		{"accented alias", "feijão", "feijao_carioca_cozido", true},
		{"chicken alias", "frango", "frango_grelhado", true},
		{"unknown food", "pedra filosofal", "", false},
		{"empty name", "", "", false},
		{"whitespace only", "   ", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, ok := cat.Resolve(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("Resolve(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if key != tt.wantKey {
				t.Errorf("Resolve(%q) = %q, want %q", tt.input, key, tt.wantKey)
			}
		})
	}
}

func TestProfile(t *testing.T) {
	cat := loadCatalog(t)

	p, ok := cat.Profile("arroz_branco_cozido")
	if !ok {
		t.Fatal("Profile(arroz_branco_cozido) not found")
	}
	if p.Kcal != 128 {
		t.Errorf("Kcal = %v, want 128", p.Kcal)
	}
	if p.Category != "" && p.HighEnergy() {
		t.Errorf("arroz_branco_cozido should not be high energy")
	}

	farofa, ok := cat.Profile("farofa")
	if !ok {
		t.Fatal("Profile(farofa) not found")
	}
	if !farofa.HighEnergy() {
		t.Error("farofa should classify as high energy")
	}

	if _, ok := cat.Profile("nonexistent"); ok {
		t.Error("Profile(nonexistent) should not resolve")
	}
}

func TestDefaultPortion(t *testing.T) {
	cat := loadCatalog(t)

	if got := cat.DefaultPortion("arroz_branco_cozido", false); got != 120 {
		t.Errorf("DefaultPortion(arroz_branco_cozido) = %v, want 120", got)
	}
	if got := cat.DefaultPortion("frango_grelhado", false); got != 150 {
		t.Errorf("DefaultPortion(frango_grelhado) = %v, want 150", got)
	}
	if got := cat.DefaultPortion("item_sem_porcao", false); got != 100 {
		t.Errorf("solid fallback = %v, want 100", got)
	}
	if got := cat.DefaultPortion("liquido_sem_porcao", true); got != 200 {
		t.Errorf("liquid fallback = %v, want 200", got)
	}
}

func TestLiquidProfilesCarryDensity(t *testing.T) {
	cat := loadCatalog(t)

	p, ok := cat.Profile("suco_de_laranja")
	if !ok {
		t.Fatal("Profile(suco_de_laranja) not found")
	}
	if p.Density == nil {
		t.Fatal("suco_de_laranja should carry a density")
	}
	if *p.Density <= 0 {
		t.Errorf("density = %v, want > 0", *p.Density)
	}
}
