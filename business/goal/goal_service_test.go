//go:build !integration

package goal

import (
	"math"
	"math/rand"
	"strings"
	"testing"

	"shopsim/domain"
)

func sampleProducts() []*domain.Product {
	return []*domain.Product{
		{
			Asin:                  "B01AAA0001",
			Title:                 "Blue Cotton Shirt",
			Category:              "fashion",
			Query:                 "cotton shirt",
			ProductCategory:       "Clothing › Men › Shirts",
			Price:                 19.99,
			InstructionText:       "i am looking for a soft cotton shirt",
			InstructionAttributes: []string{"cotton", "machine wash"},
			Options: map[string][]string{
				"color": {"navy", "red"},
				"size":  {"small", "large"},
			},
			Instructions: []domain.RawInstruction{
				{
					Instruction: "Find me a navy shirt for daily wear.",
					Attributes:  []string{"cotton"},
					Options:     map[string]string{"color": "navy"},
				},
				{Instruction: "A goal with no attributes must be skipped."},
			},
		},
		{
			Asin:                  "B01AAA0002",
			Title:                 "Steel Bottle",
			Category:              "kitchen",
			Query:                 "water bottle",
			ProductCategory:       "Home › Kitchen",
			Price:                 15.00,
			InstructionText:       "i need an insulated bottle",
			InstructionAttributes: []string{"insulated"},
		},
	}
}

func TestSyntheticGoalsEnumerateOptionCombinations(t *testing.T) {
	svc := NewGoalService(DefaultConfig())
	if err := svc.Generate(sampleProducts()); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	// 2 colors x 2 sizes for the shirt plus one optionless bottle goal.
	if svc.Len() != 5 {
		t.Fatalf("expected 5 goals, got %d", svc.Len())
	}

	shirtGoals := 0
	seen := make(map[string]bool)
	for _, g := range svc.Goals() {
		if g.Asin != "B01AAA0001" {
			continue
		}
		shirtGoals++
		key := g.Options["color"] + "/" + g.Options["size"]
		if seen[key] {
			t.Errorf("duplicate option combination %q", key)
		}
		seen[key] = true
		if !strings.Contains(g.InstructionText, "with color: "+g.Options["color"]) {
			t.Errorf("instruction %q missing option suffix", g.InstructionText)
		}
	}
	if shirtGoals != 4 {
		t.Errorf("expected 4 shirt goals, got %d", shirtGoals)
	}
}

func TestSyntheticGoalWeightIsMeanInverseFrequency(t *testing.T) {
	svc := NewGoalService(DefaultConfig())
	if err := svc.Generate(sampleProducts()); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	// Recompute attribute frequencies over the generated set and check each
	// weight against the mean inverse frequency of its attributes.
	count := make(map[string]int)
	for _, g := range svc.Goals() {
		for _, attr := range g.Attributes {
			count[attr]++
		}
	}
	for _, g := range svc.Goals() {
		want := 0.0
		for _, attr := range g.Attributes {
			want += 1.0 / float64(count[attr])
		}
		want /= float64(len(g.Attributes))
		if math.Abs(g.Weight-want) > 1e-12 {
			t.Errorf("goal %s weight = %v, want %v", g.Asin, g.Weight, want)
		}
	}
}

func TestCuratedGoalsSkipMissingAttributes(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Strategy = StrategyCurated
	svc := NewGoalService(cfg)
	if err := svc.Generate(sampleProducts()); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if svc.Len() != 1 {
		t.Fatalf("expected 1 curated goal, got %d", svc.Len())
	}
	g, err := svc.Get(0)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if g.Weight != 1 {
		t.Errorf("curated goals carry weight 1, got %v", g.Weight)
	}
	if strings.Contains(g.InstructionText, "daily wear.,") {
		t.Errorf("trailing period must be stripped before the price clause: %q", g.InstructionText)
	}
}

func TestPriceCeilingAboveProductPrice(t *testing.T) {
	svc := NewGoalService(DefaultConfig())
	if err := svc.Generate(sampleProducts()); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	for _, g := range svc.Goals() {
		if !g.HasPriceCeiling() {
			continue
		}
		// The ceiling comes from the four ladder values directly above the
		// price, so it sits within 40 dollars of the next decade.
		if g.PriceUpper < 20 || g.PriceUpper > 60 {
			t.Errorf("goal %s ceiling %v outside expected ladder window", g.Asin, g.PriceUpper)
		}
		if !strings.Contains(g.InstructionText, "price lower than") {
			t.Errorf("goal %s missing price clause: %q", g.Asin, g.InstructionText)
		}
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	a := NewGoalService(DefaultConfig())
	b := NewGoalService(DefaultConfig())
	if err := a.Generate(sampleProducts()); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if err := b.Generate(sampleProducts()); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if a.Len() != b.Len() {
		t.Fatalf("goal counts differ: %d vs %d", a.Len(), b.Len())
	}
	for i := range a.Goals() {
		ga, gb := a.Goals()[i], b.Goals()[i]
		if ga.InstructionText != gb.InstructionText || ga.PriceUpper != gb.PriceUpper {
			t.Errorf("goal %d differs across runs: %q vs %q", i, ga.InstructionText, gb.InstructionText)
		}
	}
}

func TestGetOutOfRange(t *testing.T) {
	svc := NewGoalService(DefaultConfig())
	if err := svc.Generate(sampleProducts()); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if _, err := svc.Get(svc.Len()); err != domain.ErrGoalNotFound {
		t.Errorf("expected ErrGoalNotFound, got %v", err)
	}
	if _, err := svc.Get(-1); err != domain.ErrGoalNotFound {
		t.Errorf("expected ErrGoalNotFound, got %v", err)
	}
}

func TestSamplerClampAndDistribution(t *testing.T) {
	goals := []domain.Goal{
		{Asin: "A", Weight: 0.1},
		{Asin: "B", Weight: 1.0},
		{Asin: "C", Weight: 10.0},
	}
	sampler := NewSampler(goals)
	rng := rand.New(rand.NewSource(7))

	counts := make([]int, len(goals))
	for i := 0; i < 10000; i++ {
		idx := sampler.Draw(rng)
		if idx < 0 || idx >= len(goals) {
			t.Fatalf("Draw returned out-of-range index %d", idx)
		}
		counts[idx]++
	}
	// The clamped insertion point shifts mass toward heavier neighbors; the
	// dominant-weight goal must still be drawn far more often than the rest.
	if counts[2] < counts[0] || counts[2] < counts[1] {
		t.Errorf("heaviest goal undersampled: %v", counts)
	}
}

func TestSamplerDeterministicForSeed(t *testing.T) {
	goals := []domain.Goal{
		{Asin: "A", Weight: 1},
		{Asin: "B", Weight: 2},
		{Asin: "C", Weight: 3},
	}
	sampler := NewSampler(goals)

	a := rand.New(rand.NewSource(42))
	b := rand.New(rand.NewSource(42))
	for i := 0; i < 100; i++ {
		if sampler.Draw(a) != sampler.Draw(b) {
			t.Fatal("same seed must produce the same draw sequence")
		}
	}
}

func TestLimitGoalsSubset(t *testing.T) {
	goals := make([]domain.Goal, 20)
	for i := range goals {
		goals[i] = domain.Goal{Asin: string(rune('A' + i)), Weight: float64(i + 1)}
	}
	sampler := NewSampler(goals)
	rng := rand.New(rand.NewSource(3))

	subset := sampler.LimitGoals(rng, 5)
	if len(subset) != 5 {
		t.Fatalf("expected 5 goals, got %d", len(subset))
	}
	seen := make(map[string]bool)
	for _, g := range subset {
		if seen[g.Asin] {
			t.Errorf("goal %s drawn twice", g.Asin)
		}
		seen[g.Asin] = true
	}
}
