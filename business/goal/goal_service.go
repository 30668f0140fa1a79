package goal

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"

	"shopsim/domain"
	"shopsim/pkg/logger"
)

const (
	StrategySynthetic = "synthetic"
	StrategyCurated   = "curated"
)

// priceLadder holds the candidate price ceilings: 10, 20, ... 990.
var priceLadder = func() []float64 {
	out := make([]float64, 99)
	for i := range out {
		out[i] = 10.0 * float64(i+1)
	}
	return out
}()

// Config controls goal generation.
type Config struct {
	Strategy string
	// Limit caps the goal set with weighted sampling; -1 keeps every goal.
	Limit int
	Seed  int64
}

func DefaultConfig() Config {
	return Config{
		Strategy: StrategySynthetic,
		Limit:    -1,
		Seed:     233,
	}
}

// GoalService turns the loaded catalog into a fixed goal set. Generate runs
// once at startup; the goal slice is immutable afterwards.
type GoalService struct {
	cfg   Config
	rng   *rand.Rand
	goals []domain.Goal
}

func NewGoalService(cfg Config) *GoalService {
	return &GoalService{
		cfg: cfg,
		rng: rand.New(rand.NewSource(cfg.Seed)),
	}
}

// Generate builds the goal set from the catalog using the configured strategy
// and applies the optional weighted limit.
func (s *GoalService) Generate(products []*domain.Product) error {
	var goals []domain.Goal
	switch s.cfg.Strategy {
	case StrategyCurated:
		goals = s.curatedGoals(products)
	case StrategySynthetic:
		goals = s.syntheticGoals(products)
	default:
		return fmt.Errorf("unknown goal strategy %q", s.cfg.Strategy)
	}

	if len(goals) == 0 {
		return domain.ErrNoGoal
	}

	if s.cfg.Limit >= 0 && s.cfg.Limit < len(goals) {
		sampler := NewSampler(goals)
		goals = sampler.LimitGoals(s.rng, s.cfg.Limit)
	}

	s.goals = goals
	logger.Info("goal set generated", "strategy", s.cfg.Strategy, "goals", len(goals))
	return nil
}

// Goals returns the generated goal set in order.
func (s *GoalService) Goals() []domain.Goal {
	return s.goals
}

func (s *GoalService) Len() int {
	return len(s.goals)
}

// Get returns the goal at a fixed index.
func (s *GoalService) Get(idx int) (domain.Goal, error) {
	if idx < 0 || idx >= len(s.goals) {
		return domain.Goal{}, domain.ErrGoalNotFound
	}
	return s.goals[idx], nil
}

// curatedGoals lifts pre-authored instructions off the catalog. Instructions
// without attributes are skipped; every curated goal carries weight 1.
func (s *GoalService) curatedGoals(products []*domain.Product) []domain.Goal {
	var goals []domain.Goal
	skipped := 0
	for _, p := range products {
		for _, ins := range p.Instructions {
			if len(ins.Attributes) == 0 {
				skipped++
				continue
			}

			upper, priceText := s.drawPriceCeiling(p.Price)
			goals = append(goals, domain.Goal{
				Asin:            p.Asin,
				Category:        p.Category,
				Query:           p.Query,
				Name:            p.Title,
				ProductCategory: p.ProductCategory,
				InstructionText: strings.TrimRight(ins.Instruction, ".") + priceText,
				Attributes:      ins.Attributes,
				PriceUpper:      upper,
				Options:         ins.Options,
				Weight:          1,
			})
		}
	}
	if skipped > 0 {
		logger.Info("curated instructions skipped for missing attributes", "count", skipped)
	}
	return goals
}

// syntheticGoals expands every product into one goal per option combination.
// A goal's weight is the mean inverse frequency of its attributes across the
// whole set, so rare attributes are favored by the sampler.
func (s *GoalService) syntheticGoals(products []*domain.Product) []domain.Goal {
	var goals []domain.Goal
	attrCount := make(map[string]int)

	for _, p := range products {
		if p.InstructionText == "" || len(p.InstructionAttributes) == 0 {
			continue
		}

		upper, priceText := s.drawPriceCeiling(p.Price)

		optionNames := make([]string, 0, len(p.Options))
		for name := range p.Options {
			optionNames = append(optionNames, name)
		}
		sort.Strings(optionNames)

		for _, combination := range optionCombinations(optionNames, p.Options) {
			optionTexts := make([]string, 0, len(combination))
			for _, name := range optionNames {
				if v, ok := combination[name]; ok {
					optionTexts = append(optionTexts, fmt.Sprintf("%s: %s", name, v))
				}
			}
			suffix := ""
			if len(optionTexts) > 0 {
				suffix = " with " + strings.Join(optionTexts, ", ")
			}

			goals = append(goals, domain.Goal{
				Asin:            p.Asin,
				Category:        p.Category,
				Query:           p.Query,
				Name:            p.Title,
				ProductCategory: p.ProductCategory,
				InstructionText: p.InstructionText + suffix + priceText,
				Attributes:      p.InstructionAttributes,
				PriceUpper:      upper,
				Options:         combination,
				Weight:          0,
			})
			for _, attr := range p.InstructionAttributes {
				attrCount[attr]++
			}
		}
	}

	for i := range goals {
		goals[i].Weight = attributeWeight(goals[i].Attributes, attrCount)
	}
	return goals
}

// optionCombinations enumerates the cartesian product of option values over
// the sorted option names. A product with no options yields one empty
// combination.
func optionCombinations(names []string, options map[string][]string) []map[string]string {
	combos := []map[string]string{{}}
	for _, name := range names {
		values := options[name]
		if len(values) == 0 {
			continue
		}
		next := make([]map[string]string, 0, len(combos)*len(values))
		for _, combo := range combos {
			for _, v := range values {
				extended := make(map[string]string, len(combo)+1)
				for k, cv := range combo {
					extended[k] = cv
				}
				extended[name] = v
				next = append(next, extended)
			}
		}
		combos = next
	}
	return combos
}

// attributeWeight is the mean inverse frequency of a goal's attributes.
func attributeWeight(attrs []string, count map[string]int) float64 {
	if len(attrs) == 0 {
		return 0
	}
	sum := 0.0
	for _, attr := range attrs {
		if c := count[attr]; c > 0 {
			sum += 1.0 / float64(c)
		}
	}
	return sum / float64(len(attrs))
}

// drawPriceCeiling picks a ceiling above the product price: of the first four
// ladder values above it, two are sampled and the larger wins. A zero ceiling
// means the price term does not apply.
func (s *GoalService) drawPriceCeiling(price float64) (float64, string) {
	var valid []float64
	for _, p := range priceLadder {
		if p > price {
			valid = append(valid, p)
		}
	}
	if len(valid) == 0 {
		return 0, ""
	}
	if len(valid) > 4 {
		valid = valid[:4]
	}

	var upper float64
	if len(valid) == 1 {
		upper = valid[0]
	} else {
		i := s.rng.Intn(len(valid))
		j := s.rng.Intn(len(valid) - 1)
		if j >= i {
			j++
		}
		upper = valid[i]
		if valid[j] > upper {
			upper = valid[j]
		}
	}
	return upper, fmt.Sprintf(", and price lower than %.2f dollars", upper)
}
