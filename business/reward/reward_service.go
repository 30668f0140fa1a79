package reward

import (
	"strings"

	"shopsim/domain"
)

// Config holds the matching thresholds. All of them were previously buried as
// literals in the scoring path; they are surfaced here so deployments can tune
// them without a rebuild.
type Config struct {
	// FuzzyThreshold is the minimum TokenSetRatio score counting as an
	// attribute or option match.
	FuzzyThreshold int
	// TitleScoreLow is the bar under which the type reward collapses to 0.1.
	TitleScoreLow float64
	// TitleScoreMatch is the bar a title score must clear to count as a type
	// match on its own.
	TitleScoreMatch float64
	// NoNounScore is the title score assigned when the goal name yields no
	// salient tokens to compare.
	NoNounScore float64
}

func DefaultConfig() Config {
	return Config{
		FuzzyThreshold:  85,
		TitleScoreLow:   0.1,
		TitleScoreMatch: 0.2,
		NoNounScore:     0.2,
	}
}

// RewardService scores a purchase against a goal. Stateless and safe for
// concurrent use.
type RewardService struct {
	cfg Config
}

func NewRewardService(cfg Config) *RewardService {
	return &RewardService{cfg: cfg}
}

// Score computes the reward for purchasing a product under the given goal.
// price is the price the session observed; a negative price marks it as not
// observed, which removes the price term from the formula. options are the
// option selections at purchase time.
//
// The reward is the type multiplier scaled by the matched share of the goal's
// attributes, options and price ceiling. When the goal demands nothing beyond
// type, the type multiplier is the reward.
func (s *RewardService) Score(product *domain.Product, goal domain.Goal, price float64, options map[string]string) (float64, domain.RewardBreakdown) {
	bd := s.typeReward(product, goal)

	rAttr, attrMatches := s.attributeReward(product, goal)
	bd.RAttr = rAttr
	bd.AttrMatches = attrMatches

	rOption, optionMatches := s.optionReward(options, goal.Options)
	bd.ROption = rOption
	bd.OptionMatches = optionMatches

	priceApplicable := goal.HasPriceCeiling() && price >= 0
	if priceApplicable {
		v := 0.0
		if price <= goal.PriceUpper {
			v = 1.0
		}
		bd.RPrice = &v
	}

	nAttrs := len(goal.Attributes)
	nOptions := 0
	if rOption != nil {
		nOptions = len(goal.Options)
	}
	nPrice := 0
	if priceApplicable {
		nPrice = 1
	}

	denominator := nAttrs + nOptions + nPrice
	if denominator == 0 {
		return bd.RType, bd
	}

	numerator := attrMatches + optionMatches
	if bd.RPrice != nil && *bd.RPrice > 0 {
		numerator++
	}

	bd.WAttr = float64(nAttrs) / float64(denominator)
	bd.WOption = float64(nOptions) / float64(denominator)
	bd.WPrice = float64(nPrice) / float64(denominator)

	return bd.RType * float64(numerator) / float64(denominator), bd
}

// typeReward captures whether the purchase is the right kind of product at
// all: same source query, overlapping category path, or similar title.
func (s *RewardService) typeReward(product *domain.Product, goal domain.Goal) domain.RewardBreakdown {
	queryMatch := product.Query != "" && product.Query == goal.Query

	productPath := product.CategoryPath()
	goalPath := goal.CategoryPath()
	categoryMatch := false
	if len(productPath) > 0 && len(goalPath) > 0 {
		pathSet := make(map[string]bool, len(productPath))
		for _, level := range productPath {
			pathSet[level] = true
		}
		shared := 0
		seen := make(map[string]bool, len(goalPath))
		for _, level := range goalPath {
			if pathSet[level] && !seen[level] {
				seen[level] = true
				shared++
			}
		}
		categoryMatch = shared >= 2
	}

	titleScore := s.titleScore(product.Title, goal.Name)

	rType := 1.0
	if !queryMatch && !categoryMatch && titleScore <= s.cfg.TitleScoreMatch {
		rType = 0.5
	}
	if titleScore < s.cfg.TitleScoreLow {
		rType = 0.1
	}
	if titleScore == 0 {
		rType = 0
	}

	return domain.RewardBreakdown{
		RType:         rType,
		QueryMatch:    queryMatch,
		CategoryMatch: categoryMatch,
		TitleScore:    titleScore,
	}
}

// titleScore is the share of the goal name's salient tokens found in the
// purchased title.
func (s *RewardService) titleScore(purchasedTitle, goalName string) float64 {
	goalTokens := salientTokens(goalName)
	if len(goalTokens) == 0 {
		return s.cfg.NoNounScore
	}

	purchased := make(map[string]bool)
	for _, t := range salientTokens(purchasedTitle) {
		purchased[t] = true
	}

	shared := 0
	for _, t := range goalTokens {
		if purchased[t] {
			shared++
		}
	}
	return float64(shared) / float64(len(goalTokens))
}

// attributeReward counts the goal attributes present on the purchase, first
// fuzzily against the product's attribute tags and then literally inside the
// title, bullet points and description.
func (s *RewardService) attributeReward(product *domain.Product, goal domain.Goal) (float64, int) {
	if len(goal.Attributes) == 0 {
		return 1.0, 0
	}

	title := strings.ToLower(product.Title)
	bullets := strings.ToLower(strings.Join(product.BulletPoints, " "))
	description := strings.ToLower(product.Description)

	matches := 0
	for _, goalAttr := range goal.Attributes {
		needle := strings.ToLower(goalAttr)
		matched := false
		for _, attr := range product.Attributes {
			if TokenSetRatio(strings.ToLower(attr), needle) > s.cfg.FuzzyThreshold {
				matched = true
				break
			}
		}
		if !matched {
			matched = strings.Contains(title, needle) ||
				strings.Contains(bullets, needle) ||
				strings.Contains(description, needle)
		}
		if matched {
			matches++
		}
	}
	return float64(matches) / float64(len(goal.Attributes)), matches
}

// optionReward counts the goal option values matched by the purchase's
// selections. A nil share means the goal has no option demands and the option
// term drops out of the formula.
func (s *RewardService) optionReward(purchased map[string]string, goalOptions map[string]string) (*float64, int) {
	if len(goalOptions) == 0 {
		return nil, 0
	}

	purchasedValues := make([]string, 0, len(purchased))
	for _, v := range purchased {
		purchasedValues = append(purchasedValues, normalizeOptionValue(v))
	}

	matches := 0
	for _, goalValue := range goalOptions {
		needle := normalizeOptionValue(goalValue)
		for _, v := range purchasedValues {
			if TokenSetRatio(v, needle) > s.cfg.FuzzyThreshold {
				matches++
				break
			}
		}
	}

	share := float64(matches) / float64(len(goalOptions))
	return &share, matches
}

// normalizeOptionValue folds case and whitespace so cosmetic differences in
// option spellings do not defeat the fuzzy comparison.
func normalizeOptionValue(v string) string {
	return strings.Join(strings.Fields(strings.ToLower(v)), " ")
}
