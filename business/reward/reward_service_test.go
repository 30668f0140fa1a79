//go:build !integration

package reward

import (
	"math"
	"math/rand"
	"testing"

	"shopsim/domain"
)

func shirtProduct() *domain.Product {
	return &domain.Product{
		Asin:            "B01AAA0001",
		Title:           "Blue Cotton Shirt",
		Description:     "A soft everyday shirt made from breathable fabric.",
		BulletPoints:    []string{"machine washable", "100% cotton"},
		Query:           "cotton shirt",
		ProductCategory: "Clothing › Men › Shirts",
		Attributes:      []string{"cotton", "machine wash"},
		Options: map[string][]string{
			"color": {"navy", "red"},
			"size":  {"8", "10"},
		},
		Price: 19.99,
	}
}

func shirtGoal() domain.Goal {
	return domain.Goal{
		Asin:            "B01AAA0001",
		Query:           "cotton shirt",
		Name:            "Blue Cotton Shirt",
		ProductCategory: "Clothing › Men › Shirts",
		Attributes:      []string{"cotton", "machine wash"},
		PriceUpper:      50,
		Options:         map[string]string{"color": "navy"},
	}
}

func TestScoreFullMatch(t *testing.T) {
	svc := NewRewardService(DefaultConfig())
	reward, bd := svc.Score(shirtProduct(), shirtGoal(), 19.99, map[string]string{"color": "navy"})

	if reward != 1.0 {
		t.Fatalf("full match reward = %v, want 1.0", reward)
	}
	if bd.RType != 1.0 {
		t.Errorf("r_type = %v", bd.RType)
	}
	if !bd.QueryMatch {
		t.Error("query must match")
	}
	if bd.AttrMatches != 2 {
		t.Errorf("attr matches = %d, want 2", bd.AttrMatches)
	}
	if bd.RPrice == nil || *bd.RPrice != 1.0 {
		t.Errorf("r_price = %v, want 1", bd.RPrice)
	}
}

func TestScorePartialWithoutPrice(t *testing.T) {
	// One unmatched attribute, one matched option, price unobserved. The
	// price term drops out entirely, leaving (0 + 1) / (1 + 1).
	goal := shirtGoal()
	goal.Attributes = []string{"leather"}
	goal.Options = map[string]string{"size": "8"}

	svc := NewRewardService(DefaultConfig())
	reward, bd := svc.Score(shirtProduct(), goal, -1, map[string]string{"size": "8"})

	if reward != 0.5 {
		t.Fatalf("reward = %v, want 0.5", reward)
	}
	if bd.RPrice != nil {
		t.Error("unobserved price must not enter the formula")
	}
	if bd.OptionMatches != 1 {
		t.Errorf("option matches = %d, want 1", bd.OptionMatches)
	}
}

func TestScorePriceCeilingExceeded(t *testing.T) {
	// Attribute and option match, price over the ceiling: (1 + 1 + 0) / 3.
	goal := shirtGoal()
	goal.Attributes = []string{"cotton"}
	goal.Options = map[string]string{"color": "navy"}

	svc := NewRewardService(DefaultConfig())
	reward, bd := svc.Score(shirtProduct(), goal, 80, map[string]string{"color": "navy"})

	if math.Abs(reward-2.0/3.0) > 1e-12 {
		t.Fatalf("reward = %v, want 2/3", reward)
	}
	if bd.RPrice == nil || *bd.RPrice != 0 {
		t.Errorf("r_price = %v, want 0", bd.RPrice)
	}
}

func TestScoreEmptyGoalFallsBackToType(t *testing.T) {
	goal := shirtGoal()
	goal.Attributes = nil
	goal.Options = nil
	goal.PriceUpper = 0

	svc := NewRewardService(DefaultConfig())
	reward, bd := svc.Score(shirtProduct(), goal, 19.99, nil)

	if reward != bd.RType {
		t.Errorf("empty goal reward = %v, want r_type %v", reward, bd.RType)
	}
	if reward != 1.0 {
		t.Errorf("reward = %v, want 1.0", reward)
	}
}

func TestScoreWrongProductType(t *testing.T) {
	wrong := &domain.Product{
		Asin:            "B09ZZZ0009",
		Title:           "Ceramic Flower Vase",
		Query:           "flower vase",
		ProductCategory: "Home › Decor",
		Attributes:      []string{"ceramic"},
	}

	svc := NewRewardService(DefaultConfig())
	reward, bd := svc.Score(wrong, shirtGoal(), 19.99, nil)

	if bd.TitleScore != 0 {
		t.Errorf("title score = %v, want 0", bd.TitleScore)
	}
	if bd.RType != 0 {
		t.Errorf("r_type = %v, want 0", bd.RType)
	}
	if reward != 0 {
		t.Errorf("reward = %v, want 0", reward)
	}
}

func TestScoreGoalNameWithoutSalientTokens(t *testing.T) {
	goal := shirtGoal()
	goal.Query = "something else"
	goal.ProductCategory = ""
	goal.Name = "the of and"

	svc := NewRewardService(DefaultConfig())
	_, bd := svc.Score(shirtProduct(), goal, 19.99, nil)

	if bd.TitleScore != DefaultConfig().NoNounScore {
		t.Errorf("title score = %v, want fallback %v", bd.TitleScore, DefaultConfig().NoNounScore)
	}
	// The fallback score clears the low bar but not the match bar, so with no
	// query or category agreement the type multiplier drops to 0.5.
	if bd.RType != 0.5 {
		t.Errorf("r_type = %v, want 0.5", bd.RType)
	}
}

func TestScoreAttributeFoundInDescription(t *testing.T) {
	goal := shirtGoal()
	goal.Attributes = []string{"breathable"}
	goal.Options = nil
	goal.PriceUpper = 0

	svc := NewRewardService(DefaultConfig())
	reward, bd := svc.Score(shirtProduct(), goal, -1, nil)

	if bd.AttrMatches != 1 {
		t.Errorf("attribute present only in the description must still match, got %d", bd.AttrMatches)
	}
	if reward != 1.0 {
		t.Errorf("reward = %v, want 1.0", reward)
	}
}

func TestScoreIsBounded(t *testing.T) {
	svc := NewRewardService(DefaultConfig())
	rng := rand.New(rand.NewSource(11))
	product := shirtProduct()

	attrsPool := []string{"cotton", "machine wash", "leather", "waterproof", "breathable"}
	optsPool := []string{"navy", "red", "8", "10", "xl"}

	for i := 0; i < 500; i++ {
		goal := shirtGoal()
		goal.Attributes = attrsPool[:rng.Intn(len(attrsPool)+1)]
		goal.Options = map[string]string{}
		for _, v := range optsPool[:rng.Intn(len(optsPool)+1)] {
			goal.Options[v] = v
		}
		goal.PriceUpper = float64(rng.Intn(100)) - 20

		price := float64(rng.Intn(120)) - 20
		selected := map[string]string{"color": optsPool[rng.Intn(len(optsPool))]}

		reward, _ := svc.Score(product, goal, price, selected)
		if reward < 0 || reward > 1 {
			t.Fatalf("reward %v out of [0,1] for goal %+v price %v", reward, goal, price)
		}
	}
}
