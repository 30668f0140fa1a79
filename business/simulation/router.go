package simulation

import (
	"strings"

	"shopsim/domain"
	"shopsim/pkg/logger"
)

// doClick routes one click through the page state machine. Targets are
// validated against what the current page actually exposes; anything else is
// a zero-reward no-op. The returned reward is non-zero only for a purchase.
func (s *SimulationService) doClick(sess *domain.Session, target string) (float64, error) {
	// A finished session exposes no clickables, but re-buying must stay
	// idempotent rather than degrade into an invalid click.
	if sess.Done && target == domain.ButtonBuyNow {
		return sess.Reward, nil
	}

	if !clickableOn(s.buildPage(sess), target) {
		invalidActions.Inc()
		return 0, nil
	}

	switch target {
	case domain.ButtonBackToSearch:
		s.backToSearch(sess)
		return 0, nil
	case domain.ButtonNextPage:
		sess.PageNum++
		return 0, nil
	case domain.ButtonPrevPage:
		s.prevPage(sess)
		return 0, nil
	case domain.ButtonBuyNow:
		return s.purchase(sess)
	}

	if sess.Page == domain.PageItem {
		for _, kind := range domain.SubPageKinds {
			if target == kind {
				sess.Page = domain.PageItemSub
				sess.SubPage = kind
				sess.Actions[kind]++
				return 0, nil
			}
		}
	}

	switch sess.Page {
	case domain.PageSearchResults:
		return 0, s.openProduct(sess, target)
	case domain.PageItem:
		return 0, s.selectOption(sess, target)
	}
	return 0, nil
}

// backToSearch re-enters the results of the last query on page one, or the
// start page when the session never searched.
func (s *SimulationService) backToSearch(sess *domain.Session) {
	sess.Asin = ""
	sess.SubPage = ""
	sess.Options = make(map[string]string)
	if len(sess.Keywords) == 0 {
		sess.Page = domain.PageStart
		sess.PageNum = 1
		return
	}
	sess.Page = domain.PageSearchResults
	sess.PageNum = 1
}

// prevPage is page-relative: a results page steps back one window, an item
// page returns to the results, a sub-page returns to its item.
func (s *SimulationService) prevPage(sess *domain.Session) {
	switch sess.Page {
	case domain.PageSearchResults:
		if sess.PageNum > 1 {
			sess.PageNum--
		}
	case domain.PageItem:
		sess.Page = domain.PageSearchResults
		sess.Asin = ""
		sess.Options = make(map[string]string)
	case domain.PageItemSub:
		sess.Page = domain.PageItem
		sess.SubPage = ""
	}
}

func (s *SimulationService) openProduct(sess *domain.Session, target string) error {
	product, err := s.catalogRepo.Get(target)
	if err != nil {
		return err
	}
	sess.Asin = product.Asin
	sess.Page = domain.PageItem
	sess.SubPage = ""
	sess.Options = make(map[string]string)
	sess.Visited[product.Asin] = true
	sess.Actions[domain.ActionProduct]++
	return nil
}

// selectOption records an option value under its owning option name,
// replacing any earlier pick for that name.
func (s *SimulationService) selectOption(sess *domain.Session, target string) error {
	product, err := s.catalogRepo.Get(sess.Asin)
	if err != nil {
		return err
	}
	name, ok := product.OptionNameFor(target)
	if !ok {
		invalidActions.Inc()
		return nil
	}
	sess.Options[name] = target
	sess.Actions[domain.ActionOption]++
	return nil
}

// purchase scores the open product against the goal and freezes the session.
func (s *SimulationService) purchase(sess *domain.Session) (float64, error) {
	if sess.Asin == "" {
		return 0, domain.ErrNoProductOpen
	}
	product, err := s.catalogRepo.Get(sess.Asin)
	if err != nil {
		return 0, err
	}
	if sess.Goal == nil {
		return 0, domain.ErrNoGoal
	}

	reward, breakdown := s.rewarder.Score(product, *sess.Goal, product.Price, sess.Options)
	sess.Done = true
	sess.Reward = reward
	sess.Breakdown = &breakdown
	sess.Page = domain.PageDone
	sess.Actions[domain.ActionPurchase]++

	purchasesTotal.Inc()
	rewardObserved.Observe(reward)
	logger.Info("purchase", "session_id", sess.ID, "asin", sess.Asin, "reward", reward)
	return reward, nil
}

// buildPage projects the session state into its typed page.
func (s *SimulationService) buildPage(sess *domain.Session) domain.Page {
	instruction := ""
	if sess.Goal != nil {
		instruction = sess.Goal.InstructionText
	}

	switch sess.Page {
	case domain.PageSearchResults:
		return s.resultsPage(sess, instruction)
	case domain.PageItem:
		product, err := s.catalogRepo.Get(sess.Asin)
		if err != nil {
			logger.Error("open product vanished from catalog", err, "asin", sess.Asin)
			return domain.StartPage{SessionID: sess.ID, Instruction: instruction, HasSearchBar: true}
		}
		return domain.ItemPage{
			SessionID:   sess.ID,
			Instruction: instruction,
			Product:     product,
			Selected:    sess.Options,
			ShowAttrs:   s.cfg.ShowAttrs,
		}
	case domain.PageItemSub:
		return s.subPage(sess, instruction)
	case domain.PageDone:
		code := ""
		if s.completion != nil {
			code = s.completion.Encode(sess.ID, sess.Asin, sess.Reward)
		}
		return domain.DonePage{
			SessionID:      sess.ID,
			Asin:           sess.Asin,
			Options:        sess.Options,
			Reward:         sess.Reward,
			Breakdown:      sess.Breakdown,
			CompletionCode: code,
		}
	default:
		return domain.StartPage{SessionID: sess.ID, Instruction: instruction, HasSearchBar: true}
	}
}

func (s *SimulationService) resultsPage(sess *domain.Session, instruction string) domain.SearchResultsPage {
	start := (sess.PageNum - 1) * s.cfg.PageSize
	end := start + s.cfg.PageSize
	if start > len(sess.Results) {
		start = len(sess.Results)
	}
	if end > len(sess.Results) {
		end = len(sess.Results)
	}

	summaries := make([]domain.ProductSummary, 0, end-start)
	for _, asin := range sess.Results[start:end] {
		product, err := s.catalogRepo.Get(asin)
		if err != nil {
			continue
		}
		summaries = append(summaries, domain.ProductSummary{
			Asin:     product.Asin,
			Title:    product.Title,
			PriceTag: product.PriceTag,
			Visited:  sess.Visited[product.Asin],
		})
	}

	return domain.SearchResultsPage{
		SessionID:   sess.ID,
		Instruction: instruction,
		Keywords:    sess.Keywords,
		PageNum:     sess.PageNum,
		Total:       len(sess.Results),
		Results:     summaries,
	}
}

func (s *SimulationService) subPage(sess *domain.Session, instruction string) domain.Page {
	product, err := s.catalogRepo.Get(sess.Asin)
	if err != nil {
		logger.Error("open product vanished from catalog", err, "asin", sess.Asin)
		return domain.StartPage{SessionID: sess.ID, Instruction: instruction, HasSearchBar: true}
	}

	var content []string
	switch sess.SubPage {
	case domain.SubPageDescription:
		if product.Description != "" {
			content = []string{product.Description}
		}
	case domain.SubPageFeatures:
		content = product.BulletPoints
	case domain.SubPageAttributes:
		for _, attr := range product.Attributes {
			if attr != domain.DummyAttribute {
				content = append(content, attr)
			}
		}
	case domain.SubPageReviews:
		// The catalog carries no review corpus; the page renders empty.
	}

	return domain.ItemSubPage{
		SessionID:   sess.ID,
		Instruction: instruction,
		SubKind:     sess.SubPage,
		Asin:        product.Asin,
		Content:     content,
	}
}

func clickableOn(page domain.Page, target string) bool {
	for _, c := range page.Clickables() {
		if strings.EqualFold(c, target) {
			return true
		}
	}
	return false
}
