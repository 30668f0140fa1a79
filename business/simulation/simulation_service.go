package simulation

import (
	"context"
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"sync"

	"shopsim/domain"
	"shopsim/pkg/logger"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
)

// ---- Repository interfaces ----

// SearchRepository ranks catalog ids for a keyword query.
type SearchRepository interface {
	Search(ctx context.Context, keywords []string, topN int) ([]string, error)
}

// CatalogRepository is the read surface of the loaded catalog.
type CatalogRepository interface {
	Get(asin string) (*domain.Product, error)
	Products() []*domain.Product
	AsinsByAttribute(attr string) []string
	ByCategory(category string) []*domain.Product
	ByQuery(query string) []*domain.Product
}

// GoalRepository is the fixed goal set built at startup.
type GoalRepository interface {
	Get(idx int) (domain.Goal, error)
	Len() int
}

// GoalSampler draws a goal index for sessions that do not pin one.
type GoalSampler interface {
	Draw(rng *rand.Rand) int
}

// Rewarder scores a purchase against a goal.
type Rewarder interface {
	Score(product *domain.Product, goal domain.Goal, price float64, options map[string]string) (float64, domain.RewardBreakdown)
}

// Config controls the browsing surface.
type Config struct {
	// TopN caps how many results a search may return.
	TopN int
	// PageSize is the result window shown per page.
	PageSize int
	// ShowAttrs exposes attribute tags on item pages.
	ShowAttrs bool
}

func DefaultConfig() Config {
	return Config{
		TopN:     50,
		PageSize: 10,
	}
}

// Special first keywords that bypass the ranked search.
const (
	selectorRandom    = "<r>"
	selectorAttribute = "<a>"
	selectorCategory  = "<c>"
	selectorQuery     = "<q>"
)

var actionPattern = regexp.MustCompile(`^(search|click)\[(.*)\]$`)

// SimulationService is the session-facing facade: it assigns goals, routes
// actions through the page state machine and renders observations.
type SimulationService struct {
	store       *SessionStore
	searchRepo  SearchRepository
	catalogRepo CatalogRepository
	goalRepo    GoalRepository
	sampler     GoalSampler
	rewarder    Rewarder
	completion  *CompletionCoder
	cfg         Config

	rngMu sync.Mutex
	rng   *rand.Rand
}

func NewSimulationService(
	searchRepo SearchRepository,
	catalogRepo CatalogRepository,
	goalRepo GoalRepository,
	sampler GoalSampler,
	rewarder Rewarder,
	completion *CompletionCoder,
	cfg Config,
	seed int64,
) *SimulationService {
	return &SimulationService{
		store:       NewSessionStore(),
		searchRepo:  searchRepo,
		catalogRepo: catalogRepo,
		goalRepo:    goalRepo,
		sampler:     sampler,
		rewarder:    rewarder,
		completion:  completion,
		cfg:         cfg,
		rng:         rand.New(rand.NewSource(seed)),
	}
}

// Reset creates or resumes the session for an id. An empty id gets a
// generated one. First contact assigns the goal, by sampler draw or pinned
// when goalIndex is non-negative; the goal is immutable afterwards, so
// resetting an existing id keeps its session and goal and only returns it to
// the start page. goalIndex is ignored on a resume.
func (s *SimulationService) Reset(ctx context.Context, sessionID string, goalIndex int) (*Observation, error) {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	var obs *Observation
	err := s.store.WithOrCreate(sessionID,
		func() (*domain.Session, error) {
			idx := goalIndex
			if idx < 0 {
				s.rngMu.Lock()
				idx = s.sampler.Draw(s.rng)
				s.rngMu.Unlock()
			}
			goal, err := s.goalRepo.Get(idx)
			if err != nil {
				return nil, err
			}
			return domain.NewSession(sessionID, idx, &goal), nil
		},
		func(sess *domain.Session, created bool) error {
			if created {
				sessionsStarted.Inc()
				logger.Debug("session created", "session_id", sessionID, "goal_index", sess.GoalIndex)
			} else {
				resetNavigation(sess)
				logger.Debug("session resumed", "session_id", sessionID, "goal_index", sess.GoalIndex)
			}
			obs = NewObservation(sess, s.buildPage(sess))
			return nil
		})
	if err != nil {
		return nil, err
	}
	return obs, nil
}

// resetNavigation returns a resumed session to the start page. The goal, the
// visited set, the counters and any recorded purchase survive a reset.
func resetNavigation(sess *domain.Session) {
	sess.Page = domain.PageStart
	sess.Keywords = nil
	sess.PageNum = 1
	sess.Results = nil
	sess.Asin = ""
	sess.SubPage = ""
	sess.Options = make(map[string]string)
}

// Step applies one agent action to a session and returns the resulting
// observation together with the step reward and the done flag.
//
// Malformed actions and clicks on targets the current page does not expose
// leave the session untouched and score zero. Buying again on a finished
// session is idempotent: it re-returns the recorded reward.
func (s *SimulationService) Step(ctx context.Context, sessionID, action string) (*Observation, float64, bool, error) {
	var verb, arg string
	if m := actionPattern.FindStringSubmatch(strings.TrimSpace(action)); m != nil {
		verb, arg = m[1], strings.ToLower(strings.TrimSpace(m[2]))
	}

	// Searches hit the keyword index before the store lock is taken, so a
	// slow search backend stalls only its own session, never the others.
	var keywords, results []string
	var searchErr error
	isSearch := verb == "search" && arg != ""
	if isSearch {
		keywords = strings.Fields(arg)
		timer := prometheus.NewTimer(searchDuration)
		results, searchErr = s.searchAsins(ctx, keywords)
		timer.ObserveDuration()
	}

	var obs *Observation
	var reward float64
	var done bool

	err := s.store.With(sessionID, func(sess *domain.Session) error {
		switch {
		case isSearch:
			if searchErr != nil {
				return fmt.Errorf("search failed: %w", searchErr)
			}
			applySearch(sess, keywords, results)
			stepsTotal.WithLabelValues("search").Inc()
		case verb == "click":
			var err error
			reward, err = s.doClick(sess, arg)
			if err != nil {
				return err
			}
			stepsTotal.WithLabelValues("click").Inc()
		default:
			invalidActions.Inc()
		}

		obs = NewObservation(sess, s.buildPage(sess))
		done = sess.Done
		return nil
	})
	if err != nil {
		return nil, 0, false, err
	}
	return obs, reward, done, nil
}

// Snapshot exposes the flat session state for inspection.
func (s *SimulationService) Snapshot(sessionID string) (domain.SessionSnapshot, error) {
	return s.store.Snapshot(sessionID)
}

// SessionCount reports how many sessions the store holds.
func (s *SimulationService) SessionCount() int {
	return s.store.Len()
}

// DeleteSession discards a session.
func (s *SimulationService) DeleteSession(sessionID string) {
	s.store.Delete(sessionID)
}

// applySearch moves the session onto page one of the given results.
// Searching is allowed from any page, including done: the agent may keep
// browsing after a purchase, only the recorded reward is frozen.
func applySearch(sess *domain.Session, keywords, results []string) {
	sess.Page = domain.PageSearchResults
	sess.Keywords = keywords
	sess.PageNum = 1
	sess.Results = results
	sess.Asin = ""
	sess.SubPage = ""
	sess.Options = make(map[string]string)
	sess.Actions[domain.ActionSearch]++
}

// searchAsins resolves the keyword list to ranked ids, honoring the special
// first-keyword selectors that bypass the index.
func (s *SimulationService) searchAsins(ctx context.Context, keywords []string) ([]string, error) {
	var products []*domain.Product
	switch keywords[0] {
	case selectorRandom:
		products = s.randomProducts()
	case selectorAttribute:
		attr := strings.TrimSpace(strings.Join(keywords[1:], " "))
		asins := s.catalogRepo.AsinsByAttribute(attr)
		return capResults(asins, s.cfg.TopN), nil
	case selectorCategory:
		category := strings.TrimSpace(strings.Join(keywords[1:], " "))
		products = s.catalogRepo.ByCategory(category)
	case selectorQuery:
		query := strings.TrimSpace(strings.Join(keywords[1:], " "))
		products = s.catalogRepo.ByQuery(query)
	default:
		asins, err := s.searchRepo.Search(ctx, keywords, s.cfg.TopN)
		if err != nil {
			return nil, err
		}
		return capResults(asins, s.cfg.TopN), nil
	}

	asins := make([]string, 0, len(products))
	for _, p := range products {
		asins = append(asins, p.Asin)
	}
	return capResults(asins, s.cfg.TopN), nil
}

func (s *SimulationService) randomProducts() []*domain.Product {
	all := s.catalogRepo.Products()
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	if len(all) <= s.cfg.TopN {
		return all
	}
	idxs := s.rng.Perm(len(all))[:s.cfg.TopN]
	out := make([]*domain.Product, 0, s.cfg.TopN)
	for _, i := range idxs {
		out = append(out, all[i])
	}
	return out
}

func capResults(asins []string, topN int) []string {
	if len(asins) > topN {
		return asins[:topN]
	}
	return asins
}
