package domain

// Action counter keys tracked per session.
const (
	ActionSearch   = "search"
	ActionProduct  = "asin"
	ActionOption   = "options"
	ActionPurchase = "purchase"
)

// Session owns all mutable browsing state for one session id. A session is
// exclusively owned by its identifier; the store guards the id -> session map,
// and no operation ever touches another session's fields.
type Session struct {
	ID        string
	GoalIndex int
	Goal      *Goal

	Page     PageKind
	Keywords []string
	PageNum  int
	Results  []string // asins of the last search, in rank order
	Asin     string   // currently open product, "" when none
	SubPage  string   // sub-page kind when Page == PageItemSub

	Visited map[string]bool   // every product ever opened
	Options map[string]string // chosen option values, keyed by option name
	Actions map[string]int

	Done      bool
	Reward    float64
	Breakdown *RewardBreakdown
}

func NewSession(id string, goalIndex int, goal *Goal) *Session {
	return &Session{
		ID:        id,
		GoalIndex: goalIndex,
		Goal:      goal,
		Page:      PageStart,
		PageNum:   1,
		Visited:   make(map[string]bool),
		Options:   make(map[string]string),
		Actions:   make(map[string]int),
	}
}

// SessionSnapshot is the flat, cycle-free projection of a session used by the
// inspection endpoint and by test assertions.
type SessionSnapshot struct {
	ID          string            `json:"id"`
	GoalIndex   int               `json:"goal_index"`
	GoalAsin    string            `json:"goal_asin"`
	Instruction string            `json:"instruction"`
	Page        PageKind          `json:"page"`
	Keywords    []string          `json:"keywords"`
	PageNum     int               `json:"page_num"`
	Asin        string            `json:"asin"`
	SubPage     string            `json:"sub_page,omitempty"`
	Visited     []string          `json:"visited"`
	Options     map[string]string `json:"options"`
	Actions     map[string]int    `json:"actions"`
	Done        bool              `json:"done"`
	Reward      float64           `json:"reward"`
	Breakdown   *RewardBreakdown  `json:"reward_breakdown,omitempty"`
}
