package domain

import "strings"

// PageKind is one of the finite navigation states.
type PageKind string

const (
	PageStart         PageKind = "start"
	PageSearchResults PageKind = "search_results"
	PageItem          PageKind = "item_page"
	PageItemSub       PageKind = "item_sub_page"
	PageDone          PageKind = "done"
)

// Click targets shared by every rendering. All targets are matched
// case-insensitively, so they are stored lower-cased.
const (
	ButtonBuyNow       = "buy now"
	ButtonBackToSearch = "back to search"
	ButtonNextPage     = "next >"
	ButtonPrevPage     = "< prev"
)

// Sub-page kinds reachable from an item page.
const (
	SubPageDescription = "description"
	SubPageFeatures    = "features"
	SubPageReviews     = "reviews"
	SubPageAttributes  = "attributes"
)

var SubPageKinds = []string{SubPageDescription, SubPageFeatures, SubPageReviews, SubPageAttributes}

// Page is the typed page model: one variant per page kind. The state machine
// routes on these variants directly; the text renderings are lossy projections
// and every rendering must agree with Clickables.
type Page interface {
	Kind() PageKind
	Clickables() []string
}

type StartPage struct {
	SessionID    string `json:"session_id"`
	Instruction  string `json:"instruction"`
	HasSearchBar bool   `json:"has_search_bar"`
}

func (StartPage) Kind() PageKind       { return PageStart }
func (StartPage) Clickables() []string { return nil }

// ProductSummary is one row of a search results page.
type ProductSummary struct {
	Asin     string `json:"asin"`
	Title    string `json:"title"`
	PriceTag string `json:"price_tag"`
	Visited  bool   `json:"visited"`
}

type SearchResultsPage struct {
	SessionID   string           `json:"session_id"`
	Instruction string           `json:"instruction"`
	Keywords    []string         `json:"keywords"`
	PageNum     int              `json:"page_num"`
	Total       int              `json:"total"`
	Results     []ProductSummary `json:"results"`
}

func (SearchResultsPage) Kind() PageKind { return PageSearchResults }

func (p SearchResultsPage) Clickables() []string {
	out := []string{ButtonBackToSearch, ButtonNextPage, ButtonPrevPage}
	for _, r := range p.Results {
		out = append(out, strings.ToLower(r.Asin))
	}
	return out
}

type ItemPage struct {
	SessionID   string            `json:"session_id"`
	Instruction string            `json:"instruction"`
	Product     *Product          `json:"product"`
	Selected    map[string]string `json:"selected_options"`
	ShowAttrs   bool              `json:"show_attrs"`
}

func (ItemPage) Kind() PageKind { return PageItem }

func (p ItemPage) Clickables() []string {
	out := []string{ButtonBackToSearch, ButtonPrevPage}
	out = append(out, SubPageKinds...)
	out = append(out, ButtonBuyNow)
	for _, values := range p.Product.Options {
		out = append(out, values...)
	}
	return out
}

type ItemSubPage struct {
	SessionID   string   `json:"session_id"`
	Instruction string   `json:"instruction"`
	SubKind     string   `json:"sub_kind"`
	Asin        string   `json:"asin"`
	Content     []string `json:"content"`
}

func (ItemSubPage) Kind() PageKind       { return PageItemSub }
func (ItemSubPage) Clickables() []string { return []string{ButtonBackToSearch, ButtonPrevPage} }

type DonePage struct {
	SessionID      string            `json:"session_id"`
	Asin           string            `json:"asin"`
	Options        map[string]string `json:"options"`
	Reward         float64           `json:"reward"`
	Breakdown      *RewardBreakdown  `json:"breakdown,omitempty"`
	CompletionCode string            `json:"completion_code,omitempty"`
}

func (DonePage) Kind() PageKind       { return PageDone }
func (DonePage) Clickables() []string { return nil }
