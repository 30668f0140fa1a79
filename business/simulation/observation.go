package simulation

import (
	"fmt"
	"sort"
	"strings"

	"shopsim/domain"
)

// Observation modes. The typed page is the source of truth; both text modes
// are projections of it and expose exactly the page's clickables.
const (
	ModePage     = "page"
	ModeText     = "text"
	ModeTextRich = "text_rich"
)

// Observation is what a session sees after an operation.
type Observation struct {
	SessionID string      `json:"session_id"`
	Page      domain.Page `json:"page"`
}

func NewObservation(sess *domain.Session, page domain.Page) *Observation {
	return &Observation{SessionID: sess.ID, Page: page}
}

// AvailableActions lists what the agent can do next.
type AvailableActions struct {
	HasSearchBar bool     `json:"has_search_bar"`
	Clickables   []string `json:"clickables"`
}

func (o *Observation) AvailableActions() AvailableActions {
	clickables := o.Page.Clickables()
	if clickables == nil {
		clickables = []string{}
	}
	return AvailableActions{
		// The search bar is always present; searching is legal from any page.
		HasSearchBar: true,
		Clickables:   clickables,
	}
}

// Render projects the page into the requested mode. Unknown modes fall back
// to plain text.
func (o *Observation) Render(mode string) string {
	switch mode {
	case ModeTextRich:
		return renderText(o.Page, true)
	default:
		return renderText(o.Page, false)
	}
}

// Text is the plain [SEP]-joined rendering.
func (o *Observation) Text() string {
	return renderText(o.Page, false)
}

// TextRich annotates buttons so an agent can tell actions from content.
func (o *Observation) TextRich() string {
	return renderText(o.Page, true)
}

// displayLabels map lower-cased click targets to their rendered form. The
// router folds case on the way back in, so display casing is free.
var displayLabels = map[string]string{
	domain.ButtonBackToSearch: "Back to Search",
	domain.ButtonBuyNow:       "Buy Now",
	domain.SubPageDescription: "Description",
	domain.SubPageFeatures:    "Features",
	domain.SubPageReviews:     "Reviews",
	domain.SubPageAttributes:  "Attributes",
}

func label(target string) string {
	if l, ok := displayLabels[target]; ok {
		return l
	}
	return target
}

func renderText(page domain.Page, rich bool) string {
	var segs []string
	add := func(s string) {
		if s != "" {
			segs = append(segs, s)
		}
	}
	button := func(label string) {
		if rich {
			add("[button] " + label + " [button_]")
		} else {
			add(label)
		}
	}
	clickedButton := func(label string) {
		if rich {
			add("[clicked button] " + label + " [clicked button_]")
		} else {
			add(label)
		}
	}

	switch p := page.(type) {
	case domain.StartPage:
		add("Shop")
		add("Instruction:")
		add(p.Instruction)
		add("Search")

	case domain.SearchResultsPage:
		add("Instruction:")
		add(p.Instruction)
		button(label(domain.ButtonBackToSearch))
		add(fmt.Sprintf("Page %d (Total results: %d)", p.PageNum, p.Total))
		button(domain.ButtonNextPage)
		button(domain.ButtonPrevPage)
		for _, r := range p.Results {
			if r.Visited {
				clickedButton(r.Asin)
			} else {
				button(r.Asin)
			}
			add(r.Title)
			add(r.PriceTag)
		}

	case domain.ItemPage:
		add("Instruction:")
		add(p.Instruction)
		button(label(domain.ButtonBackToSearch))
		button(domain.ButtonPrevPage)
		names := make([]string, 0, len(p.Product.Options))
		for name := range p.Product.Options {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			add(name)
			for _, value := range p.Product.Options[name] {
				if p.Selected[name] == value {
					clickedButton(value)
				} else {
					button(value)
				}
			}
		}
		add(p.Product.Title)
		add("Price: " + p.Product.PriceTag)
		add("Rating: N.A.")
		if p.ShowAttrs {
			for _, attr := range p.Product.Attributes {
				if attr != domain.DummyAttribute {
					add(attr)
				}
			}
		}
		for _, kind := range domain.SubPageKinds {
			button(label(kind))
		}
		button(label(domain.ButtonBuyNow))

	case domain.ItemSubPage:
		add("Instruction:")
		add(p.Instruction)
		button(label(domain.ButtonBackToSearch))
		button(domain.ButtonPrevPage)
		if len(p.Content) == 0 {
			add("None")
		}
		for _, line := range p.Content {
			add(line)
		}

	case domain.DonePage:
		add("Thank you for shopping with us!")
		if p.CompletionCode != "" {
			add("Your code:")
			add(p.CompletionCode)
			add("(Paste it in your survey to validate the purchase)")
		}
		add(fmt.Sprintf("Reward: %.3f", p.Reward))
	}

	return strings.Join(segs, " [SEP] ")
}
