package domain

// RewardBreakdown is the per-term detail behind a purchase score. ROption and
// RPrice are nil when the goal specifies no options / no price ceiling.
type RewardBreakdown struct {
	RType         float64  `json:"r_type"`
	QueryMatch    bool     `json:"query_match"`
	CategoryMatch bool     `json:"category_match"`
	TitleScore    float64  `json:"title_score"`
	RAttr         float64  `json:"r_attr"`
	AttrMatches   int      `json:"attr_matches"`
	ROption       *float64 `json:"r_option,omitempty"`
	OptionMatches int      `json:"option_matches"`
	RPrice        *float64 `json:"r_price,omitempty"`
	WAttr         float64  `json:"w_attr"`
	WOption       float64  `json:"w_option"`
	WPrice        float64  `json:"w_price"`
}
