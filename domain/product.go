package domain

import (
	"encoding/json"
	"strings"
)

// StringList tolerates catalog files that store a bare string where a list is
// expected (small_description is the usual offender).
type StringList []string

func (s *StringList) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var single string
		if err := json.Unmarshal(b, &single); err != nil {
			return err
		}
		*s = StringList{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(b, &many); err != nil {
		return err
	}
	*s = StringList(many)
	return nil
}

// RawInstruction is one pre-authored goal template attached to a catalog record.
type RawInstruction struct {
	Instruction string            `json:"instruction"`
	Attributes  []string          `json:"instruction_attributes"`
	Options     map[string]string `json:"instruction_options"`
}

// RawProduct is one record of the catalog ingestion file, or one row of the
// raw_products table when the catalog source is postgres. Every field except the
// id may be missing; the catalog loader normalizes whatever is present.
type RawProduct struct {
	Asin                  string              `json:"asin" gorm:"column:asin;primaryKey"`
	Name                  string              `json:"name" gorm:"column:name;type:text"`
	FullDescription       string              `json:"full_description" gorm:"column:full_description;type:text"`
	SmallDescription      StringList          `json:"small_description" gorm:"column:small_description;serializer:json"`
	Pricing               string              `json:"pricing" gorm:"column:pricing"`
	Category              string              `json:"category" gorm:"column:category"`
	Query                 string              `json:"query" gorm:"column:query"`
	ProductCategory       string              `json:"product_category" gorm:"column:product_category"`
	CustomizationOptions  map[string][]string `json:"customization_options" gorm:"column:customization_options;serializer:json"`
	Attributes            []string            `json:"attributes" gorm:"column:attributes;serializer:json"`
	InstructionText       string              `json:"instruction_text" gorm:"column:instruction_text"`
	InstructionAttributes []string            `json:"instruction_attributes" gorm:"column:instruction_attributes;serializer:json"`
	Instructions          []RawInstruction    `json:"instructions" gorm:"column:instructions;serializer:json"`
}

func (RawProduct) TableName() string {
	return "raw_products"
}

// DummyAttribute is assigned to products that carry no attribute tags so the
// attribute term of the reward formula never has to special-case them.
const DummyAttribute = "dummy_attribute"

// Product is the normalized catalog entry. Immutable once loaded; shared by
// reference across all sessions.
type Product struct {
	Asin                  string              `json:"asin"`
	Title                 string              `json:"title"`
	Description           string              `json:"description"`
	BulletPoints          []string            `json:"bullet_points"`
	Category              string              `json:"category"`
	Query                 string              `json:"query"`
	ProductCategory       string              `json:"product_category"`
	PriceRange            []float64           `json:"price_range"`
	Price                 float64             `json:"price"`
	PriceTag              string              `json:"price_tag"`
	Options               map[string][]string `json:"options"`
	Attributes            []string            `json:"attributes"`
	InstructionText       string              `json:"instruction_text,omitempty"`
	InstructionAttributes []string            `json:"instruction_attributes,omitempty"`
	Instructions          []RawInstruction    `json:"instructions,omitempty"`
}

// OptionNameFor returns the option name owning the given value, matching
// case-insensitively. Option names and values are stored lower-cased.
func (p *Product) OptionNameFor(value string) (string, bool) {
	needle := strings.ToLower(strings.TrimSpace(value))
	for name, values := range p.Options {
		for _, v := range values {
			if v == needle {
				return name, true
			}
		}
	}
	return "", false
}

// CategoryPath splits the "›"-separated product category into trimmed levels.
func (p *Product) CategoryPath() []string {
	if p.ProductCategory == "" {
		return nil
	}
	parts := strings.Split(p.ProductCategory, "›")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
