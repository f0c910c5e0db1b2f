package domain

import (
	"fmt"     // Error wrapping
	"strings" // Case folding
)

// Type is the polarity of a transaction
type Type string

const (
	Income  Type = "INCOME"
	Expense Type = "EXPENSE"
)

// Category is the closed set of transaction categories shared by both types
type Category string

const (
	Salary     Category = "SALARY"
	Freelance  Category = "FREELANCE"
	Investment Category = "INVESTMENT"
	Food       Category = "FOOD"
	Transport  Category = "TRANSPORT"
	HomeBills  Category = "HOMEBILLS"
	SelfCare   Category = "SELFCARE"
	Shopping   Category = "SHOPPING"
	Health     Category = "HEALTH"
)

// Categories lists every category in declaration order
var Categories = []Category{Salary, Freelance, Investment, Food, Transport, HomeBills, SelfCare, Shopping, Health}

// ParseType normalizes caller input to a Type, case-insensitively
func ParseType(s string) (Type, error) {
	switch t := Type(strings.ToUpper(strings.TrimSpace(s))); t {
	case Income, Expense:
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidType, s)
}

// ParseCategory normalizes caller input to a Category, case-insensitively
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Categories {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
}

// ParseCategories parses a list, keeping input order and duplicates
func ParseCategories(in []string) ([]Category, error) {
	out := make([]Category, len(in))
	for i, s := range in {
		c, err := ParseCategory(s)
		if err != nil {
			return nil, err
		}
		out[i] = c
	}
	return out, nil
}

// MarshalText writes the lowercase wire form ("expense")
func (t Type) MarshalText() ([]byte, error) {
	return []byte(strings.ToLower(string(t))), nil
}

func (t *Type) UnmarshalText(b []byte) error {
	parsed, err := ParseType(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// MarshalText writes the lowercase wire form ("food")
func (c Category) MarshalText() ([]byte, error) {
	return []byte(strings.ToLower(string(c))), nil
}

func (c *Category) UnmarshalText(b []byte) error {
	parsed, err := ParseCategory(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
