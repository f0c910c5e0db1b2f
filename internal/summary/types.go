package summary

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// DateSum is one [date, sum] pair of a trend series
type DateSum struct {
	Date string
	Sum  decimal.Decimal
}

func (d DateSum) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{d.Date, d.Sum})
}

func (d *DateSum) UnmarshalJSON(b []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(b, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("date sum: want 2 elements, got %d", len(pair))
	}
	if err := json.Unmarshal(pair[0], &d.Date); err != nil {
		return err
	}
	return json.Unmarshal(pair[1], &d.Sum)
}

// CategorySums holds parallel category and total lists, serialized as [categories, sums]
type CategorySums struct {
	Categories []string
	Sums       []decimal.Decimal
}

func (c CategorySums) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{c.Categories, c.Sums})
}

func (c *CategorySums) UnmarshalJSON(b []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(b, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("category sums: want 2 elements, got %d", len(pair))
	}
	if err := json.Unmarshal(pair[0], &c.Categories); err != nil {
		return err
	}
	return json.Unmarshal(pair[1], &c.Sums)
}

// Frequency is one category's row of the frequency matrix: counts[i] belongs to dates[i]
type Frequency struct {
	Dates  []string
	Counts []int
}

func (f Frequency) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{f.Dates, f.Counts})
}

func (f *Frequency) UnmarshalJSON(b []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(b, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("frequency: want 2 elements, got %d", len(pair))
	}
	if err := json.Unmarshal(pair[0], &f.Dates); err != nil {
		return err
	}
	return json.Unmarshal(pair[1], &f.Counts)
}
