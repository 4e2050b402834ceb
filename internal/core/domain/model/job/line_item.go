package job

import (
	"encoding/json"
	"fmt"
	"maps"
	"strings"

	"junkos/internal/pkg/errs"
)

const (
	lineItemCategoryKey = "category"
	lineItemQuantityKey = "quantity"
)

// LineItem is one entry of a job's item list. Category and quantity are the
// typed core; any other fields a client sends are preserved in Extra and
// round-trip through persistence untouched.
type LineItem struct {
	category string
	quantity int
	extra    map[string]any
}

// NewLineItem normalizes the category to lower case. Quantity is not checked
// here; the pricing engine decides which lines count.
func NewLineItem(category string, quantity int, extra map[string]any) (LineItem, error) {
	c := strings.ToLower(strings.TrimSpace(category))
	if c == "" {
		return LineItem{}, errs.NewValueIsRequiredError("category")
	}

	var ext map[string]any
	if len(extra) > 0 {
		ext = make(map[string]any, len(extra))
		for k, v := range extra {
			if k == lineItemCategoryKey || k == lineItemQuantityKey {
				continue
			}
			ext[k] = v
		}
	}

	return LineItem{category: c, quantity: quantity, extra: ext}, nil
}

func (l LineItem) Category() string { return l.category }

func (l LineItem) Quantity() int { return l.quantity }

// Extra returns a copy of the extension fields.
func (l LineItem) Extra() map[string]any {
	return maps.Clone(l.extra)
}

// MarshalJSON flattens the extension fields next to category and quantity.
func (l LineItem) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(l.extra)+2)
	maps.Copy(out, l.extra)
	out[lineItemCategoryKey] = l.category
	out[lineItemQuantityKey] = l.quantity
	return json.Marshal(out)
}

// UnmarshalJSON accepts {"category": "...", "quantity": n, ...}. A missing
// quantity defaults to 1.
func (l *LineItem) UnmarshalJSON(data []byte) error {
	raw := make(map[string]any)
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	category, _ := raw[lineItemCategoryKey].(string)
	quantity := 1
	if q, ok := raw[lineItemQuantityKey]; ok {
		f, isNumber := q.(float64)
		if !isNumber || f != float64(int(f)) {
			return errs.NewValueIsInvalidErrorWithCause("quantity", fmt.Errorf("%v is not an integer", q))
		}
		quantity = int(f)
	}

	item, err := NewLineItem(category, quantity, raw)
	if err != nil {
		return err
	}
	*l = item
	return nil
}
