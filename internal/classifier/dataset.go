// Package classifier trains the two text classifiers used for message
// understanding: a coarse conversational intent and the specific
// service/FAQ/policy item referenced. Both are multinomial logistic
// regressions fit over the same embedding space the knowledge base
// uses for retrieval.
package classifier

import (
	"errors"
	"fmt"
	"sort"

	"github.com/velvetcrest/salon-rag/internal/kb"
)

// ErrTooFewIntents is returned when the mapped dataset has fewer than
// two distinct intents, which makes training meaningless.
var ErrTooFewIntents = errors.New("need at least 2 distinct intents to train")

// categoryToIntent maps coarse dataset categories onto intents. The
// table covers both the original synthetic categories and their short
// forms.
var categoryToIntent = map[string]string{
	"service_price": "query_price",
	"price":         "query_price",

	"service_policy": "query_policy",
	"policy":         "query_policy",
	"pol":            "query_policy",

	"service_faq": "query_faq",
	"faq":         "query_faq",

	"service_details": "query_service_details",
	"details":         "query_service_details",

	"booking": "booking",
	"book":    "booking",

	"reschedule": "rescheduling",

	"cancel":       "cancellation",
	"cancellation": "cancellation",
}

// IntentFor maps a dataset category to its intent. The second return
// is false for categories with no mapping.
func IntentFor(category string) (string, bool) {
	intent, ok := categoryToIntent[category]
	return intent, ok
}

// Dataset is a loaded, mapped training set. Texts, Intents and Items
// are index-aligned.
type Dataset struct {
	Texts   []string
	Intents []string
	Items   []string

	// Dropped-row accounting. Rows vanish for two reasons and callers
	// auditing dataset coverage need both counts.
	DroppedMissing  int // a required field was empty
	DroppedUnmapped int // category had no intent mapping
}

// DistinctIntents returns the sorted distinct intents present in the dataset.
func (d *Dataset) DistinctIntents() []string {
	set := make(map[string]struct{})
	for _, it := range d.Intents {
		set[it] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for it := range set {
		out = append(out, it)
	}
	sort.Strings(out)
	return out
}

// LoadDataset reads a labeled CSV with columns variant, category and
// item. Rows missing any of the three fields are dropped, as are rows
// whose category has no intent mapping; both counts are reported on
// the returned dataset rather than silently discarded.
func LoadDataset(path string) (*Dataset, error) {
	rows, err := kb.ReadRows(path)
	if err != nil {
		return nil, err
	}
	if len(rows) > 0 {
		for _, col := range []string{"variant", "category", "item"} {
			if _, ok := rows[0][col]; !ok {
				return nil, fmt.Errorf("dataset %s: missing required column %q", path, col)
			}
		}
	}

	ds := &Dataset{}
	for _, row := range rows {
		variant, category, item := row["variant"], row["category"], row["item"]
		if variant == "" || category == "" || item == "" {
			ds.DroppedMissing++
			continue
		}
		intent, ok := IntentFor(category)
		if !ok {
			ds.DroppedUnmapped++
			continue
		}
		ds.Texts = append(ds.Texts, variant)
		ds.Intents = append(ds.Intents, intent)
		ds.Items = append(ds.Items, item)
	}
	return ds, nil
}
