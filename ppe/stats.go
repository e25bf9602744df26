/*
stats.go - Dashboard statistics derived from a snapshot

PURPOSE:
  Summarize computes fleet totals, per-category and per-vessel quantity
  distributions and the top requestor in a single pass. Nothing here is
  cached or persisted; callers recompute from a fresh snapshot.

KEYING:
  Vessel, requestor and category keys use exact equality. "MT Seafarer" and
  "MT SEAFARER" are different vessels.

TOP REQUESTOR:
  Highest cumulative quantity. Ties go to the requestor encountered first in
  input order. Empty input yields NoRequestor.

SHARES:
  Each distribution entry carries its percentage of the total as a decimal
  rounded to one place, so the pie legend adds up without float noise.
*/
package ppe

import (
	"github.com/shopspring/decimal"
)

// NoRequestor is reported as the top requestor of an empty snapshot.
const NoRequestor = "N/A"

var hundred = decimal.NewFromInt(100)

// Stats is the dashboard summary of a snapshot.
type Stats struct {
	TotalQuantity        int      `json:"totalItemsTaken"`
	ActiveVessels        int      `json:"activeVessels"`
	TopRequestor         string   `json:"topRequestor"`
	CategoryDistribution []Bucket `json:"categoryDistribution"`
	VesselDistribution   []Bucket `json:"vesselDistribution"`
}

// Bucket is one slice of a distribution.
type Bucket struct {
	Name     string          `json:"name"`
	Quantity int             `json:"value"`
	Share    decimal.Decimal `json:"share"` // percent of TotalQuantity
}

// tally accumulates quantities per key, remembering first-seen order.
type tally struct {
	order  []string
	totals map[string]int
}

func newTally() *tally {
	return &tally{totals: make(map[string]int)}
}

func (t *tally) add(key string, qty int) {
	if _, seen := t.totals[key]; !seen {
		t.order = append(t.order, key)
	}
	t.totals[key] += qty
}

func (t *tally) buckets(total int) []Bucket {
	out := make([]Bucket, len(t.order))
	for i, key := range t.order {
		out[i] = Bucket{Name: key, Quantity: t.totals[key], Share: share(t.totals[key], total)}
	}
	return out
}

// top returns the key with the largest total; the earliest key wins ties.
func (t *tally) top() (string, bool) {
	best, bestQty, found := "", 0, false
	for _, key := range t.order {
		if qty := t.totals[key]; !found || qty > bestQty {
			best, bestQty, found = key, qty, true
		}
	}
	return best, found
}

func share(part, total int) decimal.Decimal {
	if total == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(part)).Mul(hundred).Div(decimal.NewFromInt(int64(total))).Round(1)
}

// Summarize derives Stats from records. It never mutates its input.
func Summarize(records []Record) Stats {
	vessels := newTally()
	categories := newTally()
	requestors := newTally()

	total := 0
	for _, r := range records {
		total += r.Quantity
		vessels.add(r.VesselName, r.Quantity)
		categories.add(string(r.Category), r.Quantity)
		requestors.add(r.RequestorName, r.Quantity)
	}

	top, ok := requestors.top()
	if !ok {
		top = NoRequestor
	}

	return Stats{
		TotalQuantity:        total,
		ActiveVessels:        len(vessels.order),
		TopRequestor:         top,
		CategoryDistribution: categories.buckets(total),
		VesselDistribution:   vessels.buckets(total),
	}
}
