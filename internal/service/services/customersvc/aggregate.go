package customersvc

import (
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/comandalivre/opsdesk/internal/service/models/customer"
	"github.com/comandalivre/opsdesk/internal/service/models/order"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// View selects which side of the archived partition to return. The two
// views are complementary and never overlap.
type View string

const (
	ViewActive   View = "active"
	ViewArchived View = "archived"
)

// Query narrows the aggregation result.
type Query struct {
	// WindowDays filters to orders in the last N days; 0 means all time.
	WindowDays int
	View       View
	Search     string
}

// Summarize folds the order history and profile overrides into ranked
// customer summaries. It is a pure function: same inputs, same output.
// Totals accumulate independently of feed order; only the snapshot
// fields (name, address, neighborhood) follow the latest created_at.
func Summarize(
	orders []order.Order,
	profiles []customer.Profile,
	q Query,
	now time.Time,
) []customer.Summary {
	var cutoff time.Time
	if q.WindowDays > 0 {
		cutoff = now.AddDate(0, 0, -q.WindowDays)
	}

	byPhone := make(map[string]*customer.Summary)
	lastID := make(map[string]int64)
	for _, o := range orders {
		if q.WindowDays > 0 && o.CreatedAt.Before(cutoff) {
			continue
		}

		key := o.Phone
		if key == "" {
			key = customer.PhoneUnidentified
		}

		acc, ok := byPhone[key]
		if !ok {
			acc = &customer.Summary{Phone: key}
			byPhone[key] = acc
		}

		acc.TotalOrders++
		acc.TotalSpentCents += o.TotalCents
		if o.Pickup {
			acc.PickupCount++
		}

		// The later order wins the display snapshot; ties break on the
		// higher id so permuted input cannot change the result.
		if o.CreatedAt.After(acc.LastOrderAt) ||
			(o.CreatedAt.Equal(acc.LastOrderAt) && o.ID > lastID[key]) {
			acc.Name = o.CustomerName
			acc.Address = o.Address
			acc.Neighborhood = o.Neighborhood
			acc.LastOrderAt = o.CreatedAt
			lastID[key] = o.ID
		}
	}

	profileByPhone := make(map[string]customer.Profile, len(profiles))
	for _, p := range profiles {
		profileByPhone[p.Phone] = p
	}

	result := make([]customer.Summary, 0, len(byPhone))
	for _, acc := range byPhone {
		if p, ok := profileByPhone[acc.Phone]; ok {
			if p.Name != "" {
				acc.Name = p.Name
			}
			acc.Archived = p.Archived
		}

		if q.View == ViewArchived && !acc.Archived {
			continue
		}
		if q.View != ViewArchived && acc.Archived {
			continue
		}

		if q.Search != "" && !matches(*acc, q.Search) {
			continue
		}

		result = append(result, *acc)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].TotalSpentCents != result[j].TotalSpentCents {
			return result[i].TotalSpentCents > result[j].TotalSpentCents
		}
		return result[i].Phone < result[j].Phone
	})

	return result
}

func matches(s customer.Summary, search string) bool {
	needle := foldString(search)

	return strings.Contains(foldString(s.Name), needle) ||
		strings.Contains(foldString(s.Phone), needle) ||
		strings.Contains(foldString(s.Neighborhood), needle)
}

// foldString lowercases and strips diacritics so "José" matches "jose".
func foldString(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}

	return strings.ToLower(out)
}
