// Package supplier estimates supplier lead times. It has no dependency on
// the ledger: estimates are quoted to customers whether or not a reorder is
// ever placed.
package supplier

import (
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const dateLayout = "2006-01-02"

// now is swapped out in tests.
var now = time.Now

// Estimate is a delivery projection. UsedFallback is true when the base date
// could not be parsed and today's date was substituted; callers should
// surface that, since it silently shifts the estimate.
type Estimate struct {
	Date         string
	LeadDays     int
	UsedFallback bool
}

// DeliveryDate projects when an order of the given size would arrive if
// placed on baseDate. Lead time grows with quantity: up to 10 units ship the
// same day, up to 100 add one day, up to 1000 add four, larger orders add
// seven.
func DeliveryDate(baseDate string, quantity int64) Estimate {
	base, fallback := parseBase(baseDate)
	days := leadDays(quantity)
	return Estimate{
		Date:         base.AddDate(0, 0, days).Format(dateLayout),
		LeadDays:     days,
		UsedFallback: fallback,
	}
}

func parseBase(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if i := strings.IndexByte(s, 'T'); i >= 0 {
		s = s[:i]
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		log.Warn().Str("base_date", raw).Msg("unparseable delivery base date, using current date")
		return now(), true
	}
	return t, false
}

func leadDays(quantity int64) int {
	switch {
	case quantity <= 10:
		return 0
	case quantity <= 100:
		return 1
	case quantity <= 1000:
		return 4
	default:
		return 7
	}
}
