package fare

import (
	"fmt"
	"math"
	"time"

	"github.com/example/nemt-pricing/internal/models"
)

// Composer turns resolved trip facts into an itemized price. It is pure:
// identical inputs always produce an identical breakdown.
type Composer struct {
	rates RateTable
}

func NewComposer(rates RateTable) *Composer {
	return &Composer{rates: rates}
}

func (c *Composer) Rates() RateTable { return c.rates }

// Compose builds the ordered line-item breakdown. Later steps depend on the
// running subtotal, so the step order is fixed. Every item is rounded to
// whole cents on its own before summation; only the discount line may be
// negative.
func (c *Composer) Compose(req models.TripRequest, pickup time.Time, dist models.DistanceResult, jur models.JurisdictionInfo, hol models.HolidayInfo) models.PriceBreakdown {
	r := c.rates
	items := make([]models.LineItem, 0, 8)
	add := func(label string, cents int64, cat models.Category) {
		items = append(items, models.LineItem{Label: label, AmountCents: cents, Category: cat})
	}

	add("Base fare", r.BaseFarePerLegCents, models.CategoryBase)
	if req.RoundTrip {
		add("Return leg base fare", r.BaseFarePerLegCents, models.CategoryBase)
	}

	miles := dist.Miles
	if miles < 0 {
		miles = 0 // negative distance is an upstream bug, clamp rather than bill it
	}
	legs := 1
	if req.RoundTrip {
		legs = 2
	}
	effectiveMiles := miles * float64(legs)

	perMile := r.PrimaryPerMileCents
	if !jur.InPrimary {
		perMile = r.OutsidePerMileCents
	}
	distCents := roundCents(effectiveMiles * float64(perMile))
	add(fmt.Sprintf("Mileage (%.1f mi @ %s/mi)", effectiveMiles, FormatCents(perMile)), distCents, models.CategoryCharge)

	if jur.CountiesCrossed >= 2 {
		crossings := int64(jur.CountiesCrossed - 1)
		noun := "extra crossing"
		if crossings > 1 {
			noun = "extra crossings"
		}
		add(fmt.Sprintf("County surcharge (%d %s)", crossings, noun), crossings*r.CountyFeeCents, models.CategoryCharge)
	}

	if afterHours(pickup, r) {
		add("Weekend / after-hours premium", r.AfterHoursPremiumCents, models.CategoryPremium)
	}
	if req.Emergency {
		add("Emergency dispatch fee", r.EmergencyFeeCents, models.CategoryPremium)
	}
	if req.Wheelchair == models.WheelchairRental {
		add("Wheelchair rental fee", r.WheelchairRentalFeeCents, models.CategoryCharge)
	}
	if hol.IsHoliday {
		label := "Holiday surcharge"
		if hol.Name != "" {
			label = fmt.Sprintf("Holiday surcharge (%s)", hol.Name)
		}
		add(label, hol.SurchargeCents, models.CategoryPremium)
	}

	var subtotal int64
	for _, it := range items {
		subtotal += it.AmountCents
	}

	if req.Veteran && r.VeteranDiscountRate > 0 {
		discount := roundCents(float64(subtotal) * r.VeteranDiscountRate)
		add(fmt.Sprintf("Veteran discount (%.0f%%)", r.VeteranDiscountRate*100), -discount, models.CategoryDiscount)
		subtotal -= discount
	}

	if subtotal < 0 {
		subtotal = 0
	}
	items = append(items, models.LineItem{Label: "Total", AmountCents: subtotal, Category: models.CategoryTotal})
	return models.PriceBreakdown{Items: items, TotalCents: subtotal}
}

// afterHours reports whether the weekend/after-hours premium applies. The
// premium is a single flat fee no matter how many conditions hold.
func afterHours(pickup time.Time, r RateTable) bool {
	wd := pickup.Weekday()
	if wd == time.Saturday || wd == time.Sunday {
		return true
	}
	h := pickup.Hour()
	return h < r.DayStartHour || h >= r.DayEndHour
}

func roundCents(v float64) int64 {
	return int64(math.Round(v))
}

// FormatCents renders integer cents as a dollar string, e.g. 8050 -> "$80.50".
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}
