package fare

import "errors"

// RateTable is the immutable pricing configuration injected into the
// composer. All flat amounts are integer cents; per-mile rates are cents per
// mile. A table is built once at startup and shared read-only.
type RateTable struct {
	BaseFarePerLegCents      int64
	PrimaryPerMileCents      int64
	OutsidePerMileCents      int64
	CountyFeeCents           int64
	AfterHoursPremiumCents   int64
	EmergencyFeeCents        int64
	WheelchairRentalFeeCents int64
	HolidaySurchargeCents    int64
	VeteranDiscountRate      float64

	// Day boundaries for the after-hours premium: pickups before DayStartHour
	// or at/after DayEndHour pay the premium.
	DayStartHour int
	DayEndHour   int
}

// DefaultRates mirrors the published rate sheet.
func DefaultRates() RateTable {
	return RateTable{
		BaseFarePerLegCents:      5000,
		PrimaryPerMileCents:      300,
		OutsidePerMileCents:      450,
		CountyFeeCents:           2500,
		AfterHoursPremiumCents:   4000,
		EmergencyFeeCents:        7500,
		WheelchairRentalFeeCents: 3500,
		HolidaySurchargeCents:    10000,
		VeteranDiscountRate:      0.10,
		DayStartHour:             8,
		DayEndHour:               18,
	}
}

func (r RateTable) Validate() error {
	switch {
	case r.BaseFarePerLegCents < 0 || r.PrimaryPerMileCents < 0 || r.OutsidePerMileCents < 0:
		return errors.New("rates must not be negative")
	case r.VeteranDiscountRate < 0 || r.VeteranDiscountRate >= 1:
		return errors.New("veteran discount rate must be in [0, 1)")
	case r.DayStartHour < 0 || r.DayStartHour > 23 || r.DayEndHour < 0 || r.DayEndHour > 24:
		return errors.New("day boundary hours out of range")
	case r.DayEndHour <= r.DayStartHour:
		return errors.New("day end hour must be after day start hour")
	}
	return nil
}
