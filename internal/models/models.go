package models

import "time"

// WheelchairMode describes the mobility equipment attached to a trip.
type WheelchairMode string

const (
	WheelchairNone     WheelchairMode = "none"
	WheelchairPersonal WheelchairMode = "personal"
	WheelchairRental   WheelchairMode = "rental"
)

// ClientCategory distinguishes direct riders from facility-contract riders.
type ClientCategory string

const (
	ClientIndividual ClientCategory = "individual"
	ClientFacility   ClientCategory = "facility"
)

// Source tags how a lookup result was obtained, so a genuine answer can be
// told apart from a masked collaborator outage downstream.
type Source string

const (
	SourceResolved  Source = "resolved"
	SourceEstimated Source = "estimated"
	SourceDefaulted Source = "defaulted"
)

// TripRequest is the inbound pricing request. Distance, when present, is a
// caller-supplied override: a bare number, {"miles": n} or {"distance": n}.
type TripRequest struct {
	AccountID            string         `json:"account_id"`
	PickupAddress        string         `json:"pickup_address"`
	DestinationAddress   string         `json:"destination_address"`
	PickupAt             string         `json:"pickup_at"`
	RoundTrip            bool           `json:"round_trip"`
	Wheelchair           WheelchairMode `json:"wheelchair"`
	AdditionalPassengers int            `json:"additional_passengers"`
	Emergency            bool           `json:"emergency"`
	ClientCategory       ClientCategory `json:"client_category"`
	Veteran              bool           `json:"veteran"`
	Distance             any            `json:"distance,omitempty"`
}

type DistanceResult struct {
	Miles        float64 `json:"miles"`
	DurationText string  `json:"duration_text,omitempty"`
	Estimated    bool    `json:"estimated"`
	Source       Source  `json:"source"`
}

type JurisdictionInfo struct {
	InPrimary         bool   `json:"in_primary"`
	CountiesCrossed   int    `json:"counties_crossed"`
	OriginCounty      string `json:"origin_county,omitempty"`
	DestinationCounty string `json:"destination_county,omitempty"`
	Source            Source `json:"source"`
}

type HolidayInfo struct {
	IsHoliday      bool   `json:"is_holiday"`
	Name           string `json:"name,omitempty"`
	Federal        bool   `json:"federal"`
	SurchargeCents int64  `json:"surcharge_cents"`
}

// Category tags are load-bearing strings: billing and report generation key
// off them downstream.
type Category string

const (
	CategoryBase     Category = "base"
	CategoryCharge   Category = "charge"
	CategoryPremium  Category = "premium"
	CategoryDiscount Category = "discount"
	CategoryTotal    Category = "total"
)

// LineItem amounts are integer cents; only discount items may be negative.
type LineItem struct {
	Label       string   `json:"label"`
	AmountCents int64    `json:"amount_cents"`
	Category    Category `json:"category"`
}

type PriceBreakdown struct {
	Items      []LineItem `json:"items"`
	TotalCents int64      `json:"total_cents"`
}

// QuoteSummary is the human-readable companion to the breakdown.
type QuoteSummary struct {
	TripType        string `json:"trip_type"`
	Distance        string `json:"distance"`
	Duration        string `json:"duration,omitempty"`
	Total           string `json:"total"`
	PremiumApplied  bool   `json:"premium_applied"`
	DiscountApplied bool   `json:"discount_applied"`
	Jurisdiction    string `json:"jurisdiction"`
	Holiday         string `json:"holiday,omitempty"`
	Passengers      int    `json:"passengers"`
}

// Quote is the envelope persisted and published after pricing. The pricing
// core itself never stores one; that is the callers' business.
type Quote struct {
	ID        string         `json:"id"`
	AccountID string         `json:"account_id,omitempty"`
	Request   TripRequest    `json:"request"`
	Breakdown PriceBreakdown `json:"breakdown"`
	Summary   QuoteSummary   `json:"summary"`
	DepositID string         `json:"deposit_id,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}
