package domain

import "time"

// SubmitStatus is the outcome of trying to push a bid to the marketplace.
// The bid is always stored locally; this only records what happened upstream.
type SubmitStatus string

const (
	// SubmitSent means the marketplace accepted the bid.
	SubmitSent SubmitStatus = "sent"
	// SubmitError means the marketplace was reached but rejected the bid,
	// or the request failed in flight.
	SubmitError SubmitStatus = "error"
	// SubmitNotSent means no submission was attempted.
	SubmitNotSent SubmitStatus = "not_sent"
	// SubmitStored is the default for bids created directly via the CRUD API.
	SubmitStored SubmitStatus = "stored"
)

func (s SubmitStatus) Valid() bool {
	switch s {
	case SubmitSent, SubmitError, SubmitNotSent, SubmitStored:
		return true
	}
	return false
}

// SubmitOutcome carries the upstream response only for the variants that
// actually talked to the marketplace.
type SubmitOutcome struct {
	Status   SubmitStatus
	External map[string]any // raw marketplace response; nil for NotSent
}

type Bid struct {
	ID        string    `json:"_id"`
	UserEmail string    `json:"user_email"`
	Title     string    `json:"title"`
	Link      string    `json:"link"`
	Amount    float64   `json:"amount"`
	Period    int       `json:"period"`
	BidText   string    `json:"bid_text"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
