package events

// Fund identifica el vehículo de inversión que organiza el evento.
type Fund string

const (
	FundIPAE1 Fund = "IPAE_1"
	FundIPAE2 Fund = "IPAE_2"
	FundIPAE3 Fund = "IPAE_3"
)

func (f Fund) Valid() bool {
	switch f {
	case FundIPAE1, FundIPAE2, FundIPAE3:
		return true
	}
	return false
}

// Status: DRAFT -> LOCKED -> LIVE -> CLOSED. Solo LOCKED -> LIVE pasa por el go/no-go.
type Status string

const (
	StatusDraft  Status = "DRAFT"
	StatusLocked Status = "LOCKED"
	StatusLive   Status = "LIVE"
	StatusClosed Status = "CLOSED"
)

func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusLocked, StatusLive, StatusClosed:
		return true
	}
	return false
}
