package value

// Phase is the state of a negotiation session.
type Phase string

const (
	PhaseInput       Phase = "input"
	PhaseNegotiating Phase = "negotiating"
	PhaseSettled     Phase = "settled"
	PhaseExpired     Phase = "expired"
	PhaseRejected    Phase = "rejected"
	PhaseBooked      Phase = "booked"
	PhaseClosed      Phase = "closed"
)

func (p Phase) String() string {
	return string(p)
}

// AcceptsTarget reports whether a target price may be submitted in this phase.
func (p Phase) AcceptsTarget() bool {
	return p == PhaseInput || p == PhaseRejected
}

// Terminal phases never transition again.
func (p Phase) Terminal() bool {
	return p == PhaseBooked || p == PhaseClosed
}
