package value

type Outcome string

const (
	OutcomeAccepted  Outcome = "accepted"
	OutcomeCountered Outcome = "countered"
)

func (o Outcome) String() string {
	return string(o)
}

// AskBand classifies how far below the reference price a request is.
type AskBand string

const (
	AskModest       AskBand = "modest"
	AskAggressive   AskBand = "aggressive"
	AskUnreasonable AskBand = "unreasonable"
)

func (b AskBand) String() string {
	return string(b)
}
