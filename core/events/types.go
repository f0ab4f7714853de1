package events

import (
	"github.com/MinterTeam/minter-lottery/core/types"
	"github.com/holiman/uint256"
	"github.com/tendermint/go-amino"
)

// Event type names
const (
	TypeWinnerPaidEvent = "lottery/WinnerPaidEvent"
	TypeTransferEvent   = "lottery/TransferEvent"
	TypeApprovalEvent   = "lottery/ApprovalEvent"
)

func registerCompact(codec *amino.Codec) {
	codec.RegisterInterface((*compact)(nil), nil)
	codec.RegisterConcrete(&winnerPaid{}, "lottery/compact/WinnerPaid", nil)
	codec.RegisterConcrete(&transfer{}, "lottery/compact/Transfer", nil)
	codec.RegisterConcrete(&approval{}, "lottery/compact/Approval", nil)
}

type Event interface {
	Type() string
	convert() compact
}

type compact interface {
	compile() Event
}

type Events []Event

func amountBytes(s string) []byte {
	v, err := uint256.FromDecimal(s)
	if err != nil {
		return nil
	}
	return v.Bytes()
}

func amountString(b []byte) string {
	return new(uint256.Int).SetBytes(b).Dec()
}

type winnerPaid struct {
	Cadence          uint32
	Winner           types.Address
	Amount           []byte
	Time             uint64
	LargeHolderBonus bool
}

func (w *winnerPaid) compile() Event {
	event := new(WinnerPaidEvent)
	event.Cadence = types.Cadence(w.Cadence).String()
	event.Winner = w.Winner
	event.Amount = amountString(w.Amount)
	event.Time = w.Time
	event.LargeHolderBonus = w.LargeHolderBonus
	return event
}

// WinnerPaidEvent is emitted once per cadence payout that actually moved funds.
type WinnerPaidEvent struct {
	Cadence          string        `json:"cadence"`
	Winner           types.Address `json:"winner"`
	Amount           string        `json:"amount"`
	Time             uint64        `json:"time"`
	LargeHolderBonus bool          `json:"large_holder_bonus"`
}

func (e *WinnerPaidEvent) Type() string {
	return TypeWinnerPaidEvent
}

func (e *WinnerPaidEvent) convert() compact {
	cadence, _ := types.NewCadence(e.Cadence)
	return &winnerPaid{
		Cadence:          uint32(cadence),
		Winner:           e.Winner,
		Amount:           amountBytes(e.Amount),
		Time:             e.Time,
		LargeHolderBonus: e.LargeHolderBonus,
	}
}

type transfer struct {
	From    types.Address
	To      types.Address
	Spender types.Address
	Amount  []byte
	Tax     []byte
}

func (t *transfer) compile() Event {
	event := new(TransferEvent)
	event.From = t.From
	event.To = t.To
	event.Spender = t.Spender
	event.Amount = amountString(t.Amount)
	event.Tax = amountString(t.Tax)
	return event
}

// TransferEvent is emitted for every successful transfer. Spender is zero for direct transfers.
type TransferEvent struct {
	From    types.Address `json:"from"`
	To      types.Address `json:"to"`
	Spender types.Address `json:"spender"`
	Amount  string        `json:"amount"`
	Tax     string        `json:"tax"`
}

func (e *TransferEvent) Type() string {
	return TypeTransferEvent
}

func (e *TransferEvent) convert() compact {
	return &transfer{
		From:    e.From,
		To:      e.To,
		Spender: e.Spender,
		Amount:  amountBytes(e.Amount),
		Tax:     amountBytes(e.Tax),
	}
}

type approval struct {
	Owner   types.Address
	Spender types.Address
	Value   []byte
}

func (a *approval) compile() Event {
	event := new(ApprovalEvent)
	event.Owner = a.Owner
	event.Spender = a.Spender
	event.Value = amountString(a.Value)
	return event
}

type ApprovalEvent struct {
	Owner   types.Address `json:"owner"`
	Spender types.Address `json:"spender"`
	Value   string        `json:"value"`
}

func (e *ApprovalEvent) Type() string {
	return TypeApprovalEvent
}

func (e *ApprovalEvent) convert() compact {
	return &approval{
		Owner:   e.Owner,
		Spender: e.Spender,
		Value:   amountBytes(e.Value),
	}
}
