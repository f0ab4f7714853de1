package api

import (
	"net/http"

	"github.com/MinterTeam/minter-lottery/core/code"
	"github.com/MinterTeam/minter-lottery/core/events"
	"github.com/MinterTeam/minter-lottery/core/transaction"
	"github.com/MinterTeam/minter-lottery/core/types"
	"github.com/gin-gonic/gin"
	"github.com/holiman/uint256"
)

type TransferRequest struct {
	Caller types.Address `json:"caller" binding:"required"`
	To     types.Address `json:"to" binding:"required"`
	Amount string        `json:"amount" binding:"required"`
}

type TransferFromRequest struct {
	Caller types.Address `json:"caller" binding:"required"`
	From   types.Address `json:"from" binding:"required"`
	To     types.Address `json:"to" binding:"required"`
	Amount string        `json:"amount" binding:"required"`
}

type ApproveRequest struct {
	Owner   types.Address `json:"owner" binding:"required"`
	Spender types.Address `json:"spender" binding:"required"`
	Value   string        `json:"value" binding:"required"`
}

type PayoutResponse struct {
	Cadence          string        `json:"cadence"`
	Winner           types.Address `json:"winner"`
	Amount           string        `json:"amount"`
	LargeHolderBonus bool          `json:"large_holder_bonus"`
}

type TransferResponse struct {
	Amount    string           `json:"amount"`
	Tax       string           `json:"tax"`
	Net       string           `json:"net"`
	Shares    []string         `json:"shares"`
	Remainder string           `json:"remainder"`
	Payouts   []PayoutResponse `json:"payouts"`
}

type ApproveResponse struct {
	Events events.Events `json:"events"`
}

func (s *Server) Transfer(c *gin.Context) {
	var req TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, http.StatusBadRequest, code.NewDecodeError("body", err))
		return
	}

	amount, ok := s.amount(c, "amount", req.Amount)
	if !ok {
		return
	}

	receipt, err := s.token.Transfer(req.Caller, req.To, amount)
	if err != nil {
		s.failTx(c, err)
		return
	}

	s.ok(c, transferResponse(receipt))
}

func (s *Server) TransferFrom(c *gin.Context) {
	var req TransferFromRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, http.StatusBadRequest, code.NewDecodeError("body", err))
		return
	}

	amount, ok := s.amount(c, "amount", req.Amount)
	if !ok {
		return
	}

	receipt, err := s.token.TransferFrom(req.Caller, req.From, req.To, amount)
	if err != nil {
		s.failTx(c, err)
		return
	}

	s.ok(c, transferResponse(receipt))
}

func (s *Server) Approve(c *gin.Context) {
	var req ApproveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, http.StatusBadRequest, code.NewDecodeError("body", err))
		return
	}

	value, ok := s.amount(c, "value", req.Value)
	if !ok {
		return
	}

	receipt, err := s.token.Approve(req.Owner, req.Spender, value)
	if err != nil {
		s.failTx(c, err)
		return
	}

	s.ok(c, ApproveResponse{Events: receipt.Events})
}

func (s *Server) amount(c *gin.Context, field string, value string) (*uint256.Int, bool) {
	amount, err := uint256.FromDecimal(value)
	if err != nil {
		s.fail(c, http.StatusBadRequest, code.NewDecodeError(field, err))
		return nil, false
	}

	return amount, true
}

func transferResponse(receipt *transaction.Receipt) TransferResponse {
	response := TransferResponse{
		Amount:    receipt.Split.Amount.Dec(),
		Tax:       receipt.Split.Tax.Dec(),
		Net:       receipt.Split.Net.Dec(),
		Remainder: receipt.Split.Remainder.Dec(),
		Payouts:   make([]PayoutResponse, 0, len(receipt.Payouts)),
	}
	for _, share := range receipt.Split.Shares {
		response.Shares = append(response.Shares, share.Dec())
	}
	for _, payout := range receipt.Payouts {
		response.Payouts = append(response.Payouts, PayoutResponse{
			Cadence:          payout.Cadence.String(),
			Winner:           payout.Winner,
			Amount:           payout.Amount.Dec(),
			LargeHolderBonus: payout.LargeHolderBonus,
		})
	}

	return response
}
