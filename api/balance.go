package api

import (
	"github.com/MinterTeam/minter-lottery/core/types"
	"github.com/gin-gonic/gin"
)

type BalanceResponse struct {
	Address types.Address `json:"address"`
	Balance string        `json:"balance"`
}

func (s *Server) Balance(c *gin.Context) {
	address, ok := s.address(c, "address")
	if !ok {
		return
	}

	cState, ok := s.checkState(c)
	if !ok {
		return
	}

	balance := s.token.BalanceOf(address)
	if cState != nil {
		balance = cState.Accounts().GetBalance(address)
	}

	s.ok(c, BalanceResponse{Address: address, Balance: balance.Dec()})
}

type AllowanceResponse struct {
	Owner   types.Address `json:"owner"`
	Spender types.Address `json:"spender"`
	Value   string        `json:"value"`
}

func (s *Server) Allowance(c *gin.Context) {
	owner, ok := s.address(c, "owner")
	if !ok {
		return
	}
	spender, ok := s.address(c, "spender")
	if !ok {
		return
	}

	cState, ok := s.checkState(c)
	if !ok {
		return
	}

	value := s.token.Allowance(owner, spender)
	if cState != nil {
		value = cState.Accounts().GetAllowance(owner, spender)
	}

	s.ok(c, AllowanceResponse{Owner: owner, Spender: spender, Value: value.Dec()})
}

type EligibleResponse struct {
	Address  types.Address `json:"address"`
	Eligible bool          `json:"eligible"`
}

func (s *Server) Eligible(c *gin.Context) {
	address, ok := s.address(c, "address")
	if !ok {
		return
	}

	cState, ok := s.checkState(c)
	if !ok {
		return
	}

	eligible := s.token.IsEligibleForLottery(address)
	if cState != nil {
		eligible = cState.Holders().IsEligible(address)
	}

	s.ok(c, EligibleResponse{Address: address, Eligible: eligible})
}

type HoldersResponse struct {
	Count   int             `json:"count"`
	Holders []types.Address `json:"holders"`
}

func (s *Server) Holders(c *gin.Context) {
	cState, ok := s.checkState(c)
	if !ok {
		return
	}

	holders := s.token.Holders()
	if cState != nil {
		holders = cState.Holders().List()
	}

	s.ok(c, HoldersResponse{Count: len(holders), Holders: holders})
}
