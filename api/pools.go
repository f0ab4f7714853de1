package api

import (
	"github.com/MinterTeam/minter-lottery/core/types"
	"github.com/gin-gonic/gin"
	"github.com/holiman/uint256"
)

type PoolsResponse struct {
	Short  string `json:"short"`
	Medium string `json:"medium"`
	Long   string `json:"long"`
}

func (s *Server) Pools(c *gin.Context) {
	cState, ok := s.checkState(c)
	if !ok {
		return
	}

	var short, medium, long *uint256.Int
	if cState != nil {
		short = cState.Pools().GetAmount(types.CadenceShort)
		medium = cState.Pools().GetAmount(types.CadenceMedium)
		long = cState.Pools().GetAmount(types.CadenceLong)
	} else {
		short, medium, long = s.token.GetPools()
	}

	s.ok(c, PoolsResponse{Short: short.Dec(), Medium: medium.Dec(), Long: long.Dec()})
}

type LastDistributionsResponse struct {
	Short  uint64 `json:"short"`
	Medium uint64 `json:"medium"`
	Long   uint64 `json:"long"`
}

func (s *Server) LastDistributions(c *gin.Context) {
	cState, ok := s.checkState(c)
	if !ok {
		return
	}

	var response LastDistributionsResponse
	if cState != nil {
		response.Short = cState.Pools().GetLastDistribution(types.CadenceShort)
		response.Medium = cState.Pools().GetLastDistribution(types.CadenceMedium)
		response.Long = cState.Pools().GetLastDistribution(types.CadenceLong)
	} else {
		response.Short, response.Medium, response.Long = s.token.GetLastDistributions()
	}

	s.ok(c, response)
}
