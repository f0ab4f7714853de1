package api

import (
	"github.com/MinterTeam/minter-lottery/version"
	"github.com/gin-gonic/gin"
)

type StatusResponse struct {
	Version           string  `json:"version"`
	LatestStateHeight int64   `json:"latest_state_height"`
	Time              uint64  `json:"time"`
	GenesisTime       uint64  `json:"genesis_time"`
	TxCount           uint64  `json:"tx_count"`
	Holders           int     `json:"holders"`
	Vault             string  `json:"vault"`
	TotalTax          string  `json:"total_tax"`
	TotalPaid         string  `json:"total_paid"`
	Forfeited         string  `json:"forfeited"`
	Dust              string  `json:"dust"`
	LastCommitSeconds float64 `json:"last_commit_seconds"`
}

func (s *Server) Status(c *gin.Context) {
	status := s.token.Status()

	s.ok(c, StatusResponse{
		Version:           version.Version,
		LatestStateHeight: status.Height,
		Time:              status.Time,
		GenesisTime:       status.GenesisTime,
		TxCount:           status.TxCount,
		Holders:           status.Holders,
		Vault:             status.Vault.Dec(),
		TotalTax:          status.TotalTax.Dec(),
		TotalPaid:         status.TotalPaid.Dec(),
		Forfeited:         status.Forfeited.Dec(),
		Dust:              status.Dust.Dec(),
		LastCommitSeconds: s.statistic.GetLastCommitInfo().Duration,
	})
}
