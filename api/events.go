package api

import (
	"net/http"
	"strconv"

	"github.com/MinterTeam/minter-lottery/core/code"
	"github.com/gin-gonic/gin"
)

type EventResponse struct {
	Type  string      `json:"type"`
	Value interface{} `json:"value"`
}

type EventsResponse struct {
	Events []EventResponse `json:"events"`
}

func (s *Server) Events(c *gin.Context) {
	height, err := strconv.ParseUint(c.Param("height"), 10, 32)
	if err != nil {
		s.fail(c, http.StatusBadRequest, code.NewDecodeError("height", err))
		return
	}

	events := s.token.Events(uint32(height))
	response := EventsResponse{Events: make([]EventResponse, 0, len(events))}
	for _, event := range events {
		response.Events = append(response.Events, EventResponse{
			Type:  event.Type(),
			Value: event,
		})
	}

	s.ok(c, response)
}
