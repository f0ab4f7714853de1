package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/MinterTeam/minter-lottery/core/code"
	"github.com/MinterTeam/minter-lottery/core/state"
	"github.com/MinterTeam/minter-lottery/core/statistics"
	"github.com/MinterTeam/minter-lottery/core/token"
	"github.com/MinterTeam/minter-lottery/core/types"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/handlers"
	"github.com/pkg/errors"
	"github.com/tendermint/tendermint/libs/log"
)

type Response struct {
	Code   uint32      `json:"code"`
	Result interface{} `json:"result,omitempty"`
	Log    string      `json:"log,omitempty"`
}

type Server struct {
	token     *token.Token
	logger    log.Logger
	statistic *statistics.Data
}

func NewServer(t *token.Token, logger log.Logger, statistic *statistics.Data) *Server {
	return &Server{token: t, logger: logger, statistic: statistic}
}

// Handler returns the router wrapped with CORS and gzip.
func (s *Server) Handler() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), s.measure)

	v := r.Group("/api")
	v.GET("/status", s.Status)
	v.GET("/balance/:address", s.Balance)
	v.GET("/allowance/:owner/:spender", s.Allowance)
	v.GET("/eligible/:address", s.Eligible)
	v.GET("/holders", s.Holders)
	v.GET("/pools", s.Pools)
	v.GET("/last_distributions", s.LastDistributions)
	v.GET("/events/:height", s.Events)
	v.POST("/transfer", s.Transfer)
	v.POST("/transfer_from", s.TransferFrom)
	v.POST("/approve", s.Approve)

	return handlers.CompressHandler(handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "POST"}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)(r))
}

// Run serves the API on addr (tcp://host:port) until ctx is done.
func (s *Server) Run(ctx context.Context, addr string) error {
	apiURL, err := url.Parse(addr)
	if err != nil {
		return errors.Wrapf(err, "failed to parse API address %s", addr)
	}

	srv := &http.Server{
		Addr:              apiURL.Host,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info("Starting API server", "addr", apiURL.Host)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}

func (s *Server) measure(c *gin.Context) {
	start := time.Now()
	c.Next()

	s.statistic.SetApiTime(time.Since(start), c.FullPath())
	s.logger.Debug("API request", "method", c.Request.Method, "path", c.Request.URL.Path, "status", c.Writer.Status())
}

func (s *Server) ok(c *gin.Context, result interface{}) {
	c.JSON(http.StatusOK, Response{Code: code.OK, Result: result})
}

func (s *Server) fail(c *gin.Context, status int, err error) {
	response := Response{Code: code.Of(err), Log: err.Error()}

	var e *code.Error
	if errors.As(err, &e) {
		response.Result = e.Info
	}

	c.JSON(status, response)
}

// failTx reports errors of ledger operations
func (s *Server) failTx(c *gin.Context, err error) {
	switch code.Of(err) {
	case code.InsufficientFunds, code.InsufficientAllowance:
		s.fail(c, http.StatusPreconditionFailed, err)
	default:
		s.fail(c, http.StatusBadRequest, err)
	}
}

func (s *Server) address(c *gin.Context, param string) (types.Address, bool) {
	address, err := types.ParseAddress(c.Param(param))
	if err != nil {
		s.fail(c, http.StatusBadRequest, code.NewWrongAddress(c.Param(param), err.Error()))
		return types.Address{}, false
	}

	return address, true
}

// checkState returns state of ?height= or nil for the latest one
func (s *Server) checkState(c *gin.Context) (*state.CheckState, bool) {
	heightParam := c.Query("height")
	if heightParam == "" {
		return nil, true
	}

	height, err := strconv.ParseUint(heightParam, 10, 64)
	if err != nil {
		s.fail(c, http.StatusBadRequest, code.NewDecodeError("height", err))
		return nil, false
	}

	cState, err := s.token.CheckState(height)
	if err != nil {
		s.fail(c, http.StatusNotFound, err)
		return nil, false
	}

	return cState, true
}
