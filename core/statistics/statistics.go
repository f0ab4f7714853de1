package statistics

import (
	"math/big"
	"strconv"
	"sync"
	"time"

	"github.com/MinterTeam/minter-lottery/core/types"
	"github.com/holiman/uint256"
	"github.com/prometheus/client_golang/prometheus"
)

type Data struct {
	Commit commitEnd
	Api    apiResponseTime
	Token  tokenMetrics
}

type LastCommitInfo struct {
	Height    int64
	Duration  float64
	Timestamp float64
}

type commitEnd struct {
	sync.RWMutex
	HeightProm     prometheus.Gauge
	DurationProm   prometheus.Gauge
	LastCommitInfo LastCommitInfo
}

type apiResponseTime struct {
	sync.Mutex
	responseTime *prometheus.GaugeVec
}

type tokenMetrics struct {
	pools     *prometheus.GaugeVec
	holders   prometheus.Gauge
	transfers *prometheus.CounterVec
	tax       prometheus.Counter
	payouts   *prometheus.CounterVec
}

// New creates lottery metrics and registers them in registerer.
func New(registerer prometheus.Registerer) *Data {
	apiVec := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "api",
			Help: "Api DurationProm Paths",
		},
		[]string{"path"},
	)
	height := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "height",
			Help: "Last committed state version",
		},
	)
	commitDuration := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "last_commit_duration",
			Help: "Last commit duration",
		},
	)
	pools := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "lottery_pool_amount",
			Help: "Accumulated amount of a lottery pool",
		},
		[]string{"cadence"},
	)
	holders := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "lottery_eligible_holders",
			Help: "Accounts eligible for the lottery",
		},
	)
	transfers := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lottery_transfers_total",
			Help: "Transfers by response code",
		},
		[]string{"code"},
	)
	tax := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "lottery_tax_collected_total",
			Help: "Withheld tax",
		},
	)
	payouts := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lottery_payouts_total",
			Help: "Winner payouts by cadence",
		},
		[]string{"cadence"},
	)

	registerer.MustRegister(apiVec, height, commitDuration, pools, holders, transfers, tax, payouts)

	return &Data{
		Commit: commitEnd{HeightProm: height, DurationProm: commitDuration},
		Api:    apiResponseTime{responseTime: apiVec},
		Token: tokenMetrics{
			pools:     pools,
			holders:   holders,
			transfers: transfers,
			tax:       tax,
			payouts:   payouts,
		},
	}
}

func (d *Data) SetCommit(height int64, start time.Time, end time.Time) {
	if d == nil {
		return
	}

	d.Commit.Lock()
	defer d.Commit.Unlock()

	durationSeconds := end.Sub(start).Seconds()

	d.Commit.HeightProm.Set(float64(height))
	d.Commit.DurationProm.Set(durationSeconds)

	d.Commit.LastCommitInfo.Height = height
	d.Commit.LastCommitInfo.Duration = durationSeconds
	d.Commit.LastCommitInfo.Timestamp = float64(end.Unix())
}

func (d *Data) GetLastCommitInfo() LastCommitInfo {
	if d == nil {
		return LastCommitInfo{}
	}

	d.Commit.RLock()
	defer d.Commit.RUnlock()

	return d.Commit.LastCommitInfo
}

func (d *Data) SetApiTime(duration time.Duration, path string) {
	if d == nil {
		return
	}

	d.Api.Lock()
	defer d.Api.Unlock()

	d.Api.responseTime.With(prometheus.Labels{"path": path}).Set(duration.Seconds())
}

func (d *Data) SetPool(cadence types.Cadence, amount *uint256.Int) {
	if d == nil {
		return
	}

	d.Token.pools.With(prometheus.Labels{"cadence": cadence.String()}).Set(toFloat(amount))
}

func (d *Data) SetHolders(count int) {
	if d == nil {
		return
	}

	d.Token.holders.Set(float64(count))
}

func (d *Data) AddTransfer(code uint32) {
	if d == nil {
		return
	}

	d.Token.transfers.With(prometheus.Labels{"code": codeLabel(code)}).Inc()
}

func (d *Data) AddTax(amount *uint256.Int) {
	if d == nil {
		return
	}

	d.Token.tax.Add(toFloat(amount))
}

func (d *Data) AddPayout(cadence types.Cadence) {
	if d == nil {
		return
	}

	d.Token.payouts.With(prometheus.Labels{"cadence": cadence.String()}).Inc()
}

func toFloat(amount *uint256.Int) float64 {
	f, _ := new(big.Float).SetInt(amount.ToBig()).Float64()
	return f
}

func codeLabel(code uint32) string {
	return strconv.FormatUint(uint64(code), 10)
}
