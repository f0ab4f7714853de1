package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/holiman/uint256"
)

func TestAddressJSON(t *testing.T) {
	t.Parallel()

	address := HexToAddress("Mx04bea23efb744dc93b4fda4c20bf4a21c6e195f1")

	data, err := json.Marshal(address)
	if err != nil {
		t.Fatal(err)
	}

	if string(data) != `"Mx04bea23efb744dc93b4fda4c20bf4a21c6e195f1"` {
		t.Fatalf("unexpected json %s", data)
	}

	var decoded Address
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}

	if decoded != address {
		t.Fatalf("address not equal, want %s, got %s", address, decoded)
	}

	if err := json.Unmarshal([]byte(`"0x04bea23efb744dc93b4fda4c20bf4a21c6e195f1"`), &decoded); err == nil {
		t.Fatal("address without Mx prefix should not be decoded")
	}
}

func TestParseAddress(t *testing.T) {
	t.Parallel()

	if _, err := ParseAddress("Mx04bea23efb744dc93b4fda4c20bf4a21c6e195f1"); err != nil {
		t.Fatal(err)
	}

	for _, s := range []string{"", "Mx", "04bea23efb744dc93b4fda4c20bf4a21c6e195f1", "Mx04bea23efb744dc93b4fda4c20bf4a21c6e195", "Mxz4bea23efb744dc93b4fda4c20bf4a21c6e195f1"} {
		if _, err := ParseAddress(s); err == nil {
			t.Errorf("address %q should be invalid", s)
		}
	}
}

func TestCadence(t *testing.T) {
	t.Parallel()

	for _, c := range Cadences {
		parsed, err := NewCadence(c.String())
		if err != nil {
			t.Fatal(err)
		}
		if parsed != c {
			t.Fatalf("want %s, got %s", c, parsed)
		}
	}

	if _, err := NewCadence("weekly"); err == nil {
		t.Fatal("unknown cadence should fail")
	}
}

func TestLotteryParamsValidate(t *testing.T) {
	t.Parallel()

	params := DefaultLotteryParams()
	if err := params.Validate(); err != nil {
		t.Fatal(err)
	}

	if params.LargeHolderBalance().Uint64() != 10000 {
		t.Fatalf("large holder balance should be twice the minimum, got %s", params.LargeHolderBalance().Dec())
	}

	tooMuch := DefaultLotteryParams()
	tooMuch.Shares = [CadencesCount]uint64{50, 30, 21}
	if err := tooMuch.Validate(); err == nil {
		t.Fatal("shares over 100 should fail")
	}

	zeroMin := DefaultLotteryParams()
	zeroMin.MinEligibleBalance = uint256.NewInt(0)
	if err := zeroMin.Validate(); err == nil {
		t.Fatal("zero minimum should fail")
	}

	shortDuration := DefaultLotteryParams()
	shortDuration.Durations[CadenceMedium] = time.Millisecond
	if err := shortDuration.Validate(); err == nil {
		t.Fatal("sub-second cadence should fail")
	}
}

func TestAppStateVerify(t *testing.T) {
	t.Parallel()

	a := HexToAddress("Mx04bea23efb744dc93b4fda4c20bf4a21c6e195f1")
	state := AppState{
		GenesisTime: 1600000000,
		Accounts: []Account{
			{Address: a, Balance: "100000000"},
			{Address: LotteryVaultAddress, Balance: "10"},
		},
		Pools: []Pool{
			{Cadence: "short", Amount: "5"},
			{Cadence: "medium", Amount: "3"},
		},
		Holders: []Address{a},
	}

	if err := state.Verify(); err != nil {
		t.Fatal(err)
	}

	state.Pools = append(state.Pools, Pool{Cadence: "long", Amount: "3"})
	if err := state.Verify(); err == nil {
		t.Fatal("pools exceeding vault balance should fail")
	}

	state.Pools = state.Pools[:2]
	state.Accounts = append(state.Accounts, Account{Address: a, Balance: "1"})
	if err := state.Verify(); err == nil {
		t.Fatal("duplicated account should fail")
	}
}
