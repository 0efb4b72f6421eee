package nats

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"gamebank/internal/engine"
	"gamebank/internal/model"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	e := engine.New(engine.Options{TopUpDelay: 5 * time.Millisecond, PurchaseDelay: 5 * time.Millisecond})
	t.Cleanup(func() { _ = e.Close(context.Background()) })
	return NewHandler(e, nil)
}

func TestDispatch_Transfer(t *testing.T) {
	h := newTestHandler(t)

	reply := h.Dispatch(context.Background(), SubjectTransfer, []byte(`{"amount":"20","recipient_card":"1111"}`))
	if !reply.OK {
		t.Fatalf("unexpected failure: %+v", reply)
	}
	var res model.TransferResult
	if err := json.Unmarshal(reply.Result, &res); err != nil {
		t.Fatal(err)
	}
	if !res.Balance.Equal(decimal.RequireFromString("29.8")) {
		t.Errorf("balance = %s", res.Balance)
	}
}

func TestDispatch_TopUpWait(t *testing.T) {
	h := newTestHandler(t)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	reply := h.Dispatch(ctx, SubjectTopUp,
		[]byte(`{"request":{"amount":"200","card_number":"4276160000000000","bank":"alfa"},"wait":true}`))
	if !reply.OK {
		t.Fatalf("unexpected failure: %+v", reply)
	}
	var tx model.Transaction
	if err := json.Unmarshal(reply.Result, &tx); err != nil {
		t.Fatal(err)
	}
	if tx.Counterparty != "Alfa-Bank" || !tx.Amount.Equal(decimal.NewFromInt(200)) {
		t.Errorf("unexpected transaction %+v", tx)
	}
}

func TestDispatch_Errors(t *testing.T) {
	h := newTestHandler(t)
	ctx := context.Background()

	reply := h.Dispatch(ctx, SubjectTerminal, []byte(`{"name":"Coffee","price":"10"}`))
	if reply.OK || reply.Category != "invalid-amount" {
		t.Errorf("unexpected reply %+v", reply)
	}
	reply = h.Dispatch(ctx, SubjectPurchase, []byte(`{"request":{"terminal_ref":"nope"}}`))
	if reply.OK || reply.Category != "unknown-terminal" {
		t.Errorf("unexpected reply %+v", reply)
	}
	reply = h.Dispatch(ctx, SubjectTransfer, []byte(`{`))
	if reply.OK || reply.Category != "" {
		t.Errorf("unexpected reply %+v", reply)
	}
	reply = h.Dispatch(ctx, "gamebank.commands.unknown", nil)
	if reply.OK {
		t.Error("unknown subject accepted")
	}
}

func TestDispatch_State(t *testing.T) {
	h := newTestHandler(t)
	reply := h.Dispatch(context.Background(), SubjectState, nil)
	if !reply.OK {
		t.Fatalf("unexpected failure: %+v", reply)
	}
	var s model.Snapshot
	if err := json.Unmarshal(reply.Result, &s); err != nil {
		t.Fatal(err)
	}
	if !s.Balance.Equal(decimal.NewFromInt(50)) {
		t.Errorf("balance = %s", s.Balance)
	}
}
