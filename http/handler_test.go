package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/xapay/xapay-go"
	"github.com/xapay/xapay-go/address"
	"github.com/xapay/xapay-go/engine"
	"github.com/xapay/xapay-go/keys"
	"github.com/xapay/xapay-go/store"
)

func newTestHandler(t *testing.T) (*Handler, xapay.Config) {
	t.Helper()

	currency, err := xapay.CurrencyFromCode("JPY")
	if err != nil {
		t.Fatalf("CurrencyFromCode: %v", err)
	}
	cfg := xapay.Config{
		Issuer:   xapay.Account{0x01},
		Operator: xapay.Account{0x02},
		Currency: currency,
		Decimals: 2,
	}

	eng, err := engine.New(cfg, store.NewMemory(), engine.WithResolver(keys.NewDirectory()))
	if err != nil {
		t.Fatalf("engine.New: %v", err)
	}
	return NewHandler(eng, cfg.Decimals, nil), cfg
}

func postTrigger(t *testing.T, h *Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/triggers", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandlerDeposit(t *testing.T) {
	h, cfg := newTestHandler(t)

	source := address.Encode(xapay.Account{0x0A})
	issuer := address.Encode(cfg.Issuer)
	body := `{
		"kind": "value_transfer",
		"source": "` + source + `",
		"amount": {"issuer": "` + issuer + `", "currency": "JPY", "value": "100"}
	}`

	rec := postTrigger(t, h, body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	var outcome xapay.Outcome
	if err := json.Unmarshal(rec.Body.Bytes(), &outcome); err != nil {
		t.Fatalf("unmarshal outcome: %v", err)
	}
	if !outcome.Committed || outcome.Code != xapay.CodeOK {
		t.Errorf("outcome = %+v, want commit", outcome)
	}
}

func TestHandlerRejectionIsStill200(t *testing.T) {
	h, _ := newTestHandler(t)

	// A non-operator instruction is a well-formed envelope whose invocation
	// rejects; that is an engine outcome, not a transport failure.
	source := address.Encode(xapay.Account{0x0A})
	body := `{"kind": "instruction", "source": "` + source + `"}`

	rec := postTrigger(t, h, body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
	}

	var outcome xapay.Outcome
	if err := json.Unmarshal(rec.Body.Bytes(), &outcome); err != nil {
		t.Fatalf("unmarshal outcome: %v", err)
	}
	if outcome.Committed {
		t.Error("expected rejection")
	}
	if outcome.Code != xapay.CodeUnauthorizedTrigger {
		t.Errorf("code = %d, want %d", outcome.Code, xapay.CodeUnauthorizedTrigger)
	}
}

func TestHandlerBadEnvelope(t *testing.T) {
	h, _ := newTestHandler(t)

	t.Run("invalid json", func(t *testing.T) {
		rec := postTrigger(t, h, "not json")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("bad source address", func(t *testing.T) {
		rec := postTrigger(t, h, `{"kind": "instruction", "source": "bogus"}`)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestHandlerMethodNotAllowed(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/triggers", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
	if allow := rec.Header().Get("Allow"); allow != http.MethodPost {
		t.Errorf("Allow = %q, want POST", allow)
	}
}
