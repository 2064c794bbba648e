package paystack

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shine/config"
	"shine/pkg/errs"
	"shine/pkg/gateway/types"
)

func newTestAdapter(serverURL string) *Adapter {
	return NewAdapter(config.PaystackConfig{
		BaseURL:    serverURL,
		SecretKey:  "sk_test",
		Timeout:    2,
		MaxRetries: 2,
	})
}

func TestCreateSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/transaction/initialize", r.URL.Path)
		require.Equal(t, "Bearer sk_test", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"status":true,"message":"Authorization URL created","data":{
			"authorization_url":"https://checkout.example/abc123",
			"access_code":"abc123",
			"reference":"ref-1"}}`)
	}))
	defer server.Close()

	session, err := newTestAdapter(server.URL).CreateSession(context.Background(), &types.SessionRequest{
		Reference: "ref-1",
		Amount:    10000,
		Currency:  "NGN",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://checkout.example/abc123", session.AuthorizationURL)
	assert.Equal(t, "ref-1", session.Reference)
}

func TestCreateSessionRejectsBadInput(t *testing.T) {
	adapter := newTestAdapter("http://unreachable.invalid")

	_, err := adapter.CreateSession(context.Background(), &types.SessionRequest{Reference: "ref", Amount: 0})
	assert.Error(t, err)

	_, err = adapter.CreateSession(context.Background(), &types.SessionRequest{Amount: 100})
	assert.Error(t, err)
}

func TestVerifyTransactionNormalization(t *testing.T) {
	cases := []struct {
		gatewayStatus string
		want          types.Outcome
	}{
		{"success", types.OutcomeSuccess},
		{"failed", types.OutcomeFailed},
		{"abandoned", types.OutcomeAbandoned},
		{"ongoing", types.OutcomeUnknown},
		{"queued", types.OutcomeUnknown},
		{"reversed", types.OutcomeUnknown},
	}

	for _, tc := range cases {
		t.Run(tc.gatewayStatus, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, "/transaction/verify/ref-1", r.URL.Path)
				w.Header().Set("Content-Type", "application/json")
				fmt.Fprintf(w, `{"status":true,"message":"Verification successful","data":{
					"status":%q,"amount":10000,"currency":"NGN","paid_at":"2026-08-28T10:00:00Z"}}`, tc.gatewayStatus)
			}))
			defer server.Close()

			v, err := newTestAdapter(server.URL).VerifyTransaction(context.Background(), "ref-1")
			require.NoError(t, err)
			assert.Equal(t, tc.want, v.Outcome)
			assert.Equal(t, int64(10000), v.AmountCharged)
			if tc.want == types.OutcomeSuccess {
				require.NotNil(t, v.PaidAt)
			}
		})
	}
}

func TestVerifyTransactionRetriesServerErrors(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"status":true,"message":"ok","data":{"status":"success","amount":500,"currency":"NGN"}}`)
	}))
	defer server.Close()

	v, err := newTestAdapter(server.URL).VerifyTransaction(context.Background(), "ref-1")
	require.NoError(t, err)
	assert.Equal(t, types.OutcomeSuccess, v.Outcome)
	assert.Equal(t, 3, calls)
}

func TestVerifyTransactionGatewayDown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := newTestAdapter(server.URL).VerifyTransaction(context.Background(), "ref-1")
	assert.ErrorIs(t, err, errs.ErrGatewayUnavailable)
}
