package billing

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRazorpayCreateOrder(t *testing.T) {
	var got OrderRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/orders", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "rzp_test_key", user)
		assert.Equal(t, "shh", pass)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"order_abc","amount":39900,"currency":"INR","receipt":"PRO_1_2","status":"created"}`))
	}))
	defer srv.Close()

	c := &RazorpayClient{KeyID: "rzp_test_key", KeySecret: "shh", APIBaseURL: srv.URL + "/v1/", HTTPClient: srv.Client()}
	order, err := c.CreateOrder(context.Background(), OrderRequest{
		Amount:   39900,
		Currency: "INR",
		Receipt:  "PRO_1_2",
		Notes:    map[string]string{"userId": "1"},
	})
	require.NoError(t, err)
	assert.Equal(t, "order_abc", order.ID)
	assert.Equal(t, int64(39900), order.Amount)
	assert.Equal(t, "PRO_1_2", got.Receipt)
	assert.Equal(t, "1", got.Notes["userId"])
}

func TestRazorpayCreateOrderErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":"BAD_REQUEST_ERROR"}}`))
	}))
	defer srv.Close()

	c := &RazorpayClient{KeyID: "k", KeySecret: "s", APIBaseURL: srv.URL, HTTPClient: srv.Client()}
	_, err := c.CreateOrder(context.Background(), OrderRequest{Amount: 1, Currency: "INR"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=400")

	unconfigured := &RazorpayClient{APIBaseURL: srv.URL}
	_, err = unconfigured.CreateOrder(context.Background(), OrderRequest{Amount: 1, Currency: "INR"})
	assert.ErrorContains(t, err, "not configured")
}

func TestRazorpayCreateOrderHonoursContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := &RazorpayClient{KeyID: "k", KeySecret: "s", APIBaseURL: srv.URL, HTTPClient: srv.Client()}
	_, err := c.CreateOrder(ctx, OrderRequest{Amount: 1, Currency: "INR"})
	assert.ErrorIs(t, err, context.Canceled)
}
