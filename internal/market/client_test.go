package market

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hcsdev/hcs-manager/internal/common"
)

func TestParseListingURL(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		appID    string
		hashName string
		wantErr  bool
	}{
		{
			name:     "plain listing",
			url:      "https://steamcommunity.com/market/listings/730/AK-47%20%7C%20Redline%20%28Field-Tested%29",
			appID:    "730",
			hashName: "AK-47 | Redline (Field-Tested)",
		},
		{
			name:     "query string stripped",
			url:      "https://steamcommunity.com/market/listings/730/Fracture%20Case?filter=x",
			appID:    "730",
			hashName: "Fracture Case",
		},
		{
			name:    "not a listing URL",
			url:     "https://steamcommunity.com/market/search?q=ak",
			wantErr: true,
		},
		{
			name:    "empty",
			url:     "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appID, hashName, err := ParseListingURL(tt.url)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, common.ErrInvalidLink))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.appID, appID)
			assert.Equal(t, tt.hashName, hashName)
		})
	}
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "12,34€", want: "12.34"},
		{in: "$1,234.56", want: "1234.56"},
		{in: "0,03€", want: "0.03"},
		{in: "€5.00", want: "5"},
		{in: "1.234,56€", want: "1234.56"},
		{in: "1.234.567,89€", want: "1234567.89"},
		{in: "1,234,567", want: "1234567"},
		{in: "1.234.567", want: "1234567"},
		{in: "no digits", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parsePrice(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, common.ErrLookupFailed))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func marketHandler(t *testing.T, overview string) http.Handler {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/market/listings/730/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"assets":{"730":{"2":{"1":{
			"market_name":"AK-47 | Redline (Field-Tested)",
			"icon_url":"small","icon_url_large":"large"}}}}}`)
	})
	mux.HandleFunc("/market/priceoverview/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, overview)
	})
	return mux
}

func TestClient_Lookup(t *testing.T) {
	srv := httptest.NewServer(marketHandler(t,
		`{"success":true,"lowest_price":"12,34€","median_price":"13,00€","volume":"421"}`))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	quote, err := client.Lookup(context.Background(),
		"https://steamcommunity.com/market/listings/730/AK-47%20%7C%20Redline%20%28Field-Tested%29")
	require.NoError(t, err)

	assert.Equal(t, "AK-47 | Redline (Field-Tested)", quote.Name)
	assert.Equal(t, imageCDN+"large", quote.ImageURL)
	assert.Equal(t, "12.34", quote.LowestPrice.String())
	assert.Equal(t, "13", quote.MedianPrice.String())
	assert.Equal(t, "421", quote.Volume)
}

func TestClient_LookupNoPriceData(t *testing.T) {
	srv := httptest.NewServer(marketHandler(t, `{"success":false}`))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	_, err := client.Lookup(context.Background(),
		"https://steamcommunity.com/market/listings/730/Nonexistent")
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrLookupFailed))
}

func TestClient_LookupServerError(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	client.retryOpts = common.RetryOptions{
		MaxAttempts:  2,
		InitialDelay: time.Millisecond,
		MaxDelay:     2 * time.Millisecond,
		Multiplier:   2.0,
	}

	_, err := client.Lookup(context.Background(),
		"https://steamcommunity.com/market/listings/730/Fracture%20Case")
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrLookupFailed))
	// Server errors are retried before giving up.
	assert.Equal(t, 2, calls)
}

func TestClient_LookupBadStatusNotRetried(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	_, err := client.Lookup(context.Background(),
		"https://steamcommunity.com/market/listings/730/Fracture%20Case")
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrLookupFailed))
	assert.Equal(t, 1, calls)
}
