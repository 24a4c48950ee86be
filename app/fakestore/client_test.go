package fakestore

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const catalogJSON = `[
  {"id":1,"title":"Fjallraven Backpack","price":109.95,"description":"bag","category":"men's clothing","image":"https://img/1.jpg","rating":{"rate":3.9,"count":120}},
  {"id":2,"title":"Slim Fit T-Shirt","price":22.3,"description":"shirt","category":"men's clothing","image":"https://img/2.jpg"}
]`

func TestFetchAll(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(catalogJSON))
	}))
	defer srv.Close()

	items, err := NewClient(srv.URL+"/", time.Second).FetchAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "/products", gotPath)
	require.Len(t, items, 2)
	assert.Equal(t, int64(1), items[0].ID)
	assert.Equal(t, "Fjallraven Backpack", items[0].Title)
	assert.Equal(t, "109.95", items[0].Price.String())
	require.NotNil(t, items[0].Rating)
	assert.Equal(t, 120, items[0].Rating.Count)
	assert.Nil(t, items[1].Rating)
}

func TestFetchAllFailures(t *testing.T) {
	testCases := []struct {
		name       string
		handler    http.HandlerFunc
		wantStatus int
	}{
		{
			name: "non-2xx status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			},
			wantStatus: http.StatusBadGateway,
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"not":"a list"}`))
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(tc.handler)
			defer srv.Close()

			_, err := NewClient(srv.URL, time.Second).FetchAll(context.Background())
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrCatalogUnavailable)

			var netErr *NetworkError
			require.ErrorAs(t, err, &netErr)
			assert.Equal(t, tc.wantStatus, netErr.Status)
		})
	}
}

func TestFetchAllUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, time.Second).FetchAll(context.Background())
	assert.ErrorIs(t, err, ErrCatalogUnavailable)
}
