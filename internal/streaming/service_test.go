package streaming

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/varoOP/fliq/internal/cache"
	"github.com/varoOP/fliq/internal/domain"
)

func newTestService(t *testing.T, policy domain.FailurePolicy, handler http.HandlerFunc) (Service, *atomic.Int32) {
	t.Helper()

	hits := &atomic.Int32{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "rapid-key", r.Header.Get("X-RapidAPI-Key"))
		assert.Equal(t, "streaming.test", r.Header.Get("X-RapidAPI-Host"))
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	cfg := &domain.Config{
		RapidApiKey:      "rapid-key",
		StreamingBaseURL: srv.URL,
		StreamingHost:    "streaming.test",
		StreamingPolicy:  policy,
		HTTPTimeout:      5 * time.Second,
	}
	return NewService(zerolog.Nop(), cfg, cache.NewStore(zerolog.Nop(), cache.NewMemoryStorage(0))), hits
}

const inceptionShow = `{
	"streamingOptions": {
		"ca": [{"service": {"id": "crave", "name": "Crave"}, "type": "subscription", "link": "https://crave.test"}],
		"us": [
			{
				"service": {"id": "netflix", "name": "Netflix", "imageSet": {"lightThemeImage": "light.svg", "darkThemeImage": "dark.svg"}},
				"type": "subscription",
				"link": "https://netflix.test/inception",
				"quality": "uhd"
			},
			{
				"service": {"id": "apple", "name": "Apple TV", "imageSet": {"lightThemeImage": "apple-light.svg"}},
				"type": "rent",
				"link": "https://apple.test/inception",
				"price": {"amount": 3.99, "currency": "USD", "formatted": "3.99 USD"}
			},
			{
				"service": {"id": "prime", "name": "Prime Video"},
				"type": "buy",
				"link": "https://prime.test/inception",
				"price": {"amount": "10.00", "currency": "USD", "formatted": "10.00 USD"}
			}
		]
	}
}`

func TestAvailability(t *testing.T) {
	ctx := context.Background()

	t.Run("NormalizesUSOffers", func(t *testing.T) {
		svc, hits := newTestService(t, domain.PolicyPropagate, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/shows/movie/27205", r.URL.Path)
			fmt.Fprint(w, inceptionShow)
		})

		options, err := svc.Availability(ctx, 27205)
		require.NoError(t, err)
		require.Len(t, options, 3)

		assert.Equal(t, "Netflix", options[0].Service)
		assert.Equal(t, "dark.svg", options[0].ServiceLogo)
		assert.Equal(t, domain.OfferSubscription, options[0].Kind)
		assert.Nil(t, options[0].Price)
		require.NotNil(t, options[0].Quality)
		assert.Equal(t, "uhd", *options[0].Quality)

		assert.Equal(t, "apple-light.svg", options[1].ServiceLogo)
		require.NotNil(t, options[1].Price)
		assert.Equal(t, "3.99", options[1].Price.Amount)
		assert.Equal(t, "USD", options[1].Price.Currency)

		assert.Equal(t, "", options[2].ServiceLogo)
		assert.Equal(t, "10.00", options[2].Price.Amount)

		cached, err := svc.Availability(ctx, 27205)
		require.NoError(t, err)
		assert.Equal(t, options, cached)
		assert.Equal(t, int32(1), hits.Load())
	})

	t.Run("NotFoundIsEmptyAndUncached", func(t *testing.T) {
		svc, hits := newTestService(t, domain.PolicyPropagate, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})

		for i := 0; i < 2; i++ {
			options, err := svc.Availability(ctx, 1)
			require.NoError(t, err)
			assert.NotNil(t, options)
			assert.Empty(t, options)
		}
		assert.Equal(t, int32(2), hits.Load())
	})

	t.Run("NoUSOffers", func(t *testing.T) {
		svc, _ := newTestService(t, domain.PolicyPropagate, func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"streamingOptions": {"gb": []}}`)
		})

		options, err := svc.Availability(ctx, 2)
		require.NoError(t, err)
		assert.Empty(t, options)
	})

	t.Run("ServerErrorPropagates", func(t *testing.T) {
		svc, _ := newTestService(t, domain.PolicyPropagate, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		})

		_, err := svc.Availability(ctx, 3)
		require.Error(t, err)

		var upstream *domain.UpstreamError
		require.ErrorAs(t, err, &upstream)
		assert.Equal(t, http.StatusTooManyRequests, upstream.StatusCode)
	})

	t.Run("ServerErrorSwallowed", func(t *testing.T) {
		svc, _ := newTestService(t, domain.PolicySwallow, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})

		options, err := svc.Availability(ctx, 4)
		require.NoError(t, err)
		assert.Empty(t, options)
	})
}

func TestAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`9.99`, "9.99"},
		{`10`, "10"},
		{`10.0`, "10"},
		{`"4.99"`, "4.99"},
		{`null`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var a amount
			require.NoError(t, json.Unmarshal([]byte(tt.in), &a))
			assert.Equal(t, tt.want, string(a))
		})
	}

	var a amount
	assert.Error(t, json.Unmarshal([]byte(`true`), &a))
}
