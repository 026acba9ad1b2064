package quotes

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"github.com/revolveme/backend/internal/kvstore"
	"github.com/revolveme/backend/internal/telemetry/metrics"
	"github.com/revolveme/backend/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
)

const (
	DefaultBaseURL = "https://api.quotable.io"

	keyQuote     = "motivationalQuote"
	keyLastFetch = "lastQuoteFetch"

	// remote quotes are refreshed at most this often
	fetchCadence = 12 * time.Hour
)

type Quote struct {
	Text   string `json:"text"`
	Author string `json:"author"`
}

// fallbackQuotes are served when the remote provider is unreachable
// and no previously fetched quote is cached.
var fallbackQuotes = []Quote{
	{Text: "The only bad workout is the one that didn't happen.", Author: "Unknown"},
	{Text: "Success is the sum of small efforts repeated day in and day out.", Author: "Robert Collier"},
	{Text: "The body achieves what the mind believes.", Author: "Unknown"},
	{Text: "Don't limit your challenges. Challenge your limits.", Author: "Unknown"},
}

type Manager struct {
	baseURL        string
	httpClient     *http.Client
	kv             kvstore.KV
	metricsManager *metrics.Manager
	now            func() time.Time
}

func NewManager(
	baseURL string,
	httpClient *http.Client,
	kv kvstore.KV,
	metricsManager *metrics.Manager,
) *Manager {
	return &Manager{
		baseURL:        baseURL,
		httpClient:     httpClient,
		kv:             kv,
		metricsManager: metricsManager,
		now:            time.Now,
	}
}

// Motivational returns the quote of the moment: the cached remote quote while
// it is fresh, a newly fetched one when the cadence has elapsed, and a local
// fallback when the provider fails. It never returns an error.
func (m *Manager) Motivational(ctx context.Context) Quote {
	ctx, span := tracing.GlobalTracer.Start(ctx, "quotes.motivational")
	defer span.End()

	cached := kvstore.Load(ctx, m.kv, keyQuote, Quote{})
	lastFetchUnix := kvstore.Load(ctx, m.kv, keyLastFetch, int64(0))

	if cached.Text != "" && m.now().Sub(time.Unix(lastFetchUnix, 0)) < fetchCadence {
		return cached
	}

	fetched, err := m.fetchRemote(ctx)
	if err != nil {
		log.Errorf("fetch motivational quote: %s", err)
		m.metricsManager.CounterQuoteFetchFailures.Inc()
		if cached.Text != "" {
			return cached
		}
		return fallbackQuotes[rand.Intn(len(fallbackQuotes))]
	}

	kvstore.Save(ctx, m.kv, keyQuote, fetched)
	kvstore.Save(ctx, m.kv, keyLastFetch, m.now().Unix())

	return fetched
}

func (m *Manager) fetchRemote(ctx context.Context) (Quote, error) {
	reqURL := m.baseURL + "/random?tags=inspirational"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return Quote{}, fmt.Errorf("create quote request: %w", err)
	}

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return Quote{}, fmt.Errorf("get quote: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.Warnf("close quote response body: %s", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return Quote{}, fmt.Errorf("get quote: unexpected status %d", resp.StatusCode)
	}

	var quoteResp struct {
		Content string `json:"content"`
		Author  string `json:"author"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&quoteResp); err != nil {
		return Quote{}, fmt.Errorf("decode quote response: %w", err)
	}

	return Quote{
		Text:   quoteResp.Content,
		Author: quoteResp.Author,
	}, nil
}
