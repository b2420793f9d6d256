package filings

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/equitylens/backend/pkg/config"
	"github.com/equitylens/backend/pkg/httputil"
	"github.com/equitylens/backend/pkg/logger"
)

func newTestClient(t *testing.T, serverURL string) *Client {
	t.Helper()
	cfg := &config.Config{Env: "development", LogLevel: "error"}
	log := logger.New(cfg)
	httpClient := httputil.New(cfg, log).DisableRetry()

	return NewClient(config.FilingsConfig{
		BaseURL: serverURL,
		APIKey:  "test-key",
	}, httpClient, log)
}

func TestAnnualStatements_JSONPath(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/statements/ACME", r.URL.Path)
		assert.Equal(t, "3", r.URL.Query().Get("years"))

		// Mixed numeric formats: plain numbers, formatted strings,
		// placeholders and accounting negatives.
		w.Write([]byte(`{
			"ticker": "ACME",
			"statements": [
				{
					"fiscalYear": 2025,
					"totalAssets": "1,100.5",
					"totalLiabilities": 400,
					"netIncome": "(25)",
					"revenue": 1050,
					"capex": "-"
				},
				{
					"fiscalYear": 2024,
					"totalAssets": 1000,
					"revenue": "900"
				}
			],
			"market": {"marketCap": "2,000", "beta": 1.1, "price": 20}
		}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	series, market, err := client.AnnualStatements(context.Background(), "ACME", 3)
	require.NoError(t, err)
	require.Len(t, series, 2)

	assert.Equal(t, 2025, series[0].FiscalYear)
	require.NotNil(t, series[0].TotalAssets)
	assert.Equal(t, 1100.5, *series[0].TotalAssets)
	require.NotNil(t, series[0].TotalLiabilities)
	assert.Equal(t, 400.0, *series[0].TotalLiabilities)
	require.NotNil(t, series[0].NetIncome)
	assert.Equal(t, -25.0, *series[0].NetIncome)
	assert.Nil(t, series[0].Capex, "dash placeholder must map to nil")
	assert.Nil(t, series[0].TotalEquity, "absent field must map to nil")

	require.NotNil(t, market.MarketCap)
	assert.Equal(t, 2000.0, *market.MarketCap)
	require.NotNil(t, market.Beta)
	assert.Equal(t, 1.1, *market.Beta)
}

func TestAnnualStatements_HTMLFallback(t *testing.T) {
	const page = `<html><body>
	<table class="financials">
		<thead>
			<tr><th>Line Item</th><th>2025</th><th>2024</th></tr>
		</thead>
		<tbody>
			<tr><th>Total Assets</th><td>1,100</td><td>1,000</td></tr>
			<tr><th>Revenue</th><td>1,050</td><td>900</td></tr>
			<tr><th>Net Income</th><td>(25)</td><td>50</td></tr>
			<tr><th>Capital Expenditure</th><td>-</td><td>30</td></tr>
			<tr><th>Unknown Row</th><td>1</td><td>2</td></tr>
		</tbody>
	</table>
	</body></html>`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/statements/ACME":
			w.WriteHeader(http.StatusNotFound)
		case "/filings/ACME/annual":
			w.Write([]byte(page))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	series, market, err := client.AnnualStatements(context.Background(), "ACME", 3)
	require.NoError(t, err)
	require.Len(t, series, 2)

	assert.Equal(t, 2025, series[0].FiscalYear)
	assert.Equal(t, 2024, series[1].FiscalYear)

	require.NotNil(t, series[0].TotalAssets)
	assert.Equal(t, 1100.0, *series[0].TotalAssets)
	require.NotNil(t, series[0].NetIncome)
	assert.Equal(t, -25.0, *series[0].NetIncome)
	assert.Nil(t, series[0].Capex)
	require.NotNil(t, series[1].Capex)
	assert.Equal(t, 30.0, *series[1].Capex)

	// The scrape path has no market data.
	assert.Nil(t, market.MarketCap)
}

func TestAnnualStatements_BothPathsFail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	_, _, err := client.AnnualStatements(context.Background(), "ACME", 3)
	assert.Error(t, err)
}

func TestBasicFinancials(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/metrics/ACME", r.URL.Path)
		w.Write([]byte(`{"peRatio": 15.2, "roe": "0.18", "currentRatio": 2.0}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	basic, err := client.BasicFinancials(context.Background(), "ACME")
	require.NoError(t, err)
	require.NotNil(t, basic.PERatio)
	assert.Equal(t, 15.2, *basic.PERatio)
	require.NotNil(t, basic.ROE)
	assert.Equal(t, 0.18, *basic.ROE)
	assert.Nil(t, basic.DebtToEquity)
}

func TestFlexNumberFormats(t *testing.T) {
	cases := []struct {
		in   string
		want *float64
	}{
		{`123.5`, ptr(123.5)},
		{`"1,234,567.89"`, ptr(1234567.89)},
		{`"(42)"`, ptr(-42)},
		{`"-"`, nil},
		{`""`, nil},
		{`"N/A"`, nil},
		{`null`, nil},
		{`"garbage"`, nil},
	}

	for _, tc := range cases {
		var n flexNumber
		err := json.Unmarshal([]byte(tc.in), &n)
		require.NoErrorf(t, err, "input %s", tc.in)
		if tc.want == nil {
			assert.Nilf(t, n.value(), "input %s", tc.in)
		} else {
			require.NotNilf(t, n.value(), "input %s", tc.in)
			assert.InDeltaf(t, *tc.want, *n.value(), 1e-9, "input %s", tc.in)
		}
	}
}

func ptr(v float64) *float64 { return &v }
