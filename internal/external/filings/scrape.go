package filings

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/equitylens/backend/internal/contracts"
)

// rowLabels maps the statement table row labels to statement fields. The
// published tables use stable English labels; unknown rows are skipped.
var rowLabels = map[string]func(*contracts.AnnualStatement, *float64){
	"Total Assets":         func(s *contracts.AnnualStatement, v *float64) { s.TotalAssets = v },
	"Total Liabilities":    func(s *contracts.AnnualStatement, v *float64) { s.TotalLiabilities = v },
	"Current Assets":       func(s *contracts.AnnualStatement, v *float64) { s.CurrentAssets = v },
	"Current Liabilities":  func(s *contracts.AnnualStatement, v *float64) { s.CurrentLiabilities = v },
	"Retained Earnings":    func(s *contracts.AnnualStatement, v *float64) { s.RetainedEarnings = v },
	"Total Equity":         func(s *contracts.AnnualStatement, v *float64) { s.TotalEquity = v },
	"Revenue":              func(s *contracts.AnnualStatement, v *float64) { s.Revenue = v },
	"Net Income":           func(s *contracts.AnnualStatement, v *float64) { s.NetIncome = v },
	"Operating Income":     func(s *contracts.AnnualStatement, v *float64) { s.EBIT = v },
	"Gross Profit":         func(s *contracts.AnnualStatement, v *float64) { s.GrossProfit = v },
	"SG&A Expense":         func(s *contracts.AnnualStatement, v *float64) { s.SGAExpense = v },
	"Depreciation":         func(s *contracts.AnnualStatement, v *float64) { s.Depreciation = v },
	"Receivables":          func(s *contracts.AnnualStatement, v *float64) { s.Receivables = v },
	"Property & Equipment": func(s *contracts.AnnualStatement, v *float64) { s.PPE = v },
	"Long Term Debt":       func(s *contracts.AnnualStatement, v *float64) { s.LongTermDebt = v },
	"Shares Outstanding":   func(s *contracts.AnnualStatement, v *float64) { s.SharesOutstanding = v },
	"Operating Cash Flow":  func(s *contracts.AnnualStatement, v *float64) { s.OperatingCashFlow = v },
	"Capital Expenditure":  func(s *contracts.AnnualStatement, v *float64) { s.Capex = v },
}

// scrapeStatements parses the published HTML statement tables for tickers
// the extraction API has not covered. Column 0 is the row label; the
// remaining columns are fiscal years, most recent first.
func (c *Client) scrapeStatements(ctx context.Context, ticker string, years int) (contracts.StatementSeries, error) {
	endpoint := fmt.Sprintf("%s/filings/%s/annual", c.baseURL, url.PathEscape(ticker))

	resp, err := c.httpClient.Get(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("fetch statement page failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("unexpected status %d from statement page", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read statement page failed: %w", err)
	}

	series, err := parseStatementTable(string(body), years)
	if err != nil {
		return nil, err
	}

	c.logger.WithFields(map[string]interface{}{
		"ticker": ticker,
		"years":  len(series),
	}).Debug("Scraped annual statements from HTML tables")
	return series, nil
}

// parseStatementTable extracts the statement series from the HTML table.
func parseStatementTable(html string, years int) (contracts.StatementSeries, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse statement page failed: %w", err)
	}

	table := doc.Find("table.financials").First()
	if table.Length() == 0 {
		return nil, fmt.Errorf("no statement table found")
	}

	// Header row carries the fiscal years.
	var fiscalYears []int
	table.Find("thead th").Each(func(i int, cell *goquery.Selection) {
		if i == 0 {
			return // label column
		}
		if y, err := strconv.Atoi(strings.TrimSpace(cell.Text())); err == nil {
			fiscalYears = append(fiscalYears, y)
		}
	})
	if len(fiscalYears) == 0 {
		return nil, fmt.Errorf("no fiscal year columns found")
	}
	if years > 0 && len(fiscalYears) > years {
		fiscalYears = fiscalYears[:years]
	}

	series := make(contracts.StatementSeries, len(fiscalYears))
	for i, y := range fiscalYears {
		series[i].FiscalYear = y
	}

	table.Find("tbody tr").Each(func(_ int, row *goquery.Selection) {
		label := strings.TrimSpace(row.Find("th").First().Text())
		assign, ok := rowLabels[label]
		if !ok {
			return
		}

		row.Find("td").Each(func(col int, cell *goquery.Selection) {
			if col >= len(series) {
				return
			}
			assign(&series[col], parseCellValue(cell.Text()))
		})
	})

	return series, nil
}

// parseCellValue coerces a table cell to a number, treating dashes and
// empties as missing and parentheses as negatives.
func parseCellValue(text string) *float64 {
	var n flexNumber
	quoted := `"` + strings.TrimSpace(text) + `"`
	if err := n.UnmarshalJSON([]byte(quoted)); err != nil {
		return nil
	}
	return n.value()
}
