// Package report turns daily trade logs into per-contract CSV
// summaries with realized P&L.
package report

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"kalshi-hedge-fund/internal/interfaces"
	"kalshi-hedge-fund/internal/tradelog"
)

// aggRow accumulates trading statistics for one contract. Sizes are
// dollar stakes; contract counts are derived from size/price.
type aggRow struct {
	ContractID    string
	BuyContracts  float64
	BuyValue      float64
	SellContracts float64
	SellValue     float64
	RealizedPnL   float64
}

type summarizer struct{}

var _ interfaces.Reporter = (*summarizer)(nil)

// NewSummarizer returns the file-based reporter.
func NewSummarizer() interfaces.Reporter {
	return &summarizer{}
}

func logDir() string {
	if v := os.Getenv("FUND_LOG_DIR"); v != "" {
		return v
	}
	return "logs"
}

func tradeFile(t time.Time) string {
	d := t.UTC().Format("2006-01-02")
	return filepath.Join(logDir(), d+".txt")
}

// CSVPath returns where the summary for the given date is written.
func CSVPath(t time.Time) string {
	d := t.UTC().Format("2006-01-02")
	return filepath.Join(logDir(), "reports", d+".csv")
}

func (s *summarizer) SummarizeDay(t time.Time) (string, error) {
	inPath := tradeFile(t)
	if _, err := os.Stat(inPath); err != nil {
		return "", nil
	}
	f, err := os.Open(inPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	aggs := map[string]*aggRow{}
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var e tradelog.Entry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			continue
		}
		if e.Price <= 0 || e.Size <= 0 {
			continue
		}
		row := aggs[e.ContractID]
		if row == nil {
			row = &aggRow{ContractID: e.ContractID}
			aggs[e.ContractID] = row
		}
		contracts := e.Size / e.Price
		switch strings.ToUpper(e.Side) {
		case "BUY":
			row.BuyContracts += contracts
			row.BuyValue += e.Size
		case "SELL":
			row.SellContracts += contracts
			row.SellValue += e.Size
		}
	}
	if err := sc.Err(); err != nil {
		return "", err
	}
	if len(aggs) == 0 {
		return "", nil
	}

	keys := make([]string, 0, len(aggs))
	for k := range aggs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	outPath := CSVPath(t)
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return "", err
	}
	out, err := os.Create(outPath)
	if err != nil {
		return "", err
	}
	defer out.Close()

	w := csv.NewWriter(out)
	defer w.Flush()
	headers := []string{"contract_id", "buy_contracts", "buy_avg", "sell_contracts", "sell_avg", "realized_pnl", "gross_buy_value", "gross_sell_value"}
	if err := w.Write(headers); err != nil {
		return "", err
	}

	var totalBuy, totalSell, totalPnL float64
	for _, k := range keys {
		r := aggs[k]
		var buyAvg, sellAvg float64
		if r.BuyContracts > 0 {
			buyAvg = r.BuyValue / r.BuyContracts
		}
		if r.SellContracts > 0 {
			sellAvg = r.SellValue / r.SellContracts
		}
		// Realized P&L on the matched (round-trip) portion only.
		matched := r.BuyContracts
		if r.SellContracts < matched {
			matched = r.SellContracts
		}
		r.RealizedPnL = matched * (sellAvg - buyAvg)
		if r.RealizedPnL == 0 {
			// Avoid IEEE negative zero printing as "-0.00".
			r.RealizedPnL = 0
		}

		rec := []string{
			r.ContractID,
			fmt.Sprintf("%.2f", r.BuyContracts),
			fmt.Sprintf("%.4f", buyAvg),
			fmt.Sprintf("%.2f", r.SellContracts),
			fmt.Sprintf("%.4f", sellAvg),
			fmt.Sprintf("%.2f", r.RealizedPnL),
			fmt.Sprintf("%.2f", r.BuyValue),
			fmt.Sprintf("%.2f", r.SellValue),
		}
		if err := w.Write(rec); err != nil {
			return "", err
		}
		totalBuy += r.BuyValue
		totalSell += r.SellValue
		totalPnL += r.RealizedPnL
	}
	_ = w.Write([]string{"TOTAL", "", "", "", "", fmt.Sprintf("%.2f", totalPnL), fmt.Sprintf("%.2f", totalBuy), fmt.Sprintf("%.2f", totalSell)})

	return outPath, nil
}

func (s *summarizer) SummarizeToday() (string, error) {
	return s.SummarizeDay(time.Now().UTC())
}
