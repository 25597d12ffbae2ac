// Package fund orchestrates the full pipeline: contract data, LLM and
// statistical analysis, signal generation, risk checks, and execution.
package fund

import (
	"context"
	"fmt"
	"strings"
	"time"

	"kalshi-hedge-fund/internal/analysis"
	"kalshi-hedge-fund/internal/interfaces"
	"kalshi-hedge-fund/internal/logger"
	"kalshi-hedge-fund/internal/metrics"
	"kalshi-hedge-fund/internal/news"
	"kalshi-hedge-fund/internal/repo"
	"kalshi-hedge-fund/internal/store"
	"kalshi-hedge-fund/internal/strategy"
	"kalshi-hedge-fund/internal/trace"
	"kalshi-hedge-fund/internal/tradelog"
	"kalshi-hedge-fund/internal/types"
)

// Fund ties the pipeline components together. The repo and publisher
// are optional; when nil their steps are skipped.
type Fund struct {
	cfg       *store.Config
	collector interfaces.Collector
	reasoner  interfaces.Reasoner
	trader    interfaces.Trader
	risk      interfaces.RiskMonitor
	signals   *strategy.Generator
	news      *news.Service
	repo      *repo.FundRepo
	publisher interfaces.EventPublisher
}

// Options carries the optional side-channel dependencies.
type Options struct {
	News      *news.Service
	Repo      *repo.FundRepo
	Publisher interfaces.EventPublisher
}

func New(cfg *store.Config, collector interfaces.Collector, reasoner interfaces.Reasoner, trader interfaces.Trader, risk interfaces.RiskMonitor, opts Options) *Fund {
	return &Fund{
		cfg:       cfg,
		collector: collector,
		reasoner:  reasoner,
		trader:    trader,
		risk:      risk,
		signals:   strategy.NewGenerator(cfg.Trading.MinConfidence),
		news:      opts.News,
		repo:      opts.Repo,
		publisher: opts.Publisher,
	}
}

// GetContract fetches a single contract.
func (f *Fund) GetContract(ctx context.Context, contractID string) (types.Contract, error) {
	return f.collector.GetContract(ctx, contractID)
}

// SearchContracts finds contracts matching a text query.
func (f *Fund) SearchContracts(ctx context.Context, query string, limit int) ([]types.Contract, error) {
	return f.collector.SearchContracts(ctx, query, limit)
}

// AnalyzeContract runs LLM reasoning and the statistical ensemble on a
// contract. The LLM leg is soft: on failure the analysis proceeds with
// ensemble output only.
func (f *Fund) AnalyzeContract(ctx context.Context, contract types.Contract) (types.Analysis, error) {
	ctx, span := trace.StartSpan(ctx, "fund.AnalyzeContract")
	defer span.End()

	var extra map[string]any
	if f.news != nil {
		extra = f.news.ContractContext(ctx, contract)
	}

	llmAnalysis, err := f.reasoner.AnalyzeEvent(ctx, contract, extra)
	if err != nil {
		logger.ErrorWithErr(ctx, "LLM analysis failed, continuing with ensemble only", err,
			"contract_id", contract.ID,
		)
		llmAnalysis = types.EventAnalysis{
			ContractID:      contract.ID,
			Model:           "fallback",
			MarketSentiment: "neutral",
			Timestamp:       time.Now().Unix(),
		}
	}

	history, err := f.collector.MarketHistory(ctx, contract.ID, time.Now().AddDate(0, 0, -7), time.Time{})
	if err != nil {
		logger.Warn(ctx, "Market history unavailable", "contract_id", contract.ID, "error", err)
		history = nil
	}

	result := types.Analysis{
		ContractID: contract.ID,
		LLM:        llmAnalysis,
		Ensemble:   analysis.Ensemble(contract, history),
		Timestamp:  time.Now().Unix(),
	}

	metrics.ContractsAnalyzedTotal.Inc()
	if f.repo != nil {
		if _, err := f.repo.SaveAnalysis(ctx, result); err != nil {
			logger.Warn(ctx, "Failed to persist analysis", "contract_id", contract.ID, "error", err)
		}
	}
	return result, nil
}

// GenerateSignal derives a signal from the analysis and gates it
// through risk checks. Failed checks force a HOLD.
func (f *Fund) GenerateSignal(ctx context.Context, a types.Analysis) (types.Signal, error) {
	ctx, span := trace.StartSpan(ctx, "fund.GenerateSignal")
	defer span.End()

	signal := f.signals.Generate(a)

	portfolio, err := f.trader.Portfolio(ctx)
	if err != nil {
		return types.Signal{}, fmt.Errorf("fetch portfolio for risk check: %w", err)
	}

	if ok, failedChecks := f.risk.CheckSignal(ctx, signal, portfolio); !ok && signal.Action != types.ActionHold {
		signal.Action = types.ActionHold
		signal.Reasons = append(signal.Reasons, "Risk limits exceeded: "+strings.Join(failedChecks, ", "))
		if f.publisher != nil {
			alert := types.Alert{
				Type:      "RISK_LIMIT_EXCEEDED",
				Message:   fmt.Sprintf("%s: failed checks: %v", signal.ContractID, failedChecks),
				Timestamp: time.Now().UTC().Format(time.RFC3339),
			}
			if err := f.publisher.PublishAlert(ctx, alert); err != nil {
				logger.Warn(ctx, "Failed to publish risk alert", "contract_id", signal.ContractID, "error", err)
			}
		}
	}

	metrics.SignalsTotal.WithLabelValues(signal.Action).Inc()
	logger.Signal(ctx, signal.ContractID, signal.Action, signal.Confidence, strings.Join(signal.Reasons, "; "))

	if err := tradelog.AppendSignal(tradelog.SignalEntry{
		Time:        time.Now().UTC().Format(time.RFC3339),
		ContractID:  signal.ContractID,
		Action:      signal.Action,
		Reason:      strings.Join(signal.Reasons, "; "),
		Confidence:  signal.Confidence,
		Probability: signal.Probability,
	}); err != nil {
		logger.Warn(ctx, "Signal log append failed", "error", err)
	}

	if f.repo != nil {
		if _, err := f.repo.SaveSignal(ctx, signal); err != nil {
			logger.Warn(ctx, "Failed to persist signal", "contract_id", signal.ContractID, "error", err)
		}
	}
	if f.publisher != nil {
		if err := f.publisher.PublishSignal(ctx, signal); err != nil {
			logger.Warn(ctx, "Failed to publish signal", "contract_id", signal.ContractID, "error", err)
		}
	}
	return signal, nil
}

// ExecuteTrade acts on a signal. Signals below the confidence threshold
// are skipped without touching the venue.
func (f *Fund) ExecuteTrade(ctx context.Context, signal types.Signal) (types.Execution, error) {
	ctx, span := trace.StartSpan(ctx, "fund.ExecuteTrade")
	defer span.End()

	if signal.Confidence < f.cfg.Trading.MinConfidence {
		execution := types.Execution{
			Status:     types.StatusSkipped,
			Reason:     "Low confidence",
			ContractID: signal.ContractID,
			Action:     signal.Action,
			Timestamp:  time.Now().UTC().Format(time.RFC3339),
		}
		f.afterExecution(ctx, execution)
		return execution, nil
	}

	execution, err := f.trader.ExecuteSignal(ctx, signal)
	if err != nil {
		return types.Execution{}, err
	}

	f.risk.RecordExecution(ctx, execution)
	f.afterExecution(ctx, execution)
	return execution, nil
}

func (f *Fund) afterExecution(ctx context.Context, execution types.Execution) {
	if f.repo != nil {
		if _, err := f.repo.SaveExecution(ctx, execution); err != nil {
			logger.Warn(ctx, "Failed to persist execution", "contract_id", execution.ContractID, "error", err)
		}
	}
	if f.publisher != nil {
		if err := f.publisher.PublishTrade(ctx, execution); err != nil {
			logger.Warn(ctx, "Failed to publish execution", "contract_id", execution.ContractID, "error", err)
		}
	}
}

// RunStrategy runs the full pipeline over a list of contracts.
// Per-contract failures are recorded in the result, not returned.
func (f *Fund) RunStrategy(ctx context.Context, contractIDs []string) (types.StrategyResult, error) {
	ctx, span := trace.StartSpan(ctx, "fund.RunStrategy")
	defer span.End()

	logger.Info(ctx, "Running strategy", "contracts", len(contractIDs))

	result := types.StrategyResult{TotalContracts: len(contractIDs)}
	for _, contractID := range contractIDs {
		result.Results = append(result.Results, f.runContract(ctx, contractID))
	}
	return result, nil
}

func (f *Fund) runContract(ctx context.Context, contractID string) types.ContractResult {
	out := types.ContractResult{ContractID: contractID}

	contract, err := f.collector.GetContract(ctx, contractID)
	if err != nil {
		out.Error = fmt.Sprintf("fetch contract: %v", err)
		return out
	}

	a, err := f.AnalyzeContract(ctx, contract)
	if err != nil {
		out.Error = fmt.Sprintf("analyze contract: %v", err)
		return out
	}
	out.Analysis = &a

	signal, err := f.GenerateSignal(ctx, a)
	if err != nil {
		out.Error = fmt.Sprintf("generate signal: %v", err)
		return out
	}
	out.Signal = &signal

	execution, err := f.ExecuteTrade(ctx, signal)
	if err != nil {
		out.Error = fmt.Sprintf("execute trade: %v", err)
		return out
	}
	out.Execution = &execution
	return out
}

// PortfolioStatus returns the portfolio alongside its risk metrics.
func (f *Fund) PortfolioStatus(ctx context.Context) (types.PortfolioStatus, error) {
	ctx, span := trace.StartSpan(ctx, "fund.PortfolioStatus")
	defer span.End()

	portfolio, err := f.trader.Portfolio(ctx)
	if err != nil {
		return types.PortfolioStatus{}, fmt.Errorf("fetch portfolio: %w", err)
	}

	return types.PortfolioStatus{
		Portfolio:   portfolio,
		RiskMetrics: f.risk.Metrics(ctx, portfolio),
		Timestamp:   time.Now().Unix(),
	}, nil
}

// Shutdown cancels open orders and closes side channels.
func (f *Fund) Shutdown(ctx context.Context) error {
	logger.Info(ctx, "Shutting down fund")

	var firstErr error
	if err := f.trader.Close(ctx); err != nil {
		firstErr = err
	}
	if err := f.collector.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if f.publisher != nil {
		if err := f.publisher.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
