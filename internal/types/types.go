package types

// Signal actions.
const (
	ActionBuy  = "BUY"
	ActionSell = "SELL"
	ActionHold = "HOLD"
)

// Execution statuses.
const (
	StatusExecuted = "EXECUTED"
	StatusSkipped  = "SKIPPED"
	StatusRejected = "REJECTED"
	StatusFailed   = "FAILED"
)

// Contract is a snapshot of a Kalshi event contract. Prices are implied
// probabilities in [0,1].
type Contract struct {
	ID             string   `json:"id"`
	SeriesID       string   `json:"series_id,omitempty"`
	Title          string   `json:"title"`
	Description    string   `json:"description,omitempty"`
	Status         string   `json:"status"`
	Outcomes       []string `json:"outcomes,omitempty"`
	CurrentPrice   float64  `json:"current_price"`
	Volume         float64  `json:"volume,omitempty"`
	ExpirationDate string   `json:"expiration_date,omitempty"`
}

// Series groups related contracts under one recurring event.
type Series struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Category  string `json:"category,omitempty"`
	Frequency string `json:"frequency,omitempty"`
}

// PricePoint is one entry of a contract's market history.
type PricePoint struct {
	Ts     int64   `json:"ts"`
	Price  float64 `json:"price"`
	Volume float64 `json:"volume,omitempty"`
}

type PriceLevel struct {
	Price float64 `json:"price"`
	Count int     `json:"count,omitempty"`
}

type OrderBook struct {
	Bids []PriceLevel `json:"bids"`
	Asks []PriceLevel `json:"asks"`
}

type Position struct {
	ContractID   string  `json:"contract_id"`
	Size         float64 `json:"size"`
	AvgPrice     float64 `json:"avg_price,omitempty"`
	CurrentPrice float64 `json:"current_price,omitempty"`
}

type OrderRequest struct {
	ContractID string  `json:"contract_id"`
	Side       string  `json:"side"`
	Size       float64 `json:"size"`
	Price      float64 `json:"price"`
	Type       string  `json:"type"`
	Tag        string  `json:"tag,omitempty"`
}

type Order struct {
	OrderID    string  `json:"order_id"`
	ContractID string  `json:"contract_id"`
	Side       string  `json:"side"`
	Status     string  `json:"status"`
	Size       float64 `json:"size"`
	Price      float64 `json:"price"`
	CreatedAt  string  `json:"created_at,omitempty"`
}

type Balance struct {
	Balance float64 `json:"balance"`
}

// OutcomeAssessment is the LLM's probability estimate for one outcome.
type OutcomeAssessment struct {
	Probability float64 `json:"probability"`
	Confidence  float64 `json:"confidence"`
	Reasoning   string  `json:"reasoning,omitempty"`
}

// Recommendation is one trading recommendation from the LLM.
type Recommendation struct {
	Action     string  `json:"action"`
	Outcome    string  `json:"outcome,omitempty"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning,omitempty"`
}

// EventAnalysis is the structured result of LLM event reasoning. Raw is
// populated instead of the structured fields when the model response
// could not be parsed as JSON.
type EventAnalysis struct {
	ContractID      string                       `json:"contract_id"`
	Model           string                       `json:"model"`
	Probabilities   map[string]OutcomeAssessment `json:"probability_assessment,omitempty"`
	KeyFactors      []string                     `json:"key_factors,omitempty"`
	MarketSentiment string                       `json:"market_sentiment,omitempty"`
	RiskFactors     []string                     `json:"risk_factors,omitempty"`
	Recommendations []Recommendation             `json:"trading_recommendations,omitempty"`
	Timeline        string                       `json:"timeline_considerations,omitempty"`
	RelatedEvents   []string                     `json:"related_events,omitempty"`
	Raw             string                       `json:"raw_response,omitempty"`
	Timestamp       int64                        `json:"timestamp"`
}

// ResearchPlan structures the LLM's research planning output.
type ResearchPlan struct {
	ContractID       string   `json:"contract_id"`
	InformationNeeds []string `json:"information_needs,omitempty"`
	DataSources      []string `json:"data_sources,omitempty"`
	Immediate        []string `json:"immediate,omitempty"`
	ShortTerm        []string `json:"short_term,omitempty"`
	Ongoing          []string `json:"ongoing,omitempty"`
	PriorityTasks    []string `json:"priority_tasks,omitempty"`
	SuccessMetrics   []string `json:"success_metrics,omitempty"`
	Raw              string   `json:"raw_response,omitempty"`
	Timestamp        int64    `json:"timestamp"`
}

// FactCheck is the LLM's credibility assessment of a piece of information.
type FactCheck struct {
	Credibility     string   `json:"credibility"`
	Confidence      float64  `json:"confidence"`
	Reasoning       string   `json:"reasoning,omitempty"`
	Biases          []string `json:"biases,omitempty"`
	Recommendations []string `json:"recommendations,omitempty"`
	Raw             string   `json:"raw_response,omitempty"`
}

// StatAnalysis is the price-based statistical sub-analysis.
type StatAnalysis struct {
	Probability float64 `json:"probability"`
	Confidence  float64 `json:"confidence"`
	Volatility  float64 `json:"volatility"`
}

// QuantAnalysis is the feature-vector sub-analysis.
type QuantAnalysis struct {
	Probability float64            `json:"probability"`
	Confidence  float64            `json:"confidence"`
	Features    map[string]float64 `json:"features,omitempty"`
}

// TrendAnalysis is the time-series sub-analysis.
type TrendAnalysis struct {
	Trend    string  `json:"trend"`
	Momentum float64 `json:"momentum"`
	Price    float64 `json:"current_price"`
}

// SentimentAnalysis is the keyword-polarity sub-analysis.
type SentimentAnalysis struct {
	Sentiment string  `json:"sentiment"`
	Score     float64 `json:"sentiment_score"`
	Positive  int     `json:"positive_keywords"`
	Negative  int     `json:"negative_keywords"`
}

// EnsembleResult combines the statistical sub-analyses into a single
// probability and confidence.
type EnsembleResult struct {
	ContractID  string            `json:"contract_id"`
	Probability float64           `json:"ensemble_probability"`
	Confidence  float64           `json:"ensemble_confidence"`
	Statistical StatAnalysis      `json:"statistical"`
	Quant       QuantAnalysis     `json:"quant"`
	TimeSeries  TrendAnalysis     `json:"time_series"`
	Sentiment   SentimentAnalysis `json:"sentiment"`
	Timestamp   int64             `json:"timestamp"`
}

// Analysis is the combined per-contract analysis: LLM reasoning plus the
// statistical ensemble.
type Analysis struct {
	ContractID string         `json:"contract_id"`
	LLM        EventAnalysis  `json:"llm_analysis"`
	Ensemble   EnsembleResult `json:"statistical_analysis"`
	Timestamp  int64          `json:"timestamp"`
}

// Signal is an actionable trading signal derived from an Analysis.
type Signal struct {
	ContractID  string   `json:"contract_id"`
	Action      string   `json:"action"`
	Confidence  float64  `json:"confidence"`
	Probability float64  `json:"probability,omitempty"`
	Reasons     []string `json:"reasons,omitempty"`
	Timestamp   int64    `json:"timestamp"`
}

// Execution is the result of acting on a Signal.
type Execution struct {
	Status     string  `json:"status"`
	Reason     string  `json:"reason,omitempty"`
	ContractID string  `json:"contract_id,omitempty"`
	Action     string  `json:"action,omitempty"`
	OrderID    string  `json:"order_id,omitempty"`
	Size       float64 `json:"size,omitempty"`
	Price      float64 `json:"price,omitempty"`
	Timestamp  string  `json:"timestamp,omitempty"`
}

// Portfolio is the account state used for sizing and risk checks.
type Portfolio struct {
	TotalValue  float64    `json:"total_value"`
	CashBalance float64    `json:"cash_balance"`
	Positions   []Position `json:"positions"`
	Timestamp   string     `json:"timestamp"`
	Simulated   bool       `json:"simulated,omitempty"`
}

// LargestPosition identifies the biggest open position by absolute size.
type LargestPosition struct {
	ContractID string  `json:"contract_id"`
	Size       float64 `json:"size"`
}

// RiskLimits echoes the configured limits inside risk metrics output.
type RiskLimits struct {
	MaxPositionSize float64 `json:"max_position_size"`
	MaxDrawdown     float64 `json:"max_drawdown"`
	VarLimit        float64 `json:"var_limit"`
}

// RiskMetrics is a point-in-time view of portfolio risk.
type RiskMetrics struct {
	TotalValue      float64          `json:"total_value"`
	NumPositions    int              `json:"num_positions"`
	LargestPosition *LargestPosition `json:"largest_position,omitempty"`
	Concentration   float64          `json:"concentration"`
	Drawdown        float64          `json:"drawdown"`
	Limits          RiskLimits       `json:"risk_limits"`
	Timestamp       string           `json:"timestamp"`
}

// Alert is a recorded risk event.
type Alert struct {
	Type      string `json:"type"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// ContractResult is the per-contract outcome of a strategy run.
type ContractResult struct {
	ContractID string     `json:"contract_id"`
	Analysis   *Analysis  `json:"analysis,omitempty"`
	Signal     *Signal    `json:"signal,omitempty"`
	Execution  *Execution `json:"execution,omitempty"`
	Error      string     `json:"error,omitempty"`
}

// StrategyResult aggregates a full strategy run.
type StrategyResult struct {
	Results        []ContractResult `json:"results"`
	TotalContracts int              `json:"total_contracts"`
}

// PortfolioStatus pairs the portfolio with its risk metrics.
type PortfolioStatus struct {
	Portfolio   Portfolio   `json:"portfolio"`
	RiskMetrics RiskMetrics `json:"risk_metrics"`
	Timestamp   int64       `json:"timestamp"`
}

// Headline is a scraped news item attached to LLM context.
type Headline struct {
	Source      string `json:"source"`
	Title       string `json:"title"`
	URL         string `json:"url,omitempty"`
	Summary     string `json:"summary,omitempty"`
	PublishedAt string `json:"published_at,omitempty"`
}
