// Package analysis combines statistical, quantitative, time-series and
// sentiment sub-models into a single ensemble view of a contract.
package analysis

import (
	"math"
	"strings"
	"time"

	"kalshi-hedge-fund/internal/ta"
	"kalshi-hedge-fund/internal/types"
)

// Sub-model weights for the combined probability. Only the statistical
// and quant models produce probabilities; the time-series and sentiment
// weights are reserved for context models and drop out of the
// normalization.
var weights = map[string]float64{
	"statistical": 0.3,
	"quant":       0.3,
	"time_series": 0.2,
	"sentiment":   0.2,
}

var (
	positiveWords = []string{"win", "success", "positive", "up", "gain", "profit"}
	negativeWords = []string{"loss", "fail", "negative", "down", "decline", "risk"}
)

// Ensemble runs all sub-models on a contract. History is optional; when
// present it drives the time-series trend, otherwise the current price
// stands in.
func Ensemble(contract types.Contract, history []types.PricePoint) types.EnsembleResult {
	stat := Statistical(contract)
	quant := Quant(contract)
	trend := TimeSeries(contract, history)
	sentiment := Sentiment(contract)

	probability := (stat.Probability*weights["statistical"] + quant.Probability*weights["quant"]) /
		(weights["statistical"] + weights["quant"])
	confidence := (stat.Confidence + quant.Confidence) / 2

	return types.EnsembleResult{
		ContractID:  contract.ID,
		Probability: clamp01(probability),
		Confidence:  clamp01(confidence),
		Statistical: stat,
		Quant:       quant,
		TimeSeries:  trend,
		Sentiment:   sentiment,
		Timestamp:   time.Now().Unix(),
	}
}

// Statistical treats the market price as the probability estimate, with
// confidence rising toward the extremes where prices are stickier.
func Statistical(contract types.Contract) types.StatAnalysis {
	price := priceOrDefault(contract)
	confidence := 0.5 + 0.3*(1-math.Abs(price-0.5))
	return types.StatAnalysis{
		Probability: price,
		Confidence:  confidence,
		Volatility:  0.1 + 0.2*(1-confidence),
	}
}

// Quant scores the contract on a small deterministic feature vector:
// price, time to expiration, volume, and title length.
func Quant(contract types.Contract) types.QuantAnalysis {
	price := priceOrDefault(contract)

	days := 30.0
	if contract.ExpirationDate != "" {
		if exp, err := time.Parse(time.RFC3339, contract.ExpirationDate); err == nil {
			days = time.Until(exp).Hours() / 24
		}
	}

	features := map[string]float64{
		"current_price":       price,
		"years_to_expiration": days / 365,
		"volume_norm":         contract.Volume / 1000,
		"title_length_norm":   float64(len(contract.Title)) / 100,
	}

	// Liquidity pulls the estimate toward the market price; thin books
	// are shaded toward 0.5.
	liquidity := math.Tanh(features["volume_norm"])
	probability := 0.5 + (price-0.5)*(0.6+0.4*liquidity)

	return types.QuantAnalysis{
		Probability: clamp01(probability),
		Confidence:  0.6,
		Features:    features,
	}
}

// TimeSeries reads trend and momentum from the price history, falling
// back to price-level thresholds when no history is available.
func TimeSeries(contract types.Contract, history []types.PricePoint) types.TrendAnalysis {
	price := priceOrDefault(contract)

	if len(history) >= 5 {
		prices := make([]float64, len(history))
		for i, p := range history {
			prices[i] = p.Price
		}
		window := 5
		if len(prices) < 2*window {
			window = len(prices) / 2
		}
		return types.TrendAnalysis{
			Trend:    ta.Trend(prices, window),
			Momentum: 0.5 + 0.5*ta.Momentum(prices, window),
			Price:    price,
		}
	}

	trend := "neutral"
	if price > 0.6 {
		trend = "bullish"
	} else if price < 0.4 {
		trend = "bearish"
	}
	return types.TrendAnalysis{
		Trend:    trend,
		Momentum: 0.5 + 0.2*(price-0.5),
		Price:    price,
	}
}

// Sentiment counts polarity keywords in the contract text.
func Sentiment(contract types.Contract) types.SentimentAnalysis {
	text := strings.ToLower(contract.Title + " " + contract.Description)

	positive := 0
	for _, w := range positiveWords {
		if strings.Contains(text, w) {
			positive++
		}
	}
	negative := 0
	for _, w := range negativeWords {
		if strings.Contains(text, w) {
			negative++
		}
	}

	total := positive + negative
	if total == 0 {
		total = 1
	}
	score := float64(positive-negative) / float64(total)

	sentiment := "neutral"
	if score > 0.2 {
		sentiment = "positive"
	} else if score < -0.2 {
		sentiment = "negative"
	}

	return types.SentimentAnalysis{
		Sentiment: sentiment,
		Score:     score,
		Positive:  positive,
		Negative:  negative,
	}
}

func priceOrDefault(contract types.Contract) float64 {
	if contract.CurrentPrice <= 0 {
		return 0.5
	}
	return contract.CurrentPrice
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
