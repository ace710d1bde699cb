// Package report turns an analysis report into prose: a structured
// market report and answers to free-form questions, generated through
// an OpenAI-compatible endpoint.
package report

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sashabaranov/go-openai"

	"index-analyzer/internal/analysis"
	"index-analyzer/internal/config"
	apperrors "index-analyzer/internal/errors"
)

// Generator produces LLM-written reports. When the endpoint is not
// reachable a deterministic fallback report is returned instead of an
// error, so the analysis results always reach the user.
type Generator struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
	language    string
}

// NewGenerator creates a generator for the configured endpoint. The
// API key may be empty for local OpenAI-compatible servers.
func NewGenerator(cfg config.ReportConfig, apiKey string) *Generator {
	clientConfig := openai.DefaultConfig(apiKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	return &Generator{
		client:      openai.NewClientWithConfig(clientConfig),
		model:       cfg.Model,
		temperature: float32(cfg.Temperature),
		maxTokens:   cfg.MaxTokens,
		language:    cfg.Language,
	}
}

// Comprehensive generates the full market report. LLM failures
// degrade to the fallback report.
func (g *Generator) Comprehensive(ctx context.Context, rep *analysis.Report) (string, error) {
	direction := determineDirection(rep)
	prompt, err := g.reportPrompt(rep, direction)
	if err != nil {
		return "", apperrors.NewReportError("build prompt", err)
	}

	text, err := g.complete(ctx, prompt)
	if err != nil {
		return fallbackReport(rep, direction), nil
	}
	return text, nil
}

// Answer responds to a question about the analysis.
func (g *Generator) Answer(ctx context.Context, question string, rep *analysis.Report) (string, error) {
	prompt, err := g.questionPrompt(question, rep)
	if err != nil {
		return "", apperrors.NewReportError("build prompt", err)
	}

	text, err := g.complete(ctx, prompt)
	if err != nil {
		return "", apperrors.NewReportError("answer question", err)
	}
	return text, nil
}

func (g *Generator) complete(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       g.model,
		Temperature: g.temperature,
		MaxTokens:   g.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from model")
	}
	return resp.Choices[0].Message.Content, nil
}

func (g *Generator) reportPrompt(rep *analysis.Report, direction Direction) (string, error) {
	indicators, err := marshalSection(rep.Indicators, 0)
	if err != nil {
		return "", err
	}
	probabilities, err := marshalSection(rep.Score.Probabilities, 0)
	if err != nil {
		return "", err
	}
	targets, err := marshalSection(rep.Score.Targets, 1000)
	if err != nil {
		return "", err
	}
	levels, err := marshalSection(rep.Levels, 1000)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf(`Create a professional technical analysis report for %s.

IMPORTANT - use ONLY this validated data:

Ticker: %s
Current Price: $%.2f

VALIDATED INDICATORS (use exactly these values):
%s

PROBABILITIES:
%s

PRICE TARGETS:
%s

SUPPORT/RESISTANCE:
%s

MARKET DIRECTION (use consistently):
- Primary Direction: %s
- Recommendation: %s
- Strength: %d/10

REQUIREMENTS:
1. Use EXACTLY the indicator values above, no custom calculations
2. Stay consistent with the market direction in every section
3. Format prices as $X,XXX.XX
4. Use actual support/resistance levels from the data
5. Structure the report with clear headings
6. Base everything on the given data, no speculation
7. Write the report in %s

STRUCTURE:
1. Executive Summary
2. Technical Indicators
3. Trading Setup (entry, stop-loss, targets)
4. Risk Management
5. Action Items
6. Summary
`, rep.Symbol, rep.Symbol, rep.CurrentPrice,
		indicators, probabilities, targets, levels,
		direction.Primary, direction.Recommendation, direction.Strength,
		languageName(g.language)), nil
}

func (g *Generator) questionPrompt(question string, rep *analysis.Report) (string, error) {
	indicators, err := marshalSection(rep.Indicators, 1000)
	if err != nil {
		return "", err
	}
	probabilities, err := marshalSection(rep.Score.Probabilities, 0)
	if err != nil {
		return "", err
	}
	stats, err := marshalSection(rep.PatternStats, 1000)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf(`Answer this question based on the technical analysis:

QUESTION: %s

ANALYSIS CONTEXT:

Indicators:
%s

Probabilities:
%s

Sentiment:
%s

Pattern statistics:
%s

INSTRUCTIONS:
- Give a brief, precise answer based on the data
- Use actual values from the analysis
- Be honest if the data does not allow a clear answer
- Format prices as $X,XXX.XX
- Answer in %s
`, question, indicators, probabilities, rep.Score.Sentiment, stats,
		languageName(g.language)), nil
}

// languageName spells out the configured report language for the
// prompt.
func languageName(code string) string {
	if code == "de" {
		return "German"
	}
	return "English"
}

// marshalSection renders a snapshot fragment as indented JSON with
// NaN and infinities scrubbed to null, optionally truncated.
func marshalSection(v interface{}, limit int) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	var decoded interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", err
	}
	clean, err := json.MarshalIndent(analysis.Scrub(decoded), "", "  ")
	if err != nil {
		return "", err
	}
	s := string(clean)
	if limit > 0 && len(s) > limit {
		s = s[:limit]
	}
	return s, nil
}

// fallbackReport is returned when the LLM endpoint is unreachable.
func fallbackReport(rep *analysis.Report, direction Direction) string {
	return fmt.Sprintf(`# MARKET ANALYSIS REPORT
## Status: Basic Analysis (LLM not available)

Symbol: %s
Current Price: $%.2f
Sentiment: %s (score %.1f)
Direction: %s
Recommendation: %s

Technical indicators were calculated successfully. Start the LLM
server for the full written report.
`, rep.Symbol, rep.CurrentPrice, rep.Score.Sentiment, rep.Score.Score,
		direction.Primary, direction.Recommendation)
}
