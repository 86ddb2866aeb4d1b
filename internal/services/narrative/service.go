// Package narrative explains financial statements in plain language using an LLM
package narrative

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/bobmcallan/finlens/internal/common"
	"github.com/bobmcallan/finlens/internal/interfaces"
	"github.com/bobmcallan/finlens/internal/models"
)

const systemPrompt = "당신은 재무제표를 중학생도 이해할 수 있게 쉽게 설명해주는 친절한 재무 전문가입니다."

// FallbackText is returned whenever the model cannot produce an analysis
const FallbackText = "죄송합니다. 지금은 AI 분석을 생성할 수 없습니다. 잠시 후 다시 시도해 주세요."

var _ interfaces.NarrativeService = (*Service)(nil)

// Service implements NarrativeService
type Service struct {
	client interfaces.GeminiClient
	md     goldmark.Markdown
	logger *common.Logger
}

// NewService creates a narrative service. A nil client makes every call
// return the fallback text.
func NewService(client interfaces.GeminiClient, logger *common.Logger) *Service {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Service{
		client: client,
		md: goldmark.New(
			goldmark.WithExtensions(extension.Table, extension.Strikethrough, extension.Linkify),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
		),
		logger: logger,
	}
}

// Summarize asks the model to explain the statements. It never fails.
func (s *Service) Summarize(ctx context.Context, req models.NarrativeRequest) *models.Narrative {
	if s.client == nil {
		s.logger.Warn().Msg("Narrative requested without an LLM client")
		return fallback()
	}

	prompt := BuildPrompt(req)
	text, err := s.client.GenerateWithSystem(ctx, systemPrompt, prompt)
	if err != nil {
		s.logger.Error().Err(err).Str("company", req.Company).Str("year", req.Year).Msg("Narrative generation failed")
		return fallback()
	}
	text = strings.TrimSpace(text)
	if text == "" {
		s.logger.Warn().Str("company", req.Company).Msg("Narrative generation returned empty text")
		return fallback()
	}

	n := &models.Narrative{Text: text}
	html, err := s.renderHTML(text)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to render narrative markdown")
	} else {
		n.HTML = html
	}
	return n
}

func (s *Service) renderHTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := s.md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}
	return buf.String(), nil
}

func fallback() *models.Narrative {
	return &models.Narrative{Text: FallbackText, Fallback: true}
}

// BuildPrompt lays the statements out for the model. Amounts are in
// hundred-millions of won.
func BuildPrompt(req models.NarrativeRequest) string {
	p := message.NewPrinter(language.Korean)
	var b strings.Builder

	company := req.Company
	if company == "" {
		company = "이 회사"
	}

	fmt.Fprintf(&b, "회사명: %s\n연도: %s년\n\n", company, req.Year)

	if bs := req.BalanceSheet; bs != nil {
		b.WriteString("1. 재무상태표 (단위: 억원)\n")
		writeLine(&b, p, "유동자산", bs.Assets.Current)
		writeLine(&b, p, "비유동자산", bs.Assets.NonCurrent)
		writeLine(&b, p, "자산총계", bs.Assets.Total)
		writeLine(&b, p, "유동부채", bs.Liabilities.Current)
		writeLine(&b, p, "비유동부채", bs.Liabilities.NonCurrent)
		writeLine(&b, p, "부채총계", bs.Liabilities.Total)
		writeLine(&b, p, "자본총계", bs.Equity.Total)
		b.WriteString("\n")
	}

	if is := req.IncomeStatement; is != nil {
		b.WriteString("2. 손익계산서 (단위: 억원)\n")
		writeLine(&b, p, "매출액", is.Revenue)
		writeLine(&b, p, "영업이익", is.OperatingProfit)
		writeLine(&b, p, "당기순이익", is.NetIncome)
		b.WriteString("\n")
	}

	if r := req.Ratios; r != nil {
		b.WriteString("3. 주요 재무비율\n")
		fmt.Fprintf(&b, "- 유동비율: %s%%\n", r.CurrentRatio)
		fmt.Fprintf(&b, "- 부채비율: %s%%\n", r.DebtToEquityRatio)
		fmt.Fprintf(&b, "- 자기자본비율: %s%%\n", r.EquityRatio)
		fmt.Fprintf(&b, "- 매출액영업이익률: %s%%\n", r.OperatingProfitMargin)
		fmt.Fprintf(&b, "- 매출액순이익률: %s%%\n", r.NetProfitMargin)
		fmt.Fprintf(&b, "- ROE(자기자본이익률): %s%%\n", r.ReturnOnEquity)
		fmt.Fprintf(&b, "- ROA(총자산이익률): %s%%\n\n", r.ReturnOnAssets)

		b.WriteString("4. 성장률\n")
		fmt.Fprintf(&b, "- 자산 성장률: %s\n", growthText(r.AssetGrowth, r.GrowthDefined.Asset))
		fmt.Fprintf(&b, "- 매출 성장률: %s\n", growthText(r.RevenueGrowth, r.GrowthDefined.Revenue))
		fmt.Fprintf(&b, "- 영업이익 성장률: %s\n", growthText(r.OperatingProfitGrowth, r.GrowthDefined.OperatingProfit))
		fmt.Fprintf(&b, "- 당기순이익 성장률: %s\n\n", growthText(r.NetIncomeGrowth, r.GrowthDefined.NetIncome))
	}

	b.WriteString(`이 재무제표 데이터를 중학생도 이해할 수 있는 매우 쉬운 언어로 분석해주세요.
다음 내용을 포함해야 합니다:

1. 회사의 전반적인 재무상태 (자산, 부채, 자본의 현황과 증감)
2. 회사의 수익성 (매출, 영업이익, 순이익의 변화)
3. 재무건전성 평가 (유동비율, 부채비율 등을 바탕으로)
4. 투자자 관점에서의 간단한 의견 (ROE, ROA 등을 고려하여)

전문 용어는 반드시 쉬운 말과 비유로 풀어서 설명해주세요.
`)

	if extra := strings.TrimSpace(req.Prompt); extra != "" {
		fmt.Fprintf(&b, "\n추가 요청: %s\n", extra)
	}

	return b.String()
}

func writeLine(b *strings.Builder, p *message.Printer, label string, a models.Amount) {
	b.WriteString(p.Sprintf("- %s: %.2f (전년: %.2f, 증감률: %s)", label, a.Current, a.Prior, changeRate(a.Current, a.Prior)))
	if a.Display != "" {
		fmt.Fprintf(b, " [%s]", a.Display)
	}
	b.WriteString("\n")
}

// changeRate is the change against the prior value, N/A when there is none
func changeRate(current, prior float64) string {
	if prior == 0 {
		return "N/A"
	}
	return fmt.Sprintf("%.2f%%", (current-prior)/math.Abs(prior)*100)
}

func growthText(rate float64, defined bool) string {
	if !defined {
		return "N/A"
	}
	return fmt.Sprintf("%.2f%%", rate)
}
