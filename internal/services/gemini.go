package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/ashmitsharp/moneylens-api/internal/models"
	"github.com/shopspring/decimal"
	"google.golang.org/genai"
)

// DefaultGeminiModel is used when GEMINI_MODEL is not configured
const DefaultGeminiModel = "gemini-2.5-flash-lite"

// ErrEmptyModelResponse is returned when the model answers with no text
var ErrEmptyModelResponse = errors.New("empty response from model")

// Candidate is one transaction proposed by the model, before category resolution
type Candidate struct {
	Description        string          `json:"description"`
	Amount             decimal.Decimal `json:"amount"`
	Type               models.TxnType  `json:"type"`
	CategorySuggestion string          `json:"category_suggestion"`
}

// ParseInput is free text, an image, or both
type ParseInput struct {
	Text      string
	Image     []byte
	ImageMIME string
	Locale    string
}

// GeminiClient produces transaction candidates and monthly summaries
type GeminiClient struct {
	client *genai.Client
	model  string
}

// NewGeminiClient creates a Gemini API client
func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key cannot be empty")
	}
	if model == "" {
		model = DefaultGeminiModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &GeminiClient{client: client, model: model}, nil
}

// candidateSchema constrains the model output to the candidate shape
var candidateSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"transactions": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"description":         {Type: genai.TypeString, Description: "Item or transaction description"},
					"amount":              {Type: genai.TypeNumber, Description: "Amount in IDR, converted from k/rb/ribu/jt notation"},
					"type":                {Type: genai.TypeString, Enum: []string{"expense", "income"}},
					"category_suggestion": {Type: genai.TypeString, Description: "Suggested category key"},
				},
				Required: []string{"description", "amount", "type", "category_suggestion"},
			},
		},
	},
	Required: []string{"transactions"},
}

// ParseTransactions asks the model for candidate transactions
func (g *GeminiClient) ParseTransactions(ctx context.Context, in ParseInput) ([]Candidate, error) {
	if strings.TrimSpace(in.Text) == "" && len(in.Image) == 0 {
		return nil, models.NewValidationError("text", "text or image is required")
	}
	locale := NormalizeLocale(in.Locale)

	parts := []*genai.Part{}
	if strings.TrimSpace(in.Text) != "" {
		parts = append(parts, &genai.Part{Text: parseTextPrompt(locale, in.Text)})
	}
	if len(in.Image) > 0 {
		parts = append(parts,
			&genai.Part{InlineData: &genai.Blob{MIMEType: in.ImageMIME, Data: in.Image}},
			&genai.Part{Text: parseImagePrompt(locale)},
		)
	}

	contents := []*genai.Content{{Role: "user", Parts: parts}}
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: parseSystemPrompt(locale)}}},
		ResponseMIMEType:  "application/json",
		ResponseSchema:    candidateSchema,
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, cfg)
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}

	rawText := resp.Text()
	if rawText == "" {
		return nil, ErrEmptyModelResponse
	}

	return DecodeCandidates(rawText)
}

// Summarize writes a short narrative for an aggregated month
func (g *GeminiClient) Summarize(ctx context.Context, in SummaryInput) (string, error) {
	locale := NormalizeLocale(in.Locale)
	in.Locale = locale

	contents := []*genai.Content{{
		Role:  "user",
		Parts: []*genai.Part{{Text: summaryUserPrompt(in)}},
	}}
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: summarySystemPrompt(locale)}}},
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("generate summary: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", ErrEmptyModelResponse
	}
	return text, nil
}

type rawCandidate struct {
	Description        string          `json:"description"`
	Amount             decimal.Decimal `json:"amount"`
	Type               string          `json:"type"`
	CategorySuggestion string          `json:"category_suggestion"`
}

// DecodeCandidates parses the model's JSON. Candidates without a positive amount
// are dropped and an unrecognised type is treated as an expense.
func DecodeCandidates(raw string) ([]Candidate, error) {
	clean := cleanModelJSON(raw)

	var envelope struct {
		Transactions []rawCandidate `json:"transactions"`
	}
	if strings.HasPrefix(clean, "[") {
		if err := json.Unmarshal([]byte(clean), &envelope.Transactions); err != nil {
			return nil, fmt.Errorf("unmarshal candidates: %w", err)
		}
	} else if err := json.Unmarshal([]byte(clean), &envelope); err != nil {
		return nil, fmt.Errorf("unmarshal candidates: %w", err)
	}

	out := make([]Candidate, 0, len(envelope.Transactions))
	for _, rc := range envelope.Transactions {
		if !rc.Amount.IsPositive() {
			continue
		}
		typ, err := models.ParseTxnType(rc.Type)
		if err != nil {
			typ = models.Expense
		}
		out = append(out, Candidate{
			Description:        strings.TrimSpace(rc.Description),
			Amount:             rc.Amount.Round(2),
			Type:               typ,
			CategorySuggestion: strings.TrimSpace(rc.CategorySuggestion),
		})
	}
	return out, nil
}

func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	// Handle ```json ... ``` or ``` ... ``` wrappers.
	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		s = strings.TrimSpace(s)
	}

	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}

	s = strings.TrimSpace(s)

	// Keep only the outermost JSON value if there is chatter around it.
	if start := strings.IndexAny(s, "{["); start != -1 {
		closer := byte('}')
		if s[start] == '[' {
			closer = ']'
		}
		if end := strings.LastIndexByte(s, closer); end > start {
			s = strings.TrimSpace(s[start : end+1])
		}
	}

	return s
}
