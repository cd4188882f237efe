package ai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/avast/retry-go"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/finlens/finlens-backend/internal/config"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com"
	requestTimeout = 30 * time.Second
)

const scanPrompt = `Analyze this receipt image and extract the following information in JSON format:
- Total amount (just the number)
- Date (in ISO format)
- Description or items purchased (brief summary)
- Merchant/store name
- Suggested category (one of: housing, transportation, groceries, utilities, entertainment, food, shopping, healthcare, education, personal, travel, insurance, gifts, bills, other-expense)

Only respond with valid JSON in this exact format:
{
  "amount": number,
  "date": "ISO date string",
  "description": "string",
  "merchantName": "string",
  "category": "string"
}

If it's not a receipt, return an empty object.`

// ReceiptData is the structured result of a receipt scan
type ReceiptData struct {
	Amount       decimal.Decimal `json:"amount"`
	Date         string          `json:"date"`
	Description  string          `json:"description"`
	MerchantName string          `json:"merchantName"`
	Category     string          `json:"category"`
}

// IsEmpty reports whether the model declined to read the image as a receipt
func (r ReceiptData) IsEmpty() bool {
	return r.Amount.IsZero() && r.Date == "" && r.MerchantName == ""
}

// ReceiptScanner extracts structured transaction data from receipt images
type ReceiptScanner interface {
	ScanReceipt(ctx context.Context, imageData []byte, mimeType string) (*ReceiptData, error)
}

// GeminiClient implements ReceiptScanner against the Gemini REST API
type GeminiClient struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// NewGeminiClient creates a Gemini receipt scanner from configuration
func NewGeminiClient(cfg config.GeminiConfig) *GeminiClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &GeminiClient{
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

// Request/response shapes for the generateContent endpoint. Only the
// fields this client touches are mapped.
type generateContentRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

type apiStatusError struct {
	statusCode int
	message    string
}

func (e *apiStatusError) Error() string {
	return fmt.Sprintf("gemini API error (status %d): %s", e.statusCode, e.message)
}

func retryableStatus(err error) bool {
	if apiErr, ok := err.(*apiStatusError); ok {
		return apiErr.statusCode == http.StatusTooManyRequests || apiErr.statusCode >= 500
	}
	return false
}

// ScanReceipt sends the receipt image to the model and parses the
// structured extraction out of the response text
func (c *GeminiClient) ScanReceipt(ctx context.Context, imageData []byte, mimeType string) (*ReceiptData, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("receipt scanning is not configured")
	}

	reqBody := generateContentRequest{
		Contents: []content{{
			Parts: []part{
				{Text: scanPrompt},
				{InlineData: &inlineData{
					MimeType: mimeType,
					Data:     base64.StdEncoding.EncodeToString(imageData),
				}},
			},
		}},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)

	var respBody []byte
	err = retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
			if err != nil {
				return err
			}
			req.Header.Set("Content-Type", "application/json")

			resp, err := c.httpClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			body, err := io.ReadAll(resp.Body)
			if err != nil {
				return fmt.Errorf("failed to read response: %w", err)
			}

			if resp.StatusCode != http.StatusOK {
				return &apiStatusError{statusCode: resp.StatusCode, message: string(body)}
			}

			respBody = body
			return nil
		},
		retry.RetryIf(func(err error) bool {
			if retryableStatus(err) {
				log.Warn().Err(err).Msg("Retrying receipt scan request")
				return true
			}
			return false
		}),
		retry.Attempts(3),
		retry.Delay(2*time.Second),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, err
	}

	var result generateContentResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if result.Error != nil {
		return nil, fmt.Errorf("gemini API error: %s", result.Error.Message)
	}
	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("empty response from model")
	}

	text := result.Candidates[0].Content.Parts[0].Text
	data, err := parseReceiptJSON(text)
	if err != nil {
		return nil, err
	}

	return data, nil
}

// parseReceiptJSON extracts the JSON object from the model's text reply.
// The model wraps output in markdown fences often enough that stripping
// them is mandatory.
func parseReceiptJSON(text string) (*ReceiptData, error) {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var data ReceiptData
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("invalid response format: %w", err)
	}
	return &data, nil
}
