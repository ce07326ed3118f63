package ocr

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/patcharin/innflow/internal/common"
	"github.com/patcharin/innflow/internal/model"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// geminiClient implements the Extractor interface against the Gemini API.
type geminiClient struct {
	httpClient  *http.Client
	apiKey      string
	model       string
	baseURL     string
	temperature float64
	maxTokens   int
}

// NewGeminiClient creates a new Gemini extraction client.
func NewGeminiClient(cfg Config) (Extractor, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key", common.ErrMissingConfig)
	}

	model := cfg.Model
	if model == "" {
		model = "gemini-3-flash-preview"
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 1024
	}

	return &geminiClient{
		apiKey:      cfg.APIKey,
		model:       model,
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		temperature: cfg.Temperature,
		maxTokens:   maxTokens,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}, nil
}

const receiptSystemPrompt = `You are an expert accountant for a Thai resort.
Analyze the uploaded image (receipt, slip, invoice, or handheld note) and extract details in JSON format.
%s
CRITICAL CLASSIFICATION:
- income: Receipt issued BY the resort TO guests (e.g., booking payments).
- expense: Invoices or receipts issued TO the resort BY suppliers/utilities.
Categories available (THAI ONLY):
income: %s
expense: %s
Respond with a single JSON object: {"date":"YYYY-MM-DD","amount":0,"type":"income|expense","category":"...","description":"...","confidence":0.0}`

const idCardSystemPrompt = `You are an expert OCR system for Thai National ID Cards.
Extract the card holder's details and return a single JSON object with keys:
idNumber (exactly 13 digits, no spaces), title, firstNameTH, lastNameTH,
firstNameEN, lastNameEN, address, dob, issueDate, expiryDate, religion.
Dates use YYYY-MM-DD; convert Thai Buddhist Era years to Christian Era (2567 -> 2024).`

func intentInstruction(intent Intent) string {
	switch intent {
	case IntentExpense:
		return "The user has identified this specifically as an EXPENSE receipt. Favor expense classification unless it is clearly an income document."
	case IntentIncome:
		return "The user has identified this specifically as an INCOME slip. Favor income classification."
	default:
		return ""
	}
}

// ExtractReceipt sends a receipt image for extraction. A zero extracted
// amount is an error: a zero transaction must never be silently recorded.
func (c *geminiClient) ExtractReceipt(ctx context.Context, imageJPEG []byte, intent Intent) (ReceiptResult, error) {
	system := fmt.Sprintf(receiptSystemPrompt,
		intentInstruction(intent),
		strings.Join(model.IncomeCategories(), ", "),
		strings.Join(model.ExpenseCategories(), ", "))

	raw, err := c.generate(ctx, system, imageJPEG,
		"Extract transaction details as JSON. Ensure the category matches the provided Thai list exactly.")
	if err != nil {
		return ReceiptResult{}, err
	}

	var payload struct {
		Date        string  `json:"date"`
		Amount      float64 `json:"amount"`
		Type        string  `json:"type"`
		Category    string  `json:"category"`
		Description string  `json:"description"`
		Confidence  float64 `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return ReceiptResult{}, fmt.Errorf("%w: bad extraction payload: %v", common.ErrExtractionFailed, err)
	}

	if payload.Amount == 0 {
		return ReceiptResult{}, common.NewUserError("ไม่พบยอดเงินในภาพ กรุณาลองใหม่หรือบันทึกด้วยตนเอง", common.ErrZeroAmount)
	}

	txType := model.TransactionType(strings.ToLower(payload.Type))
	if !txType.Valid() {
		return ReceiptResult{}, fmt.Errorf("%w: unknown transaction type %q", common.ErrExtractionFailed, payload.Type)
	}

	date, err := model.ParseDate(payload.Date)
	if err != nil {
		date = time.Now().UTC().Truncate(24 * time.Hour)
	}

	return ReceiptResult{
		Date:        date,
		Amount:      payload.Amount,
		Type:        txType,
		Category:    payload.Category,
		Description: payload.Description,
		Confidence:  payload.Confidence,
	}, nil
}

// ExtractIDCard reads a Thai national ID card into a guest record.
func (c *geminiClient) ExtractIDCard(ctx context.Context, imageJPEG []byte) (model.GuestData, error) {
	raw, err := c.generate(ctx, idCardSystemPrompt, imageJPEG,
		"Analyze the Thai ID card and extract all details into JSON format.")
	if err != nil {
		return model.GuestData{}, err
	}

	var payload struct {
		IDNumber    string `json:"idNumber"`
		Title       string `json:"title"`
		FirstNameTH string `json:"firstNameTH"`
		LastNameTH  string `json:"lastNameTH"`
		FirstNameEN string `json:"firstNameEN"`
		LastNameEN  string `json:"lastNameEN"`
		Address     string `json:"address"`
		DOB         string `json:"dob"`
		IssueDate   string `json:"issueDate"`
		ExpiryDate  string `json:"expiryDate"`
		Religion    string `json:"religion"`
	}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return model.GuestData{}, fmt.Errorf("%w: bad ID card payload: %v", common.ErrExtractionFailed, err)
	}

	if payload.FirstNameTH == "" {
		return model.GuestData{}, common.NewUserError("สแกนไม่สำเร็จ กรุณาลองใหม่หรือพิมพ์ข้อมูลเอง", common.ErrExtractionFailed)
	}

	return model.GuestData{
		IDNumber:    payload.IDNumber,
		Title:       payload.Title,
		FirstNameTH: payload.FirstNameTH,
		LastNameTH:  payload.LastNameTH,
		FirstNameEN: payload.FirstNameEN,
		LastNameEN:  payload.LastNameEN,
		Address:     payload.Address,
		DOB:         payload.DOB,
		IssueDate:   payload.IssueDate,
		ExpiryDate:  payload.ExpiryDate,
		Religion:    payload.Religion,
	}, nil
}

// generate calls the Gemini generateContent endpoint with an image part and
// returns the model's text response.
func (c *geminiClient) generate(ctx context.Context, system string, imageJPEG []byte, prompt string) (string, error) {
	requestBody := map[string]any{
		"system_instruction": map[string]any{
			"parts": []map[string]any{{"text": system}},
		},
		"contents": []map[string]any{
			{
				"parts": []map[string]any{
					{"inline_data": map[string]any{
						"mime_type": "image/jpeg",
						"data":      base64.StdEncoding.EncodeToString(imageJPEG),
					}},
					{"text": prompt},
				},
			},
		},
		"generationConfig": map[string]any{
			"temperature":        c.temperature,
			"maxOutputTokens":    c.maxTokens,
			"response_mime_type": "application/json",
		},
	}

	jsonBody, err := json.Marshal(requestBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(string(jsonBody)))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", common.ErrRateLimit
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: API returned status %d: %s", common.ErrExtractionFailed, resp.StatusCode, string(body))
	}

	var apiResp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if len(apiResp.Candidates) == 0 || len(apiResp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: empty response from model", common.ErrExtractionFailed)
	}

	return apiResp.Candidates[0].Content.Parts[0].Text, nil
}
