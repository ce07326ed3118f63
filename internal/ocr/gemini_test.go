package ocr

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patcharin/innflow/internal/common"
	"github.com/patcharin/innflow/internal/model"
)

func geminiResponse(text string) string {
	payload := map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{
				"parts": []map[string]any{{"text": text}},
			}},
		},
	}
	b, _ := json.Marshal(payload)
	return string(b)
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (Extractor, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewGeminiClient(Config{
		APIKey:  "test-key",
		Model:   "gemini-test",
		BaseURL: server.URL,
	})
	require.NoError(t, err)
	return client, server
}

func TestNewGeminiClient_RequiresAPIKey(t *testing.T) {
	_, err := NewGeminiClient(Config{})
	assert.ErrorIs(t, err, common.ErrMissingConfig)
}

func TestExtractReceipt(t *testing.T) {
	tests := []struct {
		name     string
		response string
		status   int
		wantErr  error
		check    func(t *testing.T, got ReceiptResult)
	}{
		{
			name: "valid expense receipt",
			response: geminiResponse(`{"date":"2025-03-15","amount":1250.50,"type":"expense",` +
				`"category":"ค่าสาธารณูปโภค (น้ำ/ไฟ/เน็ต)","description":"ค่าไฟฟ้าเดือนมีนาคม","confidence":0.95}`),
			status: http.StatusOK,
			check: func(t *testing.T, got ReceiptResult) {
				assert.Equal(t, model.TypeExpense, got.Type)
				assert.Equal(t, 1250.50, got.Amount)
				assert.Equal(t, model.CategoryUtilities, got.Category)
				assert.Equal(t, "2025-03-15", model.FormatDate(got.Date))
				assert.InDelta(t, 0.95, got.Confidence, 0.001)
			},
		},
		{
			name: "zero amount is rejected",
			response: geminiResponse(`{"date":"2025-03-15","amount":0,"type":"expense",` +
				`"category":"ค่าซ่อมบำรุง","description":"","confidence":0.4}`),
			status:  http.StatusOK,
			wantErr: common.ErrZeroAmount,
		},
		{
			name:     "unknown transaction type",
			response: geminiResponse(`{"date":"2025-03-15","amount":100,"type":"transfer","category":"x"}`),
			status:   http.StatusOK,
			wantErr:  common.ErrExtractionFailed,
		},
		{
			name:     "malformed model output",
			response: geminiResponse(`not json at all`),
			status:   http.StatusOK,
			wantErr:  common.ErrExtractionFailed,
		},
		{
			name:     "rate limited",
			response: `{"error":{"code":429}}`,
			status:   http.StatusTooManyRequests,
			wantErr:  common.ErrRateLimit,
		},
		{
			name:     "server error",
			response: `{"error":{"code":500}}`,
			status:   http.StatusInternalServerError,
			wantErr:  common.ErrExtractionFailed,
		},
		{
			name:     "empty candidates",
			response: `{"candidates":[]}`,
			status:   http.StatusOK,
			wantErr:  common.ErrExtractionFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.response)
			})

			got, err := client.ExtractReceipt(context.Background(), []byte("fake-jpeg"), IntentGeneral)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, got)
		})
	}
}

func TestExtractReceipt_SendsAPIKeyAndImage(t *testing.T) {
	var gotKey string
	var gotBody map[string]any

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-goog-api-key")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		fmt.Fprint(w, geminiResponse(`{"date":"2025-01-01","amount":500,"type":"income","category":"ค่าห้องพัก"}`))
	})

	_, err := client.ExtractReceipt(context.Background(), []byte("fake-jpeg"), IntentIncome)
	require.NoError(t, err)

	assert.Equal(t, "test-key", gotKey)

	cfg, ok := gotBody["generationConfig"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "application/json", cfg["response_mime_type"])

	contents, ok := gotBody["contents"].([]any)
	require.True(t, ok)
	require.Len(t, contents, 1)
}

func TestExtractReceipt_FallsBackToTodayOnBadDate(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, geminiResponse(`{"date":"15/03/2568","amount":200,"type":"expense","category":"ค่าซ่อมบำรุง"}`))
	})

	got, err := client.ExtractReceipt(context.Background(), []byte("fake-jpeg"), IntentExpense)
	require.NoError(t, err)
	assert.False(t, got.Date.IsZero())
}

func TestExtractIDCard(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, geminiResponse(`{"idNumber":"1234567890123","title":"นาย",`+
			`"firstNameTH":"สมชาย","lastNameTH":"ใจดี","firstNameEN":"Somchai","lastNameEN":"Jaidee",`+
			`"address":"99 หมู่ 1 ต.บางรัก","dob":"1990-05-20","issueDate":"2020-01-01",`+
			`"expiryDate":"2028-01-01","religion":"พุทธ"}`))
	})

	guest, err := client.ExtractIDCard(context.Background(), []byte("fake-jpeg"))
	require.NoError(t, err)
	assert.Equal(t, "1234567890123", guest.IDNumber)
	assert.Equal(t, "สมชาย ใจดี", guest.FullNameTH())
	assert.Equal(t, "1990-05-20", guest.DOB)
}

func TestExtractIDCard_MissingName(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, geminiResponse(`{"idNumber":"1234567890123"}`))
	})

	_, err := client.ExtractIDCard(context.Background(), []byte("fake-jpeg"))
	require.Error(t, err)

	var userErr *common.UserError
	assert.True(t, errors.As(err, &userErr))
}
