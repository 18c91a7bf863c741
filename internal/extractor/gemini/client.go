// Package gemini implements receipt extraction against the Gemini REST API:
// one cheap classification call to reject non-receipt images, then a
// schema-constrained extraction call returning structured JSON.
package gemini

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

	"github.com/google/uuid"

	"github.com/snapsplit/snapsplit/internal/extractor"
	"github.com/snapsplit/snapsplit/internal/models"
)

var _ extractor.Extractor = (*Client)(nil)

const extractionPrompt = `You are an expert receipt processing assistant. Analyze the provided receipt image and extract key information as JSON.

Follow these guidelines:
- For 'discounts': if a percentage discount is shown, calculate the final numeric discount amount.
- For 'subtotal': if not explicitly printed, infer it as the sum of all line items.
- If a value is not clearly present, use null or an empty list.`

const classificationPrompt = `Is this image a retail receipt or bill? Answer only 'YES' or 'NO'.`

// request/response shapes for generateContent, trimmed to the fields used.
type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
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

type generationConfig struct {
	Temperature      float32        `json:"temperature"`
	MaxOutputTokens  int            `json:"maxOutputTokens,omitempty"`
	ResponseMimeType string         `json:"responseMimeType,omitempty"`
	ResponseSchema   map[string]any `json:"responseSchema,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Extract classifies the image and, when it is a receipt, extracts its
// structured data. Returns extractor.ErrNotAReceipt for non-receipt images.
func (c *Client) Extract(ctx context.Context, image []byte) (*models.Receipt, error) {
	rid := uuid.New().String()
	start := time.Now()

	c.logger.Info("gemini.extract.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"image_bytes", len(image),
	)

	isReceipt, err := c.classify(ctx, rid, image)
	if err != nil {
		return nil, fmt.Errorf("classify image: %w", err)
	}
	if !isReceipt {
		c.logger.Warn("gemini.extract.not_a_receipt", "req_id", rid)
		return nil, extractor.ErrNotAReceipt
	}

	req := generateRequest{
		Contents: []content{{Parts: []part{
			{Text: extractionPrompt},
			{InlineData: &inlineData{
				MimeType: "image/jpeg",
				Data:     base64.StdEncoding.EncodeToString(image),
			}},
		}}},
		GenerationConfig: &generationConfig{
			Temperature:      c.cfg.Temperature,
			ResponseMimeType: "application/json",
			ResponseSchema:   responseSchema(),
		},
	}

	text, err := c.generate(ctx, rid, req)
	if err != nil {
		c.logger.Error("gemini.extract.failed",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, err
	}

	raw := []byte(text)
	if err := extractor.ValidateAgainstSchema(extractor.BuildReceiptSchema(), raw); err != nil {
		c.logger.Error("gemini.extract.schema_validation_failed",
			"req_id", rid, "error", err, "content", text,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, err
	}

	var receipt models.Receipt
	if err := json.Unmarshal(raw, &receipt); err != nil {
		return nil, fmt.Errorf("decode receipt data: %w", err)
	}

	c.logger.Info("gemini.extract.ok",
		"req_id", rid,
		"line_items", len(receipt.LineItems),
		"discounts", len(receipt.Discounts),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return &receipt, nil
}

// classify asks the model whether the image is a receipt at all before
// spending a full extraction call on it.
func (c *Client) classify(ctx context.Context, rid string, image []byte) (bool, error) {
	req := generateRequest{
		Contents: []content{{Parts: []part{
			{Text: classificationPrompt},
			{InlineData: &inlineData{
				MimeType: "image/jpeg",
				Data:     base64.StdEncoding.EncodeToString(image),
			}},
		}}},
		GenerationConfig: &generationConfig{
			Temperature:     0.0,
			MaxOutputTokens: 10,
		},
	}

	text, err := c.generate(ctx, rid, req)
	if err != nil {
		return false, err
	}
	answer := strings.ToUpper(strings.TrimSpace(text))
	c.logger.Info("gemini.classify.result", "req_id", rid, "answer", answer)
	return answer == "YES", nil
}

// generate posts a generateContent request and returns the first candidate's
// text.
func (c *Client) generate(ctx context.Context, rid string, body generateRequest) (string, error) {
	endpoint := fmt.Sprintf("%s/models/%s:generateContent",
		strings.TrimRight(c.cfg.BaseURL, "/"), c.cfg.Model)

	bs, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(bs))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.cfg.APIKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode/100 != 2 {
		c.logger.Error("gemini.http.non_2xx",
			"req_id", rid, "status", resp.StatusCode, "bytes", len(raw))
		return "", fmt.Errorf("gemini returned status %d", resp.StatusCode)
	}

	var gr generateResponse
	if err := json.Unmarshal(raw, &gr); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no candidates in gemini response")
	}
	return gr.Candidates[0].Content.Parts[0].Text, nil
}

// responseSchema is the structured-output constraint sent to the API. It is a
// simplified single-type variant of extractor.BuildReceiptSchema, since the
// generateContent schema dialect does not take type unions.
func responseSchema() map[string]any {
	str := map[string]any{"type": "string"}
	num := map[string]any{"type": "number"}
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"store_name":       str,
			"transaction_date": str,
			"transaction_time": str,
			"line_items": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"item_description": str,
						"quantity":         num,
						"item_total_price": num,
					},
					"required": []any{"item_description", "item_total_price"},
				},
			},
			"discounts": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"description": str,
						"amount":      num,
					},
					"required": []any{"description", "amount"},
				},
			},
			"tax_details": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"tax_label":  str,
						"tax_amount": num,
					},
					"required": []any{"tax_label", "tax_amount"},
				},
			},
			"subtotal":     num,
			"total_amount": num,
			"tip_amount":   num,
		},
	}
}
