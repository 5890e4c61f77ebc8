package extraction

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"recipenow-backend/domain"
	"recipenow-backend/internal/utils"
)

// VisionExtractor reads visible text from recipe media when the rule-based
// extractor leaves a critical region empty. It reads, it does not infer;
// every returned value should point at the OCR lines it was read from.
type VisionExtractor interface {
	ExtractRecipe(ctx context.Context, image []byte, mimeType string, lines []Line) (domain.VisionExtraction, error)
}

type geminiVision struct {
	httpClient *http.Client
}

func NewGeminiVision() VisionExtractor {
	return &geminiVision{
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

const visionPromptHeader = `You are a recipe data extractor. READ VISIBLE TEXT from this recipe image and return structured data. Do NOT guess, infer, or make up values; only return text you can clearly read.

The image was already OCR-scanned. The recognized lines and their ids are listed below. For every field you extract, include the ids of the OCR lines it was read from as evidence.

Respond ONLY with a valid JSON object of this exact shape, omitting fields that are not visible:
{
  "title": {"text": "...", "evidence_ocr_line_ids": ["..."]},
  "servings": {"value": 4, "is_estimate": false, "confidence": 0.9, "evidence_ocr_line_ids": ["..."]},
  "ingredients": [{"text": "...", "evidence_ocr_line_ids": ["..."]}],
  "steps": [{"text": "...", "evidence_ocr_line_ids": ["..."]}],
  "tags": ["..."]
}
Do not include explanations, markdown formatting, or extra text.

OCR lines:
`

func (g *geminiVision) ExtractRecipe(ctx context.Context, image []byte, mimeType string, lines []Line) (domain.VisionExtraction, error) {
	apiKey := utils.GetConfig("GEMINI_API_KEY")
	if apiKey == "" {
		return domain.VisionExtraction{}, fmt.Errorf("GEMINI_API_KEY not configured")
	}
	model := utils.GetConfig("GEMINI_MODEL")
	if model == "" {
		return domain.VisionExtraction{}, fmt.Errorf("GEMINI_MODEL not configured")
	}

	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	var prompt strings.Builder
	prompt.WriteString(visionPromptHeader)
	for _, line := range lines {
		fmt.Fprintf(&prompt, "[%s] (page %d) %s\n", line.ID, line.Page, line.Text)
	}

	geminiURL := fmt.Sprintf(
		"https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent?key=%s",
		model, apiKey,
	)

	requestBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"parts": []map[string]interface{}{
					{"text": prompt.String()},
					{
						"inline_data": map[string]interface{}{
							"mime_type": mimeType,
							"data":      base64.StdEncoding.EncodeToString(image),
						},
					},
				},
			},
		},
		"generationConfig": map[string]interface{}{
			"temperature": 0.1,
			"topP":        0.8,
			"topK":        40,
		},
	}

	requestJSON, err := json.Marshal(requestBody)
	if err != nil {
		return domain.VisionExtraction{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, geminiURL, bytes.NewBuffer(requestJSON))
	if err != nil {
		return domain.VisionExtraction{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return domain.VisionExtraction{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return domain.VisionExtraction{}, fmt.Errorf("gemini API error: %s - %s", resp.Status, string(bodyBytes))
	}

	var geminiResp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&geminiResp); err != nil {
		return domain.VisionExtraction{}, err
	}
	if len(geminiResp.Candidates) == 0 || len(geminiResp.Candidates[0].Content.Parts) == 0 {
		return domain.VisionExtraction{}, domain.ErrGeminiProcessingFailed
	}

	return parseVisionResponse(geminiResp.Candidates[0].Content.Parts[0].Text)
}

var jsonBlockPattern = regexp.MustCompile(`(?s)\{.*\}`)

// parseVisionResponse tolerates markdown fences and surrounding prose around
// the JSON object.
func parseVisionResponse(responseText string) (domain.VisionExtraction, error) {
	if match := jsonBlockPattern.FindString(responseText); match != "" {
		responseText = match
	}

	responseText = strings.TrimSpace(responseText)
	responseText = strings.TrimPrefix(responseText, "```json")
	responseText = strings.TrimPrefix(responseText, "```")
	responseText = strings.TrimSuffix(responseText, "```")
	responseText = strings.TrimSpace(responseText)

	var extraction domain.VisionExtraction
	if err := json.Unmarshal([]byte(responseText), &extraction); err != nil {
		return domain.VisionExtraction{}, fmt.Errorf("failed to parse vision response: %w", err)
	}
	return extraction, nil
}
