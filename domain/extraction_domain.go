package domain

import "errors"

var (
	ErrGeminiProcessingFailed = errors.New("gemini processing failed")
	ErrNoVisionEvidence       = errors.New("vision extraction produced no evidence")
)

type (
	// VisionField is one value the vision model read off the page, with the
	// OCR line ids it points at as evidence. Values without evidence are
	// discarded upstream; the model reads visible text, it does not guess.
	VisionField struct {
		Text            string   `json:"text"`
		EvidenceLineIDs []string `json:"evidence_ocr_line_ids"`
	}

	VisionServings struct {
		Value           *int     `json:"value,omitempty"`
		IsEstimate      bool     `json:"is_estimate"`
		Confidence      *float64 `json:"confidence,omitempty"`
		EvidenceLineIDs []string `json:"evidence_ocr_line_ids"`
	}

	VisionExtraction struct {
		Title       *VisionField    `json:"title,omitempty"`
		Servings    *VisionServings `json:"servings,omitempty"`
		Ingredients []VisionField   `json:"ingredients"`
		Steps       []VisionField   `json:"steps"`
		Tags        []string        `json:"tags,omitempty"`
	}
)
