package extractor

import (
	"encoding/json"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// structuredResponse is the JSON shape requested in structured output mode.
type structuredResponse struct {
	Code  string `json:"code"`
	Notes string `json:"notes"`
}

// ExtractStructured recovers code from a JSON-mode response. Malformed JSON
// is passed through jsonrepair before parsing; if no JSON object can be
// recovered at all, it falls back to plain fence extraction so a provider
// that ignored the JSON instruction still yields a candidate.
func ExtractStructured(raw string) (code string, notes string, err error) {
	cleaned := stripThinkBlocks(raw)

	payload := sliceJSONObject(cleaned)
	if payload != "" {
		var resp structuredResponse
		if json.Unmarshal([]byte(payload), &resp) != nil {
			if repaired, repairErr := jsonrepair.JSONRepair(payload); repairErr == nil {
				_ = json.Unmarshal([]byte(repaired), &resp)
			}
		}
		if strings.TrimSpace(resp.Code) != "" {
			return resp.Code, resp.Notes, nil
		}
	}

	code, err = Extract(raw)
	return code, "", err
}

// sliceJSONObject returns the outermost {...} span in s, or "". JSON-mode
// responses are sometimes wrapped in fences or prose; the brace span is the
// most reliable anchor.
func sliceJSONObject(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end <= start {
		return ""
	}
	return s[start : end+1]
}
