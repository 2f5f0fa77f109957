package translation

import (
	"encoding/json"
	"fmt"

	"shoprag/internal/domain"
	"shoprag/internal/textutil"
)

// parsedSnapshot is the wire shape the model is asked to return. Fields use
// json.RawMessage so one malformed field does not discard the others.
type parsedSnapshot struct {
	Title           json.RawMessage `json:"title"`
	DescriptionHTML json.RawMessage `json:"description_html"`
	SpecsJSON       json.RawMessage `json:"specs_json"`
	FAQJSON         json.RawMessage `json:"faq_json"`
}

// parseSnapshotResponse extracts and decodes the JSON object from a model
// response. Returns an error only when no object can be decoded at all;
// field-level problems are handled by applyParsed.
func parseSnapshotResponse(raw string) (*parsedSnapshot, error) {
	obj, err := textutil.ExtractJSONObject(raw)
	if err != nil {
		return nil, err
	}
	var p parsedSnapshot
	if err := json.Unmarshal([]byte(obj), &p); err != nil {
		return nil, fmt.Errorf("decode translation response: %w", err)
	}
	return &p, nil
}

// applyParsed merges a parsed translation over the original snapshot. Any
// field that fails to match the expected type keeps the original value; a
// malformed translation for one field must not discard the whole result.
func applyParsed(orig domain.ProductSnapshot, p *parsedSnapshot) domain.ProductSnapshot {
	out := orig
	var title string
	if p.Title != nil && json.Unmarshal(p.Title, &title) == nil && title != "" {
		out.Title = title
	}
	var desc string
	if p.DescriptionHTML != nil && json.Unmarshal(p.DescriptionHTML, &desc) == nil && desc != "" {
		out.DescriptionHTML = desc
	}
	var specs map[string]string
	if p.SpecsJSON != nil && json.Unmarshal(p.SpecsJSON, &specs) == nil && specs != nil {
		out.Specs = specs
	}
	var faq []domain.FAQEntry
	if p.FAQJSON != nil && json.Unmarshal(p.FAQJSON, &faq) == nil && faq != nil {
		out.FAQ = faq
	}
	return out
}
