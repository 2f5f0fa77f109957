package facts

import (
	"encoding/json"
	"fmt"

	"shoprag/internal/domain"
	"shoprag/internal/textutil"
)

// SchemaVersion of the structured facts shape below. Bump when the prompt
// schema changes so stored snapshots stay interpretable.
const SchemaVersion = 1

// ParseFacts decodes a model response into structured facts. The response
// may be fenced, bare, or wrapped in prose; the JSON object is located by
// the first-`{`-to-last-`}` span. A parse error here means "unparseable",
// which is a different failure than "parsed but business-invalid"; the
// caller treats the two separately.
func ParseFacts(raw string) (*domain.ProductFacts, error) {
	obj, err := textutil.ExtractJSONObject(raw)
	if err != nil {
		return nil, err
	}
	var f domain.ProductFacts
	if err := json.Unmarshal([]byte(obj), &f); err != nil {
		return nil, fmt.Errorf("decode facts: %w", err)
	}
	return &f, nil
}
