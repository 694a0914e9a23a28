package extract

import (
	"strings"

	"github.com/paisaflow/paisaflow/internal/model"
	"github.com/paisaflow/paisaflow/internal/registry"
)

// ExtractFields runs every field sub-pattern of a candidate against
// the message body. Each field is independent: one field failing to
// match never aborts extraction of the others.
func ExtractFields(body string, candidate *registry.CompiledPattern) model.ExtractedFields {
	values := make(map[model.FieldName]string)

	for _, field := range model.AllFields {
		re := candidate.Field(field)
		if re == nil {
			continue
		}
		match := re.FindStringSubmatch(body)
		if match == nil {
			continue
		}

		// Prefer the first non-empty capture group; patterns with
		// alternations may leave earlier groups empty.
		text := match[0]
		for _, group := range match[1:] {
			if group != "" {
				text = group
				break
			}
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		values[field] = text
	}

	return model.ExtractedFields{
		Values:   values,
		BankName: candidate.BankName(),
	}
}
