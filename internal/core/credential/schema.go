package credential

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/kirillkom/petition-assistant/internal/core/domain"
	"github.com/kirillkom/petition-assistant/internal/core/prompting"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

var (
	recordStringFields = []string{
		"name", "degree", "field_of_study", "university", "graduation_date",
		"diploma_issue_date", "birth_date", "birthplace", "document_type",
	}
	courseStringFields = []string{"course_name", "grade_received", "us_grade", "semester_or_year"}
)

func nullableString() map[string]any {
	return map[string]any{"type": []string{"string", "null"}}
}

// RecordJSONSchema describes the accepted shape of a credential record.
func RecordJSONSchema() map[string]any {
	props := map[string]any{}
	for _, k := range recordStringFields {
		props[k] = nullableString()
	}
	props["courses"] = map[string]any{
		"type": []string{"array", "null"},
		"items": map[string]any{
			"type":                 "object",
			"additionalProperties": false,
			"properties": map[string]any{
				"course_name":      nullableString(),
				"grade_received":   nullableString(),
				"us_grade":         nullableString(),
				"credits":          map[string]any{"type": []string{"number", "null"}, "minimum": 0},
				"semester_or_year": nullableString(),
			},
		},
	}
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           props,
	}
}

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	b, err := json.Marshal(RecordJSONSchema())
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("credential.json", bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	return compiler.Compile("credential.json")
})

// ParseRecord turns a raw generation response into a CredentialRecord.
// Fenced or chatty responses are tolerated; anything that does not reduce
// to a schema-conforming object is an ErrParse failure.
func ParseRecord(raw string) (*domain.CredentialRecord, error) {
	const op = "parse credential record"

	obj := prompting.ExtractJSONObject(prompting.CleanJSONBlock(raw))
	if obj == "" {
		return nil, domain.WrapError(domain.ErrParse, op, fmt.Errorf("no json object in response"))
	}
	normalized, err := normalizeRecord([]byte(obj))
	if err != nil {
		return nil, domain.WrapError(domain.ErrParse, op, err)
	}

	schema, err := compiledSchema()
	if err != nil {
		return nil, fmt.Errorf("%s: compile schema: %w", op, err)
	}
	if err := schema.Validate(normalized); err != nil {
		return nil, domain.WrapError(domain.ErrParse, op, fmt.Errorf("json does not match schema: %w", err))
	}

	b, err := json.Marshal(normalized)
	if err != nil {
		return nil, domain.WrapError(domain.ErrParse, op, err)
	}
	var record domain.CredentialRecord
	if err := json.Unmarshal(b, &record); err != nil {
		return nil, domain.WrapError(domain.ErrParse, op, err)
	}
	return &record, nil
}

// normalizeRecord drops unknown keys and coerces the loose value types
// models tend to emit (numbers for strings, "3" for credits, "null" strings).
func normalizeRecord(doc []byte) (map[string]any, error) {
	var in map[string]any
	if err := json.Unmarshal(doc, &in); err != nil {
		return nil, err
	}

	out := make(map[string]any, len(recordStringFields)+1)
	for _, k := range recordStringFields {
		if v, ok := coerceString(in[k]); ok {
			out[k] = v
		}
	}

	rawCourses, ok := in["courses"].([]any)
	if !ok {
		return out, nil
	}
	courses := make([]any, 0, len(rawCourses))
	for _, item := range rawCourses {
		c, ok := item.(map[string]any)
		if !ok {
			continue
		}
		course := map[string]any{}
		for _, k := range courseStringFields {
			if v, ok := coerceString(c[k]); ok {
				course[k] = v
			}
		}
		if credits, ok := coerceNumber(c["credits"]); ok {
			course["credits"] = credits
		}
		if course["course_name"] == nil && course["grade_received"] == nil {
			continue
		}
		courses = append(courses, course)
	}
	out["courses"] = courses
	return out, nil
}

func coerceString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		s := strings.TrimSpace(t)
		if s == "" || strings.EqualFold(s, "null") || strings.EqualFold(s, "n/a") {
			return "", false
		}
		return s, true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(t), true
	default:
		return "", false
	}
}

func coerceNumber(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, t >= 0
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil || f < 0 {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
