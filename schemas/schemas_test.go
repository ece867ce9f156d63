package schemas_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xeipuuv/gojsonschema"

	"github.com/kdjkdj1234567890-bit/content-engine/internal/schemas"
	rootschemas "github.com/kdjkdj1234567890-bit/content-engine/schemas"
)

func TestAllSchemaFiles_ValidJSON(t *testing.T) {
	names := rootschemas.Names()
	require.ElementsMatch(t, []string{rootschemas.RuleOverrides, rootschemas.QualityReport}, names)

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			content, err := rootschemas.Load(name)
			require.NoError(t, err)

			var schemaObj map[string]interface{}
			require.NoError(t, json.Unmarshal([]byte(content), &schemaObj), "schema file should be valid JSON: %s", name)

			_, hasSchema := schemaObj["$schema"]
			_, hasType := schemaObj["type"]
			assert.True(t, hasSchema && hasType, "schema should declare $schema and type")
		})
	}
}

func TestAllSchemaFiles_Compile(t *testing.T) {
	for _, name := range rootschemas.Names() {
		t.Run(name, func(t *testing.T) {
			content, err := rootschemas.Load(name)
			require.NoError(t, err)

			_, err = gojsonschema.NewSchema(gojsonschema.NewStringLoader(content))
			assert.NoError(t, err)
		})
	}
}

func TestLoad_Unknown(t *testing.T) {
	_, err := rootschemas.Load("missing.schema.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not embedded")
}

func TestRuleOverrides_RejectsUnknownTable(t *testing.T) {
	doc := map[string]interface{}{
		"tables": map[string]interface{}{
			"slang": []interface{}{},
		},
	}
	err := schemas.ValidateNamed(rootschemas.RuleOverrides, doc)
	require.Error(t, err)

	var validationErr *schemas.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.NotEmpty(t, validationErr.Violations)
}

func TestQualityReport_AcceptsNullSEO(t *testing.T) {
	doc := `{
		"seo": null,
		"fact_check": {"score": 90, "details": [{"label": "내용 다양성", "status": "pass", "points": 0}]},
		"performance": {"score": 40, "details": [], "grade": "C"},
		"quality": {
			"score": 46, "grade": "C", "grade_label": "📝 보통 콘텐츠",
			"breakdown": {"seo": 0, "fact_check": 90, "performance": 40},
			"strengths": ["높은 신뢰도"], "issues": [], "top_suggestion": null
		}
	}`
	assert.NoError(t, schemas.ValidateDocument(rootschemas.QualityReport, []byte(doc)))
}
