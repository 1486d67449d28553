package render

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"plantapi/internal/openapi"
)

func sampleDoc() *openapi.Document {
	return openapi.FromText("class Box {\n +label: String\n}\nclass Lid {}\nBox *-- Lid")
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"", FormatJSON},
		{"JSON", FormatJSON},
		{"yml", FormatYAML},
		{" yaml ", FormatYAML},
		{"msgpack", FormatMsgpack},
		{"mp", FormatMsgpack},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseFormat("xml")
	assert.EqualError(t, err, "unsupported format: xml")
}

func TestFormatMetadata(t *testing.T) {
	assert.Equal(t, ".json", FormatJSON.Extension())
	assert.Equal(t, ".yaml", FormatYAML.Extension())
	assert.Equal(t, ".msgpack", FormatMsgpack.Extension())
	assert.Equal(t, "application/yaml", FormatYAML.ContentType())
	assert.Equal(t, "application/msgpack", FormatMsgpack.ContentType())
}

func TestEncodeJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, map[string]string{"q": "a<b&c"}, FormatJSON))
	assert.Equal(t, "{\n  \"q\": \"a<b&c\"\n}\n", buf.String())

	raw, err := Marshal(sampleDoc(), FormatJSON)
	require.NoError(t, err)
	var generic map[string]any
	require.NoError(t, json.Unmarshal(raw, &generic))
	assert.Equal(t, "3.1.0", generic["openapi"])
}

func TestEncodeYAML(t *testing.T) {
	raw, err := Marshal(sampleDoc(), FormatYAML)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), "openapi: 3.1.0\n"))
	assert.Contains(t, string(raw), "$ref: '#/components/schemas/Lid'")

	var generic map[string]any
	require.NoError(t, yaml.Unmarshal(raw, &generic))
	paths := generic["paths"].(map[string]any)
	assert.Contains(t, paths, "/boxes/{id}")
}

func TestEncodeMsgpackUsesJSONNames(t *testing.T) {
	raw, err := Marshal(sampleDoc(), FormatMsgpack)
	require.NoError(t, err)

	var generic map[string]any
	require.NoError(t, msgpack.Unmarshal(raw, &generic))
	assert.Equal(t, "3.1.0", generic["openapi"])

	schemas := generic["components"].(map[string]any)["schemas"].(map[string]any)
	box := schemas["Box"].(map[string]any)
	assert.Equal(t, "object", box["type"])
	assert.NotContains(t, box, "allOf")
	assert.NotContains(t, box, "AllOf")
	lid := box["properties"].(map[string]any)["lid"].(map[string]any)
	assert.Equal(t, "#/components/schemas/Lid", lid["$ref"])
}

func TestEncodeUnsupported(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, Encode(&buf, 1, Format("toml")))
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "nested", "api.yaml")
	require.NoError(t, WriteFile(path, sampleDoc(), FormatYAML))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "title: PlantUML Generated API")
}
