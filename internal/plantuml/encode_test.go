package plantuml

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeRoundTrip(t *testing.T) {
	inputs := []string{
		"",
		"@startuml\nAlice -> Bob: hi\n@enduml",
		"class Person {\n  +name: String\n}\nPerson \"1\" *-- \"1..*\" Address",
		strings.Repeat("class Ü {}\n", 50),
	}
	for _, in := range inputs {
		enc, err := Encode(in)
		require.NoError(t, err)
		dec, err := Decode(enc)
		require.NoError(t, err)
		assert.Equal(t, in, dec)
	}
}

func TestEncodeAlphabet(t *testing.T) {
	enc, err := Encode(strings.Repeat("abc xyz 123\n", 20))
	require.NoError(t, err)
	require.NotEmpty(t, enc)
	for _, r := range enc {
		assert.True(t, strings.ContainsRune(alphabet, r), "unexpected %q", r)
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := Decode("!!!")
	assert.Error(t, err)
}

func TestURL(t *testing.T) {
	assert.Equal(t, "https://www.plantuml.com/plantuml/svg/abc", URL("", "", "abc"))
	assert.Equal(t, "http://localhost:8080/png/abc", URL("http://localhost:8080/", FormatPNG, "abc"))
}

func TestParseImageFormat(t *testing.T) {
	f, err := ParseImageFormat("PNG")
	require.NoError(t, err)
	assert.Equal(t, FormatPNG, f)

	f, err = ParseImageFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatSVG, f)

	_, err = ParseImageFormat("gif")
	assert.Error(t, err)
}
