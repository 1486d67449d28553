package openapi

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"plantapi/internal/uml"
)

func issueCodes(issues []Issue) []string {
	out := make([]string, 0, len(issues))
	for _, is := range issues {
		out = append(out, is.Code)
	}
	return out
}

func TestLintCleanDiagram(t *testing.T) {
	d := uml.Parse("class Person {\n +id: UUID\n}\nclass Address {}\nPerson *-- Address")
	assert.Empty(t, Lint(d))
}

func TestLintNil(t *testing.T) {
	assert.NotNil(t, Lint(nil))
	assert.Empty(t, Lint(nil))
}

func TestLintReportsDroppedParts(t *testing.T) {
	d := uml.Parse(`
class Person {
  +wallet: Money
  +home: Address
}
class Address {}
class Address {}
Person -- Ghost
Phantom <|-- Person
Person ..> Address
`)
	issues := Lint(d)
	assert.Equal(t, []string{
		"duplicate_component",
		"unknown_type",
		"dangling_endpoint",
		"inheritance_unknown",
		"relation_ignored",
	}, issueCodes(issues))

	assert.Equal(t, "Address", issues[0].Entity)
	assert.Equal(t, "wallet", issues[1].Field)
	assert.Equal(t, SeverityInfo, issues[1].Severity)
	assert.Equal(t, "ghost", issues[2].Field)
	assert.Equal(t, "Person", issues[3].Entity)
	assert.Equal(t, SeverityWarning, issues[3].Severity)
}
