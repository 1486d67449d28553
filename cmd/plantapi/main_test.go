package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const personDiagram = `@startuml
class Person {
  +id: UUID
  +name: String
}
class Address {
  +street: String
}
Person "1" *-- "1..*" Address
@enduml
`

// run executes the root command in isolation from any config, .env or
// PLANTAPI_* variables of the machine running the tests.
func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("PLANTAPI_ENV_FILE", filepath.Join(dir, "missing.env"))
	t.Setenv("PLANTAPI_DB_URL", "")
	t.Setenv("PLANTAPI_OUTPUT_FORMAT", "")
	t.Setenv("PLANTAPI_RENDER_SERVER", "")

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", filepath.Join(dir, "missing.json")}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestTransformStdin(t *testing.T) {
	out, _, err := run(t, personDiagram, "transform")
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "3.1.0", doc["openapi"])

	paths := doc["paths"].(map[string]any)
	assert.Contains(t, paths, "/persons")
	assert.Contains(t, paths, "/persons/{id}")
	assert.Contains(t, paths, "/address")

	schemas := doc["components"].(map[string]any)["schemas"].(map[string]any)
	assert.Contains(t, schemas, "Person")
	assert.Contains(t, schemas, "ApiError")
}

func TestTransformYAML(t *testing.T) {
	out, _, err := run(t, personDiagram, "transform", "--format", "yaml", "--validate")
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "3.1.0", doc["openapi"])
}

func TestTransformUnknownFormat(t *testing.T) {
	_, _, err := run(t, personDiagram, "transform", "--format", "xml")
	require.Error(t, err)
}

func TestTransformSingleFileToStdout(t *testing.T) {
	in := filepath.Join(t.TempDir(), "people.plant")
	writeFile(t, in, personDiagram)

	out, _, err := run(t, "", "transform", in)
	require.NoError(t, err)
	assert.True(t, json.Valid([]byte(out)))
	_, statErr := os.Stat(filepath.Join(filepath.Dir(in), "people.json"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestTransformOutDir(t *testing.T) {
	src := t.TempDir()
	writeFile(t, filepath.Join(src, "people.plant"), personDiagram)
	writeFile(t, filepath.Join(src, "nested", "orders.puml"), "class Order {\n +total: double\n}\n")
	writeFile(t, filepath.Join(src, "notes.txt"), "not a diagram")
	dst := filepath.Join(t.TempDir(), "out")

	out, logs, err := run(t, "", "transform", "--out-dir", dst, "-j", "2", src)
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Contains(t, logs, "document written")

	for _, name := range []string{"people.json", "orders.json"} {
		b, err := os.ReadFile(filepath.Join(dst, name))
		require.NoError(t, err, name)
		assert.True(t, json.Valid(b), name)
	}
	_, statErr := os.Stat(filepath.Join(dst, "notes.json"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestTransformNextToInputs(t *testing.T) {
	src := t.TempDir()
	a := filepath.Join(src, "a.plant")
	b := filepath.Join(src, "b.plant")
	writeFile(t, a, "class A {}")
	writeFile(t, b, "class B {}")

	_, _, err := run(t, "", "transform", "--format", "yml", a, b)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(src, "a.yaml"))
	assert.FileExists(t, filepath.Join(src, "b.yaml"))
}

func TestTransformOutputCollision(t *testing.T) {
	src := t.TempDir()
	writeFile(t, filepath.Join(src, "one", "model.plant"), "class A {}")
	writeFile(t, filepath.Join(src, "two", "model.plant"), "class B {}")

	_, _, err := run(t, "", "transform", "--out-dir", t.TempDir(), src)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "would both write")
}

func TestTransformWatchNeedsFiles(t *testing.T) {
	_, _, err := run(t, personDiagram, "transform", "--watch")
	require.Error(t, err)
}

func TestParse(t *testing.T) {
	out, _, err := run(t, personDiagram, "parse")
	require.NoError(t, err)

	var d struct {
		Classes []struct {
			Name string `json:"name"`
		} `json:"classes"`
		Relations []map[string]any `json:"relations"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &d))
	require.Len(t, d.Classes, 2)
	assert.Equal(t, "Person", d.Classes[0].Name)
	assert.Len(t, d.Relations, 1)
}

func TestLint(t *testing.T) {
	diagram := "class A {}\nA -- Ghost\n"

	out, _, err := run(t, diagram, "lint")
	require.NoError(t, err)
	assert.Contains(t, out, "dangling_endpoint")

	_, _, err = run(t, diagram, "lint", "--strict")
	require.Error(t, err)

	_, _, err = run(t, "class A {}\n", "lint", "--strict")
	require.NoError(t, err)
}

func TestLintDirJSON(t *testing.T) {
	src := t.TempDir()
	writeFile(t, filepath.Join(src, "clean.plant"), "class A {}")
	writeFile(t, filepath.Join(src, "sub", "broken.puml"), "class A {}\nA -- Ghost\n")

	out, _, err := run(t, "", "lint", "--json", src)
	require.NoError(t, err)

	var reports []lintReport
	require.NoError(t, json.Unmarshal([]byte(out), &reports))
	require.Len(t, reports, 2)
	assert.Equal(t, "clean.plant", reports[0].File)
	assert.Empty(t, reports[0].Issues)
	assert.Equal(t, "sub/broken.puml", reports[1].File)
	require.Len(t, reports[1].Issues, 1)
	assert.Equal(t, "dangling_endpoint", reports[1].Issues[0].Code)
}

func TestDDL(t *testing.T) {
	out, _, err := run(t, personDiagram, "ddl", "--schema", "app")
	require.NoError(t, err)
	assert.Contains(t, out, `create schema if not exists "app";`)
	assert.Contains(t, out, `create table if not exists "app"."persons"`)
	assert.Contains(t, out, `"name" text not null`)
}

func TestDDLApplyNeedsDatabase(t *testing.T) {
	_, _, err := run(t, personDiagram, "ddl", "--apply")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--apply needs")
}

func TestEncodeDecode(t *testing.T) {
	src := "@startuml\nA -> B\n@enduml"

	url, _, err := run(t, src, "encode", "--format", "png")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "https://www.plantuml.com/plantuml/png/"), url)

	encoded, _, err := run(t, src, "encode", "--raw")
	require.NoError(t, err)
	encoded = strings.TrimSpace(encoded)
	assert.True(t, strings.HasSuffix(strings.TrimSpace(url), "/"+encoded))

	decoded, _, err := run(t, "", "decode", encoded)
	require.NoError(t, err)
	assert.Equal(t, src+"\n", decoded)

	decoded, _, err = run(t, "", "decode", strings.TrimSpace(url))
	require.NoError(t, err)
	assert.Equal(t, src+"\n", decoded)
}

func TestEncodeCustomServer(t *testing.T) {
	out, _, err := run(t, "A -> B", "encode", "--server", "http://localhost:8000/")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "http://localhost:8000/svg/"), out)
}

func TestFixtures(t *testing.T) {
	dir := filepath.Join("..", "..", "fixtures")

	out, _, err := run(t, "", "fixtures", "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "t1-person-basics")
	assert.Contains(t, out, "T1 Person Basics")

	out, _, err = run(t, "", "fixtures", "--dir", dir, "--show", "t1-person-basics")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "@startuml"))

	_, _, err = run(t, "", "fixtures", "--dir", dir, "--show", "nope")
	require.Error(t, err)
}

func TestCollectInputs(t *testing.T) {
	src := t.TempDir()
	a := filepath.Join(src, "a.plant")
	writeFile(t, a, "class A {}")
	writeFile(t, filepath.Join(src, "deep", "b.pu"), "class B {}")
	writeFile(t, filepath.Join(src, "readme.md"), "#")

	got, err := collectInputs([]string{src, a})
	require.NoError(t, err)
	assert.Equal(t, []string{a, filepath.Join(src, "deep", "b.pu")}, got)

	_, err = collectInputs([]string{filepath.Join(src, "missing.plant")})
	require.Error(t, err)
}
