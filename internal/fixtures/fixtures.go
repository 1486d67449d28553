// Package fixtures serves the sample diagrams shipped with the service.
package fixtures

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/pkg/errors"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const Extension = ".plant"

type Fixture struct {
	ID       string `json:"id"`
	FileName string `json:"fileName"`
	Label    string `json:"label"`
	Content  string `json:"content"`
}

var (
	upper = cases.Upper(language.Und)
	title = cases.Title(language.Und, cases.NoLower)
)

// Label turns "t1-person-basics.plant" into "T1 Person Basics".
func Label(fileName string) string {
	base := strings.TrimSuffix(fileName, Extension)
	parts := strings.Split(base, "-")
	id := upper.String(parts[0])
	words := make([]string, 0, len(parts)-1)
	for _, p := range parts[1:] {
		words = append(words, title.String(p))
	}
	rest := strings.Join(words, " ")
	if rest == "" {
		return id
	}
	return id + " " + rest
}

// Load reads every *.plant file directly inside dir, sorted by file name.
func Load(dir string) ([]Fixture, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "read fixtures dir %s", dir)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), Extension) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	out := make([]Fixture, 0, len(names))
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, errors.Wrapf(err, "read fixture %s", name)
		}
		out = append(out, Fixture{
			ID:       strings.TrimSuffix(name, Extension),
			FileName: name,
			Label:    Label(name),
			Content:  string(data),
		})
	}
	return out, nil
}

// Catalog holds the fixtures of one directory. Reload swaps the whole list,
// so readers never see a partial reload.
type Catalog struct {
	dir  string
	list atomic.Pointer[[]Fixture]
}

func NewCatalog(dir string) *Catalog {
	return &Catalog{dir: dir}
}

func (c *Catalog) Dir() string { return c.dir }

// Reload re-reads the directory. On failure the previous list is kept.
func (c *Catalog) Reload() (int, error) {
	list, err := Load(c.dir)
	if err != nil {
		return 0, err
	}
	c.list.Store(&list)
	return len(list), nil
}

// List returns the fixtures, loading them on first use.
func (c *Catalog) List() ([]Fixture, error) {
	if p := c.list.Load(); p != nil {
		return *p, nil
	}
	if _, err := c.Reload(); err != nil {
		return nil, err
	}
	return *c.list.Load(), nil
}

func (c *Catalog) Get(id string) (Fixture, bool, error) {
	list, err := c.List()
	if err != nil {
		return Fixture{}, false, err
	}
	for _, f := range list {
		if f.ID == id {
			return f, true, nil
		}
	}
	return Fixture{}, false, nil
}
