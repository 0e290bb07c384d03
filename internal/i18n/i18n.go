// Package i18n serves the UI string catalogs of the marketing site and
// negotiates which one a visitor gets.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"path"
	"sort"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// DefaultLang is served when nothing better matches.
const DefaultLang = "en"

// CookieName is the cookie the language switcher writes.
const CookieName = "lang"

//go:embed locales/*.yaml
var locales embed.FS

type Catalog struct {
	Lang     string            `yaml:"lang" json:"lang"`
	Name     string            `yaml:"name" json:"name"`
	Dir      string            `yaml:"dir" json:"dir"`
	Messages map[string]string `yaml:"messages" json:"messages"`
}

type Bundle struct {
	catalogs map[string]*Catalog
	tags     []language.Tag
	codes    []string
	matcher  language.Matcher
}

// Load parses the embedded catalogs.
func Load() (*Bundle, error) {
	return loadFS(locales, "locales")
}

func loadFS(fsys fs.FS, dir string) (*Bundle, error) {
	files, err := fs.Glob(fsys, path.Join(dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("list catalogs: %w", err)
	}

	catalogs := make(map[string]*Catalog, len(files))
	for _, f := range files {
		raw, err := fs.ReadFile(fsys, f)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f, err)
		}
		var cat Catalog
		if err := yaml.Unmarshal(raw, &cat); err != nil {
			return nil, fmt.Errorf("parse %s: %w", f, err)
		}
		if cat.Lang == "" {
			return nil, fmt.Errorf("catalog %s: missing lang", f)
		}
		if cat.Dir == "" {
			cat.Dir = "ltr"
		}
		catalogs[cat.Lang] = &cat
	}

	def, ok := catalogs[DefaultLang]
	if !ok {
		return nil, fmt.Errorf("default catalog %q not found", DefaultLang)
	}

	// Keys missing from a translation fall back to the default text.
	for _, cat := range catalogs {
		if cat.Messages == nil {
			cat.Messages = make(map[string]string, len(def.Messages))
		}
		for k, v := range def.Messages {
			if _, ok := cat.Messages[k]; !ok {
				cat.Messages[k] = v
			}
		}
	}

	codes := make([]string, 0, len(catalogs))
	for code := range catalogs {
		if code != DefaultLang {
			codes = append(codes, code)
		}
	}
	sort.Strings(codes)
	// the matcher treats the first tag as the fallback
	codes = append([]string{DefaultLang}, codes...)

	tags := make([]language.Tag, 0, len(codes))
	for _, code := range codes {
		tags = append(tags, language.Make(code))
	}

	return &Bundle{
		catalogs: catalogs,
		tags:     tags,
		codes:    codes,
		matcher:  language.NewMatcher(tags),
	}, nil
}

// Languages lists the supported codes, default first.
func (b *Bundle) Languages() []string {
	out := make([]string, len(b.codes))
	copy(out, b.codes)
	return out
}

// Lookup returns the catalog for code, or the default catalog when code is
// unknown. Region subtags are ignored ("fr-CA" yields "fr").
func (b *Bundle) Lookup(code string) *Catalog {
	if cat, ok := b.find(code); ok {
		return cat
	}
	return b.catalogs[DefaultLang]
}

func (b *Bundle) find(code string) (*Catalog, bool) {
	if code == "" {
		return nil, false
	}
	if cat, ok := b.catalogs[code]; ok {
		return cat, true
	}
	tag, err := language.Parse(code)
	if err != nil {
		return nil, false
	}
	base, _ := tag.Base()
	cat, ok := b.catalogs[base.String()]
	return cat, ok
}

// Match picks the best catalog for an Accept-Language header value.
func (b *Bundle) Match(acceptLanguage string) *Catalog {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return b.catalogs[DefaultLang]
	}
	_, idx, conf := b.matcher.Match(tags...)
	if conf == language.No {
		return b.catalogs[DefaultLang]
	}
	return b.catalogs[b.codes[idx]]
}

// Resolve chooses the catalog for r: the lang query parameter, then the
// lang cookie, then Accept-Language.
func (b *Bundle) Resolve(r *http.Request) *Catalog {
	if cat, ok := b.find(r.URL.Query().Get("lang")); ok {
		return cat
	}
	if ck, err := r.Cookie(CookieName); err == nil {
		if cat, ok := b.find(ck.Value); ok {
			return cat
		}
	}
	return b.Match(r.Header.Get("Accept-Language"))
}
