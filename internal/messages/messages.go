// Package messages renders player-facing text from the embedded locale files.
package messages

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
	"gopkg.in/yaml.v3"
)

// BaseLocale provides every key; other locales fall back to it.
const BaseLocale = "en-US"

//go:embed locales/*.yaml
var embeddedLocales embed.FS

type localeFile struct {
	Locale   string            `yaml:"locale"`
	Messages map[string]string `yaml:"messages"`
}

// Translator formats messages for one locale.
type Translator struct {
	tag     language.Tag
	printer *message.Printer
	keys    map[string]bool
}

// Load returns a Translator for the closest embedded locale to the requested one.
func Load(locale string) (*Translator, error) {
	return LoadFromFS(embeddedLocales, locale)
}

// LoadFromFS reads locales/*.yaml from fsys.
func LoadFromFS(fsys fs.FS, locale string) (*Translator, error) {
	files, err := readLocales(fsys)
	if err != nil {
		return nil, err
	}
	base, ok := files[BaseLocale]
	if !ok {
		return nil, fmt.Errorf("base locale %s is not defined", BaseLocale)
	}

	builder := catalog.NewBuilder(catalog.Fallback(language.MustParse(BaseLocale)))
	var tags []language.Tag
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		tag, err := language.Parse(name)
		if err != nil {
			return nil, fmt.Errorf("parse locale tag %q: %w", name, err)
		}
		tags = append(tags, tag)
		for key, text := range base {
			if localized, ok := files[name][key]; ok {
				text = localized
			}
			if err := builder.SetString(tag, key, text); err != nil {
				return nil, fmt.Errorf("locale %s key %s: %w", name, key, err)
			}
		}
	}

	requested, err := language.Parse(strings.TrimSpace(locale))
	if err != nil {
		requested = language.MustParse(BaseLocale)
	}
	_, index, _ := language.NewMatcher(tags).Match(requested)
	tag := tags[index]

	keys := make(map[string]bool, len(base))
	for key := range base {
		keys[key] = true
	}

	return &Translator{
		tag:     tag,
		printer: message.NewPrinter(tag, message.Catalog(builder)),
		keys:    keys,
	}, nil
}

func readLocales(fsys fs.FS) (map[string]map[string]string, error) {
	paths, err := fs.Glob(fsys, "locales/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob locales: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no locale files found")
	}

	out := make(map[string]map[string]string, len(paths))
	for _, path := range paths {
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil, fmt.Errorf("read locale %s: %w", path, err)
		}
		var file localeFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parse locale %s: %w", path, err)
		}
		locale := strings.TrimSpace(file.Locale)
		if locale == "" {
			return nil, fmt.Errorf("locale %s: locale is required", path)
		}
		if _, dup := out[locale]; dup {
			return nil, fmt.Errorf("locale %s: %q defined twice", path, locale)
		}
		out[locale] = file.Messages
	}
	return out, nil
}

// Locale returns the locale the translator resolved to.
func (t *Translator) Locale() string {
	return t.tag.String()
}

// Has reports whether key is a known message.
func (t *Translator) Has(key string) bool {
	return t.keys[key]
}

// T formats the message for key. Unknown keys are returned as-is.
func (t *Translator) T(key string, args ...any) string {
	if !t.keys[key] {
		return key
	}
	return t.printer.Sprintf(key, args...)
}
