// Package locale loads the embedded translations and exposes a small
// translator used by the list renderer and the calendar export.
package locale

import (
	"embed"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/tartampluch/go-bday/internal/config"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

type catalog struct {
	bundle *i18n.Bundle
	tags   []language.Tag
}

// loadCatalog parses every embedded active.<lang>.json file once per process.
var loadCatalog = sync.OnceValue(func() *catalog {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)
	cat := &catalog{bundle: bundle}

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		slog.Error(config.ErrLocalesAccess,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyError, err,
		)
		return cat
	}

	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, "active.") || !strings.HasSuffix(name, ".json") {
			slog.Debug(config.MsgLocaleSkip,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		file, err := bundle.LoadMessageFileFS(localeFS, "locales/"+name)
		if err != nil {
			slog.Error(config.ErrLocaleLoad,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
				config.LogKeyError, err,
			)
			continue
		}
		cat.tags = append(cat.tags, file.Tag)
		slog.Debug(config.MsgLocaleLoaded,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyLang, file.Tag.String(),
		)
	}
	return cat
})

// Translator resolves message ids for one language.
type Translator struct {
	lang      string
	localizer *i18n.Localizer
}

// New returns a Translator for the closest embedded language to lang.
// Unknown or malformed languages fall back to English.
func New(lang string) *Translator {
	cat := loadCatalog()
	resolved := config.DefaultLanguage

	if want, err := language.Parse(lang); err == nil && len(cat.tags) > 0 {
		matcher := language.NewMatcher(cat.tags)
		if _, idx, conf := matcher.Match(want); conf != language.No {
			base, _ := cat.tags[idx].Base()
			resolved = base.String()
		}
	}

	return &Translator{
		lang:      resolved,
		localizer: i18n.NewLocalizer(cat.bundle, resolved),
	}
}

// Languages lists the embedded languages.
func Languages() []string {
	cat := loadCatalog()
	out := make([]string, 0, len(cat.tags))
	for _, t := range cat.tags {
		out = append(out, t.String())
	}
	return out
}

// Lang returns the resolved language code.
func (t *Translator) Lang() string { return t.lang }

// T translates key. A missing key is returned as-is.
func (t *Translator) T(key string) string {
	return t.Tf(key, nil)
}

// Tf translates key with template data.
func (t *Translator) Tf(key string, data map[string]any) string {
	if t == nil || t.localizer == nil {
		return key
	}
	msg, err := t.localizer.Localize(&i18n.LocalizeConfig{MessageID: key, TemplateData: data})
	if err != nil {
		slog.Debug(config.MsgTransMissing,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyKey, key,
			config.LogKeyError, err,
		)
		return key
	}
	return msg
}
