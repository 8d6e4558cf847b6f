package locale_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-bday/internal/config"
	"github.com/tartampluch/go-bday/internal/locale"
)

var translationKeys = []string{
	config.TKeyColName,
	config.TKeyColDate,
	config.TKeyColAge,
	config.TKeyColIn,
	config.TKeyColID,
	config.TKeyToday,
	config.TKeyRelFuture,
	config.TKeyRelPast,
	config.TKeyRelNow,
	config.TKeyRelMinute,
	config.TKeyRelMinutes,
	config.TKeyRelHour,
	config.TKeyRelHours,
	config.TKeyRelDay,
	config.TKeyRelDays,
	config.TKeyRelWeek,
	config.TKeyRelWeeks,
	config.TKeyRelMonth,
	config.TKeyRelMonths,
	config.TKeyRelYear,
	config.TKeyEvtSummary,
	config.TKeyEvtSummaryAge,
	config.TKeyEvtBirth,
	config.TKeyNoEntries,
	config.TKeyAdded,
	config.TKeyUpdated,
	config.TKeyRemoved,
	config.TKeyImported,
}

// TestI18nIntegrity ensures that every translation key defined in config.go
// exists in every locale file.
func TestI18nIntegrity(t *testing.T) {
	defined := make(map[string]bool)
	for _, k := range translationKeys {
		defined[k] = true
	}

	for _, lang := range config.SupportedLanguages {
		t.Run(lang, func(t *testing.T) {
			content, err := os.ReadFile(filepath.Join("locales", "active."+lang+".json"))
			require.NoError(t, err, "Must load active.%s.json", lang)

			var jsonMap map[string]interface{}
			require.NoError(t, json.Unmarshal(content, &jsonMap), "JSON must be valid")

			for key := range defined {
				_, exists := jsonMap[key]
				assert.Truef(t, exists, "Key '%s' defined in config.go is missing in active.%s.json", key, lang)
			}
			for jsonKey := range jsonMap {
				if strings.HasPrefix(jsonKey, "_") {
					continue
				}
				assert.Truef(t, defined[jsonKey], "Key '%s' in active.%s.json is not referenced", jsonKey, lang)
			}
		})
	}
}

func TestLanguages_MatchSupported(t *testing.T) {
	assert.ElementsMatch(t, config.SupportedLanguages, locale.Languages())
}

func TestTranslator(t *testing.T) {
	tests := []struct {
		name     string
		lang     string
		wantLang string
		wantCol  string
	}{
		{"English", "en", "en", "Name"},
		{"French", "fr", "fr", "Nom"},
		{"Regional variant", "fr-CA", "fr", "Nom"},
		{"Underscore variant", "fr_FR", "fr", "Nom"},
		{"Unsupported falls back", "de", "en", "Name"},
		{"Garbage falls back", "!!", "en", "Name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := locale.New(tt.lang)
			assert.Equal(t, tt.wantLang, tr.Lang())
			assert.Equal(t, tt.wantCol, tr.T(config.TKeyColName))
		})
	}
}

func TestTranslator_TemplateData(t *testing.T) {
	en := locale.New("en")
	assert.Equal(t, "Birthday: Kurisu (18)",
		en.Tf(config.TKeyEvtSummaryAge, map[string]any{"Name": "Kurisu", "Age": 18}))

	fr := locale.New("fr")
	assert.Equal(t, "Anniversaire : Kurisu (18 ans)",
		fr.Tf(config.TKeyEvtSummaryAge, map[string]any{"Name": "Kurisu", "Age": 18}))
}

func TestTranslator_MissingKey(t *testing.T) {
	assert.Equal(t, "no_such_key", locale.New("en").T("no_such_key"))

	var nilTranslator *locale.Translator
	assert.Equal(t, config.TKeyColName, nilTranslator.T(config.TKeyColName))
}
