package i18n

import (
	"encoding/json"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocaleKeysParity(t *testing.T) {
	en := mustLoadLocaleMessages(t, LangEN)

	for _, lang := range []string{LangES, LangRU} {
		lang := lang
		t.Run(lang, func(t *testing.T) {
			messages := mustLoadLocaleMessages(t, lang)
			assert.Empty(t, missingKeys(en, messages), "keys missing in %s locale", lang)
			assert.Empty(t, missingKeys(messages, en), "keys missing in en locale")
		})
	}
}

func TestLocaleFormatVerbsMatch(t *testing.T) {
	en := mustLoadLocaleMessages(t, LangEN)

	for _, lang := range []string{LangES, LangRU} {
		messages := mustLoadLocaleMessages(t, lang)
		for key, value := range en {
			assert.Equal(t, strings.Count(value, "%"), strings.Count(messages[key], "%"),
				"format verbs differ for %s in %s", key, lang)
		}
	}
}

func TestNormalizeLanguage(t *testing.T) {
	t.Parallel()

	manager, err := NewManager("es")
	require.NoError(t, err)

	cases := []struct {
		raw  string
		want string
	}{
		{raw: "", want: LangES},
		{raw: "en", want: LangEN},
		{raw: "es-MX", want: LangES},
		{raw: "ru_RU", want: LangRU},
		{raw: "ja", want: LangES},
	}
	for _, testCase := range cases {
		assert.Equal(t, testCase.want, manager.NormalizeLanguage(testCase.raw), "raw=%q", testCase.raw)
	}
}

func TestCatalogFormatsAndFallsBack(t *testing.T) {
	t.Parallel()

	manager, err := NewManager(LangEN)
	require.NoError(t, err)

	assert.Equal(t, "Duration: 5 days", manager.Catalog(LangEN).Text("event.period.observed.description", 5))
	assert.Equal(t, "Duración: 5 días", manager.Catalog("es-ES").Text("event.period.observed.description", 5))
	assert.Equal(t, "missing.key", manager.Catalog(LangRU).Text("missing.key"))
}

func TestManagerListsEnglishFirst(t *testing.T) {
	t.Parallel()

	manager, err := NewManager("ru-RU")
	require.NoError(t, err)
	assert.Equal(t, LangRU, manager.DefaultLanguage())
	assert.Equal(t, []string{LangEN, LangES, LangRU}, manager.SupportedLanguages())
}

func mustLoadLocaleMessages(t *testing.T, lang string) map[string]string {
	t.Helper()

	content, err := localeFiles.ReadFile("locales/" + lang + ".json")
	require.NoError(t, err, "read locale %q", lang)

	messages := map[string]string{}
	require.NoError(t, json.Unmarshal(content, &messages), "parse locale %q", lang)
	require.NotEmpty(t, messages, "locale %q is empty", lang)
	return messages
}

func missingKeys(source map[string]string, target map[string]string) []string {
	missing := make([]string, 0)
	for key := range source {
		if _, ok := target[key]; !ok {
			missing = append(missing, key)
		}
	}
	sort.Strings(missing)
	return missing
}
