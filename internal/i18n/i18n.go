package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"golang.org/x/text/language"
)

const (
	LangEN = "en"
	LangES = "es"
	LangRU = "ru"
)

//go:embed locales/*.json
var localeFiles embed.FS

type Manager struct {
	defaultLanguage string
	locales         map[string]map[string]string
	supported       []string
	matcher         language.Matcher
}

func NewManager(defaultLanguage string) (*Manager, error) {
	return newManagerFromFS(localeFiles, "locales", defaultLanguage)
}

func newManagerFromFS(files fs.FS, dir string, defaultLanguage string) (*Manager, error) {
	manager := &Manager{
		locales: map[string]map[string]string{},
	}

	entries, err := fs.ReadDir(files, dir)
	if err != nil {
		return nil, fmt.Errorf("read locales dir: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".json" {
			continue
		}

		lang := strings.TrimSuffix(strings.ToLower(entry.Name()), path.Ext(entry.Name()))
		content, err := fs.ReadFile(files, path.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read locale %s: %w", lang, err)
		}

		messages := map[string]string{}
		if err := json.Unmarshal(content, &messages); err != nil {
			return nil, fmt.Errorf("parse locale %s: %w", lang, err)
		}
		if len(messages) == 0 {
			return nil, fmt.Errorf("locale %s is empty", lang)
		}

		manager.locales[lang] = messages
		manager.supported = append(manager.supported, lang)
	}

	if _, ok := manager.locales[LangEN]; !ok {
		return nil, fmt.Errorf("required locale %q missing", LangEN)
	}

	// English first so the matcher falls back to it.
	sort.Slice(manager.supported, func(i, j int) bool {
		if manager.supported[i] == LangEN || manager.supported[j] == LangEN {
			return manager.supported[i] == LangEN
		}
		return manager.supported[i] < manager.supported[j]
	})
	tags := make([]language.Tag, 0, len(manager.supported))
	for _, lang := range manager.supported {
		tags = append(tags, language.Make(lang))
	}
	manager.matcher = language.NewMatcher(tags)
	manager.defaultLanguage = manager.NormalizeLanguage(defaultLanguage)
	return manager, nil
}

func (manager *Manager) DefaultLanguage() string {
	return manager.defaultLanguage
}

func (manager *Manager) SupportedLanguages() []string {
	result := make([]string, len(manager.supported))
	copy(result, manager.supported)
	return result
}

// NormalizeLanguage maps a tag such as "es-MX" or "ru_RU" to the closest
// supported locale.
func (manager *Manager) NormalizeLanguage(raw string) string {
	raw = strings.ReplaceAll(strings.TrimSpace(raw), "_", "-")
	if raw == "" {
		if manager.defaultLanguage != "" {
			return manager.defaultLanguage
		}
		return LangEN
	}
	_, index, confidence := manager.matcher.Match(language.Make(raw))
	if confidence == language.No {
		if manager.defaultLanguage != "" {
			return manager.defaultLanguage
		}
		return LangEN
	}
	return manager.supported[index]
}

func (manager *Manager) Translate(lang string, key string) string {
	target := manager.NormalizeLanguage(lang)
	if value, ok := manager.locales[target][key]; ok && strings.TrimSpace(value) != "" {
		return value
	}
	if value, ok := manager.locales[LangEN][key]; ok && strings.TrimSpace(value) != "" {
		return value
	}
	return key
}

func (manager *Manager) Translatef(lang string, key string, args ...any) string {
	if len(args) == 0 {
		return manager.Translate(lang, key)
	}
	return fmt.Sprintf(manager.Translate(lang, key), args...)
}

// Catalog binds the manager to one language.
func (manager *Manager) Catalog(lang string) Catalog {
	return Catalog{manager: manager, language: manager.NormalizeLanguage(lang)}
}

type Catalog struct {
	manager  *Manager
	language string
}

func (catalog Catalog) Language() string {
	return catalog.language
}

func (catalog Catalog) Text(key string, args ...any) string {
	return catalog.manager.Translatef(catalog.language, key, args...)
}
