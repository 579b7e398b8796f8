package i18n

import (
	"embed"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed locales/*/messages.yml
var localeFS embed.FS

// DefaultLocale is the fallback for locales missing a key.
const DefaultLocale = "fa"

// AvailableLanguages maps locale codes to their display names.
var AvailableLanguages = map[string]string{
	"fa": "🇮🇷 فارسی",
	"en": "🇬🇧 English",
}

// Translator resolves dot-path message keys against embedded locale packs.
type Translator struct {
	translations map[string]map[string]interface{}
	logger       *zap.Logger
}

// New loads all embedded locale packs.
func New(logger *zap.Logger) (*Translator, error) {
	tr := &Translator{
		translations: make(map[string]map[string]interface{}),
		logger:       logger,
	}

	for locale := range AvailableLanguages {
		raw, err := localeFS.ReadFile(fmt.Sprintf("locales/%s/messages.yml", locale))
		if err != nil {
			return nil, fmt.Errorf("failed to read locale %s: %w", locale, err)
		}
		data := make(map[string]interface{})
		if err := yaml.Unmarshal(raw, &data); err != nil {
			return nil, fmt.Errorf("failed to parse locale %s: %w", locale, err)
		}
		tr.translations[locale] = data
	}

	return tr, nil
}

// T translates key to the requested locale, substituting %{name} placeholders
// from params. Missing keys fall back to the default locale, then to the raw
// key itself.
func (tr *Translator) T(key, locale string, params map[string]string) string {
	value := lookup(tr.translations[locale], key)
	if value == nil && locale != DefaultLocale {
		value = lookup(tr.translations[DefaultLocale], key)
	}
	if value == nil {
		tr.logger.Debug("Missing translation", zap.String("key", key), zap.String("locale", locale))
		return key
	}

	result := stringify(value)
	for k, v := range params {
		result = strings.ReplaceAll(result, "%{"+k+"}", v)
	}
	return result
}

// List returns a list-valued key, one string per element. Non-list values are
// returned as a single-element list.
func (tr *Translator) List(key, locale string) []string {
	value := lookup(tr.translations[locale], key)
	if value == nil && locale != DefaultLocale {
		value = lookup(tr.translations[DefaultLocale], key)
	}
	if value == nil {
		return []string{key}
	}

	if items, ok := value.([]interface{}); ok {
		out := make([]string, 0, len(items))
		for _, item := range items {
			out = append(out, stringify(item))
		}
		return out
	}
	return []string{stringify(value)}
}

// lookup walks a dot-separated path through nested maps and lists.
func lookup(data map[string]interface{}, key string) interface{} {
	var current interface{} = data
	for _, part := range strings.Split(key, ".") {
		switch node := current.(type) {
		case map[string]interface{}:
			current = node[part]
		case []interface{}:
			idx, err := strconv.Atoi(part)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil
			}
			current = node[idx]
		default:
			return nil
		}
		if current == nil {
			return nil
		}
	}
	return current
}

func stringify(value interface{}) string {
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", value)
}
