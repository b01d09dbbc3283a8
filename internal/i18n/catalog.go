package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

var supported = []language.Tag{
	language.English,           // en (fallback)
	language.SimplifiedChinese, // zh-CN
}

var matcher = language.NewMatcher(supported)

var localeFiles = map[language.Tag]string{
	language.English:           "locales/en.json",
	language.SimplifiedChinese: "locales/zh-CN.json",
}

// Catalog resolves message keys against one locale with English fallback.
type Catalog struct {
	tag      language.Tag
	messages map[string]string
	fallback map[string]string
}

// Load builds a catalog for the preferred language. Empty preferences fall
// back to the LANG/LC_ALL environment, then to English. Unknown preferences
// match to the closest supported locale rather than failing.
func Load(preferences ...string) *Catalog {
	prefs := make([]string, 0, len(preferences)+2)
	for _, p := range preferences {
		if strings.TrimSpace(p) != "" {
			prefs = append(prefs, p)
		}
	}
	if len(prefs) == 0 {
		for _, env := range []string{"LC_ALL", "LANG"} {
			if value := os.Getenv(env); value != "" {
				if idx := strings.IndexAny(value, ".@"); idx > 0 {
					value = value[:idx]
				}
				prefs = append(prefs, strings.ReplaceAll(value, "_", "-"))
			}
		}
	}

	// The matcher may return a tag with extensions; index into the
	// supported list for a canonical tag usable as a map key.
	_, idx := language.MatchStrings(matcher, prefs...)
	tag := supported[idx]

	fallback := loadLocale(language.English)
	messages := fallback
	if tag != language.English {
		if m := loadLocale(tag); m != nil {
			messages = m
		}
	}
	return &Catalog{tag: tag, messages: messages, fallback: fallback}
}

// Tag reports the locale the catalog resolved to.
func (c *Catalog) Tag() language.Tag {
	if c == nil {
		return language.English
	}
	return c.tag
}

// Lookup returns the message for key, falling back to English and finally to
// the key itself so a missing entry is visible rather than silent.
func (c *Catalog) Lookup(key string) string {
	if c != nil {
		if msg, ok := c.messages[key]; ok {
			return msg
		}
		if msg, ok := c.fallback[key]; ok {
			return msg
		}
	}
	return key
}

// Format renders the message for key with fmt-style arguments.
func (c *Catalog) Format(key string, args ...any) string {
	msg := c.Lookup(key)
	if len(args) == 0 {
		return msg
	}
	return fmt.Sprintf(msg, args...)
}

func loadLocale(tag language.Tag) map[string]string {
	name, ok := localeFiles[tag]
	if !ok {
		return nil
	}
	data, err := localeFS.ReadFile(name)
	if err != nil {
		return nil
	}
	messages := map[string]string{}
	if err := json.Unmarshal(data, &messages); err != nil {
		return nil
	}
	return messages
}
