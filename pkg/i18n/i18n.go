// Package i18n localizes error messages. Message ids are the error codes
// raised by the use cases.
package i18n

import (
	"embed"
	"encoding/json"
	"sync"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var embedded embed.FS

var (
	mu     sync.RWMutex
	bundle *goi18n.Bundle
)

// Init resets the bundle with English as the default language.
func Init() {
	b := goi18n.NewBundle(language.English)
	b.RegisterUnmarshalFunc("json", json.Unmarshal)

	mu.Lock()
	bundle = b
	mu.Unlock()
}

// Load adds a message file from disk, e.g. an operator-provided override.
func Load(path string) error {
	mu.Lock()
	defer mu.Unlock()
	if bundle == nil {
		return errNotInitialized
	}
	_, err := bundle.LoadMessageFile(path)
	return err
}

// LoadEmbedded adds the locales shipped with the binary.
func LoadEmbedded() error {
	entries, err := embedded.ReadDir("locales")
	if err != nil {
		return err
	}

	mu.Lock()
	defer mu.Unlock()
	if bundle == nil {
		return errNotInitialized
	}
	for _, e := range entries {
		if _, err := bundle.LoadMessageFileFS(embedded, "locales/"+e.Name()); err != nil {
			return err
		}
	}
	return nil
}

// Translate renders id in the best language for acceptLanguage. It returns
// fallback when the id is unknown or the bundle is not loaded.
func Translate(acceptLanguage, id string, data map[string]any, fallback string) string {
	mu.RLock()
	b := bundle
	mu.RUnlock()
	if b == nil || id == "" {
		return fallback
	}

	if data == nil {
		data = map[string]any{}
	}
	localizer := goi18n.NewLocalizer(b, acceptLanguage)
	msg, err := localizer.Localize(&goi18n.LocalizeConfig{
		MessageID:    id,
		TemplateData: data,
	})
	if err != nil || msg == "" {
		return fallback
	}
	return msg
}

type initError string

func (e initError) Error() string { return string(e) }

const errNotInitialized = initError("i18n: bundle not initialized, call Init first")
