package i18n

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/amoylab/tourdesk/internal/common/cnst"
	"github.com/gin-gonic/gin"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

var (
	translatorOnce sync.Once
	translator     *I18n
	defaultLang    = cnst.LangEN

	// index aligned with supportedTags
	supportedLangs = []string{cnst.LangEN, cnst.LangZH}
	supportedTags  = language.NewMatcher([]language.Tag{language.English, language.Chinese})
)

// InitTranslator initializes the global translator
func InitTranslator(translationsPath string) error {
	var initErr error
	translatorOnce.Do(func() {
		translator = NewI18n(language.English)
		initErr = translator.LoadTranslations(translationsPath)
	})
	return initErr
}

// GetTranslator returns the global translator
func GetTranslator() *I18n {
	if translator == nil {
		// Initialize with default path if not already initialized
		_ = InitTranslator("configs/i18n")
	}
	return translator
}

// I18n manages internationalization and translations
type I18n struct {
	bundle      *i18n.Bundle
	defaultLang language.Tag
}

// NewI18n creates a new I18n instance with the specified default language
func NewI18n(defaultLang language.Tag) *I18n {
	bundle := i18n.NewBundle(defaultLang)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	return &I18n{
		bundle:      bundle,
		defaultLang: defaultLang,
	}
}

// LoadTranslations loads translation files from the specified directory
func (i *I18n) LoadTranslations(translationsDir string) error {
	files, err := os.ReadDir(translationsDir)
	if err != nil {
		return fmt.Errorf("failed to read translations directory: %w", err)
	}

	for _, file := range files {
		if file.IsDir() {
			continue
		}

		if !strings.HasSuffix(file.Name(), ".toml") {
			continue
		}

		filePath := filepath.Join(translationsDir, file.Name())
		if _, err := i.bundle.LoadMessageFile(filePath); err != nil {
			return fmt.Errorf("failed to load translation file %s: %w", file.Name(), err)
		}
	}

	return nil
}

// Translate returns a localized string for the given message ID and language
func (i *I18n) Translate(msgID string, lang string, templateData map[string]interface{}) string {
	tag := language.Make(lang)
	localizer := i18n.NewLocalizer(i.bundle, tag.String(), i.defaultLang.String())

	lc := &i18n.LocalizeConfig{
		MessageID: msgID,
	}

	if len(templateData) > 0 {
		lc.TemplateData = templateData
	}

	msg, err := localizer.Localize(lc)
	if err != nil {
		return msgID // Return original message ID if translation fails
	}

	return msg
}

// LanguageOf returns the language stored on the context by the language
// middleware, or the default language
func LanguageOf(c *gin.Context) string {
	if lang, ok := c.Get(cnst.XLang); ok {
		if s, ok := lang.(string); ok && s != "" {
			return s
		}
	}
	return defaultLang
}

// LanguageFromRequest picks the supported language closest to the X-Lang
// header, or to Accept-Language when X-Lang is absent
func LanguageFromRequest(r *http.Request) string {
	header := r.Header.Get(cnst.XLang)
	if header == "" {
		header = r.Header.Get("Accept-Language")
	}
	if header == "" {
		return defaultLang
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return defaultLang
	}
	_, idx, confidence := supportedTags.Match(tags...)
	if confidence == language.No {
		return defaultLang
	}
	return supportedLangs[idx]
}

// TranslateMessage translates a message ID using the context's language preference
func TranslateMessage(c *gin.Context, msgID string, data map[string]interface{}) string {
	t := GetTranslator()
	if t != nil {
		return t.Translate(msgID, LanguageOf(c), data)
	}
	return msgID
}
