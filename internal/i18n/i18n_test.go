// internal/i18n/i18n_test.go
package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTranslations(t *testing.T) {
	assert.NoError(t, InitializeWithPath("./locales"))

	assert.Equal(t, "Authentication required", T("en", KeyAuthRequired))
	assert.Equal(t, "Autenticación requerida", T("es", KeyAuthRequired))
}

func TestFallbackToEnglish(t *testing.T) {
	assert.NoError(t, InitializeWithPath("./locales"))

	// Unknown language falls back to the default locale.
	assert.Equal(t, T("en", KeyAuthRequired), T("fr", KeyAuthRequired))
}

func TestUnknownKeyReturnsKey(t *testing.T) {
	assert.NoError(t, InitializeWithPath("./locales"))

	assert.Equal(t, "no.such.key", T("en", "no.such.key"))
}

func TestLocalesCoverSameKeys(t *testing.T) {
	assert.NoError(t, InitializeWithPath("./locales"))

	en := instance.translations["en"]
	es := instance.translations["es"]
	assert.NotEmpty(t, en)

	for key := range en {
		_, ok := es[key]
		assert.True(t, ok, "missing es translation for %s", key)
	}
	for key := range es {
		_, ok := en[key]
		assert.True(t, ok, "missing en translation for %s", key)
	}
}
