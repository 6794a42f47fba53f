package util_test

import (
	"strings"
	"testing"

	"github.com/Totarae/LinkBoard/internal/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Тест правила формата кода: 6–8 букв/цифр
func TestValidateCode(t *testing.T) {
	valid := []string{"abc123", "ABCDEF", "a1b2c3d4", "ZZZZZZZ", "000000"}
	for _, code := range valid {
		assert.True(t, util.ValidateCode(code), "код %q должен быть валидным", code)
	}

	invalid := []string{"", "ab", "abcde", "abcdefghi", "abc-12", "абвгде", "abc 12", "abc123!"}
	for _, code := range invalid {
		assert.False(t, util.ValidateCode(code), "код %q должен быть невалидным", code)
	}
}

// Тест генерации: длина, алфавит, сгенерированный код проходит валидацию
func TestGenerateCode(t *testing.T) {
	const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

	for i := 0; i < 100; i++ {
		code, err := util.GenerateCode(util.DefaultCodeLength)
		require.NoError(t, err)
		assert.Len(t, code, util.DefaultCodeLength)
		assert.True(t, util.ValidateCode(code))

		for _, ch := range code {
			assert.True(t, strings.ContainsRune(alphabet, ch), "недопустимый символ %q в коде %q", ch, code)
		}
	}
}

func TestGenerateCode_DefaultLength(t *testing.T) {
	code, err := util.GenerateCode(0)
	require.NoError(t, err)
	assert.Len(t, code, util.DefaultCodeLength)
}

func TestValidateURL(t *testing.T) {
	valid := []string{
		"https://example.com",
		"http://example.com/path?q=1",
		"https://sub.example.com:8443/a/b",
	}
	for _, u := range valid {
		assert.True(t, util.ValidateURL(u), "URL %q должен быть валидным", u)
	}

	invalid := []string{
		"",
		"ftp://bad",
		"example.com",
		"https://",
		"not a url",
		"//example.com",
	}
	for _, u := range invalid {
		assert.False(t, util.ValidateURL(u), "URL %q должен быть невалидным", u)
	}
}

// Тест страховки для строк без схемы
func TestEnsureScheme(t *testing.T) {
	assert.Equal(t, "https://example.com/path", util.EnsureScheme("example.com/path"))
	assert.Equal(t, "https://example.com", util.EnsureScheme("https://example.com"))
	assert.Equal(t, "http://example.com", util.EnsureScheme("http://example.com"))
}
