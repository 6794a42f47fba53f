package util

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"net/url"
	"regexp"
	"strings"
)

// Алфавит коротких кодов: 62 символа.
const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// DefaultCodeLength длина генерируемого кода по умолчанию.
const DefaultCodeLength = 6

var codePattern = regexp.MustCompile(`^[A-Za-z0-9]{6,8}$`)

// ValidateCode проверяет, что код состоит из 6–8 букв/цифр.
func ValidateCode(code string) bool {
	return codePattern.MatchString(code)
}

// GenerateCode возвращает случайный код указанной длины.
// Каждый символ выбирается равномерно из 62-символьного алфавита.
// Уникальность код сам по себе не гарантирует.
func GenerateCode(length int) (string, error) {
	if length <= 0 {
		length = DefaultCodeLength
	}

	buf := make([]byte, length)
	max := big.NewInt(int64(len(codeAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to read random bytes: %w", err)
		}
		buf[i] = codeAlphabet[n.Int64()]
	}
	return string(buf), nil
}

// ValidateURL проверяет, что строка — абсолютный URL со схемой http или https.
func ValidateURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}

// EnsureScheme добавляет https:// к адресу без схемы.
// Страховка для старых строк в БД: новые записи валидируются при создании,
// так что для них эта ветка недостижима.
func EnsureScheme(target string) string {
	if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
		return target
	}
	return "https://" + target
}
