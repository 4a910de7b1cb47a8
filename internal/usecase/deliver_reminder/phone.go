package deliver_reminder

import (
	"strings"
	"unicode"
)

// mobileNumberLength длина бразильского мобильного номера с кодом страны и девятой цифрой (55 11 9XXXX-XXXX)
const mobileNumberLength = 13

// normalizePhone оставляет только цифры и добавляет код страны, если его нет
// Вторым значением возвращается вариант номера без девятой цифры, если он применим, иначе пустая строка
func normalizePhone(raw, countryCode string) (string, string, error) {
	var b strings.Builder
	for _, r := range raw {
		if unicode.IsDigit(r) && r < unicode.MaxASCII {
			b.WriteRune(r)
		}
	}

	digits := b.String()
	if digits == "" {
		return "", "", ErrInvalidPhone
	}

	if countryCode != "" && !strings.HasPrefix(digits, countryCode) {
		digits = countryCode + digits
	}

	var withoutNinth string
	if len(digits) == mobileNumberLength && digits[4] == '9' {
		withoutNinth = digits[:4] + digits[5:]
	}

	return digits, withoutNinth, nil
}
