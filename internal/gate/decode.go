package gate

import (
	"errors"
	"unicode/utf8"
)

var ErrDecode = errors.New("file is not valid UTF-8 text")

// DecodeUTF8 accepts only well-formed UTF-8.
func DecodeUTF8(b []byte) (string, error) {
	if !utf8.Valid(b) {
		return "", ErrDecode
	}
	return string(b), nil
}
