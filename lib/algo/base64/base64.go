// Package base64 implements the Base64 encoding with the standard alphabet.
//
// Reference: https://datatracker.ietf.org/doc/html/rfc4648#section-4
package base64

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

const padding byte = '='

// EncodedLen returns the length of the padded encoding of n bytes.
func EncodedLen(n int) int { return (n + 2) / 3 * 4 }

// Encode returns the padded Base64 encoding of src.
func Encode(src []byte) string {
	return string(AppendEncode(make([]byte, 0, EncodedLen(len(src))), src))
}

// AppendEncode appends the padded Base64 encoding of src to dst.
func AppendEncode(dst, src []byte) []byte {
	// Every 3 bytes become 4 sextets.
	for len(src) >= 3 {
		v := uint(src[0])<<16 | uint(src[1])<<8 | uint(src[2])
		dst = append(dst,
			alphabet[v>>18&0x3F],
			alphabet[v>>12&0x3F],
			alphabet[v>>6&0x3F],
			alphabet[v&0x3F],
		)
		src = src[3:]
	}

	// Reference: https://datatracker.ietf.org/doc/html/rfc4648#section-4-8
	switch len(src) {
	case 1:
		v := uint(src[0]) << 16
		dst = append(dst, alphabet[v>>18&0x3F], alphabet[v>>12&0x3F], padding, padding)
	case 2:
		v := uint(src[0])<<16 | uint(src[1])<<8
		dst = append(dst, alphabet[v>>18&0x3F], alphabet[v>>12&0x3F], alphabet[v>>6&0x3F], padding)
	}

	return dst
}
