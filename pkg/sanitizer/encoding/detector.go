// Package encoding detects the character encoding of raw file content and
// decodes it to UTF-8 text for normalization.
package encoding

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html/charset"
	xencoding "golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const (
	// sniffLen is the number of bytes used by http.DetectContentType.
	sniffLen = 512
	// checkLen is the buffer size used for null byte checks.
	checkLen = 1024
	// nullThreshold is the null-byte ratio above which content is considered binary.
	nullThreshold = 0.15
)

// Encoding identifies the byte encoding detected for a file.
type Encoding string

const (
	// EncodingUTF8 is plain UTF-8 without a byte-order mark.
	EncodingUTF8 Encoding = "utf-8"
	// EncodingUTF8BOM is UTF-8 preceded by the EF BB BF mark.
	EncodingUTF8BOM Encoding = "utf-8-bom"
	// EncodingUTF16LE is UTF-16 little-endian, signalled by an FF FE mark.
	EncodingUTF16LE Encoding = "utf-16le"
	// EncodingUTF16BE is UTF-16 big-endian, signalled by an FE FF mark.
	EncodingUTF16BE Encoding = "utf-16be"
	// EncodingFallback marks content decoded with the configured legacy 8-bit
	// encoding after the UTF-8 attempt failed.
	EncodingFallback Encoding = "fallback"
)

// BOM prefixes recognized by the detector.
var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// Map of common text-based MIME type prefixes for quick lookup in IsBinary.
var knownTextMIMEPrefixes = map[string]bool{
	"application/json":       true,
	"application/xml":        true,
	"application/javascript": true,
	"application/ecmascript": true,
	"application/yaml":       true,
	"application/toml":       true,
	"application/csv":        true,
	"application/sql":        true,
	"application/typescript": true,
	"application/markdown":   true,
	"image/svg+xml":          true,
}

// Detector identifies a file's encoding from its raw bytes and produces a
// UTF-8 string, stripping any byte-order mark. Implementations never fail on
// malformed input: the fallback path guarantees some decoded text.
type Detector interface {
	// DetectAndDecode inspects the leading bytes for a BOM and decodes the
	// content accordingly. Content without a BOM is decoded as UTF-8 when
	// valid, otherwise with the configured fallback 8-bit encoding.
	DetectAndDecode(content []byte) (text string, enc Encoding, err error)

	// IsBinary reports whether the content is likely binary data, based on
	// MIME type sniffing of the first 512 bytes and the null-byte percentage
	// in the first 1024 bytes.
	IsBinary(content []byte) bool
}

// bomDetector implements Detector using golang.org/x/text decoders.
type bomDetector struct {
	fallback xencoding.Encoding
	name     string
}

// NewBOMDetector creates a detector with the given legacy fallback encoding
// name (an IANA label such as "windows-1252" or "iso-8859-1"). An empty or
// unknown name falls back to Windows-1252, which decodes every byte sequence.
func NewBOMDetector(fallbackName string) Detector {
	fallback := xencoding.Encoding(charmap.Windows1252)
	name := "windows-1252"
	if fallbackName != "" {
		if enc, canonical := charset.Lookup(fallbackName); enc != nil {
			fallback = enc
			name = canonical
		}
	}
	return &bomDetector{fallback: fallback, name: name}
}

// DetectAndDecode implements the Detector interface.
func (d *bomDetector) DetectAndDecode(content []byte) (string, Encoding, error) {
	switch {
	case bytes.HasPrefix(content, bomUTF8):
		return string(content[len(bomUTF8):]), EncodingUTF8BOM, nil

	case bytes.HasPrefix(content, bomUTF16LE):
		text, err := decodeWith(unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM), content[len(bomUTF16LE):])
		if err != nil {
			return "", EncodingUTF16LE, fmt.Errorf("failed to decode utf-16le content: %w", err)
		}
		return text, EncodingUTF16LE, nil

	case bytes.HasPrefix(content, bomUTF16BE):
		text, err := decodeWith(unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM), content[len(bomUTF16BE):])
		if err != nil {
			return "", EncodingUTF16BE, fmt.Errorf("failed to decode utf-16be content: %w", err)
		}
		return text, EncodingUTF16BE, nil
	}

	if utf8.Valid(content) {
		return string(content), EncodingUTF8, nil
	}

	// Single-byte legacy decoders map every input byte to some rune, so this
	// path cannot fail; the error return is kept for interface symmetry.
	text, err := decodeWith(d.fallback, content)
	if err != nil {
		return string(content), EncodingFallback, nil
	}
	return text, EncodingFallback, nil
}

// decodeWith converts content to a UTF-8 string using the given encoding.
func decodeWith(enc xencoding.Encoding, content []byte) (string, error) {
	decoded, _, err := transform.Bytes(enc.NewDecoder(), content)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}

// isMIMETextBased checks if a detected MIME type is likely text-based.
func isMIMETextBased(contentType string) bool {
	mimeType := strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0])
	if strings.HasPrefix(mimeType, "text/") {
		return true
	}
	if knownTextMIMEPrefixes[mimeType] {
		return true
	}
	if strings.HasSuffix(mimeType, "+xml") || strings.HasSuffix(mimeType, "+json") {
		return true
	}
	// Allow octet-stream to potentially be text, rely on the null check.
	return mimeType == "application/octet-stream"
}

// IsBinary implements the Detector interface.
func (d *bomDetector) IsBinary(content []byte) bool {
	if len(content) == 0 {
		return false
	}

	// UTF-16 content is full of null bytes but is decodable text.
	if bytes.HasPrefix(content, bomUTF16LE) || bytes.HasPrefix(content, bomUTF16BE) {
		return false
	}

	sniff := content
	if len(sniff) > sniffLen {
		sniff = sniff[:sniffLen]
	}
	if !isMIMETextBased(http.DetectContentType(sniff)) {
		return true
	}

	check := content
	if len(check) > checkLen {
		check = check[:checkLen]
	}
	nullCount := bytes.Count(check, []byte{0x00})
	return float64(nullCount)/float64(len(check)) > nullThreshold
}
