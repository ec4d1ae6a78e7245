// Package source reads compiler input, decoding legacy Cyrillic code pages to
// UTF-8 and normalizing the text to NFC so that identifiers typed with
// combining marks compare equal to their precomposed forms.
package source

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/klauspost/readahead"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Encoding names a supported source encoding.
type Encoding string

const (
	UTF8        Encoding = "utf-8"
	Windows1251 Encoding = "windows-1251"
	KOI8R       Encoding = "koi8-r"
)

var aliases = map[string]Encoding{
	"utf-8":        UTF8,
	"utf8":         UTF8,
	"windows-1251": Windows1251,
	"cp1251":       Windows1251,
	"1251":         Windows1251,
	"koi8-r":       KOI8R,
	"koi8r":        KOI8R,
}

// Encodings returns the canonical names of the supported encodings.
func Encodings() []string {
	return []string{string(UTF8), string(Windows1251), string(KOI8R)}
}

// ParseEncoding returns the encoding named s, case-insensitively. Common
// aliases such as "cp1251" are accepted.
func ParseEncoding(s string) (Encoding, error) {
	if e, ok := aliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return e, nil
	}

	return "", fmt.Errorf("unsupported encoding %q (want one of %s)",
		s, strings.Join(Encodings(), ", "))
}

func (e Encoding) decoder() encoding.Encoding {
	switch e {
	case Windows1251:
		return charmap.Windows1251
	case KOI8R:
		return charmap.KOI8R
	default:
		return nil
	}
}

type config struct {
	encoding  Encoding
	readAhead bool
}

// Option configures [Read].
type Option func(*config)

// WithEncoding sets the encoding of the input. The default is UTF-8.
func WithEncoding(e Encoding) Option {
	return func(c *config) { c.encoding = e }
}

// WithReadAhead reads the input asynchronously ahead of decoding. It is
// enabled by default.
func WithReadAhead(enable bool) Option {
	return func(c *config) { c.readAhead = enable }
}

// InvalidUTF8Error reports a byte sequence that is not UTF-8 in input that
// was declared as UTF-8.
type InvalidUTF8Error struct {
	Line   int
	Offset int
}

func (e *InvalidUTF8Error) Error() string {
	return fmt.Sprintf("invalid UTF-8 at line %d, byte %d (wrong --encoding?)", e.Line, e.Offset)
}

// Read decodes all of r into NFC-normalized UTF-8 text. A leading byte order
// mark is removed and CRLF line endings are converted to LF.
func Read(r io.Reader, opts ...Option) (string, error) {
	cfg := config{encoding: UTF8, readAhead: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.readAhead {
		ra := readahead.NewReader(r)
		defer ra.Close()

		r = ra
	}

	if dec := cfg.encoding.decoder(); dec != nil {
		r = transform.NewReader(r, dec.NewDecoder())
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}

	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	if cfg.encoding.decoder() == nil {
		if err := validate(data); err != nil {
			return "", err
		}
	}

	text := norm.NFC.String(string(data))

	return strings.ReplaceAll(text, "\r\n", "\n"), nil
}

// ReadFile is [Read] over the named file.
func ReadFile(name string, opts ...Option) (string, error) {
	f, err := os.Open(name)
	if err != nil {
		return "", err
	}
	defer f.Close()

	text, err := Read(f, opts...)
	if err != nil {
		return "", fmt.Errorf("%s: %w", name, err)
	}

	return text, nil
}

func validate(data []byte) error {
	if utf8.Valid(data) {
		return nil
	}

	line, start := 1, 0

	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size <= 1 {
			return &InvalidUTF8Error{Line: line, Offset: i - start + 1}
		}

		if r == '\n' {
			line++
			start = i + 1
		}

		i += size
	}

	return nil
}
