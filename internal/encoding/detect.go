// Package encoding converts uploaded statements to UTF-8 before parsing.
package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const sniffSize = 4096

// Charset names reported by Decode.
const (
	CharsetUTF8        = "UTF-8"
	CharsetUTF16LE     = "UTF-16LE"
	CharsetUTF16BE     = "UTF-16BE"
	CharsetWindows1252 = "windows-1252"
	CharsetWindows1256 = "windows-1256"
	CharsetISO88596    = "ISO-8859-6"
	CharsetISO88599    = "ISO-8859-9"
)

var boms = []struct {
	prefix  []byte
	charset string
	enc     encoding.Encoding
}{
	{[]byte{0xEF, 0xBB, 0xBF}, CharsetUTF8, nil},
	{[]byte{0xFF, 0xFE}, CharsetUTF16LE, unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)},
	{[]byte{0xFE, 0xFF}, CharsetUTF16BE, unicode.UTF16(unicode.BigEndian, unicode.UseBOM)},
}

type charset struct {
	name string
	enc  encoding.Encoding
}

// detectable are the single-byte charsets trusted from chardet. ISO-8859-1 is
// read as its Windows superset.
var detectable = map[string]charset{
	"ISO-8859-1":   {CharsetWindows1252, charmap.Windows1252},
	"windows-1252": {CharsetWindows1252, charmap.Windows1252},
	"ISO-8859-9":   {CharsetISO88599, charmap.ISO8859_9},
}

// named adds the Arabic code pages, which chardet confuses with Latin text
// on short samples and so are only used when asked for by name.
var named = map[string]charset{
	CharsetWindows1252: {CharsetWindows1252, charmap.Windows1252},
	CharsetWindows1256: {CharsetWindows1256, charmap.Windows1256},
	CharsetISO88596:    {CharsetISO88596, charmap.ISO8859_6},
	CharsetISO88599:    {CharsetISO88599, charmap.ISO8859_9},
}

// Decode sniffs the charset of r and returns a reader yielding UTF-8 along
// with the name of the detected charset.
//
// Detection order:
//  1. BOM (UTF-8 BOM is stripped; UTF-16 LE/BE is decoded)
//  2. Valid UTF-8 is passed through
//  3. chardet heuristics for the single-byte charsets bank exports use
//  4. Windows-1252
func Decode(r io.Reader) (io.Reader, string, error) {
	br := bufio.NewReaderSize(r, sniffSize)

	buf, err := br.Peek(sniffSize)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, "", fmt.Errorf("peek: %w", err)
	}

	for _, bom := range boms {
		if !bytes.HasPrefix(buf, bom.prefix) {
			continue
		}

		if bom.enc == nil {
			_, _ = br.Discard(len(bom.prefix))
			return br, bom.charset, nil
		}

		return transform.NewReader(br, bom.enc.NewDecoder()), bom.charset, nil
	}

	if utf8.Valid(trimPartialRune(buf)) {
		return br, CharsetUTF8, nil
	}

	if result, err := chardet.NewTextDetector().DetectBest(buf); err == nil {
		if result.Charset == CharsetUTF8 {
			return br, CharsetUTF8, nil
		}

		if cs, ok := detectable[result.Charset]; ok {
			return transform.NewReader(br, cs.enc.NewDecoder()), cs.name, nil
		}
	}

	return transform.NewReader(br, charmap.Windows1252.NewDecoder()), CharsetWindows1252, nil
}

// DecodeAs decodes r from the named charset. An empty name or "auto" sniffs
// the input like Decode.
func DecodeAs(r io.Reader, name string) (io.Reader, string, error) {
	if name == "" || name == "auto" {
		return Decode(r)
	}

	if name == CharsetUTF8 {
		return r, CharsetUTF8, nil
	}

	cs, ok := named[name]
	if !ok {
		return nil, "", fmt.Errorf("unsupported charset %q", name)
	}

	return transform.NewReader(r, cs.enc.NewDecoder()), cs.name, nil
}

// trimPartialRune drops a multi-byte sequence cut off by the sniff window.
func trimPartialRune(buf []byte) []byte {
	if len(buf) < sniffSize {
		return buf
	}

	for i := 1; i <= utf8.UTFMax && i <= len(buf); i++ {
		if utf8.RuneStart(buf[len(buf)-i]) {
			if !utf8.FullRune(buf[len(buf)-i:]) {
				return buf[:len(buf)-i]
			}

			break
		}
	}

	return buf
}

// NewUTF8Reader is Decode without the charset name.
func NewUTF8Reader(r io.Reader) (io.Reader, error) {
	out, _, err := Decode(r)
	return out, err
}
