// seehuhn.de/go/pdfstream - a streaming writer for PDF files
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package pdfstream

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/unicode/norm"
)

// encodeTextString converts s into the bytes of a PDF text string.
//
// Strings which only contain printable ASCII characters, tabs and newlines
// are stored unchanged, since these have the same meaning in PDFDocEncoding.
// All other strings are converted to UTF-16BE with a byte order mark.
func encodeTextString(s string) []byte {
	s = norm.NFC.String(strings.ToValidUTF8(s, "\uFFFD"))

	isSimple := true
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < 0x20 || c > 0x7e) && c != '\t' && c != '\n' && c != '\r' {
			isSimple = false
			break
		}
	}
	if isSimple {
		return []byte(s)
	}

	enc := unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewEncoder()
	res, err := enc.Bytes([]byte(s))
	if err != nil {
		// The input is valid UTF-8 at this point, so this cannot happen.
		panic(err)
	}
	return res
}

// formatTextString returns the PDF representation of s as a text string.
func formatTextString(s string) string {
	return formatString(encodeTextString(s))
}

// formatString returns the PDF representation of a string object.
// Literal syntax is used when only a few characters need escaping,
// hexadecimal syntax otherwise.
func formatString(l []byte) string {
	level := 0
	for _, c := range l {
		if c == '(' {
			level++
		} else if c == ')' {
			level--
			if level < 0 {
				break
			}
		}
	}
	balanced := level == 0

	var funny []int
	for i, c := range l {
		if c < 32 || c >= 127 || c == '\\' ||
			!balanced && (c == '(' || c == ')') {
			funny = append(funny, i)
		}
	}
	n := len(l)

	buf := &bytes.Buffer{}
	if 3*len(funny) > n {
		fmt.Fprintf(buf, "<%X>", l)
		return buf.String()
	}

	buf.WriteString("(")
	pos := 0
	for _, i := range funny {
		if pos < i {
			buf.Write(l[pos:i])
		}
		c := l[i]
		switch c {
		case '\r':
			buf.WriteString(`\r`)
		case '\n':
			buf.WriteString(`\n`)
		case '\t':
			buf.WriteString(`\t`)
		case '\b':
			buf.WriteString(`\b`)
		case '\f':
			buf.WriteString(`\f`)
		case '(':
			buf.WriteString(`\(`)
		case ')':
			buf.WriteString(`\)`)
		case '\\':
			buf.WriteString(`\\`)
		default:
			fmt.Fprintf(buf, `\%03o`, c)
		}
		pos = i + 1
	}
	if pos < n {
		buf.Write(l[pos:n])
	}
	buf.WriteString(")")
	return buf.String()
}
