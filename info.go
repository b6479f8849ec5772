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
	"strings"
	"time"

	"golang.org/x/exp/slices"
)

// Info represents a PDF Document Information Dictionary.
//
// All fields in this structure are optional.  The zero value represents
// an empty information dictionary, which is not written to the file.
//
// The Document Information Dictionary is documented in section
// 14.3.3 of ISO 32000-2:2020.
type Info struct {
	Title    string
	Author   string
	Subject  string
	Keywords string

	// Creator gives the name of the application that created the original
	// document, if the document was converted to PDF from another format.
	Creator string

	// Producer gives the name of the application that converted the document
	// to PDF.
	Producer string

	// CreationDate gives the date and time the document was created.
	CreationDate time.Time

	// ModDate gives the date and time the document was most recently modified.
	ModDate time.Time

	// Custom contains non-standard fields for the Info dictionary.
	// Empty keys and keys of the standard fields are ignored.
	Custom map[string]string
}

var standardInfoKeys = map[string]bool{
	"Title": true, "Author": true, "Subject": true, "Keywords": true,
	"Creator": true, "Producer": true, "CreationDate": true, "ModDate": true,
	"Trapped": true,
}

// customKeys returns the keys of info.Custom which are written to the
// file, in sorted order.
func (info *Info) customKeys() []string {
	keys := make([]string, 0, len(info.Custom))
	for key := range info.Custom {
		if key == "" || standardInfoKeys[key] {
			continue
		}
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}

// IsEmpty reports whether the dictionary has no entries.
func (info *Info) IsEmpty() bool {
	if info == nil {
		return true
	}
	return info.Title == "" && info.Author == "" && info.Subject == "" &&
		info.Keywords == "" && info.Creator == "" && info.Producer == "" &&
		info.CreationDate.IsZero() && info.ModDate.IsZero() &&
		len(info.customKeys()) == 0
}

func (pdf *Writer) writeInfo(ref Reference, info *Info) error {
	return pdf.writeObject(ref, func() error {
		sep := "<<  "
		entry := func(key, val string) {
			pdf.w.printf("%s%s %s\n", sep, formatName(key), val)
			sep = "    "
		}

		text := []struct{ key, val string }{
			{"Title", info.Title},
			{"Author", info.Author},
			{"Subject", info.Subject},
			{"Keywords", info.Keywords},
			{"Creator", info.Creator},
			{"Producer", info.Producer},
		}
		for _, t := range text {
			if t.val != "" {
				entry(t.key, formatTextString(t.val))
			}
		}
		if !info.CreationDate.IsZero() {
			entry("CreationDate", formatString([]byte(formatDate(info.CreationDate))))
		}
		if !info.ModDate.IsZero() {
			entry("ModDate", formatString([]byte(formatDate(info.ModDate))))
		}

		for _, key := range info.customKeys() {
			entry(key, formatTextString(info.Custom[key]))
		}

		pdf.w.printf(">>\n")
		return pdf.w.err
	})
}

// formatDate converts t into a PDF date string, for example
// "D:20260119143000+01'00".
func formatDate(t time.Time) string {
	s := t.Format("D:20060102150405-0700")
	k := len(s) - 2
	return s[:k] + "'" + s[k:]
}

// formatName returns the PDF representation of a name object.  Characters
// outside the printable ASCII range, as well as delimiters, whitespace and
// '#', are written using the "#xx" notation.
func formatName(name string) string {
	b := &strings.Builder{}
	b.WriteByte('/')
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c < 0x21 || c > 0x7e || c == '#' || strings.IndexByte(delimiters, c) >= 0 {
			b.WriteByte('#')
			b.WriteByte(hexDigits[c>>4])
			b.WriteByte(hexDigits[c&15])
		} else {
			b.WriteByte(c)
		}
	}
	return b.String()
}

const (
	delimiters = "()<>[]{}/%"
	hexDigits  = "0123456789ABCDEF"
)
