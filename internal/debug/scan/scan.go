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

// Package scan locates the structural elements of a PDF file produced by
// the writer: the header, indirect objects, stream data, the
// cross-reference table and the trailer.
//
// The scanner works on the raw bytes and does not interpret object
// contents.  It is used by tests to compare the byte offsets recorded in
// the cross-reference table against the actual positions of the objects.
package scan

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// Info describes the layout of a PDF file.
type Info struct {
	HeaderVersion string
	Objects       []Object

	XRef      int64 // position of the "xref" keyword, or -1
	Trailer   int64 // position of the "trailer" keyword, or -1
	StartXRef int64 // position of the "startxref" keyword, or -1
	EOF       int64 // position of the "%%EOF" marker, or -1

	// XRefEntries lists the offsets from the cross-reference table,
	// indexed by object number.  Free entries are recorded as -1.
	XRefEntries []int64

	// StartXRefValue is the number following the "startxref" keyword.
	StartXRefValue int64
}

// Object describes the location of an indirect object.
type Object struct {
	Pos        int64
	End        int64
	Number     uint32
	Generation uint16

	// StreamStart and StreamEnd delimit the stream data, if the object is
	// a stream.  Otherwise both are zero.
	StreamStart int64
	StreamEnd   int64
}

// Find returns the object with the given number.
func (info *Info) Find(number uint32) (Object, bool) {
	for _, obj := range info.Objects {
		if obj.Number == number {
			return obj, true
		}
	}
	return Object{}, false
}

// Body returns the bytes between "obj" and "endobj" for the given object.
func (info *Info) Body(data []byte, number uint32) ([]byte, bool) {
	obj, ok := info.Find(number)
	if !ok || obj.End == 0 {
		return nil, false
	}
	body := data[obj.Pos:obj.End]
	if i := bytes.Index(body, []byte("obj\n")); i >= 0 {
		body = body[i+4:]
	}
	return bytes.TrimSuffix(body, []byte("endobj")), true
}

// Scan analyses the PDF file contained in data.
func Scan(data []byte) (*Info, error) {
	m := headerRegexp.FindSubmatch(data)
	if m == nil {
		return nil, ErrNoHeader
	}

	info := &Info{
		HeaderVersion: string(m[1]),
		XRef:          -1,
		Trailer:       -1,
		StartXRef:     -1,
		EOF:           -1,
	}

	var cur *Object
	for _, loc := range markerRegexp.FindAllSubmatchIndex(data, -1) {
		pos := int64(loc[0]) + countSpaces(data[loc[0]:loc[1]])
		if loc[4] >= 0 {
			// indirect object, loc[4:6] is the number, loc[6:8] the generation
			n, err := strconv.ParseUint(string(data[loc[4]:loc[5]]), 10, 32)
			if err != nil {
				continue
			}
			g, err := strconv.ParseUint(string(data[loc[6]:loc[7]]), 10, 16)
			if err != nil {
				continue
			}
			info.Objects = append(info.Objects, Object{
				Pos:        pos,
				Number:     uint32(n),
				Generation: uint16(g),
			})
			cur = &info.Objects[len(info.Objects)-1]
			continue
		}

		keyword := string(data[loc[2]:loc[3]])
		switch keyword {
		case "stream":
			if cur != nil {
				cur.StreamStart = int64(loc[1])
				if loc[1] < len(data) && data[loc[1]] == '\r' {
					cur.StreamStart++
				}
				if int(cur.StreamStart) < len(data) && data[cur.StreamStart] == '\n' {
					cur.StreamStart++
				}
			}
		case "endstream":
			if cur != nil {
				cur.StreamEnd = pos
			}
		case "endobj":
			if cur != nil && cur.End == 0 {
				cur.End = pos + int64(len(keyword))
			}
			cur = nil
		case "xref":
			info.XRef = pos
		case "trailer":
			info.Trailer = pos
		case "startxref":
			info.StartXRef = pos
		case "%%EOF":
			info.EOF = pos
		}
	}

	if info.XRef >= 0 {
		entries, err := readXRefTable(data[info.XRef:])
		if err != nil {
			return nil, err
		}
		info.XRefEntries = entries
	}
	if info.StartXRef >= 0 {
		fields := bytes.Fields(data[info.StartXRef+int64(len("startxref")):])
		if len(fields) == 0 {
			return nil, errors.New("missing startxref value")
		}
		val, err := strconv.ParseInt(string(fields[0]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid startxref value: %w", err)
		}
		info.StartXRefValue = val
	}

	return info, nil
}

// readXRefTable decodes a single-section cross-reference table.
// The data must start with the "xref" keyword.
func readXRefTable(data []byte) ([]int64, error) {
	lines := bytes.Split(data, []byte("\n"))
	if len(lines) < 2 || string(lines[0]) != "xref" {
		return nil, errors.New("malformed xref header")
	}
	hdr := bytes.Fields(lines[1])
	if len(hdr) != 2 {
		return nil, errors.New("malformed xref subsection header")
	}
	start, err := strconv.Atoi(string(hdr[0]))
	if err != nil || start != 0 {
		return nil, errors.New("xref subsection must start at 0")
	}
	n, err := strconv.Atoi(string(hdr[1]))
	if err != nil || n < 1 || len(lines) < n+2 {
		return nil, errors.New("invalid xref subsection length")
	}

	res := make([]int64, n)
	for i := 0; i < n; i++ {
		line := lines[i+2]
		if len(line) != 19 { // 20 bytes including the newline
			return nil, fmt.Errorf("xref entry %d has wrong length %d", i, len(line)+1)
		}
		fields := bytes.Fields(line)
		if len(fields) != 3 {
			return nil, fmt.Errorf("malformed xref entry %d", i)
		}
		switch string(fields[2]) {
		case "f":
			res[i] = -1
		case "n":
			pos, err := strconv.ParseInt(string(fields[0]), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("malformed xref entry %d: %w", i, err)
			}
			res[i] = pos
		default:
			return nil, fmt.Errorf("malformed xref entry %d", i)
		}
	}
	return res, nil
}

// isSpace returns true if the byte is a PDF whitespace character.
func isSpace(c byte) bool {
	return c == 0 || c == 9 || c == 10 || c == 12 || c == 13 || c == 32
}

// countSpaces returns the number of leading whitespace characters in s.
func countSpaces(s []byte) int64 {
	var n int64
	for n < int64(len(s)) && isSpace(s[n]) {
		n++
	}
	return n
}

// ErrNoHeader indicates that the data does not start with a PDF header.
var ErrNoHeader = errors.New("PDF header not found")

var (
	whiteSpace   = `[\000\011\014 ]+`
	eol          = `(?:\r\n|\r|\n)`
	objectPat    = `([0-9]+)` + whiteSpace + `([0-9]+)` + whiteSpace + `obj`
	markerPat    = eol + `(` + objectPat + `|endobj|endstream|stream|xref|trailer|startxref|%%EOF)\b`
	headerRegexp = regexp.MustCompile(`^%PDF-([12]\.[0-9])\r?\n`)
	markerRegexp = regexp.MustCompile(markerPat)
)
