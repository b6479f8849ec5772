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
	"fmt"
	"strconv"
)

// Reference identifies an indirect object in a PDF file.
// All objects written by this package have generation number 0.
type Reference uint32

// The object numbers of the document catalog and of the root of the page
// tree are fixed before the first page is written.  Both objects are only
// written when the document is finished.
const (
	CatalogRef Reference = 1
	PagesRef   Reference = 2
)

// Number returns the object number.
func (ref Reference) Number() uint32 {
	return uint32(ref)
}

// String returns the reference in PDF syntax, for example "12 0 R".
func (ref Reference) String() string {
	return strconv.FormatUint(uint64(ref), 10) + " 0 R"
}

type objState uint8

const (
	// stateUnallocated is used for object number 0, the head of the
	// free list, which never holds an object.
	stateUnallocated objState = iota

	// stateReserved marks an object number which has been handed out but
	// whose object has not been written yet.
	stateReserved

	// stateWritten marks an object whose definition starts at pos.
	stateWritten
)

func (s objState) String() string {
	switch s {
	case stateUnallocated:
		return "unallocated"
	case stateReserved:
		return "reserved"
	case stateWritten:
		return "written"
	default:
		return fmt.Sprintf("objState(%d)", uint8(s))
	}
}

type xRefEntry struct {
	state objState
	pos   int64
}

// reserveFixed sets up the table for object number 0 and the two
// objects with fixed numbers.
func (pdf *Writer) reserveFixed() {
	pdf.xref = []xRefEntry{
		0:          {state: stateUnallocated, pos: -1},
		CatalogRef: {state: stateReserved, pos: -1},
		PagesRef:   {state: stateReserved, pos: -1},
	}
}

// alloc allocates the next unused object number.
func (pdf *Writer) alloc() Reference {
	ref := Reference(len(pdf.xref))
	pdf.xref = append(pdf.xref, xRefEntry{state: stateReserved, pos: -1})
	return ref
}

// allocPair allocates two consecutive object numbers.
func (pdf *Writer) allocPair() (Reference, Reference) {
	first := pdf.alloc()
	second := pdf.alloc()
	return first, second
}

// writeObject writes the indirect object ref.  The function body is called
// to write the object contents, after "N 0 obj" has been written.
//
// Each allocated object must be written exactly once.  Writing an object
// twice, or writing an object which was never allocated, is a bug in this
// package and causes a panic.
func (pdf *Writer) writeObject(ref Reference, body func() error) error {
	if int(ref) >= len(pdf.xref) || pdf.xref[ref].state != stateReserved {
		state := stateUnallocated
		if int(ref) < len(pdf.xref) {
			state = pdf.xref[ref].state
		}
		panic(fmt.Sprintf("cannot write object %d (state %s)", ref, state))
	}

	pos := pdf.w.pos
	pdf.w.printf("%d 0 obj\n", ref)
	if pdf.w.err != nil {
		return pdf.w.err
	}
	err := body()
	if err != nil {
		return err
	}
	pdf.w.printf("endobj\n")
	if pdf.w.err != nil {
		return pdf.w.err
	}

	pdf.xref[ref] = xRefEntry{state: stateWritten, pos: pos}
	return nil
}
