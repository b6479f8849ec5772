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

// Package pdfstream writes PDF files page by page.
//
// Objects are written to the output as soon as they are complete, and only
// the byte offsets of the objects are kept in memory.  A document is
// produced in three steps:
//
//	w, err := pdfstream.Create("out.pdf", nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	err = w.AddPage(200, 100, func(c *graphics.Canvas, height float64) error {
//	    return c.Rectangle(255, 0, 0, 10, 10, 50, 50)
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	err = w.Finish()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Object number 1 is used for the document catalog and object number 2 for
// the page tree.  Every page uses three further objects: the content stream,
// an integer object holding the length of the content stream, and the page
// dictionary.  Since the content stream is written directly to the output,
// its length is only known after the stream data, and is therefore stored
// in a separate object.
//
// If an error occurs, the partially written file is not a valid PDF file
// and should be discarded.
package pdfstream
