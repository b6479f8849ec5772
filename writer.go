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
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"syscall"

	"github.com/zeebo/xxh3"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"

	"seehuhn.de/go/pdfstream/graphics"
	"seehuhn.de/go/pdfstream/internal/float"
)

// Version is the PDF version written into the file header.
const Version = "1.7"

// The second header line is a comment containing bytes >= 128, so that
// tools can detect that the file contains binary data.
const header = "%PDF-" + Version + "\n%\xB5\xED\xAE\xFB\n"

// digits is the number of decimal places used for numbers in dictionaries.
const digits = 3

// WriterOptions control optional parts of the generated file.
// A nil *WriterOptions is equivalent to the zero value.
type WriterOptions struct {
	// Info, if non-nil, is written as the document information dictionary.
	Info *Info

	// XMP causes the fields of Info to be repeated in an XMP metadata
	// stream, referenced from the document catalog.
	XMP bool

	// OutputIntent adds an sRGB output intent to the document catalog.
	OutputIntent bool

	// FileID causes a file identifier to be written into the trailer.
	// The identifier is computed from the bytes of the file body.
	FileID bool
}

// DrawFunc draws the contents of a page.
//
// The canvas is only valid until the function returns.  The height is the
// page height which was passed to [Writer.AddPage].
type DrawFunc func(c *graphics.Canvas, height float64) error

// Writer represents a PDF file open for writing.
//
// Objects are written to the output as soon as they are complete.  The
// writer is not safe for concurrent use, and no other code may write to the
// underlying io.Writer while the Writer is in use.
type Writer struct {
	w     *posWriter
	xref  []xRefEntry
	pages []Reference
	opt   WriterOptions

	// err is returned by all methods once it is set.
	err error

	buf  *bufio.Writer
	file *os.File
}

// NewWriter prepares a PDF file for writing and writes the file header.
//
// If w implements [io.Seeker], the current position of w is used as the
// starting offset, so that byte offsets in the cross-reference table are
// relative to the start of the underlying file.  Errors from the position
// query are returned, except for ESPIPE: pipes and terminals are treated
// like plain writers and offsets start at zero.
func NewWriter(w io.Writer, opt *WriterOptions) (*Writer, error) {
	if opt == nil {
		opt = &WriterOptions{}
	}

	pw := &posWriter{w: w}
	if s, ok := w.(io.Seeker); ok {
		pos, err := s.Seek(0, io.SeekCurrent)
		if err == nil {
			pw.pos = pos
		} else if !errors.Is(err, syscall.ESPIPE) {
			return nil, err
		}
	}
	if opt.FileID {
		pw.hash = xxh3.New()
	}

	pdf := &Writer{
		w:   pw,
		opt: *opt,
	}
	pdf.reserveFixed()

	_, err := io.WriteString(pdf.w, header)
	if err != nil {
		return nil, err
	}
	return pdf, nil
}

// Create creates the named PDF file and opens it for output.  If a file
// with the same name exists, it is overwritten.  [Writer.Finish] must be
// called to write the trailer and to close the file.
func Create(name string, opt *WriterOptions) (*Writer, error) {
	fd, err := os.Create(name)
	if err != nil {
		return nil, err
	}
	buf := bufio.NewWriter(fd)
	pdf, err := NewWriter(buf, opt)
	if err != nil {
		fd.Close()
		return nil, err
	}
	pdf.buf = buf
	pdf.file = fd
	return pdf, nil
}

// AddPage appends a page of the given size to the document.
//
// The page contents are written by draw, which receives a canvas whose
// coordinate system has the origin in the top-left corner of the page, with
// y increasing downwards and one unit corresponding to 0.75 PDF units.
// If draw is nil, the page is left empty.
//
// The page size is rounded to the precision used in the file, and draw
// receives the rounded height.
//
// If draw or the underlying writer fails, the error is returned and the
// document cannot be completed any more.  [Writer.Finish] must still be
// called to release a file opened by [Create].
func (pdf *Writer) AddPage(width, height float64, draw DrawFunc) error {
	if pdf.err != nil {
		return pdf.err
	}

	width = float.Round(width, digits)
	height = float.Round(height, digits)

	contentRef, lengthRef := pdf.allocPair()
	if lengthRef != contentRef+1 {
		panic(fmt.Sprintf("length object %d does not follow content object %d",
			lengthRef, contentRef))
	}

	var length int64
	err := pdf.writeObject(contentRef, func() error {
		pdf.w.printf("<<  /Length %s\n>>\nstream\n", lengthRef)
		if pdf.w.err != nil {
			return pdf.w.err
		}

		start := pdf.w.pos
		c := graphics.NewCanvas(pdf.w)
		c.SetColorSpaceRGB()
		c.Transform(matrix.Matrix{0.75, 0, 0, -0.75, 0, height})
		err := c.Err()
		if err == nil && draw != nil {
			err = draw(c, height)
			if err == nil {
				err = c.Err()
			}
		}
		c.Detach()
		if err != nil {
			return err
		}
		length = pdf.w.pos - start

		pdf.w.printf("endstream\n")
		return pdf.w.err
	})
	if err != nil {
		pdf.err = err
		return err
	}

	err = pdf.writeObject(lengthRef, func() error {
		pdf.w.printf("%d\n", length)
		return pdf.w.err
	})
	if err != nil {
		pdf.err = err
		return err
	}

	pageRef := pdf.alloc()
	mediaBox := &rect.Rect{URx: width, URy: height}
	err = pdf.writeObject(pageRef, func() error {
		pdf.w.printf("<<  /Type /Page\n")
		pdf.w.printf("    /Parent %s\n", PagesRef)
		pdf.w.printf("    /Resources << >>\n")
		pdf.w.printf("    /MediaBox %s\n", formatRect(mediaBox))
		pdf.w.printf("    /Contents %s\n", contentRef)
		pdf.w.printf(">>\n")
		return pdf.w.err
	})
	if err != nil {
		pdf.err = err
		return err
	}

	pdf.pages = append(pdf.pages, pageRef)
	return nil
}

// NumPages returns the number of pages added so far.
func (pdf *Writer) NumPages() int {
	return len(pdf.pages)
}

// Pos returns the current position in the output.
func (pdf *Writer) Pos() int64 {
	return pdf.w.pos
}

// Finish writes the page tree, the document catalog, the cross-reference
// table and the trailer.  If the Writer was created using [Create], the
// file is closed.
//
// If an earlier call has failed, Finish only closes the file and returns
// the original error.  After Finish has been called, all methods of the
// Writer return an error.
func (pdf *Writer) Finish() error {
	if pdf.err != nil {
		pdf.closeFile()
		return pdf.err
	}

	err := pdf.finish()
	if pdf.buf != nil && err == nil {
		err = pdf.buf.Flush()
	}
	closeErr := pdf.closeFile()
	if err == nil {
		err = closeErr
	}

	if err != nil {
		pdf.err = err
		return err
	}
	pdf.err = ErrFinished
	return nil
}

// closeFile closes the file opened by [Create], if any.
func (pdf *Writer) closeFile() error {
	if pdf.file == nil {
		return nil
	}
	err := pdf.file.Close()
	pdf.file = nil
	pdf.buf = nil
	return err
}

func formatRect(r *rect.Rect) string {
	return "[" + float.Format(r.LLx, digits) + " " + float.Format(r.LLy, digits) +
		" " + float.Format(r.URx, digits) + " " + float.Format(r.URy, digits) + "]"
}

// posWriter keeps track of the number of bytes written.
//
// After the first error, posWriter refuses all further writes and returns
// the same error again.
type posWriter struct {
	w    io.Writer
	pos  int64
	hash *xxh3.Hasher
	err  error
}

func (w *posWriter) Write(p []byte) (int, error) {
	if w.err != nil {
		return 0, w.err
	}
	n, err := w.w.Write(p)
	if w.hash != nil {
		w.hash.Write(p[:n])
	}
	w.pos += int64(n)
	if err != nil {
		w.err = err
	}
	return n, err
}

func (w *posWriter) printf(format string, args ...any) {
	if w.err != nil {
		return
	}
	fmt.Fprintf(w, format, args...)
}
