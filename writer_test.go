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
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"

	"github.com/google/go-cmp/cmp"

	"seehuhn.de/go/pdfstream/graphics"
	"seehuhn.de/go/pdfstream/internal/debug/memfile"
	"seehuhn.de/go/pdfstream/internal/debug/mock"
	"seehuhn.de/go/pdfstream/internal/debug/scan"
)

// TestSinglePage checks the complete output for a document with one page.
func TestSinglePage(t *testing.T) {
	buf := &bytes.Buffer{}
	w, err := NewWriter(buf, nil)
	if err != nil {
		t.Fatal(err)
	}
	err = w.AddPage(200, 100, func(c *graphics.Canvas, height float64) error {
		if height != 100 {
			t.Errorf("draw called with height %g", height)
		}
		return c.Rectangle(255, 0, 0, 10, 10, 50, 50)
	})
	if err != nil {
		t.Fatal(err)
	}
	err = w.Finish()
	if err != nil {
		t.Fatal(err)
	}

	content := "/DeviceRGB cs /DeviceRGB CS\n" +
		"0.75 0 0 -0.75 0 100 cm\n" +
		"255 0 0 sc 10 10 50 50 re f\n"

	want := &strings.Builder{}
	offsets := make([]int, 6)
	want.WriteString("%PDF-1.7\n%\xB5\xED\xAE\xFB\n")
	offsets[3] = want.Len()
	want.WriteString("3 0 obj\n<<  /Length 4 0 R\n>>\nstream\n" + content +
		"endstream\nendobj\n")
	offsets[4] = want.Len()
	fmt.Fprintf(want, "4 0 obj\n%d\nendobj\n", len(content))
	offsets[5] = want.Len()
	want.WriteString("5 0 obj\n" +
		"<<  /Type /Page\n" +
		"    /Parent 2 0 R\n" +
		"    /Resources << >>\n" +
		"    /MediaBox [0 0 200 100]\n" +
		"    /Contents 3 0 R\n" +
		">>\nendobj\n")
	offsets[2] = want.Len()
	want.WriteString("2 0 obj\n" +
		"<<  /Type /Pages\n" +
		"    /Count 1\n" +
		"    /Kids [ 5 0 R ]\n" +
		">>\nendobj\n")
	offsets[1] = want.Len()
	want.WriteString("1 0 obj\n" +
		"<<  /Type /Catalog\n" +
		"    /Pages 2 0 R\n" +
		">>\nendobj\n")
	xref := want.Len()
	want.WriteString("xref\n0 6\n0000000000 65535 f \n")
	for i := 1; i < 6; i++ {
		fmt.Fprintf(want, "%010d 00000 n \n", offsets[i])
	}
	fmt.Fprintf(want, "trailer\n<<  /Size 6\n    /Root 1 0 R\n>>\nstartxref\n%d\n%%%%EOF\n", xref)

	if d := cmp.Diff(want.String(), buf.String()); d != "" {
		t.Errorf("output differs (-want +got):\n%s", d)
	}
}

func TestZeroPages(t *testing.T) {
	buf := &bytes.Buffer{}
	w, err := NewWriter(buf, nil)
	if err != nil {
		t.Fatal(err)
	}
	err = w.Finish()
	if err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	for _, s := range []string{"/Count 0\n", "/Kids [ ]\n", "/Type /Catalog\n", "xref\n0 3\n"} {
		if !strings.Contains(out, s) {
			t.Errorf("output does not contain %q", s)
		}
	}
	checkStructure(t, buf.Bytes(), 0)
}

// TestStructure checks the object offsets, stream lengths and page order
// for documents with different numbers of pages.
func TestStructure(t *testing.T) {
	for _, numPages := range []int{1, 2, 7} {
		t.Run(fmt.Sprintf("%d", numPages), func(t *testing.T) {
			buf := &bytes.Buffer{}
			w, err := NewWriter(buf, nil)
			if err != nil {
				t.Fatal(err)
			}
			for i := 0; i < numPages; i++ {
				n := i * 37 // includes an empty page
				err = w.AddPage(float64(100+i), 150.5, func(c *graphics.Canvas, _ float64) error {
					for j := 0; j < n; j++ {
						err := c.Rectangle(uint8(j), uint8(i), 7, float64(j), 0.25, 3, 4)
						if err != nil {
							return err
						}
					}
					return nil
				})
				if err != nil {
					t.Fatal(err)
				}
			}
			if w.NumPages() != numPages {
				t.Errorf("NumPages() = %d, want %d", w.NumPages(), numPages)
			}
			err = w.Finish()
			if err != nil {
				t.Fatal(err)
			}

			checkStructure(t, buf.Bytes(), numPages)
		})
	}
}

func TestLargeContent(t *testing.T) {
	buf := &bytes.Buffer{}
	w, err := NewWriter(buf, nil)
	if err != nil {
		t.Fatal(err)
	}
	err = w.AddPage(595, 842, func(c *graphics.Canvas, _ float64) error {
		for i := 0; i < 2000; i++ {
			err := c.Rectangle(uint8(i), uint8(i>>8), 0, float64(i)/3, float64(i)/7, 1.5, 2.5)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	err = w.Finish()
	if err != nil {
		t.Fatal(err)
	}

	info := checkStructure(t, buf.Bytes(), 1)
	obj, _ := info.Find(3)
	if size := obj.StreamEnd - obj.StreamStart; size < 40000 {
		t.Errorf("content stream has only %d bytes", size)
	}
}

// TestSeekerOffset checks that byte offsets are relative to the start of
// the underlying file, if the output already contains data.
func TestSeekerOffset(t *testing.T) {
	prefix := []byte("some leading garbage\n")
	f := memfile.NewWithPrefix(prefix)
	w, err := NewWriter(f, nil)
	if err != nil {
		t.Fatal(err)
	}
	if w.Pos() != int64(len(prefix))+15 {
		t.Errorf("position after header is %d", w.Pos())
	}
	err = w.AddPage(10, 10, nil)
	if err != nil {
		t.Fatal(err)
	}
	err = w.Finish()
	if err != nil {
		t.Fatal(err)
	}

	end, err := f.Seek(0, io.SeekEnd)
	if err != nil {
		t.Fatal(err)
	}
	if end != w.Pos() {
		t.Errorf("file ends at %d, writer position is %d", end, w.Pos())
	}

	_, err = f.Seek(int64(len(prefix)), io.SeekStart)
	if err != nil {
		t.Fatal(err)
	}
	data, err := io.ReadAll(f)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte(header)) {
		t.Fatalf("PDF data does not follow the prefix: %q", data[:20])
	}

	info, err := scan.Scan(data)
	if err != nil {
		t.Fatal(err)
	}
	for _, obj := range info.Objects {
		got := info.XRefEntries[obj.Number]
		want := obj.Pos + int64(len(prefix))
		if got != want {
			t.Errorf("object %d: xref offset %d, want %d", obj.Number, got, want)
		}
	}
	if info.StartXRefValue != info.XRef+int64(len(prefix)) {
		t.Errorf("startxref %d, want %d", info.StartXRefValue, info.XRef+int64(len(prefix)))
	}
}

// seekFailWriter is an io.WriteSeeker whose position query fails.
type seekFailWriter struct {
	bytes.Buffer
	err error
}

func (w *seekFailWriter) Seek(int64, int) (int64, error) {
	return 0, w.err
}

func TestSeekErrors(t *testing.T) {
	seekErr := errors.New("lost track of position")
	_, err := NewWriter(&seekFailWriter{err: seekErr}, nil)
	if !errors.Is(err, seekErr) {
		t.Errorf("got %v, want %v", err, seekErr)
	}

	// os.File returns ESPIPE when stdout is a pipe
	pipe := &seekFailWriter{
		err: &os.PathError{Op: "seek", Path: "|1", Err: syscall.ESPIPE},
	}
	w, err := NewWriter(pipe, nil)
	if err != nil {
		t.Fatal(err)
	}
	err = w.AddPage(10, 10, nil)
	if err != nil {
		t.Fatal(err)
	}
	err = w.Finish()
	if err != nil {
		t.Fatal(err)
	}
	checkStructure(t, pipe.Bytes(), 1)
}

func TestPageSizeRounded(t *testing.T) {
	buf := &bytes.Buffer{}
	w, err := NewWriter(buf, nil)
	if err != nil {
		t.Fatal(err)
	}
	err = w.AddPage(200.0004, 99.9996, func(c *graphics.Canvas, height float64) error {
		if height != 100 {
			t.Errorf("draw called with height %g, want 100", height)
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	err = w.Finish()
	if err != nil {
		t.Fatal(err)
	}

	data := buf.Bytes()
	info := checkStructure(t, data, 1)
	content, _ := info.Body(data, 3)
	if !bytes.Contains(content, []byte("0.75 0 0 -0.75 0 100 cm\n")) {
		t.Errorf("wrong preamble in %q", content)
	}
	page, _ := info.Body(data, 5)
	if !bytes.Contains(page, []byte("/MediaBox [0 0 200 100]\n")) {
		t.Errorf("wrong MediaBox in %q", page)
	}
}

func TestDrawError(t *testing.T) {
	buf := &bytes.Buffer{}
	w, err := NewWriter(buf, nil)
	if err != nil {
		t.Fatal(err)
	}
	err = w.AddPage(100, 100, nil)
	if err != nil {
		t.Fatal(err)
	}

	drawErr := errors.New("no more ink")
	err = w.AddPage(100, 100, func(c *graphics.Canvas, _ float64) error {
		c.Rectangle(1, 2, 3, 4, 5, 6, 7)
		return drawErr
	})
	if err != drawErr {
		t.Fatalf("AddPage returned %v, want %v", err, drawErr)
	}

	out := buf.String()
	if !strings.HasSuffix(out, "1 2 3 sc 4 5 6 7 re f\n") {
		t.Errorf("unexpected output after failed page: %q", out[len(out)-40:])
	}
	n := buf.Len()

	err = w.AddPage(100, 100, nil)
	if err != drawErr {
		t.Errorf("AddPage after failure returned %v", err)
	}
	err = w.Finish()
	if err != drawErr {
		t.Errorf("Finish after failure returned %v", err)
	}
	if buf.Len() != n {
		t.Error("data written after failure")
	}
}

// TestWriteErrors makes the output fail at every possible position.
func TestWriteErrors(t *testing.T) {
	makeDoc := func(w *Writer) error {
		for i := 0; i < 2; i++ {
			err := w.AddPage(300, 200, func(c *graphics.Canvas, _ float64) error {
				return c.Rectangle(0, 0, 255, 1, 2, 3, 4)
			})
			if err != nil {
				return err
			}
		}
		return w.Finish()
	}

	opt := &WriterOptions{
		Info:   &Info{Title: "Test"},
		FileID: true,
	}

	full := &bytes.Buffer{}
	w, err := NewWriter(full, opt)
	if err != nil {
		t.Fatal(err)
	}
	err = makeDoc(w)
	if err != nil {
		t.Fatal(err)
	}

	for limit := 0; limit < full.Len(); limit++ {
		out := &mock.FailingWriter{Limit: limit}
		w, err := NewWriter(out, opt)
		if err == nil {
			err = makeDoc(w)
		}
		if !errors.Is(err, mock.ErrWrite) {
			t.Fatalf("limit %d: got error %v, want %v", limit, err, mock.ErrWrite)
		}
		if !bytes.Equal(out.Data, full.Bytes()[:limit]) {
			t.Fatalf("limit %d: output differs from the successful run", limit)
		}
	}
}

func TestFinishTwice(t *testing.T) {
	w, err := NewWriter(&bytes.Buffer{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	err = w.Finish()
	if err != nil {
		t.Fatal(err)
	}
	err = w.Finish()
	if !errors.Is(err, ErrFinished) {
		t.Errorf("second Finish returned %v", err)
	}
	err = w.AddPage(1, 1, nil)
	if !errors.Is(err, ErrFinished) {
		t.Errorf("AddPage after Finish returned %v", err)
	}
}

func TestCanvasOutlivesCallback(t *testing.T) {
	buf := &bytes.Buffer{}
	w, err := NewWriter(buf, nil)
	if err != nil {
		t.Fatal(err)
	}
	var saved *graphics.Canvas
	err = w.AddPage(50, 50, func(c *graphics.Canvas, _ float64) error {
		saved = c
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	n := buf.Len()
	err = saved.Rectangle(1, 1, 1, 1, 1, 1, 1)
	if !errors.Is(err, graphics.ErrDetached) {
		t.Errorf("got %v, want %v", err, graphics.ErrDetached)
	}
	if buf.Len() != n {
		t.Error("detached canvas wrote to the file")
	}
}

// TestIgnoredCanvasError checks that a write error is reported, even if
// the drawing function does not pass it on.
func TestIgnoredCanvasError(t *testing.T) {
	out := &mock.FailingWriter{Limit: 150}
	w, err := NewWriter(out, nil)
	if err != nil {
		t.Fatal(err)
	}
	err = w.AddPage(50, 50, func(c *graphics.Canvas, _ float64) error {
		for i := 0; i < 10; i++ {
			c.Rectangle(1, 1, 1, 1, 1, 1, 1)
		}
		return nil
	})
	if !errors.Is(err, mock.ErrWrite) {
		t.Errorf("got %v, want %v", err, mock.ErrWrite)
	}
}

func TestCreate(t *testing.T) {
	name := filepath.Join(t.TempDir(), "test.pdf")
	w, err := Create(name, nil)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		err = w.AddPage(100, 100, func(c *graphics.Canvas, _ float64) error {
			return c.Rectangle(0, 255, 0, 10, 10, 80, 80)
		})
		if err != nil {
			t.Fatal(err)
		}
	}
	err = w.Finish()
	if err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(name)
	if err != nil {
		t.Fatal(err)
	}
	checkStructure(t, data, 3)
}

// TestCreateFailedPage checks that Finish closes the file after a failed
// page and reports the original error.
func TestCreateFailedPage(t *testing.T) {
	name := filepath.Join(t.TempDir(), "test.pdf")
	w, err := Create(name, nil)
	if err != nil {
		t.Fatal(err)
	}
	fd := w.file

	drawErr := errors.New("boom")
	err = w.AddPage(100, 100, func(*graphics.Canvas, float64) error {
		return drawErr
	})
	if err != drawErr {
		t.Fatalf("AddPage returned %v, want %v", err, drawErr)
	}

	err = w.Finish()
	if err != drawErr {
		t.Errorf("Finish returned %v, want %v", err, drawErr)
	}
	if err := fd.Close(); !errors.Is(err, os.ErrClosed) {
		t.Errorf("file still open after Finish: Close returned %v", err)
	}

	err = w.Finish()
	if err != drawErr {
		t.Errorf("second Finish returned %v, want %v", err, drawErr)
	}
}

func TestCreateFails(t *testing.T) {
	name := filepath.Join(t.TempDir(), "missing", "test.pdf")
	_, err := Create(name, nil)
	if err == nil {
		t.Error("Create succeeded in a missing directory")
	}
}

func TestFileID(t *testing.T) {
	opt := &WriterOptions{FileID: true}
	makeDoc := func(r uint8) []byte {
		buf := &bytes.Buffer{}
		w, err := NewWriter(buf, opt)
		if err != nil {
			t.Fatal(err)
		}
		err = w.AddPage(10, 10, func(c *graphics.Canvas, _ float64) error {
			return c.Rectangle(r, 0, 0, 0, 0, 1, 1)
		})
		if err != nil {
			t.Fatal(err)
		}
		err = w.Finish()
		if err != nil {
			t.Fatal(err)
		}
		return buf.Bytes()
	}

	a1 := fileID(t, makeDoc(1))
	a2 := fileID(t, makeDoc(1))
	b := fileID(t, makeDoc(2))
	if a1 != a2 {
		t.Errorf("file ID is not deterministic: %s != %s", a1, a2)
	}
	if a1 == b {
		t.Errorf("different files have the same ID %s", a1)
	}
	checkStructure(t, makeDoc(3), 1)
}

func fileID(t *testing.T, data []byte) string {
	t.Helper()
	i := bytes.Index(data, []byte("/ID [<"))
	if i < 0 {
		t.Fatal("no /ID in trailer")
	}
	line := string(data[i:])
	line = line[:strings.IndexByte(line, '\n')]
	var id1, id2 string
	_, err := fmt.Sscanf(line, "/ID [<%32s> <%32s>]", &id1, &id2)
	if err != nil {
		t.Fatalf("cannot parse %q: %v", line, err)
	}
	if id1 != id2 {
		t.Errorf("ID parts differ: %s %s", id1, id2)
	}
	return id1
}

func TestReservedTwicePanics(t *testing.T) {
	w, err := NewWriter(&bytes.Buffer{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	write := func() error {
		return w.writeObject(PagesRef, func() error { return nil })
	}
	if err := write(); err != nil {
		t.Fatal(err)
	}

	defer func() {
		if recover() == nil {
			t.Error("writing an object twice did not panic")
		}
	}()
	write()
}

func TestUnwrittenObjectPanics(t *testing.T) {
	w, err := NewWriter(&bytes.Buffer{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	w.alloc()

	defer func() {
		if recover() == nil {
			t.Error("unwritten object did not cause a panic")
		}
	}()
	w.Finish()
}

func TestAllocOrder(t *testing.T) {
	w, err := NewWriter(&bytes.Buffer{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	a, b := w.allocPair()
	c := w.alloc()
	if a != 3 || b != 4 || c != 5 {
		t.Errorf("allocated %d, %d, %d", a, b, c)
	}
	want := []objState{stateUnallocated, stateReserved, stateReserved,
		stateReserved, stateReserved, stateReserved}
	var got []objState
	for _, entry := range w.xref {
		got = append(got, entry.state)
	}
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("states (-want +got):\n%s", d)
	}
}

func TestReference(t *testing.T) {
	if s := Reference(12).String(); s != "12 0 R" {
		t.Errorf("got %q", s)
	}
	if CatalogRef.Number() != 1 || PagesRef.Number() != 2 {
		t.Error("wrong fixed object numbers")
	}
}

// checkStructure verifies the file structure of a document written by
// this package: xref offsets, startxref, stream lengths, object adjacency
// and the page tree.
func checkStructure(t *testing.T, data []byte, numPages int) *scan.Info {
	t.Helper()

	info, err := scan.Scan(data)
	if err != nil {
		t.Fatal(err)
	}
	if info.HeaderVersion != Version {
		t.Errorf("header version %q", info.HeaderVersion)
	}
	if !bytes.HasSuffix(data, []byte("%%EOF\n")) {
		t.Error("missing end-of-file marker")
	}

	// object offsets
	if len(info.XRefEntries) != len(info.Objects)+1 {
		t.Fatalf("%d xref entries for %d objects",
			len(info.XRefEntries), len(info.Objects))
	}
	if info.XRefEntries[0] != -1 {
		t.Error("object 0 is not free")
	}
	for _, obj := range info.Objects {
		if info.XRefEntries[obj.Number] != obj.Pos {
			t.Errorf("object %d: xref offset %d, actual position %d",
				obj.Number, info.XRefEntries[obj.Number], obj.Pos)
		}
	}
	if info.StartXRefValue != info.XRef {
		t.Errorf("startxref %d, xref keyword at %d", info.StartXRefValue, info.XRef)
	}

	// pages, content streams and length objects
	var kids []string
	for i, obj := range info.Objects {
		body, _ := info.Body(data, obj.Number)
		if !bytes.Contains(body, []byte("/Type /Page\n")) {
			continue
		}
		kids = append(kids, fmt.Sprintf("%d 0 R", obj.Number))

		var contentNo uint32
		idx := bytes.Index(body, []byte("/Contents "))
		fmt.Sscanf(string(body[idx:]), "/Contents %d 0 R", &contentNo)
		if i < 2 || info.Objects[i-2].Number != contentNo ||
			info.Objects[i-1].Number != contentNo+1 {
			t.Errorf("page %d: objects %d, %d do not precede the page",
				obj.Number, contentNo, contentNo+1)
			continue
		}

		content := info.Objects[i-2]
		contentBody, _ := info.Body(data, contentNo)
		wantRef := fmt.Sprintf("/Length %d 0 R", contentNo+1)
		if !bytes.Contains(contentBody, []byte(wantRef)) {
			t.Errorf("content stream %d does not contain %q", contentNo, wantRef)
		}
		lengthBody, _ := info.Body(data, contentNo+1)
		var length int64
		fmt.Sscanf(string(lengthBody), "%d", &length)
		if length != content.StreamEnd-content.StreamStart {
			t.Errorf("content stream %d: /Length %d, actual %d",
				contentNo, length, content.StreamEnd-content.StreamStart)
		}
	}
	if len(kids) != numPages {
		t.Errorf("found %d pages, want %d", len(kids), numPages)
	}

	pagesBody, ok := info.Body(data, uint32(PagesRef))
	if !ok {
		t.Fatal("page tree not found")
	}
	wantKids := "/Kids [ "
	for _, kid := range kids {
		wantKids += kid + " "
	}
	wantKids += "]"
	if !bytes.Contains(pagesBody, []byte(wantKids)) {
		t.Errorf("page tree %q does not contain %q", pagesBody, wantKids)
	}
	wantCount := fmt.Sprintf("/Count %d\n", numPages)
	if !bytes.Contains(pagesBody, []byte(wantCount)) {
		t.Errorf("page tree %q does not contain %q", pagesBody, wantCount)
	}

	return info
}

func FuzzAddPage(f *testing.F) {
	f.Add(uint8(255), uint8(0), uint8(0), 10.0, 10.0, 50.0, 50.0, 200.0, 100.0, 1)
	f.Add(uint8(0), uint8(0), uint8(0), 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0)
	f.Add(uint8(1), uint8(2), uint8(3), -1.5, 1e6, 0.001, -3.0, 1e-9, 842.0, 17)
	f.Fuzz(func(t *testing.T, r, g, b uint8, x, y, w, h, pageWidth, pageHeight float64, n int) {
		if n < 0 || n > 100 {
			return
		}
		buf := &bytes.Buffer{}
		pdf, err := NewWriter(buf, nil)
		if err != nil {
			t.Fatal(err)
		}
		err = pdf.AddPage(pageWidth, pageHeight, func(c *graphics.Canvas, _ float64) error {
			for i := 0; i < n; i++ {
				err := c.Rectangle(r, g, b, x, y, w, h)
				if err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			t.Fatal(err)
		}
		err = pdf.Finish()
		if err != nil {
			t.Fatal(err)
		}
		checkStructure(t, buf.Bytes(), 1)
	})
}
