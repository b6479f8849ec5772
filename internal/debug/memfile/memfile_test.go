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

package memfile

import (
	"io"
	"testing"
)

var _ io.ReadWriteSeeker = (*MemFile)(nil)

func TestWrite(t *testing.T) {
	f := New()
	data := []byte("Hello, World!")

	n, err := f.Write(data)
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if n != len(data) {
		t.Errorf("Write wrote %d bytes; want %d", n, len(data))
	}
	if f.String() != "Hello, World!" {
		t.Errorf("Write stored %q; want %q", f.String(), "Hello, World!")
	}
	if f.Offset != int64(len(data)) {
		t.Errorf("Offset = %d; want %d", f.Offset, len(data))
	}
}

func TestPrefix(t *testing.T) {
	f := NewWithPrefix([]byte("junk"))
	pos, err := f.Seek(0, io.SeekCurrent)
	if err != nil {
		t.Fatal(err)
	}
	if pos != 4 {
		t.Errorf("initial position = %d; want 4", pos)
	}
	_, _ = f.Write([]byte("%PDF"))
	if f.String() != "junk%PDF" {
		t.Errorf("got %q; want %q", f.String(), "junk%PDF")
	}
}

func TestSeekAndRead(t *testing.T) {
	f := New()
	_, _ = f.Write([]byte("0123456789"))

	pos, err := f.Seek(-4, io.SeekEnd)
	if err != nil {
		t.Fatal(err)
	}
	if pos != 6 {
		t.Errorf("Seek returned %d; want 6", pos)
	}

	buf := make([]byte, 8)
	n, err := f.Read(buf)
	if err != io.EOF {
		t.Errorf("Read error = %v; want io.EOF", err)
	}
	if string(buf[:n]) != "6789" {
		t.Errorf("Read %q; want %q", buf[:n], "6789")
	}

	if _, err := f.Seek(-1, io.SeekStart); err == nil {
		t.Error("negative offset accepted")
	}
	if _, err := f.Seek(0, 42); err == nil {
		t.Error("invalid whence accepted")
	}
}

func TestOverwriteAndExtend(t *testing.T) {
	f := New()
	_, _ = f.Write([]byte("abcdef"))
	_, _ = f.Seek(4, io.SeekStart)
	_, _ = f.Write([]byte("XYZ"))
	if f.String() != "abcdXYZ" {
		t.Errorf("got %q; want %q", f.String(), "abcdXYZ")
	}

	_, _ = f.Seek(10, io.SeekStart)
	_, _ = f.Write([]byte("!"))
	if len(f.Data) != 11 || f.Data[10] != '!' || f.Data[8] != 0 {
		t.Errorf("unexpected data %q", f.Data)
	}
}
