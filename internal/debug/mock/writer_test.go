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

package mock

import (
	"errors"
	"testing"
)

func TestFailingWriter(t *testing.T) {
	w := &FailingWriter{Limit: 5}

	n, err := w.Write([]byte("abc"))
	if n != 3 || err != nil {
		t.Fatalf("first write: n=%d, err=%v", n, err)
	}

	n, err = w.Write([]byte("defg"))
	if n != 2 || !errors.Is(err, ErrWrite) {
		t.Fatalf("second write: n=%d, err=%v", n, err)
	}
	if string(w.Data) != "abcde" {
		t.Errorf("Data = %q", w.Data)
	}

	n, err = w.Write([]byte("x"))
	if n != 0 || err == nil {
		t.Errorf("write after failure: n=%d, err=%v", n, err)
	}
}

func TestFailingWriterCustomError(t *testing.T) {
	myErr := errors.New("disk full")
	w := &FailingWriter{Err: myErr}
	_, err := w.Write([]byte("x"))
	if err != myErr {
		t.Errorf("got %v, want %v", err, myErr)
	}
}
