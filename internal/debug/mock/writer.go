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

// Package mock provides test doubles for the output of a PDF writer.
package mock

import (
	"errors"
)

// ErrWrite is the error returned by a [FailingWriter] once its budget
// is exhausted.
var ErrWrite = errors.New("mock: write failed")

// FailingWriter is an [io.Writer] which accepts Limit bytes and then fails.
// Accepted bytes are appended to Data.
//
// If Err is non-nil, it is returned instead of [ErrWrite].
type FailingWriter struct {
	Data  []byte
	Limit int
	Err   error
}

func (w *FailingWriter) Write(p []byte) (int, error) {
	space := w.Limit - len(w.Data)
	if space >= len(p) {
		w.Data = append(w.Data, p...)
		return len(p), nil
	}

	if space < 0 {
		space = 0
	}
	w.Data = append(w.Data, p[:space]...)

	err := w.Err
	if err == nil {
		err = ErrWrite
	}
	return space, err
}
