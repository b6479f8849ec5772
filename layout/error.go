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

package layout

import (
	"errors"
	"fmt"
)

// ErrEmpty is returned when a layout file contains no document.
var ErrEmpty = errors.New("empty layout file")

// Error describes a problem with a layout description.
type Error struct {
	// Field is the location of the problem, for example "pages[2].size".
	// It is empty for problems which concern the file as a whole.
	Field   string
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Err != nil && e.Err.Error() != msg {
		msg += ": " + e.Err.Error()
	}
	if e.Field != "" {
		return fmt.Sprintf("layout: %s: %s", e.Field, msg)
	}
	return "layout: " + msg
}

func (e *Error) Unwrap() error {
	return e.Err
}
