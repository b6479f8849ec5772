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

package graphics

import (
	"errors"
	"fmt"
	"io"

	"seehuhn.de/go/geom/matrix"

	"seehuhn.de/go/pdfstream/internal/float"
)

// This file implements the colour, path and transformation operators needed
// to fill axis-aligned rectangles.  The operators are defined in tables 57,
// 58, 59 and 73 of ISO 32000-2:2020.

// digits is the number of decimal places used for coordinates.
const digits = 3

// Canvas writes operators to a content stream.
//
// A Canvas keeps no graphics state.  Every method writes a complete
// instruction sequence and can be called in any order.  After the first
// write error, all methods return that error without writing anything.
type Canvas struct {
	w   io.Writer
	err error
}

// NewCanvas returns a Canvas which writes to w.
func NewCanvas(w io.Writer) *Canvas {
	return &Canvas{w: w}
}

// Err returns the first write error encountered by the canvas, if any.
func (c *Canvas) Err() error {
	return c.err
}

// Detach disconnects the canvas from its content stream.
// All subsequent drawing calls fail with [ErrDetached].
func (c *Canvas) Detach() {
	c.w = nil
}

// SetColorSpaceRGB selects DeviceRGB as the colour space for both stroking
// and non-stroking operations.
//
// This implements the PDF graphics operators "cs" and "CS".
func (c *Canvas) SetColorSpaceRGB() error {
	if err := c.check(); err != nil {
		return err
	}
	_, c.err = fmt.Fprintln(c.w, "/DeviceRGB cs /DeviceRGB CS")
	return c.err
}

// Transform applies a transformation matrix to the coordinate system.
//
// This implements the PDF graphics operator "cm".
func (c *Canvas) Transform(m matrix.Matrix) error {
	if err := c.check(); err != nil {
		return err
	}
	_, c.err = fmt.Fprintln(c.w,
		float.Format(m[0], digits), float.Format(m[1], digits),
		float.Format(m[2], digits), float.Format(m[3], digits),
		float.Format(m[4], digits), float.Format(m[5], digits), "cm")
	return c.err
}

// Rectangle fills the rectangle with corner (x, y) and the given width and
// height.
//
// The colour components are written unchanged as operands of the "sc"
// operator, followed by the operators "re" and "f".
func (c *Canvas) Rectangle(r, g, b uint8, x, y, width, height float64) error {
	if err := c.check(); err != nil {
		return err
	}
	_, c.err = fmt.Fprintln(c.w, r, g, b, "sc",
		float.Format(x, digits), float.Format(y, digits),
		float.Format(width, digits), float.Format(height, digits), "re", "f")
	return c.err
}

func (c *Canvas) check() error {
	if c.w == nil {
		return ErrDetached
	}
	return c.err
}

// ErrDetached is returned when a canvas is used after the drawing callback
// it was passed to has returned.
var ErrDetached = errors.New("canvas used outside of its drawing callback")
