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

// Package layout describes simple PDF documents in YAML or JSON files, and
// renders them using a [pdfstream.Writer].
//
// A layout file lists the pages of a document.  Each page has a size and a
// list of filled rectangles:
//
//	info:
//	  title: Test Document
//	pages:
//	  - size: A4
//	    rects:
//	      - {x: 10, y: 10, width: 50, height: 50, color: red}
//	  - width: 200
//	    height: 100
//
// Page sizes are given in PDF units (1/72 inch).  Rectangle coordinates use
// the coordinate system of the drawing canvas, with the origin in the
// top-left corner of the page.
package layout

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/pdfstream"
	"seehuhn.de/go/pdfstream/graphics"
)

// Document describes a PDF document.
type Document struct {
	// Info holds the entries of the document information dictionary.
	Info *Info `yaml:"info,omitempty" json:"info,omitempty"`

	// XMP requests an XMP metadata stream in addition to the Info
	// dictionary.
	XMP bool `yaml:"xmp,omitempty" json:"xmp,omitempty"`

	// OutputIntent requests an sRGB output intent.
	OutputIntent bool `yaml:"output-intent,omitempty" json:"output_intent,omitempty"`

	// FileID requests a file identifier in the trailer.
	FileID bool `yaml:"file-id,omitempty" json:"file_id,omitempty"`

	Pages []*Page `yaml:"pages" json:"pages"`
}

// Info holds the document information entries of a layout file.
// Dates use the format 2006-01-02 or RFC 3339.
type Info struct {
	Title    string            `yaml:"title,omitempty" json:"title,omitempty"`
	Author   string            `yaml:"author,omitempty" json:"author,omitempty"`
	Subject  string            `yaml:"subject,omitempty" json:"subject,omitempty"`
	Keywords string            `yaml:"keywords,omitempty" json:"keywords,omitempty"`
	Creator  string            `yaml:"creator,omitempty" json:"creator,omitempty"`
	Producer string            `yaml:"producer,omitempty" json:"producer,omitempty"`
	Created  string            `yaml:"created,omitempty" json:"created,omitempty"`
	Modified string            `yaml:"modified,omitempty" json:"modified,omitempty"`
	Custom   map[string]string `yaml:"custom,omitempty" json:"custom,omitempty"`
}

// Page describes a single page.
//
// The page size is either given by name (Size, optionally rotated by
// Landscape), or by Width and Height.
type Page struct {
	Size      string  `yaml:"size,omitempty" json:"size,omitempty"`
	Landscape bool    `yaml:"landscape,omitempty" json:"landscape,omitempty"`
	Width     float64 `yaml:"width,omitempty" json:"width,omitempty"`
	Height    float64 `yaml:"height,omitempty" json:"height,omitempty"`
	Rects     []*Rect `yaml:"rects,omitempty" json:"rects,omitempty"`

	box rect.Rect
}

// Rect is a filled rectangle.
//
// Color is either an SVG colour keyword like "red" or "steelblue", or a
// hexadecimal colour like "#ff8000" or "#f80".  The default is black.
type Rect struct {
	X      float64 `yaml:"x" json:"x"`
	Y      float64 `yaml:"y" json:"y"`
	Width  float64 `yaml:"width" json:"width"`
	Height float64 `yaml:"height" json:"height"`
	Color  string  `yaml:"color,omitempty" json:"color,omitempty"`

	r, g, b uint8
}

// Format identifies the syntax of a layout file.
type Format int

// These are the supported file formats.
const (
	YAML Format = iota
	JSON
)

func (f Format) String() string {
	switch f {
	case YAML:
		return "YAML"
	case JSON:
		return "JSON"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// FormatFromName guesses the format of a layout file from its name.
// Files ending in ".json" are JSON, everything else is YAML.
func FormatFromName(name string) Format {
	if strings.EqualFold(filepath.Ext(name), ".json") {
		return JSON
	}
	return YAML
}

// Read decodes and validates a layout description.
// Unknown fields are reported as errors.
func Read(r io.Reader, format Format) (*Document, error) {
	doc := &Document{}

	var err error
	switch format {
	case YAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		err = dec.Decode(doc)
		if err == io.EOF {
			err = ErrEmpty
		}
	case JSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		err = dec.Decode(doc)
		if err == io.EOF {
			err = ErrEmpty
		}
	default:
		err = fmt.Errorf("unsupported layout format %s", format)
	}
	if err != nil {
		return nil, &Error{Message: "cannot decode " + format.String(), Err: err}
	}

	err = doc.Validate()
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// ReadFile reads a layout description from the named file.
func ReadFile(name string) (*Document, error) {
	fd, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer fd.Close()
	return Read(fd, FormatFromName(name))
}

// Validate checks the document description and resolves page sizes and
// colours.  It must be called before a Document which was not obtained
// from [Read] is rendered; [Document.Write] does this automatically.
func (doc *Document) Validate() error {
	if doc.Info != nil {
		if _, err := parseDate(doc.Info.Created); err != nil {
			return &Error{Field: "info.created", Message: "invalid date", Err: err}
		}
		if _, err := parseDate(doc.Info.Modified); err != nil {
			return &Error{Field: "info.modified", Message: "invalid date", Err: err}
		}
	}

	for i, page := range doc.Pages {
		field := fmt.Sprintf("pages[%d]", i)
		if page == nil {
			return &Error{Field: field, Message: "empty page description"}
		}
		err := page.resolveSize(field)
		if err != nil {
			return err
		}
		for j, r := range page.Rects {
			field := fmt.Sprintf("%s.rects[%d]", field, j)
			if r == nil {
				return &Error{Field: field, Message: "empty rectangle description"}
			}
			col, err := parseColor(r.Color)
			if err != nil {
				return &Error{Field: field + ".color", Message: err.Error(), Err: err}
			}
			r.r, r.g, r.b = col.R, col.G, col.B
		}
	}
	return nil
}

func (page *Page) resolveSize(field string) error {
	if page.Size != "" {
		if page.Width != 0 || page.Height != 0 {
			return &Error{Field: field, Message: "size and width/height are mutually exclusive"}
		}
		paper, ok := PaperSize(page.Size)
		if !ok {
			return &Error{Field: field + ".size", Message: fmt.Sprintf("unknown paper size %q", page.Size)}
		}
		page.box = paper
	} else {
		if page.Width == 0 || page.Height == 0 {
			return &Error{Field: field, Message: "missing page size"}
		}
		page.box = rect.Rect{URx: page.Width, URy: page.Height}
	}
	if page.Landscape {
		page.box.URx, page.box.URy = page.box.URy, page.box.URx
	}
	return nil
}

// WriterOptions returns the options for the PDF writer.
// The document must have been validated.
func (doc *Document) WriterOptions() *pdfstream.WriterOptions {
	opt := &pdfstream.WriterOptions{
		XMP:          doc.XMP,
		OutputIntent: doc.OutputIntent,
		FileID:       doc.FileID,
	}
	if doc.Info != nil {
		created, _ := parseDate(doc.Info.Created)
		modified, _ := parseDate(doc.Info.Modified)
		opt.Info = &pdfstream.Info{
			Title:        doc.Info.Title,
			Author:       doc.Info.Author,
			Subject:      doc.Info.Subject,
			Keywords:     doc.Info.Keywords,
			Creator:      doc.Info.Creator,
			Producer:     doc.Info.Producer,
			CreationDate: created,
			ModDate:      modified,
			Custom:       doc.Info.Custom,
		}
	}
	return opt
}

// Write renders the document as a PDF file.
func (doc *Document) Write(w io.Writer) error {
	err := doc.Validate()
	if err != nil {
		return err
	}

	out, err := pdfstream.NewWriter(w, doc.WriterOptions())
	if err != nil {
		return err
	}
	for _, page := range doc.Pages {
		err = out.AddPage(page.box.URx, page.box.URy, page.draw)
		if err != nil {
			return err
		}
	}
	return out.Finish()
}

func (page *Page) draw(c *graphics.Canvas, _ float64) error {
	for _, r := range page.Rects {
		err := c.Rectangle(r.r, r.g, r.b, r.X, r.Y, r.Width, r.Height)
		if err != nil {
			return err
		}
	}
	return nil
}

// parseDate parses a date in one of the formats allowed in layout files.
// The empty string corresponds to the zero time.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
