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

	"golang.org/x/text/language"
	"seehuhn.de/go/icc"
	"seehuhn.de/go/xmp"
)

// xmpPDF is the XMP namespace for PDF metadata.
// See https://developer.adobe.com/xmp/docs/XMPNamespaces/pdf/
type xmpPDF struct {
	_          xmp.Namespace `xmp:"http://ns.adobe.com/pdf/1.3/"`
	_          xmp.Prefix    `xmp:"pdf"`
	Keywords   xmp.Text
	PDFVersion xmp.Text
	Producer   xmp.AgentName
}

// writeMetadata writes an XMP metadata stream which repeats the fields of
// the document information dictionary.
func (pdf *Writer) writeMetadata(ref Reference, info *Info) error {
	dc := &xmp.DublinCore{}
	if info.Title != "" {
		dc.Title.Set(language.MustParse("x-default"), info.Title)
	}
	if info.Subject != "" {
		dc.Description.Set(language.MustParse("x-default"), info.Subject)
	}
	if info.Author != "" {
		dc.Creator.Append(xmp.NewProperName(info.Author))
	}

	basic := &xmp.Basic{}
	if !info.CreationDate.IsZero() {
		basic.CreateDate = xmp.NewDate(info.CreationDate)
	}
	if !info.ModDate.IsZero() {
		basic.ModifyDate = xmp.NewDate(info.ModDate)
	}

	pdfInfo := &xmpPDF{
		PDFVersion: xmp.NewText(Version),
	}
	if info.Keywords != "" {
		pdfInfo.Keywords = xmp.NewText(info.Keywords)
	}
	if info.Producer != "" {
		pdfInfo.Producer = xmp.NewAgentName(info.Producer)
	}

	packet := xmp.NewPacket()
	err := packet.Set(dc, basic, pdfInfo)
	if err != nil {
		return err
	}

	body := &bytes.Buffer{}
	err = packet.Write(body, &xmp.PacketOptions{Pretty: true})
	if err != nil {
		return err
	}

	return pdf.writeObject(ref, func() error {
		pdf.w.printf("<<  /Type /Metadata\n")
		pdf.w.printf("    /Subtype /XML\n")
		pdf.w.printf("    /Length %d\n", body.Len())
		pdf.w.printf(">>\nstream\n")
		pdf.w.Write(body.Bytes())
		pdf.w.printf("\nendstream\n")
		return pdf.w.err
	})
}

// writeOutputProfile writes the sRGB ICC profile used by the output intent.
func (pdf *Writer) writeOutputProfile(ref Reference) error {
	profile := srgbProfile()
	p, err := icc.Decode(profile)
	if err != nil {
		return err
	}

	return pdf.writeObject(ref, func() error {
		pdf.w.printf("<<  /N %d\n", p.ColorSpace.NumComponents())
		pdf.w.printf("    /Length %d\n", len(profile))
		pdf.w.printf(">>\nstream\n")
		pdf.w.Write(profile)
		pdf.w.printf("\nendstream\n")
		return pdf.w.err
	})
}

// outputIntent returns an output intent dictionary for the sRGB profile
// stored in the object profileRef.
func outputIntent(profileRef Reference) string {
	return "<<  /Type /OutputIntent /S /GTS_PDFA1" +
		" /OutputConditionIdentifier " + formatString([]byte(srgbDescription)) +
		" /DestOutputProfile " + profileRef.String() + " >>"
}
