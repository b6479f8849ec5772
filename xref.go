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
	"fmt"
)

// finish writes all objects which can only be written once the number of
// pages is known, followed by the cross-reference table and the trailer.
func (pdf *Writer) finish() error {
	err := pdf.writeObject(PagesRef, func() error {
		pdf.w.printf("<<  /Type /Pages\n")
		pdf.w.printf("    /Count %d\n", len(pdf.pages))
		pdf.w.printf("    /Kids [ ")
		for _, ref := range pdf.pages {
			pdf.w.printf("%s ", ref)
		}
		pdf.w.printf("]\n")
		pdf.w.printf(">>\n")
		return pdf.w.err
	})
	if err != nil {
		return err
	}

	var infoRef Reference
	if !pdf.opt.Info.IsEmpty() {
		infoRef = pdf.alloc()
		err = pdf.writeInfo(infoRef, pdf.opt.Info)
		if err != nil {
			return err
		}
	}

	var metadataRef Reference
	if pdf.opt.XMP && !pdf.opt.Info.IsEmpty() {
		metadataRef = pdf.alloc()
		err = pdf.writeMetadata(metadataRef, pdf.opt.Info)
		if err != nil {
			return err
		}
	}

	var profileRef Reference
	if pdf.opt.OutputIntent {
		profileRef = pdf.alloc()
		err = pdf.writeOutputProfile(profileRef)
		if err != nil {
			return err
		}
	}

	err = pdf.writeObject(CatalogRef, func() error {
		pdf.w.printf("<<  /Type /Catalog\n")
		pdf.w.printf("    /Pages %s\n", PagesRef)
		if metadataRef != 0 {
			pdf.w.printf("    /Metadata %s\n", metadataRef)
		}
		if profileRef != 0 {
			pdf.w.printf("    /OutputIntents [ %s ]\n", outputIntent(profileRef))
		}
		pdf.w.printf(">>\n")
		return pdf.w.err
	})
	if err != nil {
		return err
	}

	var fileID []byte
	if pdf.w.hash != nil {
		sum := pdf.w.hash.Sum128().Bytes()
		fileID = sum[:]
	}

	xRefPos := pdf.w.pos
	err = pdf.writeXRefTable()
	if err != nil {
		return err
	}

	pdf.w.printf("trailer\n")
	pdf.w.printf("<<  /Size %d\n", len(pdf.xref))
	pdf.w.printf("    /Root %s\n", CatalogRef)
	if infoRef != 0 {
		pdf.w.printf("    /Info %s\n", infoRef)
	}
	if fileID != nil {
		// Both parts of the identifier agree for a newly created file.
		pdf.w.printf("    /ID [<%x> <%x>]\n", fileID, fileID)
	}
	pdf.w.printf(">>\n")
	pdf.w.printf("startxref\n%d\n%%%%EOF\n", xRefPos)
	return pdf.w.err
}

// writeXRefTable writes a cross-reference table with a single subsection
// covering all object numbers.
//
// Every allocated object must have been written at this point.  A
// missing object indicates a bug in this package and causes a panic.
func (pdf *Writer) writeXRefTable() error {
	pdf.w.printf("xref\n0 %d\n", len(pdf.xref))
	pdf.w.printf("0000000000 65535 f \n")
	for i := 1; i < len(pdf.xref); i++ {
		entry := pdf.xref[i]
		if entry.state != stateWritten || entry.pos < 0 {
			panic(fmt.Sprintf("object %d was allocated but never written", i))
		}
		pdf.w.printf("%010d 00000 n \n", entry.pos)
	}
	return pdf.w.err
}
