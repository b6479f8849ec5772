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

// Rectpdf converts a layout file into a PDF document.
//
// Usage:
//
//	rectpdf [-o output.pdf] [-f] layout.yaml
//
// Layout files are described in the documentation of the
// seehuhn.de/go/pdfstream/layout package.  Files with the extension
// ".json" are read as JSON, all others as YAML.  If no output file is
// given, the PDF file is written to standard output.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"golang.org/x/term"

	"seehuhn.de/go/pdfstream/layout"
)

const defaultProducer = "seehuhn.de/go/pdfstream/cmd/rectpdf"

func main() {
	log.SetFlags(0)
	log.SetPrefix("rectpdf: ")

	err := run(os.Args[1:], os.Stdout)
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(2)
	} else if err != nil {
		log.Fatal(err)
	}
}

func run(args []string, stdout *os.File) error {
	flags := flag.NewFlagSet("rectpdf", flag.ContinueOnError)
	outName := flags.String("o", "", "name of the output file")
	force := flags.Bool("f", false, "write binary output to a terminal")
	producer := flags.String("producer", defaultProducer, "value of the /Producer entry")
	err := flags.Parse(args)
	if err != nil {
		return err
	}
	if flags.NArg() != 1 {
		flags.Usage()
		return flag.ErrHelp
	}

	doc, err := layout.ReadFile(flags.Arg(0))
	if err != nil {
		return err
	}
	if *producer != "" {
		if doc.Info == nil {
			doc.Info = &layout.Info{}
		}
		if doc.Info.Producer == "" {
			doc.Info.Producer = *producer
		}
	}

	if *outName == "" {
		if !*force && term.IsTerminal(int(stdout.Fd())) {
			return errors.New("refusing to write PDF data to a terminal (use -o or -f)")
		}
		return doc.Write(stdout)
	}

	fd, err := os.Create(*outName)
	if err != nil {
		return err
	}
	err = write(fd, doc)
	closeErr := fd.Close()
	if err != nil {
		os.Remove(*outName)
		return err
	}
	if closeErr != nil {
		return closeErr
	}

	log.Printf("wrote %d pages to %s", len(doc.Pages), *outName)
	return nil
}

func write(w io.Writer, doc *layout.Document) error {
	err := doc.Write(w)
	if err != nil {
		return fmt.Errorf("cannot write PDF: %w", err)
	}
	return nil
}
