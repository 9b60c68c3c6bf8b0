// Copyright (C) 2021  Antonio Lassandro

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.

package main

import (
	"bufio"
	"bytes"
	"encoding/gob"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/tebeka/atexit"

	"github.com/lassandro/gotc/pkg/assembler"
	"github.com/lassandro/gotc/pkg/image"
	"github.com/lassandro/gotc/pkg/listing"
	"github.com/lassandro/gotc/pkg/term"
)

var helpvar bool
var debugvar bool
var strictvar bool
var maskvar bool
var listvar bool
var outvar string

var colour bool
var stdout = bufio.NewWriter(os.Stdout)

const usage = "gotc-asm [-debug] [-strict] [-mask] [-list] [-out outfile] filename"

// Output name used when the program is read from stdin
const defaultOut = "instruction.img"

func init() {
	colour = term.IsTerminal(os.Stderr.Fd())

	log.SetFlags(0)
	log.SetOutput(os.Stderr)

	atexit.Register(func() {
		stdout.Flush()
	})
}

func init() {
	flag.BoolVar(&helpvar, "help", false, "Displays command usage")
	flag.BoolVar(
		&debugvar, "debug", false,
		"Specifies whether to generate debugging information as a symbol "+
			"table. The table will use the output filename with extension "+
			"'.tcdb'",
	)
	flag.BoolVar(
		&strictvar, "strict", false,
		"Rejects lines that are neither an instruction nor a var directive "+
			"instead of ignoring them",
	)
	flag.BoolVar(
		&maskvar, "mask", false,
		"Masks addresses to the 20 bit address field instead of adding "+
			"them to the opcode",
	)
	flag.BoolVar(
		&listvar, "list", false,
		"Prints a listing of the assembled image to stdout",
	)
	flag.StringVar(
		&outvar, "out", "",
		"Specifies a precise name for the output file, "+
			"overriding the default means of determining it",
	)
	flag.Parse()
}

func setPrefix(name string) {
	if colour {
		log.SetPrefix(fmt.Sprintf("\033[1m%s:\033[0m", name))
	} else {
		log.SetPrefix(name + ":")
	}
}

// Prints err followed by the offending source line with the token underlined.
func reportError(err error, source []byte) {
	tokenErr, ok := err.(assembler.TokenError)

	// Not worth echoing
	if _, oversized := err.(*assembler.OversizedLineError); oversized {
		ok = false
	}

	if !ok {
		log.Println(err)
		return
	}

	cursor := tokenErr.GetPosition()

	line, _ := bufio.NewReader(
		bytes.NewReader(source[cursor.LineByte:]),
	).ReadString('\n')

	underlinefmt := fmt.Sprintf(
		"%% %ds%s",
		int(cursor.Byte-cursor.LineByte)+1,
		strings.Repeat("~", int(cursor.Size)-1),
	)

	underline := fmt.Sprintf(underlinefmt, "^")

	if colour {
		underline = "\033[31m" + underline + "\033[0m"
	}

	log.Printf(
		"%s\n%s\n%s",
		err,
		strings.TrimRight(line, "\r\n"),
		underline,
	)
}

func writeSymTable(filename string, symtable *assembler.SymTable) error {
	file, err := os.OpenFile(
		filename, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0666,
	)

	if err != nil {
		return err
	}

	defer file.Close()

	if err := gob.NewEncoder(file).Encode(symtable); err != nil {
		return err
	}

	return file.Close()
}

func gotc_asm() int {
	if helpvar {
		fmt.Println(usage)
		flag.PrintDefaults()
		return 0
	}

	args := flag.Args()

	var infile string
	var input io.Reader

	if stat, _ := os.Stdin.Stat(); len(args) == 0 && stat != nil && stat.Mode()&os.ModeCharDevice == 0 {
		input = os.Stdin
		setPrefix("<stdin>")

		if outvar == "" {
			outvar = defaultOut
		}
	} else {
		if len(args) != 1 {
			log.Println(usage)
			return 1
		}

		file, err := os.Open(args[0])

		if err != nil {
			log.Println(err)
			return 1
		}

		defer file.Close()

		filename := filepath.Base(file.Name())

		if stat, err := file.Stat(); err != nil {
			log.Println(err)
			return 1
		} else if stat.IsDir() {
			log.Printf("%s is not a valid assembly file", filename)
			return 1
		}

		input = file
		infile = file.Name()
		setPrefix(filename)

		if outvar == "" {
			outvar = filepath.Join(
				filepath.Dir(infile),
				strings.TrimSuffix(filename, filepath.Ext(filename))+".img",
			)
		}
	}

	source, err := io.ReadAll(input)

	if err != nil {
		log.Println(err)
		return 1
	}

	var symtable assembler.SymTable
	var symtarget *assembler.SymTable = nil

	if debugvar || listvar {
		if infile != "" {
			if symtable.Source, err = filepath.Abs(infile); err != nil {
				log.Println(err)
				symtable.Source = ""
			}
		}

		symtarget = &symtable
	}

	opts := assembler.Options{Strict: strictvar, MaskAddress: maskvar}

	result, err := assembler.AssembleTinySource(
		bytes.NewReader(source), opts, symtarget,
	)

	if err != nil {
		reportError(err, source)
		return 1
	}

	if err := image.WriteFile(outvar, result); err != nil {
		log.Println("Error writing output file")
		log.Println(err)
		return 1
	}

	if debugvar {
		filename := strings.TrimSuffix(outvar, filepath.Ext(outvar)) + ".tcdb"

		if err := writeSymTable(filename, &symtable); err != nil {
			log.Println("Error writing symbol table")
			log.Println(err)
			return 1
		}
	}

	if listvar {
		lines := strings.Split(string(source), "\n")

		if err := listing.Write(
			stdout, result, lines, &symtable, term.IsTerminal(os.Stdout.Fd()),
		); err != nil {
			log.Println(err)
			return 1
		}
	}

	return 0
}

func main() {
	atexit.Exit(gotc_asm())
}
