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
	"encoding/gob"
	"flag"
	"fmt"
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
var symvar string

var stdout = bufio.NewWriter(os.Stdout)

const usage = "gotc-dump [-sym symfile] filename"

func init() {
	exe, _ := os.Executable()
	log.SetFlags(0)
	log.SetPrefix(fmt.Sprintf("%s: ", filepath.Base(exe)))
	log.SetOutput(os.Stderr)

	atexit.Register(func() {
		stdout.Flush()
	})
}

func init() {
	flag.BoolVar(&helpvar, "help", false, "Displays command usage")
	flag.StringVar(
		&symvar, "sym", "",
		"Specifies the symbol table to annotate the listing with, "+
			"overriding the '.tcdb' file next to the image",
	)
	flag.Parse()
}

func loadSymTable(filename string) (*assembler.SymTable, error) {
	file, err := os.Open(filename)

	if err != nil {
		return nil, err
	}

	defer file.Close()

	var symtable assembler.SymTable

	if err := gob.NewDecoder(file).Decode(&symtable); err != nil {
		return nil, err
	}

	return &symtable, nil
}

func gotc_dump() int {
	if helpvar {
		fmt.Println(usage)
		flag.PrintDefaults()
		return 0
	}

	args := flag.Args()

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

	result, err := image.Decode(file)

	if err != nil {
		log.Println(err)
		return 1
	}

	var source []string

	filename := symvar

	if filename == "" {
		filename = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + ".tcdb"
	}

	symtable, err := loadSymTable(filename)

	if err != nil {
		if symvar != "" || !os.IsNotExist(err) {
			log.Println("Error loading symbol file")
			log.Println(err)
		}

		symtable = nil
	}

	if symtable != nil && symtable.Source != "" {
		if data, err := os.ReadFile(symtable.Source); err == nil {
			source = strings.Split(string(data), "\n")
		} else {
			log.Println("Error loading source file")
			log.Println(err)
		}
	}

	if err := listing.Write(
		stdout, result, source, symtable, term.IsTerminal(os.Stdout.Fd()),
	); err != nil {
		log.Println(err)
		return 1
	}

	return 0
}

func main() {
	atexit.Exit(gotc_dump())
}
