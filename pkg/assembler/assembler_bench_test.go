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

package assembler_test

import (
	"strings"
	"testing"

	"github.com/lassandro/gotc/pkg/assembler"
)

// smallProgram multiplies two data cells and stores the product.
const smallProgram = `
load 20
mul 21
sto 22
halt
var 20 6
var 21 7
`

// fullProgram fills every cell through the cursor.
var fullProgram = strings.Repeat("load 1\nadd 2\nsto 3\nbun 0\n", 16)

func BenchmarkAssemble_Small(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := assembler.Compile(smallProgram, assembler.Options{}); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkAssemble_Full(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := assembler.Compile(fullProgram, assembler.Options{}); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSerialize_Full(b *testing.B) {
	result, err := assembler.Compile(fullProgram, assembler.Options{})

	if err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = result.Serialize()
	}
}
