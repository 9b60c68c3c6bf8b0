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

package listing

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/lassandro/gotc/pkg/assembler"
	"github.com/lassandro/gotc/pkg/image"
)

// Write renders img as a table with one row per filled cell and one row per
// run of empty cells. When symtable is non-nil each filled cell is annotated
// with the source line that produced it.
func Write(
	writer io.Writer,
	img *image.Image,
	source []string,
	symtable *assembler.SymTable,
	colour bool,
) error {
	listing := table.NewWriter()
	listing.SetTitle("%s (%d/%d words)", image.HEADER, img.Filled(), image.IMAGE_SIZE)
	listing.AppendHeader(table.Row{"Addr", "Word", "Line", "Source"})

	if colour {
		listing.SetStyle(table.StyleColoredDark)
	} else {
		listing.SetStyle(table.StyleLight)
	}

	for addr := 0; addr < image.IMAGE_SIZE; {
		if !img.Cells[addr].Set {
			end := addr

			for end < image.IMAGE_SIZE && !img.Cells[end].Set {
				end++
			}

			run := fmt.Sprintf("%d*0", end-addr)

			if colour {
				run = text.FgHiBlack.Sprint(run)
			}

			listing.AppendRow(table.Row{formatRange(addr, end-1), run, "", ""})
			addr = end
			continue
		}

		line, src := sourceLine(uint8(addr), source, symtable)

		listing.AppendRow(table.Row{
			fmt.Sprintf("%#04x", addr), img.Cells[addr].String(), line, src,
		})

		addr++
	}

	_, err := io.WriteString(writer, listing.Render()+"\n")

	return err
}

func formatRange(first, last int) string {
	if first == last {
		return fmt.Sprintf("%#04x", first)
	}

	return fmt.Sprintf("%#04x-%#04x", first, last)
}

func sourceLine(addr uint8, source []string, symtable *assembler.SymTable) (string, string) {
	if symtable == nil {
		return "", ""
	}

	line, exists := symtable.Lines[addr]

	if !exists {
		return "", ""
	}

	if line < 1 || line > len(source) {
		return fmt.Sprint(line), ""
	}

	return fmt.Sprint(line), strings.TrimSpace(source[line-1])
}
