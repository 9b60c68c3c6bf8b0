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

package assembler

import (
	"bufio"
	"errors"
	"io"
	"strings"
	"unicode"

	"github.com/lassandro/gotc/pkg/encoding"
	"github.com/lassandro/gotc/pkg/image"
)

// Longest accepted source line in bytes
const maxLineSize = 1 << 24

func parseOpcode(ident string) Opcode {
	switch ident {
	case "and":
		return OPCODE_AND
	case "add":
		return OPCODE_ADD
	case "sto":
		return OPCODE_STO
	case "bun":
		return OPCODE_BUN
	case "bsb":
		return OPCODE_BSB
	case "load":
		return OPCODE_LOAD
	case "isz":
		return OPCODE_ISZ
	case "jz":
		return OPCODE_JZ
	case "push":
		return OPCODE_PUSH
	case "pop":
		return OPCODE_POP
	case "halt":
		return OPCODE_HALT
	case "neg":
		return OPCODE_NEG
	case "mul":
		return OPCODE_MUL
	case "div":
		return OPCODE_DIV
	case "rem":
		return OPCODE_REM
	case "jn":
		return OPCODE_JN
	}

	return OPCODE_INVALID
}

// Word returns the opcode's base word, with an empty address field.
func (op Opcode) Word() uint64 {
	switch op {
	case OPCODE_AND:
		return 0x000000
	case OPCODE_ADD:
		return 0x100000
	case OPCODE_STO:
		return 0x200000
	case OPCODE_BUN:
		return 0x300000
	case OPCODE_BSB:
		return 0x400000
	case OPCODE_LOAD:
		return 0x500000
	case OPCODE_ISZ:
		return 0x600000
	case OPCODE_JZ:
		return 0x700000
	case OPCODE_PUSH:
		return 0x800000
	case OPCODE_POP:
		return 0x900000
	case OPCODE_HALT:
		return 0xA00000
	case OPCODE_NEG:
		return 0xB00000
	case OPCODE_MUL:
		return 0xC00000
	case OPCODE_DIV:
		return 0xD00000
	case OPCODE_REM:
		return 0xE00000
	case OPCODE_JN:
		return 0xF00000
	}

	panic("assembler: no word for invalid opcode")
}

func (op Opcode) String() string {
	switch op {
	case OPCODE_AND:
		return "and"
	case OPCODE_ADD:
		return "add"
	case OPCODE_STO:
		return "sto"
	case OPCODE_BUN:
		return "bun"
	case OPCODE_BSB:
		return "bsb"
	case OPCODE_LOAD:
		return "load"
	case OPCODE_ISZ:
		return "isz"
	case OPCODE_JZ:
		return "jz"
	case OPCODE_PUSH:
		return "push"
	case OPCODE_POP:
		return "pop"
	case OPCODE_HALT:
		return "halt"
	case OPCODE_NEG:
		return "neg"
	case OPCODE_MUL:
		return "mul"
	case OPCODE_DIV:
		return "div"
	case OPCODE_REM:
		return "rem"
	case OPCODE_JN:
		return "jn"
	}

	return "<invalid>"
}

// Splits line on whitespace. Token values are lowercased, positions refer
// to the raw line.
func tokenize(line string, cursor Cursor) []Token {
	var tokens = make([]Token, 0, 3)
	var start = -1

	flush := func(end int) {
		tokens = append(tokens, Token{
			Type: TOKEN_NONE,
			Position: Cursor{
				Line:     cursor.Line,
				Column:   start + 1,
				Byte:     cursor.LineByte + int64(start),
				Size:     int64(end - start),
				LineByte: cursor.LineByte,
			},
			Value: strings.ToLower(line[start:end]),
		})

		start = -1
	}

	for column, char := range line {
		if unicode.IsSpace(char) {
			if start != -1 {
				flush(column)
			}
		} else if start == -1 {
			start = column
		}
	}

	if start != -1 {
		flush(len(line))
	}

	return tokens
}

func parseLine(tokens []Token) Instruction {
	inst := Instruction{
		Type:     INSTRUCTION_MALFORMED,
		Opcode:   OPCODE_INVALID,
		Keyword:  tokens[0],
		Operands: tokens[1:],
	}

	switch len(tokens) {
	case 1:
		inst.Type = INSTRUCTION_BARE
	case 2:
		inst.Type = INSTRUCTION_ADDRESSED
	case 3:
		if inst.Keyword.Value == DIRECTIVE_VAR {
			inst.Type = INSTRUCTION_VAR
			inst.Keyword.Type = TOKEN_DIRECTIVE
		}
	}

	if inst.Type == INSTRUCTION_BARE || inst.Type == INSTRUCTION_ADDRESSED {
		inst.Keyword.Type = TOKEN_MNEMONIC
		inst.Opcode = parseOpcode(inst.Keyword.Value)
	}

	for i := range inst.Operands {
		inst.Operands[i].Type = TOKEN_LITERAL
	}

	return inst
}

func parseOperand(token *Token) (int64, error) {
	value, err := encoding.DecodeInt(token.Value)

	if err != nil {
		return 0, &MalformedOperandError{
			token.Position, OPERAND_DECIMAL, token.Value,
		}
	}

	return value, nil
}

func encodeInstruction(inst *Instruction, opts Options) (uint64, error) {
	if inst.Opcode == OPCODE_INVALID {
		return 0, &UnknownMnemonicError{
			inst.Keyword.Position, inst.Keyword.Value,
		}
	}

	word := inst.Opcode.Word()

	if inst.Type == INSTRUCTION_BARE {
		return word, nil
	}

	addr, err := parseOperand(&inst.Operands[0])

	if err != nil {
		return 0, err
	}

	if opts.MaskAddress {
		return word | (uint64(addr) & ADDRESS_MASK), nil
	}

	// Unmasked: an address of 1<<ADDRESS_BITS or more carries into the
	// opcode field, a negative one borrows from it
	if addr >= 0 {
		return word + uint64(addr), nil
	}

	// -(addr+1) cannot overflow, unlike -addr
	if borrow := uint64(-(addr + 1)); borrow < word {
		return word - borrow - 1, nil
	}

	return 0, &MalformedOperandError{
		inst.Operands[0].Position, OPERAND_WORD, inst.Operands[0].Value,
	}
}

// Returns the address written by the line, or -1 if nothing was written.
func assembleLine(result *image.Image, tokens []Token, opts Options) (int, error) {
	inst := parseLine(tokens)

	switch inst.Type {
	// MNEMONIC [ADDRESS]
	case INSTRUCTION_BARE, INSTRUCTION_ADDRESSED:
		word, err := encodeInstruction(&inst, opts)

		if err != nil {
			return -1, err
		}

		addr, err := result.Place(word)

		if err != nil {
			return -1, &ProgramOverflowError{
				inst.Keyword.Position, image.IMAGE_SIZE,
			}
		}

		return addr, nil

	// VAR ADDRESS VALUE
	case INSTRUCTION_VAR:
		addr, err := parseOperand(&inst.Operands[0])

		if err != nil {
			return -1, err
		}

		value, err := parseOperand(&inst.Operands[1])

		if err != nil {
			return -1, err
		}

		if value < 0 {
			return -1, &MalformedOperandError{
				inst.Operands[1].Position, OPERAND_UNSIGNED, inst.Operands[1].Value,
			}
		}

		if err := result.Store(addr, uint64(value)); err != nil {
			return -1, &AddressOutOfRangeError{
				inst.Operands[0].Position, image.IMAGE_SIZE, addr,
			}
		}

		return int(addr), nil

	case INSTRUCTION_MALFORMED:
		if opts.Strict {
			return -1, &MalformedLineError{
				inst.Keyword.Position, len(tokens),
			}
		}
	}

	return -1, nil
}

// AssembleTinySource assembles a whole program into a memory image. The
// first error aborts assembly and no image is returned. When symtable is
// non-nil it receives the source location of every written cell.
func AssembleTinySource(input io.Reader, opts Options, symtable *SymTable) (*image.Image, error) {
	var result image.Image
	var scanner = bufio.NewScanner(input)
	var cursor = Cursor{Line: 1}

	// Bytes consumed by the last line, including its terminator
	var consumed int

	scanner.Buffer(nil, maxLineSize)
	scanner.Split(func(data []byte, atEOF bool) (int, []byte, error) {
		advance, token, err := bufio.ScanLines(data, atEOF)

		if token != nil {
			consumed = advance
		}

		return advance, token, err
	})

	if symtable != nil {
		if symtable.Symbols == nil {
			symtable.Symbols = make(map[uint8]int64)
		}

		if symtable.Lines == nil {
			symtable.Lines = make(map[uint8]int)
		}
	}

	for scanner.Scan() {
		line := scanner.Text()

		cursor.Byte = cursor.LineByte
		cursor.Size = int64(len(line))

		if tokens := tokenize(line, cursor); len(tokens) > 0 {
			addr, err := assembleLine(&result, tokens, opts)

			if err != nil {
				return nil, err
			}

			if symtable != nil && addr != -1 {
				symtable.Symbols[uint8(addr)] = cursor.LineByte
				symtable.Lines[uint8(addr)] = cursor.Line
			}
		}

		cursor.Line++
		cursor.LineByte += int64(consumed)
	}

	if err := scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			cursor.Column = 1
			cursor.Byte = cursor.LineByte
			cursor.Size = 1

			return nil, &OversizedLineError{cursor, maxLineSize}
		}

		return nil, err
	}

	return &result, nil
}

func Compile(source string, opts Options) (*image.Image, error) {
	return AssembleTinySource(strings.NewReader(source), opts, nil)
}
