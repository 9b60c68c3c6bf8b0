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
	"fmt"
)

type TokenType uint
type InstructionType uint
type Opcode uint

type Cursor struct {
	Line     int
	Column   int
	Byte     int64
	Size     int64
	LineByte int64
}

type Token struct {
	Type     TokenType
	Position Cursor
	Value    string
}

type Instruction struct {
	Type     InstructionType
	Opcode   Opcode
	Keyword  Token
	Operands []Token
}

type Options struct {
	// Reject lines that are neither instructions nor var directives instead
	// of skipping them
	Strict bool

	// Compose words as opcode | (addr & ADDRESS_MASK) instead of
	// opcode + addr
	MaskAddress bool
}

type SymTable struct {
	Source  string
	Symbols map[uint8]int64
	Lines   map[uint8]int
}

type TokenError interface {
	GetPosition() Cursor
}

type UnknownMnemonicError struct {
	Position Cursor
	Received string
}

func (err *UnknownMnemonicError) GetPosition() Cursor {
	return err.Position
}

func (err *UnknownMnemonicError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Unknown mnemonic '%s'",
		err.Position.Line,
		err.Position.Column,
		err.Received,
	)
}

type MalformedOperandError struct {
	Position Cursor
	Required string
	Received string
}

func (err *MalformedOperandError) GetPosition() Cursor {
	return err.Position
}

func (err *MalformedOperandError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Malformed operand\n\twant:%s\n\thave:%s",
		err.Position.Line,
		err.Position.Column,
		err.Required,
		err.Received,
	)
}

type ProgramOverflowError struct {
	Position Cursor
	Required int
}

func (err *ProgramOverflowError) GetPosition() Cursor {
	return err.Position
}

func (err *ProgramOverflowError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Program exceeds image size\n\twant:%d\n\thave:%d",
		err.Position.Line,
		err.Position.Column,
		err.Required,
		err.Required+1,
	)
}

type OversizedLineError struct {
	Position Cursor
	Required int
}

func (err *OversizedLineError) GetPosition() Cursor {
	return err.Position
}

func (err *OversizedLineError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Line exceeds allowed length of %d bytes",
		err.Position.Line,
		err.Position.Column,
		err.Required,
	)
}

type AddressOutOfRangeError struct {
	Position Cursor
	Required int
	Received int64
}

func (err *AddressOutOfRangeError) GetPosition() Cursor {
	return err.Position
}

func (err *AddressOutOfRangeError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Address out of range\n\twant:0-%d\n\thave:%d",
		err.Position.Line,
		err.Position.Column,
		err.Required-1,
		err.Received,
	)
}

type MalformedLineError struct {
	Position Cursor
	Received int
}

func (err *MalformedLineError) GetPosition() Cursor {
	return err.Position
}

func (err *MalformedLineError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Malformed line\n\twant:mnemonic [address] or var address value\n\thave:%d tokens",
		err.Position.Line,
		err.Position.Column,
		err.Received,
	)
}
