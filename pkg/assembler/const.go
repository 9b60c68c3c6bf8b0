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

const (
	TOKEN_NONE TokenType = iota
	TOKEN_MNEMONIC
	TOKEN_DIRECTIVE
	TOKEN_LITERAL
)

const (
	INSTRUCTION_NONE InstructionType = iota
	INSTRUCTION_BARE
	INSTRUCTION_ADDRESSED
	INSTRUCTION_VAR
	INSTRUCTION_MALFORMED
)

const (
	// Opcode n occupies bits 20-23 of the word as the value n
	OPCODE_AND Opcode = iota
	OPCODE_ADD
	OPCODE_STO
	OPCODE_BUN
	OPCODE_BSB
	OPCODE_LOAD
	OPCODE_ISZ
	OPCODE_JZ
	OPCODE_PUSH
	OPCODE_POP
	OPCODE_HALT
	OPCODE_NEG
	OPCODE_MUL
	OPCODE_DIV
	OPCODE_REM
	OPCODE_JN

	OPCODE_INVALID
)

const (
	ADDRESS_BITS        = 20
	ADDRESS_MASK uint64 = (1 << ADDRESS_BITS) - 1
)

const DIRECTIVE_VAR = "var"

const (
	OPERAND_DECIMAL  = "decimal integer"
	OPERAND_UNSIGNED = "non-negative decimal integer"
	OPERAND_WORD     = "address keeping the word non-negative"
)
