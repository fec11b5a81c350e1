// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package assembler

import (
	"strconv"
	"strings"

	"github.com/nanoproc/nanoasm/pkg/util/source"
)

// WordWidth is the width (in bits) of a NanoProcessor machine word, the
// indivisible memory cell of the target.
const WordWidth uint = 9

// OpcodeWidth is the width (in bits) of an instruction opcode field.
const OpcodeWidth uint = 3

// RegisterWidth is the width (in bits) of a register code field.
const RegisterWidth uint = 3

// MaxLiteral is the largest value representable in a single machine word.
const MaxLiteral uint = (1 << WordWidth) - 1

// TokenKind distinguishes the classified token variants.
type TokenKind uint8

// SEPARATOR is the newline token separating records.
const SEPARATOR TokenKind = 0

// LABEL_DECLARATION binds a symbolic name (written "name:") to the address of
// the next word emitted.
const LABEL_DECLARATION TokenKind = 1

// REGISTER_INSTRUCTION is an instruction taking two register operands.
const REGISTER_INSTRUCTION TokenKind = 2

// IMMEDIATE_INSTRUCTION is an instruction (mvi) whose value operand occupies
// a second machine word.
const IMMEDIATE_INSTRUCTION TokenKind = 3

// REGISTER is a register operand (R0..R6, PC).
const REGISTER TokenKind = 4

// LABEL_REFERENCE stands (written ":name") for the address a label was bound
// to.
const LABEL_REFERENCE TokenKind = 5

// LITERAL is an unsigned decimal or binary number fitting in one word.
const LITERAL TokenKind = 6

// Mapping of register-instruction mnemonics to their opcodes.
var registerInstructions = map[string]uint{
	"mv":   0,
	"add":  2,
	"sub":  3,
	"ld":   4,
	"st":   5,
	"mvnz": 6,
	"and":  7,
}

// Mapping of immediate-instruction mnemonics to their opcodes.
var immediateInstructions = map[string]uint{
	"mvi": 1,
}

// Mapping of register mnemonics to their codes.  PC is an alias for the
// eighth register.
var registers = map[string]uint{
	"R0": 0, "R1": 1, "R2": 2, "R3": 3, "R4": 4, "R5": 5, "R6": 6, "PC": 7,
}

// Token is a classified token.  Depending on its kind, it carries a numeric
// payload (opcode, register code or literal value), a name payload (labels),
// or neither (separators).
type Token struct {
	Kind TokenKind
	// Opcode, register code or literal value.
	Value uint
	// Label name, without its ':' sigil.
	Name string
	// Location of the token within the original source file.
	Span source.Span
}

// Width returns the number of bits this token occupies within the emitted
// machine code.
func (p *Token) Width() uint {
	switch p.Kind {
	case REGISTER_INSTRUCTION, IMMEDIATE_INSTRUCTION:
		return OpcodeWidth
	case REGISTER:
		return RegisterWidth
	case LITERAL, LABEL_REFERENCE:
		return WordWidth
	default:
		panic("token has no bit width")
	}
}

// Classify a raw text token as one of the typed variants, or report it
// unrecognized.  The variants are tried in a fixed order, although in
// practice they are mutually exclusive by first character or suffix.
func Classify(text string, span source.Span) (Token, bool) {
	switch {
	case strings.HasSuffix(text, ":"):
		return Token{LABEL_DECLARATION, 0, strings.TrimSuffix(text, ":"), span}, true
	case hasKey(registerInstructions, text):
		return Token{REGISTER_INSTRUCTION, registerInstructions[text], "", span}, true
	case hasKey(immediateInstructions, text):
		return Token{IMMEDIATE_INSTRUCTION, immediateInstructions[text], "", span}, true
	case hasKey(registers, text):
		return Token{REGISTER, registers[text], "", span}, true
	case strings.HasPrefix(text, ":"):
		return Token{LABEL_REFERENCE, 0, strings.TrimPrefix(text, ":"), span}, true
	}
	// Finally, attempt to parse a literal value.
	if value, ok := parseLiteral(text); ok {
		return Token{LITERAL, value, "", span}, true
	}
	//
	return Token{}, false
}

func hasKey(mapping map[string]uint, key string) bool {
	_, ok := mapping[key]
	return ok
}

// Parse an unsigned literal, either decimal or (with an "0b" prefix) binary.
// Underscore separators are permitted between digits and ignored.  Values
// exceeding the word width fail to parse.
func parseLiteral(text string) (uint, bool) {
	var base = 10
	//
	if rest, ok := strings.CutPrefix(text, "0b"); ok {
		text, base = rest, 2
	}
	// Discard separators.
	text = strings.ReplaceAll(text, "_", "")
	//
	if text == "" {
		return 0, false
	}
	//
	value, err := strconv.ParseUint(text, base, 64)
	//
	if err != nil || value > uint64(MaxLiteral) {
		return 0, false
	}
	//
	return uint(value), true
}
