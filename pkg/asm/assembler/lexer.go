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
	"github.com/nanoproc/nanoasm/pkg/util/source"
	"github.com/nanoproc/nanoasm/pkg/util/source/lex"
)

// END_OF signals "end of file"
const END_OF uint = 0

// WHITESPACE signals one or more spaces
const WHITESPACE uint = 1

// COMMENT signals "; ... \n"
const COMMENT uint = 2

// NEWLINE signals a single line terminator ("\n", "\r\n" or "\r")
const NEWLINE uint = 3

// TEXT signals a run of characters which is neither whitespace, newline nor
// comment.  Text tokens are classified further downstream.
const TEXT uint = 4

// Comments start with ';' and run to (but not including) the next line
// terminator.  A comment at the very end of the input has no terminator.
var comment lex.Scanner[rune] = lex.SequenceNullableLast(
	lex.Unit(';'),
	lex.Many(lex.Not('\r', '\n')),
)

// A line terminator is "\r\n", a lone "\r" or a lone "\n".  Each terminator
// yields its own newline token, hence blank lines are preserved.  An
// unterminated trailing "\r" still matches.
var newline lex.Scanner[rune] = lex.Or(
	lex.Unit('\r', '\n'),
	lex.Unit('\r'),
	lex.Unit('\n'),
)

// Only the common U+0020 space separates tokens; anything else (tabs
// included) is text.
var whitespace lex.Scanner[rune] = lex.Many(lex.Unit(' '))

// Rule for describing text tokens
var text lex.Scanner[rune] = lex.Many(lex.Not(' ', '\r', '\n', ';'))

// lexing rules
var rules []lex.LexRule[rune] = []lex.LexRule[rune]{
	lex.Rule(comment, COMMENT),
	lex.Rule(newline, NEWLINE),
	lex.Rule(whitespace, WHITESPACE),
	lex.Rule(text, TEXT),
	lex.Rule(lex.Eof[rune](), END_OF),
}

// NewLexer constructs a lexer for a given source file.  Every character of
// the input matches some rule, hence lexing itself never fails.
func NewLexer(srcfile *source.File) *lex.Lexer[rune] {
	return lex.NewLexer(srcfile.Contents(), rules...)
}

// Lex a given source file into a sequence of zero or more tokens, with
// whitespace and comments removed.  This is a convenience for testing; the
// parser pulls tokens lazily instead.
func Lex(srcfile *source.File) []lex.Token {
	var (
		lexer  = NewLexer(srcfile)
		tokens []lex.Token
	)
	//
	for lexer.HasNext() {
		token := lexer.Next()
		//
		if token.Kind != WHITESPACE && token.Kind != COMMENT {
			tokens = append(tokens, token)
		}
	}
	//
	return tokens
}
