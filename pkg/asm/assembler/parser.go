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

// Worker receives the semantic events produced whilst the parser drives the
// grammar over the token stream.  All side effects of a parse are mediated
// through this interface, allowing the same traversal to collect labels on
// one pass and emit machine words on another.
type Worker interface {
	// AddPendingLabel enqueues a label declaration awaiting the next word.
	AddPendingLabel(token Token)
	// FlushPendingLabels binds all pending labels to the address of the word
	// now being completed.  Called exactly once per emitted word.
	FlushPendingLabels()
	// Write accepts an opcode, register or literal token for emission.
	Write(token Token)
	// WriteDereferencedLabel accepts a label reference whose address is to be
	// emitted in place of the label.
	WriteDereferencedLabel(token Token)
}

// Parser states.  The two instruction states track which operand slot they
// are on via a separate counter.
type parserState uint8

const (
	// stateInitial is both the entry and the terminal state.
	stateInitial parserState = iota
	// stateRegisterInsn expects register, register, newline.
	stateRegisterInsn
	// stateImmediateInsn expects register, newline, then a numeric value on a
	// later record.
	stateImmediateInsn
	// stateNumericValue expects the newline terminating a value record.
	stateNumericValue
)

// Parser drives the assembly grammar over a lazily lexed token stream.  A
// single parser may run many times over the same source; each run rewinds
// the lexer to the start and traverses the entire input with the worker
// supplied for that run.
type Parser struct {
	srcfile *source.File
	lexer   *lex.Lexer[rune]
	worker  Worker
	state   parserState
	// Operand slot within the current instruction state.
	operand uint
}

// NewParser constructs a new parser for a given source file.
func NewParser(srcfile *source.File) *Parser {
	return &Parser{srcfile, NewLexer(srcfile), nil, stateInitial, 0}
}

// Run traverses the entire source with a given worker attached, returning
// any syntax errors arising.  The traversal halts at the first error.
func (p *Parser) Run(worker Worker) []source.SyntaxError {
	// Seek back to the start of the character source.
	p.lexer.Reset()
	p.worker = worker
	p.state, p.operand = stateInitial, 0
	//
	for p.lexer.HasNext() {
		raw := p.lexer.Next()
		//
		switch raw.Kind {
		case WHITESPACE, COMMENT:
			continue
		case END_OF:
			// End-of-input completes any construct in progress.
			return nil
		}
		// Classify raw token
		token, ok := p.classify(raw)
		//
		if !ok {
			return p.syntaxErrors(raw.Span, "unrecognized token")
		}
		//
		if errs := p.transition(token); len(errs) > 0 {
			return errs
		}
	}
	//
	return nil
}

// Classify a raw token into one of the typed variants.
func (p *Parser) classify(raw lex.Token) (Token, bool) {
	if raw.Kind == NEWLINE {
		return Token{SEPARATOR, 0, "", raw.Span}, true
	}
	//
	return Classify(p.text(raw.Span), raw.Span)
}

// Apply a single classified token to the grammar, invoking the worker at
// each semantically meaningful point.
func (p *Parser) transition(token Token) []source.SyntaxError {
	switch p.state {
	case stateInitial:
		return p.transitionInitial(token)
	case stateRegisterInsn:
		return p.transitionRegisterInsn(token)
	case stateImmediateInsn:
		return p.transitionImmediateInsn(token)
	default:
		// Numeric value awaiting its terminator.
		if token.Kind != SEPARATOR {
			return p.syntaxErrors(token.Span, "unexpected token")
		}
		//
		p.state = stateInitial
		//
		return nil
	}
}

func (p *Parser) transitionInitial(token Token) []source.SyntaxError {
	switch token.Kind {
	case SEPARATOR:
		// blank record
	case LABEL_DECLARATION:
		p.worker.AddPendingLabel(token)
	case REGISTER_INSTRUCTION:
		p.worker.Write(token)
		p.state, p.operand = stateRegisterInsn, 0
	case IMMEDIATE_INSTRUCTION:
		p.worker.Write(token)
		p.state, p.operand = stateImmediateInsn, 0
	case LITERAL:
		p.worker.FlushPendingLabels()
		p.worker.Write(token)
		p.state = stateNumericValue
	case LABEL_REFERENCE:
		p.worker.FlushPendingLabels()
		p.worker.WriteDereferencedLabel(token)
		p.state = stateNumericValue
	default:
		return p.syntaxErrors(token.Span, "unexpected token")
	}
	//
	return nil
}

func (p *Parser) transitionRegisterInsn(token Token) []source.SyntaxError {
	switch {
	case p.operand == 0 && token.Kind == REGISTER:
		p.worker.Write(token)
		p.operand = 1
	case p.operand == 1 && token.Kind == REGISTER:
		// Second operand completes the word, binding pending labels.
		p.worker.FlushPendingLabels()
		p.worker.Write(token)
		p.operand = 2
	case p.operand == 2 && token.Kind == SEPARATOR:
		p.state = stateInitial
	default:
		return p.syntaxErrors(token.Span, "unexpected token")
	}
	//
	return nil
}

func (p *Parser) transitionImmediateInsn(token Token) []source.SyntaxError {
	switch {
	case p.operand == 0 && token.Kind == REGISTER:
		p.worker.FlushPendingLabels()
		p.worker.Write(token)
		// The hardware ignores the second register slot for this opcode.
		p.worker.Write(Token{REGISTER, 0, "", token.Span})
		p.operand = 1
	case p.operand == 1 && token.Kind == SEPARATOR:
		p.operand = 2
	case p.operand == 2:
		// The value may appear on any later record, with blank lines and
		// label declarations permitted in between.
		switch token.Kind {
		case SEPARATOR:
			// stay
		case LABEL_DECLARATION:
			p.worker.AddPendingLabel(token)
		case LITERAL:
			p.worker.FlushPendingLabels()
			p.worker.Write(token)
			p.state = stateNumericValue
		case LABEL_REFERENCE:
			p.worker.FlushPendingLabels()
			p.worker.WriteDereferencedLabel(token)
			p.state = stateNumericValue
		default:
			return p.syntaxErrors(token.Span, "unexpected token")
		}
	default:
		return p.syntaxErrors(token.Span, "unexpected token")
	}
	//
	return nil
}

// Get the text representing the given span as a string.
func (p *Parser) text(span source.Span) string {
	return string(p.srcfile.Contents()[span.Start():span.End()])
}

func (p *Parser) syntaxErrors(span source.Span, msg string) []source.SyntaxError {
	return []source.SyntaxError{*p.srcfile.SyntaxError(span, msg)}
}
