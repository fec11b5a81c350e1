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
	"fmt"

	wordio "github.com/nanoproc/nanoasm/pkg/asm/io"
	"github.com/nanoproc/nanoasm/pkg/util/bit"
	"github.com/nanoproc/nanoasm/pkg/util/source"
)

// Translator is the second-pass worker.  It encodes instruction and operand
// tokens into fixed-width bit fields, packs them into machine words and
// forwards completed words to a downstream writer.  Labels were already
// resolved during the first pass, hence label events are no-ops here; this
// pass merely rescans the identical token stream so the same grammar
// transitions occur.
type Translator struct {
	srcfile *source.File
	// Immutable table produced by the first pass.
	labels LabelTable
	buffer *bit.Buffer
	out    wordio.Writer
	// References to labels missing from the table.
	errors []source.SyntaxError
	// First downstream write failure, if any.
	err error
}

// NewTranslator constructs a translator emitting words of the standard width
// to a given writer.
func NewTranslator(srcfile *source.File, labels LabelTable, out wordio.Writer) *Translator {
	return &Translator{srcfile, labels, bit.NewBuffer(WordWidth), out, nil, nil}
}

// AddPendingLabel is a no-op in translation mode.
func (p *Translator) AddPendingLabel(Token) {}

// FlushPendingLabels is a no-op in translation mode.
func (p *Translator) FlushPendingLabels() {}

// Write emits the token's value at its designated bit width.
func (p *Translator) Write(token Token) {
	p.emit(token.Value, token.Width())
}

// WriteDereferencedLabel looks the referenced label up and emits its address
// as a full word.  A reference to an undeclared label records an error and
// emits nothing.
func (p *Translator) WriteDereferencedLabel(token Token) {
	address, ok := p.labels[token.Name]
	//
	if !ok {
		msg := fmt.Sprintf("undeclared label '%s'", token.Name)
		p.errors = append(p.errors, *p.srcfile.SyntaxError(token.Span, msg))
		//
		return
	}
	//
	p.emit(address, WordWidth)
}

// Errors returns any undeclared-label errors accumulated during the pass.
func (p *Translator) Errors() []source.SyntaxError {
	return p.errors
}

// Err returns the first downstream write failure, if any.
func (p *Translator) Err() error {
	return p.err
}

func (p *Translator) emit(value uint, nbits uint) {
	for _, word := range p.buffer.Append(value, nbits) {
		if err := p.out.WriteWord(word); err != nil && p.err == nil {
			p.err = err
		}
	}
}
