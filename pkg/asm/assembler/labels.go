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

	"github.com/nanoproc/nanoasm/pkg/util/source"
)

// LabelTable maps label names to the word addresses they were bound to
// during the first pass.  Once produced, the table is immutable.
type LabelTable map[string]uint

// LabelCollector is the first-pass worker.  It accumulates label bindings
// and redeclaration warnings whilst counting emitted words; it emits
// nothing itself.
type LabelCollector struct {
	srcfile *source.File
	// Labels declared since the last word was finalised, in declaration
	// order.
	pending []Token
	table   LabelTable
	// Redeclaration warnings accumulated across the pass.
	warnings []source.SyntaxError
	// Address of the next word to be emitted.
	counter uint
}

// NewLabelCollector constructs an empty collector for a given source file.
func NewLabelCollector(srcfile *source.File) *LabelCollector {
	return &LabelCollector{srcfile, nil, make(LabelTable), nil, 0}
}

// AddPendingLabel enqueues a label declaration awaiting the next word.
func (p *LabelCollector) AddPendingLabel(token Token) {
	p.pending = append(p.pending, token)
}

// FlushPendingLabels binds every pending label to the address of the word
// being completed.  Redeclaring a label overwrites its previous binding and
// records a warning; it is never a hard error.
func (p *LabelCollector) FlushPendingLabels() {
	for _, label := range p.pending {
		if _, ok := p.table[label.Name]; ok {
			msg := fmt.Sprintf("label '%s' redeclared", label.Name)
			p.warnings = append(p.warnings, *p.srcfile.SyntaxError(label.Span, msg))
		}
		// Latest declaration wins.
		p.table[label.Name] = p.counter
	}
	//
	p.pending = p.pending[:0]
	p.counter++
}

// Write is a no-op in label-collection mode.
func (p *LabelCollector) Write(Token) {}

// WriteDereferencedLabel is a no-op in label-collection mode.
func (p *LabelCollector) WriteDereferencedLabel(Token) {}

// Table returns the final label table.
func (p *LabelCollector) Table() LabelTable {
	return p.table
}

// Warnings returns the redeclaration warnings accumulated during the pass.
func (p *LabelCollector) Warnings() []source.SyntaxError {
	return p.warnings
}

// Words returns the total number of words the program will occupy.
func (p *LabelCollector) Words() uint {
	return p.counter
}
