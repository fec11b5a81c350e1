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

	log "github.com/sirupsen/logrus"

	wordio "github.com/nanoproc/nanoasm/pkg/asm/io"
	"github.com/nanoproc/nanoasm/pkg/util/source"
)

// Assembler sequences the validation and emission passes over a single
// source file.  Each pass rescans the same character source from the start
// with a different worker attached; no output-affecting write happens until
// every validation pass has succeeded, so the destination is either left
// untouched or fully rewritten.
type Assembler struct {
	srcfile *source.File
	parser  *Parser
}

// NewAssembler constructs an assembler for a given source file.
func NewAssembler(srcfile *source.File) *Assembler {
	return &Assembler{srcfile, NewParser(srcfile)}
}

// Assemble translates the source into machine words written to a given
// destination.  It returns any redeclaration warnings (which never fail the
// assembly), any fatal syntax or label errors, and any destination error
// (capacity exceeded, or a downstream write failure).
func (p *Assembler) Assemble(dest wordio.Writer) ([]source.SyntaxError, []source.SyntaxError, error) {
	// Pass 1: collect labels, surfacing grammar violations.
	collector := NewLabelCollector(p.srcfile)
	//
	if errs := p.parser.Run(collector); len(errs) > 0 {
		return nil, errs, nil
	}
	//
	var (
		warnings = collector.Warnings()
		labels   = collector.Table()
	)
	//
	log.Debugf("pass 1: %d words, %d labels, %d warnings",
		collector.Words(), len(labels), len(warnings))
	// Pass 2: dry run resolving every label reference.
	translator := NewTranslator(p.srcfile, labels, wordio.Discard())
	p.parser.Run(translator)
	//
	if errs := translator.Errors(); len(errs) > 0 {
		return warnings, errs, nil
	}
	// Pass 3: size check, for destinations of fixed capacity.
	if bounded, ok := dest.(wordio.BoundedWriter); ok {
		counter := wordio.NewWordCounter()
		p.parser.Run(NewTranslator(p.srcfile, labels, counter))
		//
		log.Debugf("pass 3: %d words against capacity %d", counter.Words(), bounded.Capacity())
		//
		if counter.Words() > bounded.Capacity() {
			return warnings, nil, fmt.Errorf("%w: program requires %d words but destination holds %d",
				wordio.ErrCapacityExceeded, counter.Words(), bounded.Capacity())
		}
	}
	// Final pass: emit for real.
	translator = NewTranslator(p.srcfile, labels, dest)
	p.parser.Run(translator)
	//
	if err := translator.Err(); err != nil {
		return warnings, nil, err
	}
	//
	return warnings, nil, dest.Flush()
}
