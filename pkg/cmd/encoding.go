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
package cmd

import (
	"fmt"
	"os"

	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"

	"github.com/nanoproc/nanoasm/pkg/util/source"
)

// Read a source file, decoding it from a given character encoding where one
// is named.  Encodings are looked up by their IANA name; an empty name means
// the file is already UTF-8.
func readSourceFile(filename string, encoding string) *source.File {
	bytes, err := os.ReadFile(filename)
	//
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	if encoding != "" {
		enc, err := ianaindex.IANA.Encoding(encoding)
		//
		if err != nil || enc == nil {
			fmt.Printf("source encoding '%s' is not supported\n", encoding)
			os.Exit(2)
		}
		//
		if bytes, _, err = transform.Bytes(enc.NewDecoder(), bytes); err != nil {
			fmt.Printf("decoding %s as '%s': %s\n", filename, encoding, err)
			os.Exit(2)
		}
	}
	//
	return source.NewSourceFile(filename, bytes)
}
