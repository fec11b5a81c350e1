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

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/nanoproc/nanoasm/pkg/asm/assembler"
	wordio "github.com/nanoproc/nanoasm/pkg/asm/io"
)

var assembleCmd = &cobra.Command{
	Use:   "assemble [flags] source_file",
	Short: "translate a NanoProcessor assembly file into machine words.",
	Long: `Translate a given NanoProcessor assembly file into binary machine words.  By
default the words are dumped to stdout, one word of binary digits per line.
With --output, the initial memory content of an existing SRAM module file is
overwritten in place instead; --layout then describes the file's
memory-initialisation region.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		// Configure log level
		if GetFlag(cmd, "verbose") {
			log.SetLevel(log.DebugLevel)
		}
		//
		var (
			output   = GetString(cmd, "output")
			layout   = GetString(cmd, "layout")
			encoding = GetString(cmd, "encoding")
			srcfile  = readSourceFile(args[0], encoding)
			dest     wordio.Writer
		)
		//
		if output != "" {
			dest = openPatchDestination(output, layout)
		} else {
			dest = wordio.NewDumpWriter(os.Stdout, assembler.WordWidth)
		}
		// Assemble!
		warnings, errs, err := assembler.NewAssembler(srcfile).Assemble(dest)
		// Warnings are reported but never change the outcome.
		for i := range warnings {
			printSyntaxError(&warnings[i])
		}
		//
		if len(errs) > 0 {
			for i := range errs {
				printSyntaxError(&errs[i])
			}
			//
			os.Exit(1)
		} else if err != nil {
			fmt.Println(err)
			os.Exit(4)
		}
	},
}

// Construct the hex-patching destination, validating the layout description
// and the pre-existing structure of the output file.
func openPatchDestination(output string, layoutFile string) wordio.Writer {
	if layoutFile == "" {
		fmt.Println("patch mode requires --layout")
		os.Exit(2)
	}
	//
	layout, err := wordio.ReadLayoutFile(layoutFile)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	patcher, err := wordio.NewHexPatcher(output, layout, assembler.WordWidth)
	if err != nil {
		fmt.Println(err)
		os.Exit(3)
	}
	//
	return patcher
}

func init() {
	rootCmd.AddCommand(assembleCmd)
	assembleCmd.Flags().StringP("output", "o", "",
		"overwrite initial memory content in specified SRAM module file")
	assembleCmd.Flags().String("layout", "",
		"YAML description of the output file's memory-initialisation region")
	assembleCmd.Flags().StringP("encoding", "e", "",
		"specify encoding of the source file (IANA name); defaults to UTF-8")
}
