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
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/xxhh1112/miden-vm/pkg/trace"
	"github.com/xxhh1112/miden-vm/pkg/util/field"
)

// GetFlag gets an expected flag, or panic if an error arises.
func GetFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetUint gets an expected uint, or panic if an error arises.
func GetUint(cmd *cobra.Command, flag string) uint {
	r, err := cmd.Flags().GetUint(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetUint64 gets an expected uint64, or panic if an error arises.
func GetUint64(cmd *cobra.Command, flag string) uint64 {
	r, err := cmd.Flags().GetUint64(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// printMatrix writes a matrix row by row to stdout, clipping each line to the
// terminal width when stdout is a terminal.
func printMatrix[F field.Element[F]](matrix *trace.Matrix[F]) {
	width := terminalWidth()
	//
	var names []string
	//
	for i := uint(0); i < matrix.Width(); i++ {
		names = append(names, matrix.Column(i).Name())
	}
	//
	printClipped(strings.Join(names, "\t"), width)
	//
	for r := uint(0); r < matrix.Height(); r++ {
		var cells []string
		//
		for _, v := range matrix.Row(r) {
			cells = append(cells, v.String())
		}
		//
		printClipped(strings.Join(cells, "\t"), width)
	}
}

func printClipped(line string, width int) {
	if width > 3 && len(line) > width {
		line = line[:width-3] + "..."
	}
	//
	fmt.Println(line)
}

func terminalWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		return w
	}
	// Not a terminal
	return 0
}
