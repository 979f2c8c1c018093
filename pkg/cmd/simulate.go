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
	"math/rand"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/xxhh1112/miden-vm/pkg/trace/auxtrace"
	"github.com/xxhh1112/miden-vm/pkg/util/field/fext"
	"github.com/xxhh1112/miden-vm/pkg/util/field/koalabear"
	"github.com/xxhh1112/miden-vm/pkg/vm"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate [flags]",
	Short: "run a random stack workload and build its auxiliary trace.",
	Long: `Run a seeded random push/pop workload through the operand stack, record the
	 overflow table hints, and build the auxiliary trace columns from locally
	 drawn (non Fiat-Shamir) challenges.  Intended for inspecting and debugging
	 the construction, not for producing proofs.`,
	Run: func(cmd *cobra.Command, args []string) {
		// Configure log level
		if GetFlag(cmd, "verbose") {
			log.SetLevel(log.DebugLevel)
		}
		//
		var (
			ops  = GetUint(cmd, "ops")
			seed = GetUint64(cmd, "seed")
			rng  = rand.New(rand.NewSource(int64(seed)))
		)
		// Execute the workload, biased towards pushing so the visible window
		// actually overflows.
		stack := vm.NewOverflowStack()
		//
		for i := uint(0); i < ops; i++ {
			if stack.Depth() > 0 && rng.Intn(3) == 0 {
				stack.Pop()
			} else {
				stack.Push(koalabear.New(rng.Uint64() % 1_000_000))
			}
		}
		// Drain the stack so the overflow table empties and the terminal
		// value lands back on the identity.
		for stack.Depth() > 0 {
			stack.Pop()
		}
		//
		mainTrace, err := stack.Trace()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		//
		log.Debugf("executed %d cycles (%d overflow events)", stack.Clk(), stack.Hints().Len())
		// Build the auxiliary trace.  Challenges are drawn from the seeded
		// generator; in the protocol proper they come from the Fiat-Shamir
		// transcript after the main trace commitment.
		schedule := auxtrace.NewSchedule(auxtrace.OverflowBuilder{})
		challenges := make(auxtrace.Challenges, schedule.NumChallenges())
		//
		for i := range challenges {
			challenges[i] = fext.New(rng.Uint64(), rng.Uint64(), rng.Uint64(), rng.Uint64())
		}
		//
		auxTrace, err := schedule.Build(mainTrace, []*auxtrace.Log{stack.Hints()}, challenges)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		//
		if GetFlag(cmd, "print") {
			printMatrix(auxTrace.Matrix())
		}
		//
		for i, t := range auxTrace.Terminals() {
			fmt.Printf("%s terminal: %s\n", schedule.ColumnNames()[i], t.String())
		}
	},
}

func init() {
	rootCmd.AddCommand(simulateCmd)
	simulateCmd.Flags().Uint("ops", 64, "number of stack operations to execute")
	simulateCmd.Flags().Uint64("seed", 0, "seed for the workload and challenge generator")
	simulateCmd.Flags().Bool("print", false, "print the full auxiliary matrix")
}
