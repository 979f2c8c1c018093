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
package auxtrace

import (
	"github.com/xxhh1112/miden-vm/pkg/trace"
	"github.com/xxhh1112/miden-vm/pkg/util/field/fext"
	"github.com/xxhh1112/miden-vm/pkg/util/field/koalabear"
)

// Challenges is an ordered vector of extension field elements, drawn by the
// protocol layer after the main trace has been committed.  Entries are opaque
// randomness; nothing is assumed about them beyond field membership.  Each
// builder receives its own disjoint sub-vector, preventing any cross-table
// confusion of randomness.
type Challenges []fext.Element

// Len returns the arity of this challenge vector.
func (p Challenges) Len() uint {
	return uint(len(p))
}

// Builder turns the committed main trace, one virtual table's hint log and a
// challenge sub-vector into that table's auxiliary columns.  Implementations
// are pure, deterministic functions of their three inputs; one implementation
// exists per virtual table, selected statically from the protocol's fixed
// table list.
type Builder interface {
	// Name of the virtual table this builder handles.
	Name() string
	// ColumnNames gives the names of the columns produced by Build, in
	// protocol-fixed order.  Verifier-side constraint indices rely on this
	// order never changing.
	ColumnNames() []string
	// NumChallenges gives the arity of the challenge sub-vector this builder
	// consumes.
	NumChallenges() uint
	// Build constructs the auxiliary columns.  Every returned column has
	// exactly the height of the main trace, with row 0 holding the
	// multiplicative identity.  Errors are one of MalformedHintLogError,
	// DegenerateChallengeError or trace.DimensionMismatchError.
	Build(main *trace.Matrix[koalabear.Element], hints *Log, challenges Challenges) ([][]fext.Element, error)
}
