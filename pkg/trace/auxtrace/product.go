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
	"github.com/xxhh1112/miden-vm/pkg/util/field"
	"github.com/xxhh1112/miden-vm/pkg/util/field/fext"
)

// compressor maps a payload tuple to a single extension field element via the
// fixed affine combination
//
//	ch[0] + ch[1]·payload[0] + ... + ch[n]·payload[n-1]
//
// Over random challenges this map is injective on the payload space with
// overwhelming probability (Schwartz-Zippel), which is what makes the running
// product a sound multiset argument.
type compressor struct {
	// Table being compressed, for error attribution.
	table string
	// Challenge sub-vector, of length arity+1.
	challenges Challenges
}

// newCompressor constructs a compressor for payloads of a given arity,
// checking that the challenge sub-vector has the matching length.
func newCompressor(table string, arity uint, challenges Challenges) (compressor, error) {
	if challenges.Len() != arity+1 {
		return compressor{}, &trace.DimensionMismatchError{
			Detail: errorf("table %s requires %d challenges, given %d", table, arity+1, challenges.Len()),
		}
	}
	//
	return compressor{table, challenges}, nil
}

// combine compresses the payload of a given hint.  A zero result is reported
// as a degenerate challenge, never returned.
func (p compressor) combine(hint Hint) (fext.Element, error) {
	acc := p.challenges[0]
	//
	for i, v := range hint.Payload {
		acc = acc.Add(p.challenges[i+1].MulBase(v))
	}
	// A vanishing combination would silently absorb the running product.
	if acc.IsZero() {
		return acc, &DegenerateChallengeError{p.table, hint.Cycle}
	}
	//
	return acc, nil
}

// runningProduct computes a length-height column satisfying
//
//	col[0]     = 1
//	col[r]     = col[r-1] * factor(r)
//
// where factor(r) is the compressed payload of each insertion at cycle r, the
// inverse of the compressed payload of each removal at cycle r, and 1 for
// cycles with no hints.  The hint log must already have passed validation.
// All removal factors are inverted together using a single batch inversion.
func runningProduct(height uint, hints []Hint, comp compressor) ([]fext.Element, error) {
	var (
		factors  = make([]fext.Element, len(hints))
		removals = make([]fext.Element, 0, len(hints))
	)
	// Compress every payload, collecting removal factors for batch inversion.
	for i, h := range hints {
		f, err := comp.combine(h)
		//
		if err != nil {
			return nil, err
		}
		//
		if h.Kind == Remove {
			removals = append(removals, f)
		}
		//
		factors[i] = f
	}
	//
	field.BatchInvert(removals)
	// Replay factors against the clock, one forward pass.
	var (
		column  = make([]fext.Element, height)
		one     = field.One[fext.Element]()
		index   = 0
		removed = 0
	)
	//
	column[0] = one
	//
	for r := uint(1); r < height; r++ {
		value := column[r-1]
		// Fold in every hint landing on this row.
		for index < len(hints) && hints[index].Cycle == r {
			if hints[index].Kind == Remove {
				value = value.Mul(removals[removed])
				removed++
			} else {
				value = value.Mul(factors[index])
			}
			//
			index++
		}
		//
		column[r] = value
	}
	//
	return column, nil
}
