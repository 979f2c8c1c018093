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
	"fmt"
)

// MalformedHintLogError signals a structurally invalid hint log: a hint
// referencing an out-of-range row, hints out of cycle order, or a payload of
// the wrong arity.  This is fatal and aborts proof generation.
type MalformedHintLogError struct {
	// Table whose log is malformed.
	Table string
	// Index of the offending hint within the log.
	Index uint
	// Description of the violation.
	Detail string
}

func (p *MalformedHintLogError) Error() string {
	return fmt.Sprintf("malformed hint log for table %s (hint %d): %s", p.Table, p.Index, p.Detail)
}

// DegenerateChallengeError signals that the random combination of some payload
// with the challenge vector evaluated to zero.  A zero factor would absorb the
// entire running product, so the build must fail rather than continue.  This
// is the only failure with a defined retry policy: the caller should redraw
// challenges and rebuild.  Under honest randomness the probability of this
// occurring is negligible, but it is checked rather than assumed away.
type DegenerateChallengeError struct {
	// Table whose combination degenerated.
	Table string
	// Cycle of the hint whose payload triggered the degeneracy.
	Cycle uint
}

func (p *DegenerateChallengeError) Error() string {
	return fmt.Sprintf("degenerate challenge for table %s at cycle %d (redraw challenges)", p.Table, p.Cycle)
}

// Retryable indicates that rebuilding with freshly drawn challenges may
// succeed.
func (p *DegenerateChallengeError) Retryable() bool {
	return true
}

func errorf(format string, args ...any) string {
	return fmt.Sprintf(format, args...)
}
