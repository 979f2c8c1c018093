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
package trace

import (
	"fmt"
)

// DimensionMismatchError signals that two collaborating structures disagree on
// a dimension (column heights, trace length versus hint range, challenge
// arity, etc).  This always indicates a programming error in the caller and is
// never recoverable.
type DimensionMismatchError struct {
	// Description of the disagreement.
	Detail string
}

func (p *DimensionMismatchError) Error() string {
	return fmt.Sprintf("dimension mismatch: %s", p.Detail)
}
