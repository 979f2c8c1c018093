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

// Package fext provides the degree-4 extension of the koalabear base field.
// Extension elements only ever appear in auxiliary trace columns and in the
// challenge vector; the main trace is always over the base field.
package fext

import (
	"fmt"

	"github.com/consensys/gnark-crypto/field/koalabear/extensions"

	"github.com/xxhh1112/miden-vm/pkg/util/field/koalabear"
)

// Element wraps extensions.E4 to conform to the field.Element interface.
type Element struct {
	extensions.E4
}

// New constructs an extension element from its four base-field coefficients,
// given in ascending order of the extension variable.
func New(a0, a1, a2, a3 uint64) Element {
	var elem Element
	//
	elem.B0.A0.SetUint64(a0)
	elem.B0.A1.SetUint64(a1)
	elem.B1.A0.SetUint64(a2)
	elem.B1.A1.SetUint64(a3)
	//
	return elem
}

// FromBase embeds a base field element into the extension field.
func FromBase(val koalabear.Element) Element {
	var elem Element
	//
	elem.B0.A0 = val.Element
	//
	return elem
}

// Add x + y
func (x Element) Add(y Element) Element {
	var res extensions.E4
	//
	res.Add(&x.E4, &y.E4)
	//
	return Element{res}
}

// Equals implementation for the field.Element interface.
func (x Element) Equals(y Element) bool {
	return x.E4.Equal(&y.E4)
}

// Inverse x⁻¹, or 0 if x = 0.
func (x Element) Inverse() Element {
	var elem extensions.E4
	//
	elem.Inverse(&x.E4)
	//
	return Element{elem}
}

// IsOne implementation for the field.Element interface.
func (x Element) IsOne() bool {
	var one extensions.E4
	//
	one.SetOne()
	//
	return x.E4.Equal(&one)
}

// IsZero implementation for the field.Element interface.
func (x Element) IsZero() bool {
	return x.E4.IsZero()
}

// Mul x * y
func (x Element) Mul(y Element) Element {
	var elem extensions.E4
	//
	elem.Mul(&x.E4, &y.E4)
	//
	return Element{elem}
}

// MulBase multiplies x by a base field element, which amounts to scaling each
// coefficient.  This avoids a full extension multiplication when combining
// base-field payloads with extension-field challenges.
func (x Element) MulBase(y koalabear.Element) Element {
	x.B0.A0.Mul(&x.B0.A0, &y.Element)
	x.B0.A1.Mul(&x.B0.A1, &y.Element)
	x.B1.A0.Mul(&x.B1.A0, &y.Element)
	x.B1.A1.Mul(&x.B1.A1, &y.Element)
	//
	return x
}

// Sub x - y
func (x Element) Sub(y Element) Element {
	var elem extensions.E4
	//
	elem.Sub(&x.E4, &y.E4)
	//
	return Element{elem}
}

// SetUint64 implementation for the field.Element interface.
func (x Element) SetUint64(val uint64) Element {
	var elem Element
	//
	elem.B0.A0.SetUint64(val)
	//
	return elem
}

func (x Element) String() string {
	return fmt.Sprintf("(%s,%s,%s,%s)",
		x.B0.A0.String(), x.B0.A1.String(), x.B1.A0.String(), x.B1.A1.String())
}
