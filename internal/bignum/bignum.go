// Copyright 2024 The Bakery Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package bignum centralizes bakery's arbitrary-precision integer handling:
// parsing a decimal literal ahead of any width-limited conversion, computing
// the inclusive [min, max] range for a given bit size and signedness, and
// sign-extending a two's-complement little-endian encoding out to a fixed
// byte width. Grounded on go-ethereum's common/math package, the pack's one
// precedent for "parse big, bounds-check against a concrete width" rather
// than a purpose-built decimal type.
package bignum

import "math/big"

// Bounds returns the inclusive [min, max] range representable in bitSize
// bits, signed or unsigned: max = 2^(bitSize-1)-1 for signed, 2^bitSize-1
// for unsigned; min = -(max+1) for signed, 0 for unsigned.
func Bounds(bitSize uint8, signed bool) (min, max *big.Int) {
	exp := uint(bitSize)
	if signed {
		exp--
	}
	max = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), exp), big.NewInt(1))
	if !signed {
		return big.NewInt(0), max
	}
	min = new(big.Int).Sub(new(big.Int).Neg(max), big.NewInt(1))
	return min, max
}

// InRange reports whether v lies within [min, max] inclusive.
func InRange(v, min, max *big.Int) bool {
	return v.Cmp(min) >= 0 && v.Cmp(max) <= 0
}

// ParseDecimal parses repr as a base-10 arbitrary-precision integer. A
// failure here indicates a grammar bug upstream: the int lexical rule only
// ever matches an optional sign followed by digits, so any DatInt.Repr that
// reaches here must already be well-formed decimal text.
func ParseDecimal(repr string) (*big.Int, bool) {
	return new(big.Int).SetString(repr, 10)
}

// LittleEndianWidth encodes v as exactly width bytes, little-endian,
// two's-complement for negative values. v must already have been bounds
// checked against the width's representable range by the caller. The
// magnitude bytes are reversed into little-endian order, then padded out to
// width bytes with 0x00 (unsigned, or non-negative signed) or 0xff (negative
// signed).
func LittleEndianWidth(v *big.Int, width int, signed bool) []byte {
	negative := signed && v.Sign() < 0
	var mag *big.Int
	if negative {
		// Two's complement: encode (2^(8*width) + v) in its magnitude form.
		mod := new(big.Int).Lsh(big.NewInt(1), uint(8*width))
		mag = new(big.Int).Add(mod, v)
	} else {
		mag = new(big.Int).Set(v)
	}
	be := mag.Bytes()
	out := make([]byte, width)
	for i, b := range be {
		// be is big-endian, most-significant byte first; reverse into little-endian.
		out[len(be)-1-i] = b
	}
	pad := byte(0x00)
	if negative {
		pad = 0xff
	}
	for i := len(be); i < width; i++ {
		out[i] = pad
	}
	return out
}