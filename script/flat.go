// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package script

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/blinklabs-io/plutigo/data"
	"github.com/blinklabs-io/plutigo/syn"
)

var errUnsupportedTerm = errors.New("unsupported term")

// encodeProgram writes a program in the flat format read by syn.Decode.
// TODO: switch to syn.Encode once the plutigo flat encoder handles constant
// and builtin terms
func encodeProgram(program *syn.Program[syn.DeBruijn]) (ret []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("flat encoder: %v", r)
		}
	}()
	e := &flatEncoder{}
	for _, v := range program.Version {
		e.word(uint64(v))
	}
	if err := e.term(program.Term); err != nil {
		return nil, err
	}
	e.filler()
	return e.buf, nil
}

type flatEncoder struct {
	buf      []byte
	cur      byte
	usedBits int
}

func (e *flatEncoder) bit(set bool) {
	if set {
		e.cur |= 0x80 >> e.usedBits
	}
	e.usedBits++
	if e.usedBits == 8 {
		e.buf = append(e.buf, e.cur)
		e.cur = 0
		e.usedBits = 0
	}
}

// bits writes the numBits low bits of val, most significant first
func (e *flatEncoder) bits(numBits int, val byte) {
	for i := numBits - 1; i >= 0; i-- {
		e.bit(val>>i&1 == 1)
	}
}

// word writes 7 bit groups, least significant first, with a continuation bit
func (e *flatEncoder) word(val uint64) {
	for {
		w := byte(val & 0x7f)
		val >>= 7
		if val != 0 {
			w |= 0x80
		}
		e.bits(8, w)
		if val == 0 {
			return
		}
	}
}

func (e *flatEncoder) bigWord(val *big.Int) {
	tmp := new(big.Int).Set(val)
	mask := big.NewInt(0x7f)
	for {
		w := byte(new(big.Int).And(tmp, mask).Uint64())
		tmp.Rsh(tmp, 7)
		if tmp.Sign() != 0 {
			w |= 0x80
		}
		e.bits(8, w)
		if tmp.Sign() == 0 {
			return
		}
	}
}

// integer writes a zigzag encoded signed integer
func (e *flatEncoder) integer(val *big.Int) {
	zz := new(big.Int).Lsh(val, 1)
	if val.Sign() < 0 {
		zz.Neg(zz)
		zz.Sub(zz, big.NewInt(1))
	}
	e.bigWord(zz)
}

// filler pads with zero bits and a final one bit up to the byte boundary.
// An aligned buffer gets a whole 0x01 byte.
func (e *flatEncoder) filler() {
	e.cur |= 1
	e.buf = append(e.buf, e.cur)
	e.cur = 0
	e.usedBits = 0
}

// byteString writes a filler followed by chunks of at most 255 bytes and a
// zero length terminator
func (e *flatEncoder) byteString(val []byte) {
	e.filler()
	for len(val) > 0 {
		chunk := min(len(val), 255)
		e.buf = append(e.buf, byte(chunk))
		e.buf = append(e.buf, val[:chunk]...)
		val = val[chunk:]
	}
	e.buf = append(e.buf, 0)
}

func (e *flatEncoder) terms(items []syn.Term[syn.DeBruijn]) error {
	for _, item := range items {
		e.bit(true)
		if err := e.term(item); err != nil {
			return err
		}
	}
	e.bit(false)
	return nil
}

func (e *flatEncoder) term(term syn.Term[syn.DeBruijn]) error {
	switch t := term.(type) {
	case *syn.Var[syn.DeBruijn]:
		e.bits(int(syn.TermTagWidth), syn.VarTag)
		e.word(uint64(t.Name))
	case *syn.Delay[syn.DeBruijn]:
		e.bits(int(syn.TermTagWidth), syn.DelayTag)
		return e.term(t.Term)
	case *syn.Lambda[syn.DeBruijn]:
		// De Bruijn binders are not written
		e.bits(int(syn.TermTagWidth), syn.LambdaTag)
		return e.term(t.Body)
	case *syn.Apply[syn.DeBruijn]:
		e.bits(int(syn.TermTagWidth), syn.ApplyTag)
		if err := e.term(t.Function); err != nil {
			return err
		}
		return e.term(t.Argument)
	case *syn.Constant:
		e.bits(int(syn.TermTagWidth), syn.ConstantTag)
		return e.constant(t.Con)
	case *syn.Force[syn.DeBruijn]:
		e.bits(int(syn.TermTagWidth), syn.ForceTag)
		return e.term(t.Term)
	case *syn.Error:
		e.bits(int(syn.TermTagWidth), syn.ErrorTag)
	case *syn.Builtin:
		e.bits(int(syn.TermTagWidth), syn.BuiltinTag)
		e.bits(int(syn.BuiltinTagWidth), byte(t.DefaultFunction))
	case *syn.Constr[syn.DeBruijn]:
		e.bits(int(syn.TermTagWidth), syn.ConstrTag)
		e.word(uint64(t.Tag))
		return e.terms(t.Fields)
	case *syn.Case[syn.DeBruijn]:
		e.bits(int(syn.TermTagWidth), syn.CaseTag)
		if err := e.term(t.Constr); err != nil {
			return err
		}
		return e.terms(t.Branches)
	default:
		return fmt.Errorf("%w: %T", errUnsupportedTerm, term)
	}
	return nil
}

func (e *flatEncoder) constant(con syn.IConstant) error {
	tags, err := typeTags(con.Typ())
	if err != nil {
		return err
	}
	for _, tag := range tags {
		e.bit(true)
		e.bits(int(syn.ConstTagWidth), tag)
	}
	e.bit(false)
	return e.constantValue(con)
}

func (e *flatEncoder) constantValue(con syn.IConstant) error {
	switch c := con.(type) {
	case *syn.Integer:
		e.integer(c.Inner)
	case *syn.ByteString:
		e.byteString(c.Inner)
	case *syn.String:
		e.byteString([]byte(c.Inner))
	case *syn.Unit:
	case *syn.Bool:
		e.bit(c.Inner)
	case *syn.ProtoList:
		for _, item := range c.List {
			e.bit(true)
			if err := e.constantValue(item); err != nil {
				return err
			}
		}
		e.bit(false)
	case *syn.ProtoPair:
		if err := e.constantValue(c.First); err != nil {
			return err
		}
		return e.constantValue(c.Second)
	case *syn.Data:
		cborData, err := data.Encode(c.Inner)
		if err != nil {
			return err
		}
		e.byteString(cborData)
	default:
		return fmt.Errorf("%w: constant %T", errUnsupportedTerm, con)
	}
	return nil
}

func typeTags(typ syn.Typ) ([]byte, error) {
	switch t := typ.(type) {
	case *syn.TInteger:
		return []byte{syn.IntegerTag}, nil
	case *syn.TByteString:
		return []byte{syn.ByteStringTag}, nil
	case *syn.TString:
		return []byte{syn.StringTag}, nil
	case *syn.TUnit:
		return []byte{syn.UnitTag}, nil
	case *syn.TBool:
		return []byte{syn.BoolTag}, nil
	case *syn.TData:
		return []byte{syn.DataTag}, nil
	case *syn.TList:
		inner, err := typeTags(t.Typ)
		if err != nil {
			return nil, err
		}
		return append([]byte{syn.ProtoListOneTag, syn.ProtoListTwoTag}, inner...), nil
	case *syn.TPair:
		first, err := typeTags(t.First)
		if err != nil {
			return nil, err
		}
		second, err := typeTags(t.Second)
		if err != nil {
			return nil, err
		}
		ret := []byte{syn.ProtoPairOneTag, syn.ProtoPairTwoTag, syn.ProtoPairThreeTag}
		ret = append(ret, first...)
		return append(ret, second...), nil
	default:
		return nil, fmt.Errorf("%w: constant type %T", errUnsupportedTerm, typ)
	}
}
