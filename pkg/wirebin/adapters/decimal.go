package adapters

import (
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/wavelayer/wirebin/pkg/wirebin"
)

// DecimalCodec encodes a fixed-point decimal as a sign byte, the base-10
// exponent (int32), and the length-prefixed big-endian magnitude of the
// coefficient.
type DecimalCodec struct{}

func (DecimalCodec) Write(w *wirebin.Writer, v decimal.Decimal) {
	coeff := v.Coefficient()
	w.WriteBool(coeff.Sign() < 0)
	w.WriteInt32(v.Exponent())
	w.WriteByteSlice(new(big.Int).Abs(coeff).Bytes())
}

func (DecimalCodec) Read(r *wirebin.Reader) decimal.Decimal {
	neg := r.ReadBool()
	exp := r.ReadInt32()
	mag := r.ReadByteSlice()
	if r.Err() != nil {
		return decimal.Decimal{}
	}
	coeff := new(big.Int).SetBytes(mag)
	if neg {
		coeff.Neg(coeff)
	}
	return decimal.NewFromBigInt(coeff, exp)
}

func (DecimalCodec) MinSize() uint64 { return 13 }
