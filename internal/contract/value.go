package contract

import (
	"fmt"
	"math/big"
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Value is a decoded view-call result. Decoded holds the first return value
// normalised to *big.Int (integers), string (string, bytes, bytesN), bool or
// common.Address. Methods with no outputs decode to a nil Decoded.
type Value struct {
	Method  string
	Type    string // solidity type of the first output, e.g. "uint256"
	Raw     []byte // undecoded return data
	Decoded any
}

// BigInt returns the value as an integer when the output is numeric.
func (v Value) BigInt() (*big.Int, bool) {
	n, ok := v.Decoded.(*big.Int)
	return n, ok
}

// Text returns the value as a string when the output is string-like.
func (v Value) Text() (string, bool) {
	s, ok := v.Decoded.(string)
	return s, ok
}

// String renders the value for display.
func (v Value) String() string {
	switch d := v.Decoded.(type) {
	case nil:
		return ""
	case *big.Int:
		return d.String()
	case common.Address:
		return d.Hex()
	default:
		return fmt.Sprint(d)
	}
}

func decodeOutput(m abi.Method, raw []byte) (Value, error) {
	v := Value{Method: m.Name, Raw: raw}
	if len(m.Outputs) == 0 {
		return v, nil
	}
	v.Type = m.Outputs[0].Type.String()

	out, err := m.Outputs.Unpack(raw)
	if err != nil {
		return v, fmt.Errorf("decoding result: %w", err)
	}
	if len(out) == 0 {
		return v, fmt.Errorf("decoding result: %s returned no data", m.Name)
	}

	decoded, err := normalise(m.Outputs[0].Type, out[0])
	if err != nil {
		return v, fmt.Errorf("decoding result: %w", err)
	}
	v.Decoded = decoded
	return v, nil
}

// normalise maps go-ethereum's per-size Go types onto the small set Value
// promises.
func normalise(t abi.Type, x any) (any, error) {
	switch t.T {
	case abi.UintTy, abi.IntTy:
		if n, ok := x.(*big.Int); ok {
			return n, nil
		}
		rv := reflect.ValueOf(x)
		switch rv.Kind() {
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return new(big.Int).SetUint64(rv.Uint()), nil
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return big.NewInt(rv.Int()), nil
		}
		return nil, fmt.Errorf("unexpected integer type %T", x)

	case abi.StringTy:
		s, ok := x.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected string type %T", x)
		}
		return s, nil

	case abi.BytesTy:
		b, ok := x.([]byte)
		if !ok {
			return nil, fmt.Errorf("unexpected bytes type %T", x)
		}
		return bytesToText(b, false), nil

	case abi.FixedBytesTy:
		rv := reflect.ValueOf(x)
		if rv.Kind() != reflect.Array {
			return nil, fmt.Errorf("unexpected fixed bytes type %T", x)
		}
		b := make([]byte, rv.Len())
		reflect.Copy(reflect.ValueOf(b), rv)
		return bytesToText(b, true), nil

	case abi.BoolTy:
		b, ok := x.(bool)
		if !ok {
			return nil, fmt.Errorf("unexpected bool type %T", x)
		}
		return b, nil

	case abi.AddressTy:
		a, ok := x.(common.Address)
		if !ok {
			return nil, fmt.Errorf("unexpected address type %T", x)
		}
		return a, nil
	}
	return x, nil
}

// bytesToText decodes printable UTF-8 as text and anything else as 0x-hex.
// Fixed-size values are right-padded with zeros, which are trimmed first.
func bytesToText(b []byte, fixed bool) string {
	text := b
	if fixed {
		text = []byte(strings.TrimRight(string(b), "\x00"))
	}
	if len(text) > 0 && utf8.Valid(text) && printable(string(text)) {
		return string(text)
	}
	return hexutil.Encode(b)
}

func printable(s string) bool {
	for _, r := range s {
		if !unicode.IsPrint(r) && !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}
