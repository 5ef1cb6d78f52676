package contract

import (
	"fmt"
	"math/big"
	"reflect"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// ParseArgs converts command-line strings into the Go values abi.Pack expects
// for m's inputs.
func ParseArgs(m abi.Method, raw []string) ([]any, error) {
	if len(raw) != len(m.Inputs) {
		return nil, fmt.Errorf("%s expects %d argument(s), got %d", m.Sig, len(m.Inputs), len(raw))
	}
	out := make([]any, len(raw))
	for i, in := range m.Inputs {
		v, err := parseArg(in.Type, strings.TrimSpace(raw[i]))
		if err != nil {
			name := in.Name
			if name == "" {
				name = fmt.Sprintf("#%d", i)
			}
			return nil, fmt.Errorf("argument %s (%s): %w", name, in.Type.String(), err)
		}
		out[i] = v
	}
	return out, nil
}

func parseArg(t abi.Type, s string) (any, error) {
	switch t.T {
	case abi.UintTy, abi.IntTy:
		n, ok := new(big.Int).SetString(s, 0)
		if !ok {
			return nil, fmt.Errorf("invalid integer %q", s)
		}
		if t.T == abi.UintTy && n.Sign() < 0 {
			return nil, fmt.Errorf("negative value %s for unsigned type", s)
		}
		// Only uint8/16/32/64 (and signed) map to fixed-size Go integers;
		// every other width packs from *big.Int.
		if t.GetType().Kind() == reflect.Ptr {
			return n, nil
		}
		rv := reflect.New(t.GetType()).Elem()
		if t.T == abi.UintTy {
			if !n.IsUint64() || rv.OverflowUint(n.Uint64()) {
				return nil, fmt.Errorf("%s overflows %s", s, t.String())
			}
			rv.SetUint(n.Uint64())
		} else {
			if !n.IsInt64() || rv.OverflowInt(n.Int64()) {
				return nil, fmt.Errorf("%s overflows %s", s, t.String())
			}
			rv.SetInt(n.Int64())
		}
		return rv.Interface(), nil

	case abi.AddressTy:
		if !common.IsHexAddress(s) {
			return nil, fmt.Errorf("invalid address %q", s)
		}
		return common.HexToAddress(s), nil

	case abi.BoolTy:
		return strconv.ParseBool(s)

	case abi.StringTy:
		return s, nil

	case abi.BytesTy:
		return hexutil.Decode(s)

	case abi.FixedBytesTy:
		b, err := hexutil.Decode(s)
		if err != nil {
			return nil, err
		}
		if len(b) > t.Size {
			return nil, fmt.Errorf("%d bytes do not fit in %s", len(b), t.String())
		}
		rv := reflect.New(t.GetType()).Elem()
		reflect.Copy(rv, reflect.ValueOf(b))
		return rv.Interface(), nil
	}
	return nil, fmt.Errorf("unsupported argument type %s", t.String())
}
