package blockchain

import (
	"fmt"
	"math"
	"math/big"
	"reflect"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/liquidity-rails/rails-deploy/internal/domain"
)

// ConvertArgs converts plan values to the Go types the ABI packer expects
// for inputs. Addresses of deployed contracts arrive as common.Address;
// literals arrive as decoded plan scalars.
func ConvertArgs(inputs abi.Arguments, args []any) ([]any, error) {
	if len(inputs) != len(args) {
		return nil, fmt.Errorf("expected %d arguments, got %d", len(inputs), len(args))
	}

	converted := make([]any, len(args))
	for i, input := range inputs {
		value, err := convertArg(input.Type, args[i])
		if err != nil {
			name := input.Name
			if name == "" {
				name = fmt.Sprintf("#%d", i)
			}
			return nil, fmt.Errorf("argument %s (%s): %w", name, input.Type.String(), err)
		}
		converted[i] = value
	}
	return converted, nil
}

func convertArg(t abi.Type, value any) (any, error) {
	switch t.T {
	case abi.AddressTy:
		return toAddress(value)
	case abi.BoolTy:
		return toBool(value)
	case abi.StringTy:
		if s, ok := value.(string); ok {
			return s, nil
		}
		return fmt.Sprint(value), nil
	case abi.BytesTy:
		return toBytes(value)
	case abi.FixedBytesTy:
		return toFixedBytes(t, value)
	case abi.IntTy, abi.UintTy:
		return toInteger(t, value)
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedArgType, t.String())
	}
}

func toAddress(value any) (common.Address, error) {
	switch v := value.(type) {
	case common.Address:
		return v, nil
	case *common.Address:
		return *v, nil
	case string:
		if !common.IsHexAddress(v) {
			return common.Address{}, fmt.Errorf("%q is not an address", v)
		}
		return common.HexToAddress(v), nil
	}
	return common.Address{}, fmt.Errorf("%w: %T for address", domain.ErrUnsupportedArgType, value)
}

func toBool(value any) (bool, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		return strconv.ParseBool(v)
	}
	return false, fmt.Errorf("%w: %T for bool", domain.ErrUnsupportedArgType, value)
}

func toBytes(value any) ([]byte, error) {
	switch v := value.(type) {
	case []byte:
		return v, nil
	case string:
		if !strings.HasPrefix(v, "0x") {
			return []byte(v), nil
		}
		return hexutil.Decode(v)
	}
	return nil, fmt.Errorf("%w: %T for bytes", domain.ErrUnsupportedArgType, value)
}

func toFixedBytes(t abi.Type, value any) (any, error) {
	var raw []byte
	switch v := value.(type) {
	case [32]byte:
		raw = v[:]
	case domain.RoleID:
		raw = v[:]
	case common.Hash:
		raw = v.Bytes()
	case []byte:
		raw = v
	case string:
		decoded, err := hexutil.Decode(v)
		if err != nil {
			return nil, fmt.Errorf("%q is not hex: %w", v, err)
		}
		raw = decoded
	default:
		return nil, fmt.Errorf("%w: %T for %s", domain.ErrUnsupportedArgType, value, t.String())
	}

	if len(raw) != t.Size {
		return nil, fmt.Errorf("expected %d bytes, got %d", t.Size, len(raw))
	}

	out := reflect.New(t.GetType()).Elem()
	reflect.Copy(out, reflect.ValueOf(raw))
	return out.Interface(), nil
}

func toInteger(t abi.Type, value any) (any, error) {
	n, err := toBigInt(value)
	if err != nil {
		return nil, err
	}

	if err := checkRange(t, n); err != nil {
		return nil, err
	}

	// Sizes other than 8/16/32/64 bits pack from *big.Int
	goType := t.GetType()
	if goType.Kind() == reflect.Ptr {
		return n, nil
	}

	out := reflect.New(goType).Elem()
	if t.T == abi.UintTy {
		out.SetUint(n.Uint64())
	} else {
		out.SetInt(n.Int64())
	}
	return out.Interface(), nil
}

// checkRange rejects values outside [0, 2^n) for uintN and [-2^(n-1), 2^(n-1)) for intN
func checkRange(t abi.Type, n *big.Int) error {
	size := uint(t.Size)
	if t.T == abi.UintTy {
		if n.Sign() < 0 {
			return fmt.Errorf("%s is negative", n)
		}
		if n.BitLen() > t.Size {
			return fmt.Errorf("%s overflows %s", n, t.String())
		}
		return nil
	}

	limit := new(big.Int).Lsh(big.NewInt(1), size-1)
	if n.Cmp(limit) >= 0 || n.Cmp(new(big.Int).Neg(limit)) < 0 {
		return fmt.Errorf("%s overflows %s", n, t.String())
	}
	return nil
}

func toBigInt(value any) (*big.Int, error) {
	switch v := value.(type) {
	case *big.Int:
		return new(big.Int).Set(v), nil
	case int:
		return big.NewInt(int64(v)), nil
	case int64:
		return big.NewInt(v), nil
	case uint64:
		return new(big.Int).SetUint64(v), nil
	case float64:
		if v != math.Trunc(v) || math.Abs(v) > 1<<53 {
			return nil, fmt.Errorf("%v is not an exact integer", v)
		}
		return big.NewInt(int64(v)), nil
	case string:
		n, ok := new(big.Int).SetString(strings.ReplaceAll(v, "_", ""), 0)
		if !ok {
			return nil, fmt.Errorf("%q is not an integer", v)
		}
		return n, nil
	}
	return nil, fmt.Errorf("%w: %T for integer", domain.ErrUnsupportedArgType, value)
}
