package infra

import (
	"math"
	"reflect"
)

type Signed interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

// Unsigned is a constraint that permits any unsigned integer type.
// If future releases of Go add new predeclared unsigned integer types,
// this constraint will be modified to include them.
type Unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// Integer is a constraint that permits any integer type.
// If future releases of Go add new predeclared integer types,
// this constraint will be modified to include them.
type Integer interface {
	Signed | Unsigned
}

// Float is a constraint that permits any floating-point type.
// If future releases of Go add new predeclared floating-point types,
// this constraint will be modified to include them.
type Float interface {
	~float32 | ~float64
}

// OrderedKey
// byte => ~uint8
type OrderedKey interface {
	Integer | Float | ~string
}

// Comparator
// Assume i is the new key.
//  1. i == j (i-j == 0, return 0)
//  2. i > j (i-j > 0, return 1), turn to right part.
//  3. i < j (i-j < 0, return -1), turn to left part.
//
// The comparator must be a total order over the keys it is given.
type Comparator[K any] func(i, j K) int64

// OrderedCompare compares by ordering only. Keys which are neither
// less nor greater are treated as the same key.
func OrderedCompare[K OrderedKey](i, j K) int64 {
	if i < j {
		return -1
	} else if i > j {
		return 1
	}
	return 0
}

// Term classes, the lower class orders first.
const (
	termNumber uint8 = iota
	termBool
	termString
)

// CompareAny orders dynamically typed keys.
// Numbers of any kind compare by exact value, so 1 and 1.0 are the same key
// while 1<<53+1 and float64(1<<53) are not. NaN orders below all numbers.
// Class order: number < bool < string. Other key types are not supported.
func CompareAny(i, j any) int64 {
	ci, cj := termClass(i), termClass(j)
	if ci != cj {
		if ci < cj {
			return -1
		}
		return 1
	}

	switch ci {
	case termNumber:
		return compareNumber(reflect.ValueOf(i), reflect.ValueOf(j))
	case termBool:
		bi, bj := reflect.ValueOf(i).Bool(), reflect.ValueOf(j).Bool()
		if bi == bj {
			return 0
		} else if !bi {
			return -1
		}
		return 1
	default:
		return OrderedCompare(reflect.ValueOf(i).String(), reflect.ValueOf(j).String())
	}
}

func termClass(key any) uint8 {
	if key == nil {
		panic( /* debug assertion */ "[infra] nil key is not comparable")
	}
	switch reflect.ValueOf(key).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return termNumber
	case reflect.Bool:
		return termBool
	case reflect.String:
		return termString
	default:
	}
	panic( /* debug assertion */ "[infra] unsupported key type " + reflect.TypeOf(key).String())
}

func isSignedKind(k reflect.Kind) bool {
	return k >= reflect.Int && k <= reflect.Int64
}

func isUnsignedKind(k reflect.Kind) bool {
	return k >= reflect.Uint && k <= reflect.Uintptr
}

func compareNumber(vi, vj reflect.Value) int64 {
	ki, kj := vi.Kind(), vj.Kind()
	switch {
	case isSignedKind(ki) && isSignedKind(kj):
		return OrderedCompare(vi.Int(), vj.Int())
	case isUnsignedKind(ki) && isUnsignedKind(kj):
		return OrderedCompare(vi.Uint(), vj.Uint())
	case isSignedKind(ki) && isUnsignedKind(kj):
		if vi.Int() < 0 {
			return -1
		}
		return OrderedCompare(uint64(vi.Int()), vj.Uint())
	case isUnsignedKind(ki) && isSignedKind(kj):
		if vj.Int() < 0 {
			return 1
		}
		return OrderedCompare(vi.Uint(), uint64(vj.Int()))
	case isSignedKind(ki) || isUnsignedKind(ki):
		return compareIntFloat(vi, vj.Float())
	case isSignedKind(kj) || isUnsignedKind(kj):
		return -compareIntFloat(vj, vi.Float())
	default:
	}
	return compareFloat(vi.Float(), vj.Float())
}

// compareFloat puts NaN below every other number, NaNs are one key.
func compareFloat(fi, fj float64) int64 {
	ni, nj := math.IsNaN(fi), math.IsNaN(fj)
	switch {
	case ni && nj:
		return 0
	case ni:
		return -1
	case nj:
		return 1
	default:
	}
	return OrderedCompare(fi, fj)
}

const (
	twoPow63 = float64(1 << 63)
	twoPow64 = twoPow63 * 2
)

// compareIntFloat compares an integer with a float exactly. A float64
// cannot hold every integer above 2^53, so the float is split into its
// integral part, compared in integer space, and its fraction.
func compareIntFloat(v reflect.Value, f float64) int64 {
	if math.IsNaN(f) {
		return 1
	}
	trunc := math.Trunc(f)
	frac := f - trunc
	var res int64
	if isSignedKind(v.Kind()) {
		switch {
		case f >= twoPow63:
			return -1
		case f < -twoPow63:
			return 1
		default:
		}
		res = OrderedCompare(v.Int(), int64(trunc))
	} else {
		switch {
		case f < 0:
			return 1
		case f >= twoPow64:
			return -1
		default:
		}
		res = OrderedCompare(v.Uint(), uint64(trunc))
	}
	if res != 0 {
		return res
	}
	if frac > 0 {
		return -1
	} else if frac < 0 {
		return 1
	}
	return 0
}
