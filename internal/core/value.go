package core

import (
	"encoding"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// FromArgValue is the interface a field type implements to parse itself from
// a raw command-line value. It wins over every other conversion, including
// encoding.TextUnmarshaler.
type FromArgValue interface {
	FromArgValue(value string) error
}

var (
	fromArgValueType    = reflect.TypeFor[FromArgValue]()
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
	durationType        = reflect.TypeFor[time.Duration]()
)

// convertValue parses raw into the addressable destination dst. The
// conversion chain is FromArgValue, then encoding.TextUnmarshaler, then
// time.Duration, then the strconv primitives.
func convertValue(dst reflect.Value, raw string) error {
	addr := dst.Addr()

	if addr.Type().Implements(fromArgValueType) {
		return addr.Interface().(FromArgValue).FromArgValue(raw)
	}

	if addr.Type().Implements(textUnmarshalerType) {
		return addr.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(raw))
	}

	if dst.Type() == durationType {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return durationReason(raw, err)
		}

		dst.SetInt(int64(d))

		return nil
	}

	switch dst.Kind() {
	case reflect.String:
		dst.SetString(raw)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return numReason(err)
		}

		dst.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, dst.Type().Bits())
		if err != nil {
			return numReason(err)
		}

		dst.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(raw, 10, dst.Type().Bits())
		if err != nil {
			return numReason(err)
		}

		dst.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(raw, dst.Type().Bits())
		if err != nil {
			return numReason(err)
		}

		dst.SetFloat(f)
	default:
		return fmt.Errorf("unsupported value type %s", dst.Type())
	}

	return nil
}

// numReason strips the strconv wrapper so error text carries only the
// reason, e.g. "invalid syntax" rather than the full ParseInt quote.
func numReason(err error) error {
	var num *strconv.NumError
	if errors.As(err, &num) {
		return num.Err
	}

	return err
}

// durationReason trims the "time: " prefix and the quoted input from
// ParseDuration failures, leaving a reason in the same shape numReason
// produces.
func durationReason(raw string, err error) error {
	msg := strings.TrimPrefix(err.Error(), "time: ")
	msg = strings.TrimSuffix(msg, " "+strconv.Quote(raw))

	return errors.New(msg)
}

// convertible reports whether t is a supported scalar destination.
func convertible(t reflect.Type) bool {
	ptr := reflect.PointerTo(t)
	if ptr.Implements(fromArgValueType) || ptr.Implements(textUnmarshalerType) {
		return true
	}

	if t == durationType {
		return true
	}

	switch t.Kind() {
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

// slot is the runtime storage cell behind one declared option or positional.
// An option shares a single slot across its short and long spellings, and a
// global option shares its slot with every descendant level that resolves it.
type slot struct {
	value  reflect.Value
	filled bool
}

// fill converts raw into the slot. Scalar and pointer slots refuse a second
// value; slice slots append. arg is the spelling used in error reports.
func (s *slot) fill(arg, raw string) error {
	v := s.value

	switch v.Kind() {
	case reflect.Slice:
		elem := reflect.New(v.Type().Elem()).Elem()
		if err := convertValue(elem, raw); err != nil {
			return &ParseValueError{Arg: arg, Value: raw, Msg: err.Error()}
		}

		v.Set(reflect.Append(v, elem))
	case reflect.Pointer:
		if s.filled {
			return &DuplicateOptionError{Option: arg}
		}

		elem := reflect.New(v.Type().Elem())
		if err := convertValue(elem.Elem(), raw); err != nil {
			return &ParseValueError{Arg: arg, Value: raw, Msg: err.Error()}
		}

		v.Set(elem)
	default:
		if s.filled {
			return &DuplicateOptionError{Option: arg}
		}

		if err := convertValue(v, raw); err != nil {
			return &ParseValueError{Arg: arg, Value: raw, Msg: err.Error()}
		}
	}

	s.filled = true

	return nil
}

// setSwitch records one more occurrence of a switch. Booleans latch true,
// pointer booleans latch a true value, and integer kinds count occurrences,
// saturating at the type's maximum instead of wrapping.
func (s *slot) setSwitch() {
	v := s.value

	switch v.Kind() {
	case reflect.Bool:
		v.SetBool(true)
	case reflect.Pointer:
		b := reflect.New(v.Type().Elem())
		b.Elem().SetBool(true)
		v.Set(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		limit := int64(uint64(1)<<(v.Type().Bits()-1) - 1)
		if n := v.Int(); n < limit {
			v.SetInt(n + 1)
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		limit := ^uint64(0) >> (64 - v.Type().Bits())
		if n := v.Uint(); n < limit {
			v.SetUint(n + 1)
		}
	}

	s.filled = true
}

// applyDefault converts the declared literal into an untouched slot.
func (s *slot) applyDefault(arg, literal string) error {
	if s.filled {
		return nil
	}

	if err := convertValue(s.value, literal); err != nil {
		return &ParseValueError{Arg: arg, Value: literal, Msg: err.Error()}
	}

	s.filled = true

	return nil
}

// switchType reports whether t can back a switch: a latching boolean or a
// counting integer.
func switchType(t reflect.Type) bool {
	if t.Kind() == reflect.Pointer {
		return t.Elem().Kind() == reflect.Bool
	}

	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	default:
		return false
	}
}
