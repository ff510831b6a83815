package orm

import (
	"bytes"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"reflect"
	"strconv"
	"time"

	"ormlab/internal/errors"
)

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// columnValue turns a Go field into the value written to the driver and kept in
// snapshots. Integers widen to int64 and named string kinds flatten to string
// so that snapshot comparison and identity keys do not depend on the declared type.
func columnValue(fv reflect.Value) any {
	if fv.Kind() == reflect.Pointer {
		if fv.IsNil() {
			return nil
		}

		return columnValue(fv.Elem())
	}

	if fv.Type().Implements(valuerType) {
		v, err := fv.Interface().(driver.Valuer).Value()
		if err != nil {
			return fv.Interface()
		}

		return v
	}

	switch fv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return fv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(fv.Uint())
	case reflect.Float32, reflect.Float64:
		return fv.Float()
	case reflect.Bool:
		return fv.Bool()
	case reflect.String:
		return fv.String()
	case reflect.Slice:
		if fv.Type().Elem().Kind() == reflect.Uint8 {
			if fv.IsNil() {
				return nil
			}

			return bytes.Clone(fv.Bytes())
		}
	}

	return fv.Interface()
}

// assignValue stores a driver value into dst, converting where the driver
// representation differs from the field type.
func assignValue(dst reflect.Value, src any) error {
	if src == nil {
		dst.SetZero()

		return nil
	}

	if dst.Kind() == reflect.Pointer {
		elem := reflect.New(dst.Type().Elem())
		if err := assignValue(elem.Elem(), src); err != nil {
			return err
		}
		dst.Set(elem)

		return nil
	}

	if dst.CanAddr() {
		if scanner, ok := dst.Addr().Interface().(sql.Scanner); ok {
			return errors.WithStack(scanner.Scan(src))
		}
	}

	sv := reflect.ValueOf(src)
	if sv.Type().AssignableTo(dst.Type()) {
		dst.Set(sv)

		return nil
	}

	switch dst.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := toInt64(src)
		if err != nil {
			return err
		}
		dst.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := toInt64(src)
		if err != nil {
			return err
		}
		dst.SetUint(uint64(n))
	case reflect.Float32, reflect.Float64:
		f, err := toFloat64(src)
		if err != nil {
			return err
		}
		dst.SetFloat(f)
	case reflect.Bool:
		switch v := src.(type) {
		case bool:
			dst.SetBool(v)
		case int64:
			dst.SetBool(v != 0)
		case []byte:
			b, err := strconv.ParseBool(string(v))
			if err != nil {
				return errors.Wrapf(ErrMapping, "cannot convert %q to bool", v)
			}
			dst.SetBool(b)
		default:
			return errors.Wrapf(ErrMapping, "cannot convert %T to bool", src)
		}
	case reflect.String:
		switch v := src.(type) {
		case string:
			dst.SetString(v)
		case []byte:
			dst.SetString(string(v))
		default:
			dst.SetString(fmt.Sprint(v))
		}
	case reflect.Struct:
		if dst.Type() != timeType {
			return errors.Wrapf(ErrMapping, "cannot assign %T to %s", src, dst.Type())
		}
		t, err := toTime(src)
		if err != nil {
			return err
		}
		dst.Set(reflect.ValueOf(t))
	case reflect.Slice:
		if dst.Type().Elem().Kind() != reflect.Uint8 {
			return errors.Wrapf(ErrMapping, "cannot assign %T to %s", src, dst.Type())
		}
		switch v := src.(type) {
		case []byte:
			dst.SetBytes(bytes.Clone(v))
		case string:
			dst.SetBytes([]byte(v))
		default:
			return errors.Wrapf(ErrMapping, "cannot assign %T to %s", src, dst.Type())
		}
	default:
		if sv.Type().ConvertibleTo(dst.Type()) {
			dst.Set(sv.Convert(dst.Type()))

			return nil
		}

		return errors.Wrapf(ErrMapping, "cannot assign %T to %s", src, dst.Type())
	}

	return nil
}

func toInt64(src any) (int64, error) {
	switch v := src.(type) {
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case int16:
		return int64(v), nil
	case int8:
		return int64(v), nil
	case uint64:
		return int64(v), nil
	case uint32:
		return int64(v), nil
	case float64:
		return int64(v), nil
	case float32:
		return int64(v), nil
	case bool:
		if v {
			return 1, nil
		}

		return 0, nil
	case []byte:
		return parseInt(string(v))
	case string:
		return parseInt(v)
	}

	return 0, errors.Wrapf(ErrMapping, "cannot convert %T to an integer", src)
}

func parseInt(s string) (int64, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			return 0, errors.Wrapf(ErrMapping, "cannot convert %q to an integer", s)
		}

		return int64(f), nil
	}

	return n, nil
}

func toFloat64(src any) (float64, error) {
	switch v := src.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case []byte:
		return parseFloat(string(v))
	case string:
		return parseFloat(v)
	}

	n, err := toInt64(src)
	if err != nil {
		return 0, err
	}

	return float64(n), nil
}

func parseFloat(s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.Wrapf(ErrMapping, "cannot convert %q to a float", s)
	}

	return f, nil
}

func toTime(src any) (time.Time, error) {
	var s string
	switch v := src.(type) {
	case time.Time:
		return v, nil
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return time.Time{}, errors.Wrapf(ErrMapping, "cannot convert %T to time", src)
	}

	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, errors.Wrapf(ErrMapping, "cannot parse %q as time", s)
}

// equalValues compares two column values as produced by columnValue.
func equalValues(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	switch av := a.(type) {
	case time.Time:
		bv, ok := b.(time.Time)

		return ok && av.Equal(bv)
	case []byte:
		bv, ok := b.([]byte)

		return ok && bytes.Equal(av, bv)
	}

	return reflect.DeepEqual(a, b)
}

// normalizeKey converts a caller- or driver-supplied key into the canonical
// form used by the identity map.
func (m *EntityMeta) normalizeKey(raw any) (any, error) {
	if raw == nil {
		return nil, errors.Wrapf(ErrMapping, "%s: nil key", m.Name)
	}

	tmp := reflect.New(m.ID.Type).Elem()
	if err := assignValue(tmp, raw); err != nil {
		return nil, errors.Wrapf(err, "%s key", m.Name)
	}

	return columnValue(tmp), nil
}

func (m *EntityMeta) keyOf(entity reflect.Value) any {
	return columnValue(entity.FieldByIndex(m.ID.Index))
}

func (m *EntityMeta) hasKey(entity reflect.Value) bool {
	return !entity.FieldByIndex(m.ID.Index).IsZero()
}

func (m *EntityMeta) setKey(entity reflect.Value, raw any) error {
	return assignValue(entity.FieldByIndex(m.ID.Index), raw)
}
