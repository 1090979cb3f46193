package template

import (
	"encoding/json"
	"html/template"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/Masterminds/sprig/v3"
	"github.com/shopspring/decimal"
)

const dateLayout = "02 Jan 2006"

func funcMap(ctx *Context) template.FuncMap {
	fm := sprig.FuncMap()
	fm["env"] = ctx.envFunc()
	fm["money"] = money
	fm["day"] = day
	fm["toJSON"] = toJSON
	fm["safeGet"] = safeGet
	fm["safeGetOr"] = safeGetOr
	return fm
}

func (c *Context) envFunc() func(string) string {
	if c == nil || c.Env == nil {
		return func(string) string { return "" }
	}
	return c.Env
}

// money formats an amount with two decimals and an optional currency code
func money(d decimal.Decimal, currency ...string) string {
	s := d.StringFixed(2)
	if len(currency) > 0 && currency[0] != "" {
		return currency[0] + " " + s
	}
	return s
}

// day formats a date, or "-" for nil and zero values
func day(v any) string {
	switch t := v.(type) {
	case time.Time:
		if t.IsZero() {
			return "-"
		}
		return t.Format(dateLayout)
	case *time.Time:
		if t == nil || t.IsZero() {
			return "-"
		}
		return t.Format(dateLayout)
	default:
		return "-"
	}
}

func toJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// safeGet returns the value at a dot-separated path from a nested structure.
// Signature: safeGet(path string, data any) any
//
// Struct fields are matched by exact name, maps by string key and slices by
// numeric index. Pointers and interfaces are unwrapped at each step. Any nil,
// missing or out of range step yields nil.
//
//	{{ safeGet "Voucher.Reference" . }}
//	{{ safeGet "Items.Rooms.0.RoomType" . }}
func safeGet(path string, data any) any {
	parts := strings.Split(path, ".")
	val := reflect.ValueOf(data)

	for _, p := range parts {
		val = unwrap(val)
		if !val.IsValid() {
			return nil
		}

		switch val.Kind() {
		case reflect.Struct:
			val = val.FieldByName(p)
		case reflect.Map:
			val = val.MapIndex(reflect.ValueOf(p))
		case reflect.Slice, reflect.Array:
			idx, err := strconv.Atoi(p)
			if err != nil || idx < 0 || idx >= val.Len() {
				return nil
			}
			val = val.Index(idx)
		default:
			return nil
		}
		if !val.IsValid() {
			return nil
		}
	}

	val = unwrap(val)
	if !val.IsValid() {
		return nil
	}
	return val.Interface()
}

func unwrap(val reflect.Value) reflect.Value {
	for val.IsValid() && (val.Kind() == reflect.Ptr || val.Kind() == reflect.Interface) {
		if val.IsNil() {
			return reflect.Value{}
		}
		val = val.Elem()
	}
	return val
}

// safeGetOr is like safeGet but returns a default value if result is nil.
// Example: safeGetOr("Voucher.Reference", data, "pending")
func safeGetOr(path string, data any, def any) any {
	v := safeGet(path, data)
	if v == nil {
		return def
	}
	return v
}
