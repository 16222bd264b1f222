package gotemplate

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/flosch/pongo2/v6"
)

// FilterFunc is the engine-neutral filter signature.
type FilterFunc func(input any, param any) (any, error)

func adaptFilter(fn FilterFunc) pongo2.FilterFunction {
	return func(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
		var arg any
		if param != nil {
			arg = param.Interface()
		}
		result, err := fn(in.Interface(), arg)
		if err != nil {
			return nil, &pongo2.Error{Sender: "filter", OrigError: err}
		}
		return pongo2.AsValue(result), nil
	}
}

// filterDecimal prints numbers without trailing zeros: 0.05, not 0.050000.
func filterDecimal(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	if !in.IsNumber() {
		return pongo2.AsValue(in.String()), nil
	}
	return pongo2.AsValue(strconv.FormatFloat(in.Float(), 'f', -1, 64)), nil
}

// filterUnit appends a range unit. Word units ("mm/h", "km") are separated by
// a space; single-rune units ("%", "x", "m") are not.
func filterUnit(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	value := in.String()
	if in.IsNumber() {
		value = strconv.FormatFloat(in.Float(), 'f', -1, 64)
	}
	if param == nil {
		return pongo2.AsValue(value), nil
	}
	unit := strings.TrimSpace(param.String())
	if unit == "" {
		return pongo2.AsValue(value), nil
	}
	runes := []rune(unit)
	if len(runes) > 1 && unicode.IsLetter(runes[0]) {
		return pongo2.AsValue(value + " " + unit), nil
	}
	return pongo2.AsValue(value + unit), nil
}
