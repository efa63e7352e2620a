package extract

import (
	"math"
	"strconv"
	"strings"
)

// siMultipliers maps an SI suffix (lowercase) to its multiplier. "meg" is
// checked before the single-letter suffixes since it would otherwise be
// read as the single-letter "m" (milli) suffix plus two stray characters.
var siMultipliers = map[string]float64{
	"meg": 1e6,
	"t":   1e12,
	"g":   1e9,
	"k":   1e3,
	"m":   1e-3,
	"u":   1e-6,
	"n":   1e-9,
	"p":   1e-12,
}

// IsExpression reports whether raw parameter text requires a SPICE
// expression evaluator rather than being a plain number or opaque string.
//
// A lone leading sign immediately followed by a digit or '.' is treated as
// part of a signed number, not an operator ("vth=-0.7" classifies as
// numeric), and so is the sign of a decimal exponent directly after a
// digit or '.' ("1.4e-8"). Any other appearance of '+' or '-' —
// embedded, repeated, or not immediately followed by a digit — is an
// expression, along with any parenthesis, comma, '*', or '/', and any text
// beginning with a reserved function name.
func IsExpression(raw string) bool {
	core := strings.TrimSpace(raw)
	if core == "" {
		return false
	}
	if len(core) >= 2 && (core[0] == '\'' || core[0] == '"') && core[len(core)-1] == core[0] {
		core = core[1 : len(core)-1]
	}
	core = strings.TrimSpace(core)
	if core == "" {
		return false
	}

	for _, ch := range []byte{'(', ')', '*', '/', ','} {
		if strings.IndexByte(core, ch) >= 0 {
			return true
		}
	}

	signs := 0
	for i := 0; i < len(core); i++ {
		if core[i] != '+' && core[i] != '-' {
			continue
		}
		exponentSign := i >= 2 && (core[i-1] == 'e' || core[i-1] == 'E') &&
			(isDigit(core[i-2]) || core[i-2] == '.') &&
			i+1 < len(core) && isDigit(core[i+1])
		if !exponentSign {
			signs++
		}
	}
	if signs > 0 {
		leadingSign := (core[0] == '+' || core[0] == '-') &&
			len(core) > 1 && (isDigit(core[1]) || core[1] == '.')
		if !leadingSign || signs > 1 {
			return true
		}
	}

	lower := strings.ToLower(core)
	for _, fn := range reservedFunctionNames {
		if !strings.HasPrefix(lower, fn) {
			continue
		}
		rest := lower[len(fn):]
		if rest == "" {
			continue
		}
		if rest[0] == ' ' || rest[0] == '\t' {
			return true
		}
	}

	return false
}

// reservedFunctionNames are SPICE expression function names that signal an
// expression even when written without parentheses directly adjacent
// (e.g. "table 1 2 3").
var reservedFunctionNames = []string{
	"table", "max", "min", "abs", "sqrt", "pow", "exp", "log", "if",
}

// Classify turns a single parameter's raw source text (the text exactly as
// it appeared, after case normalization, including any SI suffix) into a
// ParameterValue. Text that requires expression evaluation is kept as an
// opaque string; everything else is parsed as a number if possible, and
// falls back to an opaque string otherwise.
func Classify(raw string) ParameterValue {
	if IsExpression(raw) {
		return ParameterValue{Raw: raw, Kind: ValueString}
	}
	if v, ok := parseNumeric(raw); ok {
		return ParameterValue{Raw: raw, Kind: ValueNumeric, Scaled: v}
	}
	return ParameterValue{Raw: raw, Kind: ValueString}
}

// parseNumeric parses raw as a number, applying an SI suffix multiplier if
// one is present.
func parseNumeric(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	lower := strings.ToLower(s)

	if strings.HasSuffix(lower, "meg") && len(s) > 3 {
		if v, ok := parseFinite(s[:len(s)-3]); ok {
			return v * siMultipliers["meg"], true
		}
	}

	last := lower[len(lower)-1]
	if mult, ok := siMultipliers[string(last)]; ok && len(s) > 1 {
		if v, ok := parseFinite(s[:len(s)-1]); ok {
			return v * mult, true
		}
	}

	return parseFinite(s)
}

func parseFinite(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
