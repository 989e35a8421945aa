package ddl

import (
	"encoding/hex"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind is an abstract column type.
type Kind int

// Supported column kinds.
const (
	Integer Kind = iota + 1
	Text
	Real
	Boolean
	Blob
)

// affinities maps each Kind to the SQLite type affinity it is stored under.
// Booleans are stored as 0/1 integers.
var affinities = map[Kind]string{ //nolint:gochecknoglobals // closed lookup table
	Integer: "INTEGER",
	Text:    "TEXT",
	Real:    "REAL",
	Boolean: "INTEGER",
	Blob:    "BLOB",
}

var kindNames = map[string]Kind{ //nolint:gochecknoglobals // closed lookup table
	"integer": Integer,
	"int":     Integer,
	"text":    Text,
	"string":  Text,
	"real":    Real,
	"float":   Real,
	"boolean": Boolean,
	"bool":    Boolean,
	"blob":    Blob,
	"bytes":   Blob,
}

// Affinity returns the physical SQLite type for k.
func (k Kind) Affinity() (string, error) {
	a, ok := affinities[k]
	if !ok {
		return "", fmt.Errorf("%w: %d", ErrUnsupportedKind, int(k))
	}

	return a, nil
}

// String returns the lowercase kind name.
func (k Kind) String() string {
	switch k {
	case Integer:
		return "integer"
	case Text:
		return "text"
	case Real:
		return "real"
	case Boolean:
		return "boolean"
	case Blob:
		return "blob"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// ParseKind resolves a kind name such as "integer" or "text" (case-insensitive).
func ParseKind(s string) (Kind, error) {
	k, ok := kindNames[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedKind, s)
	}

	return k, nil
}

// Expr is a raw SQL expression used as a column default, e.g.
// Expr("datetime('now')"). It is emitted wrapped in parentheses.
type Expr string

// Quote wraps ident in double quotes, doubling any embedded double quote.
// The identifier is not otherwise validated; the engine has the final say.
func Quote(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}

// quoteList quotes and comma-joins identifiers.
func quoteList(idents []string) string {
	quoted := make([]string, len(idents))
	for i, id := range idents {
		quoted[i] = Quote(id)
	}

	return strings.Join(quoted, ", ")
}

// Literal renders v as a SQL literal.
func Literal(v any) (string, error) {
	switch x := v.(type) {
	case nil:
		return "NULL", nil
	case bool:
		if x {
			return "1", nil
		}
		return "0", nil
	case int:
		return strconv.FormatInt(int64(x), 10), nil
	case int8:
		return strconv.FormatInt(int64(x), 10), nil
	case int16:
		return strconv.FormatInt(int64(x), 10), nil
	case int32:
		return strconv.FormatInt(int64(x), 10), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case uint:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint8:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint16:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint32:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint64:
		return strconv.FormatUint(x, 10), nil
	case float32:
		return formatFloat(float64(x), 32)
	case float64:
		return formatFloat(x, 64)
	case string:
		return "'" + strings.ReplaceAll(x, "'", "''") + "'", nil
	case []byte:
		return "X'" + hex.EncodeToString(x) + "'", nil
	case Expr:
		return "(" + string(x) + ")", nil
	default:
		return "", fmt.Errorf("%w: %T", ErrUnsupportedLiteral, v)
	}
}

func formatFloat(f float64, bits int) (string, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", fmt.Errorf("%w: %v", ErrUnsupportedLiteral, f)
	}

	return strconv.FormatFloat(f, 'g', -1, bits), nil
}
