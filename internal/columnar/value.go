package columnar

import (
	"math/big"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/format"
	"golang.org/x/text/encoding/unicode"
)

const secondsPerDay = 24 * 60 * 60

// renderValue returns the display form of a leaf value. The column's logical
// type, when it has one, decides how the physical value is read: dates,
// timestamps and times print as calendar text, decimals apply their scale and
// unsigned integers print without a sign. Byte arrays are read as UTF-8 with
// each invalid byte replaced by U+FFFD.
func renderValue(v parquet.Value, logical *format.LogicalType, null string) string {
	if v.IsNull() {
		return null
	}
	if logical != nil {
		if s, ok := renderLogical(v, logical); ok {
			return s
		}
	}

	switch v.Kind() {
	case parquet.Boolean:
		return strconv.FormatBool(v.Boolean())
	case parquet.Int32:
		return strconv.FormatInt(int64(v.Int32()), 10)
	case parquet.Int64:
		return strconv.FormatInt(v.Int64(), 10)
	case parquet.Int96:
		return v.Int96().String()
	case parquet.Float:
		return strconv.FormatFloat(float64(v.Float()), 'f', -1, 32)
	case parquet.Double:
		return strconv.FormatFloat(v.Double(), 'f', -1, 64)
	case parquet.ByteArray, parquet.FixedLenByteArray:
		return lossyUTF8(v.ByteArray())
	default:
		return v.String()
	}
}

// renderLogical reports false when the logical type does not apply to the
// value's physical kind, leaving it to the physical rendering.
func renderLogical(v parquet.Value, logical *format.LogicalType) (string, bool) {
	switch kind := v.Kind(); {
	case logical.Integer != nil && !logical.Integer.IsSigned:
		switch kind {
		case parquet.Int32:
			return strconv.FormatUint(uint64(uint32(v.Int32())), 10), true
		case parquet.Int64:
			return strconv.FormatUint(uint64(v.Int64()), 10), true
		}
	case logical.Date != nil && kind == parquet.Int32:
		return time.Unix(int64(v.Int32())*secondsPerDay, 0).UTC().Format(time.DateOnly), true
	case logical.Timestamp != nil && kind == parquet.Int64:
		return renderTimestamp(v.Int64(), logical.Timestamp), true
	case logical.Time != nil:
		var d time.Duration
		switch kind {
		case parquet.Int32:
			d = time.Duration(v.Int32()) * time.Millisecond
		case parquet.Int64:
			d = time.Duration(v.Int64()) * unitDuration(logical.Time.Unit)
		default:
			return "", false
		}
		return time.Time{}.Add(d).Format("15:04:05.999999999"), true
	case logical.Decimal != nil:
		return renderDecimal(v, int(logical.Decimal.Scale))
	case logical.UUID != nil && kind == parquet.FixedLenByteArray:
		id, err := uuid.FromBytes(v.ByteArray())
		if err != nil {
			return "", false
		}
		return id.String(), true
	}
	return "", false
}

// renderTimestamp prints RFC 3339 text. Timestamps not adjusted to UTC are
// local wall-clock values and print without a zone.
func renderTimestamp(n int64, ts *format.TimestampType) string {
	var t time.Time
	switch {
	case ts.Unit.Millis != nil:
		t = time.UnixMilli(n)
	case ts.Unit.Micros != nil:
		t = time.UnixMicro(n)
	default:
		t = time.Unix(0, n)
	}
	t = t.UTC()
	if !ts.IsAdjustedToUTC {
		return t.Format("2006-01-02T15:04:05.999999999")
	}
	return t.Format(time.RFC3339Nano)
}

func unitDuration(unit format.TimeUnit) time.Duration {
	switch {
	case unit.Millis != nil:
		return time.Millisecond
	case unit.Micros != nil:
		return time.Microsecond
	default:
		return time.Nanosecond
	}
}

// renderDecimal reads the unscaled integer from an int32, int64 or a
// big-endian two's complement byte array.
func renderDecimal(v parquet.Value, scale int) (string, bool) {
	var unscaled *big.Int
	switch v.Kind() {
	case parquet.Int32:
		unscaled = big.NewInt(int64(v.Int32()))
	case parquet.Int64:
		unscaled = big.NewInt(v.Int64())
	case parquet.ByteArray, parquet.FixedLenByteArray:
		b := v.ByteArray()
		unscaled = new(big.Int).SetBytes(b)
		if len(b) > 0 && b[0]&0x80 != 0 {
			unscaled.Sub(unscaled, new(big.Int).Lsh(big.NewInt(1), uint(8*len(b))))
		}
	default:
		return "", false
	}
	return formatDecimal(unscaled, scale), true
}

func formatDecimal(unscaled *big.Int, scale int) string {
	digits := new(big.Int).Abs(unscaled).String()
	if scale > 0 {
		if len(digits) <= scale {
			digits = strings.Repeat("0", scale-len(digits)+1) + digits
		}
		digits = digits[:len(digits)-scale] + "." + digits[len(digits)-scale:]
	}
	if unscaled.Sign() < 0 {
		return "-" + digits
	}
	return digits
}

// lossyUTF8 replaces every byte that does not start a valid sequence with
// U+FFFD.
func lossyUTF8(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	out, err := unicode.UTF8.NewDecoder().Bytes(b)
	if err != nil {
		return strings.ToValidUTF8(string(b), "\uFFFD")
	}
	return string(out)
}
