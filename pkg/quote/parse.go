package quote

import (
	"strconv"
	"strings"
)

const (
	// MaxFields caps how many '~' separated fields are collected. The last
	// collected field keeps the unsplit remainder of the body.
	MaxFields = 80
	// MinFields is the smallest field count that reaches every mapped index
	// below idxAmount.
	MinFields = 35

	delimiter = "~"
)

// Positional layout of the upstream record.
const (
	idxName      = 1
	idxCode      = 2
	idxLast      = 3
	idxPrevClose = 4
	idxOpen      = 5
	idxVolume    = 6
	idxTimestamp = 30
	idxChange    = 31
	idxChangePct = 32
	idxHigh      = 33
	idxLow       = 34
	idxAmount    = 37
)

// Parse turns a raw quote payload of the form
//
//	v_sz000001="51~NAME~000001~10.50~10.40~...";
//
// into a Quote. The returned error is always a *ParseError.
func Parse(symbol, payload string) (Quote, error) {
	body, ok := quotedBody(payload)
	if !ok {
		return Quote{}, &ParseError{Kind: ErrMalformedPayload}
	}

	fields := splitFields(body)
	if len(fields) < MinFields {
		return Quote{}, &ParseError{Kind: ErrTooFewFields, Fields: len(fields)}
	}
	field := func(i int) string {
		if i < len(fields) {
			return fields[i]
		}
		return ""
	}

	q := Quote{
		Symbol:       symbol,
		Code:         field(idxCode),
		Name:         field(idxName),
		Last:         parseNumber(field(idxLast)),
		PrevClose:    parseNumber(field(idxPrevClose)),
		Open:         parseNumber(field(idxOpen)),
		Volume:       parseCount(field(idxVolume)),
		TimestampRaw: field(idxTimestamp),
		Change:       parseNumber(field(idxChange)),
		ChangePct:    parseNumber(field(idxChangePct)),
		High:         parseNumber(field(idxHigh)),
		Low:          parseNumber(field(idxLow)),
		Amount:       Missing(),
	}
	if len(fields) > idxAmount {
		q.Amount = parseNumber(fields[idxAmount])
	}

	if q.Code == "" {
		q.Code = symbol
	}
	if !printableASCII(q.Name) {
		q.Name = q.Code
	}

	if IsMissing(q.Change) && !IsMissing(q.Last) && !IsMissing(q.PrevClose) {
		q.Change = q.Last - q.PrevClose
	}
	if IsMissing(q.ChangePct) && !IsMissing(q.Change) && !IsMissing(q.PrevClose) && q.PrevClose != 0 {
		q.ChangePct = q.Change / q.PrevClose * 100
	}

	q.TimestampDisplay = formatTimestamp(q.TimestampRaw)

	if !q.Valid() {
		return Quote{}, &ParseError{Kind: ErrInvalidLastPrice}
	}
	return q, nil
}

// quotedBody returns the text strictly between the first and last '"'.
// splitFields splits body on '~' into at most MaxFields slots; the last
// slot keeps the unsplit remainder.
func splitFields(body string) []string {
	return strings.SplitN(body, delimiter, MaxFields)
}

func quotedBody(payload string) (string, bool) {
	first := strings.IndexByte(payload, '"')
	last := strings.LastIndexByte(payload, '"')
	if first < 0 || last <= first+1 {
		return "", false
	}
	return payload[first+1 : last], true
}

// parseNumber reads the longest decimal prefix of s, ignoring leading
// spaces. Empty input, input without a numeric prefix, and non-finite
// results yield the missing sentinel.
func parseNumber(s string) float64 {
	s = strings.TrimLeft(s, " \t")
	n := numericPrefix(s)
	if n == 0 {
		return Missing()
	}
	v, err := strconv.ParseFloat(s[:n], 64)
	if err != nil {
		return Missing()
	}
	return v
}

// numericPrefix returns the length of the leading [+-]d*[.d*][(e|E)[+-]d+]
// run in s, or 0 when it contains no digit.
func numericPrefix(s string) int {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isDigit(s[i]) {
			i++
			digits++
		}
	}
	if digits == 0 {
		return 0
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		k := j
		for k < len(s) && isDigit(s[k]) {
			k++
		}
		if k > j {
			i = k
		}
	}
	return i
}

// parseCount reads the leading unsigned decimal run of s. Anything else,
// including overflow, is zero.
func parseCount(s string) uint64 {
	s = strings.TrimLeft(s, " \t")
	s = strings.TrimPrefix(s, "+")
	n := 0
	for n < len(s) && isDigit(s[n]) {
		n++
	}
	if n == 0 {
		return 0
	}
	v, err := strconv.ParseUint(s[:n], 10, 64)
	if err != nil {
		return 0
	}
	return v
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func printableASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 32 || s[i] > 126 {
			return false
		}
	}
	return true
}

// formatTimestamp turns 20240102150405 into 2024-01-02 15:04:05. Shorter
// input is returned unchanged.
func formatTimestamp(raw string) string {
	if len(raw) < 14 {
		return raw
	}
	var b strings.Builder
	b.Grow(19)
	b.WriteString(raw[0:4])
	b.WriteByte('-')
	b.WriteString(raw[4:6])
	b.WriteByte('-')
	b.WriteString(raw[6:8])
	b.WriteByte(' ')
	b.WriteString(raw[8:10])
	b.WriteByte(':')
	b.WriteString(raw[10:12])
	b.WriteByte(':')
	b.WriteString(raw[12:14])
	return b.String()
}
