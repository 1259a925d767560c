package journal

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"unicode/utf16"

	"golang.org/x/text/unicode/norm"
)

// MarshalCanonical encodes v as canonical JSON: object keys sorted by UTF-16
// code units, strings NFC-normalized, no HTML escaping, no insignificant
// whitespace. Supported values are string, bool, int, int64, []any and
// map[string]any. Floats and nil are rejected so equal commands always encode
// to equal bytes.
func MarshalCanonical(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeCanonical(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeCanonical(buf *bytes.Buffer, v any) error {
	switch val := v.(type) {
	case nil:
		return fmt.Errorf("canonical json: null is not allowed")
	case string:
		return writeString(buf, val)
	case bool:
		if val {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case int:
		fmt.Fprintf(buf, "%d", val)
	case int64:
		fmt.Fprintf(buf, "%d", val)
	case []any:
		buf.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeCanonical(buf, elem); err != nil {
				return fmt.Errorf("[%d]: %w", i, err)
			}
		}
		buf.WriteByte(']')
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool { return lessUTF16(keys[i], keys[j]) })
		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeString(buf, k); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := writeCanonical(buf, val[k]); err != nil {
				return fmt.Errorf("%q: %w", k, err)
			}
		}
		buf.WriteByte('}')
	case float32, float64:
		return fmt.Errorf("canonical json: float %v is not allowed", val)
	default:
		return fmt.Errorf("canonical json: unsupported type %T", v)
	}
	return nil
}

func writeString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(norm.NFC.String(s)); err != nil {
		return err
	}
	// Encode appends a newline.
	buf.Write(bytes.TrimSuffix(tmp.Bytes(), []byte{'\n'}))
	return nil
}

func lessUTF16(a, b string) bool {
	ua, ub := utf16.Encode([]rune(a)), utf16.Encode([]rune(b))
	for i := 0; i < len(ua) && i < len(ub); i++ {
		if ua[i] != ub[i] {
			return ua[i] < ub[i]
		}
	}
	return len(ua) < len(ub)
}

// domainEntry separates entry ids from any other hash of the same bytes.
const domainEntry = "cadnano/journal-entry/v1"

// EntryID is the content address of a journal row:
// SHA-256(domain || 0x00 || canonical({session, seq, op, args})).
func EntryID(session string, seq int64, op, args string) (string, error) {
	canonical, err := MarshalCanonical(map[string]any{
		"session": session,
		"seq":     seq,
		"op":      op,
		"args":    args,
	})
	if err != nil {
		return "", fmt.Errorf("entry id: %w", err)
	}
	h := sha256.New()
	h.Write([]byte(domainEntry))
	h.Write([]byte{0x00})
	h.Write(canonical)
	return hex.EncodeToString(h.Sum(nil)), nil
}
