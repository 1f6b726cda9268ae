package httpadapter

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"

	"github.com/kirillkom/summary-service/internal/core/domain"
)

var jsonNull = []byte("null")

// decodeObject reads a JSON object body, keeping each value raw so presence and type can
// be validated separately.
func decodeObject(w http.ResponseWriter, r *http.Request, limit int64) (map[string]json.RawMessage, error) {
	body := http.MaxBytesReader(w, r.Body, limit)
	var fields map[string]json.RawMessage
	if err := json.NewDecoder(body).Decode(&fields); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, domain.WrapError(domain.ErrPayloadTooLarge, "decode body", err)
		}
		return nil, domain.Invalid(msgBadRequestBody)
	}
	if fields == nil {
		return nil, domain.Invalid(msgBadRequestBody)
	}
	return fields, nil
}

func missingFields(fields map[string]json.RawMessage, names ...string) error {
	var missing []string
	for _, name := range names {
		if _, ok := fields[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return domain.Invalid("Missing fields: %s", strings.Join(missing, ", "))
	}
	return nil
}

func invalidFields(names []string) error {
	return domain.Invalid("Invalid fields: %s", strings.Join(names, ", "))
}

func rawString(raw json.RawMessage) (string, bool) {
	if bytes.Equal(bytes.TrimSpace(raw), jsonNull) {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

func rawNumber(raw json.RawMessage) (float64, bool) {
	if bytes.Equal(bytes.TrimSpace(raw), jsonNull) {
		return 0, false
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0, false
	}
	return f, true
}

// rawSize accepts a non-negative integral JSON number.
func rawSize(raw json.RawMessage) (int, bool) {
	f, ok := rawNumber(raw)
	if !ok || f < 0 || f != math.Trunc(f) || f > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

// parseSizes returns the names of size fields that are not non-negative integers.
func parseSizes(minRaw, maxRaw json.RawMessage) (int, int, []string) {
	var bad []string
	minSize, ok := rawSize(minRaw)
	if !ok {
		bad = append(bad, "minsize")
	}
	maxSize, ok := rawSize(maxRaw)
	if !ok {
		bad = append(bad, "maxsize")
	}
	return minSize, maxSize, bad
}

func readLimited(r io.Reader, limit int64) ([]byte, error) {
	raw, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(raw)) > limit {
		return nil, domain.WrapError(domain.ErrPayloadTooLarge, "read upload", fmt.Errorf("upload exceeds %d bytes", limit))
	}
	return raw, nil
}
