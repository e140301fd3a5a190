package sources

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/anatolykoptev/go_youtube/internal/engine"
)

// maxErrorRunes caps the upstream error text carried in a partial envelope.
const maxErrorRunes = 300

// Envelope pairs the collected records with the upstream's total match count.
// TotalResults is advisory and may exceed len(Records).
type Envelope[T Record] struct {
	TotalResults int64
	Records      []T
	Partial      bool
	Error        string
}

// NewEnvelope wraps records. A nil slice becomes empty so it serializes as [].
func NewEnvelope[T Record](total int64, records []T) Envelope[T] {
	if records == nil {
		records = []T{}
	}
	return Envelope[T]{TotalResults: total, Records: records}
}

// WithError marks the envelope as a partial result aborted by err.
func (e Envelope[T]) WithError(err error) Envelope[T] {
	e.Partial = true
	if err != nil {
		e.Error = engine.TruncateRunes(err.Error(), maxErrorRunes, "...")
	}
	return e
}

// Len returns the number of records.
func (e Envelope[T]) Len() int { return len(e.Records) }

// MarshalJSON writes {"total_results":N,"<kind>":[...]} with partial/error
// appended only for partial results.
func (e Envelope[T]) MarshalJSON() ([]byte, error) {
	var kind T
	records := e.Records
	if records == nil {
		records = []T{}
	}
	body, err := json.Marshal(records)
	if err != nil {
		return nil, err
	}
	key, err := json.Marshal(string(kind.Kind()))
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteString(`{"total_results":`)
	buf.WriteString(strconv.FormatInt(e.TotalResults, 10))
	buf.WriteByte(',')
	buf.Write(key)
	buf.WriteByte(':')
	buf.Write(body)
	if e.Partial {
		msg, err := json.Marshal(e.Error)
		if err != nil {
			return nil, err
		}
		buf.WriteString(`,"partial":true,"error":`)
		buf.Write(msg)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
