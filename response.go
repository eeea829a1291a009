package phpipam

import (
	"encoding/json"
	"net/http"

	"github.com/cockroachdb/errors"
)

// Record is one phpIPAM entity (device, subnet, address, vlan, ...) as
// returned by the API: a mapping from field name to decoded JSON value.
// The identity field is conventionally "id" but is not guaranteed present
// before the entity has been created.
type Record map[string]any

// Response is the raw result of one HTTP call: status, headers, and the
// fully read body. Verb calls return it without any status checking.
type Response struct {
	Method     string
	URL        string
	StatusCode int
	Header     http.Header
	Body       []byte
}

// IsSuccess reports whether the status code is in the 2xx range.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// StatusErr returns an *APIError when the response has a non-success
// status, nil otherwise.
func (r *Response) StatusErr() error {
	if r.IsSuccess() {
		return nil
	}
	return &APIError{
		Method:     r.Method,
		URL:        r.URL,
		StatusCode: r.StatusCode,
		Body:       r.Body,
	}
}

// envelope is the phpIPAM REST response wrapper. The data field holds
// either a single record or a list of records.
type envelope struct {
	Code    int             `json:"code"`
	Success any             `json:"success"` // the API reports both bool and 0/1
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data"`
}

// Decode unmarshals the whole response body into v.
func (r *Response) Decode(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return errors.Wrapf(err, "decoding %s %s response", r.Method, r.URL)
	}
	return nil
}

// DecodeData unmarshals the envelope's data field into v.
func (r *Response) DecodeData(v any) error {
	var env envelope
	if err := r.Decode(&env); err != nil {
		return err
	}
	if len(env.Data) == 0 {
		return errors.Newf("phpipam: %s %s response has no data field", r.Method, r.URL)
	}
	if err := json.Unmarshal(env.Data, v); err != nil {
		return errors.Wrapf(err, "decoding %s %s data field", r.Method, r.URL)
	}
	return nil
}

// DecodeRecord decodes the envelope's data field as a single record.
func (r *Response) DecodeRecord() (Record, error) {
	var rec Record
	if err := r.DecodeData(&rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// DecodeRecords decodes the envelope's data field as a list of records.
// A null or absent data field decodes as an empty list: phpIPAM omits data
// entirely for empty collections.
func (r *Response) DecodeRecords() ([]Record, error) {
	var env envelope
	if err := r.Decode(&env); err != nil {
		return nil, err
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return []Record{}, nil
	}
	var records []Record
	if err := json.Unmarshal(env.Data, &records); err != nil {
		return nil, errors.Wrapf(err, "decoding %s %s data field", r.Method, r.URL)
	}
	return records, nil
}
