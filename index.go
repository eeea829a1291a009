package phpipam

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// Catalog is a locally built index from a chosen key to full records,
// snapshotted at the time of GetCatalog. It goes stale the moment the
// remote collection is mutated; re-fetch to refresh.
type Catalog map[string]Record

// Lookup returns the record stored under key. A missing key yields
// (nil, false), never an error.
func (c Catalog) Lookup(key string) (Record, bool) {
	rec, ok := c[key]
	return rec, ok
}

// KeySpec describes how to derive a catalog key from a record. It is a
// closed variant: exactly one of field name, field tuple, or derivation
// function. The zero value is invalid and rejected by BuildIndex.
type KeySpec struct {
	field  string
	fields []string
	fn     func(Record) (string, error)
}

// KeyField indexes by the value of a single field.
func KeyField(name string) KeySpec {
	return KeySpec{field: name}
}

// KeyFields indexes by the composite of several field values, preserving
// order. Use CompositeKey with the same values to look entries up.
func KeyFields(names ...string) KeySpec {
	return KeySpec{fields: names}
}

// KeyFunc indexes by the return value of fn.
func KeyFunc(fn func(Record) (string, error)) KeySpec {
	return KeySpec{fn: fn}
}

func (k KeySpec) isZero() bool {
	return k.field == "" && len(k.fields) == 0 && k.fn == nil
}

// compositeKeySep joins tuple key parts. The unit separator cannot occur
// in phpIPAM field values, so joined keys are unambiguous.
const compositeKeySep = "\x1f"

// CompositeKey builds the catalog key for a tuple of field values, in the
// same way BuildIndex does for a KeyFields spec.
func CompositeKey(values ...string) string {
	return strings.Join(values, compositeKeySep)
}

func (k KeySpec) keyFor(rec Record) (string, error) {
	switch {
	case k.field != "":
		return fieldString(rec, k.field)
	case len(k.fields) > 0:
		parts := make([]string, len(k.fields))
		for i, name := range k.fields {
			v, err := fieldString(rec, name)
			if err != nil {
				return "", err
			}
			parts[i] = v
		}
		return CompositeKey(parts...), nil
	case k.fn != nil:
		return k.fn(rec)
	default:
		return "", errors.WithStack(ErrInvalidKeySpec)
	}
}

// BuildIndex builds a Catalog from an ordered sequence of records and a key
// specification. When two records compute the same key, the later one wins;
// this silently drops the earlier record and is a known hazard of keying on
// non-unique fields. Pure function: no side effects, no network.
func BuildIndex(records []Record, key KeySpec) (Catalog, error) {
	if key.isZero() {
		return nil, errors.WithStack(ErrInvalidKeySpec)
	}

	catalog := make(Catalog, len(records))
	for _, rec := range records {
		k, err := key.keyFor(rec)
		if err != nil {
			return nil, err
		}
		catalog[k] = rec
	}
	return catalog, nil
}

// fieldString renders a record field as a catalog key. phpIPAM serves most
// values as strings, but numeric and boolean fields appear in some
// responses.
func fieldString(rec Record, name string) (string, error) {
	v, ok := rec[name]
	if !ok {
		return "", errors.Newf("record has no field %q", name)
	}

	switch v := v.(type) {
	case string:
		return v, nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(v), nil
	case json.Number:
		return v.String(), nil
	case nil:
		return "", nil
	default:
		return fmt.Sprint(v), nil
	}
}
