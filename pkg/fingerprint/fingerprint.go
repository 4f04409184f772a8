/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package fingerprint

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"math"
	"regexp"
	"strings"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// Normalize rewrites a decoded JSON tree into its canonical form: string
// values are trimmed and internal whitespace runs collapse to a single
// space, non-finite numbers become null, array order is preserved.
// Object key ordering is handled at serialization time.
func Normalize(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		result := make(map[string]interface{}, len(val))
		for k, item := range val {
			result[k] = Normalize(item)
		}
		return result
	case []interface{}:
		result := make([]interface{}, 0, len(val))
		for _, item := range val {
			result = append(result, Normalize(item))
		}
		return result
	case string:
		return whitespaceRun.ReplaceAllString(strings.TrimSpace(val), " ")
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return nil
		}
		return val
	default:
		return v
	}
}

// Canonical serializes the normalized payload as canonical JSON prefixed
// with the job class name. encoding/json emits object keys in lexicographic
// order, which gives the key-order independence the digest relies on.
func Canonical(class string, payload interface{}) ([]byte, error) {
	data, err := json.Marshal(Normalize(payload))
	if err != nil {
		return nil, err
	}
	buf := bytes.NewBufferString(class)
	buf.Write(data)
	return buf.Bytes(), nil
}

// Compute returns the hex SHA-256 digest of (class, payload). The digest is
// a pure function of the job class and the normalized payload.
func Compute(class string, payload interface{}) (string, error) {
	data, err := Canonical(class, payload)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// ComputeRaw decodes a raw JSON payload and computes its digest. Numbers are
// decoded with json.Number so that their textual form survives the
// normalize-marshal round trip.
func ComputeRaw(class string, raw json.RawMessage) (string, error) {
	var v interface{}
	if len(raw) > 0 {
		d := json.NewDecoder(bytes.NewReader(raw))
		d.UseNumber()
		if err := d.Decode(&v); err != nil {
			return "", err
		}
	}
	return Compute(class, v)
}

// NormalizeRaw returns the canonical JSON serialization of a raw payload.
func NormalizeRaw(raw json.RawMessage) (json.RawMessage, error) {
	var v interface{}
	if len(raw) > 0 {
		d := json.NewDecoder(bytes.NewReader(raw))
		d.UseNumber()
		if err := d.Decode(&v); err != nil {
			return nil, err
		}
	}
	return json.Marshal(Normalize(v))
}
