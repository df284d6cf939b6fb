package memory

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"donorledger/pkg/domain"
)

// EncodeBuckets serializes each snapshot bucket independently as JSON, keyed
// by bucket name. Durable backends store the result as a flat key/value map.
func EncodeBuckets(snapshot Snapshot) (map[string][]byte, error) {
	values := map[string]any{
		domain.BucketDonors:         nonNil(snapshot.Donors),
		domain.BucketDonations:      nonNil(snapshot.Donations),
		domain.BucketInventory:      nonNil(snapshot.Inventory),
		domain.BucketNextDonorID:    snapshot.NextDonorID,
		domain.BucketNextDonationID: snapshot.NextDonationID,
	}
	out := make(map[string][]byte, len(values))
	for _, bucket := range domain.Buckets() {
		data, err := json.Marshal(values[bucket])
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", bucket, err)
		}
		out[bucket] = data
	}
	return out, nil
}

// DecodeBuckets rebuilds a snapshot from raw bucket payloads. Missing or
// empty payloads leave the bucket absent so the store applies its default;
// unknown buckets are ignored. A malformed collection bucket is an error,
// while a counter bucket is read with DecodeCounter and never fails.
func DecodeBuckets(raw map[string][]byte) (Snapshot, error) {
	var snapshot Snapshot
	targets := map[string]any{
		domain.BucketDonors:    &snapshot.Donors,
		domain.BucketDonations: &snapshot.Donations,
		domain.BucketInventory: &snapshot.Inventory,
	}
	counters := map[string]*ID{
		domain.BucketNextDonorID:    &snapshot.NextDonorID,
		domain.BucketNextDonationID: &snapshot.NextDonationID,
	}
	for bucket, payload := range raw {
		if counter, ok := counters[bucket]; ok {
			*counter = DecodeCounter(payload)
			continue
		}
		target, ok := targets[bucket]
		if !ok || len(payload) == 0 {
			continue
		}
		if err := json.Unmarshal(payload, target); err != nil {
			return Snapshot{}, fmt.Errorf("decode %s: %w", bucket, err)
		}
	}
	return snapshot, nil
}

// DecodeCounter reads the leading integer of a counter payload, which may be
// a JSON number or a JSON string ("7", "7abc" and 7.5 all yield 7). Payloads
// without a leading integer, values that overflow, and values below 1 yield
// 0, which the store treats as an absent counter.
func DecodeCounter(payload []byte) ID {
	text := string(bytes.TrimSpace(payload))
	if strings.HasPrefix(text, `"`) {
		var s string
		if err := json.Unmarshal(payload, &s); err == nil {
			text = s
		} else {
			text = strings.Trim(text, `"`)
		}
	}
	n, err := strconv.Atoi(leadingInteger(text))
	if err != nil || n < 1 {
		return 0
	}
	return ID(n)
}

// leadingInteger returns the optional sign and the digits that start text
// after leading whitespace.
func leadingInteger(text string) string {
	text = strings.TrimLeft(text, " \t\r\n")
	end := 0
	if end < len(text) && (text[end] == '+' || text[end] == '-') {
		end++
	}
	start := end
	for end < len(text) && text[end] >= '0' && text[end] <= '9' {
		end++
	}
	if end == start {
		return ""
	}
	return text[:end]
}

func nonNil[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}
