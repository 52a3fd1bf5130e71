package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
)

// CategoryScore is an accumulated {score, max} pair for one question category.
type CategoryScore struct {
	Score float64 `json:"score"`
	Max   float64 `json:"max"`
}

// Add returns the element-wise sum of both pairs.
func (c CategoryScore) Add(o CategoryScore) CategoryScore {
	return CategoryScore{Score: c.Score + o.Score, Max: c.Max + o.Max}
}

// UnmarshalJSON accepts numbers, numeric strings and garbage. Anything that does not parse
// to a finite number becomes 0.
func (c *CategoryScore) UnmarshalJSON(data []byte) error {
	*c = CategoryScore{}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil
	}
	c.Score = lenientFloat(fields["score"])
	c.Max = lenientFloat(fields["max"])
	return nil
}

// CategoryRatings maps a category code to the score a submission earned in it.
type CategoryRatings map[string]CategoryScore

// UnmarshalJSON accepts a JSON object or a string holding an encoded JSON object.
// Other shapes decode to an empty mapping rather than failing the whole record.
func (r *CategoryRatings) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*r = nil
		return nil
	}

	if data[0] == '"' {
		var encoded string
		if err := json.Unmarshal(data, &encoded); err != nil || encoded == "" {
			*r = nil
			return nil
		}
		return r.UnmarshalJSON([]byte(encoded))
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		*r = CategoryRatings{}
		return nil
	}

	out := make(CategoryRatings, len(raw))
	for code, value := range raw {
		var score CategoryScore
		_ = score.UnmarshalJSON(value)
		out[code] = score
	}
	*r = out
	return nil
}

func lenientFloat(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return 0
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return Finite(f)
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if parsed, err := strconv.ParseFloat(s, 64); err == nil {
			return Finite(parsed)
		}
	}
	return 0
}

// Finite maps NaN and ±Inf to 0.
func Finite(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
