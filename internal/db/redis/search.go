package redis

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/redis/rueidis"

	"github.com/supportly/prodex/internal/db"
)

const scoreField = "__vector_score"

// SearchKNN runs a KNN vector similarity search via FT.SEARCH. Only the
// coarse tag hints are pushed into the index query; exact filters are
// reapplied by the caller.
func (s *Store) SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	if q.IndexName == "" {
		return nil, fmt.Errorf("index name is required")
	}
	if len(q.Vector) == 0 {
		return nil, fmt.Errorf("vector is required")
	}
	if q.K <= 0 {
		return nil, fmt.Errorf("k must be positive")
	}

	filterStr := buildHint(q.Hint)

	knnPart := fmt.Sprintf("[KNN %d @vector $BLOB]", q.K)
	var queryStr string
	if filterStr != "" {
		queryStr = fmt.Sprintf("(%s)=>%s", filterStr, knnPart)
	} else {
		queryStr = fmt.Sprintf("*=>%s", knnPart)
	}

	args := []string{
		q.IndexName, queryStr,
		"RETURN", "1", scoreField,
		"SORTBY", scoreField,
		"LIMIT", "0", strconv.Itoa(q.K),
		"PARAMS", "2", "BLOB", vectorToBytes(q.Vector),
		"DIALECT", "2",
	}

	cmd := s.b().Arbitrary("FT.SEARCH").Args(args...).Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}

	return parseKNNResult(raw)
}

func parseKNNResult(raw []rueidis.RedisMessage) (*db.SearchResult, error) {
	if len(raw) == 0 {
		return &db.SearchResult{}, nil
	}

	total, err := raw[0].AsInt64()
	if err != nil {
		return nil, fmt.Errorf("parse total: %w", err)
	}
	if total == 0 {
		return &db.SearchResult{}, nil
	}

	entries := make([]db.SearchEntry, 0, total)
	// 2-stride: [total, key1, fields1, key2, fields2, ...]
	for i := 1; i+1 < len(raw); i += 2 {
		key, err := raw[i].ToString()
		if err != nil {
			continue
		}

		fields, err := raw[i+1].ToArray()
		if err != nil {
			continue
		}

		entry := db.SearchEntry{Key: key}
		if scoreStr, ok := parseFieldPairs(fields)[scoreField]; ok {
			if d, err := strconv.ParseFloat(scoreStr, 64); err == nil {
				entry.Distance = d
			}
		}

		entries = append(entries, entry)
	}

	return &db.SearchResult{Total: int(total), Entries: entries}, nil
}

func parseFieldPairs(fields []rueidis.RedisMessage) map[string]string {
	m := make(map[string]string, len(fields)/2)
	for j := 0; j+1 < len(fields); j += 2 {
		name, err := fields[j].ToString()
		if err != nil {
			continue
		}
		value, err := fields[j+1].ToString()
		if err != nil {
			continue
		}
		m[name] = value
	}
	return m
}

// buildHint translates the coarse tag hint into an FT.SEARCH pre-filter.
func buildHint(h db.TagHint) string {
	if h.IsEmpty() {
		return ""
	}

	var parts []string
	if h.Brand != "" {
		parts = append(parts, buildTagFilter("brand", h.Brand))
	}
	if h.Category != "" {
		parts = append(parts, buildTagFilter("category", h.Category))
	}
	return strings.Join(parts, " ")
}

func buildTagFilter(key, value string) string {
	escaped := tagEscaper.Replace(value)
	return fmt.Sprintf("@%s:{%s}", key, escaped)
}

var tagEscaper = strings.NewReplacer(
	",", "\\,",
	".", "\\.",
	"<", "\\<",
	">", "\\>",
	"{", "\\{",
	"}", "\\}",
	"\"", "\\\"",
	"'", "\\'",
	":", "\\:",
	";", "\\;",
	"!", "\\!",
	"@", "\\@",
	"#", "\\#",
	"$", "\\$",
	"%", "\\%",
	"^", "\\^",
	"&", "\\&",
	"*", "\\*",
	"(", "\\(",
	")", "\\)",
	"-", "\\-",
	"+", "\\+",
	"=", "\\=",
	"~", "\\~",
	" ", "\\ ",
)

func vectorToBytes(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}
