package store

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/actilog/actilog/internal/models"
)

// CompiledFilter is a fully-resolved search predicate: parameterized WHERE
// clause, bound arguments, and a cache key derived from both. Two filters
// with the same effective inputs always compile to the same Key.
type CompiledFilter struct {
	// Where is "" or a leading-space " WHERE ..." fragment.
	Where string
	Args  []any
	// Key is a digest over the predicate and every bound value.
	Key string
}

// BuildLogFilter compiles the five optional filter inputs into one
// AND-composed parameterized predicate. All values travel as bound
// parameters; user-supplied substrings are LIKE-escaped so a literal % or _
// matches literally. A lone date bound is ignored.
func BuildLogFilter(f models.LogFilter) CompiledFilter {
	var conditions []string
	var args []any
	argIdx := 1

	if f.Text != "" {
		pattern := "%" + escapeLike(f.Text) + "%"
		conditions = append(conditions,
			"(username LIKE $"+strconv.Itoa(argIdx)+" OR action LIKE $"+strconv.Itoa(argIdx+1)+")")
		args = append(args, pattern, pattern)
		argIdx += 2
	}

	if f.Username != "" {
		conditions = append(conditions, "username = $"+strconv.Itoa(argIdx))
		args = append(args, f.Username)
		argIdx++
	}

	if f.Category != "" {
		conditions = append(conditions, "action LIKE $"+strconv.Itoa(argIdx))
		args = append(args, "%"+escapeLike(string(f.Category))+"%")
		argIdx++
	}

	if start, end, ok := dayBounds(f.StartDate, f.EndDate); ok {
		conditions = append(conditions,
			"log_time BETWEEN $"+strconv.Itoa(argIdx)+" AND $"+strconv.Itoa(argIdx+1))
		args = append(args, start, end)
	}

	var where string
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	return CompiledFilter{
		Where: where,
		Args:  args,
		Key:   filterDigest(where, args),
	}
}

// escapeLike escapes LIKE metacharacters so user input matches literally.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)

	return s
}

// dayBounds normalizes an inclusive calendar-day range: start at 00:00:00,
// end at 23:59:59. Both bounds must be present for the range to apply.
func dayBounds(startDate, endDate *time.Time) (start, end time.Time, ok bool) {
	if startDate == nil || endDate == nil {
		return time.Time{}, time.Time{}, false
	}

	y, m, d := startDate.Date()
	start = time.Date(y, m, d, 0, 0, 0, 0, startDate.Location())

	y, m, d = endDate.Date()
	end = time.Date(y, m, d, 23, 59, 59, 0, endDate.Location())

	return start, end, true
}

// filterDigest hashes the resolved predicate plus every bound value so
// distinct filter combinations never collide and identical combinations
// always share a cache entry.
func filterDigest(where string, args []any) string {
	h := sha256.New()
	h.Write([]byte(where))

	for _, a := range args {
		h.Write([]byte{0})

		switch v := a.(type) {
		case string:
			h.Write([]byte(v))
		case time.Time:
			h.Write([]byte(v.Format(time.RFC3339)))
		default:
			h.Write([]byte(fmt.Sprintf("%v", v)))
		}
	}

	return hex.EncodeToString(h.Sum(nil))
}
