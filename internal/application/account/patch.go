package account

import (
	"fmt"
	"math"
	"strings"

	"github.com/bomberman-api/internal/domain"
)

// maxSafeInt is the largest integer a JSON number carries exactly.
const maxSafeInt = 1 << 53

// normalizeValue checks v against the type of the typed field k and returns
// the value to store. Integral JSON numbers become int64 so every driver
// reads them back into int fields. Unknown fields pass through unchanged.
func normalizeValue(k string, v interface{}) (interface{}, error) {
	if k == "" || k == "_id" || strings.HasPrefix(k, "$") || strings.Contains(k, ".") {
		return nil, fmt.Errorf("field name %q: %w", k, domain.ErrInvalidInput)
	}
	var (
		out interface{}
		err error
	)
	switch k {
	case domain.FieldFriendCode, domain.FieldRank:
		s, ok := v.(string)
		if !ok {
			err = fmt.Errorf("must be a string")
		}
		out = s
	case domain.FieldFriends, domain.FieldIncomingRequests, domain.FieldPendingRequests:
		out, err = toStringList(v)
	case domain.FieldLevel, domain.FieldXP:
		out, err = toInt(v)
	case domain.FieldDeathmatchStats:
		out, err = toStats(v)
	default:
		return v, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s %w: %w", k, err, domain.ErrInvalidInput)
	}
	return out, nil
}

func toInt(v interface{}) (int64, error) {
	switch n := v.(type) {
	case float64:
		if n != math.Trunc(n) || math.Abs(n) > maxSafeInt {
			return 0, fmt.Errorf("must be an integer")
		}
		return int64(n), nil
	case int:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	default:
		return 0, fmt.Errorf("must be an integer")
	}
}

func toStringList(v interface{}) ([]string, error) {
	switch list := v.(type) {
	case []string:
		return append([]string{}, list...), nil
	case []interface{}:
		out := make([]string, 0, len(list))
		for _, x := range list {
			s, ok := x.(string)
			if !ok {
				return nil, fmt.Errorf("must be a list of strings")
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("must be a list of strings")
	}
}

// toStats decodes a whole deathmatchStats object. Omitted members are zero.
func toStats(v interface{}) (domain.DeathmatchStats, error) {
	stats := domain.DeathmatchStats{EnemiesKilled: map[string]int{}}
	obj, ok := v.(map[string]interface{})
	if !ok {
		return stats, fmt.Errorf("must be an object")
	}
	for k, x := range obj {
		switch k {
		case "highestScore", "totalTime":
			n, err := toInt(x)
			if err != nil {
				return stats, fmt.Errorf("member %s %w", k, err)
			}
			if k == "highestScore" {
				stats.HighestScore = int(n)
			} else {
				stats.TotalTime = int(n)
			}
		case "enemiesKilled":
			kills, ok := x.(map[string]interface{})
			if !ok {
				return stats, fmt.Errorf("member enemiesKilled must be an object")
			}
			for enemy, c := range kills {
				n, err := toInt(c)
				if err != nil {
					return stats, fmt.Errorf("kill count for %s %w", enemy, err)
				}
				stats.EnemiesKilled[enemy] = int(n)
			}
		default:
			return stats, fmt.Errorf("has unknown member %q", k)
		}
	}
	return stats, nil
}
