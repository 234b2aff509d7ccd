// Package safe содержит тотальные функции приведения нетипизированных значений
// из ответов внешнего API. Ни одна функция пакета не паникует и не возвращает ошибку:
// неприводимое значение превращается в nil.
package safe

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

var truthy = map[string]bool{"1": true, "true": true, "yes": true, "si": true}

// Text возвращает текстовое представление значения так, как его вывела бы исходная
// система: строки как есть, числа без экспоненты, bool как true/false.
func Text(v any) (string, bool) {
	switch val := v.(type) {
	case nil:
		return "", false
	case string:
		return val, true
	case json.Number:
		return val.String(), true
	case bool:
		return strconv.FormatBool(val), true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32), true
	case int:
		return strconv.Itoa(val), true
	case int64:
		return strconv.FormatInt(val, 10), true
	case int32:
		return strconv.FormatInt(int64(val), 10), true
	case fmt.Stringer:
		return val.String(), true
	default:
		return "", false
	}
}

// String возвращает указатель на текст значения или nil.
func String(v any) *string {
	s, ok := Text(v)
	if !ok {
		return nil
	}
	return &s
}

// NonEmptyString как String, но пустая строка тоже даёт nil.
func NonEmptyString(v any) *string {
	s := String(v)
	if s == nil || *s == "" {
		return nil
	}
	return s
}

// Bool: nil для nil, иначе проверка текста в нижнем регистре по {"1","true","yes","si"}.
func Bool(v any) *bool {
	s, ok := Text(v)
	if !ok {
		if v == nil {
			return nil
		}
		res := false
		return &res
	}
	res := truthy[strings.ToLower(s)]
	return &res
}

// Int приводит значение к целому. Дробные числа усекаются, строки должны содержать целое.
// Значения за пределами int32 дают nil: целочисленные колонки хранилища имеют тип INTEGER.
func Int(v any) *int {
	var n int64
	switch val := v.(type) {
	case nil:
		return nil
	case bool:
		if val {
			n = 1
		}
	case int:
		n = int64(val)
	case int64:
		n = val
	case int32:
		n = int64(val)
	case float64:
		return intFromFloat(val)
	case float32:
		return intFromFloat(float64(val))
	case json.Number:
		if i, err := val.Int64(); err == nil {
			n = i
			break
		}
		f, err := val.Float64()
		if err != nil {
			return nil
		}
		return intFromFloat(f)
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(val), 10, 64)
		if err != nil {
			return nil
		}
		n = i
	default:
		return nil
	}
	if n < math.MinInt32 || n > math.MaxInt32 {
		return nil
	}
	res := int(n)
	return &res
}

func intFromFloat(f float64) *int {
	if !finite(f) {
		return nil
	}
	f = math.Trunc(f)
	if f < math.MinInt32 || f > math.MaxInt32 {
		return nil
	}
	res := int(f)
	return &res
}

// Float приводит значение к float64.
func Float(v any) *float64 {
	var f float64
	switch val := v.(type) {
	case nil:
		return nil
	case bool:
		if val {
			f = 1
		}
	case int:
		f = float64(val)
	case int64:
		f = float64(val)
	case int32:
		f = float64(val)
	case float64:
		f = val
	case float32:
		f = float64(val)
	case json.Number:
		parsed, err := val.Float64()
		if err != nil {
			return nil
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}
	return &f
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

var timestampLayouts = []string{
	"2006-01-02T15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	"2006-01-02",
}

// Time разбирает метку времени ISO-8601. Завершающий "Z" трактуется как +00:00.
// Метки со смещением приводятся к UTC, метки без зоны считаются UTC.
// Точность усекается до микросекунд, как в колонках TIMESTAMP.
func Time(v any) *time.Time {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if strings.HasSuffix(s, "Z") {
		s = strings.TrimSuffix(s, "Z") + "+00:00"
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC().Truncate(time.Microsecond)
			return &t
		}
	}
	return nil
}
