package safe

// Group возвращает вложенный объект по ключу. Отсутствующий ключ, null или
// значение другого типа дают пустой объект.
func Group(m map[string]any, key string) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	if g, ok := m[key].(map[string]any); ok && g != nil {
		return g
	}
	return map[string]any{}
}

// Lookup проходит по цепочке ключей и возвращает значение или nil,
// если какой-либо уровень отсутствует или не является объектом.
func Lookup(m map[string]any, keys ...string) any {
	var cur any = m
	for _, key := range keys {
		obj, ok := cur.(map[string]any)
		if !ok || obj == nil {
			return nil
		}
		cur = obj[key]
	}
	return cur
}

// Objects возвращает элементы списка, которые являются объектами, в исходном порядке.
func Objects(v any) []map[string]any {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(list))
	for _, el := range list {
		if obj, ok := el.(map[string]any); ok && obj != nil {
			out = append(out, obj)
		}
	}
	return out
}
