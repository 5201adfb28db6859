package domain

// Ключи тегов, которые понимает сервис
const (
	TagIdentifier = "d"
	TagGeohash    = "g"
	TagAlt        = "alt"
)

// Tag - пара [ключ, значение] из события nostr
type Tag []string

// Key возвращает ключ тега или пустую строку
func (t Tag) Key() string {
	if len(t) < 1 {
		return ""
	}
	return t[0]
}

// Value возвращает значение тега или пустую строку
func (t Tag) Value() string {
	if len(t) < 2 {
		return ""
	}
	return t[1]
}

// Tags - упорядоченный список тегов. Ключи не обязаны быть уникальными.
type Tags []Tag

// Find возвращает первый тег с ключом key.
// Записи короче двух элементов пропускаются, порядок тегов не меняется.
func (tags Tags) Find(key string) (Tag, bool) {
	for _, tag := range tags {
		if len(tag) < 2 {
			continue
		}
		if tag[0] == key {
			return tag, true
		}
	}
	return nil, false
}

// Value - значение первого тега с ключом key, "" если тега нет
func (tags Tags) Value(key string) string {
	tag, ok := tags.Find(key)
	if !ok {
		return ""
	}
	return tag.Value()
}

// Clone возвращает глубокую копию списка тегов
func (tags Tags) Clone() Tags {
	if tags == nil {
		return nil
	}
	out := make(Tags, len(tags))
	for i, tag := range tags {
		out[i] = append(Tag(nil), tag...)
	}
	return out
}
