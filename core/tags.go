package core

import (
	"fmt"
	"reflect"
	"strings"
)

// Tag is a single name/value pair. Value is nil for bare tags that carry a
// name only.
type Tag struct {
	Name  string
	Value any
}

// NameTag returns a bare tag with no value.
func NameTag(name string) Tag { return Tag{Name: name} }

// StringTag returns a tag with a string value.
func StringTag(name, value string) Tag { return Tag{Name: name, Value: value} }

// BoolTag returns a tag with a boolean value.
func BoolTag(name string, value bool) Tag { return Tag{Name: name, Value: value} }

// IntTag returns a tag with an integer value.
func IntTag(name string, value int64) Tag { return Tag{Name: name, Value: value} }

// FloatTag returns a tag with a floating point value.
func FloatTag(name string, value float64) Tag { return Tag{Name: name, Value: value} }

func (t Tag) String() string {
	if t.Value == nil {
		return t.Name
	}
	return fmt.Sprintf("%s=%v", t.Name, t.Value)
}

// Tags is an ordered multimap of tag names to values. A name may appear with
// several values, or with none. The zero value is empty and ready to use.
// Like Metadata, Tags values are immutable and safe to share.
type Tags struct {
	list []Tag
}

// TagsOf returns a Tags holding the given tags in order.
func TagsOf(tags ...Tag) Tags {
	if len(tags) == 0 {
		return Tags{}
	}
	list := make([]Tag, len(tags))
	copy(list, tags)
	return Tags{list: list}
}

// With returns a copy of t with tag appended.
func (t Tags) With(tag Tag) Tags {
	list := make([]Tag, len(t.list), len(t.list)+1)
	copy(list, t.list)
	return Tags{list: append(list, tag)}
}

// Merge returns t's entries followed by inner's, preserving order within
// each side and dropping inner pairs already present in t. Merging scopes
// outermost first keeps outer tags ahead of inner ones.
func (t Tags) Merge(inner Tags) Tags {
	if inner.Empty() {
		return t
	}
	if t.Empty() {
		return inner
	}
	list := make([]Tag, len(t.list), len(t.list)+len(inner.list))
	copy(list, t.list)
	for _, tag := range inner.list {
		if !containsTag(list, tag) {
			list = append(list, tag)
		}
	}
	return Tags{list: list}
}

func containsTag(list []Tag, tag Tag) bool {
	for _, have := range list {
		if have.Name == tag.Name && tagValuesEqual(have.Value, tag.Value) {
			return true
		}
	}
	return false
}

// tagValuesEqual compares tag values without panicking on uncomparable
// types: two slice-valued tags with the same name stay distinct entries.
func tagValuesEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta := reflect.TypeOf(a)
	if ta != reflect.TypeOf(b) || !ta.Comparable() {
		return false
	}
	return a == b
}

// Len returns the number of tags.
func (t Tags) Len() int { return len(t.list) }

// Empty reports whether no tags are present.
func (t Tags) Empty() bool { return len(t.list) == 0 }

// At returns the i'th tag in insertion order.
func (t Tags) At(i int) Tag { return t.list[i] }

// Each calls fn for every tag in order.
func (t Tags) Each(fn func(Tag)) {
	for _, tag := range t.list {
		fn(tag)
	}
}

// String formats the tags as "[a=1 b]".
func (t Tags) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, tag := range t.list {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(tag.String())
	}
	b.WriteByte(']')
	return b.String()
}
