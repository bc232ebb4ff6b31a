package cache

import (
	"fmt"
	"strconv"
	"strings"
)

// KeySeparator defines the delimiter used between cache key segments.
const KeySeparator = "::"

// collectionSegment marks a per-user collection key. It can never be produced by
// an entity id, which is always numeric.
const collectionSegment = "all"

// KeySerializer builds a cache key from a namespace and arbitrary args.
// It is responsible for producing stable keys across calls.
type KeySerializer interface {
	SerializeKey(namespace string, args ...any) string
}

type defaultKeySerializer struct{}

// NewDefaultKeySerializer creates a new instance of the default key serializer.
func NewDefaultKeySerializer() KeySerializer {
	return &defaultKeySerializer{}
}

// SerializeKey joins the namespace and the serialized args with KeySeparator.
func (s *defaultKeySerializer) SerializeKey(namespace string, args ...any) string {
	if len(args) == 0 {
		return escapeSegment(namespace)
	}

	parts := make([]string, 0, len(args)+1)
	parts = append(parts, escapeSegment(namespace))
	for _, arg := range args {
		parts = append(parts, s.serializeValue(arg))
	}

	return strings.Join(parts, KeySeparator)
}

func (s *defaultKeySerializer) serializeValue(v any) string {
	switch value := v.(type) {
	case nil:
		return "nil"
	case string:
		return escapeSegment(value)
	case int:
		return strconv.Itoa(value)
	case int32:
		return strconv.FormatInt(int64(value), 10)
	case int64:
		return strconv.FormatInt(value, 10)
	case uint:
		return strconv.FormatUint(uint64(value), 10)
	case uint32:
		return strconv.FormatUint(uint64(value), 10)
	case uint64:
		return strconv.FormatUint(value, 10)
	case bool:
		return strconv.FormatBool(value)
	case fmt.Stringer:
		return escapeSegment(value.String())
	default:
		return escapeSegment(fmt.Sprintf("%v", value))
	}
}

// escapeSegment keeps a free-form segment from forging extra key segments.
func escapeSegment(s string) string {
	if !strings.Contains(s, ":") && !strings.Contains(s, "%") {
		return s
	}
	s = strings.ReplaceAll(s, "%", "%25")
	return strings.ReplaceAll(s, ":", "%3A")
}

// KindOf returns the namespace segment of a key built by the default serializer.
func KindOf(key string) string {
	kind, _, _ := strings.Cut(key, KeySeparator)
	return kind
}

// Namespace builds the two key shapes used for one resource kind:
// the per-user collection key and the per-user entity key.
// Both always encode the owning user id, so tenants never share an entry.
type Namespace struct {
	kind       string
	serializer KeySerializer
}

// NewNamespace returns the key builder for kind. A nil serializer selects the default.
func NewNamespace(kind string, serializer KeySerializer) Namespace {
	if serializer == nil {
		serializer = NewDefaultKeySerializer()
	}
	return Namespace{kind: kind, serializer: serializer}
}

// Kind returns the resource kind this namespace was built for.
func (n Namespace) Kind() string {
	return n.kind
}

// Collection returns the key holding userID's ordered list of resources.
func (n Namespace) Collection(userID int64) string {
	return n.serializer.SerializeKey(n.kind, collectionSegment, userID)
}

// Entity returns the key holding resource id as seen by userID.
func (n Namespace) Entity(id, userID int64) string {
	return n.serializer.SerializeKey(n.kind, id, userID)
}
