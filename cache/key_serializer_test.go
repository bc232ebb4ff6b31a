package cache

import (
	"strings"
	"testing"

	"github.com/goliatone/go-skillsnap/pkg/testsupport"
)

// KeyScenario represents a group of key cases loaded from fixtures
type KeyScenario struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Cases       []KeyCase `json:"cases"`
}

// KeyCase describes one Namespace call and the key it must produce
type KeyCase struct {
	Kind        string `json:"kind"`
	Shape       string `json:"shape"`
	ID          int64  `json:"id"`
	UserID      int64  `json:"userId"`
	ExpectedKey string `json:"expectedKey"`
}

type keyFixtures struct {
	Scenarios []KeyScenario `json:"scenarios"`
}

func joinWithSeparator(parts ...string) string {
	return strings.Join(parts, KeySeparator)
}

func TestDefaultKeySerializer_BasicTypes(t *testing.T) {
	serializer := NewDefaultKeySerializer()

	tests := []struct {
		name      string
		namespace string
		args      []any
		want      string
	}{
		{
			name:      "no args",
			namespace: "projects",
			args:      []any{},
			want:      "projects",
		},
		{
			name:      "single int64",
			namespace: "projects",
			args:      []any{int64(42)},
			want:      joinWithSeparator("projects", "42"),
		},
		{
			name:      "multiple basic types",
			namespace: "skills",
			args:      []any{1, "hello", true, uint32(9), 3.5},
			want:      joinWithSeparator("skills", "1", "hello", "true", "9", "3.5"),
		},
		{
			name:      "string with separator is escaped",
			namespace: "projects",
			args:      []any{"a::b"},
			want:      joinWithSeparator("projects", "a%3A%3Ab"),
		},
		{
			name:      "percent is escaped first",
			namespace: "projects",
			args:      []any{"%3A"},
			want:      joinWithSeparator("projects", "%253A"),
		},
		{
			name:      "nil value",
			namespace: "projects",
			args:      []any{nil},
			want:      joinWithSeparator("projects", "nil"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := serializer.SerializeKey(tt.namespace, tt.args...)
			if got != tt.want {
				t.Errorf("SerializeKey() = %v, want %v", got, tt.want)
			}
		})
	}
}

type stringerID struct{ v string }

func (s stringerID) String() string { return "id-" + s.v }

func TestDefaultKeySerializer_Stringer(t *testing.T) {
	serializer := NewDefaultKeySerializer()

	got := serializer.SerializeKey("projects", stringerID{v: "x:y"})
	want := joinWithSeparator("projects", "id-x%3Ay")
	if got != want {
		t.Errorf("SerializeKey() = %v, want %v", got, want)
	}
}

func TestNamespace_Scenarios(t *testing.T) {
	var fixtures keyFixtures
	testsupport.LoadFixtureJSON(t, testsupport.FixturePath("key_scenarios.json"), &fixtures)

	if len(fixtures.Scenarios) == 0 {
		t.Fatal("expected at least one key scenario")
	}

	for _, scenario := range fixtures.Scenarios {
		t.Run(scenario.Name, func(t *testing.T) {
			for _, tc := range scenario.Cases {
				ns := NewNamespace(tc.Kind, nil)

				var got string
				switch tc.Shape {
				case "collection":
					got = ns.Collection(tc.UserID)
				case "entity":
					got = ns.Entity(tc.ID, tc.UserID)
				default:
					t.Fatalf("unknown shape %q", tc.Shape)
				}

				if got != tc.ExpectedKey {
					t.Errorf("%s %s: got %q, want %q", tc.Kind, tc.Shape, got, tc.ExpectedKey)
				}
			}
		})
	}
}

func TestNamespace_TenantsNeverShareKeys(t *testing.T) {
	ns := NewNamespace("projects", nil)

	if ns.Collection(1) == ns.Collection(2) {
		t.Error("collection keys of two users must differ")
	}
	if ns.Entity(5, 1) == ns.Entity(5, 2) {
		t.Error("entity keys of two users must differ")
	}
	if ns.Collection(1) == ns.Entity(0, 1) {
		t.Error("collection and entity keys must never collide")
	}

	other := NewNamespace("skills", nil)
	if ns.Entity(5, 1) == other.Entity(5, 1) {
		t.Error("keys of two kinds must differ")
	}
}

func TestKindOf(t *testing.T) {
	ns := NewNamespace("skills", nil)

	tests := map[string]string{
		ns.Collection(3): "skills",
		ns.Entity(1, 3):  "skills",
		"plain":          "plain",
		"":               "",
	}

	for key, want := range tests {
		if got := KindOf(key); got != want {
			t.Errorf("KindOf(%q) = %q, want %q", key, got, want)
		}
	}
}

type upperSerializer struct{}

func (upperSerializer) SerializeKey(namespace string, args ...any) string {
	return strings.ToUpper(NewDefaultKeySerializer().SerializeKey(namespace, args...))
}

func TestNamespace_CustomSerializer(t *testing.T) {
	ns := NewNamespace("projects", upperSerializer{})

	if got := ns.Collection(1); got != "PROJECTS::ALL::1" {
		t.Errorf("Collection() = %q", got)
	}
	if ns.Kind() != "projects" {
		t.Errorf("Kind() = %q", ns.Kind())
	}
}
