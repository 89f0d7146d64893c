package resource

import (
	"testing"

	"github.com/crmarques/soldo/faults"
)

func relationshipRegistry(t *testing.T, relationships map[string]string) *Registry {
	t.Helper()
	return newTestRegistry(t, Kind{
		Name:          "Parent",
		BasePath:      "/parents",
		Path:          "/{id}",
		Relationships: relationships,
	})
}

func TestBuildRelationship(t *testing.T) {
	t.Parallel()

	registry := relationshipRegistry(t, map[string]string{"resources": "Child"})
	parent := mustNew(t, registry, "Parent", nil)

	children, err := parent.BuildRelationship("resources", map[string]any{
		"resources": []any{
			map[string]any{"foo": "bar"},
			map[string]any{"lorem": "ipsum"},
		},
	})
	if err != nil {
		t.Fatalf("BuildRelationship returned error: %v", err)
	}
	if len(children) != 2 {
		t.Fatalf("expected 2 children, got %d", len(children))
	}
	for _, child := range children {
		if child.KindName() != "Child" {
			t.Fatalf("expected Child kind, got %q", child.KindName())
		}
	}
	if children[0].Get("foo") != "bar" {
		t.Fatalf("expected first child foo=bar, got %#v", children[0].ToMap())
	}
	if children[1].Get("lorem") != "ipsum" {
		t.Fatalf("expected second child lorem=ipsum, got %#v", children[1].ToMap())
	}
}

func TestBuildRelationshipEmptyList(t *testing.T) {
	t.Parallel()

	registry := relationshipRegistry(t, map[string]string{"resources": "Child"})
	parent := mustNew(t, registry, "Parent", nil)

	children, err := parent.BuildRelationship("resources", map[string]any{"resources": []any{}})
	if err != nil {
		t.Fatalf("BuildRelationship returned error: %v", err)
	}
	if children == nil || len(children) != 0 {
		t.Fatalf("expected empty non-nil result, got %#v", children)
	}
}

func TestBuildRelationshipErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		relationships map[string]string
		raw           Value
		want          faults.ErrorCategory
		wantText      string
	}{
		{
			name:     "not_mapped_relationship",
			raw:      map[string]any{},
			want:     faults.InvalidRelationshipError,
			wantText: `there is no relationship mapped with "resources" name`,
		},
		{
			name:          "invalid_target_kind",
			relationships: map[string]string{"resources": "InvalidClassName"},
			raw:           map[string]any{},
			want:          faults.InvalidClassError,
			wantText:      "invalid resource class name InvalidClassName doesn't exist",
		},
		{
			name:          "raw_data_not_a_map",
			relationships: map[string]string{"resources": "Child"},
			raw:           "not-an-array",
			want:          faults.InvalidRelationshipError,
		},
		{
			name:          "missing_relationship_key",
			relationships: map[string]string{"resources": "Child"},
			raw:           map[string]any{},
			want:          faults.InvalidRelationshipError,
		},
		{
			name:          "slice_is_a_single_dataset",
			relationships: map[string]string{"resources": "Child"},
			raw:           map[string]any{"resources": map[string]any{"foo": "bar"}},
			want:          faults.InvalidRelationshipError,
		},
		{
			name:          "items_are_not_datasets",
			relationships: map[string]string{"resources": "Child"},
			raw:           map[string]any{"resources": []any{"foo", "bar"}},
			want:          faults.InvalidRelationshipError,
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			parent := mustNew(t, relationshipRegistry(t, test.relationships), "Parent", nil)
			_, err := parent.BuildRelationship("resources", test.raw)
			assertCategory(t, err, test.want)
			if test.wantText != "" && err.Error() != test.wantText {
				t.Fatalf("expected %q, got %q", test.wantText, err.Error())
			}
		})
	}
}
