package resource

import "fmt"

// BuildRelationship materializes raw[name] as resources of the relationship
// target kind, preserving source order. An empty list yields an empty result;
// a missing key is an error.
func (r *Resource) BuildRelationship(name string, raw Value) ([]*Resource, error) {
	targetKind, err := r.relationshipKind(name)
	if err != nil {
		return nil, err
	}

	data, ok := AsObject(raw)
	if !ok {
		return nil, invalidRelationshipError("trying to build a relationship with invalid data", nil)
	}
	slice, exists := data.Lookup(name)
	if !exists {
		return nil, invalidRelationshipError("trying to build a relationship with invalid data", nil)
	}
	items, ok := AsList(slice)
	if !ok {
		return nil, invalidRelationshipError(fmt.Sprintf("relationship %s is not a list of data sets", name), nil)
	}

	relationship := make([]*Resource, 0, len(items))
	for idx, item := range items {
		if _, ok := AsObject(item); !ok {
			return nil, invalidRelationshipError(fmt.Sprintf("relationship %s item %d is not a valid data set", name, idx), nil)
		}
		built, err := r.registry.New(targetKind.Name, item)
		if err != nil {
			return nil, invalidRelationshipError(fmt.Sprintf("relationship %s item %d could not be built", name, idx), err)
		}
		relationship = append(relationship, built)
	}
	return relationship, nil
}

func (r *Resource) relationshipKind(name string) (*Kind, error) {
	var target string
	exists := false
	if r.kind != nil {
		target, exists = r.kind.Relationships[name]
	}
	if !exists {
		return nil, invalidRelationshipError(fmt.Sprintf("there is no relationship mapped with %q name", name), nil)
	}
	targetKind, exists := r.registry.Kind(target)
	if !exists {
		return nil, invalidClassError(fmt.Sprintf("invalid resource class name %s doesn't exist", target))
	}
	return targetKind, nil
}
