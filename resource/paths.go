package resource

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var placeholderPattern = regexp.MustCompile(`\{(\S+?)\}`)

// RemotePath resolves the full remote path of the resource. Singletons
// resolve to the kind base path; other kinds substitute every {name}
// placeholder of the instance path with the form-encoded attribute value.
func (r *Resource) RemotePath() (string, error) {
	basePath, err := r.kind.ValidatedBasePath()
	if err != nil {
		return "", err
	}
	if r.kind.IsSingleton() {
		return basePath, nil
	}

	resourcePath, err := r.resourcePath()
	if err != nil {
		return "", err
	}
	return basePath + resourcePath, nil
}

// RelationshipRemotePath appends the base path of the relationship target to
// the remote path of the resource, e.g. /cards/42/rules.
func (r *Resource) RelationshipRemotePath(name string) (string, error) {
	targetKind, err := r.relationshipKind(name)
	if err != nil {
		return "", err
	}
	relationshipPath, err := targetKind.ValidatedBasePath()
	if err != nil {
		return "", err
	}

	remotePath, err := r.RemotePath()
	if err != nil {
		return "", err
	}
	return remotePath + relationshipPath, nil
}

func (r *Resource) resourcePath() (string, error) {
	template := r.kind.Path
	if !remotePathPattern.MatchString(template) {
		return "", invalidPathError(fmt.Sprintf("%s path seems to be invalid", r.kind.label()))
	}

	var builder strings.Builder
	last := 0
	for _, match := range placeholderPattern.FindAllStringSubmatchIndex(template, -1) {
		attributeName := template[match[2]:match[3]]
		value, ok := r.AttributeString(attributeName)
		if !ok {
			return "", invalidPathError(fmt.Sprintf("%s %s is not defined", r.kind.label(), attributeName))
		}
		builder.WriteString(template[last:match[0]])
		builder.WriteString(url.QueryEscape(value))
		last = match[1]
	}
	builder.WriteString(template[last:])

	return builder.String(), nil
}

// Placeholders lists the attribute names referenced by the instance path
// template, in template order.
func (k *Kind) Placeholders() []string {
	if k == nil {
		return nil
	}
	matches := placeholderPattern.FindAllStringSubmatch(k.Path, -1)
	names := make([]string, 0, len(matches))
	for _, match := range matches {
		names = append(names, match[1])
	}
	return names
}
