package resource

import (
	"fmt"
	"regexp"
	"strings"
)

type Value = any

var remotePathPattern = regexp.MustCompile(`^/\S+$`)

// Kind is the static configuration shared by every resource of one type.
// Kinds are registered once and never mutated afterwards.
type Kind struct {
	// Name identifies the kind in the registry, e.g. "Wallet".
	Name string
	// BasePath is the remote path of the kind collection, e.g. "/wallets".
	BasePath string
	// Path is the instance path template appended to BasePath, e.g. "/{id}".
	// An empty Path marks a singleton resolving to BasePath.
	Path string
	// WhiteList names the attributes that may be sent back on update.
	WhiteList []string
	// Cast maps attribute names to the kind their datasets are cast into.
	Cast map[string]string
	// Relationships maps relationship names to their target kind.
	Relationships map[string]string
	// EventType is the webhook label of the kind. Defaults to Name.
	EventType string
	// Fingerprinter digests webhook fingerprints. Defaults to SHA512Fingerprinter.
	Fingerprinter Fingerprinter
}

// ValidatedBasePath returns the base path or an InvalidPathError when it does
// not match ^/\S+$.
func (k *Kind) ValidatedBasePath() (string, error) {
	if k == nil || !remotePathPattern.MatchString(k.BasePath) {
		return "", invalidPathError(fmt.Sprintf("%s base path seems to be invalid", k.label()))
	}
	return k.BasePath, nil
}

func (k *Kind) IsSingleton() bool {
	return k != nil && k.Path == ""
}

func (k *Kind) Whitelisted(name string) bool {
	if k == nil {
		return false
	}
	for _, item := range k.WhiteList {
		if item == name {
			return true
		}
	}
	return false
}

func (k *Kind) castTarget(attribute string) (string, bool) {
	if k == nil || k.Cast == nil {
		return "", false
	}
	target, exists := k.Cast[attribute]
	return target, exists
}

func (k *Kind) fingerprinter() Fingerprinter {
	if k == nil || k.Fingerprinter == nil {
		return SHA512Fingerprinter{}
	}
	return k.Fingerprinter
}

func (k *Kind) label() string {
	if k == nil || strings.TrimSpace(k.Name) == "" {
		return "<unknown kind>"
	}
	return k.Name
}

func cloneKind(kind Kind) Kind {
	cloned := kind
	cloned.WhiteList = append([]string(nil), kind.WhiteList...)
	cloned.Cast = cloneStringMap(kind.Cast)
	cloned.Relationships = cloneStringMap(kind.Relationships)
	return cloned
}

func cloneStringMap(values map[string]string) map[string]string {
	if len(values) == 0 {
		return nil
	}
	cloned := make(map[string]string, len(values))
	for key, value := range values {
		cloned[key] = value
	}
	return cloned
}
