package providers

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var (
	// ErrProviderAlreadyRegistered is returned when trying to register a duplicate provider
	ErrProviderAlreadyRegistered = errors.New("provider already registered")

	// ErrInvalidDescriptor is returned for descriptors missing a key or a usable endpoint
	ErrInvalidDescriptor = errors.New("invalid provider descriptor")
)

// Registry is an ordered, immutable set of provider descriptors. It is built once
// at startup and is safe for concurrent reads.
type Registry struct {
	ordered []Descriptor
}

// NewRegistry validates descs and returns a registry preserving their order.
func NewRegistry(descs ...Descriptor) (*Registry, error) {
	r := &Registry{ordered: make([]Descriptor, 0, len(descs))}
	seen := make(map[string]struct{}, len(descs))

	for _, d := range descs {
		if err := validateDescriptor(d); err != nil {
			return nil, err
		}
		if _, exists := seen[d.Key]; exists {
			return nil, fmt.Errorf("%w: %s", ErrProviderAlreadyRegistered, d.Key)
		}
		if d.Name == "" {
			d.Name = d.Key
		}
		seen[d.Key] = struct{}{}
		r.ordered = append(r.ordered, d)
	}

	return r, nil
}

func validateDescriptor(d Descriptor) error {
	if strings.TrimSpace(d.Key) == "" {
		return fmt.Errorf("%w: key cannot be empty", ErrInvalidDescriptor)
	}
	if d.Endpoint == "" {
		return fmt.Errorf("%w: %s has no endpoint", ErrInvalidDescriptor, d.Key)
	}

	// the placeholder is not valid URL syntax everywhere, so check with it filled in
	u, err := url.Parse(strings.ReplaceAll(d.Endpoint, QueryPlaceholder, "q"))
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidDescriptor, d.Key, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %s endpoint must be an absolute http(s) URL", ErrInvalidDescriptor, d.Key)
	}
	return nil
}

// All returns every descriptor in registry order. The slice is a copy.
func (r *Registry) All() []Descriptor {
	if r == nil {
		return nil
	}
	out := make([]Descriptor, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// Keys returns all provider keys in registry order
func (r *Registry) Keys() []string {
	if r == nil {
		return []string{}
	}
	keys := make([]string, len(r.ordered))
	for i, d := range r.ordered {
		keys[i] = d.Key
	}
	return keys
}

// Count returns the number of registered providers
func (r *Registry) Count() int {
	if r == nil {
		return 0
	}
	return len(r.ordered)
}
