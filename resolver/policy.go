package resolver

import (
	"strings"

	"github.com/erraggy/refparser/referrors"
)

// CircularPolicy selects what the dereferencer does at a $ref whose target
// is already being expanded.
type CircularPolicy string

const (
	// CircularIgnore leaves the $ref in place at the cyclic site.
	CircularIgnore CircularPolicy = "ignore"
	// CircularReferenceObject substitutes a node.KindCircular placeholder
	// whose Target is the value under construction, yielding a cyclic value
	// graph. This is the default.
	CircularReferenceObject CircularPolicy = "produce-reference-object"
	// CircularError fails with a *referrors.CircularReferenceError.
	CircularError CircularPolicy = "error"
)

// UnresolvedPolicy selects how the graph builder reacts to a broken $ref.
type UnresolvedPolicy string

const (
	// FailFast aborts the build at the first broken reference. This is the default.
	FailFast UnresolvedPolicy = "fail-fast"
	// CollectAll records every broken reference and finishes the traversal.
	CollectAll UnresolvedPolicy = "collect-all"
)

// SiblingPolicy selects what happens to members that sit next to "$ref".
type SiblingPolicy string

const (
	// SiblingsMerge overlays sibling members on a mapping target, producing a
	// fresh mapping at that site. Siblings of non-mapping targets are dropped.
	// This is the default.
	SiblingsMerge SiblingPolicy = "merge"
	// SiblingsIgnore drops sibling members.
	SiblingsIgnore SiblingPolicy = "ignore"
)

// CircularPolicies lists the accepted circular policy names.
var CircularPolicies = []CircularPolicy{CircularIgnore, CircularReferenceObject, CircularError}

// UnresolvedPolicies lists the accepted unresolved-reference policy names.
var UnresolvedPolicies = []UnresolvedPolicy{FailFast, CollectAll}

// ParseCircularPolicy parses a circular policy name (case-insensitive).
func ParseCircularPolicy(s string) (CircularPolicy, error) {
	p := CircularPolicy(strings.ToLower(strings.TrimSpace(s)))
	for _, valid := range CircularPolicies {
		if p == valid {
			return p, nil
		}
	}
	return "", &referrors.ConfigError{
		Option:  "circular",
		Value:   s,
		Message: "must be one of ignore, produce-reference-object, error",
	}
}

// ParseUnresolvedPolicy parses an unresolved-reference policy name (case-insensitive).
func ParseUnresolvedPolicy(s string) (UnresolvedPolicy, error) {
	p := UnresolvedPolicy(strings.ToLower(strings.TrimSpace(s)))
	for _, valid := range UnresolvedPolicies {
		if p == valid {
			return p, nil
		}
	}
	return "", &referrors.ConfigError{
		Option:  "on-unresolved",
		Value:   s,
		Message: "must be one of fail-fast, collect-all",
	}
}

// ParseSiblingPolicy parses a sibling policy name (case-insensitive).
func ParseSiblingPolicy(s string) (SiblingPolicy, error) {
	switch p := SiblingPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case SiblingsMerge, SiblingsIgnore:
		return p, nil
	}
	return "", &referrors.ConfigError{
		Option:  "siblings",
		Value:   s,
		Message: "must be one of merge, ignore",
	}
}

func (p CircularPolicy) orDefault() CircularPolicy {
	if p == "" {
		return CircularReferenceObject
	}
	return p
}

func (p UnresolvedPolicy) orDefault() UnresolvedPolicy {
	if p == "" {
		return FailFast
	}
	return p
}

func (p SiblingPolicy) orDefault() SiblingPolicy {
	if p == "" {
		return SiblingsMerge
	}
	return p
}
