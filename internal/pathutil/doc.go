// Copyright 2024 Erraggy
// SPDX-License-Identifier: MIT

// Package pathutil provides efficient JSON Pointer building utilities for
// document traversal.
//
// The primary type is [PathBuilder], which uses push/pop semantics to build
// pointers incrementally without allocating intermediate strings. This is
// particularly useful in recursive traversal where pointers are built on each
// recursive call but only used when recording an edge or reporting an error.
//
// # PathBuilder Usage
//
// Use [Get] to obtain a pooled PathBuilder, and [Put] to return it:
//
//	path := pathutil.Get()
//	defer pathutil.Put(path)
//
//	path.Push("properties")
//	path.Push("a/b")   // escaped as "a~1b"
//	// ... recurse ...
//	path.Pop()
//	path.Pop()
//
//	// Only call String() when needed
//	if circular {
//	    sites = append(sites, path.String())
//	}
//
// Sequence indices are supported via [PathBuilder.PushIndex]:
//
//	path.Push("items")
//	path.PushIndex(0)  // produces "/items/0"
//
// # Reference Builders
//
// The package also provides helpers for building reference strings:
//
//	ref := pathutil.LocalRef("/definitions/Pet")           // "#/definitions/Pet"
//	ref := pathutil.BundledRef("$bundled", "pet", "/x")    // "#/$bundled/pet/x"
//
// [SlotName] derives readable bundle slot names from document URLs.
//
// # Output Path Sanitization
//
// [SanitizeOutputPath] checks a path before a bundled or dereferenced
// document is written to it. Symlinks, directories and paths whose parent
// directory is missing are refused:
//
//	safe, err := pathutil.SanitizeOutputPath(userProvidedPath)
//	if err != nil {
//	    return err
//	}
package pathutil
