package objects

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Commit is the immutable snapshot record described in spec.md §3. Tree
// maps a working-tree-relative path directly to the fingerprint of its
// blob; there is no separate addressable tree object, per the flat-tree
// semantics pinned by the specification.
type Commit struct {
	Message      string          `json:"message"`
	Timestamp    string          `json:"timestamp"`
	Parent       Hash            `json:"parent,omitempty"`
	SecondParent Hash            `json:"second_parent,omitempty"`
	Tree         map[string]Hash `json:"tree"`

	// Signature is an optional SSH-keypair signature over the commit's
	// ID() bytes (see pkg/signing and SPEC_FULL.md). Like SecondParent,
	// it never influences ID() — signing a commit after the fact, or not
	// signing it at all, cannot change its identity.
	Signature string `json:"signature,omitempty"`
}

// EpochTimestamp is the bootstrap commit's timestamp, matching Gitlet's
// "Thu Jan 01 00:00:00 1970 +0000" convention in spirit (kept as a plain
// constant string rather than a formatted time so the id derivation below
// stays a pure function of bytes).
const EpochTimestamp = "Thu Jan 01 00:00:00 1970 +0000"

// canonicalTree serializes Tree in sorted-key order so that two commits
// with identical entries always serialize identically, keeping the id
// derivation deterministic (spec.md §9: "implementers should sort and MUST
// document any change" — this is that documented choice).
func canonicalTree(tree map[string]Hash) []byte {
	names := make([]string, 0, len(tree))
	for name := range tree {
		names = append(names, name)
	}
	sort.Strings(names)

	var buf bytes.Buffer
	for _, name := range names {
		buf.WriteString(name)
		buf.WriteByte(0)
		buf.WriteString(string(tree[name]))
		buf.WriteByte(0)
	}
	return buf.Bytes()
}

// ID computes the commit's content-derived fingerprint from
// (message, timestamp, parent-or-empty, canonical tree). SecondParent is
// deliberately excluded, per spec.md §3's preserved design quirk and
// invariant 5 — two merges with identical parents/message/timestamp
// produce the same id regardless of which branch supplied the second
// parent.
func (c *Commit) ID() Hash {
	return HashItems(
		[]byte(c.Message),
		[]byte(c.Timestamp),
		[]byte(c.Parent),
		canonicalTree(c.Tree),
	)
}

// Marshal serializes a commit for on-disk storage. Round-tripping through
// Marshal/Unmarshal preserves every field; the id is never stored — it is
// always re-derived from the logical fields via ID().
func (c *Commit) Marshal() []byte {
	data, err := json.Marshal(c)
	if err != nil {
		// Commit only ever holds strings and a string-keyed map of
		// strings; this cannot fail.
		panic(fmt.Sprintf("objects: marshal commit: %v", err))
	}
	return data
}

// UnmarshalCommit deserializes a commit previously produced by Marshal.
func UnmarshalCommit(data []byte) (*Commit, error) {
	var c Commit
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("objects: unmarshal commit: %w", err)
	}
	if c.Tree == nil {
		c.Tree = make(map[string]Hash)
	}
	return &c, nil
}

// IsMerge reports whether the commit has a second parent.
func (c *Commit) IsMerge() bool {
	return c.SecondParent != ""
}

// Parents returns the commit's parent fingerprints in (parent,
// second_parent) order, omitting any that are absent.
func (c *Commit) Parents() []Hash {
	var out []Hash
	if c.Parent != "" {
		out = append(out, c.Parent)
	}
	if c.SecondParent != "" {
		out = append(out, c.SecondParent)
	}
	return out
}
