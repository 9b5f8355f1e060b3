package objects

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// ErrMissingObject is raised when a fingerprint does not resolve to any
// object in the store. Per spec.md §7 this is an internal/invariant
// failure, not a friendly user message.
var ErrMissingObject = errors.New("objects: missing object")

// ErrNoSuchCommit is raised by ResolvePrefix when no commit id begins with
// the given prefix.
var ErrNoSuchCommit = errors.New("objects: no commit with that prefix")

// ErrAmbiguousPrefix is raised by ResolvePrefix when more than one commit
// id begins with the given prefix.
var ErrAmbiguousPrefix = errors.New("objects: prefix not unique")

// Store is the two-namespace, fan-out content-addressed object store
// rooted at <repo>/objects/{commits,blobs}/<2-hex>/<rest>. Objects are
// zstd-compressed at rest (distinct from packfile/delta encoding, which
// this specification excludes — every object remains individually
// addressed and transferred, just compressed on disk).
type Store struct {
	root string
}

// NewStore creates a Store rooted at the given objects/ directory's
// parent. The objects/ subdirectory is created lazily on first write.
func NewStore(root string) *Store {
	return &Store{root: root}
}

func (s *Store) namespaceDir(objType ObjectType) string {
	switch objType {
	case TypeBlob:
		return filepath.Join(s.root, "objects", "blobs")
	case TypeCommit:
		return filepath.Join(s.root, "objects", "commits")
	default:
		panic(fmt.Sprintf("objects: unknown object type %q", objType))
	}
}

func (s *Store) objectPath(objType ObjectType, h Hash) string {
	hs := string(h)
	if len(hs) < 3 {
		return filepath.Join(s.namespaceDir(objType), hs)
	}
	return filepath.Join(s.namespaceDir(objType), hs[:2], hs[2:])
}

// Has reports whether the store already contains the given object.
func (s *Store) Has(objType ObjectType, h Hash) bool {
	_, err := os.Stat(s.objectPath(objType, h))
	return err == nil
}

func encode(data []byte) ([]byte, error) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("objects: zstd writer: %w", err)
	}
	defer enc.Close()
	return enc.EncodeAll(data, nil), nil
}

func decode(data []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("objects: zstd reader: %w", err)
	}
	defer dec.Close()
	return dec.DecodeAll(data, nil)
}

// write stores raw content under the envelope "type len\0content",
// zstd-compressed, keyed by the caller-supplied fingerprint h (the blob's
// content hash or the commit's logical id, never a hash of the envelope).
// Idempotent: writing an already-present fingerprint is a no-op.
func (s *Store) write(objType ObjectType, h Hash, data []byte) error {
	if s.Has(objType, h) {
		return nil
	}

	header := fmt.Sprintf("%s %d\x00", objType, len(data))
	envelope := append([]byte(header), data...)
	compressed, err := encode(envelope)
	if err != nil {
		return fmt.Errorf("objects: write %s: %w", h, err)
	}

	dir := filepath.Dir(s.objectPath(objType, h))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("objects: write %s: mkdir: %w", h, err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("objects: write %s: tmpfile: %w", h, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(compressed); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("objects: write %s: %w", h, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("objects: write %s: close: %w", h, err)
	}

	dest := s.objectPath(objType, h)
	if err := os.Rename(tmpName, dest); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("objects: write %s: rename: %w", h, err)
	}
	return nil
}

// read retrieves and decompresses an object, validating its envelope.
func (s *Store) read(objType ObjectType, h Hash) ([]byte, error) {
	raw, err := os.ReadFile(s.objectPath(objType, h))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("objects: read %s: %w", h, ErrMissingObject)
		}
		return nil, fmt.Errorf("objects: read %s: %w", h, err)
	}

	envelope, err := decode(raw)
	if err != nil {
		return nil, fmt.Errorf("objects: read %s: decompress: %w", h, err)
	}

	nulIdx := bytes.IndexByte(envelope, 0)
	if nulIdx < 0 {
		return nil, fmt.Errorf("objects: read %s: invalid envelope (no NUL)", h)
	}
	header := string(envelope[:nulIdx])
	content := envelope[nulIdx+1:]

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || ObjectType(parts[0]) != objType {
		return nil, fmt.Errorf("objects: read %s: envelope type mismatch %q", h, header)
	}
	length, err := strconv.Atoi(parts[1])
	if err != nil || len(content) != length {
		return nil, fmt.Errorf("objects: read %s: envelope length mismatch", h)
	}
	return content, nil
}

// PutBlob stores raw file content, keyed by the fingerprint of its bytes
// (spec.md §3: "Identified by the fingerprint of its bytes"). Idempotent.
func (s *Store) PutBlob(data []byte) (Hash, error) {
	h := HashBytes(data)
	if err := s.write(TypeBlob, h, data); err != nil {
		return "", err
	}
	return h, nil
}

// GetBlob retrieves blob bytes by fingerprint.
func (s *Store) GetBlob(h Hash) ([]byte, error) {
	return s.read(TypeBlob, h)
}

// PutCommit writes a commit object keyed by its logical id (spec.md §3:
// "id: fingerprint derived deterministically from (message, timestamp,
// parent-or-empty, canonical serialization of tree)" — not a hash of the
// serialized bytes). Idempotent.
func (s *Store) PutCommit(c *Commit) (Hash, error) {
	h := c.ID()
	if err := s.write(TypeCommit, h, c.Marshal()); err != nil {
		return "", err
	}
	return h, nil
}

// GetCommit retrieves a commit by its logical id.
func (s *Store) GetCommit(h Hash) (*Commit, error) {
	data, err := s.read(TypeCommit, h)
	if err != nil {
		return nil, err
	}
	return UnmarshalCommit(data)
}

// AllCommitIDs enumerates every commit id currently in the store.
func (s *Store) AllCommitIDs() ([]Hash, error) {
	dir := filepath.Join(s.root, "objects", "commits")
	var ids []Hash
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return ids, nil
		}
		return nil, fmt.Errorf("objects: list commits: %w", err)
	}
	for _, fanout := range entries {
		if !fanout.IsDir() {
			continue
		}
		sub, err := os.ReadDir(filepath.Join(dir, fanout.Name()))
		if err != nil {
			return nil, fmt.Errorf("objects: list commits: %w", err)
		}
		for _, f := range sub {
			if f.IsDir() {
				continue
			}
			ids = append(ids, Hash(fanout.Name()+f.Name()))
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// ResolvePrefix returns the unique commit id whose hex representation
// begins with prefix.
func (s *Store) ResolvePrefix(prefix string) (Hash, error) {
	ids, err := s.AllCommitIDs()
	if err != nil {
		return "", err
	}
	var matches []Hash
	for _, id := range ids {
		if strings.HasPrefix(string(id), prefix) {
			matches = append(matches, id)
		}
	}
	switch len(matches) {
	case 0:
		return "", ErrNoSuchCommit
	case 1:
		return matches[0], nil
	default:
		return "", ErrAmbiguousPrefix
	}
}
