package dedup

import (
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io"

	"github.com/go-git/go-billy/v5"
	"golang.org/x/crypto/blake2b"
)

// Algorithm names a digest function.
type Algorithm string

const (
	SHA1    Algorithm = "sha1"
	SHA256  Algorithm = "sha256"
	BLAKE2b Algorithm = "blake2b"
)

// ErrUnknownAlgorithm is returned when parsing an unsupported algorithm name.
var ErrUnknownAlgorithm = errors.New("unknown hash algorithm")

// Algorithms lists the supported algorithms, default first.
var Algorithms = []Algorithm{SHA1, SHA256, BLAKE2b}

func ParseAlgorithm(name string) (Algorithm, error) {
	if name == "" {
		return SHA1, nil
	}
	for _, a := range Algorithms {
		if string(a) == name {
			return a, nil
		}
	}
	return "", fmt.Errorf("%w: `%s`", ErrUnknownAlgorithm, name)
}

func (a Algorithm) New() hash.Hash {
	switch a {
	case SHA256:
		return sha256.New()
	case BLAKE2b:
		// only fails for keys longer than 64 bytes
		h, err := blake2b.New256(nil)
		if err != nil {
			panic(err)
		}
		return h
	default:
		return sha1.New()
	}
}

// Digest is the raw output of a hash function. It is comparable so it can
// key a map.
type Digest string

func (d Digest) String() string { return hex.EncodeToString([]byte(d)) }

// Hasher digests files read from a filesystem.
type Hasher struct {
	FS        billy.Filesystem
	Algorithm Algorithm
}

// Hash digests the first block of the file at `path` or, if `full` is set,
// the whole file. Full digests are computed one block at a time so memory
// use doesn't depend on the file's size.
func (h Hasher) Hash(path string, full bool) (digest Digest, err error) {
	defer func() {
		if err != nil {
			digest = ""
			err = fmt.Errorf("hashing file `%s`: %w", path, err)
		}
	}()

	var file billy.File
	if file, err = h.FS.Open(path); err != nil {
		err = fmt.Errorf("opening file: %w", err)
		return
	}
	defer func() { err = errors.Join(err, file.Close()) }()

	sum := h.Algorithm.New()
	var buf [blockSize]byte
	if !full {
		var n int
		n, err = io.ReadFull(file, buf[:])
		if err != nil && !errors.Is(err, io.EOF) &&
			!errors.Is(err, io.ErrUnexpectedEOF) {
			err = fmt.Errorf("reading first block: %w", err)
			return
		}
		err = nil
		sum.Write(buf[:n])
		digest = Digest(sum.Sum(nil))
		return
	}

	for {
		var n int
		n, err = file.Read(buf[:])
		sum.Write(buf[:n])
		if errors.Is(err, io.EOF) {
			err = nil
			break
		}
		if err != nil {
			err = fmt.Errorf("reading file contents: %w", err)
			return
		}
	}
	digest = Digest(sum.Sum(nil))
	return
}

const blockSize = 1024
