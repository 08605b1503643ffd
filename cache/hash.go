package cache

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// cleanUpWithHash empties dir when the stored hash of salt is missing or
// different, then records the new hash.
func cleanUpWithHash(dir string, salt ...string) error {
	newHash := hashSalt(salt...)

	hashFile := filepath.Join(dir, "hash")

	b, err := os.ReadFile(hashFile)
	if err == nil && len(b) == 4 && binary.BigEndian.Uint32(b) == newHash {
		return nil
	}
	if err != nil && !os.IsNotExist(err) {
		return errors.WithStack(err)
	}

	err = os.RemoveAll(dir)
	if err != nil {
		return errors.WithStack(err)
	}
	err = os.MkdirAll(dir, 0700)
	if err != nil {
		return errors.WithStack(err)
	}

	b = make([]byte, 4)
	binary.BigEndian.PutUint32(b, newHash)

	return errors.WithStack(os.WriteFile(hashFile, b, 0600))
}

func hashSalt(salt ...string) uint32 {
	h := fnv.New32a()
	for _, s := range salt {
		fmt.Fprint(h, s)
		h.Write([]byte{0})
	}
	return h.Sum32()
}
