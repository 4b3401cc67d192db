// Package imagestore persists profile images on disk under a media root.
// Each user has a single profile image slot; re-uploading replaces the
// previous file regardless of extension.
package imagestore

import (
	"io"
	"os"
	"path/filepath"
	"strings"
)

type Store struct {
	Root string
}

func New(root string) *Store {
	return &Store{Root: root}
}

// Save writes the uploaded image into the user's profile image slot and
// returns the public URL path it will be served under.
func (s *Store) Save(email, filename string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = ".jpg"
	}

	dir := filepath.Join(s.Root, "users", email, "profile_image")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	// Overwrite semantics: drop any earlier upload with a different extension.
	old, err := filepath.Glob(filepath.Join(dir, "profile_image.*"))
	if err != nil {
		return "", err
	}
	for _, path := range old {
		os.Remove(path)
	}

	path := filepath.Join(dir, "profile_image"+ext)
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", err
	}

	return "/media/users/" + email + "/profile_image/profile_image" + ext, nil
}
