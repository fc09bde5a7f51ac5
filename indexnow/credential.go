package indexnow

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// keyPattern is a loose IndexNow key check: 16-64 alphanumerics and dashes.
var keyPattern = regexp.MustCompile(`^[A-Za-z0-9-]{16,64}$`)

// KeyFile is one .txt file from the public directory.
type KeyFile struct {
	Name    string
	Content string
}

// Credential is the key to submit and the file that proves it.
type Credential struct {
	Key      string
	FileName string
}

// ReadKeyFiles lists the regular .txt files directly inside dir, in name
// order, together with their contents.
func ReadKeyFiles(dir string) ([]KeyFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []KeyFile
	for _, e := range entries {
		if !e.Type().IsRegular() || !hasTxtExt(e.Name()) {
			continue
		}
		b, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		files = append(files, KeyFile{Name: e.Name(), Content: string(b)})
	}
	return files, nil
}

// FindCredential picks the key file from a directory snapshot.
//
// A self-naming key file (content looks like a key and the file name is the
// key, or at least looks like one) wins. Otherwise the first file with
// "indexnow" in its name is used, whatever its content looks like.
func FindCredential(files []KeyFile) (Credential, error) {
	for _, f := range files {
		if !hasTxtExt(f.Name) {
			continue
		}
		content := strings.TrimSpace(f.Content)
		base := f.Name[:len(f.Name)-len(".txt")]
		if keyPattern.MatchString(content) && (content == base || keyPattern.MatchString(base)) {
			return Credential{Key: content, FileName: f.Name}, nil
		}
	}
	for _, f := range files {
		if !hasTxtExt(f.Name) || !strings.Contains(strings.ToLower(f.Name), "indexnow") {
			continue
		}
		return Credential{Key: strings.TrimSpace(f.Content), FileName: f.Name}, nil
	}
	return Credential{}, ErrCredentialNotFound
}

func hasTxtExt(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".txt")
}
