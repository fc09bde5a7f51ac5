package indexnow

import (
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// WriteKeyFile creates a new self-naming key file, <key>.txt containing the
// key, in dir.
func WriteKeyFile(dir string) (Credential, error) {
	key := uuid.NewString()
	cred := Credential{Key: key, FileName: key + ".txt"}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Credential{}, err
	}
	if err := os.WriteFile(filepath.Join(dir, cred.FileName), []byte(key+"\n"), 0o644); err != nil {
		return Credential{}, err
	}
	return cred, nil
}
