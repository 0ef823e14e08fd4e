package locker

import (
	"errors"
	"log"
	"os"
	"time"
)

// backupOnce copies the persisted document to a dated sibling file. At most
// one backup per day is kept; a later run on the same day overwrites it.
func backupOnce(path string) error {
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path+"."+time.Now().Format("2006-01-02")+".bak", raw, 0o644)
}

// StartBackupWorker launches a background goroutine that backs up the
// persisted document once at startup and then once per day.
func StartBackupWorker(path string) {
	go func() {
		if err := backupOnce(path); err != nil {
			log.Printf("backup error (startup): %v", err)
		}

		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()

		for range ticker.C {
			if err := backupOnce(path); err != nil {
				log.Printf("backup error: %v", err)
			}
		}
	}()
}
