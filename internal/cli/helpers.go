package cli

import (
	"os"
	"time"

	"github.com/questlog/questlog/internal/daemon"
	"github.com/questlog/questlog/internal/domain"
)

func nowUTC() time.Time {
	return time.Now().UTC()
}

// currentUser resolves the acting user: --user flag, then QUESTLOG_USER,
// then "local" for the single-person default.
func currentUser() string {
	if userFlag != "" {
		return userFlag
	}
	if env := os.Getenv("QUESTLOG_USER"); env != "" {
		return env
	}
	return "local"
}

var userFlag string

func init() {
	rootCmd.PersistentFlags().StringVar(&userFlag, "user", "", "Act as this user (default: QUESTLOG_USER or \"local\")")
}

// openDaemon builds the service stack and makes sure the acting user exists.
func openDaemon() (*daemon.Daemon, string, error) {
	d, err := daemon.New()
	if err != nil {
		return nil, "", err
	}

	userID := currentUser()
	if _, err := d.DB.GetUser(userID); err != nil {
		if !domain.IsNotFound(err) {
			d.Close()
			return nil, "", err
		}
		if err := d.DB.CreateUser(userID, nowUTC()); err != nil {
			d.Close()
			return nil, "", err
		}
	}
	return d, userID, nil
}
