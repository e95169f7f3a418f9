// Package cloudsql resolves the PostgreSQL connection string for both local
// development (DATABASE_URL) and Cloud Run with a mounted Cloud SQL socket.
package cloudsql

import (
	"fmt"
	"os"
	"strings"
)

// BuildDatabaseURL returns the connection string to use. DATABASE_URL wins
// when set; otherwise INSTANCE_CONNECTION_NAME plus DB_USER/DB_PASSWORD/DB_NAME
// build a Unix-socket string for the Cloud SQL mount at /cloudsql/<instance>.
// An empty DB_PASSWORD selects IAM authentication.
func BuildDatabaseURL() (string, error) {
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		return dbURL, nil
	}

	instance := os.Getenv("INSTANCE_CONNECTION_NAME")
	user := os.Getenv("DB_USER")
	password := os.Getenv("DB_PASSWORD")
	name := os.Getenv("DB_NAME")

	if instance == "" {
		return "", fmt.Errorf("neither DATABASE_URL nor INSTANCE_CONNECTION_NAME is set")
	}
	if user == "" || name == "" {
		return "", fmt.Errorf("DB_USER and DB_NAME must be set when using INSTANCE_CONNECTION_NAME")
	}

	socketPath := fmt.Sprintf("/cloudsql/%s", instance)
	if password != "" {
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s sslmode=disable",
			socketPath, user, password, name), nil
	}
	return fmt.Sprintf("host=%s user=%s dbname=%s sslmode=disable",
		socketPath, user, name), nil
}

// ConnectionInfo describes the resolved connection for startup logging, with
// any password redacted.
func ConnectionInfo() map[string]string {
	info := make(map[string]string)

	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		info["connection_type"] = "direct"
		info["database_url"] = redactPassword(dbURL)
		return info
	}

	if instance := os.Getenv("INSTANCE_CONNECTION_NAME"); instance != "" {
		info["connection_type"] = "cloud_sql"
		info["instance"] = instance
		info["user"] = os.Getenv("DB_USER")
		info["database"] = os.Getenv("DB_NAME")
		return info
	}

	info["connection_type"] = "none"
	return info
}

func redactPassword(connStr string) string {
	if strings.HasPrefix(connStr, "postgresql://") || strings.HasPrefix(connStr, "postgres://") {
		parts := strings.SplitN(connStr, "@", 2)
		if len(parts) == 2 {
			userParts := strings.Split(parts[0], ":")
			if len(userParts) >= 3 {
				return userParts[0] + "://" + userParts[1] + ":***@" + parts[1]
			}
		}
	}
	return connStr
}
