package vws

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMissingCredentials = errors.New("an email address and a password are required")
	ErrMissingLicenseName = errors.New("a license name is required to create a cloud database")
)

type Credentials struct {
	EmailAddress string
	Password     string
}

func (c Credentials) Validate() error {
	if strings.TrimSpace(c.EmailAddress) == "" || c.Password == "" {
		return ErrMissingCredentials
	}
	return nil
}

type DatabaseType string

const (
	DatabaseTypeCloud  DatabaseType = "cloud"
	DatabaseTypeVuMark DatabaseType = "vumark"
)

func ParseDatabaseType(value string) (DatabaseType, error) {
	switch DatabaseType(strings.ToLower(strings.TrimSpace(value))) {
	case DatabaseTypeCloud:
		return DatabaseTypeCloud, nil
	case DatabaseTypeVuMark:
		return DatabaseTypeVuMark, nil
	}
	return "", fmt.Errorf("unknown database type %q, expected %q or %q", value, DatabaseTypeCloud, DatabaseTypeVuMark)
}

// DatabaseDetails are the credentials shown on a database's access keys tab.
// VuMark databases only have server keys, the client keys are left empty.
type DatabaseDetails struct {
	DatabaseName    string `json:"database_name" yaml:"database_name"`
	ServerAccessKey string `json:"server_access_key" yaml:"server_access_key"`
	ServerSecretKey string `json:"server_secret_key" yaml:"server_secret_key"`
	ClientAccessKey string `json:"client_access_key,omitempty" yaml:"client_access_key,omitempty"`
	ClientSecretKey string `json:"client_secret_key,omitempty" yaml:"client_secret_key,omitempty"`
}

type LicenseDetails struct {
	LicenseName string `json:"license_name" yaml:"license_name"`
	LicenseKey  string `json:"license_key" yaml:"license_key"`
}
