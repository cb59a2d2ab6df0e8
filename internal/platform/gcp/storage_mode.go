package gcp

import (
	"fmt"
	"net/url"
	"strings"
)

type ObjectStorageMode string

const (
	ObjectStorageModeGCS         ObjectStorageMode = "gcs"
	ObjectStorageModeGCSEmulator ObjectStorageMode = "gcs_emulator"
)

// ReportStorageConfig describes where exported report images live.
type ReportStorageConfig struct {
	Mode          ObjectStorageMode
	EmulatorHost  string
	Bucket        string
	CDNDomain     string
	PublicBaseURL string
}

func (cfg ReportStorageConfig) IsEmulatorMode() bool {
	return cfg.Mode == ObjectStorageModeGCSEmulator
}

// Enabled reports whether a bucket has been configured at all.
func (cfg ReportStorageConfig) Enabled() bool {
	return strings.TrimSpace(cfg.Bucket) != ""
}

type StorageConfigErrorCode string

const (
	StorageConfigErrorInvalidMode         StorageConfigErrorCode = "invalid_mode"
	StorageConfigErrorMissingEmulatorHost StorageConfigErrorCode = "missing_emulator_host"
	StorageConfigErrorInvalidURL          StorageConfigErrorCode = "invalid_url"
)

type StorageConfigError struct {
	Code  StorageConfigErrorCode
	Value string
	Cause error
}

func (e *StorageConfigError) Error() string {
	if e == nil {
		return "invalid report storage config"
	}
	switch e.Code {
	case StorageConfigErrorInvalidMode:
		return fmt.Sprintf("invalid OBJECT_STORAGE_MODE=%q (allowed: %q, %q)", e.Value, ObjectStorageModeGCS, ObjectStorageModeGCSEmulator)
	case StorageConfigErrorMissingEmulatorHost:
		return fmt.Sprintf("OBJECT_STORAGE_MODE=%q requires STORAGE_EMULATOR_HOST to be set", ObjectStorageModeGCSEmulator)
	case StorageConfigErrorInvalidURL:
		return fmt.Sprintf("invalid URL %q; expected absolute URL like http://fake-gcs:4443", e.Value)
	default:
		return "invalid report storage config"
	}
}

func (e *StorageConfigError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// ParseObjectStorageMode resolves the configured mode. An empty mode falls
// back to the emulator when an emulator host is present.
func ParseObjectStorageMode(raw, emulatorHost string) (ObjectStorageMode, error) {
	switch mode := ObjectStorageMode(strings.ToLower(strings.TrimSpace(raw))); mode {
	case "":
		if strings.TrimSpace(emulatorHost) != "" {
			return ObjectStorageModeGCSEmulator, nil
		}
		return ObjectStorageModeGCS, nil
	case ObjectStorageModeGCS, ObjectStorageModeGCSEmulator:
		return mode, nil
	default:
		return "", &StorageConfigError{Code: StorageConfigErrorInvalidMode, Value: raw}
	}
}

func ValidateReportStorageConfig(cfg ReportStorageConfig) error {
	switch cfg.Mode {
	case ObjectStorageModeGCS, ObjectStorageModeGCSEmulator:
	default:
		return &StorageConfigError{Code: StorageConfigErrorInvalidMode, Value: string(cfg.Mode)}
	}
	if cfg.IsEmulatorMode() {
		if strings.TrimSpace(cfg.EmulatorHost) == "" {
			return &StorageConfigError{Code: StorageConfigErrorMissingEmulatorHost}
		}
		if err := validateAbsoluteURL(cfg.EmulatorHost); err != nil {
			return err
		}
	}
	if strings.TrimSpace(cfg.PublicBaseURL) != "" {
		if err := validateAbsoluteURL(cfg.PublicBaseURL); err != nil {
			return err
		}
	}
	return nil
}

func validateAbsoluteURL(raw string) error {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return &StorageConfigError{Code: StorageConfigErrorInvalidURL, Value: raw, Cause: err}
	}
	return nil
}
