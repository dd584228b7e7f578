// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Learning Commons Contributors

package secrets

import (
	"os"
	"strings"

	kgerr "github.com/learning-commons-org/knowledge-graph/pkg/errors"
)

const (
	keyringScheme = "keyring://"
	envScheme     = "env://"
)

// IsKeyringURI reports whether value uses the keyring:// URI scheme.
func IsKeyringURI(value string) bool {
	return strings.HasPrefix(value, keyringScheme)
}

// IsEnvURI reports whether value uses the env:// URI scheme.
func IsEnvURI(value string) bool {
	return strings.HasPrefix(value, envScheme)
}

// ParseKeyringURI extracts service and key from a keyring://service/key URI.
func ParseKeyringURI(uri string) (service, key string, err error) {
	if !IsKeyringURI(uri) {
		return "", "", kgerr.Errorf(kgerr.CodeSecretInvalidInput, "not a keyring URI: %q", uri)
	}

	path := strings.TrimPrefix(uri, keyringScheme)
	parts := strings.SplitN(path, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", kgerr.Errorf(kgerr.CodeSecretInvalidInput,
			"invalid keyring URI %q: expected keyring://service/key", uri)
	}

	return parts[0], parts[1], nil
}

// Resolve turns a config value into a usable secret. keyring://service/key
// reads from the OS keyring, env://VAR_NAME reads from the environment,
// and anything else passes through unchanged as a literal.
func Resolve(store Store, value string) (string, error) {
	switch {
	case IsKeyringURI(value):
		service, key, err := ParseKeyringURI(value)
		if err != nil {
			return "", err
		}
		secret, err := store.Retrieve(service, key)
		if err != nil {
			return "", kgerr.Wrapf(err, kgerr.CodeSecretResolveFailure, "resolving keyring URI %q", value)
		}
		return secret, nil

	case IsEnvURI(value):
		name := strings.TrimPrefix(value, envScheme)
		if name == "" {
			return "", kgerr.Errorf(kgerr.CodeSecretInvalidInput,
				"invalid env URI %q: expected env://VAR_NAME", value)
		}
		secret, ok := os.LookupEnv(name)
		if !ok {
			return "", kgerr.Errorf(kgerr.CodeSecretNotFound,
				"environment variable %s referenced by %q is not set", name, value)
		}
		return secret, nil

	default:
		return value, nil
	}
}
