package client

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/mod/semver"
)

// ErrIncompatible is returned when client and server major versions differ.
var ErrIncompatible = errors.New("incompatible server version")

// Compatible reports whether a client at clientVersion can talk to a server
// at serverVersion. Versions that are not valid semver (development builds)
// are always compatible.
func Compatible(clientVersion, serverVersion string) bool {
	cv, sv := canonical(clientVersion), canonical(serverVersion)
	if cv == "" || sv == "" {
		return true
	}
	return semver.Major(cv) == semver.Major(sv)
}

// CheckServer fetches the server version and compares it with
// clientVersion.
func (c *Client) CheckServer(ctx context.Context, clientVersion string) error {
	sv, err := c.ServerVersion(ctx)
	if err != nil {
		return fmt.Errorf("fetch server version: %w", err)
	}
	if !Compatible(clientVersion, sv) {
		return fmt.Errorf("%w: client %s, server %s", ErrIncompatible, clientVersion, sv)
	}
	return nil
}

// canonical accepts versions with or without the leading "v".
func canonical(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return ""
	}
	return semver.Canonical(v)
}
