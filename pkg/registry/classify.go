// Copyright 2026 Release CI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

// Package registry uploads release artifacts to package registries.
package registry

import "strings"

// IsDuplicateVersion reports whether tool output indicates the uploaded
// version already exists in the registry. A duplicate means there is no
// remaining work for the upload step, not an error: concurrent platform
// runs may race to publish the same version.
func IsDuplicateVersion(output string) bool {
	s := strings.ToLower(output)
	return strings.Contains(s, "already exists") ||
		strings.Contains(s, "file already uploaded") ||
		strings.Contains(s, "409") ||
		strings.Contains(s, "conflict")
}

// IsAlreadyAuthenticated reports whether login output indicates an
// existing session. Login is idempotent: an existing session is success.
func IsAlreadyAuthenticated(output string) bool {
	s := strings.ToLower(output)
	return strings.Contains(s, "already logged in") ||
		strings.Contains(s, "already authenticated") ||
		strings.Contains(s, "using token")
}
