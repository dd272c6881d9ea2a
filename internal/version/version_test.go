// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInfo_String(t *testing.T) {
	info := Info{Version: "v1.2.3", GitCommit: "abc1234", BuildTime: "2026-01-02T03:04:05Z"}
	assert.Equal(t, "ghostdash v1.2.3 (commit: abc1234, built: 2026-01-02T03:04:05Z)", info.String())
}

func TestInfo_Short(t *testing.T) {
	assert.Equal(t, "v1.2.3", Info{Version: "v1.2.3"}.Short())
	assert.Equal(t, "dev", Info{}.Short())
}
