//go:build tools
// +build tools

package tools

import (
	_ "gotest.tools/gotestsum"
)
