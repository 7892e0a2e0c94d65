// Package all pulls in all shell command providers.
package all

import (
	_ "github.com/coretalks/ulp.go/pkg/cli/cmds/image"
	_ "github.com/coretalks/ulp.go/pkg/cli/cmds/rig"
)
