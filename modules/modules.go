package modules

import (
	"io"

	"github.com/tucanscript/tucan/core"
)

// Initialize loads the standard natives and constants into s. print
// writes to out.
func Initialize(s *core.Script, out io.Writer) {
	loadStd(s, out)
	loadArray(s)
	loadMath(s)
}
