package content

import (
	"olc/utils/debug"
)

// String returns a readable tree of the whole Content starting with source
// description followed by decoded song. It exists solely for manual
// inspection during debugging.
func (c *Content) String() string {
	if c == nil {
		return "<nil Content>"
	}

	tw := debug.NewTreeWriter()
	tw.Line(0, "Content ref=%s", c.RefID)
	tw.Fields(1, "Source", "name", c.SrcName, "kind", c.Kind.String(), "workdir", c.WorkDir)
	return tw.String() + c.Song.String()
}
