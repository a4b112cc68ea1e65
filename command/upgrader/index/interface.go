package index

import (
	"io"
)

type App interface {
	Verbose() *bool
	Output() io.Writer
}
