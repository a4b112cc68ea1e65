package span

import (
	"fmt"
	"runtime"
	"strings"
)

const callerPrefix = "go.scnd.dev/open/upgrader/package/span."

type Caller struct {
	Name *string `json:"name,omitempty"`
	Line *int    `json:"line,omitempty"`
}

func (r *Caller) String() string {
	return fmt.Sprintf("%s:%d", *r.Name, *r.Line)
}

func NewCaller() *Caller {
	// * find outer package caller
	skip := 1
	for {
		pc, _, _, ok := runtime.Caller(skip)
		if !ok {
			break
		}
		if !strings.HasPrefix(runtime.FuncForPC(pc).Name(), callerPrefix) {
			break
		}
		skip++
	}

	pc, _, line, ok := runtime.Caller(skip)
	if !ok {
		name := "unknown"
		return &Caller{
			Name: &name,
			Line: &line,
		}
	}
	name := runtime.FuncForPC(pc).Name()
	name = name[strings.LastIndex(name, "/")+1:]

	return &Caller{
		Name: &name,
		Line: &line,
	}
}
