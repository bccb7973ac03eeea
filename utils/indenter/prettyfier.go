package indenter

import (
	"fmt"
	"strings"
)

// indenter accumulates a nested, indented rendering. Every call returns an
// updated copy, so renderings may be composed from String methods that use
// an indenter themselves.
type indenter struct {
	buffer string
	level  int
}

func Indenter() indenter {
	return indenter{}
}

func (i indenter) indent() string {
	return strings.Repeat("  ", i.level)
}

func (i indenter) Start(str string) indenter {
	i.buffer = str
	return i
}

type stringableString string

func (s stringableString) String() string {
	return string(s)
}

func (i indenter) NestStrings(strs ...string) indenter {
	return i.NestStringsSep("", strs...)
}

func (i indenter) NestStringsSep(sep string, strs ...string) indenter {
	stringers := make([]fmt.Stringer, len(strs))
	for i, v := range strs {
		stringers[i] = stringableString(v)
	}
	return i.NestSep(sep, stringers...)
}

func (i indenter) Nest(strs ...fmt.Stringer) indenter {
	return i.NestSep("", strs...)
}

func (i indenter) NestSep(sep string, strs ...fmt.Stringer) indenter {
	thunks := make([]func() string, len(strs))
	for j, str := range strs {
		thunks[j] = str.String
	}
	return i.NestThunkedSep(sep, thunks...)
}

func (i indenter) NestThunked(strs ...func() string) indenter {
	return i.NestThunkedSep("", strs...)
}

// NestThunkedSep appends the given renderings one level deeper, separated
// by sep. A single rendering is inlined.
func (i indenter) NestThunkedSep(sep string, strs ...func() string) indenter {
	if len(strs) == 1 {
		i.buffer += strs[0]()
		return i
	}

	i.level++
	for j, str := range strs {
		i.buffer += "\n" + i.indent() + str()
		if j < len(strs)-1 {
			i.buffer += sep
		}
	}
	i.level--
	i.buffer += "\n"
	return i
}

func (i indenter) End(str string) string {
	if strings.HasSuffix(i.buffer, "\n") {
		return i.buffer + i.indent() + str
	}
	return i.buffer + str
}
