package lattice

import (
	"github.com/cs-au-dk/cprop/utils"

	"github.com/fatih/color"
)

var colorize = struct {
	Lattice func(...interface{}) string
	Element func(...interface{}) string
	Key     func(...interface{}) string
}{
	Lattice: func(is ...interface{}) string {
		return utils.CanColorize(color.New(color.FgHiBlue).SprintFunc())(is...)
	},
	Element: func(is ...interface{}) string {
		return utils.CanColorize(color.New(color.FgCyan).SprintFunc())(is...)
	},
	Key: func(is ...interface{}) string {
		return utils.CanColorize(color.New(color.FgYellow).SprintFunc())(is...)
	},
}
