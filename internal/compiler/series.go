package compiler

import (
	"fmt"
	"strings"
)

// Names the generated program binds in the handler scope of the template.
const (
	chatIDVar      = "chat_id"
	statusVar      = "status"
	statusTableVar = "CONST_STATUSES"
	textVar        = "text"
)

// seriesEmission is the fixed expansion of "series <name>".
type seriesEmission struct {
	Declaration string // variables
	Default     string // variables
	Setter      string // series_setter
	Getter      string // series
}

func expandSeries(name string) seriesEmission {
	table := "CONST_" + strings.ToUpper(name) + "_SERIES"
	def := "default_" + name
	return seriesEmission{
		Declaration: table + " = {}",
		Default:     def + ` = ""`,
		Setter:      fmt.Sprintf("%s[%s] = %s", table, chatIDVar, name),
		Getter: strings.Join([]string{
			fmt.Sprintf("%s = %s.get(%s)", name, table, chatIDVar),
			fmt.Sprintf("if %s is None:", name),
			indentUnit + fmt.Sprintf("%s[%s] = %s", table, chatIDVar, def),
			indentUnit + fmt.Sprintf("%s = %s", name, def),
		}, "\n"),
	}
}
