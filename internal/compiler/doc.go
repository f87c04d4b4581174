// Package compiler turns .bbm directive sources into a program by splicing
// code fragments into the named blocks of a template.
//
// A compile runs in four stages: backtick fragments are lifted out of the
// source and replaced with code_id_N tokens, the single <<< >>> status
// section is lifted out the same way, the remaining text is split on ';' into
// typed directives, and the directives are evaluated in order into an
// accumulator of named blocks. The accumulator is finally woven into the
// template between each block's "# name" and "# end_name" marker lines.
//
// A Compiler is immutable after construction. Every call to Compile works on a
// private session, so a single Compiler can serve concurrent compiles.
package compiler
