// Package app wires the compiler to the outside world. It loads the project
// file, builds a Compiler from it, and implements the print, build, run and
// watch operations independently of the command-line front end.
package app
