// Package prompt asks the generator's questions on the terminal through a
// swappable Driver.
package prompt
