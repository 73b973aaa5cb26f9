// Package terminal is the tcell front end for Towers of Hanoi.
//
// It contains the two collaborators of the engine that touch the
// terminal: the Renderer, which draws a State snapshot and never mutates
// anything, and the input side (Keymap, start and end screens), which
// turns key events into service intents. App ties them together into one
// blocking session loop.
package terminal
