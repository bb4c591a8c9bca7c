// Command opsboard drives the board sync client from the terminal: it replays
// scripted drag gestures against a running board server, sends single move
// notifications, and produces the demo storyboard.
package main
