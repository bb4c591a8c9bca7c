// Package boardsync reflects card moves on a kanban page to the server.
//
// A Client binds an explicit snapshot of list containers into one drag and
// drop group. Whenever a card lands in a different list the client issues a
// single POST /ui/cards/{cardId}/move with form field list_id, without
// waiting for or inspecting the response. Reorders inside a list are never
// sent. Containers created after Bind are not tracked.
//
// Delivery failures never reach the drag handler; they go to the Reporter
// configured with WithReporter, which by default logs at debug level.
package boardsync
