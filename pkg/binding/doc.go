// Package binding keeps rendered viewlets in sync with the models they
// display.
//
// An Engine owns one Binding per viewlet name. A binding subscribes to the
// viewlet's model (after Rebind) and, on every change, refreshes the nodes
// marked with data-bind="<key>" inside the viewlet's container, signals a
// conflict for keys the user edited locally, and then calls the viewlet's
// Update.
//
// Change delivery runs through a Dispatcher. The default runs it inline on
// the writer's goroutine; hosts with their own event loop install one that
// queues the call instead.
package binding
