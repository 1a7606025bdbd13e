// Package server hosts view containers over HTTP and WebSocket.
//
// One record is shared by every client. GET / renders a fresh container
// for the record and returns the page. GET /ws opens a live session: the
// session owns its own container, runs every container call on its event
// loop, and pushes viewlet HTML to the client whenever the record changes.
//
// # Session Messages
//
// Clients send JSON messages:
//
//	{"type": "show", "viewlet": "settings"}
//	{"type": "click", "target": "a[data-viewlet=settings]"}
//	{"type": "edit", "viewlet": "summary", "key": "name", "value": "draft"}
//	{"type": "set", "key": "name", "value": "mysql"}
//	{"type": "refresh"}
//
// "edit" records a local, unsaved change to a bound field; "set" writes the
// shared record, which every session observes. The server pushes:
//
//	{"type": "html", "html": "<div>...</div>"}
//	{"type": "update", "viewlet": "summary", "html": "..."}
//	{"type": "conflict", "viewlet": "summary", "key": "name", "value": "mysql"}
//	{"type": "error", "code": "V020", "error": "..."}
//
// # Usage
//
//	layout, _ := config.Load(".")
//	rec := layout.NewRecord()
//	srv := server.New(func() container.Config {
//	    return layout.ContainerConfig(rec)
//	}, rec, nil)
//	srv.Run(ctx)
package server
