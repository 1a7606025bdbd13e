// Package model defines the record a view container renders and a default
// in-memory implementation of it.
//
// A Model is a flat attribute mapping with point reads, a snapshot of all
// attributes, and a change-notification stream:
//
//	rec := model.NewRecord("cs:precise/wordpress-15", map[string]any{
//	    "name": "wordpress",
//	})
//	cancel := rec.Subscribe(func(ch model.Change) {
//	    fmt.Println(ch.Keys())
//	})
//	rec.Set("name", "mysql")
//	cancel()
//
// Notifications are delivered synchronously on the goroutine that made the
// change, after the record's lock has been released.
package model
