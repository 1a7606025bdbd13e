// Package config loads view container layouts.
//
// A layout describes one container: its main template, insertion
// selector, slot map, render order and viewlet descriptors, plus the sample
// record the CLI renders and the settings of the live server. Layouts are
// read with viper from viewlets.yaml, viewlets.json or viewlets.toml, and
// any scalar setting can be overridden from the environment with the
// VIEWLETS_ prefix (VIEWLETS_SERVER_ADDR, VIEWLETS_LOG_LEVEL).
//
// # Layout File Structure
//
//	name: charm
//	template: |
//	  <div class="view-container-wrapper">
//	    <nav class="tabs">...</nav>
//	    <div class="overview-slot"></div>
//	    <div class="viewlet-container"></div>
//	  </div>
//	viewlet_container: .viewlet-container
//	slots:
//	  overview: .overview-slot
//	order: [summary]
//	viewlets:
//	  summary:
//	    template: <p data-bind="name">{{.name}}</p>
//	  settings:
//	    slot: overview
//	    template:
//	      value: <dl>...</dl>
//	      writable: false
//	record:
//	  id: cs:precise/wordpress-15
//	  attrs:
//	    name: wordpress
//	server:
//	  addr: localhost:8080
//	log:
//	  level: info
//
// Keys are case-insensitive, so viewlet names and override keys are
// normalized to lower case; use template_wrapper for the wrapper template.
//
// # Usage
//
//	layout, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	c, err := container.New(layout.ContainerConfig(layout.Record()))
package config
