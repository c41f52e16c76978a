// Package factory provides a small generic registry used to instantiate
// modules from configuration. A module is described by a type string and a
// map of raw settings; factories decode the settings into typed structs with
// Decode and return the concrete implementation.
//
// The metrics sinks are built this way:
//
//	sinks:
//	  - type: prometheus
//	  - type: influx
//	    conf: {url: "http://localhost:8086", org: "school", bucket: "timetable"}
package factory
