// Package stats collects named in-process statistics and exports them.
//
// A Registry hands out handlers by kind and name. Asking for the same name
// twice returns the same handler, so call sites can look handlers up instead
// of passing them around:
//
//	reg := stats.NewRegistry()
//	reg.Counter("requests").Inc()
//	reg.Timer("render").Time(func() { render() })
//	reg.KeyedCounter("status").Inc("200")
//
// CacheHandler satisfies cache.Recorder:
//
//	c, _ := cache.New[string, []byte](1000, cache.WithRecorder(reg.Cache("pages")))
//
// Registry.Visit walks every handler in a stable order. Snapshot and ExportYAML
// are built on it, and Handler serves the same data over HTTP.
package stats
