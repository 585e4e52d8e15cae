// Package main hosts the parley CLI entrypoint and command graph.
//
// `parley play` is the interactive front end: it starts a session, reads
// single-letter commands from stdin and prints each phrase as it becomes
// active. The remaining commands inspect transcripts (`timeline`), the
// session journal (`history`), a running session over its control socket
// (`ctl`), configuration (`config`) and the host (`doctor`).
//
// Keep this package lean: behaviour lives in the internal packages and the
// commands here only translate flags and render output.
package main
