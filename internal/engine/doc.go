// Package engine implements the orchestration core: a request is a
// selection over dataset dimensions, the engine resolves it into a
// deterministic item list, makes each file locally present (fetching on
// miss), parses the files, and shapes the payloads into the caller's
// requested form. Install failures and user refusals abort the whole
// request; nothing partial is returned.
package engine
