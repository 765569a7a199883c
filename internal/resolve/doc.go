// Package resolve turns a validated selection into the ordered Collection of
// items one request operates on. Expansion is a plain Cartesian product over
// the axes of each adapter plan (first axis outermost), so identical
// selections always yield identical ordered relative paths. The resolver
// performs no I/O.
package resolve
