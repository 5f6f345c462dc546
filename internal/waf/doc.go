// Package waf compiles declarative firewall feature declarations into an
// ordered, collision-free list of evaluation rules plus a resolved deployment
// scope. Compilation is a pure function: no I/O, no shared state, and the
// same input always produces the same rule list.
//
// The deployment collaborator (package deploy) consumes the compiled policy
// verbatim; nothing in this package talks to a cloud API.
package waf
