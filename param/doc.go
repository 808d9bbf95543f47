// Package param defines execution attributes: declared inputs that are
// checked for presence, coerced to a declared type, and written back to
// the shared context before a work body runs.
//
// Coercion is registry-based. The default registry covers the common
// scalar and collection types via mapstructure decode hooks; custom
// types can be registered with Register.
package param
