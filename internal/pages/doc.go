// Package pages turns the records of one content directory into the HTML
// fragment of one site page.
//
// Every assembler either returns real content or a placeholder fragment; the
// "no data" case is a value, not an error. Errors are reserved for conditions
// that make a page impossible to produce, such as a missing repository
// identifier for the home page file index.
//
// Assemblers are stateless. Everything they read comes in through Env, and
// they never write files.
package pages
