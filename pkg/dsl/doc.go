// Package dsl offers a fluent builder for questionnaire graphs, aimed at
// tests and programmatic graph construction. The visual editor export path
// goes through internal/importer instead.
package dsl
