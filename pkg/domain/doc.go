// Package domain contains the core questionnaire graph types shared by the
// engine, the registry, and all adapters. Graphs are authored externally by
// the visual editor; within a traversal session they are immutable input.
package domain
