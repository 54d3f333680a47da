// Package normalisers provides the Normaliser registry and the
// implementations that clean note formats before chunking. Each normaliser
// knows how to reduce one file type to plain sentences.
//
// Normalisers are registered with the Registry at startup; see NewDefaultRegistry.
package normalisers
