// Package domain defines the vocabulary shared by truth, presentation and
// investigation: entity kinds, event kinds, edge categories, evidence types,
// confidence bands, time windows and invariant errors.
//
// domain imports nothing internal.
package domain
