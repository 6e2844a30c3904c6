// Package deduction judges the evidence a hypothesis rests on.
//
// The central rule is evidence composition. Evidence is sorted into classes
// (testimonial, physical, temporal), each class is checked for whether it is
// structural, and the count of structural classes gives the tier:
//
//	CLEAN   two or more structural classes, not carried by testimony alone
//	SHAKY   exactly one structural class
//	FAILED  none
//
// A class is structural when:
//
//	physical     at least one physical item
//	temporal     temporal items whose windows share a common tick, backed by
//	             at least one physical item
//	testimonial  testimony corroborated by at least one non-testimonial item
//
// Class assignment is a pure function of an item's detail kind and origin.
// Anything derived from testimony is testimonial, whatever its kind; new
// non-testimonial classes can be registered but never take testimony.
package deduction
