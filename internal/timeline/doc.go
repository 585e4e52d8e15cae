// Package timeline flattens a multi-speaker transcript into a single ordered
// phrase sequence with absolute start offsets.
//
// Speakers are interleaved round-robin: the first phrase of every speaker,
// then the second phrase of every speaker, and so on, skipping speakers whose
// phrases are exhausted. Consecutive phrases are separated by the transcript
// pause; there is no pause before the first phrase or after the last.
//
// A Timeline is immutable once built and safe for concurrent readers.
package timeline
