// Package srt renders transcription segments as SubRip subtitles.
//
// Timestamps are formatted as HH:MM:SS,mmm (truncated to the millisecond),
// entries are numbered from 1 in segment order, and files are replaced
// atomically so a failed write never leaves a truncated subtitle behind.
package srt
