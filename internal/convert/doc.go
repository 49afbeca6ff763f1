// Package convert runs the audio-to-SRT pipeline.
//
// Convert is the single synchronous call: probe the input, load the Whisper
// model, transcribe, and write the subtitle file. Runner moves that call onto a
// background goroutine for the CLI and guarantees only one conversion runs at
// a time, both within the process and, through an advisory lock file, across
// processes.
package convert
