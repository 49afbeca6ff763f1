// Package transcribe drives the external Whisper speech recognition tool.
//
// Load validates a ModelConfig and resolves the device, returning a Model
// handle. Model.Transcribe runs Whisper once against an audio file with fixed
// options (English, word timestamps, fp16 only on CUDA) and returns the
// segments it produced, in order. Whisper writes JSON into a private
// temporary directory that is parsed and removed before Transcribe returns.
package transcribe
