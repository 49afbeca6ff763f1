// Package media inspects the input audio before it is handed to Whisper.
//
// Probe confirms the input is a readable regular file and gathers what it
// can cheaply learn about it: the container type (via tag sniffing), WAV
// header fields, and, when ffprobe is installed, duration and stream counts.
// Only a missing or unreadable input is an error; everything else is
// best-effort metadata for logs and the CLI.
package media
