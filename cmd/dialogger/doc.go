// Command dialogger converts an audio file into SubRip subtitles using
// OpenAI Whisper.
//
//	dialogger convert talk.mp3                 # writes talk.srt
//	dialogger convert talk.mp3 -o out.srt --model small --device cuda
//	dialogger status                           # config and dependency report
//	dialogger config init                      # write a sample config
package main
