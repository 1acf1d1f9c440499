// Package pipeline sequences one video generation run: keyword extraction,
// background resolution, voice synthesis, transcription, caption writing,
// and assembly.
//
// Background resolution runs concurrently with voice synthesis because
// neither needs the other's output; every other stage consumes its
// predecessor's artifact and runs strictly in order. A flock-based run lock
// serializes runs sharing one workspace so the background cache keeps a
// single writer.
package pipeline
