// Command voxreel generates short-form vertical videos: it clones a voice
// from a reference sample, narrates a script with it, resolves a stock
// background from the script's keywords, burns in word-synced captions, and
// assembles the result with ffmpeg.
package main
