// Package language normalizes user language input to the ISO 639-1 codes the
// voice cloning model supports. Regional tags and English names are folded to
// their base code; anything outside the supported set is rejected with a
// message listing the accepted codes.
package language
