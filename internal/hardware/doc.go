// Package hardware probes the local machine for compute capability: CPU
// thread count, system RAM, PCI display controllers (via udev), VRAM (via
// the vendor SMI tools), and ffmpeg hardware acceleration support.
//
// The resulting Profile drives precision selection for the models and the
// encoder choice for assembly. Detection never fails; every probe degrades
// to conservative CPU-only values on error.
package hardware
