// Package huff implements a parallel Huffman file compressor.
//
// Compression counts byte frequencies, builds a Huffman tree with a
// deterministic tie-break, derives a prefix-free code table from it and
// packs every input byte's code into an MSB-first bit stream.  Counting and
// packing are split across a fixed number of workers; the result is
// byte-identical for every worker count.
//
// The container produced by Compress is:
//
//	entry count         1 byte
//	per entry:
//	    symbol          1 byte
//	    bit length      1 byte, 1..255
//	    code            ceil(length/8) bytes, MSB-first
//	payload bit count   8 bytes, big-endian
//	payload             ceil(bit count/8) bytes, MSB-first, zero-padded
//
// References:
//
//	<https://en.wikipedia.org/wiki/Huffman_coding>
package huff
