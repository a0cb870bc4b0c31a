// Package domain holds the value types shared by the buffer, the splitter
// and the delivery engine: [Record], [Chunk], the sentinel errors and
// [DeliveryError].
//
// The Remote* constants mirror the hard ceilings of the stream service;
// writer configuration is validated against them at construction time.
package domain
