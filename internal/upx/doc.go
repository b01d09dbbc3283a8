// Package upx locates the optional executable compressor. Only its presence
// and directory matter to the engine; the compressor itself is driven by the
// packaging tool.
package upx
