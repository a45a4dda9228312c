// Package dbase reads and writes dBase and FoxPro tables (.dbf) and resolves
// memo fields stored in their companion memo files (.dbt/.fpt).
//
// A table is read sequentially or by record position through a Reader, which
// decodes every field into a typed Value. Tables are written through a Builder
// that freezes the column layout and a Writer that appends one record at a time.
//
// The package performs no indexing, searching or locking beyond optional
// advisory file locks. Readers and writers own their streams and are not safe
// for concurrent use; parallel reading is done by opening one Reader per worker.
package dbase

// Config is a struct containing the configuration for opening a dBase table.
// The filename is only required when opening a file from disk with Open.
//
// The encoding is resolved in this order: Converter, Encoding (a code page label
// like "windows-1252" or "shift_jis"), the code page mark of the table header.
type Config struct {
	Filename         string            // The filename of the DBF file.
	Converter        EncodingConverter // The encoding converter to use.
	Encoding         string            // Code page label used if no converter is set.
	Exclusive        bool              // If true the file is locked exclusively instead of shared.
	Untested         bool              // If true the file version is not checked.
	ValidateCodePage bool              // Whether or not the code page mark should match the converter.
	TrimSpaces       bool              // Trim spaces of string values in ToMap and ToJSON.
}

// WriterConfig is the configuration used by a Builder.
// If neither Converter nor Encoding is set the table is written as Windows-1252.
type WriterConfig struct {
	Converter EncodingConverter // The encoding converter to use.
	Encoding  string            // Code page label used if no converter is set.
	Version   FileVersion       // The file version byte, FoxBasePlus if zero.
}
